// Package deflicker drives the whole pipeline: it measures the mean color of
// every frame, smooths the resulting series, then plots it and/or rewrites
// each frame so its mean color follows the smoothed series.
package deflicker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ArnaudCalmettes/deflicker/imp"
	"github.com/ArnaudCalmettes/deflicker/input"
	"github.com/ArnaudCalmettes/deflicker/models"
	"github.com/ArnaudCalmettes/deflicker/plot"
	"github.com/ArnaudCalmettes/deflicker/series"
	"golang.org/x/sync/errgroup"
)

const component = "deflicker"

// Result holds the measured and smoothed series of a sequence.
type Result struct {
	Frames   []models.Frame
	Raw      models.Signal
	Smoothed models.Signal
}

// Analyze lists the sequence, measures every frame and smooths the series.
func Analyze(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.log()

	frames, err := input.Sequence(cfg.Directory)
	if err != nil {
		return nil, err
	}

	log.Info(component, "Calculating smoothed sequence", map[string]interface{}{
		"frames": len(frames),
		"width":  cfg.Width,
	})
	raw, frames, err := Extract(ctx, cfg, frames)
	if err != nil {
		return nil, err
	}

	smoothed, err := series.SmoothChannels(raw, cfg.Width)
	if err != nil {
		return nil, err
	}
	return &Result{Frames: frames, Raw: raw, Smoothed: smoothed}, nil
}

// Run executes the configured run. Nothing is done when neither a plot nor
// an output directory is configured.
func Run(ctx context.Context, cfg Config) error {
	log := cfg.log()
	mode := cfg.Mode()
	if mode == ModeNone {
		log.Info(component, "Exiting without doing anything", nil)
		return nil
	}

	res, err := Analyze(ctx, cfg)
	if err != nil {
		return err
	}

	if mode == ModePlot || mode == ModeBoth {
		log.Info(component, "Plotting smoothed and unsmoothed sequences", map[string]interface{}{
			"file": cfg.PlotPath,
		})
		if err := plot.Render(cfg.PlotPath, res.Raw, res.Smoothed, cfg.Width); err != nil {
			return err
		}
	}

	if mode == ModeAdjust || mode == ModeBoth {
		log.Info(component, "Processing images", map[string]interface{}{
			"output": cfg.OutputDir,
		})
		if err := Adjust(ctx, cfg, res.Frames, res.Smoothed); err != nil {
			return err
		}
	}

	log.Info(component, "Finished", nil)
	return nil
}

// Extract measures the mean color of every frame. Frames are processed
// concurrently; the signal rows follow the frames order. With SkipInvalid,
// undecodable frames are dropped from both the signal and the returned
// frames.
func Extract(ctx context.Context, cfg Config, frames []models.Frame) (models.Signal, []models.Frame, error) {
	log := cfg.log()
	means := make([][]float64, len(frames))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers())
	for i, f := range frames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := imp.ReadFile(f.Path)
			if errors.Is(err, imp.ErrDecode) && cfg.SkipInvalid {
				log.Warning(component, "skipping frame", map[string]interface{}{
					"frame": f.Name,
					"error": err.Error(),
				})
				return nil
			} else if err != nil {
				return err
			}
			m, err := imp.Mean(img)
			if err != nil {
				return fmt.Errorf("%s: %w", f.Name, err)
			}
			means[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	kept := make([]models.Frame, 0, len(frames))
	sig := make(models.Signal, 0, len(frames))
	for i, m := range means {
		if m == nil {
			continue
		}
		kept = append(kept, frames[i])
		sig = append(sig, m)
	}
	if len(kept) == 0 {
		return nil, nil, fmt.Errorf("%w: no decodable frame in %s", input.ErrEmptySequence, cfg.Directory)
	}
	return sig, kept, nil
}

// Adjust relaxes frame i toward targets[i] and writes it, under the same
// name, to the output directory, which is created if needed. The output
// directory may be the input one. Every frame name must carry an extension
// imp.Save can encode; this is checked before anything is written.
func Adjust(ctx context.Context, cfg Config, frames []models.Frame, targets models.Signal) error {
	if len(frames) != targets.Len() {
		return fmt.Errorf("deflicker: %d frames for %d targets", len(frames), targets.Len())
	}
	for _, f := range frames {
		if err := imp.CheckSaveFormat(f.Name); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}
	log := cfg.log()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers())
	for i, f := range frames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := imp.ReadFile(f.Path)
			if err != nil {
				return err
			}

			iterations, err := imp.RelaxToMean(img, targets[i], cfg.Relax)
			if errors.Is(err, imp.ErrConvergence) && cfg.SkipInvalid {
				log.Warning(component, "frame did not reach its target mean", map[string]interface{}{
					"frame": f.Name,
					"error": err.Error(),
				})
			} else if err != nil {
				return fmt.Errorf("%s: %w", f.Name, err)
			}
			log.Debug(component, "frame relaxed", map[string]interface{}{
				"frame":      f.Name,
				"iterations": iterations,
			})

			return imp.Save(filepath.Join(cfg.OutputDir, f.Name), img, cfg.quality())
		})
	}
	return g.Wait()
}

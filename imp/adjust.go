package imp

import (
	"errors"
	"fmt"
	"math"
)

// RelaxOptions controls when RelaxToMean considers a channel converged and
// when it gives up. Zero or negative fields take their default value, so
// neither tolerance can be made exactly zero.
type RelaxOptions struct {
	// RelTol and AbsTol define closeness: |mean - target| <= AbsTol + RelTol*|target|.
	RelTol float64
	AbsTol float64

	// MaxIterations caps the number of rescaling passes per channel.
	MaxIterations int
}

// Default closeness tolerances and iteration cap.
const (
	DefaultRelTol        = 1e-5
	DefaultAbsTol        = 1e-8
	DefaultMaxIterations = 1000
)

// DefaultRelaxOptions returns the options used when none are given.
func DefaultRelaxOptions() RelaxOptions {
	return RelaxOptions{
		RelTol:        DefaultRelTol,
		AbsTol:        DefaultAbsTol,
		MaxIterations: DefaultMaxIterations,
	}
}

func (o RelaxOptions) withDefaults() RelaxOptions {
	if o.RelTol <= 0 {
		o.RelTol = DefaultRelTol
	}
	if o.AbsTol <= 0 {
		o.AbsTol = DefaultAbsTol
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	return o
}

func (o RelaxOptions) isClose(mean, target float64) bool {
	return math.Abs(mean-target) <= o.AbsTol+o.RelTol*math.Abs(target)
}

// RelaxToMean adjusts img in place so that the mean of channel c becomes
// target[c], by repeatedly multiplying the channel by target/mean and
// clamping every value to 1. It returns the number of passes spent on each
// channel.
//
// Channels are relaxed independently. A channel that cannot reach its
// target is left at the closest mean it reached and the others are still
// relaxed; the returned error joins one ErrConvergence per failing channel.
func RelaxToMean(img *FloatImage, target []float64, opts RelaxOptions) ([]int, error) {
	if len(target) != img.NumChannels() {
		return nil, fmt.Errorf("%w: %d targets for %d channels", ErrMismatchedChannels, len(target), img.NumChannels())
	}
	iterations := make([]int, len(target))
	var errs []error
	for c, t := range target {
		n, err := RelaxChannel(img, c, t, opts)
		iterations[c] = n
		if err != nil {
			errs = append(errs, err)
		}
	}
	return iterations, errors.Join(errs...)
}

// RelaxChannel adjusts channel c of img in place so its mean becomes target.
func RelaxChannel(img *FloatImage, c int, target float64, opts RelaxOptions) (int, error) {
	opts = opts.withDefaults()

	mean, err := MeanChannel(img, c)
	if err != nil {
		return 0, err
	}
	if opts.isClose(mean, target) {
		return 0, nil
	}
	// Values live in [0,1], so must their mean.
	if math.IsNaN(target) || target < 0 || target > 1 {
		return 0, convergenceError(c, target, mean, 0)
	}

	ch := img.Channels[c]
	for i := 1; i <= opts.MaxIterations; i++ {
		if mean == 0 {
			// Nothing left to scale.
			return i - 1, convergenceError(c, target, mean, i-1)
		}
		ratio := target / mean
		for j, v := range ch {
			ch[j] = math.Min(1, v*ratio)
		}

		next, err := channelMean(ch)
		if err != nil {
			return i, err
		}
		if opts.isClose(next, target) {
			return i, nil
		}
		if next == mean {
			// Every pixel able to move is pinned at 1 (or 0).
			return i, convergenceError(c, target, next, i)
		}
		mean = next
	}
	return opts.MaxIterations, convergenceError(c, target, mean, opts.MaxIterations)
}

func convergenceError(c int, target, reached float64, iterations int) error {
	return fmt.Errorf("%w: channel %d target %g reached %g after %d iterations",
		ErrConvergence, c, target, reached, iterations)
}

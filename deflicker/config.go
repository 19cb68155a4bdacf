package deflicker

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/ArnaudCalmettes/deflicker/imp"
	"github.com/ArnaudCalmettes/deflicker/logger"
)

// Mode tells which outputs a run produces.
type Mode int

const (
	ModeNone Mode = iota
	ModePlot
	ModeAdjust
	ModeBoth
)

func (m Mode) String() string {
	switch m {
	case ModePlot:
		return "plot"
	case ModeAdjust:
		return "adjust"
	case ModeBoth:
		return "plot+adjust"
	default:
		return "none"
	}
}

// DefaultQuality is the JPEG quality used for adjusted frames.
const DefaultQuality = 95

// Config describes one deflicker run.
type Config struct {
	Directory string // input sequence directory
	Width     int    // square filter width, in frames

	PlotPath  string // render the series plot to this file when set
	OutputDir string // write adjusted frames to this directory when set

	Workers     int  // number of frames processed concurrently, GOMAXPROCS when <= 0
	Quality     int  // JPEG quality of adjusted frames
	SkipInvalid bool // skip undecodable frames and keep unconverged ones

	Relax  imp.RelaxOptions
	Logger logger.Logger
}

// Mode derives the run mode from the configured output paths.
func (c Config) Mode() Mode {
	switch {
	case c.PlotPath != "" && c.OutputDir != "":
		return ModeBoth
	case c.PlotPath != "":
		return ModePlot
	case c.OutputDir != "":
		return ModeAdjust
	default:
		return ModeNone
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.Directory == "" {
		return errors.New("deflicker: no input directory")
	}
	if c.Width < 1 {
		return fmt.Errorf("deflicker: filter width must be >= 1: %d", c.Width)
	}
	if c.Quality < 0 || c.Quality > 100 {
		return fmt.Errorf("deflicker: jpeg quality must be in [0,100]: %d", c.Quality)
	}
	return nil
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}

func (c Config) quality() int {
	if c.Quality == 0 {
		return DefaultQuality
	}
	return c.Quality
}

func (c Config) log() logger.Logger {
	if c.Logger == nil {
		return logger.Nop()
	}
	return c.Logger
}

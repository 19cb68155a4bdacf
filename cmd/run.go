package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/ArnaudCalmettes/deflicker/deflicker"
	"github.com/ArnaudCalmettes/deflicker/imp"
	"github.com/ArnaudCalmettes/deflicker/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errReported is returned once a failure has been logged, so that Execute
// only sets the exit status.
var errReported = errors.New("run failed")

func runDeflicker(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	return report(cfg.Logger, deflicker.Run(cmd.Context(), cfg))
}

// report logs a failed run through log and returns errReported.
func report(log logger.Logger, err error) error {
	if err == nil {
		return nil
	}
	log.Error("deflicker", err, nil)
	return fmt.Errorf("%w: %v", errReported, err)
}

// loadConfig builds a run configuration from the positional arguments and
// the values gathered by viper (flags, environment, config file).
func loadConfig(args []string) (deflicker.Config, error) {
	width, err := parseWidth(args[1])
	if err != nil {
		return deflicker.Config{}, err
	}
	return deflicker.Config{
		Directory:   args[0],
		Width:       width,
		PlotPath:    viper.GetString("plot"),
		OutputDir:   viper.GetString("adjust"),
		Workers:     viper.GetInt("workers"),
		Quality:     viper.GetInt("quality"),
		SkipInvalid: viper.GetBool("skip-invalid"),
		Relax: imp.RelaxOptions{
			RelTol:        viper.GetFloat64("relax.tolerance"),
			AbsTol:        viper.GetFloat64("relax.atol"),
			MaxIterations: viper.GetInt("relax.max-iterations"),
		},
		Logger: newLogger(),
	}, nil
}

func parseWidth(s string) (int, error) {
	w, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid width %q: %w", s, err)
	}
	if w < 1 {
		return 0, fmt.Errorf("invalid width %d: must be >= 1", w)
	}
	return w, nil
}

func newLogger() logger.Logger {
	level := logger.ParseLevel(viper.GetString("log-level"))
	if viper.GetBool("log-json") {
		return logger.NewZerolog(os.Stderr, level)
	}
	return logger.NewConsole(os.Stderr, level)
}

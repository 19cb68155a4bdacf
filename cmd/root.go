package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ArnaudCalmettes/deflicker/deflicker"
	"github.com/ArnaudCalmettes/deflicker/imp"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "deflicker <directory> <width>",
	Short: "Remove flicker from a series of images",
	Long: `Reads the images of <directory> in ascending order of the number found in
their names, computes their mean RGB values, smooths that sequence with a
square filter <width> images wide, then plots both sequences (--plot) and/or
writes images whose mean RGB values follow the smoothed sequence (--adjust).`,
	Args:          cobra.ExactArgs(2),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runDeflicker,
}

// Execute runs the root command. Interrupting the process cancels the
// images still being processed.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.deflicker.yaml)")
	rootCmd.PersistentFlags().Int("workers", runtime.GOMAXPROCS(0), "number of images processed concurrently")
	rootCmd.PersistentFlags().Bool("skip-invalid", false, "skip unreadable images instead of aborting")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON instead of console output")
	viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	viper.BindPFlag("skip-invalid", rootCmd.PersistentFlags().Lookup("skip-invalid"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log-json", rootCmd.PersistentFlags().Lookup("log-json"))

	rootCmd.Flags().String("plot", "", "plot the sequences before and after smoothing to this file")
	rootCmd.Flags().String("adjust", "", "write adjusted images to this directory (may be <directory>); images must be jpg, png, gif, tif or bmp")
	rootCmd.Flags().Int("quality", deflicker.DefaultQuality, "JPEG quality of adjusted images")
	viper.BindPFlag("plot", rootCmd.Flags().Lookup("plot"))
	viper.BindPFlag("adjust", rootCmd.Flags().Lookup("adjust"))
	viper.BindPFlag("quality", rootCmd.Flags().Lookup("quality"))

	viper.SetDefault("relax.tolerance", imp.DefaultRelTol)
	viper.SetDefault("relax.atol", imp.DefaultAbsTol)
	viper.SetDefault("relax.max-iterations", imp.DefaultMaxIterations)
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".deflicker" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".deflicker")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.SetEnvPrefix("DEFLICKER")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

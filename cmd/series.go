package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/ArnaudCalmettes/deflicker/deflicker"
	"github.com/spf13/cobra"
)

var csvFile string

// seriesCmd represents the series command
var seriesCmd = &cobra.Command{
	Use:   "series <directory> <width>",
	Short: "Print the mean RGB sequence before and after smoothing",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}
		res, err := deflicker.Analyze(cmd.Context(), cfg)
		if err != nil {
			return report(cfg.Logger, err)
		}
		if csvFile == "" {
			return writeTable(cmd.OutOrStdout(), res)
		}

		f, err := os.Create(csvFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := writeCSV(f, res); err != nil {
			return err
		}
		return f.Close()
	},
}

func init() {
	rootCmd.AddCommand(seriesCmd)

	seriesCmd.Flags().StringVar(&csvFile, "csv", "", "export the sequences to a csv file")
}

func writeTable(out io.Writer, res *deflicker.Result) error {
	w := tabwriter.NewWriter(out, 5, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FRAME\tR\tG\tB\tR'\tG'\tB'\t")
	for i, f := range res.Frames {
		raw, smooth := res.Raw[i], res.Smoothed[i]
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t\n",
			f.Name, raw[0], raw[1], raw[2], smooth[0], smooth[1], smooth[2])
	}
	return w.Flush()
}

func writeCSV(out io.Writer, res *deflicker.Result) error {
	w := csv.NewWriter(out)
	w.Write([]string{"frame", "number", "r", "g", "b", "r_smooth", "g_smooth", "b_smooth"})
	for i, f := range res.Frames {
		record := []string{f.Name, f.Number}
		for _, v := range res.Raw[i] {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		for _, v := range res.Smoothed[i] {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		w.Write(record)
	}
	w.Flush()
	return w.Error()
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/hominid-cli/internal/analysis"
)

var (
	descOutputPath string
	descDelimiter  string
	descOutliers   bool
	descOutlierThr float64
	descMaxGroups  int
)

var describeCmd = &cobra.Command{
	Use:   "describe [file]",
	Short: "Summarize the dataset as Markdown",
	Long:  "Summarize the dataset as Markdown. Without a file argument the configured data file is used.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := cfg.DataFile
		if len(args) == 1 {
			name = args[0]
		}
		delim := cfg.Delimiter
		if descDelimiter != "" {
			delim = descDelimiter
		}
		coll, path, err := loadCollection(name, delim)
		if err != nil {
			return err
		}

		opt := analysis.DefaultOptions()
		opt.Name = filepath.Base(path)
		if cmd.Flags().Changed("outliers") {
			opt.Outliers = descOutliers
		}
		if descOutlierThr > 0 {
			opt.OutlierThreshold = descOutlierThr
		}
		if descMaxGroups > 0 {
			opt.MaxGroups = descMaxGroups
		}
		md := analysis.Summarize(coll, opt).Markdown()

		if descOutputPath != "" {
			if err := os.WriteFile(descOutputPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", descOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVarP(&descOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
	describeCmd.Flags().StringVar(&descDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (overrides config)")
	describeCmd.Flags().BoolVar(&descOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	describeCmd.Flags().Float64Var(&descOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
	describeCmd.Flags().IntVar(&descMaxGroups, "max-groups", 20, "maximum species listed in the group-by section")
}

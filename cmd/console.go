package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/hominid-cli/internal/console"
	"github.com/KaramelBytes/hominid-cli/internal/plot"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Load the dataset and open the interactive plotting console",
	Args:  cobra.NoArgs,
	RunE:  runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	coll, path, err := loadCollection(cfg.DataFile, cfg.Delimiter)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Loaded %d records from %s\n", coll.Len(), path)

	renderer := &plot.Renderer{Dir: cfg.ChartDir, Viewer: cfg.Viewer, Out: out, Logger: logger}
	con := console.New(coll, renderer, out, console.Options{
		DatasetName:         filepath.Base(path),
		Bins:                cfg.HistogramBins,
		BootstrapIterations: cfg.BootstrapIterations,
		Seed:                cfg.Seed,
		Logger:              logger,
	})
	return con.Run(cmd.Context(), cmd.InOrStdin())
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

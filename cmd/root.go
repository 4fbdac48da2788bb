package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/hominid-cli/internal/config"
	"github.com/KaramelBytes/hominid-cli/internal/dataset"
	"github.com/KaramelBytes/hominid-cli/internal/hominid"
	"github.com/KaramelBytes/hominid-cli/internal/utils"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Dataset/chart flags (override config if set)
	flagDataFile string
	flagChartDir string
	flagViewer   string

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "hominid",
	Short: "Hominid: explore skull-to-body ratios across hominid species",
	Long: `Hominid loads a dataset of fossil hominid specimens and opens an interactive
console of charts and statistical tests relating cranial capacity, body height,
technology use and species.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConsole,
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.hominid/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagDataFile, "data", "", "dataset CSV/TSV (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagChartDir, "chart-dir", "", "directory for rendered charts (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagViewer, "viewer", "", "command used to open charts, e.g. xdg-open (overrides config)")
}

func loadConfig() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("data") && flagDataFile != "" {
		cfg.DataFile = flagDataFile
	}
	if f.Changed("chart-dir") && flagChartDir != "" {
		cfg.ChartDir = flagChartDir
	}
	if f.Changed("viewer") {
		cfg.Viewer = flagViewer
	}
	logger.Debug("config loaded", "data_file", cfg.DataFile, "chart_dir", cfg.ChartDir, "viewer", cfg.Viewer)
}

// loadCollection resolves name against the working directory and its parents
// and loads every record. Any invalid row aborts the load.
func loadCollection(name, delimiter string) (*hominid.Collection, string, error) {
	delim, err := dataset.ParseDelimiter(delimiter)
	if err != nil {
		return nil, "", err
	}
	path, err := utils.FindDataFile(name, "")
	if err != nil {
		return nil, "", err
	}
	opt := dataset.DefaultOptions()
	opt.Delimiter = delim
	start := time.Now()
	coll, err := dataset.Load(path, opt)
	if err != nil {
		return nil, "", fmt.Errorf("load %s: %w", path, err)
	}
	logger.Debug("dataset loaded", "path", path, "records", coll.Len(), "elapsed", time.Since(start))
	return coll, path, nil
}

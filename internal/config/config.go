package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Dataset
	DataFile  string `mapstructure:"data_file" yaml:"data_file"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	// Charts
	ChartDir      string `mapstructure:"chart_dir" yaml:"chart_dir"`
	Viewer        string `mapstructure:"viewer" yaml:"viewer"`
	HistogramBins int    `mapstructure:"histogram_bins" yaml:"histogram_bins"`

	// Statistics
	BootstrapIterations int    `mapstructure:"bootstrap_iterations" yaml:"bootstrap_iterations"`
	Seed                uint64 `mapstructure:"seed" yaml:"seed"`
}

// Default returns the built-in configuration.
func Default() *Global {
	return &Global{
		DataFile:            "evolution_data.csv",
		ChartDir:            filepath.Join(os.TempDir(), "hominid-charts"),
		HistogramBins:       10,
		BootstrapIterations: 1000,
	}
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".hominid"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.hominid/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("HOMINID")
	v.AutomaticEnv()

	// Defaults
	d := Default()
	v.SetDefault("data_file", d.DataFile)
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("chart_dir", "")
	v.SetDefault("viewer", d.Viewer)
	v.SetDefault("histogram_bins", d.HistogramBins)
	v.SetDefault("bootstrap_iterations", d.BootstrapIterations)
	v.SetDefault("seed", d.Seed)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.ChartDir == "" {
		c.ChartDir = d.ChartDir
	}
	if c.DataFile == "" {
		c.DataFile = d.DataFile
	}
	return &c, nil
}

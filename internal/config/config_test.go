package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "evolution_data.csv", c.DataFile)
	assert.Equal(t, 10, c.HistogramBins)
	assert.Equal(t, 1000, c.BootstrapIterations)
	assert.Equal(t, uint64(0), c.Seed)
	assert.NotEmpty(t, c.ChartDir)
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := &Global{DataFile: "/data/hominids.tsv", Viewer: "feh", HistogramBins: 15, BootstrapIterations: 200, Seed: 42}
	require.NoError(t, Save(c, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/hominids.tsv", got.DataFile)
	assert.Equal(t, "feh", got.Viewer)
	assert.Equal(t, 15, got.HistogramBins)
	assert.Equal(t, 200, got.BootstrapIterations)
	assert.Equal(t, uint64(42), got.Seed)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(&Global{HistogramBins: 15}, path))
	t.Setenv("HOMINID_HISTOGRAM_BINS", "25")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, got.HistogramBins)
}

func TestEmptyFileValuesFallBack(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(&Global{Viewer: "feh"}, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().DataFile, got.DataFile)
	assert.Equal(t, Default().ChartDir, got.ChartDir)
}

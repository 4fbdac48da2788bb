package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/hominid-cli/internal/hominid"
	"github.com/KaramelBytes/hominid-cli/internal/plot"
	"github.com/KaramelBytes/hominid-cli/internal/stats"
)

type fakeDisplay struct {
	charts []plot.Chart
	err    error
}

func (f *fakeDisplay) Display(_ context.Context, c plot.Chart) (string, error) {
	f.charts = append(f.charts, c)
	return "/tmp/" + c.Name() + ".png", f.err
}

func rec(species string, cranial, height float64, tech hominid.TechType) hominid.Record {
	return hominid.NewRecord(species, cranial, height, tech, hominid.Omnivore)
}

// Mode 2 holds two clearly separated species, mode 1 a single one.
func fixture() *hominid.Collection {
	return hominid.NewCollection([]hominid.Record{
		rec("Australopithecus afarensis", 450, 110, hominid.NoTech),
		rec("Australopithecus afarensis", 470, 105, hominid.NoTech),
		rec("Homo habilis", 600, 120, hominid.Mode1),
		rec("Homo habilis", 610, 122, hominid.Mode1),
		rec("Homo habilis", 640, 118, hominid.Mode1),
		rec("Homo erectus", 100, 100, hominid.Mode2),
		rec("Homo erectus", 200, 100, hominid.Mode2),
		rec("Homo erectus", 300, 100, hominid.Mode2),
		rec("Homo erectus", 400, 100, hominid.Mode2),
		rec("Homo ergaster", 500, 100, hominid.Mode2),
		rec("Homo ergaster", 600, 100, hominid.Mode2),
		rec("Homo ergaster", 700, 100, hominid.Mode2),
		rec("Homo ergaster", 800, 100, hominid.Mode2),
	})
}

func newConsole(data *hominid.Collection, d Display) (*Console, *bytes.Buffer) {
	var out bytes.Buffer
	return New(data, d, &out, Options{DatasetName: "fixture.csv", BootstrapIterations: 200, Seed: 7}), &out
}

func TestRunEndsOnExitQuitAndEOF(t *testing.T) {
	for _, input := range []string{"exit\nsummary\n", "quit\nsummary\n", ""} {
		c, out := newConsole(fixture(), &fakeDisplay{})
		require.NoError(t, c.Run(context.Background(), strings.NewReader(input)))
		assert.Contains(t, out.String(), "These are the options:")
		assert.NotContains(t, out.String(), "[DATASET SUMMARY]", "input %q ran past the stop word", input)
	}
}

func TestRunEndsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	c, _ := newConsole(fixture(), &fakeDisplay{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, pr) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("console did not stop after cancel")
	}
}

func TestUnknownCommandContinues(t *testing.T) {
	c, out := newConsole(fixture(), &fakeDisplay{})
	require.NoError(t, c.Run(context.Background(), strings.NewReader("dance\nspearman\nexit\n")))
	assert.Contains(t, out.String(), "not a possible command")
	assert.Contains(t, out.String(), "Spearman rho")
}

func TestCommandsMatchExactly(t *testing.T) {
	c, out := newConsole(fixture(), &fakeDisplay{})
	assert.False(t, c.Execute(context.Background(), " exit "))
	assert.False(t, c.Execute(context.Background(), "Spearman"))
	assert.False(t, c.Execute(context.Background(), "spearman "))
	assert.Equal(t, 3, strings.Count(out.String(), "not a possible command"))
	assert.NotContains(t, out.String(), "Spearman rho")

	assert.True(t, c.Execute(context.Background(), "quit\r"))
}

func TestHelpListsEveryCommand(t *testing.T) {
	c, out := newConsole(fixture(), nil)
	c.Help()
	for _, name := range c.Commands() {
		assert.Contains(t, out.String(), name+"\n")
	}
	assert.Len(t, c.Commands(), 14)
	assert.Equal(t, "skull bar chart", c.Commands()[0])
}

func TestChartCommandsHandOffCharts(t *testing.T) {
	cases := map[string]string{
		"skull bar chart":          "bar",
		"skull distribution":       "histogram",
		"skull to body scatter":    "scatter",
		"sbr/technology boxplot":   "boxplot",
		"sbr distribution":         "histogram",
		"sbr species distribution": "histogram",
		"ecdf plot":                "ecdf",
	}
	for cmd, want := range cases {
		d := &fakeDisplay{}
		c, out := newConsole(fixture(), d)
		assert.False(t, c.Execute(context.Background(), cmd))
		require.Len(t, d.charts, 1, cmd)
		assert.Equal(t, want, d.charts[0].Name(), cmd)
		assert.NotContains(t, out.String(), "✗", cmd)
	}
}

func TestBarChartUsesSpeciesMeans(t *testing.T) {
	d := &fakeDisplay{}
	c, _ := newConsole(fixture(), d)
	c.Execute(context.Background(), "skull bar chart")
	bar := d.charts[0].(plot.Bar)
	assert.Equal(t, []string{"Australopithecus afarensis", "Homo habilis", "Homo erectus", "Homo ergaster"}, bar.Categories)
	assert.InDelta(t, 460, bar.Values[0], 1e-9)
	assert.InDelta(t, 10, bar.Errors[0], 1e-9)
}

func TestBoxplotFollowsTechOrder(t *testing.T) {
	d := &fakeDisplay{}
	c, _ := newConsole(fixture(), d)
	c.Execute(context.Background(), "sbr/technology boxplot")
	box := d.charts[0].(plot.Box)
	require.Len(t, box.Series, 3)
	assert.Equal(t, "no tech", box.Series[0].Name)
	assert.Equal(t, "mode 1", box.Series[1].Name)
	assert.Equal(t, "mode 2", box.Series[2].Name)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8}, box.Series[2].Values)
}

func TestDisplayFailureIsReported(t *testing.T) {
	c, out := newConsole(fixture(), &fakeDisplay{err: errors.New("viewer crashed")})
	assert.False(t, c.Execute(context.Background(), "skull distribution"))
	assert.Contains(t, out.String(), "✗ skull distribution: viewer crashed")
}

func TestKWSpeciesSkipsSingleSpeciesTech(t *testing.T) {
	c, out := newConsole(fixture(), nil)
	c.Execute(context.Background(), "kw species")
	s := out.String()
	assert.Contains(t, s, "Not enough species within technology type no tech for Kruskal-Wallis test.")
	assert.Contains(t, s, "Not enough species within technology type mode 1 for Kruskal-Wallis test.")
	assert.Contains(t, s, "Technology Type: mode 2")
	assert.Contains(t, s, "Groups compared: [Homo erectus, Homo ergaster]")
	assert.Contains(t, s, "Dunn post-hoc test (Bonferroni adjusted):")
	assert.NotContains(t, s, "Technology Type: mode 1")
}

func TestDunnSkippedWhenNotSignificant(t *testing.T) {
	data := hominid.NewCollection([]hominid.Record{
		rec("A", 100, 100, hominid.Mode3),
		rec("A", 200, 100, hominid.Mode3),
		rec("A", 300, 100, hominid.Mode3),
		rec("B", 100, 100, hominid.Mode3),
		rec("B", 200, 100, hominid.Mode3),
		rec("B", 300, 100, hominid.Mode3),
	})
	c, out := newConsole(data, nil)
	c.Execute(context.Background(), "kw species")
	s := out.String()
	assert.Contains(t, s, "Technology Type: mode 3")
	assert.Contains(t, s, "Kruskal-Wallis p-value ≥ 0.05: no significant difference, Dunn post-hoc test skipped.")
	assert.NotContains(t, s, "Dunn post-hoc test (Bonferroni adjusted):")
}

func TestKWTechType(t *testing.T) {
	c, out := newConsole(fixture(), nil)
	c.Execute(context.Background(), "kw tech type")
	s := out.String()
	assert.Contains(t, s, "All technology types")
	assert.Contains(t, s, "Groups compared: [no tech, mode 1, mode 2]")
	assert.Contains(t, s, "Technology types above primitive")
	assert.Contains(t, s, "Groups compared: [mode 1, mode 2]")
}

func TestStatisticalTables(t *testing.T) {
	c, out := newConsole(fixture(), nil)
	for _, cmd := range []string{"ks test", "shapiro wilk test", "linear regression", "summary"} {
		c.Execute(context.Background(), cmd)
	}
	s := out.String()
	assert.Contains(t, s, "Kolmogorov-Smirnov")
	assert.Contains(t, s, "Shapiro-Wilk")
	assert.Contains(t, s, "skipped:")
	assert.Contains(t, s, "ratio ~ height")
	assert.Contains(t, s, "File: fixture.csv")
	assert.NotContains(t, s, "✗")
}

func TestSpearmanNeedsData(t *testing.T) {
	c, out := newConsole(hominid.NewCollection(nil), nil)
	c.Execute(context.Background(), "spearman")
	assert.Contains(t, out.String(), "✗ spearman:")
}

func TestNormalCurveSpansSample(t *testing.T) {
	x, y := normalCurve(stats.Summary{N: 4, Mean: 10, Std: 2, Min: 6, Max: 14}, 5)
	require.Len(t, x, 5)
	assert.InDelta(t, 4, x[0], 1e-9)
	assert.InDelta(t, 16, x[4], 1e-9)
	assert.InDelta(t, 0.5, y[2], 1e-9)
	assert.Less(t, y[0], y[4])
}

// Package console implements the interactive analysis loop over a loaded collection.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/KaramelBytes/hominid-cli/internal/hominid"
	"github.com/KaramelBytes/hominid-cli/internal/plot"
)

// Display shows a chart to the user. It may block until the chart is dismissed.
type Display interface {
	Display(ctx context.Context, c plot.Chart) (string, error)
}

// Options tunes the commands.
type Options struct {
	// DatasetName labels the summary report.
	DatasetName string
	// Bins is the histogram bin count.
	Bins int
	// BootstrapIterations is the KS bootstrap resample count.
	BootstrapIterations int
	// Seed seeds the bootstrap; 0 seeds from the clock.
	Seed   uint64
	Logger *slog.Logger
}

// Console is the single-state command loop.
type Console struct {
	data     *hominid.Collection
	charts   Display
	out      io.Writer
	opt      Options
	rng      *rand.Rand
	log      *slog.Logger
	commands []command
}

type command struct {
	name string
	run  func(ctx context.Context) error
}

var (
	heading = color.New(color.FgCyan, color.Bold)
	warn    = color.New(color.FgYellow)
	failure = color.New(color.FgRed)
)

// New builds a console over data that writes to out and hands charts to charts.
func New(data *hominid.Collection, charts Display, out io.Writer, opt Options) *Console {
	if opt.Bins <= 0 {
		opt.Bins = 10
	}
	if opt.BootstrapIterations <= 0 {
		opt.BootstrapIterations = 1000
	}
	seed := opt.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	lg := opt.Logger
	if lg == nil {
		lg = slog.Default()
	}
	c := &Console{
		data:   data,
		charts: charts,
		out:    out,
		opt:    opt,
		rng:    rand.New(rand.NewPCG(seed, seed>>1|1)),
		log:    lg,
	}
	c.commands = []command{
		{"skull bar chart", c.skullBarChart},
		{"skull distribution", c.skullDistribution},
		{"skull to body scatter", c.skullBodyScatter},
		{"sbr/technology boxplot", c.sbrTechBoxplot},
		{"sbr distribution", c.sbrDistribution},
		{"sbr species distribution", c.sbrSpeciesDistribution},
		{"ks test", c.ksTest},
		{"ecdf plot", c.ecdfPlot},
		{"shapiro wilk test", c.shapiroWilk},
		{"kw species", c.kwSpecies},
		{"kw tech type", c.kwTechType},
		{"spearman", c.spearman},
		{"linear regression", c.linearRegression},
		{"summary", c.summary},
	}
	return c
}

// Commands lists the analysis commands in menu order.
func (c *Console) Commands() []string {
	out := make([]string, len(c.commands))
	for i, k := range c.commands {
		out[i] = k.name
	}
	return out
}

// Run prints the help text and processes one command per input line until
// exit, quit, end of input or cancellation of ctx. All four end the loop the same way.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
	}()

	c.Help()
	for {
		fmt.Fprint(c.out, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(c.out)
				return nil
			}
			if c.Execute(ctx, line) {
				return nil
			}
		}
	}
}

// Execute runs a single input line and reports whether the loop should stop.
// The line must match a command exactly; only a trailing carriage return is dropped.
// It never fails: command errors are printed and the loop continues.
func (c *Console) Execute(ctx context.Context, line string) (quit bool) {
	name := strings.TrimSuffix(line, "\r")
	switch name {
	case "exit", "quit":
		return true
	case "help":
		c.Help()
		return false
	}
	for _, k := range c.commands {
		if k.name != name {
			continue
		}
		start := time.Now()
		if err := k.run(ctx); err != nil {
			failure.Fprintf(c.out, "✗ %s: %v\n", name, err)
		}
		c.log.Debug("command finished", "command", name, "elapsed", time.Since(start))
		return false
	}
	fmt.Fprintln(c.out, "not a possible command")
	return false
}

// Help prints the intro line and the command names.
func (c *Console) Help() {
	fmt.Fprintln(c.out, "This is the plotting console. Choose a possible plot or test to run, or enter exit or quit to stop.")
	fmt.Fprintln(c.out, "These are the options:")
	for _, k := range c.commands {
		fmt.Fprintln(c.out, k.name)
	}
	fmt.Fprintln(c.out, "help")
	fmt.Fprintln(c.out, "exit / quit")
}

func (c *Console) show(ctx context.Context, ch plot.Chart) error {
	if c.charts == nil {
		return fmt.Errorf("no chart display configured")
	}
	_, err := c.charts.Display(ctx, ch)
	return err
}

package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	mstats "github.com/aclements/go-moremath/stats"
	"github.com/olekukonko/tablewriter"

	"github.com/KaramelBytes/hominid-cli/internal/analysis"
	"github.com/KaramelBytes/hominid-cli/internal/hominid"
	"github.com/KaramelBytes/hominid-cli/internal/plot"
	"github.com/KaramelBytes/hominid-cli/internal/stats"
)

const (
	cranialLabel = "cranial capacity (cm³)"
	heightLabel  = "height (cm)"
	ratioLabel   = "skull-body ratio (cm³/cm)"
	separator    = "----------------------------------------"
)

func (c *Console) table(header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(c.out)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	return t
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

func series(groups []hominid.Group) []plot.Series {
	out := make([]plot.Series, len(groups))
	for i, g := range groups {
		out[i] = plot.Series{Name: g.Key, Values: g.Values}
	}
	return out
}

func (c *Console) skullBarChart(ctx context.Context) error {
	groups := hominid.BySpecies(c.data.Records(), hominid.CranialCapacity)
	bar := plot.Bar{Title: "Mean cranial capacity by species", XLabel: "species", YLabel: cranialLabel}
	t := c.table("species", "n", "mean", "std")
	for _, g := range groups {
		s := stats.Describe(g.Values)
		bar.Categories = append(bar.Categories, g.Key)
		bar.Values = append(bar.Values, s.Mean)
		bar.Errors = append(bar.Errors, s.Std)
		t.Append([]string{g.Key, strconv.Itoa(s.N), num(s.Mean), num(s.Std)})
	}
	t.Render()
	return c.show(ctx, bar)
}

func (c *Console) skullDistribution(ctx context.Context) error {
	groups := hominid.BySpecies(c.data.Records(), hominid.CranialCapacity)
	return c.show(ctx, plot.Histogram{
		Title:  "Cranial capacity distribution by species",
		XLabel: cranialLabel,
		Bins:   c.opt.Bins,
		Series: series(groups),
	})
}

func (c *Console) skullBodyScatter(ctx context.Context) error {
	recs := c.data.Records()
	x := make([]float64, len(recs))
	y := make([]float64, len(recs))
	for i, r := range recs {
		x[i], y[i] = r.Height(), r.SkullBodyRatio()
	}
	sc := plot.Scatter{Title: "Skull-body ratio vs height", XLabel: heightLabel, YLabel: ratioLabel, X: x, Y: y}
	if fit, err := stats.LinearFit(x, y); err == nil {
		sc.Trend = true
		sc.Title = fmt.Sprintf("Skull-body ratio vs height (R² = %.3f)", fit.R2)
		fmt.Fprintf(c.out, "ratio = %s + %s * height, R² = %s (n=%d)\n", num(fit.Intercept), num(fit.Slope), num(fit.R2), fit.N)
	} else {
		warn.Fprintf(c.out, "⚠ no trend line: %v\n", err)
	}
	return c.show(ctx, sc)
}

func (c *Console) sbrTechBoxplot(ctx context.Context) error {
	groups := hominid.ByTechType(c.data.Records(), hominid.Ratio)
	return c.show(ctx, plot.Box{
		Title:  "Skull-body ratio by technology type",
		XLabel: "technology type",
		YLabel: ratioLabel,
		Series: series(groups),
	})
}

func (c *Console) sbrDistribution(ctx context.Context) error {
	groups := hominid.ByTechType(c.data.Records(), hominid.Ratio)
	return c.show(ctx, plot.Histogram{
		Title:  "Skull-body ratio distribution by technology type",
		XLabel: ratioLabel,
		Bins:   c.opt.Bins,
		Series: series(groups),
	})
}

func (c *Console) sbrSpeciesDistribution(ctx context.Context) error {
	groups := hominid.BySpecies(c.data.Records(), hominid.Ratio)
	return c.show(ctx, plot.Histogram{
		Title:  "Skull-body ratio distribution by species",
		XLabel: ratioLabel,
		Bins:   c.opt.Bins,
		Series: series(groups),
	})
}

func (c *Console) ksTest(ctx context.Context) error {
	groups := hominid.BySpecies(c.data.Records(), hominid.Ratio)
	heading.Fprintf(c.out, "Kolmogorov-Smirnov test against a fitted normal (α=%.2f, %d bootstrap resamples)\n", stats.Alpha, c.opt.BootstrapIterations)
	t := c.table("species", "n", "D", "critical", "p (bootstrap)", "normal")
	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := stats.KSBootstrap(g.Values, c.opt.BootstrapIterations, c.rng)
		if err != nil {
			t.Append([]string{g.Key, strconv.Itoa(len(g.Values)), "-", "-", "-", "skipped: " + err.Error()})
			continue
		}
		normal := "yes"
		if res.Reject() {
			normal = "no"
		}
		t.Append([]string{g.Key, strconv.Itoa(res.N), num(res.D), num(res.Critical), num(res.PValue), normal})
	}
	t.Render()
	return nil
}

func (c *Console) ecdfPlot(ctx context.Context) error {
	groups := hominid.BySpecies(c.data.Records(), hominid.Ratio)
	chart := plot.ECDF{Title: "Empirical CDF of skull-body ratio by species", XLabel: ratioLabel}
	for _, g := range groups {
		s := stats.Describe(g.Values)
		if s.N < 2 || s.Std == 0 {
			c.log.Debug("ecdf skipped", "species", g.Key, "n", s.N)
			continue
		}
		x, y := stats.ECDF(g.Values)
		fitX, fitY := normalCurve(s, 50)
		chart.Steps = append(chart.Steps, plot.Step{Name: g.Key, X: x, Y: y, FitX: fitX, FitY: fitY})
	}
	if len(chart.Steps) == 0 {
		return fmt.Errorf("no species with at least 2 distinct values: %w", stats.ErrTooFewSamples)
	}
	return c.show(ctx, chart)
}

// normalCurve samples the CDF of the normal fitted to s over its range padded by one std.
func normalCurve(s stats.Summary, points int) (x, y []float64) {
	dist := mstats.NormalDist{Mu: s.Mean, Sigma: s.Std}
	lo, hi := s.Min-s.Std, s.Max+s.Std
	step := (hi - lo) / float64(points-1)
	x = make([]float64, points)
	y = make([]float64, points)
	for i := range x {
		x[i] = lo + float64(i)*step
		y[i] = dist.CDF(x[i])
	}
	return x, y
}

func (c *Console) shapiroWilk(ctx context.Context) error {
	groups := hominid.BySpecies(c.data.Records(), hominid.Ratio)
	heading.Fprintf(c.out, "Shapiro-Wilk normality test (α=%.2f)\n", stats.Alpha)
	t := c.table("species", "n", "W", "p-value", "normal")
	for _, g := range groups {
		res, err := stats.ShapiroWilk(g.Values)
		if err != nil {
			t.Append([]string{g.Key, strconv.Itoa(len(g.Values)), "-", "-", "skipped: " + err.Error()})
			continue
		}
		normal := "yes"
		if res.PValue < stats.Alpha {
			normal = "no"
		}
		t.Append([]string{g.Key, strconv.Itoa(res.N), num(res.W), num(res.PValue), normal})
	}
	t.Render()
	return nil
}

func (c *Console) kwSpecies(ctx context.Context) error {
	recs := c.data.Records()
	heading.Fprintln(c.out, "All species")
	c.reportKW(hominid.BySpecies(recs, hominid.Ratio))
	fmt.Fprintln(c.out, separator)

	for _, tech := range hominid.AllTechTypes() {
		if err := ctx.Err(); err != nil {
			return err
		}
		sub := hominid.Filter(recs, func(r hominid.Record) bool { return r.Tech() == tech })
		if len(sub) == 0 {
			continue
		}
		groups := hominid.BySpecies(sub, hominid.Ratio)
		if len(groups) < 2 {
			warn.Fprintf(c.out, "Not enough species within technology type %s for Kruskal-Wallis test.\n", tech)
			fmt.Fprintln(c.out, separator)
			continue
		}
		heading.Fprintf(c.out, "Technology Type: %s\n", tech)
		c.reportKW(groups)
		fmt.Fprintln(c.out, separator)
	}
	return nil
}

func (c *Console) kwTechType(ctx context.Context) error {
	recs := c.data.Records()
	heading.Fprintln(c.out, "All technology types")
	c.reportKW(hominid.ByTechType(recs, hominid.Ratio))
	fmt.Fprintln(c.out, separator)

	above := hominid.Filter(recs, func(r hominid.Record) bool { return r.Tech().Rank() > hominid.Primitive.Rank() })
	groups := hominid.ByTechType(above, hominid.Ratio)
	if len(groups) < 2 {
		warn.Fprintf(c.out, "Not enough technology types above %s for Kruskal-Wallis test.\n", hominid.Primitive)
		fmt.Fprintln(c.out, separator)
		return nil
	}
	heading.Fprintf(c.out, "Technology types above %s\n", hominid.Primitive)
	c.reportKW(groups)
	fmt.Fprintln(c.out, separator)
	return nil
}

// reportKW prints Kruskal-Wallis over groups and, when significant, the Dunn table.
// Failures are reported inline so the caller can move on to the next batch.
func (c *Console) reportKW(groups []hominid.Group) {
	names := hominid.Keys(groups)
	fmt.Fprintf(c.out, "Groups compared: [%s]\n", strings.Join(names, ", "))
	res, err := stats.KruskalDunn(names, hominid.Values(groups))
	if err != nil {
		warn.Fprintf(c.out, "⚠ Kruskal-Wallis not computed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Kruskal-Wallis H-stat: %s, p-value: %s (df=%d, n=%d)\n", num(res.KW.H), num(res.KW.PValue), res.KW.DF, res.KW.N)
	if !res.PostHoc {
		warn.Fprintln(c.out, "Kruskal-Wallis p-value ≥ 0.05: no significant difference, Dunn post-hoc test skipped.")
		return
	}
	fmt.Fprintln(c.out, "Dunn post-hoc test (Bonferroni adjusted):")
	t := c.table("group A", "group B", "z", "p-adj", "significant")
	for _, p := range res.Pairs {
		sig := "no"
		if p.Significant() {
			sig = "yes"
		}
		t.Append([]string{p.A, p.B, num(p.Z), num(p.PValue), sig})
	}
	t.Render()
}

func (c *Console) spearman(ctx context.Context) error {
	recs := c.data.Records()
	rank := make([]float64, len(recs))
	ratio := make([]float64, len(recs))
	for i, r := range recs {
		rank[i], ratio[i] = float64(r.Tech().Rank()), r.SkullBodyRatio()
	}
	res, err := stats.Spearman(rank, ratio)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Spearman rho (technology rank vs skull-body ratio) = %s, p-value = %s (n=%d)\n", num(res.Rho), num(res.PValue), res.N)
	return nil
}

func (c *Console) linearRegression(ctx context.Context) error {
	recs := c.data.Records()
	x := make([]float64, len(recs))
	y := make([]float64, len(recs))
	for i, r := range recs {
		x[i], y[i] = r.Height(), r.SkullBodyRatio()
	}
	fit, err := stats.LinearFit(x, y)
	if err != nil {
		return err
	}
	t := c.table("model", "intercept", "slope", "R²", "n")
	t.Append([]string{"ratio ~ height", num(fit.Intercept), num(fit.Slope), num(fit.R2), strconv.Itoa(fit.N)})
	t.Render()
	return nil
}

func (c *Console) summary(ctx context.Context) error {
	opt := analysis.DefaultOptions()
	opt.Name = c.opt.DatasetName
	fmt.Fprint(c.out, analysis.Summarize(c.data, opt).Markdown())
	return nil
}

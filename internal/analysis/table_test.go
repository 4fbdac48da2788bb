package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/hominid-cli/internal/hominid"
)

func fixture() *hominid.Collection {
	recs := []hominid.Record{
		hominid.NewRecord("H. habilis", 600, 120, hominid.Primitive, hominid.Omnivore),
		hominid.NewRecord("H. habilis", 620, 125, hominid.Primitive, hominid.Omnivore),
		hominid.NewRecord("H. erectus", 900, 150, hominid.Mode2, hominid.Omnivore),
		hominid.NewRecord("H. erectus", 950, 155, hominid.Mode2, hominid.Carnivore),
		hominid.NewRecord("H. erectus", 1000, 160, hominid.Mode2, hominid.Carnivore),
		hominid.NewRecord("Australopithecus afarensis", 450, 110, hominid.NoTech, hominid.DryFruit),
		hominid.NewRecord("Australopithecus afarensis", 460, 112, hominid.NoTech, hominid.HardFruit),
		hominid.NewRecord("H. sapiens", 1350, 170, hominid.Mode4, hominid.Omnivore),
		hominid.NewRecord("H. sapiens", 4000, 171, hominid.Mode4, hominid.Omnivore),
	}
	return hominid.NewCollection(recs)
}

func TestSummarizeAndMarkdown(t *testing.T) {
	opt := DefaultOptions()
	opt.Name = "evolution_data.csv"
	rep := Summarize(fixture(), opt)

	if rep.Rows != 9 {
		t.Fatalf("rows = %d, want 9", rep.Rows)
	}
	if len(rep.Cols) != 6 {
		t.Fatalf("expected 3 numeric + 3 categorical columns, got %d", len(rep.Cols))
	}
	cc := rep.Cols[0]
	if cc.Kind != "numeric" || cc.Min != 450 || cc.Max != 4000 {
		t.Fatalf("unexpected cranial summary: %+v", cc)
	}
	wantMean := (600.0 + 620 + 900 + 950 + 1000 + 450 + 460 + 1350 + 4000) / 9
	if math.Abs(cc.Mean-wantMean) > 1e-9 {
		t.Fatalf("mean = %v, want %v", cc.Mean, wantMean)
	}
	if cc.OutliersCount != 1 {
		t.Fatalf("expected the 4000 cm³ skull to be the only outlier, got %d", cc.OutliersCount)
	}

	species := rep.Cols[3]
	if species.Unique != 4 || species.TopValues[0].Value != "H. erectus" || species.TopValues[0].Count != 3 {
		t.Fatalf("unexpected species tops: %+v", species)
	}
	if rep.Groups[0].Key != "H. erectus" || rep.Groups[0].Size != 3 {
		t.Fatalf("largest group should come first, got %+v", rep.Groups[0])
	}
	if m := rep.Groups[0].Metrics["height"]; m.Mean != 155 {
		t.Fatalf("erectus mean height = %v", m.Mean)
	}
	if rep.Corr == nil || len(rep.Corr.Columns) != 3 {
		t.Fatalf("expected 3x3 correlation matrix")
	}
	if r := rep.Corr.Values[0][1]; r <= 0 || r > 1 {
		t.Fatalf("cranial~height correlation should be positive, got %v", r)
	}

	md := rep.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"File: evolution_data.csv",
		"Rows: 9",
		"cranial capacity [cm³]: numeric",
		"tech type: categorical",
		"[GROUP-BY SUMMARY]",
		"species=H. erectus (n=3)",
		"[CORRELATIONS]",
		"outliers: 1 above |z|>3.5",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	rep := Summarize(hominid.NewCollection(nil), DefaultOptions())
	md := rep.Markdown()
	if !strings.Contains(md, "Rows: 0") || !strings.Contains(md, "[NOTES]") {
		t.Fatalf("unexpected empty report: %s", md)
	}
}

func TestGroupLimitWarns(t *testing.T) {
	opt := DefaultOptions()
	opt.MaxGroups = 2
	rep := Summarize(fixture(), opt)
	if len(rep.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(rep.Groups))
	}
	if len(rep.Warnings) != 1 || !strings.Contains(rep.Warnings[0], "limited to 2 species") {
		t.Fatalf("expected limit warning, got %v", rep.Warnings)
	}
}

func TestMedianMAD(t *testing.T) {
	median, mad := medianMAD([]float64{1, 2, 3, 4, 100})
	if median != 3 || mad != 1 {
		t.Fatalf("median=%v mad=%v", median, mad)
	}
	if median, mad := medianMAD([]float64{1, 1, 2, 2, 4, 6, 9}); median != 2 || mad != 1 {
		t.Fatalf("median=%v mad=%v", median, mad)
	}
}

func TestPearson(t *testing.T) {
	if r := pearson([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8}); math.Abs(r-1) > 1e-12 {
		t.Fatalf("r = %v, want 1", r)
	}
	if r := pearson([]float64{5, 5, 5}, []float64{1, 2, 3}); r != 0 {
		t.Fatalf("constant column should give r = 0, got %v", r)
	}
}

func TestColumnStdIsSampleStd(t *testing.T) {
	rep := Summarize(fixture(), DefaultOptions())
	h := rep.Cols[1]
	heights := []float64{120, 125, 150, 155, 160, 110, 112, 170, 171}
	var mean float64
	for _, v := range heights {
		mean += v
	}
	mean /= float64(len(heights))
	var ss float64
	for _, v := range heights {
		ss += (v - mean) * (v - mean)
	}
	if want := math.Sqrt(ss / float64(len(heights)-1)); math.Abs(h.Std-want) > 1e-9 {
		t.Fatalf("height std = %v, want %v", h.Std, want)
	}
}

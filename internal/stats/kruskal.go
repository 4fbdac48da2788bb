package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// KWResult is a Kruskal-Wallis H test result.
type KWResult struct {
	H      float64
	DF     int
	PValue float64
	N      int
}

// KruskalWallis tests whether the groups come from the same distribution.
// H is corrected for ties.
func KruskalWallis(groups ...[]float64) (KWResult, error) {
	if len(groups) < 2 {
		return KWResult{}, fmt.Errorf("kruskal-wallis needs at least 2 groups, got %d: %w", len(groups), ErrTooFewGroups)
	}
	var pooled []float64
	for i, g := range groups {
		if len(g) == 0 {
			return KWResult{}, fmt.Errorf("group %d is empty: %w", i, ErrTooFewSamples)
		}
		pooled = append(pooled, g...)
	}
	n := float64(len(pooled))
	ties := 1 - tieSum(pooled)/(n*n*n-n)
	if ties == 0 {
		return KWResult{}, ErrZeroRange
	}
	ranks := Ranks(pooled)
	var h float64
	off := 0
	for _, g := range groups {
		var rs float64
		for _, r := range ranks[off : off+len(g)] {
			rs += r
		}
		h += rs * rs / float64(len(g))
		off += len(g)
	}
	h = (12/(n*(n+1))*h - 3*(n+1)) / ties
	if h < 0 {
		h = 0
	}
	df := len(groups) - 1
	p := distuv.ChiSquared{K: float64(df)}.Survival(h)
	return KWResult{H: h, DF: df, PValue: p, N: len(pooled)}, nil
}

// DunnPair is one pairwise comparison of the Dunn post-hoc test.
type DunnPair struct {
	A, B   string
	Z      float64
	PValue float64 // Bonferroni adjusted
}

// Significant reports whether the adjusted p-value is below Alpha.
func (p DunnPair) Significant() bool { return p.PValue < Alpha }

// Dunn runs Dunn's pairwise test on mean ranks with Bonferroni adjustment.
// Pairs are returned in (i, j) order with i < j.
func Dunn(names []string, groups [][]float64) ([]DunnPair, error) {
	if len(groups) < 2 {
		return nil, fmt.Errorf("dunn test needs at least 2 groups: %w", ErrTooFewGroups)
	}
	if len(names) != len(groups) {
		return nil, fmt.Errorf("dunn test: %d names for %d groups", len(names), len(groups))
	}
	var pooled []float64
	for _, g := range groups {
		if len(g) == 0 {
			return nil, fmt.Errorf("dunn test: empty group: %w", ErrTooFewSamples)
		}
		pooled = append(pooled, g...)
	}
	n := float64(len(pooled))
	ranks := Ranks(pooled)
	meanRank := make([]float64, len(groups))
	off := 0
	for i, g := range groups {
		var rs float64
		for _, r := range ranks[off : off+len(g)] {
			rs += r
		}
		meanRank[i] = rs / float64(len(g))
		off += len(g)
	}
	variance := n*(n+1)/12 - tieSum(pooled)/(12*(n-1))
	k := len(groups)
	m := float64(k * (k - 1) / 2)
	var out []DunnPair
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			se := math.Sqrt(variance * (1/float64(len(groups[i])) + 1/float64(len(groups[j]))))
			var z, p float64
			if se > 0 {
				z = math.Abs(meanRank[i]-meanRank[j]) / se
				p = math.Min(1, 2*distuv.UnitNormal.Survival(z)*m)
			} else {
				p = 1
			}
			out = append(out, DunnPair{A: names[i], B: names[j], Z: z, PValue: p})
		}
	}
	return out, nil
}

// KWDunnResult bundles an omnibus test with its gated post-hoc comparisons.
type KWDunnResult struct {
	Groups []string
	KW     KWResult
	// PostHoc is true only when KW.PValue < Alpha and Dunn was run.
	PostHoc bool
	Pairs   []DunnPair
}

// KruskalDunn runs Kruskal-Wallis and, only when its p-value is strictly
// below Alpha, the Dunn post-hoc test.
func KruskalDunn(names []string, groups [][]float64) (KWDunnResult, error) {
	kw, err := KruskalWallis(groups...)
	if err != nil {
		return KWDunnResult{}, err
	}
	res := KWDunnResult{Groups: names, KW: kw}
	if !(kw.PValue < Alpha) {
		return res, nil
	}
	pairs, err := Dunn(names, groups)
	if err != nil {
		return res, err
	}
	res.PostHoc = true
	res.Pairs = pairs
	return res, nil
}

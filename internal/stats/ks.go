package stats

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	mstats "github.com/aclements/go-moremath/stats"
)

// KSResult is a one-sample Kolmogorov-Smirnov test against a normal fitted
// to the sample itself.
type KSResult struct {
	N        int
	D        float64
	Critical float64 // asymptotic critical value at Alpha
	// PValue is the bootstrap p-value; NaN unless produced by KSBootstrap.
	PValue     float64
	Iterations int
}

// Reject reports whether D exceeds the critical value.
func (r KSResult) Reject() bool { return r.D > r.Critical }

// KSNormal computes the KS statistic of xs against Normal(mean, std), where
// std is the population standard deviation.
func KSNormal(xs []float64) (KSResult, error) {
	d, err := ksStatistic(xs)
	if err != nil {
		return KSResult{}, err
	}
	return KSResult{N: len(xs), D: d, Critical: 1.36 / math.Sqrt(float64(len(xs))), PValue: math.NaN()}, nil
}

// KSBootstrap runs KSNormal and estimates a p-value as the share of
// resampled statistics at least as large as the observed one.
func KSBootstrap(xs []float64, iterations int, rng *rand.Rand) (KSResult, error) {
	res, err := KSNormal(xs)
	if err != nil {
		return res, err
	}
	if iterations <= 0 {
		return res, fmt.Errorf("bootstrap iterations must be positive, got %d", iterations)
	}
	n := len(xs)
	buf := make([]float64, n)
	var hits, valid int
	for i := 0; i < iterations; i++ {
		for j := range buf {
			buf[j] = xs[rng.IntN(n)]
		}
		d, err := ksStatistic(buf)
		if err != nil {
			// a resample of one repeated value has no fitted normal
			continue
		}
		valid++
		if d >= res.D {
			hits++
		}
	}
	res.Iterations = valid
	if valid > 0 {
		res.PValue = float64(hits) / float64(valid)
	}
	return res, nil
}

func ksStatistic(xs []float64) (float64, error) {
	if len(xs) < 2 {
		return 0, fmt.Errorf("ks test needs at least 2 values: %w", ErrTooFewSamples)
	}
	sum := Describe(xs)
	if sum.Std == 0 {
		return 0, ErrZeroRange
	}
	dist := mstats.NormalDist{Mu: sum.Mean, Sigma: sum.Std}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := float64(len(sorted))
	var d float64
	for i, x := range sorted {
		f := dist.CDF(x)
		d = math.Max(d, math.Max(f-float64(i)/n, float64(i+1)/n-f))
	}
	return d, nil
}

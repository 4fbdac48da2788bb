// Package stats holds the descriptive and inferential routines behind the console.
package stats

import (
	"errors"
	"math"
	"sort"

	mstats "github.com/aclements/go-moremath/stats"
)

// Alpha is the significance level used by every test in the console.
const Alpha = 0.05

var (
	ErrTooFewSamples = errors.New("too few samples")
	ErrTooFewGroups  = errors.New("too few groups")
	ErrZeroRange     = errors.New("all values identical")
)

// Summary describes one sample. Std is the population standard deviation.
type Summary struct {
	N         int
	Mean      float64
	Std       float64
	SampleStd float64
	Min       float64
	Max       float64
	Median    float64
}

// Describe summarizes xs. An empty sample yields the zero Summary.
func Describe(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	s := mstats.Sample{Xs: append([]float64(nil), xs...)}
	s.Sort()
	lo, hi := s.Bounds()
	sum := Summary{N: len(xs), Mean: s.Mean(), Min: lo, Max: hi, Median: s.Quantile(0.5)}
	if len(xs) > 1 {
		v := s.Variance()
		sum.SampleStd = math.Sqrt(v)
		sum.Std = math.Sqrt(v * float64(len(xs)-1) / float64(len(xs)))
	}
	return sum
}

// ECDF returns the sorted sample and the empirical CDF height at each point.
func ECDF(xs []float64) (x, y []float64) {
	x = append([]float64(nil), xs...)
	sort.Float64s(x)
	y = make([]float64, len(x))
	n := float64(len(x))
	for i := range x {
		y[i] = float64(i+1) / n
	}
	return x, y
}

// Ranks assigns 1-based ranks, averaging ties.
func Ranks(xs []float64) []float64 {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })
	ranks := make([]float64, len(xs))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && xs[idx[j+1]] == xs[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

// tieSum returns Σ(t³ - t) over runs of tied values.
func tieSum(xs []float64) float64 {
	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	var s float64
	for i := 0; i < len(cp); {
		j := i
		for j+1 < len(cp) && cp[j+1] == cp[i] {
			j++
		}
		t := float64(j - i + 1)
		s += t*t*t - t
		i = j + 1
	}
	return s
}

package stats

import (
	"fmt"
	"math"
	"sort"

	mstats "github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// SWResult is a Shapiro-Wilk normality test result.
type SWResult struct {
	N      int
	W      float64
	PValue float64
}

// Royston (1995) polynomial approximations.
var (
	swG  = []float64{-2.273, 0.459}
	swC1 = []float64{0, 0.221157, -0.147981, -2.07119, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.544, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
)

// ShapiroWilk tests xs for normality. Valid for 3 <= n <= 5000.
func ShapiroWilk(xs []float64) (SWResult, error) {
	n := len(xs)
	if n < 3 {
		return SWResult{}, fmt.Errorf("shapiro-wilk needs at least 3 values, got %d: %w", n, ErrTooFewSamples)
	}
	if n > 5000 {
		return SWResult{}, fmt.Errorf("shapiro-wilk supports at most 5000 values, got %d", n)
	}
	x := append([]float64(nil), xs...)
	sort.Float64s(x)
	if x[n-1]-x[0] < 1e-19 {
		return SWResult{}, ErrZeroRange
	}

	coef := swCoefficients(n)
	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)
	var num, ssa, ssx float64
	for i, v := range x {
		num += coef[i] * (v - mean)
		ssa += coef[i] * coef[i]
		ssx += (v - mean) * (v - mean)
	}
	w := num * num / (ssa * ssx)
	if w > 1 {
		w = 1
	}
	return SWResult{N: n, W: w, PValue: swPValue(w, n)}, nil
}

// swCoefficients returns the antisymmetric weight vector for the sorted sample.
func swCoefficients(n int) []float64 {
	nn2 := n / 2
	a := make([]float64, nn2+1) // 1-based
	if n == 3 {
		a[1] = math.Sqrt(0.5)
	} else {
		an := float64(n)
		m := make([]float64, nn2+1)
		var summ2 float64
		for i := 1; i <= nn2; i++ {
			m[i] = mstats.StdNormal.InvCDF((float64(i) - 0.375) / (an + 0.25))
			summ2 += m[i] * m[i]
		}
		summ2 *= 2
		ssumm2 := math.Sqrt(summ2)
		rsn := 1 / math.Sqrt(an)
		a1 := poly(swC1, rsn) - m[1]/ssumm2

		i1 := 2
		var fac float64
		if n > 5 {
			i1 = 3
			a2 := -m[2]/ssumm2 + poly(swC2, rsn)
			fac = math.Sqrt((summ2 - 2*m[1]*m[1] - 2*m[2]*m[2]) / (1 - 2*a1*a1 - 2*a2*a2))
			a[2] = a2
		} else {
			fac = math.Sqrt((summ2 - 2*m[1]*m[1]) / (1 - 2*a1*a1))
		}
		a[1] = a1
		for i := i1; i <= nn2; i++ {
			a[i] = -m[i] / fac
		}
	}
	coef := make([]float64, n)
	for i := 1; i <= nn2; i++ {
		coef[i-1] = -a[i]
		coef[n-i] = a[i]
	}
	return coef
}

func swPValue(w float64, n int) float64 {
	if n == 3 {
		const pi6, stqr = 6 / math.Pi, math.Pi / 3
		return math.Max(0, math.Min(1, pi6*(math.Asin(math.Sqrt(w))-stqr)))
	}
	an := float64(n)
	y := math.Log(1 - w)
	var m, s float64
	if n <= 11 {
		gamma := poly(swG, an)
		if y >= gamma {
			return 1e-99
		}
		y = -math.Log(gamma - y)
		m = poly(swC3, an)
		s = math.Exp(poly(swC4, an))
	} else {
		xx := math.Log(an)
		m = poly(swC5, xx)
		s = math.Exp(poly(swC6, xx))
	}
	return distuv.UnitNormal.Survival((y - m) / s)
}

// poly evaluates c[0] + c[1]x + c[2]x² + ...
func poly(c []float64, x float64) float64 {
	var r float64
	for i := len(c) - 1; i >= 0; i-- {
		r = r*x + c[i]
	}
	return r
}

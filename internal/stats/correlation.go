package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SpearmanResult is a rank correlation with its two-sided p-value.
type SpearmanResult struct {
	N      int
	Rho    float64
	PValue float64
}

// Spearman computes Spearman's rho as the Pearson correlation of average ranks.
// The p-value uses the t approximation with n-2 degrees of freedom.
func Spearman(x, y []float64) (SpearmanResult, error) {
	if len(x) != len(y) {
		return SpearmanResult{}, fmt.Errorf("spearman: length mismatch %d != %d", len(x), len(y))
	}
	n := len(x)
	if n < 3 {
		return SpearmanResult{}, fmt.Errorf("spearman needs at least 3 pairs: %w", ErrTooFewSamples)
	}
	rho := stat.Correlation(Ranks(x), Ranks(y), nil)
	if math.IsNaN(rho) {
		return SpearmanResult{}, ErrZeroRange
	}
	rho = math.Max(-1, math.Min(1, rho))
	res := SpearmanResult{N: n, Rho: rho}
	if math.Abs(rho) == 1 {
		return res, nil
	}
	df := float64(n - 2)
	t := rho * math.Sqrt(df/(1-rho*rho))
	res.PValue = 2 * distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Survival(math.Abs(t))
	return res, nil
}

// Fit is an ordinary least-squares line y = Intercept + Slope*x.
type Fit struct {
	Intercept float64
	Slope     float64
	R2        float64
	N         int
}

// LinearFit regresses y on x.
func LinearFit(x, y []float64) (Fit, error) {
	if len(x) != len(y) {
		return Fit{}, fmt.Errorf("linear fit: length mismatch %d != %d", len(x), len(y))
	}
	if len(x) < 2 {
		return Fit{}, fmt.Errorf("linear fit needs at least 2 points: %w", ErrTooFewSamples)
	}
	if Describe(x).Std == 0 {
		return Fit{}, ErrZeroRange
	}
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	r2 := stat.RSquared(x, y, nil, alpha, beta)
	return Fit{Intercept: alpha, Slope: beta, R2: r2, N: len(x)}, nil
}

package analyzer

import (
	"math"

	"github.com/anime-shed/kernel-forge/pkg/kernel"
	"github.com/anime-shed/kernel-forge/pkg/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// BasicMetrics holds the coefficient statistics of a kernel
type BasicMetrics struct {
	Sum, Min, Max, Mean, Variance float64
}

// metricsCalculator implements MetricsCalculator with Gonum
type metricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator using Gonum
func NewMetricsCalculator() MetricsCalculator {
	return &metricsCalculator{}
}

// CalculateBasicMetrics computes sum, extrema, mean and population variance
func (mc *metricsCalculator) CalculateBasicMetrics(values []float64) BasicMetrics {
	// Handle empty kernels
	if len(values) == 0 {
		return BasicMetrics{}
	}
	return BasicMetrics{
		Sum:      floats.Sum(values),
		Min:      floats.Min(values),
		Max:      floats.Max(values),
		Mean:     stat.Mean(values, nil),
		Variance: stat.PopVariance(values, nil),
	}
}

// IsSymmetric reports whether K == K^T within tol
func (mc *metricsCalculator) IsSymmetric(k kernel.Kernel, tol float64) bool {
	m := k.Matrix()
	if m == nil || k.Rows() != k.Cols() {
		return false
	}
	return mat.EqualApprox(m, m.T(), tol)
}

// IsAntisymmetric reports whether K == -K^T within tol
func (mc *metricsCalculator) IsAntisymmetric(k kernel.Kernel, tol float64) bool {
	m := k.Matrix()
	if m == nil || k.Rows() != k.Cols() {
		return false
	}
	var neg mat.Dense
	neg.Scale(-1, m.T())
	return mat.EqualApprox(m, &neg, tol)
}

// IsSeparable reports whether the kernel has numerical rank at most one,
// i.e. whether it is the outer product of two vectors
func (mc *metricsCalculator) IsSeparable(k kernel.Kernel, tol float64) bool {
	m := k.Matrix()
	if m == nil {
		return false
	}
	if k.Rows() == 1 || k.Cols() == 1 {
		return true
	}

	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDNone); !ok {
		return false
	}
	values := svd.Values(nil)
	if values[0] == 0 {
		return true
	}
	return math.Abs(values[1]) <= tol*values[0]
}

// flatten returns the coefficients in row-major order
func flatten(k kernel.Kernel) []float64 {
	rows := k.Coefficients()
	if len(rows) == 0 {
		return nil
	}
	values := make([]float64, 0, len(rows)*len(rows[0]))
	for _, row := range rows {
		values = append(values, row...)
	}
	return values
}

// kernelAnalyzer implements KernelAnalyzer on top of a MetricsCalculator
type kernelAnalyzer struct {
	calculator MetricsCalculator
	options    AnalysisOptions
}

// NewKernelAnalyzer creates an analyzer with default options
func NewKernelAnalyzer() KernelAnalyzer {
	return &kernelAnalyzer{
		calculator: NewMetricsCalculator(),
		options:    DefaultOptions(),
	}
}

// Summarize computes the kernel summary with default options
func (ka *kernelAnalyzer) Summarize(k kernel.Kernel) models.KernelSummary {
	return ka.SummarizeWithOptions(k, ka.options)
}

// SummarizeWithOptions computes the kernel summary with the given tolerances
func (ka *kernelAnalyzer) SummarizeWithOptions(k kernel.Kernel, options AnalysisOptions) models.KernelSummary {
	if k.Empty() {
		return models.KernelSummary{}
	}

	m := ka.calculator.CalculateBasicMetrics(flatten(k))
	summary := models.KernelSummary{
		Sum:           m.Sum,
		Min:           m.Min,
		Max:           m.Max,
		Mean:          m.Mean,
		Variance:      m.Variance,
		Symmetric:     ka.calculator.IsSymmetric(k, options.SymmetryTolerance),
		Antisymmetric: ka.calculator.IsAntisymmetric(k, options.SymmetryTolerance),
		Normalized:    math.Abs(m.Sum-1) <= options.NormalizationTolerance,
	}
	if !options.SkipSeparability {
		summary.Separable = ka.calculator.IsSeparable(k, options.RankTolerance)
	}
	return summary
}

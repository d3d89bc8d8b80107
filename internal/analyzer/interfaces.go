package analyzer

import (
	"github.com/anime-shed/kernel-forge/pkg/kernel"
	"github.com/anime-shed/kernel-forge/pkg/models"
)

// KernelAnalyzer computes diagnostic statistics for generated kernels
type KernelAnalyzer interface {
	Summarize(k kernel.Kernel) models.KernelSummary
	SummarizeWithOptions(k kernel.Kernel, options AnalysisOptions) models.KernelSummary
}

// MetricsCalculator handles the individual coefficient metrics
type MetricsCalculator interface {
	CalculateBasicMetrics(values []float64) BasicMetrics
	IsSymmetric(k kernel.Kernel, tol float64) bool
	IsAntisymmetric(k kernel.Kernel, tol float64) bool
	IsSeparable(k kernel.Kernel, tol float64) bool
}

package analyzer

// AnalysisOptions controls the numeric tolerances used when classifying kernels
type AnalysisOptions struct {
	// Absolute tolerance for K == K^T and K == -K^T
	SymmetryTolerance float64
	// Absolute tolerance for |sum - 1|
	NormalizationTolerance float64
	// Relative tolerance on the second singular value for the rank-1 check
	RankTolerance float64

	// Feature toggles
	SkipSeparability bool
}

// DefaultOptions returns default analysis options
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		SymmetryTolerance:      1e-12,
		NormalizationTolerance: 1e-9,
		RankTolerance:          1e-10,
		SkipSeparability:       false,
	}
}

// FastOptions skips the SVD-based separability check
func FastOptions() AnalysisOptions {
	opts := DefaultOptions()
	opts.SkipSeparability = true
	return opts
}

// WithTolerances overrides all three tolerances
func (opts AnalysisOptions) WithTolerances(symmetry, normalization, rank float64) AnalysisOptions {
	opts.SymmetryTolerance = symmetry
	opts.NormalizationTolerance = normalization
	opts.RankTolerance = rank
	return opts
}

package strategy

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/anime-shed/kernel-forge/pkg/kernel"
	"gonum.org/v1/gonum/floats"
)

// Names of the built-in normalization strategies
const (
	Raw = "raw"
	Sum = "sum"
	L1  = "l1"
)

// zeroTolerance guards against dividing by a sum that is zero up to rounding
const zeroTolerance = 1e-12

// ErrZeroSum is returned when a kernel cannot be scaled because its
// normalizing sum is zero, as for every gradient operator
var ErrZeroSum = errors.New("kernel sum is zero")

// NormalizationStrategy post-processes a generated kernel
type NormalizationStrategy interface {
	Apply(k kernel.Kernel) (kernel.Kernel, error)
	GetStrategyName() string
}

// RawStrategy leaves coefficients untouched
type RawStrategy struct{}

// NewRawStrategy creates the identity strategy
func NewRawStrategy() NormalizationStrategy {
	return &RawStrategy{}
}

// Apply returns k unchanged
func (s *RawStrategy) Apply(k kernel.Kernel) (kernel.Kernel, error) {
	return k, nil
}

// GetStrategyName returns the strategy name
func (s *RawStrategy) GetStrategyName() string {
	return Raw
}

// SumStrategy divides every coefficient by the coefficient sum so the
// kernel preserves mean intensity
type SumStrategy struct{}

// NewSumStrategy creates the sum normalization strategy
func NewSumStrategy() NormalizationStrategy {
	return &SumStrategy{}
}

// Apply scales k to sum to 1
func (s *SumStrategy) Apply(k kernel.Kernel) (kernel.Kernel, error) {
	return scale(k, floats.Sum)
}

// GetStrategyName returns the strategy name
func (s *SumStrategy) GetStrategyName() string {
	return Sum
}

// L1Strategy divides every coefficient by the sum of absolute values, which
// also works for zero-sum operators
type L1Strategy struct{}

// NewL1Strategy creates the L1 normalization strategy
func NewL1Strategy() NormalizationStrategy {
	return &L1Strategy{}
}

// Apply scales k to unit L1 norm
func (s *L1Strategy) Apply(k kernel.Kernel) (kernel.Kernel, error) {
	return scale(k, func(v []float64) float64 { return floats.Norm(v, 1) })
}

// GetStrategyName returns the strategy name
func (s *L1Strategy) GetStrategyName() string {
	return L1
}

func scale(k kernel.Kernel, norm func([]float64) float64) (kernel.Kernel, error) {
	rows := k.Coefficients()
	if len(rows) == 0 {
		return k, nil
	}

	var all []float64
	for _, row := range rows {
		all = append(all, row...)
	}
	n := norm(all)
	if math.Abs(n) < zeroTolerance {
		return kernel.Kernel{}, fmt.Errorf("normalize %s kernel: %w", k.Kind(), ErrZeroSum)
	}
	for _, row := range rows {
		floats.Scale(1/n, row)
	}
	return kernel.FromRows(k.Kind(), rows)
}

var registry = map[string]func() NormalizationStrategy{
	Raw: NewRawStrategy,
	Sum: NewSumStrategy,
	L1:  NewL1Strategy,
}

// ForName returns the strategy registered under name. An empty name
// selects the raw strategy.
func ForName(name string) (NormalizationStrategy, error) {
	if name == "" {
		name = Raw
	}
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unsupported normalization: %q", name)
	}
	return ctor(), nil
}

// Names lists the registered strategy names in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package kernel

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultSize is the size used for impulse and box kernels when none is given.
const DefaultSize = 3

func checkSize(size int) error {
	if size <= 0 {
		return invalidParam("size", size, "must be > 0")
	}
	return nil
}

// UnitImpulse returns a size×size identity filter: zeros with a single 1 at
// [size/2, size/2]. For even sizes the impulse sits just below and right of
// the geometric center.
func UnitImpulse(size int) (Kernel, error) {
	if err := checkSize(size); err != nil {
		return Kernel{}, err
	}
	k := mat.NewDense(size, size, nil)
	center := size / 2
	k.Set(center, center, 1)
	return newKernel(KindImpulse, k), nil
}

// BoxBlur returns a size×size local average filter whose entries all equal
// 1/size² and sum to 1.
func BoxBlur(size int) (Kernel, error) {
	if err := checkSize(size); err != nil {
		return Kernel{}, err
	}
	data := make([]float64, size*size)
	for i := range data {
		data[i] = 1
	}
	floats.Scale(1/floats.Sum(data), data)
	return newKernel(KindBox, mat.NewDense(size, size, data)), nil
}

// GaussianBlur returns the outer product of a 1D normal density sampled at
// size evenly spaced points over [-std, std] with itself.
//
// The result is the raw density product and does not sum to 1 in general.
// Callers that need a normalized blur must normalize it themselves.
func GaussianBlur(size int, mu, std float64) (Kernel, error) {
	if err := checkSize(size); err != nil {
		return Kernel{}, err
	}
	if math.IsNaN(std) || math.IsInf(std, 0) || std <= 0 {
		return Kernel{}, invalidParam("std", std, "must be finite and > 0")
	}
	if math.IsNaN(mu) || math.IsInf(mu, 0) {
		return Kernel{}, invalidParam("mu", mu, "must be finite")
	}
	g := NormalPDF(Linspace(-std, std, size), mu, std)
	return newKernel(KindGaussian, outer(g, g)), nil
}

// NormalPDF evaluates the normal density with mean mu and standard
// deviation std at every x.
func NormalPDF(x []float64, mu, std float64) []float64 {
	out := make([]float64, len(x))
	norm := math.Sqrt(2 * math.Pi * std * std)
	for i, v := range x {
		z := (v - mu) / std
		out[i] = math.Exp(-0.5*z*z) / norm
	}
	return out
}

// Linspace returns n evenly spaced samples over the closed interval [l, u].
// A single sample is l.
func Linspace(l, u float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{l}
	}
	return floats.Span(make([]float64, n), l, u)
}

// HighPass returns the 3×3 high-pass filter with 8 at the center and -1 on the ring.
func HighPass() Kernel {
	return newKernel(KindHighPass, mat.NewDense(3, 3, []float64{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}))
}

// Laplacian returns the plus-shaped 3×3 Laplacian.
func Laplacian() Kernel {
	return newKernel(KindLaplacian, mat.NewDense(3, 3, []float64{
		0, -1, 0,
		-1, 4, -1,
		0, -1, 0,
	}))
}

// outer returns the len(a)×len(b) matrix with entries a[i]*b[j].
func outer(a, b []float64) *mat.Dense {
	m := mat.NewDense(len(a), len(b), nil)
	m.Outer(1, mat.NewVecDense(len(a), a), mat.NewVecDense(len(b), b))
	return m
}

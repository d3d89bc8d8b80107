// Package kernel builds small convolution kernels: impulse, box and Gaussian
// blurs, Prewitt and Sobel gradients in four orientations, and the fixed
// high-pass and Laplacian operators.
//
// Every generator is a pure function of its parameters. The returned Kernel
// owns its coefficients and never exposes them for mutation, so a Kernel can
// be shared between goroutines freely.
package kernel

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Kernel is an immutable 2D coefficient array tagged with the kind of
// generator that produced it. The zero value holds no coefficients and is
// not a usable filter.
type Kernel struct {
	kind Kind
	coef *mat.Dense
}

func newKernel(kind Kind, coef *mat.Dense) Kernel {
	return Kernel{kind: kind, coef: coef}
}

// Kind returns the generator tag.
func (k Kernel) Kind() Kind {
	return k.kind
}

// Rows returns the number of rows.
func (k Kernel) Rows() int {
	if k.coef == nil {
		return 0
	}
	r, _ := k.coef.Dims()
	return r
}

// Cols returns the number of columns.
func (k Kernel) Cols() int {
	if k.coef == nil {
		return 0
	}
	_, c := k.coef.Dims()
	return c
}

// At returns the coefficient at row i, column j. It panics when the
// indices are out of range, like mat.Dense.
func (k Kernel) At(i, j int) float64 {
	return k.coef.At(i, j)
}

// Empty reports whether the kernel holds no coefficients.
func (k Kernel) Empty() bool {
	return k.coef == nil
}

// Coefficients returns a copy of the coefficients as a row-major slice of rows.
func (k Kernel) Coefficients() [][]float64 {
	if k.coef == nil {
		return nil
	}
	r, c := k.coef.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = make([]float64, c)
		mat.Row(rows[i], i, k.coef)
	}
	return rows
}

// Matrix returns a copy of the coefficients as a gonum matrix.
func (k Kernel) Matrix() mat.Matrix {
	if k.coef == nil {
		return nil
	}
	return mat.DenseCopyOf(k.coef)
}

// String renders the kernel row by row.
func (k Kernel) String() string {
	if k.coef == nil {
		return ""
	}
	return Format(k.coef)
}

// Format renders m with one bracketed row per line, values separated by spaces.
func Format(m mat.Matrix) string {
	if m == nil {
		return ""
	}
	r, c := m.Dims()
	var b strings.Builder
	for i := 0; i < r; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteByte('[')
		for j := 0; j < c; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(m.At(i, j), 'g', -1, 64))
		}
		b.WriteByte(']')
	}
	return b.String()
}

// FromRows builds a kernel of the given kind from literal rows. All rows
// must have the same non-zero length.
func FromRows(kind Kind, rows [][]float64) (Kernel, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Kernel{}, invalidParam("rows", len(rows), "must be non-empty")
	}
	c := len(rows[0])
	data := make([]float64, 0, len(rows)*c)
	for i, row := range rows {
		if len(row) != c {
			return Kernel{}, invalidParam(fmt.Sprintf("rows[%d]", i), len(row), fmt.Sprintf("ragged row, want %d columns", c))
		}
		data = append(data, row...)
	}
	return newKernel(kind, mat.NewDense(len(rows), c, data)), nil
}

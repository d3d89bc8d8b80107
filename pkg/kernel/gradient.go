package kernel

// Gradient kernels are fixed at 3×3 and built from a smoothing vector and the
// central-difference vector [1, 0, -1].
var (
	gradientVector = []float64{1, 0, -1}
	prewittSmooth  = []float64{1, 1, 1}
	sobelSmooth    = []float64{1, 2, 1}
)

// Prewitt returns the Prewitt gradient operator for the given orientation.
func Prewitt(mode Mode) (Kernel, error) {
	return gradient(KindPrewitt, prewittSmooth, mode)
}

// Sobel returns the Sobel gradient operator for the given orientation. It
// weights the center row twice to suppress noise.
func Sobel(mode Mode) (Kernel, error) {
	return gradient(KindSobel, sobelSmooth, mode)
}

func gradient(kind Kind, smooth []float64, mode Mode) (Kernel, error) {
	k, err := orient(outer(smooth, gradientVector), mode)
	if err != nil {
		return Kernel{}, err
	}
	return newKernel(kind, k), nil
}

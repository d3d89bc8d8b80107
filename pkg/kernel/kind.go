package kernel

// Kind tags a kernel with the generator that produced it.
type Kind string

const (
	KindNone      Kind = ""
	KindImpulse   Kind = "impulse"
	KindBox       Kind = "box"
	KindGaussian  Kind = "gaussian"
	KindPrewitt   Kind = "prewitt"
	KindSobel     Kind = "sobel"
	KindHighPass  Kind = "highpass"
	KindLaplacian Kind = "laplacian"
)

// Kinds lists every kind that Build accepts.
func Kinds() []Kind {
	return []Kind{KindImpulse, KindBox, KindGaussian, KindPrewitt, KindSobel, KindHighPass, KindLaplacian}
}

// ParseKind converts a kind name into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return KindNone, errUnsupportedKind(s)
}

// Sized reports whether the kind takes a size parameter.
func (k Kind) Sized() bool {
	return k == KindImpulse || k == KindBox || k == KindGaussian
}

// Oriented reports whether the kind takes an orientation mode.
func (k Kind) Oriented() bool {
	return k == KindPrewitt || k == KindSobel
}

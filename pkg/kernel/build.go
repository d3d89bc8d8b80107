package kernel

import "fmt"

// Params describes any kernel the package can generate. Fields that do not
// apply to Kind are ignored.
type Params struct {
	Kind Kind    `json:"kind" yaml:"kind"`
	Size int     `json:"size,omitempty" yaml:"size,omitempty"`
	Mode Mode    `json:"mode,omitempty" yaml:"mode,omitempty"`
	Mu   float64 `json:"mu,omitempty" yaml:"mu,omitempty"`
	Std  float64 `json:"std,omitempty" yaml:"std,omitempty"`
}

// DefaultParams returns the default parameters for kind: size 3 for impulse
// and box, mu 0 and std 1 for the Gaussian, horizontal orientation for the
// gradients. The Gaussian has no conventional default size; this package
// uses 3 there as well.
func DefaultParams(kind Kind) Params {
	p := Params{Kind: kind, Mode: ModeHoriz}
	switch kind {
	case KindImpulse, KindBox:
		p.Size = DefaultSize
	case KindGaussian:
		p.Size = DefaultSize
		p.Std = 1
	}
	return p
}

// Build dispatches p to the matching generator.
func Build(p Params) (Kernel, error) {
	switch p.Kind {
	case KindImpulse:
		return UnitImpulse(p.Size)
	case KindBox:
		return BoxBlur(p.Size)
	case KindGaussian:
		return GaussianBlur(p.Size, p.Mu, p.Std)
	case KindPrewitt:
		return Prewitt(p.Mode)
	case KindSobel:
		return Sobel(p.Mode)
	case KindHighPass:
		return HighPass(), nil
	case KindLaplacian:
		return Laplacian(), nil
	default:
		return Kernel{}, errUnsupportedKind(string(p.Kind))
	}
}

func errUnsupportedKind(s string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
}

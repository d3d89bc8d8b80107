package kernel

import (
	"fmt"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
)

// Mode selects the gradient direction of a Prewitt or Sobel kernel.
type Mode int

const (
	ModeHoriz Mode = iota
	ModeVert
	ModeLDiag
	ModeRDiag
)

var validModes = []Mode{ModeHoriz, ModeVert, ModeLDiag, ModeRDiag}

func (m Mode) String() string {
	switch m {
	case ModeHoriz:
		return "horiz"
	case ModeVert:
		return "vert"
	case ModeLDiag:
		return "ldiag"
	case ModeRDiag:
		return "rdiag"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ValidModes returns the names of the supported orientation modes.
func ValidModes() []string {
	return lo.Map(validModes, func(m Mode, _ int) string { return m.String() })
}

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range validModes {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, &UnsupportedModeError{Mode: s, Valid: ValidModes()}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m < ModeHoriz || m > ModeRDiag {
		return nil, &UnsupportedModeError{Mode: m.String(), Valid: ValidModes()}
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// orient derives an orientation variant from the horizontal base matrix k.
func orient(k *mat.Dense, mode Mode) (*mat.Dense, error) {
	r, c := k.Dims()
	out := mat.NewDense(r, c, nil)
	switch mode {
	case ModeHoriz:
		out.Copy(k)
	case ModeVert:
		out.Copy(k.T())
	case ModeLDiag:
		out.Add(k, k.T())
	case ModeRDiag:
		out.Sub(k, k.T())
	default:
		return nil, &UnsupportedModeError{Mode: mode.String(), Valid: ValidModes()}
	}
	return out, nil
}

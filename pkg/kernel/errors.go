package kernel

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidParameter indicates a numeric parameter outside its valid domain
	ErrInvalidParameter = errors.New("kernel: invalid parameter")

	// ErrUnsupportedMode indicates an orientation mode outside the enumerated set
	ErrUnsupportedMode = errors.New("kernel: unsupported mode")

	// ErrUnsupportedKind indicates an unknown kernel kind
	ErrUnsupportedKind = errors.New("kernel: unsupported kind")
)

// UnsupportedModeError reports the rejected mode together with the valid set.
type UnsupportedModeError struct {
	Mode  string
	Valid []string
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("%v: %q (must be one of [%s])", ErrUnsupportedMode, e.Mode, strings.Join(e.Valid, ", "))
}

// Is lets errors.Is match ErrUnsupportedMode.
func (e *UnsupportedModeError) Is(target error) bool {
	return target == ErrUnsupportedMode
}

func invalidParam(name string, value any, constraint string) error {
	return fmt.Errorf("%w: %s=%v (%s)", ErrInvalidParameter, name, value, constraint)
}

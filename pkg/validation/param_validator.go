package validation

import (
	"strings"

	apperrors "github.com/anime-shed/kernel-forge/internal/errors"
	"github.com/anime-shed/kernel-forge/pkg/kernel"
	"github.com/anime-shed/kernel-forge/pkg/models"
)

// ParamValidator turns client requests into kernel parameters and enforces
// service limits the generators themselves do not know about
type ParamValidator struct {
	maxSize     int
	normalizers []string
}

// NewParamValidator creates a validator allowing sizes up to maxSize and the
// given normalization strategy names
func NewParamValidator(maxSize int, normalizers []string) *ParamValidator {
	return &ParamValidator{
		maxSize:     maxSize,
		normalizers: normalizers,
	}
}

// MaxSize returns the largest accepted kernel size
func (v *ParamValidator) MaxSize() int {
	return v.maxSize
}

// Validate checks req and returns the kernel parameters it describes.
// Omitted size, mode and std fall back to kernel.DefaultParams. An explicit
// non-positive size is passed through for the generator to reject.
func (v *ParamValidator) Validate(req models.KernelRequest) (kernel.Params, error) {
	kind, err := kernel.ParseKind(strings.ToLower(strings.TrimSpace(req.Kind)))
	if err != nil {
		return kernel.Params{}, apperrors.FromKernelError(err)
	}

	params := kernel.DefaultParams(kind)
	if kind.Sized() {
		if req.Size != nil {
			if *req.Size > v.maxSize {
				return kernel.Params{}, apperrors.NewValidationError("size exceeds maximum kernel size", nil)
			}
			params.Size = *req.Size
		}
	} else if req.Size != nil && *req.Size != kernel.DefaultSize {
		return kernel.Params{}, apperrors.NewValidationError(string(kind)+" kernels have a fixed size of 3", nil)
	}

	if kind == kernel.KindGaussian {
		params.Mu = req.Mu
		if req.Std != nil {
			params.Std = *req.Std
		}
	}

	if kind.Oriented() && req.Mode != "" {
		mode, err := kernel.ParseMode(strings.ToLower(strings.TrimSpace(req.Mode)))
		if err != nil {
			return kernel.Params{}, apperrors.FromKernelError(err)
		}
		params.Mode = mode
	}

	if err := v.ValidateNormalizer(req.Normalize); err != nil {
		return kernel.Params{}, err
	}
	return params, nil
}

// ValidateNormalizer checks that name is empty or a known strategy
func (v *ParamValidator) ValidateNormalizer(name string) error {
	if name == "" {
		return nil
	}
	for _, allowed := range v.normalizers {
		if name == allowed {
			return nil
		}
	}
	return apperrors.NewValidationError("unknown normalization "+`"`+name+`"`+" (allowed: "+strings.Join(v.normalizers, ", ")+")", nil)
}

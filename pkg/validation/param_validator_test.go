package validation

import (
	"errors"
	"testing"

	apperrors "github.com/anime-shed/kernel-forge/internal/errors"
	"github.com/anime-shed/kernel-forge/pkg/kernel"
	"github.com/anime-shed/kernel-forge/pkg/models"
)

func newTestValidator() *ParamValidator {
	return NewParamValidator(15, []string{"raw", "sum", "l1"})
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func TestValidate_Defaults(t *testing.T) {
	v := newTestValidator()

	params, err := v.Validate(models.KernelRequest{Kind: "gaussian"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if params.Size != 3 || params.Std != 1 || params.Mu != 0 {
		t.Errorf("Expected gaussian defaults, got %+v", params)
	}

	params, err = v.Validate(models.KernelRequest{Kind: " Sobel "})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if params.Kind != kernel.KindSobel || params.Mode != kernel.ModeHoriz {
		t.Errorf("Expected sobel horiz, got %+v", params)
	}
}

func TestValidate_ExplicitValues(t *testing.T) {
	v := newTestValidator()

	params, err := v.Validate(models.KernelRequest{Kind: "gaussian", Size: intPtr(7), Mu: 0.5, Std: floatPtr(2)})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if params.Size != 7 || params.Mu != 0.5 || params.Std != 2 {
		t.Errorf("Unexpected params %+v", params)
	}

	params, err = v.Validate(models.KernelRequest{Kind: "prewitt", Mode: "RDIAG"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if params.Mode != kernel.ModeRDiag {
		t.Errorf("Expected rdiag, got %v", params.Mode)
	}
}

func TestValidate_ExplicitZeroStdReachesGenerator(t *testing.T) {
	v := newTestValidator()

	params, err := v.Validate(models.KernelRequest{Kind: "gaussian", Std: floatPtr(0)})
	if err != nil {
		t.Fatalf("Expected validator to pass, got %v", err)
	}
	if _, err := kernel.Build(params); err == nil {
		t.Error("Expected generator to reject std=0")
	}
}

func TestValidate_ExplicitNonPositiveSizeReachesGenerator(t *testing.T) {
	v := newTestValidator()

	for _, size := range []int{0, -3} {
		params, err := v.Validate(models.KernelRequest{Kind: "box", Size: intPtr(size)})
		if err != nil {
			t.Fatalf("Expected validator to pass size %d, got %v", size, err)
		}
		if params.Size != size {
			t.Errorf("Expected size %d to be kept, got %d", size, params.Size)
		}
		if _, err := kernel.Build(params); !errors.Is(err, kernel.ErrInvalidParameter) {
			t.Errorf("Expected generator to reject size %d, got %v", size, err)
		}
	}
}

func TestValidate_Errors(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name     string
		req      models.KernelRequest
		wantType apperrors.ErrorType
	}{
		{"unknown kind", models.KernelRequest{Kind: "emboss"}, apperrors.ErrorTypeUnsupported},
		{"unknown mode", models.KernelRequest{Kind: "sobel", Mode: "diag"}, apperrors.ErrorTypeUnsupported},
		{"oversize", models.KernelRequest{Kind: "impulse", Size: intPtr(16)}, apperrors.ErrorTypeValidation},
		{"sized fixed kernel", models.KernelRequest{Kind: "laplacian", Size: intPtr(5)}, apperrors.ErrorTypeValidation},
		{"unknown normalizer", models.KernelRequest{Kind: "box", Normalize: "max"}, apperrors.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(tt.req)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !apperrors.IsType(err, tt.wantType) {
				t.Errorf("Expected %s error, got %v", tt.wantType, err)
			}
		})
	}
}

func TestValidate_FixedKernelAcceptsSizeThree(t *testing.T) {
	v := newTestValidator()
	if _, err := v.Validate(models.KernelRequest{Kind: "highpass", Size: intPtr(3)}); err != nil {
		t.Errorf("Expected size 3 to be accepted, got %v", err)
	}
}

func TestValidateObjectKey(t *testing.T) {
	valid := []string{"sobel/abc.json", "preset.json"}
	for _, key := range valid {
		if err := ValidateObjectKey(key); err != nil {
			t.Errorf("Expected %q to be valid, got %v", key, err)
		}
	}

	invalid := []string{"", "/abs.json", "../up.json", "a/../b.json", "a//b.json", "sobel/abc.txt"}
	for _, key := range invalid {
		if err := ValidateObjectKey(key); err == nil {
			t.Errorf("Expected %q to be rejected", key)
		}
	}
}

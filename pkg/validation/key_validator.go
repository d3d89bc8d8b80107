package validation

import (
	"path"
	"strings"

	apperrors "github.com/anime-shed/kernel-forge/internal/errors"
)

// ValidateObjectKey checks a published document key before it reaches storage
func ValidateObjectKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return apperrors.NewValidationError("key cannot be empty", nil)
	}
	if strings.HasPrefix(key, "/") || path.Clean(key) != key {
		return apperrors.NewValidationError("key must be a clean relative path", nil)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." {
			return apperrors.NewValidationError("key must not contain relative segments", nil)
		}
	}
	if !strings.HasSuffix(key, ".json") {
		return apperrors.NewValidationError("key must name a .json document", nil)
	}
	return nil
}

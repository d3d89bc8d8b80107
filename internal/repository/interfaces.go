package repository

import (
	"context"

	"github.com/anime-shed/kernel-forge/pkg/models"
)

// PresetRepository defines the interface for named kernel preset lookups
type PresetRepository interface {
	// GetPreset retrieves a preset by name
	GetPreset(ctx context.Context, name string) (*models.PresetInfo, error)

	// ListPresets returns every preset sorted by name
	ListPresets(ctx context.Context) ([]models.PresetInfo, error)
}

// RequestValidator checks that a preset request describes a buildable kernel
type RequestValidator func(req models.KernelRequest) error

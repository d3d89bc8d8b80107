package repository

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/anime-shed/kernel-forge/pkg/models"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// presetFile is the on-disk YAML layout:
//
//	presets:
//	  - name: edge-x
//	    description: Sobel horizontal gradient
//	    kind: sobel
//	    mode: horiz
type presetFile struct {
	Presets []presetEntry `yaml:"presets"`
}

type presetEntry struct {
	Name                 string `yaml:"name"`
	Description          string `yaml:"description,omitempty"`
	models.KernelRequest `yaml:",inline"`
}

func std(v float64) *float64 { return &v }

func size(v int) *int { return &v }

// DefaultPresets returns the built-in presets
func DefaultPresets() []models.PresetInfo {
	return []models.PresetInfo{
		{Name: "identity", Description: "3x3 unit impulse", Request: models.KernelRequest{Kind: "impulse", Size: size(3)}},
		{Name: "box3", Description: "3x3 local average", Request: models.KernelRequest{Kind: "box", Size: size(3)}},
		{Name: "gauss5", Description: "5x5 Gaussian, normalized to unit sum", Request: models.KernelRequest{Kind: "gaussian", Size: size(5), Std: std(1), Normalize: "sum"}},
		{Name: "prewitt-x", Description: "Prewitt horizontal gradient", Request: models.KernelRequest{Kind: "prewitt", Mode: "horiz"}},
		{Name: "prewitt-y", Description: "Prewitt vertical gradient", Request: models.KernelRequest{Kind: "prewitt", Mode: "vert"}},
		{Name: "sobel-x", Description: "Sobel horizontal gradient", Request: models.KernelRequest{Kind: "sobel", Mode: "horiz"}},
		{Name: "sobel-y", Description: "Sobel vertical gradient", Request: models.KernelRequest{Kind: "sobel", Mode: "vert"}},
		{Name: "sharpen-hp", Description: "3x3 high-pass", Request: models.KernelRequest{Kind: "highpass"}},
		{Name: "laplace", Description: "3x3 plus-shaped Laplacian", Request: models.KernelRequest{Kind: "laplacian"}},
	}
}

// memoryPresetRepository implements PresetRepository over an immutable map
type memoryPresetRepository struct {
	presets map[string]models.PresetInfo
}

// NewPresetRepository creates a repository holding the built-in presets
// plus the given extras. Extras replace built-ins of the same name. Every
// preset is checked with validate before the repository is returned.
func NewPresetRepository(ctx context.Context, validate RequestValidator, extras ...models.PresetInfo) (PresetRepository, error) {
	presets := lo.SliceToMap(DefaultPresets(), func(p models.PresetInfo) (string, models.PresetInfo) {
		return p.Name, p
	})
	for _, p := range extras {
		presets[p.Name] = p
	}

	if validate != nil {
		g, _ := errgroup.WithContext(ctx)
		for _, p := range presets {
			g.Go(func() error {
				if err := validate(p.Request); err != nil {
					return fmt.Errorf("%w %q: %v", ErrInvalidPreset, p.Name, err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return &memoryPresetRepository{presets: presets}, nil
}

// LoadPresetFile reads extra presets from a YAML file
func LoadPresetFile(path string) ([]models.PresetInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets file: %w", err)
	}
	return ParsePresets(data)
}

// ParsePresets decodes presets from YAML
func ParsePresets(data []byte) ([]models.PresetInfo, error) {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}

	seen := make(map[string]bool, len(file.Presets))
	out := make([]models.PresetInfo, 0, len(file.Presets))
	for i, entry := range file.Presets {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidPreset, i)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePreset, name)
		}
		seen[name] = true
		out = append(out, models.PresetInfo{
			Name:        name,
			Description: entry.Description,
			Request:     entry.KernelRequest,
		})
	}
	return out, nil
}

// GetPreset retrieves a preset by name
func (r *memoryPresetRepository) GetPreset(ctx context.Context, name string) (*models.PresetInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, ok := r.presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	return &p, nil
}

// ListPresets returns every preset sorted by name
func (r *memoryPresetRepository) ListPresets(ctx context.Context) ([]models.PresetInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := lo.Values(r.presets)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

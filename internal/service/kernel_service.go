package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/anime-shed/kernel-forge/internal/analyzer"
	apperrors "github.com/anime-shed/kernel-forge/internal/errors"
	"github.com/anime-shed/kernel-forge/internal/factory"
	"github.com/anime-shed/kernel-forge/internal/logger"
	"github.com/anime-shed/kernel-forge/internal/observer"
	"github.com/anime-shed/kernel-forge/internal/repository"
	"github.com/anime-shed/kernel-forge/internal/storage"
	"github.com/anime-shed/kernel-forge/internal/strategy"
	"github.com/anime-shed/kernel-forge/pkg/kernel"
	"github.com/anime-shed/kernel-forge/pkg/models"
	"github.com/anime-shed/kernel-forge/pkg/validation"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// KernelService defines kernel generation, preset lookup and publishing
type KernelService interface {
	// Generation
	Generate(ctx context.Context, req models.KernelRequest) (*models.KernelResponse, error)
	GenerateBatch(ctx context.Context, reqs []models.KernelRequest) ([]models.KernelResponse, error)

	// Presets
	Preset(ctx context.Context, name string) (*models.KernelResponse, error)
	Presets(ctx context.Context) ([]models.PresetInfo, error)

	// Publishing
	Publish(ctx context.Context, req models.KernelRequest) (*models.PublishResponse, error)
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Dependencies groups the collaborators of the kernel service
type Dependencies struct {
	Validator    *validation.ParamValidator
	Strategies   factory.StrategyFactory
	Analyzer     analyzer.KernelAnalyzer
	Presets      repository.PresetRepository
	Store        storage.KernelStore
	Pool         *analyzer.WorkerPool
	Events       observer.Subject
	MaxBatchSize int
}

// kernelService implements KernelService
type kernelService struct {
	deps Dependencies
}

// NewKernelService creates a new kernel service
func NewKernelService(deps Dependencies) KernelService {
	return &kernelService{deps: deps}
}

// Generate validates req, builds the kernel, applies the requested
// normalization and attaches a statistical summary
func (s *kernelService) Generate(ctx context.Context, req models.KernelRequest) (*models.KernelResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}
	start := time.Now()

	params, err := s.deps.Validator.Validate(req)
	if err != nil {
		s.generationFailed(ctx, req.Kind, err)
		return nil, err
	}

	k, err := kernel.Build(params)
	if err != nil {
		err = apperrors.FromKernelError(err)
		s.generationFailed(ctx, req.Kind, err)
		return nil, err
	}

	norm, err := s.deps.Strategies.CreateStrategy(req.Normalize)
	if err != nil {
		err = apperrors.NewValidationError("unknown normalization", err)
		s.generationFailed(ctx, req.Kind, err)
		return nil, err
	}
	k, err = norm.Apply(k)
	if err != nil {
		if errors.Is(err, strategy.ErrZeroSum) {
			err = apperrors.NewValidationError("kernel cannot be normalized by its sum", err)
		} else {
			err = apperrors.NewInternalError("normalization failed", err)
		}
		s.generationFailed(ctx, req.Kind, err)
		return nil, err
	}

	resp := &models.KernelResponse{
		Kind:         string(params.Kind),
		Normalize:    norm.GetStrategyName(),
		Rows:         k.Rows(),
		Cols:         k.Cols(),
		Coefficients: k.Coefficients(),
		Text:         k.String(),
		Summary:      s.deps.Analyzer.Summarize(k),
		Timestamp:    start.UTC(),
	}
	if params.Kind.Sized() {
		resp.Size = params.Size
	}
	if params.Kind.Oriented() {
		resp.Mode = params.Mode.String()
	}
	if params.Kind == kernel.KindGaussian {
		resp.Mu = params.Mu
		resp.Std = params.Std
	}

	duration := time.Since(start)
	resp.ProcessingTimeMs = float64(duration.Microseconds()) / 1000

	event := observer.NewEvent(observer.KernelGenerated, resp.Kind)
	event.ProcessingTime = duration
	event.Metadata = map[string]interface{}{"rows": resp.Rows, "cols": resp.Cols, "normalize": resp.Normalize}
	s.deps.Events.NotifyObservers(ctx, event)

	return resp, nil
}

// GenerateBatch generates every request on the worker pool. Results are in
// request order; when several requests fail the lowest index is reported.
func (s *kernelService) GenerateBatch(ctx context.Context, reqs []models.KernelRequest) ([]models.KernelResponse, error) {
	if len(reqs) == 0 {
		return nil, apperrors.NewValidationError("batch must contain at least one request", nil)
	}
	if s.deps.MaxBatchSize > 0 && len(reqs) > s.deps.MaxBatchSize {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("batch of %d exceeds limit of %d", len(reqs), s.deps.MaxBatchSize), nil)
	}

	start := time.Now()
	results := make([]models.KernelResponse, len(reqs))
	errs := make([]error, len(reqs))

	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		submitted := s.deps.Pool.Submit(func() {
			defer wg.Done()
			resp, err := s.Generate(ctx, req)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = *resp
		})
		if !submitted {
			wg.Done()
			errs[i] = apperrors.NewInternalError("worker pool is closed", nil)
		}
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("batch request %d: %w", i, err)
		}
	}

	logger.WithFields(logrus.Fields{
		"batch_size":         len(reqs),
		"processing_time_ms": time.Since(start).Milliseconds(),
	}).Debug("Kernel batch generated")

	return results, nil
}

// Preset generates the kernel registered under name
func (s *kernelService) Preset(ctx context.Context, name string) (*models.KernelResponse, error) {
	preset, err := s.deps.Presets.GetPreset(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrPresetNotFound) {
			return nil, apperrors.NewNotFoundError("preset not found", err)
		}
		return nil, contextError(err)
	}
	return s.Generate(ctx, preset.Request)
}

// Presets lists the registered presets
func (s *kernelService) Presets(ctx context.Context) ([]models.PresetInfo, error) {
	presets, err := s.deps.Presets.ListPresets(ctx)
	if err != nil {
		return nil, contextError(err)
	}
	return presets, nil
}

// Publish generates a kernel and stores its JSON document under
// <kind>/<uuid>.json
func (s *kernelService) Publish(ctx context.Context, req models.KernelRequest) (*models.PublishResponse, error) {
	resp, err := s.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	doc, err := json.Marshal(resp)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode kernel", err)
	}

	start := time.Now()
	key := fmt.Sprintf("%s/%s.json", resp.Kind, uuid.NewString())
	stored, err := s.deps.Store.Put(ctx, key, doc)

	eventType := observer.KernelPublished
	if err != nil {
		eventType = observer.PublishFailed
	}
	event := observer.NewEvent(eventType, resp.Kind)
	event.ProcessingTime = time.Since(start)
	event.Metadata = map[string]interface{}{"key": key, "store": s.deps.Store.Name()}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	s.deps.Events.NotifyObservers(ctx, event)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, contextError(ctxErr)
		}
		return nil, apperrors.NewStorageError("failed to store kernel", err)
	}
	return &models.PublishResponse{Key: stored, Kernel: resp}, nil
}

// Fetch returns a previously published kernel document
func (s *kernelService) Fetch(ctx context.Context, key string) ([]byte, error) {
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, err
	}
	doc, err := s.deps.Store.Get(ctx, key)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrObjectNotFound):
			return nil, apperrors.NewNotFoundError("published kernel not found", err)
		case ctx.Err() != nil:
			return nil, contextError(ctx.Err())
		default:
			return nil, apperrors.NewStorageError("failed to read kernel", err)
		}
	}
	return doc, nil
}

func (s *kernelService) generationFailed(ctx context.Context, kind string, err error) {
	event := observer.NewEvent(observer.GenerationFailed, kind)
	event.ErrorMessage = err.Error()
	s.deps.Events.NotifyObservers(ctx, event)
}

// contextError classifies context errors; other errors pass through
func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError("request deadline exceeded", err)
	}
	return err
}

package container

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anime-shed/kernel-forge/internal/analyzer"
	"github.com/anime-shed/kernel-forge/internal/config"
	"github.com/anime-shed/kernel-forge/internal/factory"
	"github.com/anime-shed/kernel-forge/internal/logger"
	"github.com/anime-shed/kernel-forge/internal/observer"
	"github.com/anime-shed/kernel-forge/internal/repository"
	"github.com/anime-shed/kernel-forge/internal/service"
	"github.com/anime-shed/kernel-forge/internal/storage"
	"github.com/anime-shed/kernel-forge/internal/transport"
	"github.com/anime-shed/kernel-forge/pkg/kernel"
	"github.com/anime-shed/kernel-forge/pkg/models"
	"github.com/anime-shed/kernel-forge/pkg/validation"

	"github.com/sirupsen/logrus"
)

// containerInitializer is implemented by stores that must create their container before use
type containerInitializer interface {
	EnsureContainer(ctx context.Context) error
}

// Container holds all application dependencies
type Container struct {
	config        *config.Config
	store         storage.KernelStore
	pool          *analyzer.WorkerPool
	metrics       *observer.MetricsObserver
	kernelService service.KernelService
	handler       http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	components := factory.NewComponentFactory(cfg)

	// Build dependency graph
	store, err := components.StorageFactory.CreateStorage(factory.StorageType(cfg.StorageType))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}
	if initializer, ok := store.(containerInitializer); ok {
		if err := initializer.EnsureContainer(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare storage: %w", err)
		}
	}

	validator := validation.NewParamValidator(cfg.MaxKernelSize, components.StrategyFactory.StrategyNames())

	var extras []models.PresetInfo
	if cfg.PresetsFile != "" {
		extras, err = repository.LoadPresetFile(cfg.PresetsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load presets: %w", err)
		}
	}
	presets, err := repository.NewPresetRepository(ctx, buildable(validator), extras...)
	if err != nil {
		return nil, fmt.Errorf("failed to load presets: %w", err)
	}

	pool := analyzer.NewWorkerPool(cfg.BatchWorkers)
	pool.Start()

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	kernelService := service.NewKernelService(service.Dependencies{
		Validator:    validator,
		Strategies:   components.StrategyFactory,
		Analyzer:     analyzer.NewKernelAnalyzer(),
		Presets:      presets,
		Store:        store,
		Pool:         pool,
		Events:       events,
		MaxBatchSize: cfg.MaxBatchSize,
	})
	handler := transport.NewHandler(kernelService, metrics, pool, cfg)

	logger.WithFields(logrus.Fields{
		"storage":       store.Name(),
		"workers":       pool.Workers(),
		"preset_extras": len(extras),
	}).Info("Container initialized")

	return &Container{
		config:        cfg,
		store:         store,
		pool:          pool,
		metrics:       metrics,
		kernelService: kernelService,
		handler:       handler,
	}, nil
}

// buildable rejects preset requests that fail validation or construction
func buildable(validator *validation.ParamValidator) repository.RequestValidator {
	return func(req models.KernelRequest) error {
		params, err := validator.Validate(req)
		if err != nil {
			return err
		}
		_, err = kernel.Build(params)
		return err
	}
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Service returns the kernel service
func (c *Container) Service() service.KernelService {
	return c.kernelService
}

// Metrics returns the event metrics observer
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close stops the batch worker pool
func (c *Container) Close() {
	c.pool.Close()
}

package factory

import (
	"fmt"

	"github.com/anime-shed/kernel-forge/internal/config"
	"github.com/anime-shed/kernel-forge/internal/storage"
	"github.com/anime-shed/kernel-forge/internal/strategy"
)

// StorageType represents different types of storage backends
type StorageType string

const (
	// MemoryStorage keeps published kernels in process memory
	MemoryStorage StorageType = config.StorageMemory
	// AzureStorage writes published kernels to Azure blob storage
	AzureStorage StorageType = config.StorageAzure
)

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.KernelStore, error)
}

// StrategyFactory creates normalization strategies
type StrategyFactory interface {
	CreateStrategy(name string) (strategy.NormalizationStrategy, error)
	StrategyNames() []string
}

// storageFactory implements StorageFactory
type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateStorage creates a storage implementation based on the specified type
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.KernelStore, error) {
	switch storageType {
	case MemoryStorage:
		return storage.NewMemoryStorage(), nil
	case AzureStorage:
		return storage.NewAzureStorage(f.cfg.AzureStorageAccount, f.cfg.AzureStorageKey, f.cfg.AzureStorageContainer)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// strategyFactory implements StrategyFactory
type strategyFactory struct{}

// NewStrategyFactory creates a new strategy factory
func NewStrategyFactory() StrategyFactory {
	return &strategyFactory{}
}

// CreateStrategy creates the named normalization strategy
func (f *strategyFactory) CreateStrategy(name string) (strategy.NormalizationStrategy, error) {
	return strategy.ForName(name)
}

// StrategyNames lists the known normalization strategies
func (f *strategyFactory) StrategyNames() []string {
	return strategy.Names()
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	StorageFactory  StorageFactory
	StrategyFactory StrategyFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		StorageFactory:  NewStorageFactory(cfg),
		StrategyFactory: NewStrategyFactory(),
	}
}

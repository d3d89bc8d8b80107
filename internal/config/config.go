package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends understood by the factory
const (
	StorageMemory = "memory"
	StorageAzure  = "azure"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	MaxRequestBodySize int64

	// Kernel generation limits
	MaxKernelSize int
	MaxBatchSize  int
	BatchWorkers  int

	// Optional YAML file with extra named presets
	PresetsFile string

	// Publishing backend
	StorageType           string
	AzureStorageAccount   string
	AzureStorageKey       string
	AzureStorageContainer string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Host:                  "0.0.0.0",
		Port:                  "8080",
		RequestTimeout:        30 * time.Second,
		MaxRequestBodySize:    1024 * 1024, // 1MB
		MaxKernelSize:         31,
		MaxBatchSize:          64,
		BatchWorkers:          0,
		StorageType:           StorageMemory,
		AzureStorageContainer: "kernels",
	}
}

func LoadFromEnv() (*Config, error) {
	def := Default()
	env := &envReader{}
	cfg := &Config{
		Host:                  getEnvOrDefault("HOST", def.Host),
		Port:                  getEnvOrDefault("PORT", def.Port),
		RequestTimeout:        env.parseDurationOrDefault("REQUEST_TIMEOUT", def.RequestTimeout),
		MaxRequestBodySize:    env.parseIntOrDefault("MAX_REQUEST_BODY_SIZE", def.MaxRequestBodySize),
		MaxKernelSize:         int(env.parseIntOrDefault("MAX_KERNEL_SIZE", int64(def.MaxKernelSize))),
		MaxBatchSize:          int(env.parseIntOrDefault("MAX_BATCH_SIZE", int64(def.MaxBatchSize))),
		BatchWorkers:          int(env.parseIntOrDefault("BATCH_WORKERS", int64(def.BatchWorkers))),
		PresetsFile:           strings.TrimSpace(os.Getenv("PRESETS_FILE")),
		StorageType:           strings.ToLower(getEnvOrDefault("STORAGE_TYPE", def.StorageType)),
		AzureStorageAccount:   os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureStorageKey:       os.Getenv("AZURE_STORAGE_KEY"),
		AzureStorageContainer: getEnvOrDefault("AZURE_STORAGE_CONTAINER", def.AzureStorageContainer),
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and backend-specific requirements
func (c *Config) Validate() error {
	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be > 0 (got %s)", c.RequestTimeout)
	}
	if c.MaxKernelSize <= 0 {
		return fmt.Errorf("MAX_KERNEL_SIZE must be > 0 (got %d)", c.MaxKernelSize)
	}
	if c.MaxBatchSize <= 0 {
		return fmt.Errorf("MAX_BATCH_SIZE must be > 0 (got %d)", c.MaxBatchSize)
	}
	if c.BatchWorkers < 0 {
		return fmt.Errorf("BATCH_WORKERS must be >= 0 (got %d)", c.BatchWorkers)
	}
	switch c.StorageType {
	case StorageMemory:
	case StorageAzure:
		if c.AzureStorageAccount == "" || c.AzureStorageKey == "" {
			return fmt.Errorf("STORAGE_TYPE=azure requires AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY")
		}
		if c.AzureStorageContainer == "" {
			return fmt.Errorf("AZURE_STORAGE_CONTAINER must not be empty")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE: %q", c.StorageType)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envReader parses typed environment values and collects the failures
type envReader struct {
	errs []error
}

func (r *envReader) parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s: %q is not a duration", key, value))
		return defaultValue
	}
	return duration
}

func (r *envReader) parseIntOrDefault(key string, defaultValue int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s: %q is not an integer", key, value))
		return defaultValue
	}
	return intValue
}

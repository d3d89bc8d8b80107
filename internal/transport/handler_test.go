package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anime-shed/kernel-forge/internal/analyzer"
	"github.com/anime-shed/kernel-forge/internal/config"
	"github.com/anime-shed/kernel-forge/internal/factory"
	"github.com/anime-shed/kernel-forge/internal/observer"
	"github.com/anime-shed/kernel-forge/internal/repository"
	"github.com/anime-shed/kernel-forge/internal/service"
	"github.com/anime-shed/kernel-forge/internal/storage"
	"github.com/anime-shed/kernel-forge/internal/strategy"
	"github.com/anime-shed/kernel-forge/pkg/models"
	"github.com/anime-shed/kernel-forge/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.MaxKernelSize = 15
	cfg.MaxBatchSize = 4

	presets, err := repository.NewPresetRepository(context.Background(), nil)
	require.NoError(t, err)

	pool := analyzer.NewWorkerPool(2)
	pool.Start()
	t.Cleanup(pool.Close)

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(metrics)

	svc := service.NewKernelService(service.Dependencies{
		Validator:    validation.NewParamValidator(cfg.MaxKernelSize, strategy.Names()),
		Strategies:   factory.NewStrategyFactory(),
		Analyzer:     analyzer.NewKernelAnalyzer(),
		Presets:      presets,
		Store:        storage.NewMemoryStorage(),
		Pool:         pool,
		Events:       events,
		MaxBatchSize: cfg.MaxBatchSize,
	})
	return NewHandler(svc, metrics, pool, cfg)
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	h := newTestHandler(t)
	w := serve(h, http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "available") {
		t.Errorf("Expected body to report availability, got %s", w.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	h := newTestHandler(t)

	w := serve(h, http.MethodGet, "/health", "")
	_, err := uuid.Parse(w.Header().Get(requestIDHeader))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	id := uuid.NewString()
	req.Header.Set(requestIDHeader, id)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(requestIDHeader))
}

func TestGetKernel(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		target string
		rows   int
		center float64
	}{
		{"default box", "/kernels/box", 3, 1.0 / 9},
		{"sized impulse", "/kernels/impulse?size=5", 5, 1},
		{"laplacian", "/kernels/laplacian", 3, 4},
		{"sobel vert", "/kernels/sobel?mode=vert", 3, 0},
		{"normalized gaussian", "/kernels/gaussian?size=5&std=2&normalize=sum", 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp models.KernelResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.rows, resp.Rows)
			assert.Equal(t, tt.rows, resp.Cols)
			if tt.center != 0 {
				assert.InDelta(t, tt.center, resp.Coefficients[tt.rows/2][tt.rows/2], 1e-12)
			}
		})
	}
}

func TestGetKernel_NormalizedGaussianSumsToOne(t *testing.T) {
	h := newTestHandler(t)
	w := serve(h, http.MethodGet, "/kernels/gaussian?size=5&std=2&normalize=sum", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.KernelResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 1.0, resp.Summary.Sum, 1e-9)
	assert.True(t, resp.Summary.Normalized)
}

func TestGetKernel_Errors(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"unknown kind", "/kernels/emboss", http.StatusUnprocessableEntity},
		{"unknown mode", "/kernels/prewitt?mode=diag", http.StatusUnprocessableEntity},
		{"zero std", "/kernels/gaussian?std=0", http.StatusBadRequest},
		{"negative size", "/kernels/box?size=-1", http.StatusBadRequest},
		{"zero size", "/kernels/impulse?size=0", http.StatusBadRequest},
		{"zero size box", "/kernels/box?size=0", http.StatusBadRequest},
		{"zero size gaussian", "/kernels/gaussian?size=0&std=1", http.StatusBadRequest},
		{"oversized", "/kernels/box?size=99", http.StatusBadRequest},
		{"non numeric size", "/kernels/box?size=abc", http.StatusBadRequest},
		{"unknown normalizer", "/kernels/box?normalize=max", http.StatusBadRequest},
		{"zero sum normalization", "/kernels/sobel?normalize=sum", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h, http.MethodGet, tt.target, "")
			if w.Code != tt.status {
				t.Errorf("Expected status %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}

			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Message)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestPostBatch(t *testing.T) {
	h := newTestHandler(t)
	body := `{"requests":[{"kind":"box","size":5},{"kind":"prewitt","mode":"rdiag"},{"kind":"highpass"}]}`

	w := serve(h, http.MethodPost, "/batch", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Kernels, 3)
	assert.Equal(t, "box", resp.Kernels[0].Kind)
	assert.Equal(t, "prewitt", resp.Kernels[1].Kind)
	assert.Equal(t, "highpass", resp.Kernels[2].Kind)
	assert.True(t, resp.Kernels[1].Summary.Antisymmetric)
}

func TestPostBatch_Errors(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", `{"requests":`, http.StatusBadRequest},
		{"empty batch", `{"requests":[]}`, http.StatusBadRequest},
		{"missing kind", `{"requests":[{"size":3}]}`, http.StatusBadRequest},
		{"too many", `{"requests":[{"kind":"box"},{"kind":"box"},{"kind":"box"},{"kind":"box"},{"kind":"box"}]}`, http.StatusBadRequest},
		{"bad member", `{"requests":[{"kind":"box"},{"kind":"sobel","mode":"up"}]}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h, http.MethodPost, "/batch", tt.body)
			if w.Code != tt.status {
				t.Errorf("Expected status %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestPresets(t *testing.T) {
	h := newTestHandler(t)

	w := serve(h, http.MethodGet, "/presets", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Presets []models.PresetInfo `json:"presets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Presets, len(repository.DefaultPresets()))

	w = serve(h, http.MethodGet, "/presets/sobel-y", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.KernelResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "sobel", resp.Kind)
	assert.Equal(t, "vert", resp.Mode)

	w = serve(h, http.MethodGet, "/presets/emboss", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublishAndFetch(t *testing.T) {
	h := newTestHandler(t)

	w := serve(h, http.MethodPost, "/publish/laplacian", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var published models.PublishResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &published))
	require.True(t, strings.HasPrefix(published.Key, "laplacian/"))

	w = serve(h, http.MethodGet, "/published/"+published.Key, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var doc models.KernelResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, published.Kernel.Coefficients, doc.Coefficients)

	w = serve(h, http.MethodGet, "/published/laplacian/missing.json", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(h, http.MethodPost, "/publish/box?size=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetrics(t *testing.T) {
	h := newTestHandler(t)
	serve(h, http.MethodGet, "/kernels/box", "")
	serve(h, http.MethodGet, "/kernels/emboss", "")

	w := serve(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Events map[string]interface{} `json:"events"`
		Pool   map[string]interface{} `json:"pool"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body.Events["kernels_generated"])
	assert.EqualValues(t, 1, body.Events["generation_failures"])
	assert.NotNil(t, body.Pool)
}

func TestRequestSizeLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(requestSizeLimiter(16))
	r.POST("/", func(c *gin.Context) {
		var v map[string]interface{}
		if err := c.ShouldBindJSON(&v); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := serve(r, http.MethodPost, "/", `{"key":"`+strings.Repeat("x", 64)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

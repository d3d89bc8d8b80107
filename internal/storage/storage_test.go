package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStorage_PutGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	doc := []byte(`{"kind":"box"}`)
	key, err := store.Put(ctx, "box/1.json", doc)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if key != "box/1.json" {
		t.Errorf("Expected key to be echoed, got %s", key)
	}

	// Mutating the caller's buffer must not change the stored copy
	doc[0] = 'X'

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(got) != `{"kind":"box"}` {
		t.Errorf("Unexpected document %s", got)
	}
	if store.Name() != "memory" {
		t.Errorf("Expected memory store name, got %s", store.Name())
	}
}

func TestMemoryStorage_NotFound(t *testing.T) {
	_, err := NewMemoryStorage().Get(context.Background(), "missing.json")
	if !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Expected ErrObjectNotFound, got %v", err)
	}
}

func TestMemoryStorage_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewMemoryStorage().Put(ctx, "a.json", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestNewAzureStorage_InvalidKey(t *testing.T) {
	if _, err := NewAzureStorage("account", "not base64!", "kernels"); err == nil {
		t.Error("Expected invalid account key to be rejected")
	}
}

func TestNewAzureStorage_ValidKey(t *testing.T) {
	store, err := NewAzureStorage("account", "c2VjcmV0", "kernels")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if store.Name() != "azure" {
		t.Errorf("Expected azure store name, got %s", store.Name())
	}
}

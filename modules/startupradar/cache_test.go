package startupradar_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/startupradar/transformers/common"
	"github.com/startupradar/transformers/modules/startupradar"
)

func TestCachedResponse_RoundTrip(t *testing.T) {
	payload := map[string]interface{}{"bla": 1.0, "test": false}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := startupradar.OKResponse(data).ToBytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	restored, err := startupradar.CachedResponseFromBytes(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if restored.Status != startupradar.StatusOK {
		t.Errorf("expected status ok, got %q", restored.Status)
	}
	var restoredPayload map[string]interface{}
	if err := json.Unmarshal(restored.Data, &restoredPayload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(restoredPayload, payload) {
		t.Errorf("expected %v, got %v", payload, restoredPayload)
	}
}

func TestCachedResponse_NotFoundRoundTrip(t *testing.T) {
	raw, err := startupradar.NotFoundResponse().ToBytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	restored, err := startupradar.CachedResponseFromBytes(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored.Status != startupradar.StatusNotFound {
		t.Errorf("expected status not found, got %q", restored.Status)
	}
}

func TestPassthroughCache(t *testing.T) {
	ctx := context.Background()
	cache := startupradar.PassthroughCache{}

	if err := cache.Put(ctx, "/sources", startupradar.NotFoundResponse()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cache.Get(ctx, "/sources"); !errors.Is(err, startupradar.ErrNotInCache) {
		t.Errorf("expected ErrNotInCache, got %v", err)
	}
}

func TestKeyValueCache(t *testing.T) {
	ctx := context.Background()
	store := common.NewMemoryStore()
	cache := startupradar.NewKeyValueCache(store)

	endpoint := "/web/domains/example.com"
	if _, err := cache.Get(ctx, endpoint); !errors.Is(err, startupradar.ErrNotInCache) {
		t.Errorf("expected ErrNotInCache, got %v", err)
	}

	if err := cache.Put(ctx, endpoint, startupradar.OKResponse(json.RawMessage(`{"domain":"example.com"}`))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cached, err := cache.Get(ctx, endpoint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached.Status != startupradar.StatusOK {
		t.Errorf("expected status ok, got %q", cached.Status)
	}
	if string(cached.Data) != `{"domain":"example.com"}` {
		t.Errorf("unexpected data %s", string(cached.Data))
	}

	// one storage key maps to one tagged outcome, overwrites allowed
	if err := cache.Put(ctx, endpoint, startupradar.NotFoundResponse()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cached, err = cache.Get(ctx, endpoint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached.Status != startupradar.StatusNotFound {
		t.Errorf("expected status not found, got %q", cached.Status)
	}
}

func TestKeyValueCache_EscapesStorageKeys(t *testing.T) {
	ctx := context.Background()
	store := common.NewMemoryStore()
	cache := startupradar.NewKeyValueCache(store)

	if err := cache.Put(ctx, "/web/domains/example.com", startupradar.NotFoundResponse()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Get(ctx, "%2Fweb%2Fdomains%2Fexample.com"); err != nil {
		t.Errorf("expected escaped storage key, got %v", err)
	}
}

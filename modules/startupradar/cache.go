package startupradar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/startupradar/transformers/common"
)

// ResponseStatus tags a cached envelope as a successful payload or a
// remembered 404.
type ResponseStatus string

const (
	StatusOK       ResponseStatus = "ok"
	StatusNotFound ResponseStatus = "not found"
)

// ErrNotInCache signals a cache miss, meaning the endpoint was never
// requested. It stays internal to the cache-or-fetch path and is never
// surfaced to callers of Service.
var ErrNotInCache = errors.New("endpoint not in cache")

// CachedResponse is the envelope persisted per endpoint. The found/not-found
// distinction lives inside the envelope, not in key presence: a missing key
// means "never requested", a StatusNotFound envelope means "requested and
// absent". Data carries the raw JSON payload and may legitimately be null.
type CachedResponse struct {
	Status ResponseStatus  `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// OKResponse wraps a successful payload.
func OKResponse(data json.RawMessage) CachedResponse {
	return CachedResponse{Status: StatusOK, Data: data}
}

// NotFoundResponse records the absence of a resource.
func NotFoundResponse() CachedResponse {
	return CachedResponse{Status: StatusNotFound}
}

func (r CachedResponse) ToBytes() ([]byte, error) {
	return json.Marshal(r)
}

func CachedResponseFromBytes(raw []byte) (CachedResponse, error) {
	var r CachedResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return CachedResponse{}, fmt.Errorf("failed to decode cached response: %w", err)
	}
	return r, nil
}

// ResponseCache stores one envelope per endpoint path. Get returns
// ErrNotInCache when the endpoint was never stored. Put overwrites,
// last-write-wins.
type ResponseCache interface {
	Get(ctx context.Context, endpoint string) (CachedResponse, error)
	Put(ctx context.Context, endpoint string, response CachedResponse) error
}

// PassthroughCache never hits and never stores, so every operation behaves
// as an uncached direct fetch.
type PassthroughCache struct{}

var _ ResponseCache = PassthroughCache{}

func (PassthroughCache) Get(context.Context, string) (CachedResponse, error) {
	return CachedResponse{}, ErrNotInCache
}

func (PassthroughCache) Put(context.Context, string, CachedResponse) error {
	return nil
}

// KeyValueCache persists envelopes in a byte-oriented key/value store,
// keyed by the percent-escaped endpoint path.
type KeyValueCache struct {
	store common.KeyValueStore
}

var _ ResponseCache = (*KeyValueCache)(nil)

func NewKeyValueCache(store common.KeyValueStore) *KeyValueCache {
	return &KeyValueCache{store: store}
}

func cacheKey(endpoint string) string {
	return url.QueryEscape(endpoint)
}

func (c *KeyValueCache) Get(ctx context.Context, endpoint string) (CachedResponse, error) {
	raw, err := c.store.Get(ctx, cacheKey(endpoint))
	if errors.Is(err, common.ErrKeyNotFound) {
		return CachedResponse{}, ErrNotInCache
	}
	if err != nil {
		return CachedResponse{}, err
	}
	return CachedResponseFromBytes(raw)
}

func (c *KeyValueCache) Put(ctx context.Context, endpoint string, response CachedResponse) error {
	raw, err := response.ToBytes()
	if err != nil {
		return err
	}
	return c.store.Put(ctx, cacheKey(endpoint), raw)
}

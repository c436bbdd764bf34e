package startupradar_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"

	"github.com/startupradar/transformers/modules/startupradar"
)

// concurrentMockClient is safe for use from the prefetch worker pool.
type concurrentMockClient struct {
	mu        sync.Mutex
	sendFunc  func(endpoint string) (json.RawMessage, error)
	endpoints []string
}

func (m *concurrentMockClient) Send(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	m.mu.Lock()
	m.endpoints = append(m.endpoints, endpoint)
	m.mu.Unlock()
	return m.sendFunc(endpoint)
}

func (m *concurrentMockClient) SendPaged(ctx context.Context, endpoint string) ([]json.RawMessage, error) {
	raw, err := m.Send(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (m *concurrentMockClient) PageLimit() int {
	return startupradar.DefaultPageLimit
}

func (m *concurrentMockClient) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.endpoints)
}

func TestPrefetcher_WarmFillsCache(t *testing.T) {
	ctx := context.Background()
	client := &concurrentMockClient{
		sendFunc: func(endpoint string) (json.RawMessage, error) {
			return json.RawMessage(`{"domain":"warmed"}`), nil
		},
	}
	cache := newMemoryCache()
	svc := startupradar.NewService(client, cache)

	domains := []string{"a.com", "b.com", "c.com"}
	prefetcher := startupradar.NewPrefetcher(svc, 2, startupradar.WarmDomain)
	if err := prefetcher.Warm(ctx, domains); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := client.calls(); got != len(domains) {
		t.Errorf("expected %d transport calls, got %d", len(domains), got)
	}

	// all subsequent reads are served from the cache
	for _, domain := range domains {
		if _, err := svc.GetDomain(ctx, domain); err != nil {
			t.Errorf("unexpected error for %s: %v", domain, err)
		}
	}
	if got := client.calls(); got != len(domains) {
		t.Errorf("expected cache hits after warming, got %d calls", got)
	}
}

func TestPrefetcher_NotFoundIsWarmedToo(t *testing.T) {
	ctx := context.Background()
	client := &concurrentMockClient{
		sendFunc: func(endpoint string) (json.RawMessage, error) {
			return nil, &startupradar.NotFoundError{Endpoint: endpoint}
		},
	}
	svc := startupradar.NewService(client, newMemoryCache())

	prefetcher := startupradar.NewPrefetcher(svc, 1, startupradar.WarmWhois)
	if err := prefetcher.Warm(ctx, []string{"missing.com"}); err != nil {
		t.Fatalf("expected not-found to be tolerated, got %v", err)
	}

	// the negative result replays without another transport call
	_, err := svc.GetWhois(ctx, "missing.com")
	var notFound *startupradar.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
	if got := client.calls(); got != 1 {
		t.Errorf("expected 1 transport call, got %d", got)
	}
}

func TestPrefetcher_SkipsInvalidDomains(t *testing.T) {
	ctx := context.Background()
	client := &concurrentMockClient{
		sendFunc: func(endpoint string) (json.RawMessage, error) {
			return json.RawMessage(`{}`), nil
		},
	}
	svc := startupradar.NewService(client, newMemoryCache())

	prefetcher := startupradar.NewPrefetcher(svc, 2, startupradar.WarmDomain)
	if err := prefetcher.Warm(ctx, []string{"ok.com", "www.invalid.com"}); err != nil {
		t.Fatalf("expected invalid domains to be skipped, got %v", err)
	}
	if got := client.calls(); got != 1 {
		t.Errorf("expected 1 transport call, got %d", got)
	}
}

func TestPrefetcher_AbortsOnHardFailure(t *testing.T) {
	ctx := context.Background()
	client := &concurrentMockClient{
		sendFunc: func(endpoint string) (json.RawMessage, error) {
			return nil, &startupradar.ForbiddenError{Detail: "invalid api key"}
		},
	}
	svc := startupradar.NewService(client, newMemoryCache())

	domains := make([]string, 10)
	for i := range domains {
		domains[i] = fmt.Sprintf("domain-%d.com", i)
	}
	prefetcher := startupradar.NewPrefetcher(svc, 2, startupradar.WarmDomain)
	err := prefetcher.Warm(ctx, domains)
	var forbidden *startupradar.ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Fatalf("expected *ForbiddenError, got %v", err)
	}
}

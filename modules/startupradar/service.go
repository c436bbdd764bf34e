package startupradar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/startupradar/transformers/common/model"
)

// DomainsIgnoredBacklinks lists high-fan-in platform domains whose
// backlinks are never fetched: the result sets are pathologically large
// and carry no useful signal.
var DomainsIgnoredBacklinks = []string{
	"facebook.com",
	"twitter.com",
	"instagram.com",
	"linkedin.com",
}

// LinkDirection selects which side of the link graph a paged fetch walks.
type LinkDirection string

const (
	LinksOutbound LinkDirection = "domain-links"
	LinksInbound  LinkDirection = "domain-backlinks"
)

// Service is the high-level interface to the StartupRadar API. Every
// domain-taking operation validates its argument before any I/O, and every
// operation except GenerateDomains goes through the configured cache.
type Service interface {
	Get(ctx context.Context) (json.RawMessage, error)
	GetDomain(ctx context.Context, domain string) (*model.DomainRecord, error)
	GetText(ctx context.Context, domain string) (*model.TextRecord, error)
	GetLinks(ctx context.Context, domain string) ([]model.LinkRecord, error)
	GetBacklinks(ctx context.Context, domain string) ([]model.LinkRecord, error)
	GetSimilar(ctx context.Context, domain string) ([]model.SimilarDomain, error)
	GetSocials(ctx context.Context, domain string) (*model.SocialLinks, error)
	GetSources(ctx context.Context) ([]model.Source, error)
	GetWhois(ctx context.Context, domain string) (*model.WhoisRecord, error)
	GenerateDomains(ctx context.Context) *DomainIterator
	IsCached() bool
}

type service struct {
	client                 Client
	cache                  ResponseCache
	logger                 *zap.Logger
	ignoredBacklinkDomains map[string]struct{}
	cached                 bool
}

// NewService constructs a Service. A nil cache behaves like a
// PassthroughCache, i.e. every operation is an uncached direct fetch.
func NewService(client Client, cache ResponseCache, opts ...Option) Service {
	o := newOptions(opts)

	cached := true
	switch cache.(type) {
	case nil:
		cache = PassthroughCache{}
		cached = false
	case PassthroughCache, *PassthroughCache:
		cached = false
	}

	ignored := make(map[string]struct{}, len(o.ignoredBacklinkDomains))
	for _, d := range o.ignoredBacklinkDomains {
		ignored[d] = struct{}{}
	}

	return &service{
		client:                 client,
		cache:                  cache,
		logger:                 o.logger,
		ignoredBacklinkDomains: ignored,
		cached:                 cached,
	}
}

// IsCached reports whether a persistent (non-passthrough) cache is
// configured. Consumers use this to decide whether pre-warming the cache
// is worthwhile.
func (s *service) IsCached() bool {
	return s.cached
}

// Get fetches the API root resource.
func (s *service) Get(ctx context.Context) (json.RawMessage, error) {
	return s.cachedRequest(ctx, "/", nil)
}

// GetDomain fetches the metadata record for one domain.
func (s *service) GetDomain(ctx context.Context, domain string) (*model.DomainRecord, error) {
	if err := EnsureValidDomain(domain); err != nil {
		return nil, err
	}
	raw, err := s.cachedRequest(ctx, "/web/domains/"+domain, nil)
	if err != nil {
		return nil, err
	}
	var record *model.DomainRecord
	if err := model.JSONUnmarshal(raw, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// GetText fetches the text extracted from a domain's pages.
func (s *service) GetText(ctx context.Context, domain string) (*model.TextRecord, error) {
	if err := EnsureValidDomain(domain); err != nil {
		return nil, err
	}
	raw, err := s.cachedRequest(ctx, "/web/domains/"+domain+"/text", nil)
	if err != nil {
		return nil, err
	}
	var record *model.TextRecord
	if err := model.JSONUnmarshal(raw, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// GetLinks fetches all outbound links of a domain.
func (s *service) GetLinks(ctx context.Context, domain string) ([]model.LinkRecord, error) {
	if err := EnsureValidDomain(domain); err != nil {
		return nil, err
	}
	return s.fetchLinks(ctx, domain, LinksOutbound)
}

// GetBacklinks fetches all domains linking to the given domain. Domains on
// the ignore list short-circuit to an empty result without touching the
// network or the cache.
func (s *service) GetBacklinks(ctx context.Context, domain string) ([]model.LinkRecord, error) {
	if err := EnsureValidDomain(domain); err != nil {
		return nil, err
	}
	if _, ignored := s.ignoredBacklinkDomains[domain]; ignored {
		s.logger.Warn("domain is ignored because it would return too many backlinks, returning empty backlinks instead",
			zap.String("domain", domain))
		return []model.LinkRecord{}, nil
	}
	return s.fetchLinks(ctx, domain, LinksInbound)
}

func (s *service) fetchLinks(ctx context.Context, domain string, direction LinkDirection) ([]model.LinkRecord, error) {
	endpoint := fmt.Sprintf("/web/domains/%s/links/%s", domain, direction)
	raw, err := s.cachedRequestPaged(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	var links []model.LinkRecord
	if err := model.JSONUnmarshal(raw, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// GetSimilar fetches domains similar to the given one.
func (s *service) GetSimilar(ctx context.Context, domain string) ([]model.SimilarDomain, error) {
	if err := EnsureValidDomain(domain); err != nil {
		return nil, err
	}
	raw, err := s.cachedRequest(ctx, "/web/domains/"+domain+"/similar", nil)
	if err != nil {
		return nil, err
	}
	var similar []model.SimilarDomain
	if err := model.JSONUnmarshal(raw, &similar); err != nil {
		return nil, err
	}
	return similar, nil
}

// GetSocials fetches the social media profiles found for a domain.
func (s *service) GetSocials(ctx context.Context, domain string) (*model.SocialLinks, error) {
	if err := EnsureValidDomain(domain); err != nil {
		return nil, err
	}
	raw, err := s.cachedRequest(ctx, "/web/domains/"+domain+"/socials", nil)
	if err != nil {
		return nil, err
	}
	var socials *model.SocialLinks
	if err := model.JSONUnmarshal(raw, &socials); err != nil {
		return nil, err
	}
	return socials, nil
}

// GetSources fetches the list of discovery sources.
func (s *service) GetSources(ctx context.Context) ([]model.Source, error) {
	raw, err := s.cachedRequest(ctx, "/sources", nil)
	if err != nil {
		return nil, err
	}
	var sources []model.Source
	if err := model.JSONUnmarshal(raw, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// GetWhois fetches a domain's whois record. The created/changed/expires
// strings are decoded to times, with null or empty mapping to nil.
func (s *service) GetWhois(ctx context.Context, domain string) (*model.WhoisRecord, error) {
	if err := EnsureValidDomain(domain); err != nil {
		return nil, err
	}
	raw, err := s.cachedRequest(ctx, "/web/domains/"+domain+"/whois", nil)
	if err != nil {
		return nil, err
	}
	var record *model.WhoisRecord
	if err := model.JSONUnmarshal(raw, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// cachedRequest applies the cache-or-fetch policy to a point lookup.
func (s *service) cachedRequest(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	return s.cachedFetch(ctx, endpoint, params, func(ctx context.Context) (json.RawMessage, error) {
		return s.client.Send(ctx, endpoint, params)
	})
}

// cachedRequestPaged applies the cache-or-fetch policy to a paged fetch.
// The whole flattened aggregate is cached as a single entry.
func (s *service) cachedRequestPaged(ctx context.Context, endpoint string) (json.RawMessage, error) {
	return s.cachedFetch(ctx, endpoint, nil, func(ctx context.Context) (json.RawMessage, error) {
		records, err := s.client.SendPaged(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		if records == nil {
			records = []json.RawMessage{}
		}
		return json.Marshal(records)
	})
}

// cachedFetch is the cache-or-fetch policy shared by every cached
// operation:
//
//  1. Parameterized requests bypass the cache entirely, since the key
//     scheme is the raw endpoint path only.
//  2. A cache hit either returns the stored payload or replays a
//     remembered 404 as *NotFoundError, without a network call.
//  3. On a miss the real fetch runs. Success and 404 are persisted
//     (positive and negative knowledge); every other failure propagates
//     uncached.
func (s *service) cachedFetch(ctx context.Context, endpoint string, params url.Values, fetch func(ctx context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	if len(params) > 0 {
		s.logger.Warn("skipping cache for parameterized request",
			zap.String("endpoint", endpoint),
			zap.Any("params", params))
		return fetch(ctx)
	}

	cached, err := s.cache.Get(ctx, endpoint)
	switch {
	case err == nil:
		if cached.Status == StatusNotFound {
			cacheLookupsTotal.WithLabelValues(lookupReplayedNotFound).Inc()
			s.logger.Debug("replaying cached not-found", zap.String("endpoint", endpoint))
			return nil, &NotFoundError{Endpoint: endpoint}
		}
		cacheLookupsTotal.WithLabelValues(lookupHit).Inc()
		s.logger.Debug("serving cached response", zap.String("endpoint", endpoint))
		return cached.Data, nil
	case errors.Is(err, ErrNotInCache):
		cacheLookupsTotal.WithLabelValues(lookupMiss).Inc()
	default:
		return nil, err
	}

	data, err := fetch(ctx)
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		// remember the absence so the next call replays the 404 without a
		// network round trip
		if putErr := s.cache.Put(ctx, endpoint, NotFoundResponse()); putErr != nil {
			s.logger.Warn("failed to cache not-found response",
				zap.String("endpoint", endpoint), zap.Error(putErr))
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug("got fresh response", zap.String("endpoint", endpoint))
	if putErr := s.cache.Put(ctx, endpoint, OKResponse(data)); putErr != nil {
		s.logger.Warn("failed to cache response",
			zap.String("endpoint", endpoint), zap.Error(putErr))
	}
	return data, nil
}

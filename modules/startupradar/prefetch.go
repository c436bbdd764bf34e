package startupradar

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// WarmOp is one per-domain operation run while warming the cache.
type WarmOp func(ctx context.Context, svc Service, domain string) error

// The cacheable per-domain operations, usable as WarmOps.
func WarmDomain(ctx context.Context, svc Service, domain string) error {
	_, err := svc.GetDomain(ctx, domain)
	return err
}

func WarmSocials(ctx context.Context, svc Service, domain string) error {
	_, err := svc.GetSocials(ctx, domain)
	return err
}

func WarmBacklinks(ctx context.Context, svc Service, domain string) error {
	_, err := svc.GetBacklinks(ctx, domain)
	return err
}

func WarmWhois(ctx context.Context, svc Service, domain string) error {
	_, err := svc.GetWhois(ctx, domain)
	return err
}

// Prefetcher fills a persistent cache from a worker pool ahead of
// sequential consumption. It relies on the store's last-write-wins
// contract; it does not guarantee single-flight per key.
type Prefetcher struct {
	service     Service
	concurrency int
	ops         []WarmOp
	logger      *zap.Logger
}

// NewPrefetcher builds a Prefetcher running the given operations per
// domain. With no ops it warms domain metadata only.
func NewPrefetcher(svc Service, concurrency int, ops ...WarmOp) *Prefetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	if len(ops) == 0 {
		ops = []WarmOp{WarmDomain}
	}
	return &Prefetcher{
		service:     svc,
		concurrency: concurrency,
		ops:         ops,
		logger:      zap.NewNop(),
	}
}

// WithLogger attaches a logger for skip diagnostics.
func (p *Prefetcher) WithLogger(logger *zap.Logger) *Prefetcher {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Warm runs the configured operations for every domain. Not-found results
// are fine: the negative envelope lands in the cache, which is exactly the
// point. Invalid domains are skipped with a warning. Any other failure
// aborts the warm-up.
func (p *Prefetcher) Warm(ctx context.Context, domains []string) error {
	if !p.service.IsCached() {
		p.logger.Warn("warming without a persistent cache has no effect")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for _, domain := range domains {
		domain := domain
		g.Go(func() error {
			for _, op := range p.ops {
				err := op(ctx, p.service, domain)
				if err == nil {
					continue
				}

				var notFound *NotFoundError
				if errors.As(err, &notFound) {
					continue
				}
				var invalid *InvalidDomainError
				if errors.As(err, &invalid) {
					p.logger.Warn("skipping invalid domain", zap.String("domain", domain))
					return nil
				}
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

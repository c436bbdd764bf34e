package startupradar

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess   = "success"
	outcomeNotFound  = "not_found"
	outcomeForbidden = "forbidden"
	outcomeError     = "error"

	lookupHit              = "hit"
	lookupMiss             = "miss"
	lookupReplayedNotFound = "replayed_not_found"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "startupradar_api_requests_total",
		Help: "API requests by outcome",
	}, []string{"outcome"})

	cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "startupradar_cache_lookups_total",
		Help: "Response cache lookups by result",
	}, []string{"result"})
)

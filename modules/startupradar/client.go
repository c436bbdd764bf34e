package startupradar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/startupradar/transformers/common"
	"github.com/startupradar/transformers/common/model"
)

const (
	// DefaultBaseURL is the production API origin.
	DefaultBaseURL = "https://api.startupradar.co/"

	// DefaultPageLimit is the page size requested from paginated endpoints.
	DefaultPageLimit = 100

	// DefaultMaxPages bounds runaway pagination against server bugs.
	DefaultMaxPages = 100
)

// Client defines the lower-level HTTP operations against the API: issuing
// one GET with status mapping, and walking a paginated endpoint.
type Client interface {
	// Send performs a single GET. It returns the raw JSON payload on 200
	// and a typed error otherwise: *ForbiddenError for 403, *NotFoundError
	// for 404, *UnhandledStatusError for anything else and *TransportError
	// when no status was obtained at all.
	Send(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error)

	// SendPaged fetches pages 0..maxPages-1 with {page, limit} params and
	// returns the flattened concatenation of all records. It stops at the
	// first page strictly shorter than the page limit; exhausting maxPages
	// truncates silently instead of erroring.
	SendPaged(ctx context.Context, endpoint string) ([]json.RawMessage, error)

	// PageLimit returns the configured page size.
	PageLimit() int
}

type apiClient struct {
	baseURL    string
	apiKey     string
	httpClient common.HttpClient
	pageLimit  int
	maxPages   int
	logger     *zap.Logger
}

// NewClient creates a Client that talks to the API at baseURL. Every
// request carries apiKey in the X-ApiKey header.
func NewClient(baseURL, apiKey string, httpClient common.HttpClient, opts ...Option) Client {
	o := newOptions(opts)
	return &apiClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		pageLimit:  o.pageLimit,
		maxPages:   o.maxPages,
		logger:     o.logger,
	}
}

func (c *apiClient) PageLimit() int {
	return c.pageLimit
}

func (c *apiClient) Send(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	urlStr, err := c.buildURL(endpoint, params)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("requesting endpoint",
		zap.String("url", urlStr),
		zap.Any("params", params))

	data, status, err := c.executeRequest(ctx, urlStr)
	if err != nil {
		requestsTotal.WithLabelValues(outcomeError).Inc()
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	switch status {
	case http.StatusOK:
		requestsTotal.WithLabelValues(outcomeSuccess).Inc()
		return json.RawMessage(data), nil
	case http.StatusForbidden:
		requestsTotal.WithLabelValues(outcomeForbidden).Inc()
		var body struct {
			Detail string `json:"detail"`
		}
		if err := model.JSONUnmarshal(data, &body); err != nil {
			body.Detail = string(data)
		}
		return nil, &ForbiddenError{Detail: body.Detail}
	case http.StatusNotFound:
		requestsTotal.WithLabelValues(outcomeNotFound).Inc()
		return nil, &NotFoundError{Endpoint: endpoint}
	default:
		requestsTotal.WithLabelValues(outcomeError).Inc()
		return nil, &UnhandledStatusError{StatusCode: status, Endpoint: endpoint, Params: params}
	}
}

func (c *apiClient) SendPaged(ctx context.Context, endpoint string) ([]json.RawMessage, error) {
	var records []json.RawMessage
	for page := 0; page < c.maxPages; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("limit", strconv.Itoa(c.pageLimit))

		raw, err := c.Send(ctx, endpoint, params)
		if err != nil {
			return nil, err
		}

		var pageRecords []json.RawMessage
		if err := model.JSONUnmarshal(raw, &pageRecords); err != nil {
			return nil, fmt.Errorf("failed to decode page %d of %s: %w", page, endpoint, err)
		}
		records = append(records, pageRecords...)

		if len(pageRecords) < c.pageLimit {
			// less results than limit -> last page
			return records, nil
		}
	}
	c.logger.Warn("stopping pagination at max pages",
		zap.String("endpoint", endpoint),
		zap.Int("max_pages", c.maxPages))
	return records, nil
}

// executeRequest actually does the low-level HTTP.
func (c *apiClient) executeRequest(ctx context.Context, urlStr string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-ApiKey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", readErr)
	}
	return data, resp.StatusCode, nil
}

// buildURL merges baseURL + endpoint + params.
func (c *apiClient) buildURL(endpoint string, params url.Values) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	path, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}

	fullURL := base.ResolveReference(path)
	q := fullURL.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	fullURL.RawQuery = q.Encode()
	return fullURL.String(), nil
}

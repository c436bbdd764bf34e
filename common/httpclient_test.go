package common_test

import (
	"net/http"
	"testing"

	"github.com/startupradar/transformers/common"
)

// captureRoundTripper records the request it sees and returns a canned
// response without hitting the network.
type captureRoundTripper struct {
	lastReq *http.Request
}

func (rt *captureRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.lastReq = req
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       http.NoBody,
	}, nil
}

func TestRadarHttpClient_SetsUserAgent(t *testing.T) {
	capture := &captureRoundTripper{}
	base := &http.Client{Transport: capture}
	client := common.NewRadarHttpClient("test-agent/1.0", base)

	req, err := http.NewRequest(http.MethodGet, "https://example.com/", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if got := capture.lastReq.Header.Get("User-Agent"); got != "test-agent/1.0" {
		t.Errorf("expected User-Agent test-agent/1.0, got %q", got)
	}
	// the original request must stay untouched
	if got := req.Header.Get("User-Agent"); got != "" {
		t.Errorf("original request was mutated, User-Agent %q", got)
	}
}

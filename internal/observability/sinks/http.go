package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/leefowlercu/pais-hooks/internal/observability"
)

// HTTPSink POSTs each event as JSON to an endpoint
type HTTPSink struct {
	endpoint string
	client   *http.Client
}

// Force compile-time check for interface implementation
var _ observability.Sink = (*HTTPSink)(nil)

// NewHTTPSink creates an HTTP sink with a per-request timeout
func NewHTTPSink(endpoint string, timeout time.Duration) *HTTPSink {
	return &HTTPSink{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Emit sends the event; any non-2xx status is a failure
func (s *HTTPSink) Emit(ctx context.Context, event observability.Event) observability.Result {
	body, err := json.Marshal(event)
	if err != nil {
		return observability.Result{
			Success: false,
			Message: fmt.Sprintf("Failed to marshal event: %v", err),
			Error:   err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return observability.Result{
			Success: false,
			Message: fmt.Sprintf("Failed to build request: %v", err),
			Error:   err,
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return observability.Result{
			Success: false,
			Message: fmt.Sprintf("HTTP request failed: %v", err),
			Error:   err,
		}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		return observability.Result{
			Success: false,
			Message: fmt.Sprintf("HTTP sink rejected event: %v", err),
			Error:   err,
		}
	}

	return observability.Result{
		Success: true,
		Message: fmt.Sprintf("Posted event to %s", s.endpoint),
	}
}

// GetType returns the sink type identifier
func (s *HTTPSink) GetType() string {
	return "http"
}

// Validate checks if the sink configuration is valid
func (s *HTTPSink) Validate() error {
	if s.endpoint == "" {
		return fmt.Errorf("http_endpoint cannot be empty")
	}

	u, err := url.Parse(s.endpoint)
	if err != nil {
		return fmt.Errorf("invalid http_endpoint; %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("http_endpoint must use http or https, got: %q", u.Scheme)
	}

	return nil
}

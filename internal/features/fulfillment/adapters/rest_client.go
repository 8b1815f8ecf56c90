package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"fulfillment-hub/internal/features/fulfillment/domain"
)

// apiError carries an HTTP-level supplier failure out of restClient so each
// adapter can map it into the domain taxonomy with endpoint context.
type apiError struct {
	// Status is the HTTP status code the supplier returned.
	Status int
	// Message is the supplier-supplied error text, if any.
	Message string
	// RetryAfter is the supplier-advertised backoff, zero when absent.
	RetryAfter time.Duration
}

func (e *apiError) Error() string {
	return fmt.Sprintf("supplier API returned status %d: %s", e.Status, e.Message)
}

// restClient is the shared JSON-over-HTTP plumbing for supplier adapters.
// It translates network failures into TransportError immediately; HTTP
// failures come back as *apiError for the adapter to classify.
type restClient struct {
	http      *http.Client
	baseURL   string
	provider  string
	authorize func(*http.Request)
}

// errorEnvelope is the common {"error": "..."} / {"message": "..."} shape
// most suppliers use for failure bodies.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doJSON executes one supplier call. On 2xx the body is decoded into out
// (when out is non-nil). Returns *domain.TransportError for network/timeout
// failures and *apiError for HTTP-level failures.
func (c *restClient) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.authorize != nil {
		c.authorize(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.TransportError{Provider: c.provider, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.readAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode supplier response: %w", err)
		}
	}
	return nil
}

// readAPIError extracts the supplier's error text and backoff hint.
func (c *restClient) readAPIError(resp *http.Response) *apiError {
	apiErr := &apiError{Status: resp.StatusCode}

	if retry := resp.Header.Get("Retry-After"); retry != "" {
		if seconds, err := strconv.Atoi(retry); err == nil {
			apiErr.RetryAfter = time.Duration(seconds) * time.Second
		}
	}

	var envelope errorEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&envelope); err == nil {
		if envelope.Error != "" {
			apiErr.Message = envelope.Error
		} else {
			apiErr.Message = envelope.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// classify maps an adapter-agnostic call failure into the domain taxonomy.
// notFound is the error to use for a 404; pass nil to treat 404 like any
// other supplier failure. rejectReason controls whether 4xx business
// rejections become OrderCreationError.
func classify(provider string, err error, notFound error, orderRejection bool) error {
	apiErr, ok := err.(*apiError)
	if !ok {
		// Already a TransportError or an encode/decode failure.
		if _, isTransport := err.(*domain.TransportError); isTransport {
			return err
		}
		return &domain.TransportError{Provider: provider, Err: err}
	}

	switch {
	case apiErr.Status == http.StatusTooManyRequests:
		return &domain.RateLimitError{Provider: provider, RetryAfter: apiErr.RetryAfter}
	case apiErr.Status == http.StatusNotFound && notFound != nil:
		return notFound
	case orderRejection && apiErr.Status >= 400 && apiErr.Status < 500:
		return &domain.OrderCreationError{Provider: provider, Reason: apiErr.Message}
	default:
		// 5xx and unexpected 4xx: the supplier-side outcome is unknown.
		return &domain.TransportError{Provider: provider, Err: apiErr}
	}
}

// bearerAuth returns an authorize func setting a Bearer token header.
func bearerAuth(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

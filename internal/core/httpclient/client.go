package httpclient

import (
	"net/http"
	"time"

	"fulfillment-hub/internal/core/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	logger.Get().Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		logger.Get().Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Get().Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// throttledRoundTripper blocks until the limiter grants a slot before
// delegating. Used for suppliers with strict request quotas.
type throttledRoundTripper struct {
	proxied http.RoundTripper
	limiter *rate.Limiter
}

// RoundTrip waits for the rate limiter, then executes the request.
func (trt *throttledRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := trt.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return trt.proxied.RoundTrip(req)
}

// NewClient returns an http.Client with logging middleware.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: http.DefaultTransport,
		},
		Timeout: timeout,
	}
}

// NewRateLimitedClient returns an http.Client that spaces requests to stay
// under the given per-minute quota, with logging middleware underneath.
func NewRateLimitedClient(timeout time.Duration, requestsPerMinute int) *http.Client {
	if requestsPerMinute <= 0 {
		return NewClient(timeout)
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute)
	return &http.Client{
		Transport: &throttledRoundTripper{
			proxied: &LoggingRoundTripper{Proxied: http.DefaultTransport},
			limiter: limiter,
		},
		Timeout: timeout,
	}
}

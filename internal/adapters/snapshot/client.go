package snapshot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/alejandrodnm/oddsdesk/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultRatePerSec = 2

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// HTTPSource descarga el snapshot publicado en una URL (p. ej. un bucket o CDN),
// con rate limiting y retries.
type HTTPSource struct {
	http    *http.Client
	url     string
	limiter *rate.Limiter
}

// NewHTTPSource crea un HTTPSource. timeout <= 0 y ratePerSec <= 0 usan los defaults.
func NewHTTPSource(url string, timeout time.Duration, ratePerSec float64) *HTTPSource {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if ratePerSec <= 0 {
		ratePerSec = defaultRatePerSec
	}
	return &HTTPSource{
		http:    &http.Client{Timeout: timeout},
		url:     url,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), 1),
	}
}

// Load implementa ports.DatasetSource.
func (s *HTTPSource) Load(ctx context.Context) (domain.Dataset, error) {
	var ds domain.Dataset
	err := s.doWithRetry(ctx, func(body io.Reader) error {
		var err error
		ds, err = decodeDataset(body)
		return err
	})
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("snapshot.HTTPSource.Load %s: %w", s.url, err)
	}

	slog.Debug("snapshot downloaded",
		"url", s.url,
		"questions", len(ds.Questions),
		"quotes", len(ds.Quotes),
		"events", len(ds.Events),
	)
	return ds, nil
}

// doWithRetry hace el GET con backoff exponencial; 429 y 5xx se reintentan,
// el resto de 4xx no.
func (s *HTTPSource) doWithRetry(ctx context.Context, decode func(io.Reader) error) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			s.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			slog.Warn("rate limited by snapshot host", "attempt", attempt+1)
			s.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			s.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		err = decode(resp.Body)
		resp.Body.Close()
		return err
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (s *HTTPSource) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}

package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"resumescan/internal/errors"
)

// RemoteConfig configures the remote dictionary service client.
type RemoteConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration

	BreakerEnabled          bool
	BreakerMaxRequests      uint32
	BreakerInterval         time.Duration
	BreakerTimeout          time.Duration
	BreakerFailureThreshold float64
	BreakerMinRequests      uint32
}

// RemoteStore fetches dictionaries from an HTTP service. Requests run through
// a circuit breaker so a degraded dictionary service cannot stall analysis
// requests; callers treat a breaker-open error like a dictionary miss.
type RemoteStore struct {
	baseURL string
	token   string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *errors.Logger
}

// NewRemoteStore creates a remote dictionary client.
func NewRemoteStore(cfg RemoteConfig, logger *errors.Logger) *RemoteStore {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	rs := &RemoteStore{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}

	if cfg.BreakerEnabled {
		rs.breaker = newBreaker(cfg, logger)
	}
	return rs
}

func newBreaker(cfg RemoteConfig, logger *errors.Logger) *gobreaker.CircuitBreaker[[]byte] {
	settings := gobreaker.Settings{
		Name:        "dictionary-remote",
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.BreakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("Circuit breaker state changed",
					"breaker", name,
					"from", from.String(),
					"to", to.String())
			}
		},
	}
	return gobreaker.NewCircuitBreaker[[]byte](settings)
}

func (rs *RemoteStore) fetch(ctx context.Context, path string) ([]byte, error) {
	doFetch := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rs.baseURL+path, nil)
		if err != nil {
			return nil, errors.NewNetworkError(errors.ErrCodeDictionaryFetch,
				"failed to build dictionary request", err)
		}
		req.Header.Set("Accept", "application/json")
		if rs.token != "" {
			req.Header.Set("Authorization", "Bearer "+rs.token)
		}

		resp, err := rs.client.Do(req)
		if err != nil {
			return nil, errors.NewNetworkError(errors.ErrCodeDictionaryFetch,
				"dictionary service request failed", err).WithContext("path", path)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, errors.NewDictionaryError(errors.ErrCodeFileNotFound,
				"dictionary not found", nil).WithContext("path", path)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, errors.NewNetworkError(errors.ErrCodeDictionaryFetch,
				fmt.Sprintf("dictionary service returned status %d", resp.StatusCode),
				nil).WithContext("path", path)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return nil, errors.NewNetworkError(errors.ErrCodeDictionaryFetch,
				"failed to read dictionary response", err).WithContext("path", path)
		}
		return body, nil
	}

	if rs.breaker == nil {
		return doFetch()
	}
	return rs.breaker.Execute(doFetch)
}

func (rs *RemoteStore) Get(ctx context.Context, id string) (*Dictionary, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	body, err := rs.fetch(ctx, "/dictionaries/"+id)
	if err != nil {
		return nil, err
	}

	var d Dictionary
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, errors.NewDictionaryError(errors.ErrCodeDictionaryDecode,
			"failed to decode dictionary response", err).WithContext("dictionary_id", id)
	}
	if d.ID == "" {
		d.ID = id
	}
	return &d, nil
}

func (rs *RemoteStore) List(ctx context.Context) ([]string, error) {
	body, err := rs.fetch(ctx, "/dictionaries")
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, errors.NewDictionaryError(errors.ErrCodeDictionaryDecode,
			"failed to decode dictionary list response", err)
	}
	return ids, nil
}

// BreakerStats reports circuit breaker health for the stats endpoint.
func (rs *RemoteStore) BreakerStats() map[string]any {
	if rs.breaker == nil {
		return map[string]any{"enabled": false}
	}
	counts := rs.breaker.Counts()
	return map[string]any{
		"enabled":              true,
		"state":                rs.breaker.State().String(),
		"requests":             counts.Requests,
		"total_successes":      counts.TotalSuccesses,
		"total_failures":       counts.TotalFailures,
		"consecutive_failures": counts.ConsecutiveFailures,
	}
}

// IsHealthy reports whether the breaker allows requests.
func (rs *RemoteStore) IsHealthy() bool {
	return rs.breaker == nil || rs.breaker.State() != gobreaker.StateOpen
}

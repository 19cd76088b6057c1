package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
)

// ResilientClient wraps an HTTP client with a circuit breaker and
// exponential-backoff retries for calls to the reasoning API.
type ResilientClient struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	config  ResilientClientConfig
}

type ResilientClientConfig struct {
	EnableCircuitBreaker bool
	MaxFailures          uint32
	CircuitTimeout       time.Duration

	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultResilientClientConfig() ResilientClientConfig {
	return ResilientClientConfig{
		EnableCircuitBreaker: getEnvBool("REASONING_CIRCUIT_BREAKER_ENABLED", true),
		MaxFailures:          uint32(getEnvInt("REASONING_CIRCUIT_BREAKER_MAX_FAILURES", 5)),
		CircuitTimeout:       time.Duration(getEnvInt("REASONING_CIRCUIT_BREAKER_TIMEOUT_SECONDS", 30)) * time.Second,
		MaxRetries:           getEnvInt("REASONING_RETRY_MAX_ATTEMPTS", 3),
		InitialInterval:      time.Duration(getEnvInt("REASONING_RETRY_INITIAL_INTERVAL_MS", 500)) * time.Millisecond,
		MaxInterval:          time.Duration(getEnvInt("REASONING_RETRY_MAX_INTERVAL_MS", 5000)) * time.Millisecond,
	}
}

func NewResilientClient(timeout time.Duration, config ResilientClientConfig) *ResilientClient {
	var breaker *gobreaker.CircuitBreaker
	if config.EnableCircuitBreaker {
		breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "reasoning-api",
			MaxRequests: 1,
			Timeout:     config.CircuitTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= config.MaxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				fmt.Printf("circuit breaker '%s' changed from %s to %s\n", name, from, to)
				if to == gobreaker.StateOpen {
					RecordAPIError("circuit_open")
				}
			},
		})
	}
	return &ResilientClient{
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
		config:  config,
	}
}

// Do executes a request through the circuit breaker with retries.
func (c *ResilientClient) Do(req *http.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.doWithRetry(req)
	}
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doWithRetry(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			RecordAPIError("circuit_open")
			return nil, fmt.Errorf("circuit breaker is open: %w", err)
		}
		return nil, err
	}
	return result.(*http.Response), nil
}

func (c *ResilientClient) doWithRetry(req *http.Request) (*http.Response, error) {
	// The request body must be replayable across attempts.
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.config.InitialInterval
	policy.MaxInterval = c.config.MaxInterval
	policy.Multiplier = 2.0
	policy.MaxElapsedTime = 0

	retryPolicy := backoff.WithContext(
		backoff.WithMaxRetries(policy, uint64(c.config.MaxRetries)),
		req.Context(),
	)

	var resp *http.Response
	operation := func() error {
		if bodyBytes != nil {
			req.Body = io.NopCloser(strings.NewReader(string(bodyBytes)))
		}

		var err error
		resp, err = c.client.Do(req)
		if err != nil {
			RecordAPIError("connection")
			if retryableError(err) {
				return err
			}
			return backoff.Permanent(err)
		}

		if retryableStatus(resp.StatusCode) {
			recordStatusError(resp.StatusCode)
			resp.Body.Close()
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
		}
		if resp.StatusCode >= 400 {
			recordStatusError(resp.StatusCode)
			resp.Body.Close()
			return backoff.Permanent(fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status))
		}
		return nil
	}

	if err := backoff.Retry(operation, retryPolicy); err != nil {
		return nil, fmt.Errorf("request failed after retries: %w", err)
	}
	return resp, nil
}

func retryableError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "EOF")
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func recordStatusError(code int) {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		RecordAPIError("auth")
	case http.StatusTooManyRequests:
		RecordAPIError("rate_limit")
	case http.StatusRequestTimeout:
		RecordAPIError("timeout")
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		RecordAPIError("server_error")
	default:
		RecordAPIError("http_error")
	}
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

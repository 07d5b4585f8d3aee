// Package emailverify checks email deliverability against an external
// validation API before registration.
//
// The check fails open: when the API is unreachable, times out, or the
// circuit is tripped, the address is allowed through. Registration must not
// depend on a third party being up.
package emailverify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ncobase/shopauth/logging/logger"
	"github.com/sony/gobreaker"
)

// Config holds the validation API settings.
type Config struct {
	URL     string        `json:"url" yaml:"url"`
	APIKey  string        `json:"api_key" yaml:"api_key"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Result is the verdict for a single address.
type Result struct {
	Valid  bool
	Reason string
}

// apiResponse mirrors the validation API payload.
type apiResponse struct {
	Email          string `json:"email"`
	Deliverability string `json:"deliverability"`
	IsValidFormat  struct {
		Value bool `json:"value"`
	} `json:"is_valid_format"`
	IsDisposableEmail struct {
		Value bool `json:"value"`
	} `json:"is_disposable_email"`
}

// Verifier calls the validation API with a circuit breaker in front.
type Verifier struct {
	config     *Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewVerifier creates a Verifier. A nil or keyless config disables remote
// checks entirely; Verify then always allows.
func NewVerifier(config *Config) *Verifier {
	timeout := 5 * time.Second
	if config != nil && config.Timeout > 0 {
		timeout = config.Timeout
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "email-validation",
		MaxRequests: 100,
		Interval:    5 * time.Second,
		Timeout:     3 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
	})

	return &Verifier{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    cb,
	}
}

// enabled reports whether remote validation is configured.
func (v *Verifier) enabled() bool {
	return v.config != nil && v.config.URL != "" && v.config.APIKey != ""
}

// Verify checks an address. It returns Valid=false only when the API
// positively reports a bad address; every transport failure allows.
func (v *Verifier) Verify(ctx context.Context, email string) Result {
	if !v.enabled() {
		return Result{Valid: true}
	}

	out, err := v.breaker.Execute(func() (any, error) {
		return v.query(ctx, email)
	})
	if err != nil {
		logger.Warnf(ctx, "email validation unavailable, allowing %s: %v", email, err)
		return Result{Valid: true}
	}

	resp := out.(*apiResponse)
	switch {
	case !resp.IsValidFormat.Value:
		return Result{Valid: false, Reason: "The email address format is invalid."}
	case resp.IsDisposableEmail.Value:
		return Result{Valid: false, Reason: "Disposable email addresses are not allowed."}
	case resp.Deliverability == "UNDELIVERABLE":
		return Result{Valid: false, Reason: "The email address appears to be undeliverable."}
	}
	return Result{Valid: true}
}

// query performs one validation API request.
func (v *Verifier) query(ctx context.Context, email string) (*apiResponse, error) {
	q := url.Values{}
	q.Set("api_key", v.config.APIKey)
	q.Set("email", email)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.config.URL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("validation API returned %s", resp.Status)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.New("validation API returned malformed body")
	}
	return &body, nil
}

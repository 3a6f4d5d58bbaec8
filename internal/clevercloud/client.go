// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

// Package clevercloud implements the Vendor API Gateway (spec.md §4.2,
// component C2): a thin adapter over the clevercloud HTTP API that
// normalizes transport errors into a small taxonomy and hides the two
// supported authentication modes from callers.
package clevercloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Credentials selects the gateway's authentication mode. Bearer-only mode
// is used when only Token is set; OAuth1 mode requires all four fields
// (spec.md §6, "Presence rule").
type Credentials struct {
	Token          string
	Secret         string
	ConsumerKey    string
	ConsumerSecret string
}

// oauth1 reports whether the credential set qualifies for OAuth1 signing.
func (c Credentials) oauth1() bool {
	return c.Secret != "" || c.ConsumerKey != "" || c.ConsumerSecret != ""
}

// Client is a process-lived, concurrency-safe handle on the vendor API. It
// holds no per-request state and is shared by every family's reconciler
// (spec.md §5, "Shared resources").
type Client struct {
	endpoint *url.URL
	creds    Credentials
	signer   requestSigner
	http     *http.Client
	metrics  CallObserver
}

// CallObserver receives one observation per completed vendor call. It is
// satisfied by *telemetry.Metrics without this package importing telemetry.
type CallObserver interface {
	ObserveVendorCall(endpoint, method, status string, d time.Duration)
}

// SetMetrics wires an observer that records one ObserveVendorCall per
// request do() issues. Optional: a Client with no observer set behaves
// exactly as before.
func (c *Client) SetMetrics(m CallObserver) {
	c.metrics = m
}

// requestSigner attaches whatever header(s) the selected auth mode needs to
// an outgoing request.
type requestSigner interface {
	Sign(req *http.Request, form url.Values)
}

// New builds a Client against endpoint, authenticating with creds. endpoint
// must be an absolute URL (e.g. "https://api.clever-cloud.com").
func New(endpoint string, creds Credentials, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("clevercloud: invalid endpoint %q: %w", endpoint, err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	var signer requestSigner
	if creds.oauth1() {
		signer = newOAuth1Signer(creds)
	} else {
		signer = bearerSigner{token: creds.Token}
	}

	return &Client{endpoint: u, creds: creds, signer: signer, http: httpClient}, nil
}

// do issues an HTTP request against path (relative to the configured
// endpoint), encodes body as JSON when non-nil, signs the request per the
// configured auth mode, and decodes a JSON response into out (when out is
// non-nil). Every transport-level failure is normalized into the taxonomy
// defined in errors.go.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	start := time.Now()
	var statusClass string
	defer func() {
		if c.metrics != nil {
			c.metrics.ObserveVendorCall(path, method, statusClass, time.Since(start))
		}
	}()

	u := *c.endpoint
	u.Path = joinPath(u.Path, path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			statusClass = "error"
			return &MalformedError{Err: fmt.Errorf("encoding request body: %w", err)}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		statusClass = "error"
		return &TransientError{Err: fmt.Errorf("building request: %w", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	c.signer.Sign(req, query)

	resp, err := c.http.Do(req)
	if err != nil {
		statusClass = "error"
		if ctx.Err() != nil {
			return &TransientError{Err: ctx.Err()}
		}
		return &TransientError{Err: err}
	}
	defer resp.Body.Close()
	statusClass = statusClassOf(resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransientError{Err: fmt.Errorf("reading response body: %w", err)}
	}

	if err := statusToError(resp, respBody); err != nil {
		return err
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &MalformedError{Err: fmt.Errorf("decoding response body: %w", err)}
	}
	return nil
}

// statusToError classifies a response by status code into the gateway's
// error taxonomy. Returns nil for 2xx.
func statusToError(resp *http.Response, body []byte) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Resource: "addon", ID: ""}
	case resp.StatusCode == http.StatusConflict:
		return &ConflictError{}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &UnauthorizedError{Detail: string(body)}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitedError{RetryAfter: retryAfter(resp)}
	case resp.StatusCode >= 500:
		return &TransientError{Err: fmt.Errorf("vendor status %d: %s", resp.StatusCode, body)}
	case resp.StatusCode >= 400:
		return &PermanentError{Err: fmt.Errorf("vendor status %d: %s", resp.StatusCode, body)}
	default:
		return &MalformedError{Err: fmt.Errorf("unexpected vendor status %d", resp.StatusCode)}
	}
}

// statusClassOf collapses an HTTP status code to a bounded-cardinality label
// ("2xx", "4xx", ...) for metrics. 429 keeps its own "429" label so
// rate-limited calls can be counted apart from other 4xx responses.
func statusClassOf(code int) string {
	if code == http.StatusTooManyRequests {
		return "429"
	}
	return strconv.Itoa(code/100) + "xx"
}

// retryAfter parses the Retry-After header, defaulting to zero (caller falls
// back to its own backoff) when absent or unparseable.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil {
		return time.Duration(secs) * time.Second
	}
	if when, err := http.ParseTime(h); err == nil {
		if d := time.Until(when); d > 0 {
			return d
		}
	}
	return 0
}

func joinPath(base, rel string) string {
	if base == "" || base == "/" {
		return rel
	}
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	for len(rel) > 0 && rel[0] == '/' {
		rel = rel[1:]
	}
	return base + "/" + rel
}

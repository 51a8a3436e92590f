// SPDX-License-Identifier: MPL-2.0

package httpclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-resty/resty/v2"
)

type (
	// Options configures the shared client.
	Options struct {
		// UserAgent is sent with every request when non-empty.
		UserAgent string
		// Proxy is an optional proxy URL.
		Proxy string
		// Transport replaces the default round tripper. Tests use it to inject faults.
		Transport http.RoundTripper
	}

	// Shared is the exclusive-access cell around one resty client.
	// A nil *Shared is valid and reports ErrClientNotConfigured on every call.
	Shared struct {
		mu       sync.Mutex
		client   *resty.Client
		poisoned bool
	}

	// slogAdapter routes resty's internal log lines into slog.
	slogAdapter struct{}
)

// New builds the shared client. It fails only on an unparsable proxy URL.
func New(opts Options) (*Shared, error) {
	client := resty.New().
		SetRetryCount(0).
		SetLogger(slogAdapter{})

	if opts.Transport != nil {
		client.SetTransport(opts.Transport)
	}
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.Proxy != "" {
		u, err := url.Parse(opts.Proxy)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid http proxy %q", opts.Proxy)
		}
		client.SetProxy(opts.Proxy)
	}

	return &Shared{client: client}, nil
}

// Get issues one GET request and returns the decoded body text.
// Non-2xx responses are not errors; their body is returned.
func (s *Shared) Get(ctx context.Context, rawURL string) (string, error) {
	return s.do(ctx, http.MethodGet, rawURL, func(r *resty.Request) (*resty.Response, error) {
		return r.Get(rawURL)
	})
}

// Post issues one POST request with body and returns the decoded body text.
func (s *Shared) Post(ctx context.Context, rawURL, body string) (string, error) {
	return s.do(ctx, http.MethodPost, rawURL, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(body).Post(rawURL)
	})
}

// Poisoned reports whether a previous call panicked while holding the client.
func (s *Shared) Poisoned() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.poisoned
}

func (s *Shared) do(ctx context.Context, method, rawURL string, send func(*resty.Request) (*resty.Response, error)) (text string, err error) {
	if s == nil || s.client == nil {
		return "", ErrClientNotConfigured
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.poisoned {
		return "", ErrClientUnavailable
	}

	defer func() {
		if r := recover(); r != nil {
			s.poisoned = true
			slog.Error("http client panicked; disabling it for the rest of the session", "method", method, "url", rawURL, "panic", r)
			text, err = "", fmt.Errorf("%w: %v", ErrClientUnavailable, r)
		}
	}()

	resp, err := send(s.client.R().SetContext(ctx))
	if err != nil {
		return "", &RequestError{Method: method, URL: rawURL, Err: err}
	}
	slog.Debug("http response", "method", method, "url", rawURL, "status", resp.StatusCode())

	return decodeBody(rawURL, resp.Header().Get("Content-Type"), resp.Body())
}

func (slogAdapter) Errorf(format string, v ...any) {
	slog.Error(fmt.Sprintf(format, v...), "component", "resty")
}

func (slogAdapter) Warnf(format string, v ...any) {
	slog.Warn(fmt.Sprintf(format, v...), "component", "resty")
}

func (slogAdapter) Debugf(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...), "component", "resty")
}

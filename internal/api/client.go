package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/fn/v2"
	"golang.org/x/oauth2"
)

const (
	// CSRFCookie is the cookie holding the anti-forgery token.
	CSRFCookie = "csrftoken"

	// SessionCookie is the cookie holding the authenticated session.
	SessionCookie = "sessionid"

	csrfHeader      = "X-CSRFToken"
	requestIDHeader = "X-Request-Id"

	maxBodyBytes = 8 << 20
)

// Options configures a Client.
type Options struct {
	// BaseURL is the server root, e.g. http://127.0.0.1:8000.
	BaseURL string

	// Token, when set, is sent as a bearer token on every request.
	Token string

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// Cookies seed the jar, usually the stored session and csrftoken.
	Cookies []*http.Cookie

	// Transport overrides http.DefaultTransport (tests).
	Transport http.RoundTripper
}

// Client performs JSON requests against the mail and network servers. It is
// safe for concurrent use.
type Client struct {
	base string
	url  *url.URL
	h    *http.Client
}

// New builds a Client with a cookie jar seeded from opts.Cookies.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url must be http or https: %q", opts.BaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if len(opts.Cookies) > 0 {
		jar.SetCookies(u, opts.Cookies)
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if opts.Token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: opts.Token,
				TokenType:   "Bearer",
			}),
			Base: transport,
		}
	}

	return &Client{
		base: base,
		url:  u,
		h: &http.Client{
			Jar:       jar,
			Transport: transport,
			Timeout:   opts.Timeout,
		},
	}, nil
}

// BaseURL returns the normalized server root.
func (c *Client) BaseURL() string { return c.base }

// Cookies returns the jar's current cookies for the server.
func (c *Client) Cookies() []*http.Cookie {
	return c.h.Jar.Cookies(c.url)
}

// CSRFToken returns the anti-forgery token from the jar, or "".
func (c *Client) CSRFToken() string {
	for _, ck := range c.Cookies() {
		if ck.Name == CSRFCookie {
			return ck.Value
		}
	}
	return ""
}

type requestConfig struct {
	csrf bool
}

// RequestOption tweaks a single request.
type RequestOption func(*requestConfig)

// WithCSRF attaches the anti-forgery header.
func WithCSRF() RequestOption {
	return func(c *requestConfig) { c.csrf = true }
}

// Request performs one HTTP exchange. body, when non-nil, is sent as JSON.
// Every failure is returned as a *TransportError inside the result; an empty
// successful body decodes as JSON null.
func (c *Client) Request(ctx context.Context, method, path string, body any,
	opts ...RequestOption) fn.Result[json.RawMessage] {

	var cfg requestConfig
	for _, o := range opts {
		o(&cfg)
	}

	fail := func(kind ErrorKind, status int, err error) fn.Result[json.RawMessage] {
		return fn.Err[json.RawMessage](&TransportError{
			Kind:   kind,
			Method: method,
			Path:   path,
			Status: status,
			Err:    err,
		})
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fail(KindNetwork, 0, fmt.Errorf("encode body: %w", err))
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fail(KindNetwork, 0, err)
	}
	reqID := uuid.NewString()
	req.Header.Set(requestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cfg.csrf {
		if tok := c.CSRFToken(); tok != "" {
			req.Header.Set(csrfHeader, tok)
		} else {
			log.Warnf("%s %s: no %s cookie, sending without anti-forgery header",
				method, path, CSRFCookie)
		}
	}

	start := time.Now()
	resp, err := c.h.Do(req)
	if err != nil {
		log.Debugf("%s %s [%s] failed: %v", method, path, reqID, err)
		return fail(KindNetwork, 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fail(KindNetwork, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	log.Debugf("%s %s [%s] -> %d (%d bytes, %v)", method, path, reqID,
		resp.StatusCode, len(raw), time.Since(start).Round(time.Millisecond))

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		if !ok {
			return fail(KindStatus, resp.StatusCode, nil)
		}
		return fn.Ok(json.RawMessage("null"))
	}
	if !json.Valid(raw) {
		if !ok {
			return fail(KindStatus, resp.StatusCode, nil)
		}
		return fail(KindDecode, resp.StatusCode, fmt.Errorf("body is not JSON"))
	}
	if msg := applicationError(raw); msg != "" {
		return fn.Err[json.RawMessage](&TransportError{
			Kind:    KindApplication,
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: msg,
		})
	}
	if !ok {
		return fail(KindStatus, resp.StatusCode, nil)
	}
	return fn.Ok(json.RawMessage(raw))
}

// applicationError extracts a server-declared {"error": "..."} message.
func applicationError(raw []byte) string {
	if raw[0] != '{' {
		return ""
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Error)
}

// decode unpacks r into T, reporting shape mismatches as decode errors.
func decode[T any](method, path string, r fn.Result[json.RawMessage]) (T, error) {
	var out T
	raw, err := r.Unpack()
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &TransportError{
			Kind:   KindDecode,
			Method: method,
			Path:   path,
			Err:    err,
		}
	}
	return out, nil
}

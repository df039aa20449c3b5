package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/dmitrymomot/zenblog/pkg/subscription"
)

// Endpoint paths relative to the client's base URL.
const (
	PathMe                 = "/auth/me"
	PathLogin              = "/auth/login"
	PathLogout             = "/auth/logout"
	PathCreateSubscription = "/subscriptions/create"
	PathCancelSubscription = "/subscriptions/cancel"
	PathIncrementUsage     = "/usage/increment"
)

const maxResponseBytes = 1 << 20

// HTTPClient implements Client over JSON HTTP endpoints.
// Credentials travel in cookies: either the client's own jar or the
// cookies attached to the request context with WithCookies.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// HTTPClientOption configures an HTTPClient.
type HTTPClientOption func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) HTTPClientOption {
	return func(h *HTTPClient) {
		if c != nil {
			h.http = c
		}
	}
}

// NewHTTPClient creates a client for endpoints under baseURL,
// e.g. "http://localhost:8080/api". By default it keeps cookies in a jar.
func NewHTTPClient(baseURL string, opts ...HTTPClientOption) *HTTPClient {
	jar, _ := cookiejar.New(nil)
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type cookiesContextKey struct{}

// WithCookies attaches cookies to forward on every call made with ctx.
// Used to act on behalf of an incoming browser request.
func WithCookies(ctx context.Context, cookies []*http.Cookie) context.Context {
	return context.WithValue(ctx, cookiesContextKey{}, cookies)
}

func cookiesFromContext(ctx context.Context) []*http.Cookie {
	cookies, _ := ctx.Value(cookiesContextKey{}).([]*http.Cookie)
	return cookies
}

func (c *HTTPClient) Me(ctx context.Context) (*subscription.User, error) {
	body, err := c.do(ctx, http.MethodGet, PathMe, nil)
	if err != nil {
		return nil, err
	}
	u, err := subscription.DecodeUser(body)
	if err != nil {
		return nil, errors.Join(ErrInvalidResponse, err)
	}
	return u, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) error {
	_, err := c.do(ctx, http.MethodPost, PathLogin, map[string]string{
		"email":    email,
		"password": password,
	})
	var se *StatusError
	if errors.As(err, &se) && se.Code >= 400 && se.Code < 500 {
		return errors.Join(ErrInvalidCredentials, err)
	}
	return err
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, PathLogout, nil)
	return err
}

func (c *HTTPClient) CreateSubscription(ctx context.Context, tier subscription.TierID) (string, error) {
	body, err := c.do(ctx, http.MethodPost, PathCreateSubscription, map[string]string{"tierId": string(tier)})
	if err != nil {
		return "", errors.Join(ErrSubscribeFailed, err)
	}
	var resp struct {
		CheckoutURL string `json:"checkoutUrl"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.CheckoutURL == "" {
		return "", errors.Join(ErrSubscribeFailed, ErrInvalidResponse, err)
	}
	return resp.CheckoutURL, nil
}

func (c *HTTPClient) CancelSubscription(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodPost, PathCancelSubscription, nil); err != nil {
		return errors.Join(ErrCancelFailed, err)
	}
	return nil
}

func (c *HTTPClient) IncrementUsage(ctx context.Context, t subscription.UsageType) (subscription.Usage, error) {
	body, err := c.do(ctx, http.MethodPost, PathIncrementUsage, map[string]string{"type": string(t)})
	if err != nil {
		return subscription.Usage{}, err
	}
	usage, err := subscription.DecodeUsage(body)
	if err != nil {
		return subscription.Usage{}, errors.Join(ErrInvalidResponse, err)
	}
	return usage, nil
}

// StatusError carries a non-2xx response. The server's {"error": "..."}
// message is kept when present.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("status %d", e.Code)
}

func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	return ErrUnexpectedStatus
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Join(ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookiesFromContext(ctx) {
		req.AddCookie(ck)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Join(ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Join(ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Code: resp.StatusCode}
		var msg struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &msg) == nil {
			se.Message = msg.Error
		}
		return nil, se
	}
	return data, nil
}

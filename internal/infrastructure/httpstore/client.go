// Package httpstore adapts the remote identity endpoint — a REST collection
// addressable by numeric id over GET/POST/PATCH/DELETE — to the store ports.
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/filmstore/rental-system/internal/core/domain"
)

const defaultRequestTimeout = 10 * time.Second

// Client talks to the remote identity store. It implements both
// ports.UserStore and ports.AdminStore.
type Client struct {
	base string
	http *http.Client
	log  zerolog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient swaps the underlying *http.Client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the store rooted at baseURL (e.g.
// "http://localhost:5000").
func New(baseURL string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: defaultRequestTimeout},
		log:  log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) Get(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) FindByEmail(ctx context.Context, email string) ([]domain.User, error) {
	var users []domain.User
	path := "/users?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	var created domain.User
	if err := c.do(ctx, http.MethodPost, "/users", user, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Replace sends the entire mutated record; the store replaces the named
// record with the supplied object.
func (c *Client) Replace(ctx context.Context, user *domain.User) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%d", user.ID), user, nil)
}

func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}

func (c *Client) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	var admins []domain.Admin
	if err := c.do(ctx, http.MethodGet, "/admins", nil, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

// do performs one round trip. Request and response bodies are JSON; non-2xx
// statuses become errors carrying the status and a trimmed body excerpt.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrUserNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

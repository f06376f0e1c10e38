// Package catalogapi talks to the remote product API.
package catalogapi

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/niksmo/proexplore/internal/core/domain"
	"github.com/niksmo/proexplore/internal/core/port"
)

const DefaultBaseURL = "https://fakestoreapi.com"

var errStatusNotFound = errors.New("unexpected status 404")

var _ port.CatalogClient = (*Client)(nil)

// A Client issues exactly one request per call. It never retries and never
// caches.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

type ClientOpt func(*http.Client)

// TimeoutOpt limits every request. Zero means no limit.
func TimeoutOpt(d time.Duration) ClientOpt {
	return func(c *http.Client) {
		c.Timeout = d
	}
}

func TLSConfigOpt(cfg *tls.Config) ClientOpt {
	return func(c *http.Client) {
		if cfg == nil {
			return
		}
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = cfg
		c.Transport = t
	}
}

func TransportOpt(rt http.RoundTripper) ClientOpt {
	return func(c *http.Client) {
		c.Transport = rt
	}
}

func NewClient(baseURL string, opts ...ClientOpt) (*Client, error) {
	const op = "catalogapi.NewClient"

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid base url: %w", op, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: invalid base url %q", op, baseURL)
	}

	httpClient := &http.Client{}
	for _, opt := range opts {
		opt(httpClient)
	}
	return &Client{baseURL: u, httpClient: httpClient}, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "Client.ListProducts"

	var ps []Product
	if err := c.getJSON(ctx, "products", &ps); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	products := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		products = append(products, p.toDomain())
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	const op = "Client.GetProduct"

	// the remote API answers unknown ids with 200 and an empty body
	var p *Product
	err := c.getJSON(ctx, "products/"+strconv.Itoa(id), &p)
	if errors.Is(err, errStatusNotFound) {
		err = domain.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: id=%d: %w", op, id, err)
	}
	if p == nil {
		return domain.Product{}, fmt.Errorf(
			"%s: id=%d: %w", op, id, domain.ErrNotFound,
		)
	}
	return p.toDomain(), nil
}

// ListCategories returns the categories in the order the API returns them,
// without duplicates.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	const op = "Client.ListCategories"

	var cs []string
	if err := c.getJSON(ctx, "products/categories", &cs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	seen := make(map[string]struct{}, len(cs))
	categories := make([]string, 0, len(cs))
	for _, name := range cs {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		categories = append(categories, name)
	}
	return categories, nil
}

// getJSON decodes the response of GET baseURL/path into v.
//
// An empty or null body leaves v untouched.
func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	log := slog.With("op", "Client.getJSON", "path", path)

	u := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("request failed", "err", err)
		return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	defer res.Body.Close()

	log.Debug("response received",
		"status", res.StatusCode, "elapsed", time.Since(start))

	if res.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", domain.ErrProtocol, errStatusNotFound)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("%w: unexpected status %d", domain.ErrProtocol, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: malformed body: %w", domain.ErrProtocol, err)
	}
	return nil
}

package wikidata

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// DefaultBaseURL is the Wikidata site.
const DefaultBaseURL = "https://www.wikidata.org"

// maxBodySize limits the size of response bodies to read.
const maxBodySize = 16 * 1024 * 1024

// Store persists entity documents and title resolutions between runs.
// A miss is reported with a false boolean, not an error.
type Store interface {
	// Entity returns the raw Special:EntityData document for id.
	Entity(ctx context.Context, id string) ([]byte, bool, error)

	// PutEntity stores the raw document for id.
	PutEntity(ctx context.Context, id string, data []byte) error

	// Title returns the item id a page title resolved to.
	Title(ctx context.Context, title string) (string, bool, error)

	// PutTitle stores a page title resolution.
	PutTitle(ctx context.Context, title, id string) error
}

// Client talks to Wikidata. It is safe for concurrent use.
type Client struct {
	// httpClient performs all requests. Redirects must be followed.
	httpClient *http.Client

	// baseURL is the site root without a trailing slash.
	baseURL string

	// site is the wiki whose page titles are resolved.
	site string

	// store is the optional persistent cache.
	store Store

	// logger receives cache failures, which never fail a lookup.
	logger *slog.Logger

	// mu protects entities.
	mu sync.Mutex

	// entities memoizes fetched entities by id, so every item is
	// fetched once per Client.
	entities map[string]*Entity
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the site root, e.g. for a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithStore enables a persistent cache.
func WithStore(store Store) Option {
	return func(c *Client) {
		c.store = store
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client that sends requests with httpClient.
// A nil httpClient means http.DefaultClient.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		httpClient: httpClient,
		baseURL:    DefaultBaseURL,
		site:       "enwiki",
		logger:     slog.Default(),
		entities:   make(map[string]*Entity),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wikiPrefix is the URL prefix every item page starts with.
func (c *Client) wikiPrefix() string {
	return c.baseURL + "/wiki/"
}

// Entity returns the entity with the given id, fetching it on first use.
func (c *Client) Entity(ctx context.Context, id string) (*Entity, error) {
	if !IsEntityID(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEntityID, id)
	}

	c.mu.Lock()
	e, ok := c.entities[id]
	c.mu.Unlock()
	if ok {
		return e, nil
	}

	data, err := c.entityData(ctx, id)
	if err != nil {
		return nil, err
	}
	e, err = decodeEntityData(data)
	if err != nil {
		return nil, fmt.Errorf("entity %s: %w", id, err)
	}

	c.mu.Lock()
	c.entities[id] = e
	c.entities[e.ID] = e
	c.mu.Unlock()
	return e, nil
}

// entityData returns the raw entity document, from the store if possible.
func (c *Client) entityData(ctx context.Context, id string) ([]byte, error) {
	if c.store != nil {
		data, ok, err := c.store.Entity(ctx, id)
		if err != nil {
			c.logger.Warn("entity cache read failed", "entity", id, "error", err)
		} else if ok {
			c.logger.Debug("entity cache hit", "entity", id)
			return data, nil
		}
	}

	data, _, err := c.get(ctx, c.wikiPrefix()+"Special:EntityData/"+id+".json")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entity %s: %w", id, err)
	}

	if c.store != nil {
		if err := c.store.PutEntity(ctx, id, data); err != nil {
			c.logger.Warn("entity cache write failed", "entity", id, "error", err)
		}
	}
	return data, nil
}

// get performs a GET request and returns the body and the final URL after
// redirects.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.Request.URL, fmt.Errorf("%w: %d for %s", ErrUnexpectedStatus, resp.StatusCode, resp.Request.URL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.Request.URL, nil
}

package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// categoryPrefix is stripped from category names before building the query.
const categoryPrefix = "Category:"

// DefaultEndpoint is the English Wikipedia action API.
const DefaultEndpoint = "https://en.wikipedia.org/w/api.php"

// Client queries the MediaWiki search API.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint sets the action API endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
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
		endpoint:   DefaultEndpoint,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is the outcome of a category lookup.
type Result struct {
	// Titles are the page titles in the order the API returned them.
	Titles []string

	// Truncated is true when the number of titles reached the limit, so
	// the category may hold more pages than were returned.
	Truncated bool
}

// searchResponse is the subset of the action API response that is decoded.
type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// Query builds the search expression for a category.
// An optional "Category:" prefix is removed first.
func Query(category string, deep bool) string {
	name := strings.TrimPrefix(category, categoryPrefix)
	keyword := "incategory"
	if deep {
		keyword = "deepcat"
	}
	return keyword + `:"` + name + `"`
}

// PagesInCategory returns up to limit page titles in the category. With
// deep set, pages of subcategories are included.
func (c *Client) PagesInCategory(ctx context.Context, category string, limit int, deep bool) (Result, error) {
	if strings.TrimPrefix(category, categoryPrefix) == "" {
		return Result{}, ErrEmptyCategory
	}
	if limit <= 0 {
		return Result{}, ErrInvalidLimit
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("srprop", "")
	params.Set("srsearch", Query(category, deep))
	params.Set("srlimit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to search category %q: %w", category, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("failed to decode search response: %w", err)
	}
	if body.Error != nil {
		return Result{}, fmt.Errorf("%w: %s: %s", ErrAPI, body.Error.Code, body.Error.Info)
	}

	titles := make([]string, 0, len(body.Query.Search))
	for _, hit := range body.Query.Search {
		titles = append(titles, hit.Title)
	}

	return Result{
		Titles:    titles,
		Truncated: len(titles) >= limit,
	}, nil
}

package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// maxRedirects bounds redirect chains. Special:ItemByTitle resolves with a
// single redirect, so a long chain means something is wrong.
const maxRedirects = 10

// wikimediaDomains receive the access token, along with their subdomains.
var wikimediaDomains = []string{"wikipedia.org", "wikidata.org", "wikimedia.org"}

// Client builds HTTP clients for the Wikimedia APIs.
type Client struct {
	// timeout is the timeout for each request.
	timeout time.Duration

	// userAgent is sent with every request.
	userAgent string

	// accessToken is an optional bearer token.
	accessToken string

	// tokenHosts are the hosts, with their subdomains, that receive the
	// access token.
	tokenHosts []string

	// proxyAddress is an optional SOCKS5 proxy in "host:port" format.
	proxyAddress string

	// dialer is the SOCKS5 dialer, nil when no proxy is configured.
	dialer proxy.Dialer
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithAccessToken sets a bearer token sent as the Authorization header.
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.accessToken = token
	}
}

// WithTokenHosts adds hosts that receive the access token besides the
// Wikimedia domains. Used when the API endpoints are overridden.
func WithTokenHosts(hosts ...string) Option {
	return func(c *Client) {
		for _, host := range hosts {
			if host != "" {
				c.tokenHosts = append(c.tokenHosts, strings.ToLower(host))
			}
		}
	}
}

// WithProxy routes all connections through the SOCKS5 proxy at address.
func WithProxy(address string) Option {
	return func(c *Client) {
		c.proxyAddress = address
	}
}

// NewClient creates a Client. It validates the options but does not open
// any connection.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		timeout:    30 * time.Second,
		userAgent:  "wikinovels",
		tokenHosts: slices.Clone(wikimediaDomains),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.userAgent == "" {
		return nil, ErrNoUserAgent
	}

	if c.proxyAddress != "" {
		if !isValidProxyAddress(c.proxyAddress) {
			return nil, ErrInvalidProxyAddress
		}
		dialer, err := proxy.SOCKS5("tcp", c.proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		c.dialer = dialer
	}

	return c, nil
}

// isValidProxyAddress checks if the address is in valid "host:port" format.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

// HTTPClient returns an HTTP client that applies the configured headers to
// every request, including redirects. The access token is only sent to the
// token hosts.
func (c *Client) HTTPClient() *http.Client {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if c.dialer != nil {
		dialer := c.dialer
		base.Proxy = nil
		base.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		}
	}

	rt := &headerInjectingTransport{
		base:    base,
		headers: map[string]string{"User-Agent": c.userAgent},
	}
	if c.accessToken != "" {
		rt.authorization = "Bearer " + c.accessToken
		rt.tokenHosts = c.tokenHosts
	}

	return &http.Client{
		Transport: rt,
		Timeout:   c.timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

// ProxyAddress returns the configured proxy address, empty if none.
func (c *Client) ProxyAddress() string {
	return c.proxyAddress
}

// headerInjectingTransport wraps an http.RoundTripper to inject
// fixed headers into every request and the Authorization header into
// requests for the token hosts.
type headerInjectingTransport struct {
	base          http.RoundTripper
	headers       map[string]string
	authorization string
	tokenHosts    []string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}
	if t.authorization != "" && matchesHost(clone.URL.Hostname(), t.tokenHosts) {
		clone.Header.Set("Authorization", t.authorization)
	}
	return t.base.RoundTrip(clone)
}

// matchesHost reports whether host is one of hosts or a subdomain of one.
func matchesHost(host string, hosts []string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, h := range hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

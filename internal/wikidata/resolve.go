package wikidata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// itemByTitlePage is the special page that redirects a site link to its item.
const itemByTitlePage = "Special:ItemByTitle"

// ResolveTitle returns the item id of an English Wikipedia page.
//
// Special:ItemByTitle redirects to the item page when the title is linked
// and stays on the special page otherwise. When the item page declares a
// different canonical item, as merged items do, the canonical id is
// returned.
func (c *Client) ResolveTitle(ctx context.Context, title string) (string, error) {
	if c.store != nil {
		id, ok, err := c.store.Title(ctx, title)
		if err != nil {
			c.logger.Warn("title cache read failed", "title", title, "error", err)
		} else if ok {
			c.logger.Debug("title cache hit", "title", title, "entity", id)
			return id, nil
		}
	}

	id, err := c.resolveTitle(ctx, title)
	if err != nil {
		return "", err
	}

	if c.store != nil {
		if err := c.store.PutTitle(ctx, title, id); err != nil {
			c.logger.Warn("title cache write failed", "title", title, "error", err)
		}
	}
	return id, nil
}

func (c *Client) resolveTitle(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("site", c.site)
	params.Set("page", title)
	target := c.wikiPrefix() + itemByTitlePage + "?" + params.Encode()

	body, final, err := c.get(ctx, target)
	if err != nil {
		if final != nil && errors.Is(err, ErrUnexpectedStatus) && strings.Contains(final.String(), itemByTitlePage) {
			// Unknown titles are answered with 404 on the special page.
			return "", fmt.Errorf("%w: %q", ErrNotFound, title)
		}
		return "", fmt.Errorf("failed to resolve %q: %w", title, err)
	}

	dest := final.String()
	if !strings.HasPrefix(dest, c.wikiPrefix()) {
		return "", fmt.Errorf("%w: %q resolved to %s", ErrUnexpectedHost, title, dest)
	}
	if strings.Contains(dest, itemByTitlePage) {
		return "", fmt.Errorf("%w: %q", ErrNotFound, title)
	}

	id := path.Base(final.Path)
	if canonical, ok := canonicalID(body, c.wikiPrefix()); ok && canonical != id {
		c.logger.Debug("item redirects to canonical item", "title", title, "from", id, "to", canonical)
		id = canonical
	}
	if !IsEntityID(id) {
		return "", fmt.Errorf("%w: %q resolved to %q", ErrInvalidEntityID, title, id)
	}
	return id, nil
}

// canonicalID extracts the item id from <link rel="canonical"> when it
// points into the wiki.
func canonicalID(page []byte, wikiPrefix string) (string, bool) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", false
	}

	var href string
	var find func(*html.Node)
	find = func(n *html.Node) {
		if href != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "link" && getAttr(n, "rel") == "canonical" {
			href = getAttr(n, "href")
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			find(child)
		}
	}
	find(doc)

	if !strings.HasPrefix(href, wikiPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(href, wikiPrefix)
	if !IsEntityID(id) {
		return "", false
	}
	return id, true
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

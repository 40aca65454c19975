// Package transport builds the HTTP client used to talk to Wikipedia and
// Wikidata.
//
// Every request carries a descriptive User-Agent, as required by the
// Wikimedia API etiquette, and optionally a bearer token. Traffic can be
// routed through a SOCKS5 proxy.
//
// # Usage
//
//	client, err := transport.NewClient(
//	    transport.WithTimeout(30*time.Second),
//	    transport.WithUserAgent("wikinovels/1.0"),
//	)
//	httpClient := client.HTTPClient()
package transport

package metadata

import (
	"context"
	"errors"
	"net/url"

	"github.com/matzehuels/moodboard/pkg/integrations"
)

// DefaultProxyURL is the CORS-bypass proxy used by browser front-ends. The
// target URL is appended query-escaped.
const DefaultProxyURL = "https://api.allorigins.win/get?url="

// ErrNoContent is returned by [ProxyFetcher] when the proxy answers without
// page contents.
var ErrNoContent = errors.New("no content received")

// Fetcher retrieves the HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// FetcherFunc adapts a function to [Fetcher].
type FetcherFunc func(ctx context.Context, pageURL string) (string, error)

func (f FetcherFunc) Fetch(ctx context.Context, pageURL string) (string, error) {
	return f(ctx, pageURL)
}

// ProxyFetcher fetches pages through an allorigins-style proxy that answers
// {"contents": "<html>..."}.
type ProxyFetcher struct {
	client *integrations.Client
	base   string
}

// NewProxyFetcher returns a fetcher for the proxy at base
// ([DefaultProxyURL] when empty). A nil client gets the default one.
func NewProxyFetcher(base string, client *integrations.Client) *ProxyFetcher {
	if base == "" {
		base = DefaultProxyURL
	}
	if client == nil {
		client = defaultClient()
	}
	return &ProxyFetcher{client: client, base: base}
}

func (f *ProxyFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	var resp struct {
		Contents string `json:"contents"`
	}
	if err := f.client.Get(ctx, f.base+url.QueryEscape(pageURL), &resp); err != nil {
		return "", err
	}
	if resp.Contents == "" {
		return "", ErrNoContent
	}
	return resp.Contents, nil
}

// DirectFetcher fetches pages with a plain GET. Servers have no CORS
// restrictions, so `moodboard serve` uses it by default.
type DirectFetcher struct {
	client *integrations.Client
}

// NewDirectFetcher returns a direct fetcher. A nil client gets the default one.
func NewDirectFetcher(client *integrations.Client) *DirectFetcher {
	if client == nil {
		client = defaultClient()
	}
	return &DirectFetcher{client: client}
}

func (f *DirectFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	return f.client.GetText(ctx, pageURL)
}

func defaultClient() *integrations.Client {
	return integrations.NewClient(map[string]string{
		"User-Agent": integrations.UserAgent,
		"Accept":     "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8",
	})
}

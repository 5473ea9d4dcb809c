package metadata

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// OpenGraph is the link-preview record shown on link nodes.
type OpenGraph struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	SiteName    string `json:"siteName,omitempty"`
	Type        string `json:"type,omitempty"`
	URL         string `json:"url,omitempty"`
}

// IsZero reports whether no field is set.
func (og OpenGraph) IsZero() bool { return og == OpenGraph{} }

// Parse extracts OpenGraph properties from an HTML document. When og:title
// or og:description are missing it falls back to <title> and
// <meta name="description">. The first occurrence of each property wins.
func Parse(doc string) OpenGraph {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return OpenGraph{}
	}
	var og OpenGraph
	var title, description string

	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.DataAtom {
		case atom.Title:
			if title == "" {
				title = strings.TrimSpace(textContent(n))
			}
		case atom.Meta:
			content := strings.TrimSpace(attr(n, "content"))
			if content == "" {
				return
			}
			if strings.EqualFold(attr(n, "name"), "description") && description == "" {
				description = content
			}
			setProperty(&og, attr(n, "property"), content)
		}
	})
	if og.Title == "" {
		og.Title = title
	}
	if og.Description == "" {
		og.Description = description
	}
	return og
}

func setProperty(og *OpenGraph, property, content string) {
	var field *string
	switch strings.ToLower(property) {
	case "og:title":
		field = &og.Title
	case "og:description":
		field = &og.Description
	case "og:image":
		field = &og.Image
	case "og:site_name":
		field = &og.SiteName
	case "og:type":
		field = &og.Type
	case "og:url":
		field = &og.URL
	default:
		return
	}
	if *field == "" {
		*field = content
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	})
	return sb.String()
}

// Fallback is the record used when a page cannot be fetched or parsed:
// the host name without "www." as title ("Link" when rawURL has no host)
// and the URL itself as description.
func Fallback(rawURL string) OpenGraph {
	title := "Link"
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		title = strings.TrimPrefix(u.Hostname(), "www.")
	}
	return OpenGraph{Title: title, Description: rawURL, URL: rawURL}
}

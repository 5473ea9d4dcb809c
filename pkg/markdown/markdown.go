// Package markdown renders the subset of Markdown shown on markdown nodes.
//
// Only line-level headings (#, ##, ###), "- " list items, blank-line breaks
// and paragraphs are recognised, plus inline **bold**, *italic* and `code`.
// Input is HTML-escaped before any markup is added, so the output is safe
// to embed without further sanitizing.
package markdown

import (
	"html"
	"regexp"
	"strings"
)

var (
	boldRe   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe = regexp.MustCompile(`\*(.*?)\*`)
	codeRe   = regexp.MustCompile("`(.*?)`")
)

var headings = []struct {
	prefix, tag string
}{
	{"# ", "h1"},
	{"## ", "h2"},
	{"### ", "h3"},
}

// ToHTML renders md as an HTML fragment.
func ToHTML(md string) string {
	var sb strings.Builder
	var list []string
	wrote := false

	flush := func() {
		if len(list) == 0 {
			return
		}
		sb.WriteString("<ul>")
		for _, item := range list {
			sb.WriteString("<li>" + item + "</li>")
		}
		sb.WriteString("</ul>\n")
		list = list[:0]
		wrote = true
	}

	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if tag, text, ok := heading(line); ok {
			flush()
			sb.WriteString("<" + tag + ">" + html.EscapeString(text) + "</" + tag + ">\n")
			wrote = true
			continue
		}
		switch {
		case strings.HasPrefix(line, "- "):
			list = append(list, inline(line[2:]))
		case strings.TrimSpace(line) == "":
			flush()
			if wrote {
				sb.WriteString("<br>\n")
			}
		default:
			flush()
			sb.WriteString("<p>" + inline(line) + "</p>\n")
			wrote = true
		}
	}
	flush()
	return sb.String()
}

func heading(line string) (tag, text string, ok bool) {
	for _, h := range headings {
		if strings.HasPrefix(line, h.prefix) {
			return h.tag, line[len(h.prefix):], true
		}
	}
	return "", "", false
}

// inline escapes s and applies bold, italic and code spans in that order.
func inline(s string) string {
	s = html.EscapeString(s)
	s = boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicRe.ReplaceAllString(s, "<em>$1</em>")
	return codeRe.ReplaceAllString(s, "<code>$1</code>")
}

// Title returns the first non-empty line of md with leading '#' characters
// and surrounding whitespace removed.
func Title(md string) string {
	for line := range strings.Lines(md) {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line != "" {
			return line
		}
	}
	return ""
}

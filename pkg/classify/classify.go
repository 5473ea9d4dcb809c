package classify

import (
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/moodboard/pkg/canvas"
	"github.com/matzehuels/moodboard/pkg/markdown"
)

// Kind is the content category detected for pasted or dropped input.
type Kind string

const (
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindURL      Kind = "url"
	KindMarkdown Kind = "markdown"
	KindText     Kind = "text"
)

// NodeType returns the canvas node type created for content of kind k.
func (k Kind) NodeType() canvas.NodeType {
	switch k {
	case KindImage:
		return canvas.TypeImage
	case KindVideo:
		return canvas.TypeVideo
	case KindURL:
		return canvas.TypeLink
	case KindMarkdown:
		return canvas.TypeMarkdown
	}
	return canvas.TypeText
}

// Result is the outcome of a classification: the detected kind and the node
// ready to be appended to a document.
type Result struct {
	Kind Kind
	Node canvas.Node
}

// MaxTitleLength is the rune limit for titles derived from markdown text.
const MaxTitleLength = 50

var (
	videoHosts = map[string]string{
		"youtube.com": "YouTube Video",
		"youtu.be":    "YouTube Video",
		"vimeo.com":   "Vimeo Video",
		"twitch.tv":   "Twitch Stream",
	}
	videoExts = []string{".mp4", ".webm", ".mov"}
	imageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}

	markdownPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^#{1,6}[ \t]`), // heading
		regexp.MustCompile(`\*\*[^*\n]+\*\*`),  // bold
		regexp.MustCompile(`\*[^*\s][^*\n]*\*`),
		regexp.MustCompile(`(?m)^[ \t]*[-*][ \t]`), // list item
		regexp.MustCompile("`[^`\n]+`"),
		regexp.MustCompile(`\[[^\]\n]*\]\([^)\n]*\)`), // link
	}
)

// Classifier turns pasted content into canvas nodes. The zero value uses
// [canvas.NewID] for node ids.
type Classifier struct {
	// IDs mints node ids. Nil means [canvas.NewID].
	IDs canvas.IDFunc
}

// Classify is shorthand for a zero [Classifier].
func Classify(content string, isBinaryImage bool, pos canvas.Position) Result {
	return Classifier{}.Classify(content, isBinaryImage, pos)
}

// Classify inspects content and builds the node it should become at pos.
//
// When isBinaryImage is set the content is already an embeddable image (a
// data URI or object URL) and becomes an image node without inspection.
// Absolute URLs become video, image or link nodes depending on host and
// path. Anything else becomes a markdown node when it looks like markdown
// and a text node otherwise. Classification never fails: plain text is the
// universal fallback.
func (c Classifier) Classify(content string, isBinaryImage bool, pos canvas.Position) Result {
	ids := c.IDs
	if ids == nil {
		ids = canvas.NewID
	}
	kind, data := classify(content, isBinaryImage)
	return Result{
		Kind: kind,
		Node: canvas.Node{
			ID:       ids(string(kind)),
			Type:     kind.NodeType(),
			Position: pos,
			Data:     data,
		},
	}
}

func classify(content string, isBinaryImage bool) (Kind, map[string]any) {
	trimmed := strings.TrimSpace(content)
	if isBinaryImage {
		return KindImage, map[string]any{"imageUrl": trimmed, "caption": "Pasted image"}
	}
	if u, ok := parseURL(trimmed); ok {
		host := strings.ToLower(u.Hostname())
		ext := strings.ToLower(path.Ext(u.Path))
		switch {
		case videoTitle(host) != "" || contains(videoExts, ext):
			return KindVideo, map[string]any{"url": trimmed, "title": urlTitle(host, "Video")}
		case contains(imageExts, ext):
			return KindImage, map[string]any{"imageUrl": trimmed, "caption": "Pasted image"}
		default:
			return KindURL, map[string]any{"url": trimmed, "title": urlTitle(host, "Link")}
		}
	}
	if IsMarkdown(content) {
		title := MarkdownTitle(content)
		if title == "" {
			title = "Markdown Note"
		}
		return KindMarkdown, map[string]any{"content": content, "title": title}
	}
	return KindText, map[string]any{"text": content}
}

// parseURL accepts absolute URLs with a scheme and a host and no embedded
// whitespace.
func parseURL(s string) (*url.URL, bool) {
	if s == "" || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return nil, false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, false
	}
	return u, true
}

// videoTitle returns the platform title when host is, or is a subdomain of,
// a known video platform.
func videoTitle(host string) string {
	for h, title := range videoHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return title
		}
	}
	return ""
}

// urlTitle derives a display title from a URL host.
func urlTitle(host, fallback string) string {
	if t := videoTitle(host); t != "" {
		return t
	}
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return fallback
	}
	r, size := utf8.DecodeRuneInString(host)
	return string(unicode.ToUpper(r)) + host[size:]
}

// IsMarkdown reports whether text shows any common markdown syntax:
// headings, emphasis, list items, inline code or links.
func IsMarkdown(text string) bool {
	for _, re := range markdownPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// MarkdownTitle returns [markdown.Title] of text truncated to
// [MaxTitleLength] runes.
func MarkdownTitle(text string) string {
	line := markdown.Title(text)
	if utf8.RuneCountInString(line) > MaxTitleLength {
		return string([]rune(line)[:MaxTitleLength]) + "..."
	}
	return line
}

func contains(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

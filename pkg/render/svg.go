package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/moodboard/pkg/cache"
	"github.com/matzehuels/moodboard/pkg/canvas"
	"github.com/matzehuels/moodboard/pkg/observability"
)

// DefaultCacheTTL is how long rendered previews are kept.
const DefaultCacheTTL = 7 * 24 * time.Hour

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element to a zero-origin viewBox with
// matching width and height, so previews scale inside node frames.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// Renderer renders DOT to SVG through a result cache.
type Renderer struct {
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// NewRenderer returns a renderer backed by c. A nil c disables caching.
func NewRenderer(c cache.Cache, k cache.Keyer) *Renderer {
	if c == nil {
		c = cache.NewNullCache()
	}
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	return &Renderer{cache: c, keyer: k, ttl: DefaultCacheTTL}
}

// SVG returns the rendered preview of dot, from cache when possible.
// Cache failures are ignored.
func (r *Renderer) SVG(ctx context.Context, dot string) ([]byte, error) {
	hooks := observability.Cache()
	key := r.keyer.RenderKey(dot, cache.RenderKeyOpts{Format: "svg"})
	if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		hooks.OnCacheHit(ctx, "render")
		return data, nil
	}
	hooks.OnCacheMiss(ctx, "render")

	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, key, svg, r.ttl); err == nil {
		hooks.OnCacheSet(ctx, "render", len(svg))
	}
	return svg, nil
}

// Document renders doc as an SVG preview.
func (r *Renderer) Document(ctx context.Context, doc *canvas.Document, opts Options) ([]byte, error) {
	return r.SVG(ctx, ToDOT(doc, opts))
}

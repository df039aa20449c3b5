package content

import (
	"context"
	"errors"
	"html/template"

	"github.com/cespare/xxhash/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

// Renderer compiles a markdown body into displayable HTML.
type Renderer interface {
	Render(ctx context.Context, source string) (template.HTML, error)
}

// MarkdownRenderer renders CommonMark-style markdown and sanitises the
// output with a user-content policy.
type MarkdownRenderer struct {
	policy *bluemonday.Policy
	cache  *renderCache
}

// RenderOption configures a MarkdownRenderer.
type RenderOption func(*MarkdownRenderer)

// WithCache keeps up to size rendered bodies, keyed by source hash.
func WithCache(size int) RenderOption {
	return func(m *MarkdownRenderer) {
		if size > 0 {
			m.cache = newRenderCache(size)
		}
	}
}

// NewMarkdownRenderer creates a renderer.
func NewMarkdownRenderer(opts ...RenderOption) *MarkdownRenderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")
	m := &MarkdownRenderer{policy: policy}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MarkdownRenderer) Render(ctx context.Context, source string) (template.HTML, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Join(ErrFailedToRender, err)
	}
	key := xxhash.Sum64String(source)
	if m.cache != nil {
		if html, ok := m.cache.get(key); ok {
			return html, nil
		}
	}

	raw := blackfriday.Run([]byte(source), blackfriday.WithExtensions(blackfriday.CommonExtensions))
	html := template.HTML(m.policy.SanitizeBytes(raw))

	if m.cache != nil {
		m.cache.put(key, html)
	}
	return html, nil
}

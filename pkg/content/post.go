package content

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/zenblog/pkg/subscription"
)

// Post is a parsed blog post. Content is the markdown body without
// front matter.
type Post struct {
	Slug        string                   `json:"slug"`
	Title       string                   `json:"title"`
	Description string                   `json:"description,omitempty"`
	Date        time.Time                `json:"date"`
	Tags        []string                 `json:"tags"`
	Tier        subscription.ContentTier `json:"tier"`
	Content     string                   `json:"-"`
}

// Gated reports whether the post needs a paid tier.
func (p Post) Gated() bool {
	return p.Tier != subscription.ContentPublic
}

type frontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`
	Premium     bool     `yaml:"premium"`
	Tier        string   `yaml:"tier"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", time.DateOnly}

// Parse splits source into front matter and body. A missing title falls
// back to slug; a missing date falls back to now.
func Parse(slug string, source []byte, now time.Time) (Post, error) {
	fm, body, err := splitFrontMatter(source)
	if err != nil {
		return Post{}, err
	}

	var meta frontMatter
	if len(fm) > 0 {
		if err := yaml.Unmarshal(fm, &meta); err != nil {
			return Post{}, errors.Join(ErrInvalidFrontMatter, fmt.Errorf("%s: %w", slug, err))
		}
	}

	p := Post{
		Slug:        slug,
		Title:       meta.Title,
		Description: meta.Description,
		Date:        now,
		Tags:        meta.Tags,
		Tier:        tierOf(meta),
		Content:     string(body),
	}
	if p.Title == "" {
		p.Title = slug
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if meta.Date != "" {
		d, err := parseDate(meta.Date)
		if err != nil {
			return Post{}, errors.Join(ErrInvalidFrontMatter, fmt.Errorf("%s: %w", slug, err))
		}
		p.Date = d
	}
	return p, nil
}

// tierOf treats "premium: true" as the stronger marker.
func tierOf(meta frontMatter) subscription.ContentTier {
	if meta.Premium {
		return subscription.ContentPremium
	}
	switch subscription.ContentTier(strings.ToLower(meta.Tier)) {
	case subscription.ContentPremium:
		return subscription.ContentPremium
	case subscription.ContentPro:
		return subscription.ContentPro
	}
	return subscription.ContentPublic
}

func parseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

var delimiter = []byte("---")

func splitFrontMatter(source []byte) (fm, body []byte, err error) {
	source = bytes.TrimPrefix(source, []byte("\ufeff"))
	src := bytes.ReplaceAll(source, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(src, append(delimiter, '\n')) {
		return nil, src, nil
	}
	rest := src[len(delimiter)+1:]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, nil, errors.Join(ErrInvalidFrontMatter, errors.New("unterminated front matter"))
	}
	fm = rest[:end]
	body = rest[end+len("\n---"):]
	body = bytes.TrimPrefix(body, []byte("\n"))
	return fm, body, nil
}

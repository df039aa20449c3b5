package content

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

var extensions = []string{".md", ".mdx"}

// Repository loads posts from a directory of an fs.FS.
type Repository struct {
	fsys fs.FS
	dir  string
	now  func() time.Time
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithClock sets the time used for posts without a date.
func WithClock(now func() time.Time) RepositoryOption {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRepository reads posts from dir within fsys.
func NewRepository(fsys fs.FS, dir string, opts ...RepositoryOption) *Repository {
	if dir == "" {
		dir = "."
	}
	r := &Repository{fsys: fsys, dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AllPosts returns every .md and .mdx post, newest first.
// A missing directory yields no posts.
func (r *Repository) AllPosts(ctx context.Context) ([]Post, error) {
	entries, err := fs.ReadDir(r.fsys, r.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []Post{}, nil
	}
	if err != nil {
		return nil, errors.Join(ErrFailedToReadPosts, err)
	}

	posts := make([]Post, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slug, ok := slugOf(e)
		if !ok {
			continue
		}
		p, err := r.load(path.Join(r.dir, e.Name()), slug)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Slug < posts[j].Slug
		}
		return posts[i].Date.After(posts[j].Date)
	})
	return posts, nil
}

// PostBySlug returns the post stored as slug.md or slug.mdx.
func (r *Repository) PostBySlug(ctx context.Context, slug string) (Post, error) {
	if err := ctx.Err(); err != nil {
		return Post{}, err
	}
	if slug == "" || strings.ContainsAny(slug, `/\`) || strings.HasPrefix(slug, ".") {
		return Post{}, ErrInvalidSlug
	}
	for _, ext := range extensions {
		p, err := r.load(path.Join(r.dir, slug+ext), slug)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return p, err
	}
	return Post{}, ErrPostNotFound
}

func (r *Repository) load(name, slug string) (Post, error) {
	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Post{}, err
		}
		return Post{}, errors.Join(ErrFailedToReadPosts, err)
	}
	return Parse(slug, data, r.now())
}

func slugOf(e fs.DirEntry) (string, bool) {
	if e.IsDir() {
		return "", false
	}
	for _, ext := range extensions {
		if slug, ok := strings.CutSuffix(e.Name(), ext); ok && slug != "" {
			return slug, true
		}
	}
	return "", false
}

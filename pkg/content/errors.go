package content

import "errors"

var (
	ErrPostNotFound       = errors.New("post not found")
	ErrInvalidSlug        = errors.New("invalid post slug")
	ErrInvalidFrontMatter = errors.New("invalid front matter")
	ErrFailedToReadPosts  = errors.New("failed to read posts")
	ErrFailedToRender     = errors.New("failed to render post")
)

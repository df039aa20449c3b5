package site

import "embed"

// Posts holds the bundled articles under posts/.
//
//go:embed posts/*.md
var Posts embed.FS

// PostsDir is the directory inside Posts.
const PostsDir = "posts"

// Package content loads and renders blog posts.
//
// Posts are markdown files with YAML front matter:
//
//	---
//	title: "Building a CLI"
//	date: "2025-02-01"
//	tags: ["go", "cli"]
//	tier: "pro"
//	---
//	Body...
//
// "premium: true" or tier "premium" marks a premium post and tier "pro" a
// pro post; everything else is public. Repository reads posts from any
// fs.FS, so embedded and on-disk content behave the same.
package content

// Package web embeds the static assets and the markdown content of the site.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static content
var files embed.FS

// Static returns the files served by the static files stage.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Content returns the markdown documents rendered by the pages.
func Content() fs.FS {
	sub, err := fs.Sub(files, "content")
	if err != nil {
		panic(err)
	}
	return sub
}

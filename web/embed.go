// Package web embeds the static comparison form served at the root of the
// HTTP API.
//
// Usage in the API server:
//
//	import "github.com/seenimoa/stockcompare/web"
//	page := web.IndexHTML()
package web

import (
	"embed"
	"io/fs"
	"log/slog"
)

//go:embed all:static
var static embed.FS

// StaticFS returns a filesystem rooted at the embedded static/ directory.
// This is ready to use with http.FileServerFS or http.FS.
func StaticFS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		// fs.Sub only fails on an invalid path, which is a build-time constant here.
		panic(err)
	}
	return sub
}

// IndexHTML returns the comparison form page.
func IndexHTML() []byte {
	data, err := fs.ReadFile(StaticFS(), "index.html")
	if err != nil {
		slog.Error("embedded index.html missing", "err", err)
		return nil
	}
	return data
}

package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
)

// assets holds the page templates and the static files served under StaticPath.
//
//go:embed static templates
var assets embed.FS

// assetDir exposes one embedded directory as an http.FileSystem rooted at that directory.
func assetDir(dir string) (http.FileSystem, error) {
	sub, err := fs.Sub(assets, dir)
	if err != nil {
		return nil, fmt.Errorf("embedded %s: %w", dir, err)
	}

	return http.FS(sub), nil
}

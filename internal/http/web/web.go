package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// Static holds the dashboard files at the root (chart.html, chart.js).
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

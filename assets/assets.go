// Package assets carries the built-in piece set used when no sprite
// directory is found on disk.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed pieces/*.svg
var files embed.FS

// Pieces returns the embedded piece sprites rooted at the pieces directory.
func Pieces() fs.FS {
	sub, err := fs.Sub(files, "pieces")
	if err != nil {
		panic(err)
	}
	return sub
}

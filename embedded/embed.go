// Package embedded provides the default configuration files shipped in the
// pre-commit-vauxoo binary and distributed into target repositories.
package embedded

import (
	"embed"
	"io/fs"
)

// cfgFS holds the template directory. The all: prefix keeps the hidden files.
//
//go:embed all:cfg
var cfgFS embed.FS

// Templates returns the template directory rooted at cfg/.
func Templates() fs.FS {
	sub, err := fs.Sub(cfgFS, "cfg")
	if err != nil {
		// cfg is embedded at build time; Sub only fails on an invalid name.
		panic(err)
	}
	return sub
}

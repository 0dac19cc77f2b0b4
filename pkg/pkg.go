// Package pkg holds the identity of the jtl program: its name, version,
// and authors, and the per-user directories derived from them.
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the semantic version of the module, embedded at build
// time from the VERSION file.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the command name. It also names the per-user configuration
	// and cache directories.
	Name = "jtl"
	// Description is a one-line summary shown in help output.
	Description = "Render and inspect jtl text templates"
)

// AuthorInfo is an author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the authors of the project.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}

package repl

import "github.com/ardnew/jtl/lang"

// Sentinel errors.
var (
	ErrOutOfBounds  = lang.NewError("index out of range")
	ErrEditDeclined = lang.NewError("decline edit")
	ErrNoLoader     = lang.NewError("no host context loader")
)

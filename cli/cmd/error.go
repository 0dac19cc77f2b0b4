package cmd

import "github.com/ardnew/jtl/lang"

// Command errors.
var (
	ErrCommand     = lang.NewError("command failed")
	ErrReadSource  = lang.NewError("read source")
	ErrReadSchema  = lang.NewError("read schema")
	ErrWriteOutput = lang.NewError("write output")
	ErrWriteConfig = lang.NewError("write configuration file")
	ErrFileExists  = lang.NewError("file exists (use --force to overwrite)")
	ErrDiagnostics = lang.NewError("source has errors")
	ErrPosition    = lang.NewError("position out of range")
)

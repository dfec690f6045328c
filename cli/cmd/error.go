package cmd

import "github.com/ardnew/ftmpl/lang"

var (
	ErrNoTemplate  = lang.NewError("no template given")
	ErrReadSource  = lang.NewError("read template source")
	ErrWriteOutput = lang.NewError("write output")
	ErrWriteConfig = lang.NewError("write configuration file")
	ErrFileExists  = lang.NewError("file exists (use --force to overwrite)")
)

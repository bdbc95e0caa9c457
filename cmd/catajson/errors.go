package main

import "errors"

// Sentinel errors for command operations
var (
	ErrLintFailed       = errors.New("lint found errors")
	ErrFileNotFormatted = errors.New("file is not formatted")
	ErrFormattingErrors = errors.New("some files had formatting errors")
	ErrNoRLEFields      = errors.New("no rle fields configured")
	ErrUnknownFormat    = errors.New("unknown report format")
)

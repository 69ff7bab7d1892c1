package ir

import "errors"

var (
	// ErrPath is returned when a path does not address a value in a document,
	// for example when an intermediate segment is not a container.
	ErrPath = errors.New("path error")

	ErrParse = errors.New("parse error")
)

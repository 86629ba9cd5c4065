package mkvtags

import (
	"errors"
	"fmt"
)

var (
	// ErrParse matches every *ParseError.
	ErrParse = errors.New("nfo parse error")
	// ErrIO matches every *IOError.
	ErrIO = errors.New("tags i/o error")

	errNoRoot = errors.New("document has no root element")
)

// ParseError reports a source document that is not well-formed XML.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	source := e.Path
	if source == "" {
		source = "nfo"
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse %s: line %d: %v", source, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// IOError reports a failure to open, read, create or write a file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s tags: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

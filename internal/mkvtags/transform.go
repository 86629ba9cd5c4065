package mkvtags

import (
	"encoding/xml"
	"errors"
	"io"
	"os"

	"nfo2tags/internal/textutil"
)

// Convert reads the NFO at srcPath and writes the tags document to dstPath,
// creating or truncating it.
func Convert(srcPath, dstPath string) error {
	in, err := os.Open(srcPath)
	if err != nil {
		return &IOError{Op: "open", Path: srcPath, Err: err}
	}
	defer in.Close()

	out, err := os.Create(dstPath)
	if err != nil {
		return &IOError{Op: "create", Path: dstPath, Err: err}
	}

	if err := Transform(in, out); err != nil {
		_ = out.Close()
		return attachPaths(err, srcPath, dstPath)
	}
	if err := out.Close(); err != nil {
		return &IOError{Op: "close", Path: dstPath, Err: err}
	}
	return nil
}

// Transform streams the NFO read from r and writes the tags document to w.
func Transform(r io.Reader, w io.Writer) error {
	src := &sourceReader{r: r}
	dec := xml.NewDecoder(src)
	dec.CharsetReader = textutil.CharsetReader
	dec.Entity = xml.HTMLEntity

	out, err := newTagWriter(w)
	if err != nil {
		return &IOError{Op: "write", Err: err}
	}

	var (
		t       translation
		sawRoot bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return decodeError(src, dec, err)
		}

		switch tok := tok.(type) {
		case xml.StartElement:
			sawRoot = true
			t.push(tok)
		case xml.CharData:
			t.characters(tok)
		case xml.EndElement:
			for _, entry := range t.pop(tok) {
				if err := out.write(entry); err != nil {
					return &IOError{Op: "write", Err: err}
				}
			}
		}
	}

	if !sawRoot {
		return &ParseError{Err: errNoRoot}
	}
	if err := out.close(); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

// sourceReader remembers the last read failure so that decoder errors caused
// by the underlying reader are reported as I/O rather than syntax problems.
type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		s.err = err
	}
	return n, err
}

func decodeError(src *sourceReader, dec *xml.Decoder, err error) error {
	if src.err != nil && errors.Is(err, src.err) {
		return &IOError{Op: "read", Err: err}
	}
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ParseError{Line: syntaxErr.Line, Err: err}
	}
	line, _ := dec.InputPos()
	return &ParseError{Line: line, Err: err}
}

func attachPaths(err error, srcPath, dstPath string) error {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		parseErr.Path = srcPath
		return parseErr
	}
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		switch ioErr.Op {
		case "read":
			ioErr.Path = srcPath
		default:
			ioErr.Path = dstPath
		}
		return ioErr
	}
	return err
}

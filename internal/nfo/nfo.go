// Package nfo extracts the scalar fields of a Kodi-style NFO document that
// are written into MP4 containers as ffmpeg -metadata pairs.
package nfo

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"nfo2tags/internal/mkvtags"
	"nfo2tags/internal/textutil"
)

// ErrMissingTitle reports an NFO with neither a usable <title> nor an
// <originaltitle>.
var ErrMissingTitle = errors.New("nfo has no title")

// Metadata is the flat record extracted from one NFO.
type Metadata struct {
	Kind          mkvtags.Kind
	Title         string
	OriginalTitle string
	Plot          string
	Outline       string
	Premiered     string
	Year          string
	Genres        []string
	Tags          []string
}

// GenreList returns the genres joined with commas.
func (m Metadata) GenreList() string {
	return strings.Join(m.Genres, ",")
}

// TagList returns the keyword tags joined with commas.
func (m Metadata) TagList() string {
	return strings.Join(m.Tags, ",")
}

// MediaType returns the MP4 media kind for the document root: "9" for a
// movie, "10" for a TV episode, empty otherwise.
func (m Metadata) MediaType() string {
	switch m.Kind {
	case mkvtags.KindMovie:
		return "9"
	case mkvtags.KindEpisode:
		return "10"
	default:
		return ""
	}
}

// Date returns the premiere date, falling back to the year.
func (m Metadata) Date() string {
	if m.Premiered != "" {
		return m.Premiered
	}
	return m.Year
}

type document struct {
	XMLName       xml.Name
	Title         string   `xml:"title"`
	OriginalTitle string   `xml:"originaltitle"`
	Plot          string   `xml:"plot"`
	Outline       string   `xml:"outline"`
	Premiered     string   `xml:"premiered"`
	Year          string   `xml:"year"`
	Genres        []string `xml:"genre"`
	Tags          []string `xml:"tag"`
}

// Load reads and parses the NFO at path.
func Load(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("read nfo: %w", err)
	}
	meta, err := Parse(bytes.NewReader(data))
	if err != nil {
		var parseErr *mkvtags.ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = path
		}
		return Metadata{}, err
	}
	return meta, nil
}

// Parse decodes a whole NFO document from r. Malformed XML and a missing
// title are reported as *mkvtags.ParseError.
func Parse(r io.Reader) (Metadata, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = textutil.CharsetReader
	dec.Entity = xml.HTMLEntity

	var doc document
	if err := dec.Decode(&doc); err != nil {
		line, _ := dec.InputPos()
		var syntaxErr *xml.SyntaxError
		if errors.As(err, &syntaxErr) {
			line = syntaxErr.Line
		}
		return Metadata{}, &mkvtags.ParseError{Line: line, Err: err}
	}

	meta := Metadata{
		Kind:          kindOf(doc.XMLName.Local),
		Title:         textutil.Clean(doc.Title),
		OriginalTitle: textutil.Clean(doc.OriginalTitle),
		Plot:          textutil.Clean(doc.Plot),
		Outline:       textutil.Clean(doc.Outline),
		Premiered:     textutil.Clean(doc.Premiered),
		Year:          textutil.Clean(doc.Year),
		Genres:        textutil.CleanList(doc.Genres),
		Tags:          textutil.CleanList(doc.Tags),
	}
	if meta.Title == "" {
		meta.Title = meta.OriginalTitle
	}
	if meta.Title == "" {
		return Metadata{}, &mkvtags.ParseError{Err: ErrMissingTitle}
	}
	return meta, nil
}

// Plain returns a copy of m with HTML markup removed from plot and outline.
func Plain(m Metadata) Metadata {
	m.Plot = textutil.StripMarkup(m.Plot)
	m.Outline = textutil.StripMarkup(m.Outline)
	return m
}

func kindOf(root string) mkvtags.Kind {
	switch root {
	case "movie":
		return mkvtags.KindMovie
	case "episodedetails":
		return mkvtags.KindEpisode
	default:
		return mkvtags.KindUnknown
	}
}

package mkvtags

import (
	"encoding/xml"
	"io"
)

var (
	tagsElement   = xml.StartElement{Name: xml.Name{Local: "Tags"}}
	tagElement    = xml.StartElement{Name: xml.Name{Local: "Tag"}}
	simpleElement = xml.StartElement{Name: xml.Name{Local: "Simple"}}
)

// tagWriter emits <Tags><Tag> ... </Tag></Tags> around Simple entries.
type tagWriter struct {
	w   io.Writer
	enc *xml.Encoder
}

func newTagWriter(w io.Writer) (*tagWriter, error) {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return nil, err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.EncodeToken(tagsElement); err != nil {
		return nil, err
	}
	if err := enc.EncodeToken(tagElement); err != nil {
		return nil, err
	}
	return &tagWriter{w: w, enc: enc}, nil
}

func (tw *tagWriter) write(entry Simple) error {
	return tw.enc.EncodeElement(entry, simpleElement)
}

func (tw *tagWriter) close() error {
	if err := tw.enc.EncodeToken(tagElement.End()); err != nil {
		return err
	}
	if err := tw.enc.EncodeToken(tagsElement.End()); err != nil {
		return err
	}
	if err := tw.enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(tw.w, "\n")
	return err
}

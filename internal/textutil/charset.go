package textutil

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// CharsetReader adapts documents declaring a non-UTF-8 encoding so that
// encoding/xml can consume them. It satisfies xml.Decoder.CharsetReader.
func CharsetReader(label string, input io.Reader) (io.Reader, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return input, nil
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("charset %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("charset %q: no decoder available", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

package textutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// Clean trims surrounding whitespace and returns the NFC form of value.
// NFO files written on macOS frequently carry decomposed accents.
func Clean(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return norm.NFC.String(value)
}

// CleanList applies Clean to every entry and drops the empty ones.
func CleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if cleaned := Clean(value); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// StripMarkup returns the visible text of an HTML fragment. Line breaks
// become newlines. Values without markup are returned unchanged.
func StripMarkup(value string) string {
	if !strings.ContainsAny(value, "<&") {
		return value
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(value))
	if err != nil {
		return value
	}
	doc.Find("br").ReplaceWithHtml("\n")
	lines := strings.Split(doc.Text(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

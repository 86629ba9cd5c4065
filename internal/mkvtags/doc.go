// Package mkvtags translates NFO sidecar documents into the Matroska tags
// XML consumed by mkvpropedit.
//
// The translation is a single forward pass over encoding/xml tokens. Values
// that map one-to-one onto a tag (title, genre, year, ...) are written as soon
// as their element closes. Crew lists, the plot/outline pair, collection
// details and the attribute-qualified IMDB id are collected while streaming
// and written once, when the movie or episodedetails root closes, so they
// always follow the directly mapped entries.
//
// An element's value is the text directly inside it, trimmed and NFC
// normalized. Text of nested children is not included, and a <br> child
// becomes a line break, so <plot>One<br/>Two</plot> yields "One\nTwo".
//
// Movie and episode documents differ in one place: a bare <id> is an IMDB id
// only inside <movie>. Episodes carry theirs as <uniqueid type="imdb">.
//
// Failures are reported as *ParseError for malformed input and *IOError for
// filesystem problems. When Convert fails the destination may hold a partial
// document and must not be handed to mkvpropedit.
package mkvtags

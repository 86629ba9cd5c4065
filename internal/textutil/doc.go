// Package textutil cleans text pulled out of NFO documents: charset
// decoding for non-UTF-8 files, whitespace trimming with NFC normalization,
// and stripping of HTML markup that scrapers leave in plot fields.
package textutil

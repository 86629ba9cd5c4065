// Package tagger turns videos plus their sidecars into tagged videos.
//
// Planning resolves each video's NFO, cover and output path. Processing then
// runs one file at a time: MP4 files are remuxed by ffmpeg with -metadata
// pairs and an attached picture, MKV files are edited in place by
// mkvpropedit using a tags document from the mkvtags engine. Outcomes go to
// the history ledger when one is configured. A failing file is logged and
// counted; it never stops the batch.
package tagger

// Package main hosts the nfo2tags CLI entrypoint and command graph.
//
// The root command tags a video or a directory of videos from their NFO and
// cover sidecars. Subcommands convert a single NFO into a Matroska tags
// document, report external tool availability, list the history ledger and
// scaffold configuration. Work happens in the internal packages; this package
// only parses flags, wires dependencies and renders output.
package main

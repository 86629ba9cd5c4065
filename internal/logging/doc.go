// Package logging assembles the slog loggers used by nfo2tags.
//
// A logger writes to the console and, when configured, appends to a log
// file; both sinks share the console or JSON format chosen in config. Context
// helpers stamp run IDs, video paths and stages onto records. NewNop serves
// tests and wiring code that cannot fail.
package logging

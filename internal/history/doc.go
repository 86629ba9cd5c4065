// Package history persists the outcome of every processed video in a SQLite
// ledger. The CLI lists recent runs from it, and the tagger consults it to
// skip videos that have not changed since their last successful run.
package history

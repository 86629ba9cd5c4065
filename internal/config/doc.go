// Package config loads, normalizes, and validates nfo2tags configuration.
//
// Configuration lives in TOML. Load looks at an explicit --config path first,
// then ~/.config/nfo2tags/config.toml, then ./nfo2tags.toml, and falls back to
// Default when none exists. Paths beginning with ~ are expanded and made
// absolute during normalization.
//
// CreateSample writes the embedded sample_config.toml for `nfo2tags config init`.
package config

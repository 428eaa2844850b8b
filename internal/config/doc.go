// Package config loads stemgate's TOML configuration.
//
// Load starts from Default, overlays the file if one exists, expands paths,
// merges the threshold table over the stock thresholds and validates the
// result. CreateSample writes an annotated starting point.
package config

// Package config loads and saves algoviz settings.
//
// A [Config] groups the animation timing, the viewport nodes are bounded
// by, the tree layout, the document store and the HTTP server. Files are
// TOML or YAML, chosen by extension; a missing file yields [DefaultConfig].
// Environment variables prefixed with ALGOVIZ_ override file values.
//
// Default locations follow the XDG base directory layout:
//
//	$XDG_CONFIG_HOME/algoviz/config.toml
//	$XDG_DATA_HOME/algoviz/
package config

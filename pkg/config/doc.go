// Package config loads rulebook's configuration with koanf.
//
// Layers, lowest to highest: the embedded defaults.toml, the user config
// under $XDG_CONFIG_HOME/rulebook, the project .rulebook.toml (or the file
// given with --config), RULEBOOK_* environment variables and command-line
// flag overrides.
package config

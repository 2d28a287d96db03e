// Package config handles configuration management for envrender.
// It layers embedded defaults, an optional TOML file at the working root and
// ENVRENDER_* environment variables using koanf.
package config

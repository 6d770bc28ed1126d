// Package config defines the publish settings shared by the binaries and
// provides helpers to load them from YAML, merge command-line overrides,
// pick up the environment and validate the result.
package config

// Package config loads, validates, and normalizes hardsub configuration
// from TOML files, applying repository defaults for unset values.
package config

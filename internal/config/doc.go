// Package config reads and writes the CLI's YAML configuration file, which
// holds stored credentials, boolean settings, known clusters and the
// installation settings.
package config

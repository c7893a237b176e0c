// Package file provides file-based implementations of driven port
// interfaces. Configuration is stored as TOML in the curio config
// directory.
package file

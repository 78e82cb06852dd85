// Package cli parses the metagraph command line, merges it over an optional
// YAML configuration file and maps failures to process exit codes.
package cli

// Package app contains the core application logic. It defines the App
// struct, its configuration, and the load-check-report lifecycle behind the
// metagraph command, decoupled from any specific entrypoint like a CLI.
package app

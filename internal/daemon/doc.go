// Package daemon ties the burn scheduler, font resolver, and job store
// into a single lifecycle with flock-based locking to prevent multiple
// instances, and serves the HTTP API the CLI and upload layer talk to.
package daemon

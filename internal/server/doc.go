// Package server runs the sync host: the debug API HTTP server and the
// background workers, with signal handling and graceful shutdown.
package server

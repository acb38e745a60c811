package server

// Server runs the sync host: the peer workers and, when an address is set,
// the debug API in front of them.
type Server interface {
	// RunServer blocks until SIGINT, SIGTERM or SIGQUIT, then shuts down.
	RunServer()

	// Shutdown stops the debug API first and the workers after it.
	Shutdown()
}

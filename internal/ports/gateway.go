package ports

// Gateway defines the interface for content ingestion frontends. Both the
// HTTP API and the SMTP proxy implement it so the daemon can manage them
// uniformly.
type Gateway interface {
	// Start starts serving; it returns once the listener is running
	Start() error

	// Stop shuts the gateway down gracefully
	Stop() error
}

package workers

// Worker is a background job with an explicit lifecycle, started after the
// services are wired and stopped during graceful shutdown.
type Worker interface {
	Start() error
	Stop()
}

// Package ports defines the interfaces (ports) that external adapters must implement.
// Services depend only on these, so unit tests can swap in mocks for the
// database and the media host.
package ports

// Package delivery defines the contract every transport implementation
// (HTTP today, more later) exposes to the application entrypoint.
package delivery

import "context"

// Delivery is a long-running request server. Serve blocks until the server
// stops; shutdown is driven by the fx lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}

// Package commands holds the handlers the frontend can invoke by name.
package commands

import "fmt"

// DefaultBackend is the backend label the frontend has always been greeted with.
const DefaultBackend = "Rust"

// Greeter answers the greet command.
type Greeter struct {
	Backend string
}

// NewGreeter returns a Greeter reporting backend, or DefaultBackend when
// backend is empty.
func NewGreeter(backend string) Greeter {
	if backend == "" {
		backend = DefaultBackend
	}
	return Greeter{Backend: backend}
}

// Greet never fails; any name, including the empty one, is echoed back.
func (g Greeter) Greet(name string) string {
	return fmt.Sprintf("Hello, %s! You've been greeted from %s!", name, g.Backend)
}

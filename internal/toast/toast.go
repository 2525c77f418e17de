// Package toast defines transient, non-modal user notifications: what a
// toast is made of, the port that shows one, and the renderers shared by
// the terminal front ends.
package toast

import "time"

// Severity controls how prominently a toast is styled.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Options configures how a toast behaves once shown.
type Options struct {
	// Dismissible lets the user close the toast.
	Dismissible bool
	// Timeout auto-dismisses the toast. Zero keeps it until dismissed.
	Timeout time.Duration
}

// Node is renderable toast content.
type Node interface {
	Render() string
}

// Toaster shows toasts. Implementations must be safe for concurrent use.
type Toaster interface {
	Show(node Node, severity Severity, opts Options)
}

// ToasterFunc adapts a function to the Toaster interface.
type ToasterFunc func(node Node, severity Severity, opts Options)

func (f ToasterFunc) Show(node Node, severity Severity, opts Options) {
	f(node, severity, opts)
}

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"apistatus/internal/toast"
)

// Toaster shows toasts in a running program. Pass (*tea.Program).Send.
type Toaster struct {
	send func(tea.Msg)
}

var _ toast.Toaster = (*Toaster)(nil)

// NewToaster creates a Toaster delivering through send.
func NewToaster(send func(tea.Msg)) *Toaster {
	return &Toaster{send: send}
}

func (t *Toaster) Show(node toast.Node, severity toast.Severity, opts toast.Options) {
	t.send(ShowToastMsg{Node: node, Severity: severity, Options: opts})
}

package toast

import (
	"fmt"
	"io"
	"sync"
)

// WriterToaster prints each toast as a box on an io.Writer. It has no way
// to dismiss or expire a toast, so Options are ignored.
type WriterToaster struct {
	mu    sync.Mutex
	w     io.Writer
	width int
}

// NewWriterToaster creates a toaster that writes boxes of the given width
// to w. A width of zero sizes each box to its content.
func NewWriterToaster(w io.Writer, width int) *WriterToaster {
	return &WriterToaster{w: w, width: width}
}

func (t *WriterToaster) Show(node Node, severity Severity, _ Options) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, Box(node, severity, t.width))
}

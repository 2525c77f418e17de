package testutil

import (
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"apistatus/internal/toast"
)

// TestSecret signs the tokens minted by IssueTestToken.
var TestSecret = []byte("apistatus-test-secret")

// IssueTestToken creates an HS256-signed JWT for testing.
// A negative ttl produces an already-expired token.
func IssueTestToken(t *testing.T, subject string, ttl time.Duration) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
		"iss": "apistatus-test",
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(TestSecret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

// ShownToast is one call recorded by RecordingToaster.
type ShownToast struct {
	Node     toast.Node
	Severity toast.Severity
	Options  toast.Options
}

// RecordingToaster is a toast.Toaster that remembers every toast.
type RecordingToaster struct {
	mu    sync.Mutex
	shown []ShownToast
}

func (r *RecordingToaster) Show(node toast.Node, severity toast.Severity, opts toast.Options) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, ShownToast{Node: node, Severity: severity, Options: opts})
}

// Shown returns a copy of the recorded toasts.
func (r *RecordingToaster) Shown() []ShownToast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ShownToast(nil), r.shown...)
}

// Count returns how many toasts were shown.
func (r *RecordingToaster) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.shown)
}

// FreeAddr returns a loopback address that was free a moment ago.
func FreeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("finding free port: %v", err)
	}
	addr := l.Addr().String()
	l.Close()
	return addr
}

// WaitForReady polls url until it answers or three seconds pass.
func WaitForReady(t *testing.T, url string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("server did not become ready at %s", url)
}

// Package apistatus watches an API client's failures and tells the user,
// once, when the API is unreachable or rejecting our credentials.
//
// A Notifier starts armed. The first failure matching its Rules fires it:
// a single error toast is shown and every hook it installed is ejected.
// Fired is terminal; installing a fired notifier does nothing.
package apistatus

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"apistatus/internal/domain"
	"apistatus/internal/httpclient"
	"apistatus/internal/platform/telemetry"
	"apistatus/internal/toast"
)

// State is the lifecycle of a Notifier.
type State int

const (
	StateArmed State = iota
	StateFired
)

func (s State) String() string {
	if s == StateFired {
		return "fired"
	}
	return "armed"
}

// ResponsePipeline is anything exposing response interceptors, such as
// *httpclient.Client.
type ResponsePipeline interface {
	ResponseInterceptors() *httpclient.InterceptorManager
}

// Config configures a Notifier.
type Config struct {
	Rules Rules
	// Toast is passed to the toaster as is.
	Toast toast.Options
	// APIURL is named in the cannot-connect message.
	APIURL string
}

// DefaultConfig returns the default rules with a dismissible toast that
// stays until closed.
func DefaultConfig(apiURL string) Config {
	return Config{
		Rules:  DefaultRules(),
		Toast:  toast.Options{Dismissible: true},
		APIURL: apiURL,
	}
}

type installation struct {
	interceptors *httpclient.InterceptorManager
	id           int
}

// Notifier is the one-shot API status hook. It is safe for concurrent use.
type Notifier struct {
	cfg     Config
	toaster toast.Toaster
	logger  *slog.Logger
	metrics *telemetry.ClientMetrics

	mu        sync.Mutex
	state     State
	installed []installation
}

// NewNotifier creates an armed notifier. logger and metrics may be nil.
func NewNotifier(cfg Config, toaster toast.Toaster, logger *slog.Logger, metrics *telemetry.ClientMetrics) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		cfg:     cfg,
		toaster: toaster,
		logger:  logger,
		metrics: metrics,
	}
}

// State returns the current state.
func (n *Notifier) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Install registers the hook on p. It returns false, registering nothing,
// once the notifier has fired.
func (n *Notifier) Install(p ResponsePipeline) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state == StateFired {
		return false
	}
	interceptors := p.ResponseInterceptors()
	id := interceptors.Use(nil, n.intercept)
	n.installed = append(n.installed, installation{interceptors: interceptors, id: id})

	n.logger.Info("api status hook installed", "api_url", n.cfg.APIURL, "hooks", len(n.installed))
	return true
}

// intercept always hands back err untouched.
func (n *Notifier) intercept(err error) (*http.Response, error) {
	ctx := context.Background()
	if !n.cfg.Rules.Match(err) {
		n.metrics.RecordInterception(ctx, "ignored")
		return nil, err
	}

	n.mu.Lock()
	if n.state == StateFired {
		n.mu.Unlock()
		n.metrics.RecordInterception(ctx, "ignored")
		return nil, err
	}
	n.state = StateFired
	installed := n.installed
	n.installed = nil
	n.mu.Unlock()

	n.metrics.RecordInterception(ctx, "matched")
	n.notify(ctx, err)
	for _, in := range installed {
		in.interceptors.Eject(in.id)
	}
	return nil, err
}

func (n *Notifier) notify(ctx context.Context, err error) {
	ce, _ := httpclient.AsClientError(err)
	status, _ := ce.StatusCode()
	kind := domain.KindForStatus(status)

	n.toaster.Show(toast.APIStatus{Kind: kind, APIURL: n.cfg.APIURL}, toast.SeverityError, n.cfg.Toast)
	n.metrics.RecordNotification(ctx, kind.String())
	n.logger.Warn("api status notification shown",
		"kind", kind.String(),
		"status", status,
		"code", ce.Code,
		"url", ce.URL,
	)
}

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"apistatus/internal/probe"
	"apistatus/internal/toast"
)

// Checker runs one health check.
type Checker interface {
	Check(ctx context.Context) probe.Result
}

// ProbeResultMsg carries the outcome of a health check.
// It is exported so that tests can inject it directly into AppModel.Update.
type ProbeResultMsg struct {
	Result probe.Result
}

// ShowToastMsg asks the model to display a toast.
type ShowToastMsg struct {
	Node     toast.Node
	Severity toast.Severity
	Options  toast.Options
}

// tickMsg is sent by the poll ticker.
type tickMsg struct{}

// toastExpiredMsg is sent when a toast's timeout elapses. seq identifies the
// toast it was scheduled for, so a newer toast is not closed early.
type toastExpiredMsg struct {
	seq int
}

type activeToast struct {
	ShowToastMsg
	seq int
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// AppModel is the root Bubbletea model for apistatus.
type AppModel struct {
	checker  Checker
	apiURL   string
	interval time.Duration

	checking bool
	last     probe.Result
	checks   int
	failures int

	toast    *activeToast
	toastSeq int

	width  int
	height int
}

// NewAppModel creates the root application model.
func NewAppModel(checker Checker, apiURL string, interval time.Duration) AppModel {
	return AppModel{
		checker:  checker,
		apiURL:   apiURL,
		interval: interval,
		checking: true,
	}
}

// Init triggers the first health check and starts polling.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.check(), tickEvery(m.interval))
}

func (m AppModel) check() tea.Cmd {
	return func() tea.Msg {
		return ProbeResultMsg{Result: m.checker.Check(context.Background())}
	}
}

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Update handles all incoming messages and key events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ProbeResultMsg:
		m.checking = false
		m.last = msg.Result
		m.checks++
		if !msg.Result.OK() {
			m.failures++
		}

	case tickMsg:
		if m.checking {
			return m, tickEvery(m.interval)
		}
		m.checking = true
		return m, tea.Batch(m.check(), tickEvery(m.interval))

	case ShowToastMsg:
		m.toastSeq++
		m.toast = &activeToast{ShowToastMsg: msg, seq: m.toastSeq}
		if msg.Options.Timeout > 0 {
			seq := m.toastSeq
			return m, tea.Tick(msg.Options.Timeout, func(_ time.Time) tea.Msg {
				return toastExpiredMsg{seq: seq}
			})
		}

	case toastExpiredMsg:
		if m.toast != nil && m.toast.seq == msg.seq {
			m.toast = nil
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "x", "esc":
			if m.toast != nil && m.toast.Options.Dismissible {
				m.toast = nil
			}
		case "r":
			if !m.checking {
				m.checking = true
				return m, m.check()
			}
		}
	}
	return m, nil
}

// HasToast reports whether a toast is on screen.
func (m AppModel) HasToast() bool {
	return m.toast != nil
}

// View renders the status screen.
func (m AppModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("apistatus"))
	b.WriteString("  " + m.apiURL + "\n\n")

	switch {
	case m.checks == 0:
		b.WriteString("Checking API...\n")
	case m.last.OK():
		fmt.Fprintf(&b, "%s  %d in %s\n", okStyle.Render("● up"), m.last.Status, m.last.Latency.Round(time.Millisecond))
	default:
		fmt.Fprintf(&b, "%s  %s\n", failStyle.Render("● down"), describeFailure(m.last))
	}
	if m.checks > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("last check %s · %d checks · %d failed",
			m.last.CheckedAt.Format(time.TimeOnly), m.checks, m.failures)))
		b.WriteString("\n")
	}

	if m.toast != nil {
		b.WriteString("\n")
		b.WriteString(toast.Box(m.toast.Node, m.toast.Severity, m.toastWidth()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := "r: check now · q: quit"
	if m.toast != nil && m.toast.Options.Dismissible {
		help = "x: dismiss · " + help
	}
	b.WriteString(dimStyle.Render(help))
	return b.String()
}

func (m AppModel) toastWidth() int {
	if m.width <= 0 {
		return 0
	}
	return min(m.width, 72)
}

func describeFailure(r probe.Result) string {
	if r.Status != 0 {
		return fmt.Sprintf("status %d", r.Status)
	}
	if code := r.Code(); code != "" {
		return code
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	return "unknown error"
}

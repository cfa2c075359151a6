// Package dashboard is the live terminal view: a bubbletea model that
// multiplexes the refresh timer, keyboard input and in-flight fetch cycles
// on the single Update goroutine, so DashboardState has exactly one writer.
package dashboard

import (
	"context"
	"time"

	"github.com/avigier/rhcases/internal/application"
	"github.com/avigier/rhcases/internal/domain"
	"github.com/avigier/rhcases/internal/ports"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const DefaultRefreshInterval = 15 * time.Minute

type phase int

const (
	phaseIdle phase = iota
	phaseFetching
)

// refreshMsg asks for a new cycle (timer expiry or manual refresh key).
type refreshMsg struct{}

// cycleMsg carries one completed cycle's fan-in back onto the Update
// goroutine; the state swap happens there and nowhere else.
type cycleMsg struct {
	cycle application.CycleResult
}

// RunCycle executes one fetch cycle. It runs off the Update goroutine and
// must honor ctx cancellation promptly; its result is delivered as one
// atomic cycleMsg.
type RunCycle func(ctx context.Context, accounts []domain.Account) application.CycleResult

// Options configures the dashboard model.
type Options struct {
	Accounts        []domain.Account
	RefreshInterval time.Duration
	SortKey         application.SortKey
	Clock           ports.Clock
}

// Model is the dashboard's bubbletea model.
type Model struct {
	run    RunCycle
	opts   Options
	styles styles
	keys   KeyMap
	spin   spinner.Model

	state  domain.DashboardState
	totals application.Totals

	phase    phase
	width    int
	height   int
	quitting bool

	// cycleCtx/cancelCycle belong to the in-flight cycle; cancel aborts it
	// when the user quits mid-fetch.
	cycleCtx    context.Context
	cancelCycle context.CancelFunc
}

func New(run RunCycle, opts Options) (Model, error) {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.Clock == nil {
		opts.Clock = ports.SystemClock{}
	}

	s := newStyles()
	if err := s.verifyCoverage(); err != nil {
		return Model{}, err
	}

	m := Model{
		run:    run,
		opts:   opts,
		styles: s,
		keys:   defaultKeys,
		spin: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
		),
		width:  80,
		height: 24,
		// The first cycle is armed here because Init cannot persist model
		// changes; Init only fires the prepared command.
		phase: phaseFetching,
	}
	m.cycleCtx, m.cancelCycle = context.WithCancel(context.Background())

	return m, nil
}

// State exposes the current dashboard state for tests and the one-shot
// renderer; callers must treat it as read-only.
func (m Model) State() domain.DashboardState {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.fetchCmd(m.cycleCtx))
}

func (m Model) fetchCmd(ctx context.Context) tea.Cmd {
	run := m.run
	accounts := m.opts.Accounts
	return func() tea.Msg {
		return cycleMsg{cycle: run(ctx, accounts)}
	}
}

func (m Model) startCycle() (Model, tea.Cmd) {
	m.phase = phaseFetching
	m.cycleCtx, m.cancelCycle = context.WithCancel(context.Background())
	return m, m.fetchCmd(m.cycleCtx)
}

func (m Model) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.opts.RefreshInterval, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Relayout only: resize never refetches and never touches the
		// already-fetched snapshots.
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case refreshMsg:
		if m.phase != phaseIdle {
			// A cycle is already in flight; its completion reschedules.
			return m, nil
		}
		return m.startCycle()

	case cycleMsg:
		m.state = application.Aggregate(m.state, msg.cycle, m.opts.SortKey, m.opts.RefreshInterval, m.opts.Clock.Now())
		m.totals = application.Summarize(m.state)
		m.phase = phaseIdle
		if m.cancelCycle != nil {
			m.cancelCycle()
		}
		m.cycleCtx, m.cancelCycle = nil, nil
		return m, m.scheduleRefresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.cancelCycle != nil {
				m.cancelCycle()
			}
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			if m.phase != phaseIdle {
				return m, nil
			}
			return m.startCycle()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return renderFrame(m)
}

// Run starts the dashboard program on the alternate screen. Bubbletea
// restores the terminal mode on exit, including on signals.
func Run(model Model) error {
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// Package ui implements the launcher's terminal interface: the mode menu,
// the live run view fed by step events, and the status footer listing the
// windows still alive.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"turbineup/internal/launch"
	"turbineup/internal/progress"
	"turbineup/internal/session"
)

// appState is the active view.
type appState int

const (
	stateMenu appState = iota
	stateRunning
	stateDone
	stateFarewell
)

// RunFunc executes one startup sequence. It is called from a tea.Cmd
// goroutine; step events arrive on the model's event channel while it runs.
type RunFunc func(ctx context.Context, mode launch.Mode) *launch.Report

// runDoneMsg carries the finished report back into the program.
type runDoneMsg struct {
	report *launch.Report
}

// stepEventMsg wraps one progress event from the runner.
type stepEventMsg progress.Event

// farewellDoneMsg fires after the farewell delay.
type farewellDoneMsg struct{}

// AppModel is the root bubbletea model.
type AppModel struct {
	Run           RunFunc
	Events        <-chan progress.Event
	Tracker       *session.Tracker
	FarewellDelay time.Duration

	state  appState
	cursor int
	mode   launch.Mode
	report *launch.Report
	log    []progress.Event
	spin   spinner.Model
	width  int
}

var _ tea.Model = (*AppModel)(nil)

// NewAppModel creates the root model in the menu state.
func NewAppModel(run RunFunc, events <-chan progress.Event, tracker *session.Tracker, farewellDelay time.Duration) *AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = Styles.OK
	return &AppModel{
		Run:           run,
		Events:        events,
		Tracker:       tracker,
		FarewellDelay: farewellDelay,
		spin:          sp,
	}
}

// menuEntryCount is the four launch modes plus exit.
const menuEntryCount = 5

// exitIndex is the menu position of the exit entry.
const exitIndex = menuEntryCount - 1

// Init implements tea.Model.
func (m *AppModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case stepEventMsg:
		m.appendEvent(progress.Event(msg))
		return m, m.listenEvents()
	case runDoneMsg:
		m.report = msg.report
		m.state = stateDone
		return m, nil
	case spinner.TickMsg:
		if m.state != stateRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case farewellDoneMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case stateMenu:
		return m.handleMenuKey(msg)
	case stateDone:
		// Any key returns to the menu.
		m.state = stateMenu
		m.report = nil
		m.log = nil
		if m.Tracker != nil {
			m.Tracker.Prune()
		}
		return m, nil
	}
	// Running and farewell ignore input.
	return m, nil
}

// handleMenuKey maps digits and list navigation onto the menu. Anything
// else is ignored: the menu simply stays up, which is the reprompt.
func (m *AppModel) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "1", "2", "3", "4":
		mode := launch.Mode(int(msg.String()[0] - '0'))
		return m, m.startRun(mode)
	case "5", "q":
		return m, m.farewell()
	case "j", "down":
		if m.cursor < menuEntryCount-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.cursor == exitIndex {
			return m, m.farewell()
		}
		return m, m.startRun(launch.Mode(m.cursor + 1))
	}
	return m, nil
}

// startRun switches to the run view and kicks off the sequence.
func (m *AppModel) startRun(mode launch.Mode) tea.Cmd {
	m.state = stateRunning
	m.mode = mode
	m.log = nil
	m.report = nil
	run := func() tea.Msg {
		return runDoneMsg{report: m.Run(context.Background(), mode)}
	}
	return tea.Batch(m.spin.Tick, m.listenEvents(), run)
}

// listenEvents waits for the next step event from the runner.
func (m *AppModel) listenEvents() tea.Cmd {
	if m.Events == nil {
		return nil
	}
	ch := m.Events
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return stepEventMsg(ev)
	}
}

// farewell shows the goodbye view and quits after the short delay.
// Nothing is spawned.
func (m *AppModel) farewell() tea.Cmd {
	m.state = stateFarewell
	return tea.Tick(m.FarewellDelay, func(time.Time) tea.Msg {
		return farewellDoneMsg{}
	})
}

// appendEvent collapses transitions of the same step: a later event for a
// step already in the log replaces it, so "running" becomes its outcome.
func (m *AppModel) appendEvent(ev progress.Event) {
	for i := len(m.log) - 1; i >= 0; i-- {
		if m.log[i].Step == ev.Step {
			m.log[i] = ev
			return
		}
	}
	m.log = append(m.log, ev)
}

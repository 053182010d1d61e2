package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalogdto "ttrack/internal/modules/catalog/dto"
	syncdto "ttrack/internal/modules/sync/dto"
	trackerdto "ttrack/internal/modules/tracker/dto"
	"ttrack/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface this view requires.

type catalogPort interface {
	List(ctx context.Context) ([]catalogdto.TaskOutput, error)
}

type trackerPort interface {
	Start(ctx context.Context, taskID, ticket string) (trackerdto.StartOutput, error)
	Pause(ctx context.Context) (trackerdto.EntryOutput, error)
	Resume(ctx context.Context) (trackerdto.EntryOutput, error)
	Stop(ctx context.Context) (trackerdto.StopOutput, error)
	Active(ctx context.Context) (trackerdto.ActiveOutput, error)
	ListToday(ctx context.Context) ([]trackerdto.EntryOutput, error)
}

type syncPort interface {
	RunPass(ctx context.Context) (syncdto.ReportOutput, error)
	Pending(ctx context.Context) (int, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type tickMsg time.Time

type stateLoadedMsg struct {
	active  trackerdto.ActiveOutput
	today   []trackerdto.EntryOutput
	pending int
	err     error
}

type tasksLoadedMsg struct {
	tasks []catalogdto.TaskOutput
	err   error
}

type actionDoneMsg struct{ err error }

type syncDoneMsg struct {
	report syncdto.ReportOutput
	err    error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Start  key.Binding
	Pause  key.Binding
	Resume key.Binding
	Stop   key.Binding
	Sync   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev task")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next task")),
		Start:  key.NewBinding(key.WithKeys("s", "enter"), key.WithHelp("s", "start")),
		Pause:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Resume: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
		Stop:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Sync:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "sync now")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Pause, k.Stop, k.Sync, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Start},
		{k.Pause, k.Resume, k.Stop},
		{k.Sync, k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	catalog catalogPort
	tracker trackerPort
	sync    syncPort

	keys   keyMap
	help   help.Model
	ticket textinput.Model

	active    trackerdto.ActiveOutput
	today     []trackerdto.EntryOutput
	pending   int
	tasks     []catalogdto.TaskOutput
	selected  int
	status    string
	statusErr bool
	width     int
}

func NewModel(catalog catalogPort, tracker trackerPort, syncer syncPort) Model {
	ticket := textinput.New()
	ticket.Placeholder = "TICKET-123"
	ticket.CharLimit = 32
	ticket.Width = 20
	return Model{
		catalog: catalog,
		tracker: tracker,
		sync:    syncer,
		keys:    defaultKeys(),
		help:    help.New(),
		ticket:  ticket,
		active:  trackerdto.ActiveOutput{State: trackerdto.TimerIdle},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadState(), m.loadTasks(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) loadState() tea.Cmd {
	return func() tea.Msg {
		active, err := m.tracker.Active(context.Background())
		if err != nil {
			return stateLoadedMsg{err: err}
		}
		today, err := m.tracker.ListToday(context.Background())
		if err != nil {
			return stateLoadedMsg{err: err}
		}
		pending, err := m.sync.Pending(context.Background())
		return stateLoadedMsg{active: active, today: today, pending: pending, err: err}
	}
}

func (m Model) loadTasks() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.catalog.List(context.Background())
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		// Elapsed in the pane is refreshed from the store once a second
		// so the view stays honest about pause accrual.
		return m, tea.Batch(tick(), m.loadState())
	case stateLoadedMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		m.active = msg.active
		m.today = msg.today
		m.pending = msg.pending
		return m, nil
	case tasksLoadedMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		m.tasks = msg.tasks
		return m, nil
	case actionDoneMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
		} else {
			m.setStatus("", false)
		}
		return m, m.loadState()
	case syncDoneMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
		} else {
			m.setStatus(fmt.Sprintf("sync: %d synced, %d failed, %d skipped",
				msg.report.Synced, msg.report.Failed, msg.report.Skipped), msg.report.Failed > 0)
		}
		return m, m.loadState()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.ticket.Focused() {
		switch msg.String() {
		case "enter":
			m.ticket.Blur()
			return m, m.startCmd()
		case "esc":
			m.ticket.Blur()
			m.ticket.Reset()
			return m, nil
		default:
			var cmd tea.Cmd
			m.ticket, cmd = m.ticket.Update(msg)
			return m, cmd
		}
	}
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.tasks)-1 {
			m.selected++
		}
		return m, nil
	case key.Matches(msg, m.keys.Start):
		if m.active.State != trackerdto.TimerIdle {
			m.setStatus("a timer is already active", true)
			return m, nil
		}
		if len(m.tasks) == 0 {
			m.setStatus("no tasks configured", true)
			return m, nil
		}
		m.ticket.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Pause):
		return m, m.action(func(ctx context.Context) error {
			_, err := m.tracker.Pause(ctx)
			return err
		})
	case key.Matches(msg, m.keys.Resume):
		return m, m.action(func(ctx context.Context) error {
			_, err := m.tracker.Resume(ctx)
			return err
		})
	case key.Matches(msg, m.keys.Stop):
		return m, m.action(func(ctx context.Context) error {
			_, err := m.tracker.Stop(ctx)
			return err
		})
	case key.Matches(msg, m.keys.Sync):
		return m, func() tea.Msg {
			report, err := m.sync.RunPass(context.Background())
			return syncDoneMsg{report: report, err: err}
		}
	}
	return m, nil
}

func (m Model) startCmd() tea.Cmd {
	taskID := m.tasks[m.selected].ID
	ticket := strings.TrimSpace(m.ticket.Value())
	return m.action(func(ctx context.Context) error {
		_, err := m.tracker.Start(ctx, taskID, ticket)
		return err
	})
}

func (m Model) action(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: fn(context.Background())}
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("ttrack"))
	b.WriteString("\n\n")
	b.WriteString(m.timerPane())
	b.WriteString("\n")
	b.WriteString(m.todayPane())
	b.WriteString("\n")
	if m.status != "" {
		style := theme.Muted
		if m.statusErr {
			style = theme.Failed
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return theme.App.Render(b.String())
}

func (m Model) timerPane() string {
	var b strings.Builder
	switch m.active.State {
	case trackerdto.TimerRunning:
		b.WriteString(theme.Running.Render("● running"))
		b.WriteString(fmt.Sprintf("  %s  %s  %s",
			m.active.TaskName, m.active.Ticket, formatDuration(m.active.Elapsed)))
	case trackerdto.TimerPaused:
		b.WriteString(theme.Paused.Render("⏸ paused"))
		b.WriteString(fmt.Sprintf("  %s  %s  %s",
			m.active.TaskName, m.active.Ticket, formatDuration(m.active.Elapsed)))
	default:
		b.WriteString(theme.Muted.Render("no active timer"))
		b.WriteString("\n\n")
		b.WriteString(m.taskList())
	}
	return theme.PaneActive.Render(b.String())
}

func (m Model) taskList() string {
	if len(m.tasks) == 0 {
		return theme.Muted.Render("no tasks configured")
	}
	var b strings.Builder
	selectedStyle := lipgloss.NewStyle().Foreground(theme.Lavender)
	for i, task := range m.tasks {
		line := fmt.Sprintf("  %s (%s)", task.Name, task.Category)
		if i == m.selected {
			line = selectedStyle.Render(fmt.Sprintf("> %s (%s)", task.Name, task.Category))
		} else {
			line = theme.Muted.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Muted.Render("ticket: "))
	b.WriteString(m.ticket.View())
	return b.String()
}

func (m Model) todayPane() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("today"))
	b.WriteString("\n")
	if len(m.today) == 0 {
		b.WriteString(theme.Muted.Render("nothing tracked yet"))
	}
	var total time.Duration
	for _, entry := range m.today {
		total += entry.Worked
		line := fmt.Sprintf("%-20s %-12s %8s  %s",
			truncate(entry.TaskName, 20), entry.Ticket, formatDuration(entry.Worked), entry.SyncStatus)
		if entry.SyncStatus == "sync_failed" {
			line = theme.Failed.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.today) > 0 {
		b.WriteString(theme.Muted.Render(fmt.Sprintf("total %s", formatDuration(total))))
		b.WriteString("\n")
	}
	if m.pending > 0 {
		b.WriteString(theme.Muted.Render(fmt.Sprintf("%d entries awaiting sync", m.pending)))
	}
	return theme.Pane.Render(strings.TrimRight(b.String(), "\n"))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	min := (d % time.Hour) / time.Minute
	sec := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, min, sec)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

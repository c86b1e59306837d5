package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"localfn/internal/driver"
)

type progressModel struct {
	title      string
	events     <-chan driver.Event
	spinner    spinner.Model
	prog       progress.Model
	items      []fixtureItem
	index      map[string]int
	stageLabel string
	width      int
	done       bool
}

type fixtureItem struct {
	path    string
	status  string
	stage   driver.Stage
	symbols int
	err     error
}

func (it fixtureItem) finished() bool {
	return it.status == "done" || it.status == "error"
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders per-fixture bind
// progress. The model quits when events is closed.
func NewProgressModel(title string, fixtures []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fixtureItem, 0, len(fixtures))
	index := make(map[string]int, len(fixtures))
	for _, path := range fixtures {
		path = driver.NormalizePath(path)
		if _, dup := index[path]; dup {
			continue
		}
		index[path] = len(items)
		items = append(items, fixtureItem{path: path, status: "queued"})
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	finished := 0
	for _, it := range m.items {
		if it.finished() {
			finished++
		}
	}
	header := fmt.Sprintf("%s %d/%d", m.title, finished, len(m.items))
	if m.stageLabel != "" && !m.done {
		header = fmt.Sprintf("%s (%s)", header, m.stageLabel)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(styleHeading.Render(header))
	b.WriteString("\n\n")

	const statusWidth, countWidth = 12, 8
	nameWidth := max(m.width-statusWidth-countWidth-6, 20)

	for _, item := range m.items {
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status))
		count := ""
		if item.symbols > 0 {
			count = fmt.Sprintf("%d fn", item.symbols)
		}
		fmt.Fprintf(&b, "  %s %*s %s\n", statusStyled, countWidth, count, truncate(item.path, nameWidth))
		if item.err != nil {
			b.WriteString(styleFailed.Render("      " + truncate(item.err.Error(), nameWidth+statusWidth)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

// applyEvent updates the fixture row; events without a file only move the
// run-level stage label.
func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	if ev.File == "" {
		if label != "" {
			m.stageLabel = label
		}
		return nil
	}
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	if item.finished() && ev.Status == driver.StatusWorking {
		// поздние события от гонщиков не откатывают статус
		return nil
	}
	if label != "" {
		item.status = label
		item.stage = ev.Stage
	}
	if ev.Symbols > 0 {
		item.symbols = ev.Symbols
	}
	if ev.Err != nil {
		item.err = ev.Err
	}
	return m.prog.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var total float64
	for _, item := range m.items {
		if item.finished() {
			total++
			continue
		}
		total += progressFromStage(item.stage)
	}
	return total / float64(len(m.items))
}

// stageInfo is the row label and the share of a fixture's work done once
// the stage starts.
type stageInfo struct {
	label  string
	weight float64
}

var stages = map[driver.Stage]stageInfo{
	driver.StageLoad:    {"loading", 0.1},
	driver.StageCollect: {"collecting", 0.3},
	driver.StageBind:    {"binding", 0.6},
	driver.StageDrain:   {"draining", 0.9},
}

func progressFromStage(stage driver.Stage) float64 { return stages[stage].weight }

func statusLabel(stage driver.Stage, status driver.Status) string {
	switch status {
	case driver.StatusWorking:
		return stages[stage].label
	case driver.StatusQueued, driver.StatusDone, driver.StatusError:
		return string(status)
	}
	return ""
}

var (
	styleDone    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFailed  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleActive  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleIdle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	styleHeading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
)

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return styleDone
	case "error":
		return styleFailed
	case "queued", "":
		return styleIdle
	}
	return styleActive
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	// ширина width включает хвост
	return runewidth.Truncate(value, width, tail)
}

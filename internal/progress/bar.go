package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	bubbleprogress "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	barPadding  = 2
	barMaxWidth = 60
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))

type updateMsg struct {
	completed int
	total     int
}

type tickMsg time.Time

// barModel is the bubbletea model behind Bar: title, bar, percentage and elapsed time.
type barModel struct {
	bar       bubbleprogress.Model
	title     string
	completed int
	total     int
	start     time.Time
	now       func() time.Time
}

func newBarModel(title string, total int, now func() time.Time) barModel {
	return barModel{
		bar:   bubbleprogress.New(bubbleprogress.WithDefaultGradient(), bubbleprogress.WithWidth(40)),
		title: title,
		total: total,
		start: now(),
		now:   now,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m barModel) Init() tea.Cmd {
	return tick()
}

func (m barModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		if msg.completed > m.completed {
			m.completed = msg.completed
		}
		m.total = msg.total
		return m, nil
	case tickMsg:
		return m, tick()
	case tea.WindowSizeMsg:
		width := msg.Width - barPadding*2 - len(m.title) - 16
		if width > barMaxWidth {
			width = barMaxWidth
		}
		if width > 10 {
			m.bar.Width = width
		}
		return m, nil
	}
	return m, nil
}

func (m barModel) View() string {
	pct := percent(m.completed, m.total)
	elapsed := m.now().Sub(m.start).Round(time.Second)
	return fmt.Sprintf("%s %s %3.0f%% %s\n", titleStyle.Render(m.title), m.bar.ViewAs(pct), pct*100, elapsed)
}

// Bar renders the counter as an animated terminal progress bar. Updates are
// funneled to a single bubbletea event loop, which is the only goroutine that
// draws.
type Bar struct {
	mu      sync.Mutex
	program *tea.Program
	started bool
	done    chan struct{}
}

// NewBar prepares a bar that draws to out once Start is called.
func NewBar(out io.Writer, title string, total int) *Bar {
	model := newBarModel(title, total, time.Now)
	program := tea.NewProgram(model,
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	return &Bar{program: program, done: make(chan struct{})}
}

// Start launches the render loop in the background.
func (b *Bar) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return
	}
	b.started = true
	go func() {
		defer close(b.done)
		_, _ = b.program.Run()
	}()
}

// Update forwards a count to the render loop. Updates before Start are dropped;
// the model already knows the total.
func (b *Bar) Update(completed, total int) {
	b.mu.Lock()
	started := b.started
	b.mu.Unlock()
	if !started {
		return
	}
	b.program.Send(updateMsg{completed: completed, total: total})
}

// Stop draws the final state and waits for the render loop to exit.
func (b *Bar) Stop() {
	b.mu.Lock()
	started := b.started
	b.mu.Unlock()
	if !started {
		return
	}
	b.program.Quit()
	<-b.done
}

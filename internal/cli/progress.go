package cli

import (
	"fmt"
	"os"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/cyanluna-git/jira.javis/internal/similarity"
)

// Theme holds the color scheme for the progress display.
type Theme struct {
	Status     lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
	Hint       lipgloss.Color
	ProgressBg lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:     lipgloss.Color("#5FAFD7"), // light blue
	Success:    lipgloss.Color("#00D787"), // green
	Error:      lipgloss.Color("#FF005F"), // red
	Hint:       lipgloss.Color("#6C6C6C"), // dim gray
	ProgressBg: lipgloss.Color("#3A3A3A"), // dark gray
}

// Style functions for dynamic theming
func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// scanProgressMsg carries pairwise-scan progress.
type scanProgressMsg struct {
	done  int
	total int
}

// scanDoneMsg signals the scan finished.
type scanDoneMsg struct {
	err error
}

// scanModel is the bubbletea model for the similarity scan.
type scanModel struct {
	progress progress.Model
	theme    Theme
	pages    int
	done     int
	total    int
	finished bool
	quitting bool
	err      error
}

// newScanModel creates a new scan progress model.
func newScanModel(pages int) scanModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	return scanModel{
		progress: prog,
		theme:    defaultTheme,
		pages:    pages,
		total:    pages * (pages - 1) / 2,
	}
}

// Init returns the initial command.
func (m scanModel) Init() tea.Cmd {
	return m.progress.Init()
}

// Update handles messages and returns the updated model.
func (m scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case scanProgressMsg:
		m.done = msg.done
		m.total = msg.total
		return m, nil

	case scanDoneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit

	case progress.FrameMsg:
		// Update progress bar animation
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m scanModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

// renderContent builds the display string.
func (m scanModel) renderContent() string {
	if m.finished {
		if m.err != nil {
			return m.theme.errorStyle().Render(fmt.Sprintf("\n✗ Scan failed: %s\n", m.err))
		}
		return m.theme.completedStyle().Render("✓ Scan complete\n")
	}

	var pct float64
	if m.total > 0 {
		pct = float64(m.done) / float64(m.total)
	}

	status := m.theme.statusStyle().Render(fmt.Sprintf("[scanning %d pages]", m.pages))
	progressBar := m.progress.ViewAs(pct)
	counts := fmt.Sprintf("%d/%d pairs", m.done, m.total)
	hint := m.theme.hintStyle().Render("Press Ctrl+C to abort")

	return fmt.Sprintf("%s %s %s\n%s\n", status, progressBar, counts, hint)
}

// runScanProgress runs scan with a live progress bar when stderr is a
// terminal, or silently otherwise. The scan runs on its own goroutine and
// reports through the analyzer's progress callback, sampled so the UI isn't
// flooded with one message per pair.
func runScanProgress(pages int, scan func(similarity.ProgressFunc) error) error {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return scan(nil)
	}

	p := tea.NewProgram(newScanModel(pages))

	go func() {
		err := scan(func(done, total int) {
			if done == total || done%64 == 0 {
				p.Send(scanProgressMsg{done: done, total: total})
			}
		})
		p.Send(scanDoneMsg{err: err})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("progress UI error: %w", err)
	}

	if m, ok := finalModel.(scanModel); ok {
		if m.quitting {
			return fmt.Errorf("scan aborted")
		}
		return m.err
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	windsway "github.com/phanxgames/windsway"
)

const progressBarWidth = 32

// frameMsg reports that done of total frames have been rendered.
type frameMsg struct {
	done, total int
}

// exportDoneMsg carries the outcome of the export goroutine.
type exportDoneMsg struct {
	result windsway.ExportResult
	err    error
}

// ExportModel is the bubbletea model showing export progress. Pressing
// ctrl+c, q or esc cancels the export; the model quits once the export
// goroutine has returned.
type ExportModel struct {
	Label      string
	Done       int
	Total      int
	Result     windsway.ExportResult
	Err        error
	Finished   bool
	Cancelling bool

	cancel context.CancelFunc
	start  time.Time
}

// NewExportModel creates a progress model. cancel stops the export.
func NewExportModel(label string, total int, cancel context.CancelFunc) ExportModel {
	return ExportModel{Label: label, Total: total, cancel: cancel, start: time.Now()}
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.Cancelling && m.cancel != nil {
				m.cancel()
			}
			m.Cancelling = true
		}
	case frameMsg:
		m.Done, m.Total = msg.done, msg.total
	case exportDoneMsg:
		m.Result, m.Err = msg.result, msg.err
		m.Finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ExportModel) View() string {
	if m.Finished {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Label))
	b.WriteString("\n")
	b.WriteString(renderBar(m.Done, m.Total, progressBarWidth))
	b.WriteString(" ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d/%d frames", m.Done, m.Total)))
	b.WriteString("\n")
	if m.Cancelling {
		b.WriteString(StyleWarning.Render("cancelling..."))
	} else {
		b.WriteString(StyleDim.Render("ctrl+c to cancel"))
	}
	b.WriteString("\n")
	return b.String()
}

// renderBar draws a fixed-width progress bar.
func renderBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = min(done*width/total, width)
	}
	return styleBarFilled.Render(strings.Repeat("█", filled)) +
		styleBarEmpty.Render(strings.Repeat("░", width-filled))
}

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/rpnl/internal/domain"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case CalculationCompleteMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.result = msg.Result
			m.request = msg.Request
		}
		return m, nil

	case BaselineCompleteMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		if msg.Err == nil {
			m.baseline = msg.Result
		} else {
			m.baseline = nil
		}
		return m, nil
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Trace):
		m.showTrace = !m.showTrace
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.focusField((m.focus + fieldCount - 1) % fieldCount)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.focusField((m.focus + 1) % fieldCount)
		return m, nil

	case key.Matches(msg, m.keys.Marital):
		m.toggleMarital()
		return m, m.recalculate()

	case key.Matches(msg, m.keys.Reset):
		m.setRequest(m.initial)
		return m, m.recalculate()

	case key.Matches(msg, m.keys.Left):
		return m.adjust(-1)
	case key.Matches(msg, m.keys.Right):
		return m.adjust(1)
	case key.Matches(msg, m.keys.BigLeft):
		return m.adjust(-10)
	case key.Matches(msg, m.keys.BigRight):
		return m.adjust(10)
	}
	return m, nil
}

// adjust moves the focused control by steps and recalculates when it changed.
func (m Model) adjust(steps int) (tea.Model, tea.Cmd) {
	if m.focus == FieldMaritalStatus {
		m.toggleMarital()
		return m, m.recalculate()
	}
	if !m.sliders[m.focus].IncrementBy(steps) {
		return m, nil
	}
	return m, m.recalculate()
}

func (m *Model) toggleMarital() {
	if m.marital == domain.MaritalMarried {
		m.marital = domain.MaritalSingle
	} else {
		m.marital = domain.MaritalMarried
	}
}

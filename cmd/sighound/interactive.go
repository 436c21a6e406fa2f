package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/signalhound/sighound/blocks"
	"github.com/signalhound/sighound/iq"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const refreshInterval = 250 * time.Millisecond

type monitorModel struct {
	src    blocks.Source
	frame  []complex64
	center float64

	power  float64
	peak   float64
	frames int
	err    error

	input textinput.Model
}

type sampleMsg struct {
	power float64
	peak  float64
	err   error
}

func newMonitorModel(src blocks.Source) *monitorModel {
	ti := textinput.New()
	ti.Placeholder = "center MHz"
	ti.CharLimit = 12
	ti.Width = 14

	return &monitorModel{
		src:   src,
		frame: make([]complex64, 4096),
		input: ti,
	}
}

func runInteractive(src blocks.Source) error {
	p := tea.NewProgram(newMonitorModel(src))
	_, err := p.Run()
	return err
}

func (m *monitorModel) Init() tea.Cmd {
	return m.sample()
}

// sample reads one frame on each refresh tick.
func (m *monitorModel) sample() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		n, err := m.src.Work(context.Background(), m.frame)
		if err != nil {
			return sampleMsg{err: err}
		}
		return sampleMsg{
			power: iq.PowerDBFS(m.frame[:n]),
			peak:  iq.Peak(m.frame[:n]),
		}
	})
}

func (m *monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sampleMsg:
		m.err = msg.err
		if msg.err == nil {
			m.power = msg.power
			m.peak = msg.peak
			m.frames++
		}
		return m, m.sample()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if !m.input.Focused() {
				return m, tea.Quit
			}

		case "tab":
			if m.input.Focused() {
				m.input.Blur()
			} else {
				m.input.Focus()
			}
			return m, nil

		case "esc":
			m.input.Blur()
			m.input.SetValue("")
			return m, nil

		case "enter":
			if m.input.Focused() {
				if mhz, err := strconv.ParseFloat(strings.TrimSpace(m.input.Value()), 64); err == nil && mhz > 0 {
					m.center = mhz * 1e6
					m.src.SetCenter(m.center)
				}
				m.input.Blur()
				m.input.SetValue("")
			}
			return m, nil
		}
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *monitorModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("sighound monitor: " + m.src.Name()))
	b.WriteString("\n\n")

	params := m.src.Params()
	b.WriteString(labelStyle.Render("sample rate "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%11.0f Hz", params.SampleRate)))
	b.WriteString(labelStyle.Render("   bandwidth "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%11.0f Hz", params.Bandwidth)))
	if m.center > 0 {
		b.WriteString(labelStyle.Render("   center "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.3f MHz", m.center/1e6)))
	}
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("power "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%7.2f dBFS ", m.power)))
	b.WriteString(barStyle.Render(powerBar(m.power)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("peak  "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%7.3f", m.peak)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("frames "))
	b.WriteString(valueStyle.Render(strconv.Itoa(m.frames)))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("retune "))
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: retune field • enter: apply • q: quit"))
	b.WriteString("\n")

	return b.String()
}

// powerBar renders average power as a bar between -100 and 0 dBFS.
func powerBar(dbfs float64) string {
	cells := int((dbfs + 100) / 2.5)
	if cells < 0 {
		cells = 0
	}
	if cells > 40 {
		cells = 40
	}
	return strings.Repeat("█", cells)
}

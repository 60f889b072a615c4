package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/forcelayout/pkg/layout"
)

// watchFrame is the delay between frames of the watch view.
const watchFrame = 50 * time.Millisecond

// energyHistory is the number of recent energies kept for the sparkline.
const energyHistory = 40

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

var (
	watchHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	watchDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// WatchModel - Interactive layout progress
// =============================================================================

type frameMsg time.Time

// WatchModel is the bubbletea model that steps a layout engine and shows
// per-tick statistics.
type WatchModel struct {
	Engine   *layout.Engine
	MaxTicks int
	PerFrame int
	Stats    layout.TickStats
	Energies []float64
	Paused   bool
	Done     bool
}

// NewWatchModel creates a watch model running up to maxTicks ticks, perFrame
// ticks per frame.
func NewWatchModel(eng *layout.Engine, maxTicks, perFrame int) WatchModel {
	if perFrame < 1 {
		perFrame = 1
	}
	return WatchModel{Engine: eng, MaxTicks: maxTicks, PerFrame: perFrame}
}

func nextFrame() tea.Cmd {
	return tea.Tick(watchFrame, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m WatchModel) Init() tea.Cmd {
	return nextFrame()
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "p":
			m.Paused = !m.Paused
		case "s":
			if !m.Done {
				m = m.step(1)
			}
		}
	case frameMsg:
		if !m.Paused && !m.Done {
			m = m.step(m.PerFrame)
		}
		return m, nextFrame()
	}
	return m, nil
}

// step runs up to n ticks, honouring MaxTicks and the configured stop energy.
func (m WatchModel) step(n int) WatchModel {
	stop := m.Engine.Config().StopEnergy
	for range n {
		if m.MaxTicks > 0 && int(m.Engine.Ticks()) >= m.MaxTicks {
			m.Done = true
			break
		}
		m.Stats = m.Engine.Step()
		m.Energies = append(m.Energies, m.Stats.KineticEnergy)
		if len(m.Energies) > energyHistory {
			m.Energies = m.Energies[len(m.Energies)-energyHistory:]
		}
		if stop > 0 && m.Stats.KineticEnergy < stop {
			m.Done = true
			break
		}
	}
	if m.MaxTicks > 0 && int(m.Engine.Ticks()) >= m.MaxTicks {
		m.Done = true
	}
	return m
}

func (m WatchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Force Layout"))
	b.WriteString("\n")
	b.WriteString(watchDimStyle.Render("space pause  s step  q quit"))
	b.WriteString("\n\n")

	s := m.Stats
	rows := [][]string{
		{"tick", fmt.Sprintf("%d / %d", s.Tick, m.MaxTicks)},
		{"vertices", fmt.Sprintf("%d", s.Vertices)},
		{"edges", fmt.Sprintf("%d", s.Edges)},
		{"energy", fmt.Sprintf("%.6g", s.KineticEnergy)},
		{"max move", fmt.Sprintf("%.6g", s.MaxDisplacement)},
		{"center", fmt.Sprintf("%.3f, %.3f, %.3f", s.Center.X, s.Center.Y, s.Center.Z)},
		{"octree", fmt.Sprintf("%d nodes, depth %d", s.OctreeNodes, s.OctreeDepth)},
		{"tick time", s.Duration.Round(time.Microsecond).String()},
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return watchHeaderStyle.PaddingRight(2)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(StyleNumber.Render(sparkline(m.Energies)))
	b.WriteString("\n\n")

	switch {
	case m.Done:
		b.WriteString(StyleSuccess.Render(iconSuccess + " done"))
	case m.Paused:
		b.WriteString(StyleWarning.Render("paused"))
	default:
		b.WriteString(watchDimStyle.Render("running"))
	}
	b.WriteString("\n")
	return b.String()
}

// sparkline scales values to block characters between their min and max.
func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	out := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1))
		}
		out[i] = sparkBlocks[idx]
	}
	return string(out)
}

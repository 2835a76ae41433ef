package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/flow"
	"github.com/matzehuels/sankeyflow/pkg/graph"
)

// browseCommand creates the browse command, an interactive frame viewer.
func (c *CLI) browseCommand() *cobra.Command {
	var df diagramFlags

	cmd := &cobra.Command{
		Use:   "browse [input]",
		Short: "Step through a diagram's frames in the terminal",
		Long: `Step through a diagram's frames in the terminal.

Each frame lists its flows, largest first, with a bar scaled to the
largest flow of the whole timeline.

Keys: ←/→ previous/next frame, space play/pause, home/end first/last
frame, q quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := df.options(cmd, args)
			if err != nil {
				return err
			}
			doc, err := c.document(cmd.Context(), opts, df.cache(cfg))
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(newBrowserModel(doc), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	df.register(cmd)
	return cmd
}

// =============================================================================
// browserModel - Interactive frame viewer
// =============================================================================

var (
	browserBarStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	browserLabelStyle = lipgloss.NewStyle().Foreground(colorWhite)
	browserDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	browserPlayStyle  = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
)

const browserBarWidth = 30

// tickMsg advances the timeline during playback.
type tickMsg time.Time

type browserModel struct {
	doc      graph.Document
	frame    int // index into doc.Frames; StaticFrame when not animated
	playing  bool
	interval time.Duration
	height   int
	maxValue float64
}

func newBrowserModel(doc graph.Document) browserModel {
	m := browserModel{
		doc:      doc,
		frame:    graph.StaticFrame,
		interval: doc.PlaybackSettings().Interval,
		height:   15,
	}
	if doc.Animated() {
		m.frame = 0
	}
	for _, s := range append([]flow.Snapshot{doc.Static}, frameSnapshots(doc)...) {
		for _, e := range s.Edges {
			m.maxValue = max(m.maxValue, e.Value)
		}
	}
	return m
}

func frameSnapshots(doc graph.Document) []flow.Snapshot {
	out := make([]flow.Snapshot, len(doc.Frames))
	for i, f := range doc.Frames {
		out[i] = f.Snapshot
	}
	return out
}

func (m browserModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m browserModel) Init() tea.Cmd {
	return nil
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	last := len(m.doc.Frames) - 1
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.frame > 0 {
				m.frame--
			}
		case "right", "l":
			if m.frame < last {
				m.frame++
			}
		case "home":
			if last >= 0 {
				m.frame = 0
			}
		case "end":
			m.frame = last
			if last < 0 {
				m.frame = graph.StaticFrame
			}
		case " ":
			if last < 0 {
				return m, nil
			}
			m.playing = !m.playing
			if m.playing {
				return m, m.tick()
			}
		}
	case tickMsg:
		if !m.playing {
			return m, nil
		}
		if m.frame >= last {
			m.frame = 0
		} else {
			m.frame++
		}
		return m, m.tick()
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m browserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.doc.Title))
	b.WriteString("\n")
	b.WriteString(m.status())
	b.WriteString("\n\n")

	snap, err := m.doc.Snapshot(m.frame)
	if err != nil {
		b.WriteString(StyleWarning.Render(err.Error()))
		return b.String()
	}
	if len(snap.Edges) == 0 {
		b.WriteString(browserDimStyle.Render("  no flows in this frame"))
		b.WriteString("\n")
	}

	edges := append([]flow.Edge(nil), snap.Edges...)
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].Value > edges[j].Value })
	width := 0
	for _, e := range edges {
		width = max(width, lipgloss.Width(e.Source+" → "+e.Target))
	}
	for i, e := range edges {
		if i == m.height {
			b.WriteString(browserDimStyle.Render(fmt.Sprintf("  … %d more", len(edges)-i)))
			b.WriteString("\n")
			break
		}
		label := fmt.Sprintf("%-*s", width, e.Source+" → "+e.Target)
		b.WriteString("  " + browserLabelStyle.Render(label) + " " + browserBarStyle.Render(bar(e.Value, m.maxValue)) + " " + browserDimStyle.Render(formatFlow(e.Value)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(browserDimStyle.Render("←/→ frame  space play/pause  q quit"))
	return b.String()
}

// status is the frame position line.
func (m browserModel) status() string {
	if m.frame == graph.StaticFrame {
		return browserDimStyle.Render("all rows · no timeline")
	}
	f := m.doc.Frames[m.frame]
	line := fmt.Sprintf("frame %d/%d · %s", m.frame+1, len(m.doc.Frames), f.Label)
	if m.playing {
		return browserPlayStyle.Render("▶ ") + line
	}
	return browserDimStyle.Render("❚❚ ") + line
}

// bar draws value as a block bar scaled so maxValue fills browserBarWidth.
func bar(value, maxValue float64) string {
	if maxValue <= 0 {
		return ""
	}
	n := int(value / maxValue * browserBarWidth)
	if n == 0 && value > 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

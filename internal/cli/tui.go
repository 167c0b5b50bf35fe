package cli

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/kgforce/pkg/force"
	"github.com/matzehuels/kgforce/pkg/layout"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// watchRefresh is how often the watch view samples the engine.
const watchRefresh = 100 * time.Millisecond

// =============================================================================
// WatchModel - Live simulation view
// =============================================================================

// watchTickMsg asks the model to take a fresh snapshot.
type watchTickMsg time.Time

// WatchModel is the bubbletea model for the live terminal view. It renders
// engine snapshots as a node table and maps keys onto engine operations.
type WatchModel struct {
	Engine   *force.Engine
	Title    string
	Snapshot force.Snapshot
	Height   int
	Offset   int
	Interval time.Duration

	edgeCursor int
}

// NewWatchModel creates a watch model for e.
func NewWatchModel(e *force.Engine, title string) WatchModel {
	return WatchModel{
		Engine:     e,
		Title:      title,
		Snapshot:   e.Snapshot(),
		Height:     15,
		Interval:   watchRefresh,
		edgeCursor: -1,
	}
}

func (m WatchModel) Init() tea.Cmd {
	return m.tick()
}

func (m WatchModel) tick() tea.Cmd {
	return tea.Tick(m.Interval, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case watchTickMsg:
		m.Snapshot = m.Engine.Snapshot()
		m.scrollToSelection()
		return m, m.tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if m.Engine.Running() {
				m.Engine.Stop()
			} else {
				m.Engine.Start()
			}
		case "tab", "down", "j":
			m.stepNode(1)
		case "shift+tab", "up", "k":
			m.stepNode(-1)
		case "e":
			m.stepEdge()
		case "c":
			m.Engine.ClearSelection()
			m.edgeCursor = -1
		}
		m.Snapshot = m.Engine.Snapshot()
		m.scrollToSelection()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
		m.scrollToSelection()
	}
	return m, nil
}

// stepNode moves the node selection by d, wrapping around.
func (m *WatchModel) stepNode(d int) {
	nodes := m.Snapshot.Nodes
	if len(nodes) == 0 {
		return
	}
	i := m.selectedIndex()
	switch {
	case i < 0 && d < 0:
		i = len(nodes) - 1
	case i < 0:
		i = 0
	default:
		i = (i + d + len(nodes)) % len(nodes)
	}
	m.Engine.SelectNode(nodes[i].ID)
	m.edgeCursor = -1
}

// stepEdge selects the next edge, wrapping around.
func (m *WatchModel) stepEdge() {
	edges := m.Snapshot.Edges
	if len(edges) == 0 {
		return
	}
	m.edgeCursor = (m.edgeCursor + 1) % len(edges)
	m.Engine.SelectEdge(edges[m.edgeCursor].Key())
}

// selectedIndex returns the index of the selected node, or -1.
func (m WatchModel) selectedIndex() int {
	if m.Snapshot.SelectedNode == "" {
		return -1
	}
	return slices.IndexFunc(m.Snapshot.Nodes, func(n layout.Node) bool {
		return n.ID == m.Snapshot.SelectedNode
	})
}

// scrollToSelection keeps the selected row inside the visible window.
func (m *WatchModel) scrollToSelection() {
	i := m.selectedIndex()
	if i < 0 {
		m.Offset = min(m.Offset, max(len(m.Snapshot.Nodes)-m.Height, 0))
		return
	}
	if i < m.Offset {
		m.Offset = i
	}
	if i >= m.Offset+m.Height {
		m.Offset = i - m.Height + 1
	}
}

func (m WatchModel) View() string {
	var b strings.Builder
	s := m.Snapshot

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("  ")
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("space run/pause  tab/⇧tab select node  e select edge  c clear  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(s.Nodes))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := s.Nodes[i]
		cursor := "  "
		if n.ID == s.SelectedNode {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor + nodeSwatch(n.Color),
			n.ID,
			n.Type,
			fmt.Sprintf("%.1f", n.X),
			fmt.Sprintf("%.1f", n.Y),
			fmt.Sprintf("%.2f", math.Hypot(n.VX, n.VY)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Type", "X", "Y", "Speed").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx < len(s.Nodes) && s.Nodes[idx].ID == s.SelectedNode {
				return listSelectedStyle
			}
			if col >= 3 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if len(s.Nodes) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d-%d/%d]", m.Offset+1, end, len(s.Nodes))))
		b.WriteString("\n")
	}
	b.WriteString(m.selection())
	return b.String()
}

// status renders the run state and frame counters.
func (m WatchModel) status() string {
	s := m.Snapshot
	state := StyleDim.Render("paused")
	switch {
	case s.Running:
		state = StyleSuccess.Render("running")
	case s.Settled:
		state = StyleHighlight.Render("settled")
	}
	parts := []string{
		state,
		fmt.Sprintf("frame %s", StyleNumber.Render(fmt.Sprint(s.Frame))),
		fmt.Sprintf("energy %s", StyleNumber.Render(fmt.Sprintf("%.3f", s.Energy))),
	}
	if s.Dropped > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d dropped", s.Dropped)))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// selection renders the details of the selected node or edge.
func (m WatchModel) selection() string {
	s := m.Snapshot
	if e := s.SelectedEdge; e != nil {
		for _, ed := range s.Edges {
			if src, dst := ed.Key(); src == e.Source && dst == e.Target {
				rel := ed.Relation
				if rel == "" {
					rel = "edge"
				}
				return StyleSelected.Render(fmt.Sprintf("%s %s %s", src, iconArrow, dst)) +
					StyleDim.Render(fmt.Sprintf("  %s  weight %.2g", rel, ed.Weight))
			}
		}
		return ""
	}
	n, ok := s.Node(s.SelectedNode)
	if !ok {
		return ""
	}
	line := nodeSwatch(n.Color) + " " + StyleSelected.Render(n.DisplayLabel())
	if n.Type != "" {
		line += StyleDim.Render("  " + n.Type)
	}
	if n.Fixed {
		line += StyleDim.Render("  pinned")
	}
	keys := make([]string, 0, len(n.Properties))
	for k := range n.Properties {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		line += "\n  " + StyleDim.Render(k+":") + " " + StyleValue.Render(fmt.Sprint(n.Properties[k]))
	}
	return line
}

package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/routeviz/bgpmap/pkg/layout"
	"github.com/routeviz/bgpmap/pkg/pipeline"
	"github.com/routeviz/bgpmap/pkg/render"
	"github.com/routeviz/bgpmap/pkg/session"
	"github.com/routeviz/bgpmap/pkg/topology"
)

// viewCommand creates the view command for interactive layout editing.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		noCache     bool
		sessionName string
		restore     string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "view [topology.toml|topology.json]",
		Short: "View and edit a topology layout in the terminal",
		Long: `View and edit a topology layout in the terminal.

Click or select a router to drag it around; its AS container follows. A quick
double-click (or pressing enter) shows the device information popup. Dragged
arrangements can be saved as a named session and restored later with
--session.

Keys:
  tab / shift+tab   cycle node selection
  arrows / hjkl     move the selected node
  enter / i         show device information
  r                 recompute the layout
  s                 save the arrangement as a session
  q                 quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0], opts, noCache, sessionName, restore)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&sessionName, "name", "", "session name used when saving (default: input path)")
	cmd.Flags().StringVar(&restore, "session", "", "restore positions from a saved session id")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "layout seed (default: fixed)")
	cmd.Flags().IntVar(&opts.Iterations, "iterations", 0, "force-simulation rounds")

	return cmd
}

// runView executes the pipeline and hands the result to the TUI.
func (c *CLI) runView(ctx context.Context, input string, opts pipeline.Options, noCache bool, sessionName, restore string) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	store, err := session.NewFileStore("")
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	if restore != "" {
		sess, err := store.Get(ctx, restore)
		if err != nil {
			return fmt.Errorf("load session %s: %w", restore, err)
		}
		if sess == nil {
			return fmt.Errorf("session %s not found", restore)
		}
		opts.Positions = sess.Positions
	}

	opts.Source = input
	opts.Formats = []string{pipeline.FormatJSON}
	opts.Logger = c.Logger
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}

	if sessionName == "" {
		sessionName = input
	}
	model := newViewModel(result, opts, store, sessionName)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	if m, ok := final.(viewModel); ok && m.savedSession != "" {
		printSuccess("Session saved")
		printKeyValue("id", m.savedSession)
		printNextStep("Reopen it", fmt.Sprintf("%s view %s --session %s", appName, input, m.savedSession))
	}
	return nil
}

// moveStep is the per-keypress node displacement in layout units.
const moveStep = 0.05

// Canvas styles.
var (
	styleRouter     = lipgloss.NewStyle().Foreground(colorGreen)
	styleInterface  = lipgloss.NewStyle().Foreground(colorYellow)
	styleGroup      = lipgloss.NewStyle().Foreground(colorDim)
	styleSelected   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Reverse(true)
	stylePopupFrame = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorCyan).Padding(0, 1)
)

// viewModel is the bubbletea model for the interactive diagram viewer.
type viewModel struct {
	topo    *topology.Topology
	exp     *topology.Expansion
	engine  *layout.Engine
	pointer *render.Pointer

	store       session.Store
	sessionName string
	hash        string

	// nodes is the stable selection order: routers first, then interfaces.
	nodes    []string
	selected int

	width  int
	height int

	popup        string
	status       string
	savedSession string
	dragging     bool
}

func newViewModel(result *pipeline.Result, opts pipeline.Options, store session.Store, sessionName string) viewModel {
	engine := layout.NewEngine(opts.LayoutOptions())
	_ = engine.Layout(result.Topology, result.Expansion, result.Positions)

	var nodes []string
	for _, r := range result.Topology.Routers() {
		nodes = append(nodes, r.ID)
	}
	ifaces := make([]string, 0, len(result.Expansion.Interfaces))
	for _, n := range result.Expansion.Interfaces {
		ifaces = append(ifaces, n.ID)
	}
	sort.Strings(ifaces)
	nodes = append(nodes, ifaces...)

	return viewModel{
		topo:        result.Topology,
		exp:         result.Expansion,
		engine:      engine,
		pointer:     render.NewPointer(result.Topology, result.Expansion, engine, 0),
		store:       store,
		sessionName: sessionName,
		hash:        result.TopologyHash,
		nodes:       nodes,
		width:       80,
		height:      24,
	}
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.MouseMsg:
		return m.updateMouse(msg), nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m viewModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.popup = ""
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		if len(m.nodes) > 0 {
			m.selected = (m.selected + 1) % len(m.nodes)
		}
	case "shift+tab":
		if len(m.nodes) > 0 {
			m.selected = (m.selected + len(m.nodes) - 1) % len(m.nodes)
		}
	case "up", "k":
		m.moveSelected(0, moveStep)
	case "down", "j":
		m.moveSelected(0, -moveStep)
	case "left", "h":
		m.moveSelected(-moveStep, 0)
	case "right", "l":
		m.moveSelected(moveStep, 0)
	case "enter", "i":
		if id, ok := m.selectedNode(); ok {
			m.popup = m.nodeInfo(id)
		}
	case "r":
		_ = m.engine.Layout(m.topo, m.exp, nil)
		m.status = "layout recomputed"
	case "s":
		return m.saveSession()
	}
	return m, nil
}

// updateMouse forwards pointer events into the interaction boundary, mapping
// terminal cells to layout coordinates.
func (m viewModel) updateMouse(msg tea.MouseMsg) viewModel {
	x, y := m.cellToLayout(msg.X, msg.Y)

	var ev render.Event
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		ev = m.pointer.Down(x, y, time.Now())
	case msg.Action == tea.MouseActionMotion:
		ev = m.pointer.Move(x, y)
	case msg.Action == tea.MouseActionRelease:
		ev = m.pointer.Up(x, y, time.Now())
	default:
		return m
	}

	switch ev.Action {
	case render.ActionDragStart:
		m.popup = ""
		m.dragging = true
		m.selectNode(ev.Node)
		m.status = "dragging " + ev.Node
	case render.ActionDrag:
		m.status = "dragging " + ev.Node
	case render.ActionDragEnd:
		m.dragging = false
		m.status = ""
	case render.ActionInspect:
		m.popup = ev.Info
		m.status = ""
	}
	return m
}

func (m *viewModel) moveSelected(dx, dy float64) {
	id, ok := m.selectedNode()
	if !ok {
		return
	}
	if err := m.engine.MoveNode(id, dx, dy); err != nil {
		return
	}
	m.engine.RecenterGroups()
}

func (m viewModel) selectedNode() (string, bool) {
	if m.selected < 0 || m.selected >= len(m.nodes) {
		return "", false
	}
	return m.nodes[m.selected], true
}

func (m *viewModel) selectNode(id string) {
	for i, n := range m.nodes {
		if n == id {
			m.selected = i
			return
		}
	}
}

func (m viewModel) nodeInfo(id string) string {
	if n, ok := m.exp.Interface(id); ok {
		return n.Name + ": " + n.IP
	}
	return m.topo.Info(id)
}

func (m viewModel) saveSession() (tea.Model, tea.Cmd) {
	sess := session.New(m.sessionName, m.hash, m.engine.Positions())
	if err := m.store.Set(context.Background(), sess); err != nil {
		m.status = "save failed: " + err.Error()
		return m, nil
	}
	m.savedSession = sess.ID
	return m, tea.Quit
}

// canvas geometry: the layout frame [-frameExtent, frameExtent] maps onto the
// drawable cell grid. The extent is slightly over 1 so border nodes stay
// visible after small drags.
const frameExtent = 1.2

func (m viewModel) canvasSize() (int, int) {
	w := m.width
	h := m.height - 4 // header + status lines
	if w < 20 {
		w = 20
	}
	if h < 10 {
		h = 10
	}
	return w, h
}

func (m viewModel) layoutToCell(p layout.Point) (int, int) {
	w, h := m.canvasSize()
	col := int((p.X + frameExtent) / (2 * frameExtent) * float64(w-1))
	row := int((frameExtent - p.Y) / (2 * frameExtent) * float64(h-1))
	return col, row
}

// cellToLayout inverts layoutToCell for mouse input. Row 0 is the header
// line, so the canvas starts one row down.
func (m viewModel) cellToLayout(col, row int) (float64, float64) {
	w, h := m.canvasSize()
	x := float64(col)/float64(w-1)*2*frameExtent - frameExtent
	y := frameExtent - float64(row-1)/float64(h-1)*2*frameExtent
	return x, y
}

func (m viewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("bgpmap"))
	b.WriteString(StyleDim.Render("  tab select · arrows move · enter info · r re-layout · s save · q quit"))
	b.WriteString("\n")

	b.WriteString(m.renderCanvas())
	b.WriteString("\n")

	if m.popup != "" {
		b.WriteString(stylePopupFrame.Render(m.popup))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(StyleDim.Render(m.status))
		b.WriteString("\n")
	} else if id, ok := m.selectedNode(); ok {
		p, _ := m.engine.Position(id)
		b.WriteString(StyleDim.Render(fmt.Sprintf("%s (%.2f, %.2f)", id, p.X, p.Y)))
		b.WriteString("\n")
	}

	return b.String()
}

// renderCanvas paints every node label onto a cell grid. Later writes win on
// overlap; routers are drawn last so they stay visible.
func (m viewModel) renderCanvas() string {
	w, h := m.canvasSize()

	type cell struct {
		ch    rune
		style *lipgloss.Style
	}
	grid := make([][]cell, h)
	for i := range grid {
		grid[i] = make([]cell, w)
		for j := range grid[i] {
			grid[i][j] = cell{ch: ' '}
		}
	}

	plot := func(id, label string, style *lipgloss.Style) {
		p, ok := m.engine.Position(id)
		if !ok {
			return
		}
		col, row := m.layoutToCell(p)
		if row < 0 || row >= h {
			return
		}
		col -= len(label) / 2
		for _, r := range label {
			if col >= 0 && col < w {
				grid[row][col] = cell{ch: r, style: style}
			}
			col++
		}
	}

	selectedID, _ := m.selectedNode()

	for _, g := range m.topo.ASGroups() {
		plot(topology.ASNodeID(g.Number), topology.ASNodeID(g.Number), &styleGroup)
	}
	for _, n := range m.exp.Interfaces {
		style := &styleInterface
		if n.ID == selectedID {
			style = &styleSelected
		}
		plot(n.ID, "·"+n.Name, style)
	}
	for _, r := range m.topo.Routers() {
		style := &styleRouter
		if r.ID == selectedID {
			style = &styleSelected
		}
		plot(r.ID, "["+r.DisplayLabel()+"]", style)
	}

	var b strings.Builder
	for _, row := range grid {
		start := 0
		for start < len(row) {
			// Group runs sharing a style to limit render calls.
			end := start
			for end < len(row) && row[end].style == row[start].style {
				end++
			}
			runes := make([]rune, 0, end-start)
			for _, c := range row[start:end] {
				runes = append(runes, c.ch)
			}
			if s := row[start].style; s != nil {
				b.WriteString(s.Render(string(runes)))
			} else {
				b.WriteString(string(runes))
			}
			start = end
		}
		b.WriteString("\n")
	}
	return b.String()
}

package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeideals/pkg/forest"
	"github.com/matzehuels/treeideals/pkg/kodaruskey"
)

var (
	nodeActiveStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	nodeToggledStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	nodeIdleStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand steps through the Koda-Ruskey Gray code interactively.
func (c *CLI) browseCommand() *cobra.Command {
	var tf treeFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Step through the Gray code of a tree",
		Long: `Step through the Koda-Ruskey Gray code one ideal at a time. Every step adds or removes
exactly one node, shown highlighted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, name, err := tf.load(c)
			if err != nil {
				return err
			}
			m, err := newGrayModel(t, name)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	tf.register(cmd)
	return cmd
}

// grayRow is one node of the pre-order listing.
type grayRow struct {
	label int
	depth int
	pos   int // post-order position in the walk's vector
}

// GrayModel is the bubbletea model of the browse command.
type GrayModel struct {
	name    string
	layout  *kodaruskey.Layout
	walk    *kodaruskey.Walk
	rows    []grayRow
	total   uint64
	step    uint64
	toggled forest.Index
	done    bool
}

func newGrayModel(t forest.Tree, name string) (GrayModel, error) {
	layout, err := kodaruskey.Prepare(t)
	if err != nil {
		return GrayModel{}, err
	}
	post := make(map[int]int, layout.N())
	for i, l := range layout.Labels() {
		post[l] = i
	}

	pre := t.PreOrder()
	depth := make(map[int]int, pre.Len())
	rows := make([]grayRow, pre.Len())
	for i, label := range pre.Children {
		if p := pre.Parents[i]; p != 0 {
			depth[label] = depth[p] + 1
		}
		rows[i] = grayRow{label: label, depth: depth[label], pos: post[label]}
	}

	m := GrayModel{name: name, layout: layout, rows: rows, total: t.CountSubtrees()}
	m.reset()
	return m, nil
}

func (m *GrayModel) reset() {
	m.walk = m.layout.NewWalk()
	m.step, m.toggled, m.done = 0, forest.None, false
	m.advance()
}

func (m *GrayModel) advance() {
	if m.done {
		return
	}
	p, ok := m.walk.Step()
	if !ok {
		m.done = true
		m.toggled = forest.None
		return
	}
	m.step++
	m.toggled = p
}

func (m GrayModel) Init() tea.Cmd { return nil }

func (m GrayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "enter", "right", "l", "n":
			m.advance()
		case "r":
			m.reset()
		}
	}
	return m, nil
}

func (m GrayModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Gray code of " + m.name))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("space next  r restart  q quit"))
	b.WriteString("\n\n")

	vec := m.walk.Vector()
	labels := m.layout.Labels()
	for _, r := range m.rows {
		mark, style := "○", nodeIdleStyle
		if vec[r.pos] == 1 {
			mark, style = "●", nodeActiveStyle
		}
		if m.toggled.Valid() && int(m.toggled)-1 == r.pos {
			style = nodeToggledStyle
		}
		b.WriteString(strings.Repeat("  ", r.depth))
		b.WriteString(style.Render(fmt.Sprintf("%s %d", mark, r.label)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.done {
		b.WriteString(StyleSuccess.Render(fmt.Sprintf("%s all %d ideals visited", iconSuccess, m.total)))
	} else {
		verb := "removed"
		if vec[int(m.toggled)-1] == 1 {
			verb = "added"
		}
		b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d] %s %d", m.step, m.total, verb, labels[int(m.toggled)-1])))
	}
	b.WriteString("\n")
	return b.String()
}

package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/importdeps/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "explore PATH",
		Short: "Browse the modules of a Python package interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.newSession(ctx, cmd, args[0], &flags)
			if err != nil {
				return err
			}
			defer s.Close()

			spinner := newSpinnerWithContext(ctx, "Analyzing imports...")
			spinner.Start()
			res, err := s.runner.Analyze(ctx, s.opts)
			spinner.Stop()
			if err != nil {
				return err
			}

			_, err = tea.NewProgram(newExploreModel(res), tea.WithContext(ctx)).Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// ExploreModel - Interactive module browser
// =============================================================================

// moduleRow is one module of the browser.
type moduleRow struct {
	name       string
	imports    []string
	importedBy []string
	cyclic     bool
}

// ExploreModel is the bubbletea model for the module browser.
type ExploreModel struct {
	rows      []moduleRow
	visible   []int // indexes into rows matching filter
	cursor    int   // index into visible
	offset    int
	height    int
	filter    string
	filtering bool
	detail    bool
}

func newExploreModel(res *pipeline.Result) ExploreModel {
	rows := make([]moduleRow, 0, len(res.Results))
	for _, r := range res.Results {
		row := moduleRow{name: r.Module, imports: r.Imports}
		row.importedBy = slices.Sorted(slices.Values(res.Graph.Dependents(r.Module)))
		for _, imp := range r.Imports {
			if res.Cycles.Has(r.Module, imp) {
				row.cyclic = true
				break
			}
		}
		rows = append(rows, row)
	}
	m := ExploreModel{rows: rows, height: 15}
	m.applyFilter()
	return m
}

func (m *ExploreModel) applyFilter() {
	m.visible = m.visible[:0]
	for i, r := range m.rows {
		if m.filter == "" || strings.Contains(r.name, m.filter) {
			m.visible = append(m.visible, i)
		}
	}
	m.cursor = 0
	m.offset = 0
}

// selected returns the row under the cursor.
func (m ExploreModel) selected() (moduleRow, bool) {
	if len(m.visible) == 0 {
		return moduleRow{}, false
	}
	return m.rows[m.visible[m.cursor]], true
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			m.detail = !m.detail
		case "/":
			m.filtering = true
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m ExploreModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		m.filtering = false
	case tea.KeyEsc:
		m.filtering = false
		m.filter = ""
		m.applyFilter()
	case tea.KeyBackspace:
		if m.filter != "" {
			m.filter = m.filter[:len(m.filter)-1]
			m.applyFilter()
		}
	case tea.KeyRunes:
		m.filter += string(msg.Runes)
		m.applyFilter()
	}
	return m, nil
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Modules"))
	b.WriteString("\n")
	if m.filtering || m.filter != "" {
		b.WriteString(StyleHighlight.Render("/" + m.filter))
	} else {
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  / filter  q quit"))
	}
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.visible))
	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		r := m.rows[m.visible[i]]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		cycle := ""
		if r.cyclic {
			cycle = "↻"
		}
		rows = append(rows, []string{cursor, r.name, fmt.Sprint(len(r.imports)), fmt.Sprint(len(r.importedBy)), cycle})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Module", "Imports", "Imported by", "Cycle").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			idx := m.offset + row
			if idx >= len(m.visible) {
				return lipgloss.NewStyle()
			}
			r := m.rows[m.visible[idx]]
			base := lipgloss.NewStyle()
			if col == 4 && r.cyclic {
				base = StyleCycle
			}
			if idx == m.cursor {
				return listSelectedStyle.Inherit(base)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.cursor+1, len(m.visible)), len(m.visible))))
	b.WriteString("\n")

	if r, ok := m.selected(); ok && m.detail {
		b.WriteString("\n")
		b.WriteString(detailView(r))
	}
	return b.String()
}

func detailView(r moduleRow) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(r.name))
	b.WriteString("\n")
	writeList := func(title string, names []string) {
		b.WriteString(listHeaderStyle.Render(title))
		b.WriteString("\n")
		if len(names) == 0 {
			b.WriteString(listDimStyle.Render("  (none)"))
			b.WriteString("\n")
		}
		for _, n := range names {
			b.WriteString("  " + StyleValue.Render(n) + "\n")
		}
	}
	writeList("Imports", r.imports)
	writeList("Imported by", r.importedBy)
	return b.String()
}

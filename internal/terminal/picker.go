package terminal

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/systmms/passlaunch/internal/launcher"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	matchStyle    = lipgloss.NewStyle().Underline(true)
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	maxListHeight = 15
)

// PickResult is what the picker did before exiting.
type PickResult struct {
	// Copied is the item whose value went to the clipboard, if any.
	Copied *launcher.Item
}

// Picker is a bubbletea model that lets the user type to filter entries,
// drill into one and copy a value.
type Picker struct {
	ctx     context.Context
	session *Session
	keys    KeyMap

	input   textinput.Model
	chain   []launcher.Item
	results []Ranked
	cursor  int
	height  int

	copied *launcher.Item
	err    error
}

// NewPicker builds a picker at the entry list.
func NewPicker(ctx context.Context, session *Session) *Picker {
	input := textinput.New()
	input.Prompt = "pass> "
	input.Placeholder = "type to filter"
	input.Focus()

	p := &Picker{
		ctx:     ctx,
		session: session,
		keys:    DefaultKeyMap,
		input:   input,
		chain:   []launcher.Item{session.Keyword()},
		height:  maxListHeight,
	}
	p.refresh()
	return p
}

// refresh asks the plugin for the children of the current chain.
func (p *Picker) refresh() {
	results, err := p.session.Suggest(p.ctx, p.input.Value(), p.chain)
	p.err = err
	p.results = results
	if p.cursor >= len(p.results) {
		p.cursor = len(p.results) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// refilter re-ranks the current suggestions without calling the plugin.
func (p *Picker) refilter() {
	p.results = p.session.Host.Filter(p.input.Value())
	p.cursor = 0
}

func (p *Picker) selected() (launcher.Item, bool) {
	if p.cursor < 0 || p.cursor >= len(p.results) {
		return launcher.Item{}, false
	}
	return p.results[p.cursor].Item, true
}

// Init implements tea.Model.
func (p *Picker) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.height = min(maxListHeight, max(1, msg.Height-4))
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Quit):
			return p, tea.Quit

		case key.Matches(msg, p.keys.Back):
			if len(p.chain) == 1 {
				return p, tea.Quit
			}
			p.chain = p.chain[:len(p.chain)-1]
			p.input.SetValue("")
			p.refresh()
			return p, nil

		case key.Matches(msg, p.keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil

		case key.Matches(msg, p.keys.Down):
			if p.cursor < len(p.results)-1 {
				p.cursor++
			}
			return p, nil

		case key.Matches(msg, p.keys.Drill):
			if item, ok := p.selected(); ok && item.Drillable {
				p.chain = append(p.chain, item)
				p.input.SetValue("")
				p.cursor = 0
				p.refresh()
			}
			return p, nil

		case key.Matches(msg, p.keys.Copy):
			item, ok := p.selected()
			if !ok {
				return p, nil
			}
			if err := p.session.Plugin.OnExecute(p.ctx, item); err != nil {
				p.err = err
				return p, nil
			}
			p.copied = &item
			return p, tea.Quit
		}
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.refilter()
	}
	return p, cmd
}

// View implements tea.Model.
func (p *Picker) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(p.breadcrumb()))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	b.WriteString("\n")

	start := 0
	if p.cursor >= p.height {
		start = p.cursor - p.height + 1
	}
	end := min(len(p.results), start+p.height)
	for i := start; i < end; i++ {
		r := p.results[i]
		marker := "  "
		label := highlight(r.Item.Label, r.Positions)
		if i == p.cursor {
			marker = cursorStyle.Render("> ")
		}
		b.WriteString(marker + label)
		if r.Item.ShortDesc != "" && r.Item.ShortDesc != r.Item.Label {
			b.WriteString("  " + descStyle.Render(r.Item.ShortDesc))
		}
		b.WriteString("\n")
	}
	if len(p.results) == 0 {
		b.WriteString(descStyle.Render("  no matches") + "\n")
	}

	if p.err != nil {
		b.WriteString(errorStyle.Render(firstLine(p.err.Error())) + "\n")
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("%d/%d  tab: fields  enter: copy  esc: back",
		len(p.results), len(p.session.Host.Suggestions()))))
	return b.String()
}

func (p *Picker) breadcrumb() string {
	parts := make([]string, 0, len(p.chain))
	for _, item := range p.chain {
		if item.Category == launcher.CategoryKeyword {
			parts = append(parts, "Pass")
			continue
		}
		parts = append(parts, item.Label)
	}
	return strings.Join(parts, " › ")
}

// highlight underlines the matched runes of label.
func highlight(label string, positions []int) string {
	if len(positions) == 0 {
		return label
	}
	marked := make(map[int]bool, len(positions))
	for _, pos := range positions {
		marked[pos] = true
	}

	var b strings.Builder
	for i, r := range []rune(label) {
		if marked[i] {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// Result returns what the picker did.
func (p *Picker) Result() PickResult {
	return PickResult{Copied: p.copied}
}

// RunPicker runs the picker on the given terminal streams until the user
// copies something or quits.
func RunPicker(ctx context.Context, session *Session, in io.Reader, out io.Writer) (PickResult, error) {
	picker := NewPicker(ctx, session)
	program := tea.NewProgram(picker,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	final, err := program.Run()
	if err != nil {
		return PickResult{}, err
	}
	return final.(*Picker).Result(), nil
}

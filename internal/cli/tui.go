package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/combo"
	"github.com/matzehuels/boxtower/pkg/errors"
)

// Form styles
var (
	formPromptStyle = lipgloss.NewStyle().Foreground(colorCyan)
	formInputStyle  = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	formErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	formDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

var dimNames = [3]string{"length", "width", "height"}

// =============================================================================
// BoxFormModel - Interactive box entry
// =============================================================================

// BoxFormModel asks for the number of boxes, then the length, width and
// height of each one. Invalid entries are rejected with a message and the
// same question is asked again.
type BoxFormModel struct {
	Limit int // largest accepted box count

	Count     int
	Boxes     []box.Box
	Done      bool
	Cancelled bool

	counted bool       // box count accepted
	dim     int        // dimension being entered, 0..2
	dims    [3]float64 // dimensions of the box being entered
	input   string
	err     string
}

// NewBoxFormModel creates a form that accepts at most limit boxes.
func NewBoxFormModel(limit int) BoxFormModel {
	return BoxFormModel{Limit: combo.EffectiveLimit(limit)}
}

func (m BoxFormModel) Init() tea.Cmd {
	return nil
}

func (m BoxFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.Cancelled = true
		return m, tea.Quit
	case tea.KeyBackspace:
		if n := len(m.input); n > 0 {
			m.input = m.input[:n-1]
		}
	case tea.KeyEnter:
		m = m.submit()
		if m.Done {
			return m, tea.Quit
		}
	case tea.KeyRunes:
		m.input += string(key.Runes)
	}
	return m, nil
}

// submit validates the current entry and advances the form.
func (m BoxFormModel) submit() BoxFormModel {
	entry := m.input
	m.input = ""
	m.err = ""

	if !m.counted {
		n, err := errors.ValidateBoxCount(entry)
		if err == nil {
			err = combo.Check(n, m.Limit)
		}
		if err != nil {
			m.err = errors.UserMessage(err)
			return m
		}
		m.Count, m.counted = n, true
		m.Boxes = make([]box.Box, 0, n)
		m.Done = n == 0
		return m
	}

	v, err := errors.ParseDimension(entry)
	if err != nil {
		m.err = errors.UserMessage(err)
		return m
	}
	m.dims[m.dim] = v
	if m.dim++; m.dim < len(m.dims) {
		return m
	}
	m.Boxes = append(m.Boxes, box.New(m.dims[0], m.dims[1], m.dims[2]))
	m.dim = 0
	m.Done = len(m.Boxes) == m.Count
	return m
}

// prompt returns the question for the current step.
func (m BoxFormModel) prompt() string {
	if !m.counted {
		return "How many boxes?"
	}
	return fmt.Sprintf("Box %d of %d, %s:", len(m.Boxes)+1, m.Count, dimNames[m.dim])
}

func (m BoxFormModel) View() string {
	if m.Done || m.Cancelled {
		return ""
	}
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Enter Boxes"))
	b.WriteString("\n")
	b.WriteString(formDimStyle.Render("digits with at most one decimal point  ⏎ confirm  esc quit"))
	b.WriteString("\n\n")

	for i, bx := range m.Boxes {
		b.WriteString(formDimStyle.Render(fmt.Sprintf("  %d. %s × %s × %s", i+1, fmtNum(bx.L), fmtNum(bx.W), fmtNum(bx.H))))
		b.WriteString("\n")
	}
	if m.counted && m.dim > 0 {
		parts := make([]string, m.dim)
		for i := range m.dim {
			parts[i] = fmtNum(m.dims[i])
		}
		b.WriteString(formDimStyle.Render(fmt.Sprintf("  %d. %s × …", len(m.Boxes)+1, strings.Join(parts, " × "))))
		b.WriteString("\n")
	}

	b.WriteString(formPromptStyle.Render(m.prompt()))
	b.WriteString(" ")
	b.WriteString(formInputStyle.Render(m.input))
	b.WriteString(formDimStyle.Render("█"))
	b.WriteString("\n")
	if m.err != "" {
		b.WriteString(formErrorStyle.Render(iconError + " " + m.err))
		b.WriteString("\n")
	}
	return b.String()
}

// runBoxForm runs the form on the terminal and returns the entered boxes.
func runBoxForm(ctx context.Context, limit int) ([]box.Box, error) {
	p := tea.NewProgram(NewBoxFormModel(limit), tea.WithContext(ctx))
	final, err := p.Run()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "box form failed")
	}
	m := final.(BoxFormModel)
	if m.Cancelled {
		return nil, context.Canceled
	}
	return m.Boxes, nil
}

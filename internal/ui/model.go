package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"webmclip/internal/options"
	"webmclip/internal/pipeline"
	"webmclip/internal/util/timecode"
)

type Model struct {
	ctx context.Context
	svc *pipeline.Service

	cursor  int
	editing bool
	input   textinput.Model

	result   pipeline.Result
	eventErr error

	accepted bool

	// UI
	width, height int
	styles        Styles
}

func NewModel(ctx context.Context, svc *pipeline.Service) Model {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 4096
	return Model{
		ctx:    ctx,
		svc:    svc,
		input:  in,
		result: svc.Current(),
		styles: defaultStyles(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := formRows[m.cursor]
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "ctrl+s":
		if m.result.Valid() && m.svc.RawArgs() != "" {
			m.accepted = true
			return m, tea.Quit
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j", "tab":
		if m.cursor < len(formRows)-1 {
			m.cursor++
		}
	case "left", "h":
		if r.kind == rowSelect {
			m.selectStep(r, -1)
		}
	case "right", "l":
		if r.kind == rowSelect {
			m.selectStep(r, 1)
		}
	case "enter", " ":
		switch r.kind {
		case rowCheck:
			on := !checkValue(m.result.Fields, r.field)
			m.apply(options.Check(r.field, on))
		case rowSelect:
			m.selectStep(r, 1)
		default:
			cmd := m.startEdit(r)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter, tea.KeyTab:
		m.editing = false
		m.input.Blur()
		m.commit(formRows[m.cursor], m.input.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) startEdit(r row) tea.Cmd {
	var v string
	switch r.kind {
	case rowText:
		v, _ = m.result.Fields.Text(r.field)
	case rowMark:
		v = markValue(m.result.Fields, r.field)
	case rowRaw:
		v = m.svc.RawArgs()
	}
	m.editing = true
	m.input.SetValue(v)
	m.input.CursorEnd()
	return m.input.Focus()
}

// commit sends the edited value to the service. Field edits take effect
// when editing ends, like a blur.
func (m *Model) commit(r row, value string) {
	switch r.kind {
	case rowText:
		m.apply(options.Edit(r.field, value))
	case rowMark:
		sec := 0.0
		if v := strings.TrimSpace(value); v != "" {
			s, err := timecode.Parse(v)
			if err != nil {
				m.eventErr = err
				return
			}
			sec = s
		}
		m.apply(options.Mark(r.field, sec))
	case rowRaw:
		m.svc.SetRawArgs(value)
		m.eventErr = nil
	}
}

func (m *Model) selectStep(r row, step int) {
	values, _ := choices(m.svc.Catalog(), r.field)
	next, changed := cycle(values, selectValue(m.result.Fields, r.field), step)
	if !changed {
		return
	}
	m.apply(options.Select(r.field, next))
}

func (m *Model) apply(ev options.Event) {
	res, err := m.svc.Apply(ev)
	m.eventErr = err
	if err == nil {
		m.result = res
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	b.WriteString(m.viewForm())
	b.WriteString("\n")
	b.WriteString(m.viewArgs())
	b.WriteString("\n")
	b.WriteString(m.viewHelp())
	return b.String()
}

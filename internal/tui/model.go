package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/kraftwerte/internal/history"
	"github.com/2beens/kraftwerte/internal/listview"
	"github.com/2beens/kraftwerte/internal/notify"
	"github.com/2beens/kraftwerte/internal/workflow"
)

// Controller is what the screen drives. Implemented by app.App.
type Controller interface {
	listview.Actions
	Start(ctx context.Context) error
	Refresh(ctx context.Context) error
	SetField(field workflow.Field, value string)
	Submit(ctx context.Context) error
	CancelForm()
	CloseHistory()
	HistoryPointerOutside()
}

type focus int

const (
	focusList focus = iota
	focusForm
)

var formFields = []workflow.Field{
	workflow.FieldMuscleGroup,
	workflow.FieldExercise,
	workflow.FieldWeight,
}

var fieldLabels = []string{"Muscle group", "Exercise", "Weight"}

type Model struct {
	ctx  context.Context
	ctrl Controller
	keys KeyMap
	help help.Model

	focus  focus
	list   listview.View
	cursor int

	form   workflow.FormView
	inputs []textinput.Model
	field  int

	history      history.View
	notification *notify.Notification
	confirm      *confirmMsg

	width  int
	height int
}

func NewModel(ctx context.Context, ctrl Controller) Model {
	inputs := make([]textinput.Model, len(formFields))
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = "❯ "
		ti.PromptStyle = InputPromptStyle
		ti.Placeholder = fieldLabels[i]
		ti.CharLimit = 64
		ti.Width = 32
		inputs[i] = ti
	}

	return Model{
		ctx:    ctx,
		ctrl:   ctrl,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		focus:  focusList,
		inputs: inputs,
		form: workflow.FormView{
			Mode:              workflow.ModeCreate,
			Title:             workflow.TitleCreate,
			WeightPlaceholder: workflow.DefaultWeightPlaceholder,
			ShowSubmit:        true,
		},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.run("start", m.ctrl.Start),
	)
}

// run executes op off the update loop.
func (m Model) run(name string, op func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: name, err: op(ctx)}
	}
}

func (m Model) runSync(name string, op func()) tea.Cmd {
	return m.run(name, func(context.Context) error {
		op()
		return nil
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case listMsg:
		m.list = msg.view
		if m.cursor >= len(m.list.Rows) {
			m.cursor = max(len(m.list.Rows)-1, 0)
		}
		return m, nil

	case formMsg:
		return m.applyForm(msg.view)

	case historyMsg:
		m.history = msg.view
		return m, nil

	case notificationMsg:
		n := msg.notification
		m.notification = &n
		return m, tea.Tick(n.ExpiresAt.Sub(n.ShownAt), func(time.Time) tea.Msg {
			return notificationExpiredMsg{notification: n}
		})

	case notificationExpiredMsg:
		if m.notification != nil && m.notification.ShownAt.Equal(msg.notification.ShownAt) &&
			m.notification.Message == msg.notification.Message {
			m.notification = nil
		}
		return m, nil

	case confirmMsg:
		if m.confirm != nil {
			// one question at a time
			msg.reply <- false
			return m, nil
		}
		m.confirm = &msg
		return m, nil

	case opDoneMsg:
		if msg.err != nil {
			log.Debugf("tui op %s: %s", msg.op, msg.err)
		}
		return m, nil

	case tea.MouseMsg:
		if m.history.Open && msg.Action == tea.MouseActionPress && !m.insideModal(msg.X, msg.Y) {
			return m, m.runSync("history-outside", m.ctrl.HistoryPointerOutside)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) applyForm(view workflow.FormView) (tea.Model, tea.Cmd) {
	m.form = view
	values := []string{view.MuscleGroup, view.Exercise, view.Weight}
	for i := range m.inputs {
		m.inputs[i].SetValue(values[i])
	}
	m.inputs[2].Placeholder = view.WeightPlaceholder

	if view.Mode == workflow.ModeAddWeight {
		m.focus = focusForm
		m.field = 2
	} else if view.MuscleGroup == "" && view.Exercise == "" && view.Weight == "" {
		m.field = 0
	}
	return m, m.focusInputs()
}

func (m *Model) focusInputs() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.inputs {
		if m.focus == focusForm && i == m.field {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m Model) editable(field int) bool {
	return field == 2 || !m.form.NamesReadOnly
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		if m.confirm != nil {
			m.confirm.reply <- false
			m.confirm = nil
		}
		return m, tea.Quit
	}

	if m.confirm != nil {
		switch {
		case key.Matches(msg, m.keys.Yes):
			m.confirm.reply <- true
			m.confirm = nil
		case key.Matches(msg, m.keys.No):
			m.confirm.reply <- false
			m.confirm = nil
		}
		return m, nil
	}

	if m.history.Open {
		if key.Matches(msg, m.keys.Escape) {
			return m, m.runSync("history-close", m.ctrl.CloseHistory)
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Focus) {
		if m.focus == focusList {
			m.focus = focusForm
			if !m.editable(m.field) {
				m.field = 2
			}
		} else {
			m.focus = focusList
		}
		return m, m.focusInputs()
	}

	if m.focus == focusForm {
		return m.handleFormKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.list.Rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.run("refresh", m.ctrl.Refresh)
	case key.Matches(msg, m.keys.Escape):
		if m.form.Mode == workflow.ModeAddWeight {
			return m, m.runSync("cancel", m.ctrl.CancelForm)
		}
	case key.Matches(msg, m.keys.AddWeight):
		return m, m.trigger(listview.ActionAddWeight)
	case key.Matches(msg, m.keys.Delete):
		return m, m.trigger(listview.ActionDelete)
	case key.Matches(msg, m.keys.History):
		return m, m.trigger(listview.ActionHistory)
	}
	return m, nil
}

func (m Model) trigger(action listview.Action) tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.list.Rows) {
		return nil
	}
	row := m.list.Rows[m.cursor]
	ctrl := m.ctrl
	return m.run(action.String(), func(ctx context.Context) error {
		return row.Trigger(ctx, ctrl, action)
	})
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		if m.form.Mode == workflow.ModeAddWeight {
			return m, m.runSync("cancel", m.ctrl.CancelForm)
		}
		m.focus = focusList
		return m, m.focusInputs()
	case key.Matches(msg, m.keys.Enter):
		return m, m.run("submit", m.ctrl.Submit)
	case key.Matches(msg, m.keys.NextField):
		for next := m.field + 1; next < len(m.inputs); next++ {
			if m.editable(next) {
				m.field = next
				break
			}
		}
		return m, m.focusInputs()
	case key.Matches(msg, m.keys.PrevField):
		for prev := m.field - 1; prev >= 0; prev-- {
			if m.editable(prev) {
				m.field = prev
				break
			}
		}
		return m, m.focusInputs()
	}

	if !m.editable(m.field) {
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.field], cmd = m.inputs[m.field].Update(msg)
	m.ctrl.SetField(formFields[m.field], m.inputs[m.field].Value())
	return m, cmd
}

func (m Model) View() string {
	if m.history.Open {
		modal := m.renderHistory()
		if m.width == 0 || m.height == 0 {
			return modal
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Kraftwerte"))
	b.WriteString("\n\n")
	b.WriteString(m.renderForm())
	b.WriteString("\n")
	b.WriteString(m.renderList())
	b.WriteString("\n")

	if m.confirm != nil {
		b.WriteString(ConfirmStyle.Render(m.confirm.prompt + " (y/n)"))
	} else if m.notification != nil {
		style := SuccessStyle
		if m.notification.Kind == notify.KindError {
			style = ErrorStyle
		}
		b.WriteString(style.Render(m.notification.Message))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) renderForm() string {
	var b strings.Builder
	b.WriteString(PanelTitleStyle.Render(m.form.Title))
	b.WriteString("\n")

	for i, input := range m.inputs {
		label := fmt.Sprintf("%-13s", fieldLabels[i]+":")
		if m.editable(i) {
			b.WriteString(label + input.View())
		} else {
			b.WriteString(label + ReadOnlyStyle.Render(input.Value()+" (read-only)"))
		}
		b.WriteString("\n")
	}

	var buttons []string
	if m.form.ShowSubmit {
		buttons = append(buttons, "[enter] add exercise")
	}
	if m.form.ShowAddWeight {
		buttons = append(buttons, "[enter] add weight")
	}
	if m.form.ShowCancel {
		buttons = append(buttons, "[esc] cancel")
	}
	b.WriteString(MutedStyle.Render(strings.Join(buttons, "  ")))

	style := PanelStyle
	if m.focus == focusForm {
		style = FocusedPanelStyle
	}
	return style.Render(b.String())
}

func (m Model) renderList() string {
	var b strings.Builder
	b.WriteString(ColumnHeaderStyle.Render(fmt.Sprintf("%-5s %-16s %-24s %10s  %-16s",
		"ID", "Muscle group", "Exercise", "Weight", "Last updated")))

	if m.list.Empty() {
		b.WriteString("\n")
		b.WriteString(MutedStyle.Render(m.list.Placeholder))
	}

	for i, row := range m.list.Rows {
		line := fmt.Sprintf("%-5d %-16s %-24s %10s  %-16s",
			row.ID, row.MuscleGroup, row.Exercise, row.CurrentWeight, row.LastUpdated)
		b.WriteString("\n")
		if i == m.cursor && m.focus == focusList {
			b.WriteString(SelectedRowStyle.Render(line))
		} else {
			b.WriteString(RowStyle.Render(line))
		}
	}

	style := PanelStyle
	if m.focus == focusList {
		style = FocusedPanelStyle
	}
	return style.Render(b.String())
}

func (m Model) renderHistory() string {
	var b strings.Builder
	b.WriteString(PanelTitleStyle.Render(m.history.Title))
	b.WriteString("\n\n")

	if m.history.Placeholder != "" {
		b.WriteString(MutedStyle.Render(m.history.Placeholder))
		b.WriteString("\n")
	}
	for _, e := range m.history.Entries {
		b.WriteString(fmt.Sprintf("%-12s %12s\n", e.Date, e.Weight))
	}
	if m.history.ChartPath != "" {
		b.WriteString("\n")
		b.WriteString(MutedStyle.Render("Chart: " + m.history.ChartPath))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("[esc] close"))

	return ModalStyle.Render(b.String())
}

// insideModal reports whether the cell x,y lies on the centered history modal.
func (m Model) insideModal(x, y int) bool {
	if m.width == 0 || m.height == 0 {
		return true
	}
	modal := m.renderHistory()
	w, h := lipgloss.Width(modal), lipgloss.Height(modal)
	left := max((m.width-w)/2, 0)
	top := max((m.height-h)/2, 0)
	return x >= left && x < left+w && y >= top && y < top+h
}

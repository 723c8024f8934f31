// Package ui provides the terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskpad/internal/app"
)

// Run starts the interface and blocks until the user quits or ctx is
// cancelled. The controller must not have been initialized yet; Run drives
// its whole lifecycle except the final Shutdown, which stays with the
// caller.
func Run(ctx context.Context, ctrl *app.Controller) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("taskpad requires a TTY")
	}

	model := newModel(ctrl)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// view selects which pane has focus.
type view int

const (
	viewTasks view = iota
	viewNotes
)

// inputAction says what the text input commits to when submitted.
type inputAction int

const (
	inputNone inputAction = iota
	inputAddTask
	inputEditTask
	inputAddNote
	inputRenameNote
	inputEditNote
)

// How far one keypress moves or resizes a note on the board.
const noteStep = 10

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	paneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activePane    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("240"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	stickyStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type model struct {
	ctrl *app.Controller

	state  app.RenderModel
	view   view
	cursor int

	input    textinput.Model
	action   inputAction
	targetID uint64

	showHelp bool
	width    int
	height   int
}

func newModel(ctrl *app.Controller) *model {
	input := textinput.New()
	input.CharLimit = 500
	return &model{
		ctrl:  ctrl,
		input: input,
	}
}

func (m *model) Init() tea.Cmd {
	m.state = m.ctrl.Init()
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.action != inputNone {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

// updateInput handles keys while the text input is open.
func (m *model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.commitInput()
		return m, nil
	case "esc":
		m.closeInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateList handles keys in browse mode.
func (m *model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.state = m.ctrl.HandleEvent(app.Quit{})
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	case "tab":
		if m.view == viewTasks {
			m.view = viewNotes
		} else {
			m.view = viewTasks
		}
		m.clampCursor()
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		m.cursor++
		m.clampCursor()
		return m, nil
	}

	if m.view == viewTasks {
		return m.updateTasks(msg)
	}
	return m.updateNotes(msg)
}

func (m *model) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		m.openInput(inputAddTask, 0, "")
	case "e":
		if item, ok := m.selectedItem(); ok {
			m.openInput(inputEditTask, item.ID, item.Text)
		}
	case " ", "x":
		if item, ok := m.selectedItem(); ok {
			m.dispatch(app.ToggleItem{ID: item.ID})
		}
	case "d":
		if item, ok := m.selectedItem(); ok {
			m.dispatch(app.DeleteItem{ID: item.ID})
			m.clampCursor()
		}
	}
	return m, nil
}

func (m *model) updateNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected, ok := m.selectedNote()
	switch msg.String() {
	case "a":
		m.openInput(inputAddNote, 0, "")
		return m, nil
	case "r":
		if ok {
			m.openInput(inputRenameNote, selected.ID, selected.Title)
		}
		return m, nil
	case "enter":
		if ok {
			m.openInput(inputEditNote, selected.ID, selected.Content)
		}
		return m, nil
	case "d":
		if ok {
			m.dispatch(app.DeleteNote{ID: selected.ID})
			m.clampCursor()
		}
		return m, nil
	}
	if !ok {
		return m, nil
	}
	switch msg.String() {
	case "left", "h":
		m.dispatch(app.MoveNote{ID: selected.ID, X: selected.X - noteStep, Y: selected.Y})
	case "right", "l":
		m.dispatch(app.MoveNote{ID: selected.ID, X: selected.X + noteStep, Y: selected.Y})
	case "shift+up", "K":
		m.dispatch(app.MoveNote{ID: selected.ID, X: selected.X, Y: selected.Y - noteStep})
	case "shift+down", "J":
		m.dispatch(app.MoveNote{ID: selected.ID, X: selected.X, Y: selected.Y + noteStep})
	case "+", "=":
		m.dispatch(app.ResizeNote{ID: selected.ID, W: selected.W + noteStep, H: selected.H + noteStep})
	case "-":
		m.dispatch(app.ResizeNote{ID: selected.ID, W: selected.W - noteStep, H: selected.H - noteStep})
	}
	return m, nil
}

func (m *model) openInput(action inputAction, id uint64, initial string) {
	m.action = action
	m.targetID = id
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *model) closeInput() {
	m.action = inputNone
	m.targetID = 0
	m.input.Blur()
	m.input.SetValue("")
}

// commitInput dispatches the event the open input was collecting text for.
// Validation lives behind the event boundary; a rejected value comes back
// as a notice in the next render model.
func (m *model) commitInput() {
	value := m.input.Value()
	switch m.action {
	case inputAddTask:
		m.dispatch(app.AddItem{Text: value})
	case inputEditTask:
		m.dispatch(app.EditItem{ID: m.targetID, Text: value})
	case inputAddNote:
		x, y := m.spawnPosition()
		m.dispatch(app.AddNote{Title: value, X: x, Y: y})
	case inputRenameNote:
		m.dispatch(app.RenameNote{ID: m.targetID, Title: value})
	case inputEditNote:
		m.dispatch(app.EditNote{ID: m.targetID, Content: value})
	}
	m.closeInput()
}

// spawnPosition staggers new notes so they don't stack on one spot.
func (m *model) spawnPosition() (float64, float64) {
	n := len(m.state.Notes)
	return float64(40 + 30*(n%8)), float64(40 + 30*(n%8))
}

func (m *model) dispatch(ev app.Event) {
	m.state = m.ctrl.HandleEvent(ev)
}

func (m *model) selectedItem() (app.ItemView, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Items) {
		return app.ItemView{}, false
	}
	return m.state.Items[m.cursor], true
}

func (m *model) selectedNote() (app.NoteView, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Notes) {
		return app.NoteView{}, false
	}
	return m.state.Notes[m.cursor], true
}

func (m *model) clampCursor() {
	limit := len(m.state.Items)
	if m.view == viewNotes {
		limit = len(m.state.Notes)
	}
	if m.cursor >= limit {
		m.cursor = limit - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Taskpad") + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}

	writeTabs(&b, m.view)

	if m.view == viewTasks {
		m.writeTasks(&b)
	} else {
		m.writeNotes(&b)
	}

	if m.state.Notice != "" {
		style := noticeStyle
		if m.state.Sticky {
			style = stickyStyle
		}
		b.WriteString("\n" + style.Render(m.state.Notice) + "\n")
	}

	if m.action != inputNone {
		b.WriteString("\n" + inputLabel(m.action) + "\n")
		b.WriteString(m.input.View() + "\n")
		b.WriteString(helpStyle.Render("enter to confirm, esc to cancel") + "\n")
	} else {
		b.WriteString("\n" + helpStyle.Render("? for help | q to quit") + "\n")
	}

	return b.String()
}

func writeTabs(b *strings.Builder, active view) {
	tasks := paneStyle.Render("Tasks")
	notes := paneStyle.Render("Notes")
	if active == viewTasks {
		tasks = activePane.Render("Tasks")
	} else {
		notes = activePane.Render("Notes")
	}
	b.WriteString(tasks + "  " + notes + "\n\n")
}

func (m *model) writeTasks(b *strings.Builder) {
	if len(m.state.Items) == 0 {
		b.WriteString("  No tasks yet. Press a to add one.\n")
		return
	}
	for i, item := range m.state.Items {
		marker := "[ ]"
		if item.Completed {
			marker = "[x]"
		}
		line := fmt.Sprintf("%s %s", marker, item.Text)
		if item.Completed {
			line = doneStyle.Render(line)
		}
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
}

func (m *model) writeNotes(b *strings.Builder) {
	if len(m.state.Notes) == 0 {
		b.WriteString("  No notes yet. Press a to add one.\n")
		return
	}
	for i, n := range m.state.Notes {
		line := fmt.Sprintf("%s  (%.0f,%.0f  %.0fx%.0f)", n.Title, n.X, n.Y, n.W, n.H)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
		if i == m.cursor && n.Content != "" {
			b.WriteString(helpStyle.Render("    "+firstLine(n.Content)) + "\n")
		}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 60 {
		s = s[:57] + "..."
	}
	return s
}

func inputLabel(action inputAction) string {
	switch action {
	case inputAddTask:
		return "New task:"
	case inputEditTask:
		return "Edit task:"
	case inputAddNote:
		return "New note title:"
	case inputRenameNote:
		return "Rename note:"
	case inputEditNote:
		return "Note content:"
	default:
		return ""
	}
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit (saves first)\n")
	b.WriteString("  tab          Switch between tasks and notes\n")
	b.WriteString("  up/down      Move selection\n")
	b.WriteString("  a            Add a task or note\n")
	b.WriteString("  e            Edit the selected task\n")
	b.WriteString("  space, x     Toggle the selected task\n")
	b.WriteString("  d            Delete the selected task or note\n")
	b.WriteString("  r            Rename the selected note\n")
	b.WriteString("  enter        Edit the selected note's content\n")
	b.WriteString("  h/l, arrows  Move the selected note\n")
	b.WriteString("  +/-          Resize the selected note\n")
	b.WriteString("  ?            Toggle this help screen\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}

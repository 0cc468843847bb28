package view

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/edifile"
)

type errorsState int

const (
	errorsStateList errorsState = iota
	errorsStateConfirm
)

// errorItem wraps a stored error to implement list.Item.
type errorItem struct {
	err *edifile.Error
}

func (i errorItem) Title() string {
	sev := severityStyle(i.err.Severity).Render(fmt.Sprintf("[%s]", i.err.Severity))

	loc := ""
	if i.err.LineNumber > 0 {
		loc = fmt.Sprintf("line %d ", i.err.LineNumber)
	}

	return fmt.Sprintf("%s %s%s", sev, loc, i.err.Message)
}

func (i errorItem) Description() string {
	if i.err.Resolved && i.err.ResolvedAt != nil {
		return "resolved " + FormatDate(*i.err.ResolvedAt)
	}

	return i.err.Suggestion
}

func (i errorItem) FilterValue() string {
	return i.err.Code + " " + i.err.Message
}

type ErrorsModel struct {
	CommonModel
	fileService *edifile.Service
	file        *edifile.File

	state      errorsState
	list       list.Model
	form       *huh.Form
	errs       []*edifile.Error
	selected   *edifile.Error
	unresolved bool

	loading bool
	status  string

	formConfirm bool
}

func NewErrorsModel(fileSvc *edifile.Service, f *edifile.File) ErrorsModel {
	l := list.New([]list.Item{}, errorItemDelegate{}, 0, 0)
	l.Title = "Errors: " + f.FileName
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return ErrorsModel{
		fileService: fileSvc,
		file:        f,
		list:        l,
		unresolved:  true,
		loading:     true,
	}
}

func (m ErrorsModel) Title() string { return "File Errors" }

func (m ErrorsModel) ShortHelp() string {
	if m.state == errorsStateConfirm {
		return "Esc: cancel | Enter: confirm"
	}

	return "Esc: back | Enter: resolve | u: toggle resolved | /: filter"
}

func (m ErrorsModel) Init() tea.Cmd {
	return m.loadErrorsCmd()
}

func (m ErrorsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadErrorsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.errs = msg.errs
		m.refreshListItems()

		m.status = ""
		if len(msg.errs) == 0 {
			m.status = "No errors found."
		}

		return m, nil

	case resolveResultMsg:
		m.state = errorsStateList
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error resolving: %v", msg.err)
			return m, nil
		}

		return m, m.loadErrorsCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case errorsStateList:
		return m.updateList(msg)
	case errorsStateConfirm:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m ErrorsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "u":
			m.unresolved = !m.unresolved
			m.loading = true

			return m, m.loadErrorsCmd()
		case "enter":
			return m.startConfirm()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m ErrorsModel) startConfirm() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(errorItem)
	if !ok || selected.err.Resolved {
		return m, nil
	}

	m.selected = selected.err
	m.formConfirm = true

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("resolve").
				Title("Mark this error as resolved?").
				Affirmative("Yes").
				Negative("No").
				Value(&m.formConfirm),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = errorsStateConfirm

	return m, m.form.Init()
}

func (m ErrorsModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = errorsStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.form.GetBool("resolve") {
		m.state = errorsStateList
		m.form = nil

		return m, nil
	}

	return m, m.resolveCmd(m.selected)
}

func (m ErrorsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading errors...")
	}

	if m.state == errorsStateConfirm && m.form != nil {
		return lipgloss.NewStyle().Padding(1).Render(m.errorInfoView() + "\n" + m.form.View())
	}

	statusLine := ""
	if m.status != "" {
		statusLine = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
	}

	return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())
}

func (m ErrorsModel) errorInfoView() string {
	if m.selected == nil {
		return ""
	}

	e := m.selected

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(fmt.Sprintf(
			"%s  |  %s  |  %s  |  segment %s line %d\n%s\n%s",
			e.Code, e.ErrorType, e.Severity, e.SegmentTag, e.LineNumber, e.Message, e.Description,
		))
}

func (m *ErrorsModel) refreshListItems() {
	items := make([]list.Item, len(m.errs))
	for i, e := range m.errs {
		items[i] = errorItem{err: e}
	}

	m.list.SetItems(items)
}

// Messages

type loadErrorsMsg struct {
	errs []*edifile.Error
	err  error
}

func (m ErrorsModel) loadErrorsCmd() tea.Cmd {
	filter := edifile.ErrorFilter{FileID: &m.file.ID, Unresolved: m.unresolved}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		errs, err := m.fileService.ListErrors(ctx, filter)

		return loadErrorsMsg{errs: errs, err: err}
	}
}

type resolveResultMsg struct {
	err error
}

func (m ErrorsModel) resolveCmd(e *edifile.Error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return resolveResultMsg{err: m.fileService.ResolveError(ctx, e.ID)}
	}
}

// errorItemDelegate renders items in the list.
type errorItemDelegate struct{}

func (d errorItemDelegate) Height() int                             { return 2 }
func (d errorItemDelegate) Spacing() int                            { return 0 }
func (d errorItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d errorItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(errorItem)
	if !ok {
		return
	}

	title := i.Title()
	desc := i.Description()

	if index == m.Index() {
		title = lipgloss.NewStyle().Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)

	if desc == "" {
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(desc))
}

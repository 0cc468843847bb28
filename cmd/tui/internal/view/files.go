package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/edifile"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

type filesState int

const (
	filesStateBrowse filesState = iota
	filesStateEdit
)

var (
	statusFilters = []edifile.Status{"", edifile.StatusPending, edifile.StatusProcessing, edifile.StatusProcessed, edifile.StatusFailed}
	typeFilters   = []x12.FormatCode{"", x12.Format834, x12.Format820}
	dateFilters   = []Window{WindowAll, WindowToday, WindowLast7Days, WindowLast30Days, WindowThisMonth}
)

// OpenErrorsMsg asks the parent to show the stored errors of a file.
type OpenErrorsMsg struct {
	File *edifile.File
}

type FilesModel struct {
	CommonModel
	fileService *edifile.Service

	state filesState
	table table.Model
	files []*edifile.File
	form  *huh.Form

	statusFilterIdx int
	typeFilterIdx   int
	dateFilterIdx   int

	filter  edifile.ListFilter
	loading bool
	err     error
	status  string

	formStatus edifile.Status
}

func NewFilesModel(fileSvc *edifile.Service) FilesModel {
	columns := []table.Column{
		{Title: "Uploaded", Width: 12},
		{Title: "Name", Width: 32},
		{Title: "Type", Width: 8},
		{Title: "Status", Width: 11},
		{Title: "Payer", Width: 10},
		{Title: "Size", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return FilesModel{
		fileService: fileSvc,
		table:       t,
	}
}

func (m FilesModel) Title() string { return "Stored Files" }

func (m FilesModel) ShortHelp() string {
	if m.state == filesStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | e: status | x: errors | s: status filter | t: type filter | d: date filter | r: refresh"
}

func (m FilesModel) Init() tea.Cmd {
	return m.loadFilesCmd()
}

func (m FilesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadFilesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.files = msg.files
		m.refreshTable()

		return m, nil

	case filesSaveMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.state = filesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadFilesCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-10, 5))
		return m, nil
	}

	switch m.state {
	case filesStateBrowse:
		return m.updateBrowse(msg)
	case filesStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m FilesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadFilesCmd()
		case "e":
			return m.enterEditMode()
		case "x":
			if f := m.selected(); f != nil {
				return m, func() tea.Msg { return OpenErrorsMsg{File: f} }
			}

			return m, nil
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusFilters)
			m.applyFilter()

			return m, m.loadFilesCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % len(typeFilters)
			m.applyFilter()

			return m, m.loadFilesCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % len(dateFilters)
			m.applyFilter()

			return m, m.loadFilesCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m FilesModel) selected() *edifile.File {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.files) {
		return nil
	}

	return m.files[idx]
}

func (m FilesModel) enterEditMode() (tea.Model, tea.Cmd) {
	f := m.selected()
	if f == nil {
		return m, nil
	}

	m.formStatus = f.Status

	opts := make([]huh.Option[edifile.Status], 0, len(statusFilters)-1)
	for _, s := range statusFilters[1:] {
		opts = append(opts, huh.NewOption(string(s), s))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[edifile.Status]().
				Key("status").
				Title("Status").
				Options(opts...).
				Value(&m.formStatus),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = filesStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m FilesModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = filesStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m FilesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading files...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorText(m.err))
	}

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [t] Type: %s | [d] Date: %s",
		activeStyle(filterLabel(string(statusFilters[m.statusFilterIdx]))),
		activeStyle(filterLabel(string(typeFilters[m.typeFilterIdx]))),
		activeStyle(dateFilters[m.dateFilterIdx].String()),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == filesStateEdit && m.form != nil {
		name := ""
		if f := m.selected(); f != nil {
			name = f.FileName
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Update Status\n\nFile: %s\n\n%s", name, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func filterLabel(s string) string {
	if s == "" {
		return "All"
	}

	return s
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *FilesModel) applyFilter() {
	m.filter.Status = nil
	if s := statusFilters[m.statusFilterIdx]; s != "" {
		m.filter.Status = new(s)
	}

	m.filter.FileType = nil
	if t := typeFilters[m.typeFilterIdx]; t != "" {
		m.filter.FileType = new(string(t))
	}

	m.filter.StartDate = nil
	m.filter.EndDate = nil

	if w := dateFilters[m.dateFilterIdx]; w != WindowAll {
		start, end := w.Range(time.Now())
		m.filter.StartDate = &start
		m.filter.EndDate = &end
	}
}

func (m *FilesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.files))

	for _, f := range m.files {
		fileType := "-"
		if f.FileType != nil {
			fileType = string(*f.FileType)
		}

		rows = append(rows, table.Row{
			FormatDate(f.CreatedAt),
			f.FileName,
			fileType,
			string(f.Status),
			f.PayerID,
			FormatSize(f.SizeBytes),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadFilesMsg struct {
	files []*edifile.File
	err   error
}

func (m FilesModel) loadFilesCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		files, err := m.fileService.List(ctx, filter)

		return loadFilesMsg{files: files, err: err}
	}
}

type filesSaveMsg struct {
	err error
}

func (m FilesModel) saveCmd() tea.Cmd {
	f := m.selected()
	if f == nil {
		return nil
	}

	id := f.ID

	status, ok := m.form.Get("status").(edifile.Status)
	if !ok {
		status = m.formStatus
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return filesSaveMsg{err: m.fileService.UpdateStatus(ctx, id, status)}
	}
}

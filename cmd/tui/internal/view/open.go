package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/importer"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/matching"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/validation"
)

const processTimeout = 2 * time.Minute

type openState int

const (
	openStateMode openState = iota
	openStateFilePick
	openStateProcessing
	openStateResult
	openStatePayer
)

type openMode int

const (
	openModeInspect openMode = iota
	openModeStore
)

func (m openMode) String() string {
	if m == openModeStore {
		return "Inspect and store"
	}

	return "Inspect only"
}

type OpenModel struct {
	CommonModel
	importService   *importer.Service
	matchingService *matching.Service

	state      openState
	filePicker filepicker.Model
	mode       openMode
	modeCursor int

	path     string
	analysis *importer.Analysis
	charset  string
	fileID   string
	segments table.Model

	form      *huh.Form
	formPayer string

	status string
	err    error
}

func NewOpenModel(impSvc *importer.Service, matchSvc *matching.Service) OpenModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return OpenModel{
		importService:   impSvc,
		matchingService: matchSvc,
		filePicker:      fp,
		segments:        newSegmentTable(),
	}
}

func newSegmentTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Line", Width: 6},
			{Title: "Tag", Width: 5},
			{Title: "Definition", Width: 36},
			{Title: "OK", Width: 4},
			{Title: "Raw", Width: 60},
		}),
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

	return t
}

func (m OpenModel) Title() string { return "Open EDI File" }

func (m OpenModel) ShortHelp() string {
	switch m.state {
	case openStateResult:
		if m.canLearnPayer() {
			return "↑/↓: segments | p: assign payer | Esc: back"
		}

		return "↑/↓: segments | Esc: back"
	case openStatePayer:
		return "Enter: save | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m OpenModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m OpenModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case openStateMode:
			return m.updateMode(msg)
		case openStateResult:
			return m.updateResult(msg)
		}

	case analysisMsg:
		m.state = openStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.analysis = msg.analysis
		m.charset = msg.charset
		m.fileID = msg.fileID
		m.refreshSegments()

		return m, nil

	case learnResultMsg:
		m.state = openStateResult
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving payer: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Learned %s as %s.", msg.identifier, msg.payerID)

		return m, nil

	case tea.WindowSizeMsg:
		m.segments.SetHeight(max(msg.Height-16, 5))
		return m, nil
	}

	if m.state == openStatePayer {
		return m.updatePayer(msg)
	}

	if m.state != openStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = openStateProcessing
		m.path = path
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.analyzeCmd(path)
	}

	return m, cmd
}

func (m OpenModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case openStateFilePick:
		m.state = openStateMode
		return m, nil
	case openStateResult:
		m.state = openStateMode
		m.analysis = nil
		m.err = nil
		m.status = ""

		return m, nil
	case openStatePayer:
		m.state = openStateResult
		m.form = nil

		return m, nil
	}

	return m, Back
}

func (m OpenModel) updateMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.modeCursor > 0 {
			m.modeCursor--
		}
	case tea.KeyDown:
		if m.modeCursor < int(openModeStore) {
			m.modeCursor++
		}
	case tea.KeyEnter:
		m.mode = openMode(m.modeCursor)
		m.state = openStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m OpenModel) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "p" && m.canLearnPayer() {
		return m.startPayerForm()
	}

	var cmd tea.Cmd
	m.segments, cmd = m.segments.Update(msg)

	return m, cmd
}

func (m OpenModel) canLearnPayer() bool {
	return m.analysis != nil && m.analysis.Transaction.Payer == nil && m.analysis.Transaction.Metadata.Sender != ""
}

func (m OpenModel) startPayerForm() (tea.Model, tea.Cmd) {
	opts := make([]huh.Option[string], 0)
	for _, p := range m.matchingService.Directory() {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", p.Name, p.ID), p.ID))
	}

	m.formPayer = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("payer").
				Title(fmt.Sprintf("Which payer is %q?", m.analysis.Transaction.Metadata.Sender)).
				Options(opts...).
				Value(&m.formPayer),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = openStatePayer

	return m, m.form.Init()
}

func (m OpenModel) updatePayer(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.learnCmd(m.analysis.Transaction.Metadata.Sender, m.form.GetString("payer"))
}

func (m OpenModel) View() string {
	switch m.state {
	case openStateMode:
		return m.viewMode()
	case openStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select EDI file (%s):\n\n%s", m.mode, m.filePicker.View()),
		)
	case openStateProcessing:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case openStateResult:
		return m.viewResult()
	case openStatePayer:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	return ""
}

func (m OpenModel) viewMode() string {
	s := "Open EDI File:\n\n"

	for i := openModeInspect; i <= openModeStore; i++ {
		cursor := " "
		if int(i) == m.modeCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, i)
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m OpenModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(1)

	if m.err != nil {
		return style.Render(
			errorStyle.Render(m.status) +
				"\n\n(Esc to go back)",
		)
	}

	a := m.analysis
	tx := a.Transaction

	payer := "unknown"
	if tx.Payer != nil {
		payer = fmt.Sprintf("%s (%s)", tx.Payer.Name, tx.Payer.ID)
	}

	verdict := lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("VALID")
	if !a.Validation.IsValid {
		verdict = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("INVALID")
	}

	lines := []string{
		fmt.Sprintf("%s  %s  [%s]", filepath.Base(m.path), verdict, m.charset),
		fmt.Sprintf("Type: %s  |  Payer: %s  |  Sender: %s  |  Receiver: %s",
			tx.Type, payer, tx.Metadata.Sender, tx.Metadata.Receiver),
		fmt.Sprintf("Segments: %d  |  Members: %d  |  Payments: %d  |  Possible duplicates: %d",
			tx.Statistics.TotalSegments, len(a.Extraction.Members), len(a.Extraction.Payments), len(a.Duplicates)),
	}

	if tx.BusinessContext != "" {
		lines = append(lines, lipgloss.NewStyle().Faint(true).Render(tx.BusinessContext))
	}

	if m.fileID != "" {
		lines = append(lines, lipgloss.NewStyle().Faint(true).Render("Stored as "+m.fileID))
	}

	header := strings.Join(lines, "\n")

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.segments.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		issuesView(a.Validation),
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return style.Render(content)
}

const maxIssueLines = 8

func issuesView(res *validation.Result) string {
	if res.TotalIssues == 0 {
		return lipgloss.NewStyle().Faint(true).Render("No issues found.")
	}

	var b strings.Builder

	critical := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warning := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	n := 0

	for _, issue := range res.CriticalIssues {
		if n == maxIssueLines {
			break
		}

		fmt.Fprintf(&b, "%s line %d: %s\n", critical.Render("✗"), issue.Segment.LineNumber, issue.Message)
		n++
	}

	for _, issue := range res.Warnings {
		if n == maxIssueLines {
			break
		}

		fmt.Fprintf(&b, "%s line %d: %s\n", warning.Render("!"), issue.Segment.LineNumber, issue.Message)
		n++
	}

	if rest := res.TotalIssues - n; rest > 0 {
		fmt.Fprintf(&b, "... and %d more\n", rest)
	}

	return b.String()
}

func (m *OpenModel) refreshSegments() {
	rows := make([]table.Row, 0, len(m.analysis.Transaction.Segments))

	for _, seg := range m.analysis.Transaction.Segments {
		ok := "✓"
		if seg.IsValid != nil && !*seg.IsValid {
			ok = "✗"
		}

		rows = append(rows, table.Row{
			strconv.Itoa(seg.LineNumber),
			seg.Tag,
			seg.Definition,
			ok,
			seg.RawLine,
		})
	}

	m.segments.SetRows(rows)
}

// Messages

type analysisMsg struct {
	analysis *importer.Analysis
	charset  string
	fileID   string
	err      error
}

type learnResultMsg struct {
	identifier string
	payerID    string
	err        error
}

func (m OpenModel) analyzeCmd(path string) tea.Cmd {
	mode := m.mode

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return analysisMsg{err: err}
		}
		defer f.Close()

		if mode == openModeInspect {
			a, charset, err := m.importService.AnalyzeReader(f)
			return analysisMsg{analysis: a, charset: charset, err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()

		out, err := m.importService.Process(ctx, filepath.Base(path), f)
		if err != nil {
			return analysisMsg{err: err}
		}

		return analysisMsg{analysis: out.Analysis, charset: out.Charset, fileID: out.FileID.String()}
	}
}

func (m OpenModel) learnCmd(identifier, payerID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.matchingService.Learn(ctx, identifier, payerID)

		return learnResultMsg{identifier: identifier, payerID: payerID, err: err}
	}
}

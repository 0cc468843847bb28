package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Window is a range of upload dates used to filter stored EDI files.
type Window int

const (
	WindowToday Window = iota
	WindowLast7Days
	WindowLast30Days
	WindowThisMonth
	WindowAll
	WindowCustom
)

func (w Window) String() string {
	switch w {
	case WindowToday:
		return "Today"
	case WindowLast7Days:
		return "Last 7 Days"
	case WindowLast30Days:
		return "Last 30 Days"
	case WindowThisMonth:
		return "This Month"
	case WindowAll:
		return "All Time"
	case WindowCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// Range returns the inclusive day range for w relative to now. All and Custom
// have no fixed range and return zero times.
func (w Window) Range(now time.Time) (time.Time, time.Time) {
	var start time.Time

	switch w {
	case WindowToday:
		start = now
	case WindowLast7Days:
		start = now.AddDate(0, 0, -6)
	case WindowLast30Days:
		start = now.AddDate(0, 0, -29)
	case WindowThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Time{}, time.Time{}
	}

	return dayBounds(start, now)
}

func dayBounds(start, end time.Time) (time.Time, time.Time) {
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC)
}

var errBadDate = errors.New("use YYYY-MM-DD or CCYYMMDD")

// parseDay accepts the ISO form and the X12 CCYYMMDD form used in DTP and BGN dates.
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range []string{"2006-01-02", "20060102"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errBadDate
}

func validateDay(s string) error {
	_, err := parseDay(s)
	return err
}

// WindowSelectedMsg is emitted once a window has been chosen.
// Start and End are zero when All is true.
type WindowSelectedMsg struct {
	Start time.Time
	End   time.Time
	All   bool
}

// WindowPicker selects a predefined upload window or a custom date range.
type WindowPicker struct {
	selected Window
	initial  Window
	custom   *huh.Form
	err      error
}

func NewWindowPicker(initial Window) WindowPicker {
	return WindowPicker{selected: initial, initial: initial}
}

func (m WindowPicker) Init() tea.Cmd {
	return nil
}

func (m WindowPicker) Update(msg tea.Msg) (WindowPicker, tea.Cmd) {
	if m.custom != nil {
		return m.updateCustom(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.selected > WindowToday {
			m.selected--
		}
	case "down", "j":
		if m.selected < WindowCustom {
			m.selected++
		}
	case "enter":
		switch m.selected {
		case WindowCustom:
			m.custom = buildRangeForm()
			return m, m.custom.Init()
		case WindowAll:
			return m, func() tea.Msg { return WindowSelectedMsg{All: true} }
		}

		start, end := m.selected.Range(time.Now())
		return m, func() tea.Msg { return WindowSelectedMsg{Start: start, End: end} }
	}

	return m, nil
}

func (m WindowPicker) updateCustom(msg tea.Msg) (WindowPicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.custom = nil
		m.err = nil
		return m, nil
	}

	form, cmd := m.custom.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.custom = f
	}

	if m.custom.State != huh.StateCompleted {
		return m, cmd
	}

	start, _ := parseDay(m.custom.GetString("start"))
	end, _ := parseDay(m.custom.GetString("end"))
	m.custom = nil

	if end.Before(start) {
		m.err = fmt.Errorf("end date %s is before start date %s", FormatDate(end), FormatDate(start))
		return m, nil
	}

	m.err = nil
	start, end = dayBounds(start, end)

	return m, func() tea.Msg { return WindowSelectedMsg{Start: start, End: end} }
}

func buildRangeForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("start").
				Title("Uploaded from").
				Placeholder("YYYY-MM-DD").
				Validate(validateDay),
			huh.NewInput().
				Key("end").
				Title("Uploaded until").
				Placeholder("YYYY-MM-DD").
				Validate(validateDay),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m WindowPicker) View() string {
	if m.custom != nil {
		return "Custom Upload Range:\n\n" + m.custom.View() + "\n(Esc to go back)"
	}

	var b strings.Builder

	b.WriteString("Upload Window:\n\n")

	for w := WindowToday; w <= WindowCustom; w++ {
		cursor := " "
		label := w.String()

		if m.selected == w {
			cursor = ">"
			label = lipgloss.NewStyle().Bold(true).Render(label)
		}

		fmt.Fprintf(&b, "%s %s\n", cursor, label)
	}

	b.WriteString("\n(Enter to select, Esc to back)")

	if m.err != nil {
		b.WriteString("\n\n" + errorText(m.err))
	}

	return b.String()
}

// IsSelecting reports whether the picker is on its list rather than the custom form.
func (m WindowPicker) IsSelecting() bool {
	return m.custom == nil
}

func (m *WindowPicker) Reset() {
	m.selected = m.initial
	m.custom = nil
	m.err = nil
}

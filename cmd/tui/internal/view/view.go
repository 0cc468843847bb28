package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// View is implemented by every screen of the viewer.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct{}

// BackMsg returns the viewer to the previous screen.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

func errorText(err error) string {
	return errorStyle.Render(fmt.Sprintf("Error: %v", err))
}

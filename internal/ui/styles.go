package ui

import (
	"github.com/charmbracelet/lipgloss"

	keyinfo "github.com/riverfjs/keyinfo-go"
	"github.com/riverfjs/keyinfo-go/internal/config"
)

// StyleManager holds the viewer styles
type StyleManager struct {
	Header   lipgloss.Style
	Title    lipgloss.Style
	Item     lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Dim      lipgloss.Style
	Locked   lipgloss.Style
	Error    lipgloss.Style
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	return &StyleManager{
		Header:   lipgloss.NewStyle().Bold(true),
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36")),
		Item:     lipgloss.NewStyle(),
		Cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Selected: lipgloss.NewStyle().Background(lipgloss.Color("236")),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Locked:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// LoadFromConfig updates colors from the configuration
func (s *StyleManager) LoadFromConfig(c config.Config) {
	if c.ColorTitle != "" {
		s.Title = s.Title.Foreground(lipgloss.Color(c.ColorTitle))
	}
	if c.ColorCursor != "" {
		s.Cursor = s.Cursor.Foreground(lipgloss.Color(c.ColorCursor))
	}
	if c.ColorDim != "" {
		s.Dim = s.Dim.Foreground(lipgloss.Color(c.ColorDim))
	}
}

// typeStyle 标题条目加粗显示
func (s *StyleManager) typeStyle(t keyinfo.Type) lipgloss.Style {
	if t == keyinfo.TypeTitle {
		return s.Title
	}
	return s.Item
}

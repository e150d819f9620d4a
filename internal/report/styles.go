// Package report renders a run's results for the terminal.
package report

import (
	"github.com/charmbracelet/lipgloss"
)

// Base colors.
var (
	primaryColor = lipgloss.Color("205")
	successColor = lipgloss.Color("42")
	warningColor = lipgloss.Color("214")
	errorColor   = lipgloss.Color("196")
	subtleColor  = lipgloss.Color("241")
)

// Styles contains all styling definitions for report formatting.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Subtle   lipgloss.Style
	Normal   lipgloss.Style
	Count    lipgloss.Style
	Box      lipgloss.Style
}

// NewStyles creates a new Styles instance with default styling.
func NewStyles() *Styles {
	s := &Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(primaryColor),
		Subtitle: lipgloss.NewStyle().Bold(true),
		Success:  lipgloss.NewStyle().Foreground(successColor),
		Warning:  lipgloss.NewStyle().Foreground(warningColor),
		Error:    lipgloss.NewStyle().Foreground(errorColor),
		Subtle:   lipgloss.NewStyle().Foreground(subtleColor),
		Normal:   lipgloss.NewStyle(),
		Count:    lipgloss.NewStyle().Bold(true),
	}

	s.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(subtleColor).
		Padding(0, 1)

	return s
}

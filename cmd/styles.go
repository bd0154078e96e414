package cmd

import "github.com/charmbracelet/lipgloss"

var (
	styleHeader   = lipgloss.NewStyle().Bold(true)
	styleNew      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleRemoved  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleModified = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleWarning  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleMuted    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Simple Palette inspired by standard terminal dark themes
var (
	ColorPrimary   = lipgloss.Color("255") // White
	ColorSecondary = lipgloss.Color("240") // Dark Gray
	ColorAccent    = lipgloss.Color("39")  // Blue / Cyan
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("196") // Red
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorDim       = lipgloss.Color("240") // Dimmed text
)

// Shared styles - minimal and clean
var (
	// Standard Text
	StyleNormal = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleDimmed = lipgloss.NewStyle().Foreground(ColorDim)
	StyleBold   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	// Status & Feedback
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)

	// UI Elements
	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary)

	StyleTitle  = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent).MarginBottom(1)
	StylePrompt = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

	// Menu item (active)
	StyleListItemActive = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	// Form fields
	StyleInputFocused = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	StyleFieldBox = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorSecondary).
			Foreground(ColorDim).
			PaddingLeft(1)

	StyleFieldBoxFocused = StyleFieldBox.
				BorderForeground(ColorAccent).
				Foreground(ColorPrimary)

	// Bottom Bar
	StyleStatusBar = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	// Help Keys
	StyleHelpKey = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StyleHelpDesc = lipgloss.NewStyle().
			Foreground(ColorDim)
)

// Package style centralizes the terminal styling of command output.
// Colors are adaptive so the same palette reads well on light and dark
// backgrounds.
package style

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	SuccessColor = lipgloss.AdaptiveColor{
		Light: "#28A745",
		Dark:  "#4CDD76",
	}

	ErrorColor = lipgloss.AdaptiveColor{
		Light: "#DC3545",
		Dark:  "#FF6B7D",
	}

	WarningColor = lipgloss.AdaptiveColor{
		Light: "#FFC107",
		Dark:  "#FFD54F",
	}

	HeadingColor = lipgloss.AdaptiveColor{
		Light: "#212529",
		Dark:  "#F8F9FA",
	}

	MutedColor = lipgloss.AdaptiveColor{
		Light: "#6C757D",
		Dark:  "#ADB5BD",
	}

	PathColor = lipgloss.AdaptiveColor{
		Light: "#007ACC",
		Dark:  "#3D9EFF",
	}
)

var (
	Title = lipgloss.NewStyle().
		Foreground(HeadingColor).
		Bold(true)

	Count = lipgloss.NewStyle().
		Foreground(SuccessColor).
		Bold(true)

	Error = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true)

	Muted = lipgloss.NewStyle().
		Foreground(MutedColor)

	Path = lipgloss.NewStyle().
		Foreground(PathColor).
		Italic(true)
)

// Status indicators for event lines in watch mode.
var (
	SuccessIndicator = Count.Render("✓")
	ErrorIndicator   = Error.Render("✗")
	WarningIndicator = Warning.Render("!")
)

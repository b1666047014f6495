// Package styles provides centralized style and color definitions for
// terminal output.
//
// Colors use lipgloss.AdaptiveColor so output stays readable on both light
// and dark terminal backgrounds: light variants are darker and more
// saturated, dark variants follow the Dracula palette.
package styles

import "github.com/charmbracelet/lipgloss"

// Adaptive colors that work well in both light and dark terminal themes.
var (
	// ColorError is used for error messages and critical findings.
	ColorError = lipgloss.AdaptiveColor{
		Light: "#D73737",
		Dark:  "#FF5555",
	}

	// ColorWarning is used for warnings and high-severity findings.
	ColorWarning = lipgloss.AdaptiveColor{
		Light: "#B45309",
		Dark:  "#FFB86C",
	}

	// ColorSuccess is used for success messages and clean results.
	ColorSuccess = lipgloss.AdaptiveColor{
		Light: "#047857",
		Dark:  "#50FA7B",
	}

	// ColorInfo is used for informational messages and low-severity findings.
	ColorInfo = lipgloss.AdaptiveColor{
		Light: "#0E7490",
		Dark:  "#8BE9FD",
	}

	// ColorAttention is used for medium-severity findings and progress.
	ColorAttention = lipgloss.AdaptiveColor{
		Light: "#A16207",
		Dark:  "#F1FA8C",
	}

	// ColorPurple is used for commands and file paths.
	ColorPurple = lipgloss.AdaptiveColor{
		Light: "#7C3AED",
		Dark:  "#BD93F9",
	}

	// ColorComment is used for muted, secondary text.
	ColorComment = lipgloss.AdaptiveColor{
		Light: "#6B7280",
		Dark:  "#6272A4",
	}
)

// Pre-configured styles for common output elements.
var (
	Error    = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	Warning  = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	Success  = lipgloss.NewStyle().Foreground(ColorSuccess)
	Info     = lipgloss.NewStyle().Foreground(ColorInfo)
	Medium   = lipgloss.NewStyle().Foreground(ColorAttention)
	FilePath = lipgloss.NewStyle().Foreground(ColorPurple)
	Snippet  = lipgloss.NewStyle().Foreground(ColorComment)
	Header   = lipgloss.NewStyle().Bold(true)

	TableHeader = lipgloss.NewStyle().Bold(true).Foreground(ColorPurple)
	TableBorder = lipgloss.NewStyle().Foreground(ColorComment)

	RoundedBorder = lipgloss.RoundedBorder()
)

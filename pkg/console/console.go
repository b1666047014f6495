// Package console provides styled terminal output for scan results and
// status messages. Styling is applied only when the stream is a TTY, so
// piped output stays plain and parseable.
package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/github/skillscan/pkg/logger"
	"github.com/github/skillscan/pkg/styles"
	"github.com/github/skillscan/pkg/tty"
)

var consoleLog = logger.New("console:console")

// isTTY checks if stdout is a terminal
func isTTY() bool {
	return tty.IsStdoutTerminal()
}

// applyStyle conditionally applies styling based on TTY status
func applyStyle(style lipgloss.Style, text string) string {
	if isTTY() {
		return style.Render(text)
	}
	return text
}

// FindingDisplay carries one finding prepared for terminal rendering.
// The console package deliberately does not depend on the analyzer; callers
// convert engine findings into this shape.
type FindingDisplay struct {
	File        string
	Line        int // 0 means whole-document
	Severity    string
	Category    string
	Title       string
	Description string
	Snippet     string
}

// severityStyle maps a severity name to its display style.
func severityStyle(severity string) lipgloss.Style {
	switch severity {
	case "critical":
		return styles.Error
	case "high":
		return styles.Warning
	case "medium":
		return styles.Medium
	default:
		return styles.Info
	}
}

// FormatFinding formats a single finding in an IDE-parseable layout:
// file:line: severity: title (category, confidence shown by the caller in
// the description when relevant), followed by the offending snippet.
func FormatFinding(f FindingDisplay) string {
	consoleLog.Printf("Formatting finding: severity=%s, title=%s", f.Severity, f.Title)
	var output strings.Builder

	if f.File != "" {
		location := f.File
		if f.Line > 0 {
			location = fmt.Sprintf("%s:%d", f.File, f.Line)
		}
		output.WriteString(applyStyle(styles.FilePath, location+":"))
		output.WriteString(" ")
	}

	output.WriteString(applyStyle(severityStyle(f.Severity), f.Severity+":"))
	output.WriteString(" ")
	output.WriteString(f.Title)
	if f.Category != "" {
		output.WriteString(applyStyle(styles.Snippet, " ["+f.Category+"]"))
	}
	output.WriteString("\n")

	if f.Description != "" {
		output.WriteString("  ")
		output.WriteString(f.Description)
		output.WriteString("\n")
	}

	if f.Snippet != "" {
		output.WriteString("  ")
		output.WriteString(applyStyle(styles.Snippet, "> "+f.Snippet))
		output.WriteString("\n")
	}

	return output.String()
}

// FormatSuccessMessage formats a success message with styling
func FormatSuccessMessage(message string) string {
	return applyStyle(styles.Success, "✓ ") + message
}

// FormatInfoMessage formats an informational message
func FormatInfoMessage(message string) string {
	return applyStyle(styles.Info, "ℹ ") + message
}

// FormatWarningMessage formats a warning message
func FormatWarningMessage(message string) string {
	return applyStyle(styles.Warning, "⚠ ") + message
}

// FormatErrorMessage formats an error message
func FormatErrorMessage(message string) string {
	return applyStyle(styles.Error, "✗ ") + message
}

// SummaryRow is one row of the scan summary table.
type SummaryRow struct {
	File     string
	Name     string
	Findings int
	Highest  string
}

// RenderSummaryTable renders a per-file scan summary using lipgloss/table.
func RenderSummaryTable(rows []SummaryRow) string {
	if len(rows) == 0 {
		return ""
	}
	consoleLog.Printf("Rendering summary table: rows=%d", len(rows))

	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		highest := row.Highest
		if highest == "" {
			highest = "-"
		}
		data = append(data, []string{row.File, row.Name, fmt.Sprintf("%d", row.Findings), highest})
	}

	styleFunc := func(row, col int) lipgloss.Style {
		if !isTTY() {
			return lipgloss.NewStyle()
		}
		if row == table.HeaderRow {
			return styles.TableHeader.PaddingLeft(1).PaddingRight(1)
		}
		return lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
	}

	t := table.New().
		Headers("File", "Skill", "Findings", "Highest").
		Rows(data...).
		Border(styles.RoundedBorder).
		BorderStyle(styles.TableBorder).
		StyleFunc(styleFunc)

	return t.String() + "\n"
}

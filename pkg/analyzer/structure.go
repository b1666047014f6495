package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/github/skillscan/pkg/logger"
	"github.com/github/skillscan/pkg/parser"
)

var structureLog = logger.New("analyzer:structure")

// MissingStructureTitle is the title of the no-structure finding. The
// verdict aggregator keys off its presence.
const MissingStructureTitle = "Missing skill structure"

// shellLinePattern is a loose heuristic for prose lines that look like raw
// shell commands: a leading "$" prompt, a shebang, a variable assignment,
// a conjunction chain, or a statement separator followed by a command word.
var shellLinePattern = regexp.MustCompile(`(^\$\s|^#!|^[A-Za-z_][A-Za-z0-9_]*=\S|&&|;\s+[a-z]+)`)

// structureStats summarizes the document-level shape of a skill file.
type structureStats struct {
	hasFrontmatter bool
	headingCount   int
	nonBlankLines  int
	codeRatio      float64
	shellRatio     float64
}

// classifyStructure measures whether the document looks like an
// instructional skill (frontmatter, headings, prose) or a disguised
// payload, and emits at most three document-level findings. Any subset of
// the checks may fire independently.
func classifyStructure(content string, lines []string, cfg Config) []Finding {
	stats := measureStructure(content, lines)
	structureLog.Printf("Structure: frontmatter=%t, headings=%d, code_ratio=%.2f, shell_ratio=%.2f, non_blank=%d",
		stats.hasFrontmatter, stats.headingCount, stats.codeRatio, stats.shellRatio, stats.nonBlankLines)

	var findings []Finding

	if cfg.ruleEnabled("structure/missing") && !stats.hasFrontmatter && stats.headingCount == 0 {
		findings = append(findings, Finding{
			Category:    CategoryOther,
			Severity:    SeverityMedium,
			Title:       MissingStructureTitle,
			Description: "Document has no frontmatter and no markdown headings; it does not look like an instructional skill",
			Confidence:  0.7,
		})
	}

	if cfg.ruleEnabled("structure/code-heavy") &&
		stats.nonBlankLines > cfg.CodeRatioMinLines && stats.codeRatio > cfg.CodeRatioThreshold {
		findings = append(findings, Finding{
			Category:    CategoryMalware,
			Severity:    SeverityMedium,
			Title:       "Document is almost entirely code",
			Description: fmt.Sprintf("%.0f%% of non-blank lines are inside fenced code blocks", stats.codeRatio*100),
			Confidence:  0.6,
		})
	}

	if cfg.ruleEnabled("structure/shell-heavy") &&
		stats.nonBlankLines > cfg.ShellRatioMinLines && stats.shellRatio > cfg.ShellRatioThreshold {
		findings = append(findings, Finding{
			Category:    CategoryMalware,
			Severity:    SeverityMedium,
			Title:       "Document is mostly raw shell commands",
			Description: fmt.Sprintf("%.0f%% of non-blank lines look like shell commands outside code blocks", stats.shellRatio*100),
			Confidence:  0.65,
		})
	}

	return findings
}

func measureStructure(content string, lines []string) structureStats {
	stats := structureStats{
		hasFrontmatter: parser.HasFrontmatter(content),
		headingCount:   parser.CountHeadings(content),
	}

	var tracker fenceTracker
	codeLines := 0
	shellLines := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		stats.nonBlankLines++
		inCode, isFence := tracker.observe(trimmed)
		if isFence || inCode {
			codeLines++
			continue
		}
		if shellLinePattern.MatchString(trimmed) {
			shellLines++
		}
	}

	if stats.nonBlankLines > 0 {
		stats.codeRatio = float64(codeLines) / float64(stats.nonBlankLines)
		stats.shellRatio = float64(shellLines) / float64(stats.nonBlankLines)
	}
	return stats
}

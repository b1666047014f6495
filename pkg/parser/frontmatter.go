// Package parser extracts YAML frontmatter and markdown structure from
// skill files.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/github/skillscan/pkg/logger"
)

var log = logger.New("parser:frontmatter")

// FrontmatterResult holds parsed frontmatter and markdown content
type FrontmatterResult struct {
	Frontmatter map[string]any
	Markdown    string
	// FrontmatterLines preserves the raw frontmatter lines for callers that
	// need to inspect the block without re-parsing (e.g. name extraction on
	// malformed YAML).
	FrontmatterLines []string
}

// ExtractFrontmatterFromContent parses YAML frontmatter from markdown content.
// Documents without an opening "---" delimiter are returned whole as markdown
// with an empty frontmatter map.
func ExtractFrontmatterFromContent(content string) (*FrontmatterResult, error) {
	log.Printf("Extracting frontmatter from content: size=%d bytes", len(content))
	lines := strings.Split(content, "\n")

	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return &FrontmatterResult{
			Frontmatter:      make(map[string]any),
			Markdown:         content,
			FrontmatterLines: []string{},
		}, nil
	}

	endIndex := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			endIndex = i
			break
		}
	}

	if endIndex == -1 {
		return nil, fmt.Errorf("frontmatter not properly closed")
	}

	frontmatterLines := lines[1:endIndex]
	frontmatterYAML := strings.Join(frontmatterLines, "\n")

	// No-break spaces (U+00A0) break the YAML parser
	frontmatterYAML = strings.ReplaceAll(frontmatterYAML, " ", " ")

	var frontmatter map[string]any
	if err := yaml.Unmarshal([]byte(frontmatterYAML), &frontmatter); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	// yaml.Unmarshal leaves the map nil for empty YAML
	if frontmatter == nil {
		frontmatter = make(map[string]any)
	}

	var markdownLines []string
	if endIndex+1 < len(lines) {
		markdownLines = lines[endIndex+1:]
	}
	markdown := strings.Join(markdownLines, "\n")

	log.Printf("Extracted frontmatter: fields=%d, markdown_size=%d bytes", len(frontmatter), len(markdown))
	return &FrontmatterResult{
		Frontmatter:      frontmatter,
		Markdown:         strings.TrimSpace(markdown),
		FrontmatterLines: frontmatterLines,
	}, nil
}

// HasFrontmatter reports whether content opens with a "---" delimited block.
// Unlike ExtractFrontmatterFromContent it never fails: an unclosed or
// malformed block still counts as an attempt at structure.
func HasFrontmatter(content string) bool {
	lines := strings.Split(content, "\n")
	return len(lines) > 0 && strings.TrimSpace(lines[0]) == "---"
}

var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// FirstHeading returns the text of the first markdown heading in content,
// stripped of leading '#' markers, or "" when no heading exists.
func FirstHeading(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if m := headingPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return strings.TrimSpace(m[2])
		}
	}
	return ""
}

// CountHeadings returns the number of markdown heading lines in content.
func CountHeadings(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if headingPattern.MatchString(strings.TrimSpace(line)) {
			count++
		}
	}
	return count
}

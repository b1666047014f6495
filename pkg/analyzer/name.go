package analyzer

import (
	"regexp"
	"strings"

	"github.com/github/skillscan/pkg/parser"
)

var frontmatterNamePattern = regexp.MustCompile(`^name:\s*(.+?)\s*$`)

// ExtractName returns a display name for a skill document: the
// frontmatter "name:" field (quotes stripped), else the first markdown
// heading, else "". Callers fall back to their own name when empty.
func ExtractName(content string) string {
	if result, err := parser.ExtractFrontmatterFromContent(content); err == nil {
		if name, ok := result.Frontmatter["name"].(string); ok && strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
	} else if parser.HasFrontmatter(content) {
		// Malformed YAML still often has a readable name: line
		for _, line := range strings.Split(content, "\n")[1:] {
			if strings.TrimSpace(line) == "---" {
				break
			}
			if m := frontmatterNamePattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
				return strings.Trim(m[1], `"'`)
			}
		}
	}

	return parser.FirstHeading(content)
}

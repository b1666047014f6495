package analyzer

import (
	"fmt"
	"strings"

	"github.com/github/skillscan/pkg/logger"
)

var verdictLog = logger.New("analyzer:verdict")

// safetyClaims are phrases a document uses to assert its own harmlessness.
var safetyClaims = []string{"safe", "harmless", "no risk"}

// checkBehaviorMismatch appends one whole-document finding when the
// document claims to be safe while any detector fired. The claim itself is
// a signal distinct from the underlying technical findings.
func checkBehaviorMismatch(content string, findings []Finding) []Finding {
	if len(findings) == 0 {
		return findings
	}
	lower := strings.ToLower(content)
	for _, claim := range safetyClaims {
		if strings.Contains(lower, claim) {
			verdictLog.Printf("Safety claim %q contradicts %d findings", claim, len(findings))
			return append(findings, Finding{
				Category:    CategoryBehaviorMismatch,
				Severity:    SeverityMedium,
				Title:       "Document claims to be safe",
				Description: fmt.Sprintf("Document asserts its own safety (%q) while %d issues were detected", claim, len(findings)),
				Confidence:  0.6,
			})
		}
	}
	return findings
}

// Verdict titles emitted by the aggregator.
const (
	VerdictNotASkillTitle      = "File appears to be malware, not a skill"
	VerdictMalwareTraitsTitle  = "Skill file has malware characteristics"
	verdictHighConfidenceFloor = 0.85
)

// applyOverallVerdict appends at most one synthetic verdict finding when
// the cumulative findings cross the malware thresholds. The two conditions
// are evaluated in order; the first that matches wins.
func applyOverallVerdict(findings []Finding) []Finding {
	highConfidenceCritical := 0
	malwareCount := 0
	hasStructure := true
	for _, f := range findings {
		if f.Severity == SeverityCritical && f.Confidence >= verdictHighConfidenceFloor {
			highConfidenceCritical++
		}
		if f.Category == CategoryMalware {
			malwareCount++
		}
		if f.Title == MissingStructureTitle {
			hasStructure = false
		}
	}
	verdictLog.Printf("Verdict inputs: high_confidence_critical=%d, malware=%d, has_structure=%t",
		highConfidenceCritical, malwareCount, hasStructure)

	switch {
	case !hasStructure && highConfidenceCritical >= 2:
		return append(findings, Finding{
			Category:    CategoryMalware,
			Severity:    SeverityCritical,
			Title:       VerdictNotASkillTitle,
			Description: fmt.Sprintf("Document lacks skill structure and carries %d high-confidence critical findings", highConfidenceCritical),
			Confidence:  0.9,
		})
	case highConfidenceCritical >= 3 && malwareCount >= 2:
		return append(findings, Finding{
			Category:    CategoryMalware,
			Severity:    SeverityCritical,
			Title:       VerdictMalwareTraitsTitle,
			Description: fmt.Sprintf("%d high-confidence critical findings, %d in the malware category", highConfidenceCritical, malwareCount),
			Confidence:  0.8,
		})
	}
	return findings
}

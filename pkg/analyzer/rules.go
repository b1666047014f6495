package analyzer

import (
	"regexp"

	"github.com/github/skillscan/pkg/logger"
)

var rulesLog = logger.New("analyzer:rules")

// rule is one declarative detection rule. Rules are data: the scanning loop
// iterates the tables uniformly, so each rule is independently testable and
// new detections are new table entries, not new code paths.
//
// Detect returns one description per hit on the line (most rules return at
// most one; the URL rule can return several). A nil result means no finding.
type rule struct {
	ID         string
	Category   Category
	Severity   Severity
	Confidence float64
	Title      string
	Detect     func(lc lineContext, cfg Config) []string
}

// detectMatch builds a Detect func that fires a fixed description when the
// pattern matches the raw line.
func detectMatch(pattern *regexp.Regexp, description string) func(lineContext, Config) []string {
	return func(lc lineContext, _ Config) []string {
		if pattern.MatchString(lc.Raw) {
			return []string{description}
		}
		return nil
	}
}

// evalRules runs every enabled rule in the table against one line and
// appends resulting findings in table order.
func evalRules(rules []rule, lc lineContext, cfg Config, snippet string, findings []Finding) []Finding {
	for _, r := range rules {
		if !cfg.ruleEnabled(r.ID) {
			continue
		}
		for _, description := range r.Detect(lc, cfg) {
			rulesLog.Printf("Rule hit: id=%s, line=%d", r.ID, lc.Number)
			findings = append(findings, Finding{
				Category:    r.Category,
				Severity:    r.Severity,
				Title:       r.Title,
				Description: description,
				LineNumber:  lc.Number,
				CodeSnippet: snippet,
				Confidence:  r.Confidence,
			})
		}
	}
	return findings
}

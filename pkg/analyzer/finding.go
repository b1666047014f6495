package analyzer

// Category classifies what kind of risk a finding represents.
type Category string

const (
	CategoryMalware             Category = "malware"
	CategoryDataExfiltration    Category = "data_exfiltration"
	CategoryPrivilegeEscalation Category = "privilege_escalation"
	CategoryBehaviorMismatch    Category = "behavior_mismatch"
	CategoryOther               Category = "other"
)

// IsValid reports whether the category is one of the closed set.
func (c Category) IsValid() bool {
	switch c {
	case CategoryMalware, CategoryDataExfiltration, CategoryPrivilegeEscalation,
		CategoryBehaviorMismatch, CategoryOther:
		return true
	}
	return false
}

// Severity rates how dangerous a finding is. Severities are ordered:
// critical > high > medium > low.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRanks = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the ordering rank of the severity (higher is more severe).
// Unknown severities rank 0.
func (s Severity) Rank() int {
	return severityRanks[s]
}

// IsValid reports whether the severity is one of the closed set.
func (s Severity) IsValid() bool {
	return severityRanks[s] != 0
}

// Finding is one detected issue in a skill document. Findings are created
// exclusively by the analyzer and are immutable once returned; callers
// assign identity and persist them attached to a scan.
//
// LineNumber and CodeSnippet are either both set (line-scoped finding) or
// both absent (whole-document finding). LineNumber is 1-based; 0 means the
// finding applies to the document as a whole.
type Finding struct {
	SkillID     string   `json:"skill_id,omitempty"`
	ScanID      string   `json:"scan_id,omitempty"`
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	LineNumber  int      `json:"line_number,omitempty"`
	CodeSnippet string   `json:"code_snippet,omitempty"`
	Confidence  float64  `json:"confidence"`
}

// MaxSeverity returns the highest severity among findings, or "" when the
// list is empty.
func MaxSeverity(findings []Finding) Severity {
	var max Severity
	for _, f := range findings {
		if f.Severity.Rank() > max.Rank() {
			max = f.Severity
		}
	}
	return max
}

// CountByCategory returns the number of findings in the given category.
func CountByCategory(findings []Finding, category Category) int {
	count := 0
	for _, f := range findings {
		if f.Category == category {
			count++
		}
	}
	return count
}

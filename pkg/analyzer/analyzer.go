// Package analyzer is the static content-analysis engine for skill files.
//
// A skill file is a short markdown document, usually with YAML frontmatter,
// that an AI coding agent follows as instructions. The analyzer inspects
// one document at a time and flags lines or whole documents that match
// patterns associated with data exfiltration, privilege escalation,
// destructive behavior, or malware delivery.
//
// The pipeline is a single synchronous pass with no I/O and no shared
// state, so one Analyzer may be used from many goroutines concurrently:
//
//  1. structure classification (does this look like a skill at all),
//  2. per-line rule evaluation, with a fenced-code tracker deciding which
//     lines count as code,
//  3. a whole-document behavior-mismatch check,
//  4. an overall verdict aggregation that appends at most one synthetic
//     finding.
//
// The analyzer is heuristic defense in depth, not a verifier: it favors
// precision over recall at the structure level and the reverse in the
// malware tier.
package analyzer

import (
	"strings"

	"github.com/github/skillscan/pkg/logger"
	"github.com/github/skillscan/pkg/stringutil"
)

var log = logger.New("analyzer:analyzer")

// Analyzer evaluates skill documents against the detection rule tables.
type Analyzer struct {
	cfg Config
}

// New creates an Analyzer with the given configuration.
func New(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// NewDefault creates an Analyzer with production defaults.
func NewDefault() *Analyzer {
	return New(DefaultConfig())
}

// Analyze runs the full pipeline over one document and returns the ordered
// finding list. The result is deterministic: identical input yields an
// identical list.
func (a *Analyzer) Analyze(content string) []Finding {
	log.Printf("Analyzing document: size=%d bytes", len(content))
	lines := strings.Split(content, "\n")

	findings := classifyStructure(content, lines, a.cfg)

	var tracker fenceTracker
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		inCode, isFence := tracker.observe(trimmed)
		if isFence || trimmed == "" {
			continue
		}
		// Detection is restricted to fenced code. Prose that talks about
		// dangerous commands is documentation about them, not behavior.
		if !inCode {
			continue
		}
		lc := lineContext{
			Raw:     line,
			Trimmed: trimmed,
			Lower:   strings.ToLower(line),
			Number:  i + 1,
			InCode:  true,
		}
		snippet := stringutil.Truncate(trimmed, a.cfg.SnippetMaxLength)
		findings = evalRules(lineRules, lc, a.cfg, snippet, findings)
		findings = evalRules(malwareRules, lc, a.cfg, snippet, findings)
	}

	findings = checkBehaviorMismatch(content, findings)
	findings = applyOverallVerdict(findings)

	log.Printf("Analysis complete: findings=%d", len(findings))
	return findings
}

// AnalyzeDocument runs Analyze and stamps each finding with the subject
// and scan identifiers supplied by the caller.
func (a *Analyzer) AnalyzeDocument(content, skillID, scanID string) []Finding {
	findings := a.Analyze(content)
	for i := range findings {
		findings[i].SkillID = skillID
		findings[i].ScanID = scanID
	}
	return findings
}

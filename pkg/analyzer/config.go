package analyzer

import "github.com/github/skillscan/pkg/constants"

// Config tunes the analyzer's heuristic thresholds and rule set. The
// thresholds were tuned empirically against real skill repositories; they
// are configuration, not invariants, and loose on purpose: legitimate
// devops and tutorial skills are code-heavy, so the structure-level checks
// trade recall for precision.
type Config struct {
	// CodeRatioThreshold flags documents whose fenced-code share of
	// non-blank lines exceeds this value.
	CodeRatioThreshold float64

	// CodeRatioMinLines is the minimum non-blank line count before the
	// code-ratio check applies.
	CodeRatioMinLines int

	// ShellRatioThreshold flags documents whose prose lines look
	// predominantly like shell commands.
	ShellRatioThreshold float64

	// ShellRatioMinLines is the minimum non-blank line count before the
	// shell-ratio check applies.
	ShellRatioMinLines int

	// BlobMinLength is the minimum run of base64-alphabet characters
	// treated as an embedded payload.
	BlobMinLength int

	// SnippetMaxLength is the maximum code snippet length before
	// truncation.
	SnippetMaxLength int

	// SafeDomains are hosts (and their subdomains) never flagged by the
	// outbound-URL rule: package registries, documentation sites, code
	// hosts.
	SafeDomains []string

	// DisabledRules maps rule IDs to true to skip them during scanning.
	// Unknown IDs are ignored.
	DisabledRules map[string]bool
}

// DefaultConfig returns the analyzer configuration used in production.
func DefaultConfig() Config {
	return Config{
		CodeRatioThreshold:  0.85,
		CodeRatioMinLines:   10,
		ShellRatioThreshold: 0.65,
		ShellRatioMinLines:  5,
		BlobMinLength:       200,
		SnippetMaxLength:    constants.MaxSnippetLength,
		SafeDomains: []string{
			"github.com",
			"githubusercontent.com",
			"gitlab.com",
			"bitbucket.org",
			"npmjs.com",
			"npmjs.org",
			"pypi.org",
			"python.org",
			"nodejs.org",
			"golang.org",
			"go.dev",
			"pkg.go.dev",
			"rust-lang.org",
			"crates.io",
			"rubygems.org",
			"docker.com",
			"kubernetes.io",
			"developer.mozilla.org",
			"readthedocs.io",
			"stackoverflow.com",
			"wikipedia.org",
		},
		DisabledRules: map[string]bool{},
	}
}

// ruleEnabled reports whether a rule ID is active under this config.
func (c Config) ruleEnabled(id string) bool {
	return !c.DisabledRules[id]
}

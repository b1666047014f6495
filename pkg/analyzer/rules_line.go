package analyzer

import (
	"fmt"
	"regexp"
	"strings"
)

// Patterns for the medium-confidence line rules. These rules only run
// inside fenced code blocks: prose that merely discusses a dangerous
// command is documentation, not behavior.
var (
	urlPattern = regexp.MustCompile(`https?://[^\s"'<>\)\]]+`)

	networkCallPattern = regexp.MustCompile(`(fetch\(|axios\.|\bcurl\s|\bwget\s)`)

	envAccessPattern = regexp.MustCompile(`(process\.env|os\.environ|getenv\(|\$ENV\{|\bENV\[|\bexport\s+[A-Z_][A-Z0-9_]*=|\$\{?[A-Z_][A-Z0-9_]+\}?)`)

	fileWritePattern = regexp.MustCompile(`(writeFile|createWriteStream|\bopen\([^)]*['"][wa]b?\+?['"]|>>?\s*(/|~/)\S+)`)

	sensitivePathPattern = regexp.MustCompile(`(/etc/|/root/|/home/[^/\s]+/|/var/|/usr/)\S*`)

	pathWriteVerbPattern = regexp.MustCompile(`(\bcp\s|\bmv\s|\brsync\s|\btee\s|>>?\s*/)`)

	privEscPattern = regexp.MustCompile(`(\bsudo\s|\bsu\s+-|chmod\s+u\+s|\bsetuid\b|\bsetgid\b|\bpkexec\b)`)

	setuidPattern = regexp.MustCompile(`chmod\s+u\+s`)

	permModPattern = regexp.MustCompile(`\b(chmod|chown)\s`)

	destructivePattern = regexp.MustCompile(`(?i)(\brm\s+-[a-z]*[rf][a-z]*[rf][a-z]*\b|\bdd\s+if=|\bmkfs\b|mkfs\.[a-z0-9]+|format\s+c:)`)

	listenerPattern = regexp.MustCompile(`(\b(nc|netcat)\s+(-[a-z]*[el][a-z]*\b|\S+\s+-[a-z]*[el][a-z]*\b)|\bsocat\s)`)
)

// isSafeDomain reports whether a URL's host is one of the allow-listed
// documentation/registry domains or a subdomain of one.
func isSafeDomain(rawURL string, safeDomains []string) bool {
	host := rawURL
	if idx := strings.Index(host, "://"); idx != -1 {
		host = host[idx+3:]
	}
	if idx := strings.IndexAny(host, "/:?#"); idx != -1 {
		host = host[:idx]
	}
	host = strings.ToLower(host)
	for _, domain := range safeDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// lineRules is the ordered table of medium-confidence detectors: data
// exfiltration, privilege escalation, destructive operations, listeners.
var lineRules = []rule{
	{
		ID:         "exfil/suspicious-url",
		Category:   CategoryDataExfiltration,
		Severity:   SeverityMedium,
		Confidence: 0.7,
		Title:      "Outbound URL in executable context",
		Detect: func(lc lineContext, cfg Config) []string {
			// Plain markdown reference links are fine; only flag URLs on
			// lines that also download or execute.
			if !lc.hasExecutionContext() {
				return nil
			}
			var hits []string
			for _, rawURL := range urlPattern.FindAllString(lc.Raw, -1) {
				if isSafeDomain(rawURL, cfg.SafeDomains) {
					continue
				}
				hits = append(hits, fmt.Sprintf("URL %q appears alongside a download or execution command", rawURL))
			}
			return hits
		},
	},
	{
		ID:         "exfil/network-call",
		Category:   CategoryDataExfiltration,
		Severity:   SeverityMedium,
		Confidence: 0.9,
		Title:      "Network call in code block",
		Detect:     detectMatch(networkCallPattern, "Code performs a network request"),
	},
	{
		ID:         "exfil/env-network",
		Category:   CategoryDataExfiltration,
		Severity:   SeverityHigh,
		Confidence: 0.85,
		Title:      "Environment variable sent over network",
		Detect: func(lc lineContext, _ Config) []string {
			if envAccessPattern.MatchString(lc.Raw) && lc.hasNetworkSignal() {
				return []string{"Environment variable access combined with a network call on the same line"}
			}
			return nil
		},
	},
	{
		ID:         "exfil/env-access",
		Category:   CategoryDataExfiltration,
		Severity:   SeverityLow,
		Confidence: 0.5,
		Title:      "Environment variable access",
		Detect: func(lc lineContext, _ Config) []string {
			if envAccessPattern.MatchString(lc.Raw) && !lc.hasNetworkSignal() {
				return []string{"Code reads environment variables"}
			}
			return nil
		},
	},
	{
		ID:         "exfil/file-write",
		Category:   CategoryDataExfiltration,
		Severity:   SeverityHigh,
		Confidence: 0.7,
		Title:      "File write operation",
		Detect:     detectMatch(fileWritePattern, "Code writes to the filesystem"),
	},
	{
		ID:         "exfil/sensitive-path-write",
		Category:   CategoryDataExfiltration,
		Severity:   SeverityHigh,
		Confidence: 0.7,
		Title:      "Write to sensitive system path",
		Detect: func(lc lineContext, _ Config) []string {
			if !pathWriteVerbPattern.MatchString(lc.Raw) {
				return nil
			}
			if path := sensitivePathPattern.FindString(lc.Raw); path != "" {
				return []string{fmt.Sprintf("Write, copy, or move targeting %q", path)}
			}
			return nil
		},
	},
	{
		ID:         "privesc/command",
		Category:   CategoryPrivilegeEscalation,
		Severity:   SeverityCritical,
		Confidence: 0.95,
		Title:      "Privilege escalation command",
		Detect:     detectMatch(privEscPattern, "Command requests elevated privileges"),
	},
	{
		ID:         "privesc/perm-change",
		Category:   CategoryPrivilegeEscalation,
		Severity:   SeverityMedium,
		Confidence: 0.6,
		Title:      "File permission modification",
		Detect: func(lc lineContext, _ Config) []string {
			// setuid is already covered by privesc/command at critical
			if permModPattern.MatchString(lc.Raw) && !setuidPattern.MatchString(lc.Raw) {
				return []string{"Command changes file permissions or ownership"}
			}
			return nil
		},
	},
	{
		ID:         "destructive/operation",
		Category:   CategoryBehaviorMismatch,
		Severity:   SeverityCritical,
		Confidence: 0.9,
		Title:      "Destructive operation",
		Detect:     detectMatch(destructivePattern, "Command destroys files or disk contents"),
	},
	{
		ID:         "listener/network",
		Category:   CategoryBehaviorMismatch,
		Severity:   SeverityHigh,
		Confidence: 0.9,
		Title:      "Network listener",
		Detect:     detectMatch(listenerPattern, "Command opens a network listener or relay"),
	},
}

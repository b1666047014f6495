package analyzer

import (
	"fmt"
	"path"
	"regexp"
)

// Patterns for the high-confidence malware tier. These rules trade
// precision the other way from the structure checks: anything they match
// inside a code block is treated as a strong signal.
var (
	reverseShellPattern = regexp.MustCompile(`(/dev/tcp/|bash\s+-i\s+>&|sh\s+-i\s+>&|python[23]?\s+-c\s+['"]import\s+(socket|pty)|socket\.socket\([^)]*\)|pty\.spawn\(|perl\s+-e\s+['"][^'"]*socket|php\s+-r\s+['"][^'"]*fsockopen|ruby\s+-rsocket)`)

	// downloader followed by a pipe; the pipe target decides whether this
	// is a dropper or an ordinary filter chain
	pipeTargetPattern = regexp.MustCompile(`\b(curl|wget)\b[^|]*\|\s*(?:sudo\s+)?([A-Za-z0-9_./-]+)`)

	encodedPayloadPattern = regexp.MustCompile(`(base64\s+(-d|-D|--decode)|\batob\(|Buffer\.from\([^)]*['"]base64['"]|b64decode\()`)

	encodedExecPattern = regexp.MustCompile(`(\beval\b|\bexec\b|\|\s*(ba|z)?sh\b|\bpython[23]?\b|\bsystem\()`)

	dynamicExecPattern = regexp.MustCompile("\\b(eval|exec)\\s*\\(\\s*([\"'`$]|[A-Za-z_])")

	base64BlobPattern = regexp.MustCompile(`[A-Za-z0-9+/=]{200,}`)

	dataURIPattern = regexp.MustCompile(`data:image/[a-z]+;base64`)

	hexEscapePattern = regexp.MustCompile(`(\\x[0-9a-fA-F]{2}){10,}`)

	charCodePattern = regexp.MustCompile(`String\.fromCharCode\(\s*\d+(\s*,\s*\d+){4,}`)

	minerPattern = regexp.MustCompile(`(?i)(stratum\+tcp://|\bxmrig\b|\bminerd\b|cryptonight|\bethminer\b|cpuminer|randomx|coinhive|minergate)`)

	cronPersistPattern = regexp.MustCompile(`(\bcrontab\s|/etc/cron|launchctl\s+load)`)

	servicePersistPattern = regexp.MustCompile(`systemctl\s+(enable|start)\b`)

	profileFilePattern = regexp.MustCompile(`\.(bashrc|bash_profile|zshrc|zprofile|profile)\b`)

	profileWritePattern = regexp.MustCompile(`(>>?\s*\S*\.(bashrc|bash_profile|zshrc|zprofile|profile)\b|\btee\s+(-a\s+)?\S*\.(bashrc|bash_profile|zshrc|zprofile|profile)\b)`)

	shadowFilePattern = regexp.MustCompile(`/etc/shadow`)

	credentialFilePattern = regexp.MustCompile(`(/etc/passwd|\.ssh/id_[a-z0-9]+|\.ssh/authorized_keys|\bid_rsa\b|\.aws/credentials|\.config/gcloud|\.docker/config\.json|\.npmrc\b|\.netrc\b|\.git-credentials|\.kube/config)`)

	credentialHelperPattern = regexp.MustCompile(`(git\s+credential|credential[-\s]helper|security\s+find-(generic|internet)-password|gnome-keyring|libsecret)`)

	tamperPattern = regexp.MustCompile(`(?i)(ufw\s+disable|systemctl\s+(stop|disable)\s+(firewalld|apparmor|auditd|falcon-sensor)|iptables\s+(-F|--flush)|setenforce\s+0|aa-teardown|spctl\s+--master-disable|csrutil\s+disable|(pkill|killall)\s+(-9\s+)?\S*(defender|falcon|crowdstrike|clamav|osquery|wazuh|sentinel))`)
)

// shellInterpreters are pipe targets that execute their input. Piping a
// download into anything else (jq, grep, head...) is a filter, not a
// dropper.
var shellInterpreters = map[string]bool{
	"sh": true, "bash": true, "zsh": true, "dash": true, "ksh": true, "fish": true,
	"python": true, "python2": true, "python3": true,
	"perl": true, "ruby": true, "node": true, "php": true,
}

// malwareRules is the ordered table of high-severity detectors, evaluated
// only inside fenced code blocks.
var malwareRules = []rule{
	{
		ID:         "malware/reverse-shell",
		Category:   CategoryMalware,
		Severity:   SeverityCritical,
		Confidence: 0.95,
		Title:      "Reverse shell",
		Detect:     detectMatch(reverseShellPattern, "Code opens an interactive shell over a network socket"),
	},
	{
		ID:         "malware/dropper",
		Category:   CategoryMalware,
		Severity:   SeverityCritical,
		Confidence: 0.95,
		Title:      "Download-and-execute pattern",
		Detect: func(lc lineContext, _ Config) []string {
			m := pipeTargetPattern.FindStringSubmatch(lc.Raw)
			if m == nil {
				return nil
			}
			target := path.Base(m[2])
			if !shellInterpreters[target] {
				return nil
			}
			return []string{fmt.Sprintf("Downloaded content is piped directly into %s", target)}
		},
	},
	{
		ID:         "malware/encoded-exec",
		Category:   CategoryMalware,
		Severity:   SeverityCritical,
		Confidence: 0.9,
		Title:      "Encoded payload execution",
		Detect: func(lc lineContext, _ Config) []string {
			if encodedPayloadPattern.MatchString(lc.Raw) && encodedExecPattern.MatchString(lc.Raw) {
				return []string{"Base64-decoded content is executed on the same line"}
			}
			return nil
		},
	},
	{
		ID:         "malware/dynamic-exec",
		Category:   CategoryMalware,
		Severity:   SeverityCritical,
		Confidence: 0.85,
		Title:      "Dynamic code execution",
		Detect:     detectMatch(dynamicExecPattern, "eval/exec is applied to constructed content"),
	},
	{
		ID:         "malware/embedded-blob",
		Category:   CategoryMalware,
		Severity:   SeverityMedium,
		Confidence: 0.6,
		Title:      "Large embedded encoded blob",
		Detect: func(lc lineContext, cfg Config) []string {
			blob := base64BlobPattern.FindString(lc.Raw)
			if blob == "" || len(blob) < cfg.BlobMinLength {
				return nil
			}
			// long URLs and inline image data are not payloads
			if urlPattern.MatchString(lc.Raw) || dataURIPattern.MatchString(lc.Raw) {
				return nil
			}
			return []string{fmt.Sprintf("Line carries a %d-character base64-like blob", len(blob))}
		},
	},
	{
		ID:         "malware/hex-payload",
		Category:   CategoryMalware,
		Severity:   SeverityHigh,
		Confidence: 0.8,
		Title:      "Hex or charcode encoded payload",
		Detect: func(lc lineContext, _ Config) []string {
			if hexEscapePattern.MatchString(lc.Raw) || charCodePattern.MatchString(lc.Raw) {
				return []string{"Payload is obfuscated with hex escapes or character codes"}
			}
			return nil
		},
	},
	{
		ID:         "malware/miner",
		Category:   CategoryMalware,
		Severity:   SeverityCritical,
		Confidence: 0.95,
		Title:      "Cryptocurrency miner reference",
		Detect:     detectMatch(minerPattern, "Line references mining pools, binaries, or algorithms"),
	},
	{
		ID:         "malware/persistence-cron",
		Category:   CategoryMalware,
		Severity:   SeverityHigh,
		Confidence: 0.8,
		Title:      "Persistence via scheduler",
		Detect:     detectMatch(cronPersistPattern, "Code installs a cron job or launchd agent"),
	},
	{
		ID:         "persistence/service",
		Category:   CategoryBehaviorMismatch,
		Severity:   SeverityMedium,
		Confidence: 0.6,
		Title:      "Service enabled or started",
		// systemctl enable/start is routine in devops skills, hence the
		// downgrade from the malware tier
		Detect: detectMatch(servicePersistPattern, "Code enables or starts a system service"),
	},
	{
		ID:         "persistence/shell-profile",
		Category:   CategoryBehaviorMismatch,
		Severity:   SeverityMedium,
		Confidence: 0.65,
		Title:      "Shell profile modification",
		Detect: func(lc lineContext, _ Config) []string {
			// only an actual append or write counts; merely mentioning
			// .bashrc is documentation
			if profileFilePattern.MatchString(lc.Raw) && profileWritePattern.MatchString(lc.Raw) {
				return []string{"Code appends to or overwrites a shell profile file"}
			}
			return nil
		},
	},
	{
		ID:         "malware/shadow-access",
		Category:   CategoryMalware,
		Severity:   SeverityCritical,
		Confidence: 0.95,
		Title:      "Password hash file access",
		Detect:     detectMatch(shadowFilePattern, "Code touches /etc/shadow"),
	},
	{
		ID:         "malware/credential-exfil",
		Category:   CategoryMalware,
		Severity:   SeverityCritical,
		Confidence: 0.9,
		Title:      "Credential file exfiltration",
		Detect: func(lc lineContext, _ Config) []string {
			if m := credentialFilePattern.FindString(lc.Raw); m != "" && lc.hasNetworkSignal() {
				return []string{fmt.Sprintf("Credential file %q is combined with a network call", m)}
			}
			return nil
		},
	},
	{
		ID:         "exfil/credential-access",
		Category:   CategoryDataExfiltration,
		Severity:   SeverityHigh,
		Confidence: 0.7,
		Title:      "Credential file access",
		Detect: func(lc lineContext, _ Config) []string {
			if m := credentialFilePattern.FindString(lc.Raw); m != "" && !lc.hasNetworkSignal() {
				return []string{fmt.Sprintf("Code reads credential file %q", m)}
			}
			return nil
		},
	},
	{
		ID:         "exfil/credential-helper",
		Category:   CategoryDataExfiltration,
		Severity:   SeverityMedium,
		Confidence: 0.5,
		Title:      "Credential helper usage",
		Detect: func(lc lineContext, _ Config) []string {
			if credentialFilePattern.MatchString(lc.Raw) {
				return nil
			}
			if credentialHelperPattern.MatchString(lc.Raw) {
				return []string{"Code invokes a credential store or helper"}
			}
			return nil
		},
	},
	{
		ID:         "malware/security-tamper",
		Category:   CategoryMalware,
		Severity:   SeverityCritical,
		Confidence: 0.95,
		Title:      "Security tooling tampered with",
		Detect:     detectMatch(tamperPattern, "Code disables firewall, MAC enforcement, or endpoint protection"),
	},
}

package analyzer

import (
	"regexp"
	"strings"
)

// fenceState is the two-state machine tracking fenced code blocks.
type fenceState int

const (
	stateProse fenceState = iota
	stateCode
)

// fenceTracker classifies lines as prose or fenced code. A line whose
// trimmed text starts with three backticks toggles the state. Fences cannot
// nest; an odd number of fence lines leaves the tracker in code state for
// the rest of the document, which is accepted behavior.
type fenceTracker struct {
	state fenceState
}

// observe advances the tracker for one line and classifies it.
// Fence marker lines themselves are reported as neither prose nor code
// content (isFence true); detectors skip them.
func (t *fenceTracker) observe(trimmed string) (inCode, isFence bool) {
	if strings.HasPrefix(trimmed, "```") {
		if t.state == stateProse {
			t.state = stateCode
		} else {
			t.state = stateProse
		}
		return false, true
	}
	return t.state == stateCode, false
}

// lineContext is the per-line view handed to every detection rule.
type lineContext struct {
	Raw     string
	Trimmed string
	Lower   string
	Number  int // 1-based
	InCode  bool
}

// Shared signal patterns consulted by several rules. A "network signal"
// marks lines that move data over the network; an "execution context"
// marks lines that download or run remote content.
var (
	networkSignalPattern = regexp.MustCompile(`(?i)(\bcurl\s|\bwget\s|fetch\(|axios\.|requests\.(get|post|put)|urllib|https?://|\bnc\s)`)

	executionContextPattern = regexp.MustCompile(`(?i)(\bcurl\b|\bwget\b|fetch\(|axios\.|requests\.|urllib|invoke-webrequest|http\.get)`)
)

func (lc lineContext) hasNetworkSignal() bool {
	return networkSignalPattern.MatchString(lc.Raw)
}

func (lc lineContext) hasExecutionContext() bool {
	return executionContextPattern.MatchString(lc.Raw)
}

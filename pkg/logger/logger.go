// Package logger provides namespaced debug logging gated by the
// SKILLSCAN_DEBUG environment variable.
//
// Each package creates its own namespaced logger at init time:
//
//	var log = logger.New("analyzer:rules")
//
// Output is written to stderr only when SKILLSCAN_DEBUG matches the
// namespace. The variable accepts a comma-separated list of patterns,
// where "*" matches everything and a trailing "*" matches a prefix:
//
//	SKILLSCAN_DEBUG=*                 # everything
//	SKILLSCAN_DEBUG=analyzer:*        # all analyzer loggers
//	SKILLSCAN_DEBUG=cli:scan,fetch:*  # specific namespaces
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Logger writes namespaced debug messages to stderr.
type Logger struct {
	namespace string
	enabled   bool
}

var (
	patternsOnce sync.Once
	patterns     []string
)

func debugPatterns() []string {
	patternsOnce.Do(func() {
		value := os.Getenv("SKILLSCAN_DEBUG")
		if value == "" {
			return
		}
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
	})
	return patterns
}

func matches(namespace string, patterns []string) bool {
	for _, p := range patterns {
		if p == "*" || p == namespace {
			return true
		}
		if strings.HasSuffix(p, "*") && strings.HasPrefix(namespace, strings.TrimSuffix(p, "*")) {
			return true
		}
	}
	return false
}

// New creates a logger for the given namespace. The enabled check happens
// once at construction, so disabled loggers cost a single branch per call.
func New(namespace string) *Logger {
	return &Logger{namespace: namespace, enabled: matches(namespace, debugPatterns())}
}

// Printf logs a formatted message when the namespace is enabled.
func (l *Logger) Printf(format string, args ...any) {
	if !l.enabled {
		return
	}
	fmt.Fprintf(os.Stderr, "[%s] %s\n", l.namespace, fmt.Sprintf(format, args...))
}

// Print logs a message when the namespace is enabled.
func (l *Logger) Print(args ...any) {
	if !l.enabled {
		return
	}
	fmt.Fprintf(os.Stderr, "[%s] %s\n", l.namespace, fmt.Sprint(args...))
}

// Enabled reports whether this logger emits output.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Package constants defines shared constants for the skillscan CLI.
package constants

// BinaryName is the name of the CLI binary as invoked by users.
const BinaryName = "skillscan"

// DebugEnvVar is the environment variable that enables namespaced debug logging.
const DebugEnvVar = "SKILLSCAN_DEBUG"

// DefaultSkillFileName is the conventional file name for a skill's entry
// document within a repository.
const DefaultSkillFileName = "SKILL.md"

// DefaultFetchConcurrency is the default number of concurrent remote file
// fetches. Bounded to stay well within GitHub API secondary rate limits.
const DefaultFetchConcurrency = 10

// DefaultScanConcurrency is the default number of documents analyzed in
// parallel by the scan runner.
const DefaultScanConcurrency = 4

// MaxSnippetLength is the maximum length of a code snippet attached to a
// finding before truncation.
const MaxSnippetLength = 100

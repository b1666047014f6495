package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/github/skillscan/pkg/analyzer"
	"github.com/github/skillscan/pkg/console"
	"github.com/github/skillscan/pkg/constants"
	"github.com/github/skillscan/pkg/fetch"
	"github.com/github/skillscan/pkg/logger"
	"github.com/github/skillscan/pkg/scan"
)

var scanLog = logger.New("cli:scan")

// FileReport is the per-file portion of the JSON scan report.
type FileReport struct {
	Path     string             `json:"path"`
	Name     string             `json:"name,omitempty"`
	ScanID   string             `json:"scan_id,omitempty"`
	Status   scan.Status        `json:"status"`
	Error    string             `json:"error,omitempty"`
	Findings []analyzer.Finding `json:"findings"`
}

// Report is the JSON scan report for a whole invocation.
type Report struct {
	Target string       `json:"target"`
	Files  []FileReport `json:"files"`
}

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	var (
		jsonOutput  bool
		failOn      string
		paths       []string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "scan [target]",
		Short: "Scan skill files for risky patterns",
		Long: `Scan skill markdown files for patterns associated with data exfiltration,
privilege escalation, destructive behavior, and malware delivery.

The target is a local file, a local directory (scanned recursively for
markdown files), or a GitHub repository spec of the form owner/repo[@ref].`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if failOn != "" && !analyzer.Severity(failOn).IsValid() {
				return fmt.Errorf("invalid --fail-on value %q: must be low, medium, high, or critical", failOn)
			}
			return runScan(cmd.Context(), args[0], scanOptions{
				jsonOutput:  jsonOutput,
				failOn:      analyzer.Severity(failOn),
				paths:       paths,
				concurrency: concurrency,
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the scan report as JSON")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "Exit non-zero when a finding at or above this severity exists (low, medium, high, critical)")
	cmd.Flags().StringArrayVar(&paths, "path", nil, "File path to fetch from a remote repository (repeatable, default SKILL.md)")
	cmd.Flags().IntVar(&concurrency, "concurrency", constants.DefaultScanConcurrency, "Number of documents analyzed in parallel")

	return cmd
}

type scanOptions struct {
	jsonOutput  bool
	failOn      analyzer.Severity
	paths       []string
	concurrency int
}

func runScan(ctx context.Context, target string, opts scanOptions) error {
	docs, err := collectDocuments(ctx, target, opts.paths)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no markdown files found in %s", target)
	}
	scanLog.Printf("Collected %d documents from %s", len(docs), target)

	store := scan.NewMemoryStore()
	runner := scan.NewRunner(analyzer.NewDefault(), store, opts.concurrency)
	results := runner.Run(ctx, docs)

	report := Report{Target: target}
	for _, res := range results {
		fileReport := FileReport{
			Path:     res.Document.Path,
			Name:     analyzer.ExtractName(res.Document.Content),
			Status:   scan.StatusCompleted,
			Findings: res.Findings,
		}
		if fileReport.Findings == nil {
			fileReport.Findings = []analyzer.Finding{}
		}
		if res.Scan != nil {
			fileReport.ScanID = res.Scan.ID
		}
		if res.Err != nil {
			fileReport.Status = scan.StatusFailed
			fileReport.Error = res.Err.Error()
		}
		report.Files = append(report.Files, fileReport)
	}

	if opts.jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return err
		}
	} else {
		renderReport(report)
	}

	return checkFailOn(report, opts.failOn)
}

// collectDocuments resolves a target into scan documents. Remote fetch
// failures are carried on the document so the runner records them as
// failed scans instead of aborting the batch.
func collectDocuments(ctx context.Context, target string, paths []string) ([]scan.Document, error) {
	if info, err := os.Stat(target); err == nil {
		if info.IsDir() {
			return collectLocalDir(target)
		}
		return collectLocalFile(target)
	}

	repo, err := fetch.ParseRepoRef(target)
	if err != nil {
		return nil, fmt.Errorf("target %q is neither a local path nor a repository spec", target)
	}
	if len(paths) == 0 {
		paths = []string{constants.DefaultSkillFileName}
	}

	fetcher, err := fetch.New()
	if err != nil {
		return nil, err
	}

	var docs []scan.Document
	for _, result := range fetcher.FetchFiles(ctx, repo, paths) {
		docs = append(docs, scan.Document{
			SkillID:  repo.String() + ":" + result.Path,
			Path:     result.Path,
			Content:  result.Content,
			FetchErr: result.Err,
		})
	}
	return docs, nil
}

func collectLocalFile(path string) ([]scan.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return []scan.Document{{SkillID: path, Path: path, Content: string(content)}}, nil
}

func collectLocalDir(dir string) ([]scan.Document, error) {
	var docs []scan.Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// skip hidden directories like .git
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		docs = append(docs, scan.Document{SkillID: path, Path: path, Content: string(content)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

func renderReport(report Report) {
	totalFindings := 0
	var rows []console.SummaryRow

	for _, file := range report.Files {
		if file.Error != "" {
			fmt.Println(console.FormatErrorMessage(fmt.Sprintf("%s: %s", file.Path, file.Error)))
			continue
		}
		if Verbose() {
			fmt.Println(console.FormatInfoMessage(fmt.Sprintf("Scanned %s: %d finding(s)", file.Path, len(file.Findings))))
		}
		for _, f := range file.Findings {
			fmt.Print(console.FormatFinding(console.FindingDisplay{
				File:        file.Path,
				Line:        f.LineNumber,
				Severity:    string(f.Severity),
				Category:    string(f.Category),
				Title:       f.Title,
				Description: f.Description,
				Snippet:     f.CodeSnippet,
			}))
		}
		totalFindings += len(file.Findings)
		rows = append(rows, console.SummaryRow{
			File:     file.Path,
			Name:     file.Name,
			Findings: len(file.Findings),
			Highest:  string(analyzer.MaxSeverity(file.Findings)),
		})
	}

	if len(rows) > 0 {
		fmt.Print(console.RenderSummaryTable(rows))
	}
	if totalFindings == 0 {
		fmt.Println(console.FormatSuccessMessage("No findings"))
	} else {
		fmt.Println(console.FormatWarningMessage(fmt.Sprintf("%d finding(s) across %d file(s)", totalFindings, len(report.Files))))
	}
}

func checkFailOn(report Report, failOn analyzer.Severity) error {
	if failOn == "" {
		return nil
	}
	for _, file := range report.Files {
		if file.Error != "" {
			return fmt.Errorf("scan of %s failed: %s", file.Path, file.Error)
		}
		for _, f := range file.Findings {
			if f.Severity.Rank() >= failOn.Rank() {
				return fmt.Errorf("finding %q in %s is at or above severity %s", f.Title, file.Path, failOn)
			}
		}
	}
	return nil
}

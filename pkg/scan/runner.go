package scan

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/github/skillscan/pkg/analyzer"
	"github.com/github/skillscan/pkg/constants"
	"github.com/github/skillscan/pkg/logger"
)

var log = logger.New("scan:runner")

// Document is one skill file queued for analysis. FetchErr carries an
// upstream retrieval failure; the runner records it as a failed scan
// without invoking the engine.
type Document struct {
	SkillID  string
	Path     string
	Content  string
	FetchErr error
}

// Result is the outcome of running one document through the engine.
// Findings from different documents are never merged: line numbers and
// snippets are meaningless outside their originating document.
type Result struct {
	Document Document
	Scan     *Scan
	Findings []analyzer.Finding
	Err      error
}

// Runner drives the engine over batches of documents and persists the
// outcome through a Store.
type Runner struct {
	analyzer *analyzer.Analyzer
	store    Store
	workers  int
}

// NewRunner creates a Runner. workers < 1 falls back to the default.
func NewRunner(a *analyzer.Analyzer, store Store, workers int) *Runner {
	if workers < 1 {
		workers = constants.DefaultScanConcurrency
	}
	return &Runner{analyzer: a, store: store, workers: workers}
}

// Run analyzes each document concurrently and returns results in input
// order. Documents that fail to persist are retried once as a batch;
// remaining failures are surfaced on their results for the caller to
// retry manually.
func (r *Runner) Run(ctx context.Context, docs []Document) []Result {
	log.Printf("Running scan batch: documents=%d, workers=%d", len(docs), r.workers)
	results := make([]Result, len(docs))

	r.runBatch(ctx, docs, nil, results)

	// collect persistence failures eligible for the single automatic retry
	var retry []int
	for i, res := range results {
		if res.Err != nil && res.Document.FetchErr == nil {
			retry = append(retry, i)
		}
	}
	if len(retry) > 0 {
		log.Printf("Retrying %d failed documents once", len(retry))
		r.runBatch(ctx, docs, retry, results)
	}

	return results
}

// runBatch processes either all documents (indexes nil) or the given
// subset, writing each outcome into results at its original index.
func (r *Runner) runBatch(ctx context.Context, docs []Document, indexes []int, results []Result) {
	if indexes == nil {
		indexes = make([]int, len(docs))
		for i := range docs {
			indexes[i] = i
		}
	}

	p := pool.New().
		WithContext(ctx).
		WithMaxGoroutines(r.workers)

	for _, idx := range indexes {
		idx := idx
		p.Go(func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				results[idx] = Result{Document: docs[idx], Err: ctx.Err()}
				return nil
			default:
			}
			results[idx] = r.runOne(docs[idx])
			return nil
		})
	}
	_ = p.Wait()
}

// runOne drives the full lifecycle for a single document: pending →
// scanning → completed, or failed with the underlying error message
// attached.
func (r *Runner) runOne(doc Document) Result {
	scan, err := r.store.CreateScan(doc.SkillID)
	if err != nil {
		return Result{Document: doc, Err: fmt.Errorf("failed to create scan: %w", err)}
	}

	if doc.FetchErr != nil {
		msg := fmt.Sprintf("failed to fetch %s: %v", doc.Path, doc.FetchErr)
		_ = r.store.UpdateScanStatus(scan.ID, StatusFailed, msg)
		return Result{Document: doc, Scan: scan, Err: doc.FetchErr}
	}

	if err := r.store.UpdateScanStatus(scan.ID, StatusScanning, ""); err != nil {
		return Result{Document: doc, Scan: scan, Err: err}
	}

	findings := r.analyzer.AnalyzeDocument(doc.Content, doc.SkillID, scan.ID)

	if err := r.store.SaveFindings(scan.ID, findings); err != nil {
		// never silently drop findings: the scan is marked failed with
		// the persistence error attached
		_ = r.store.UpdateScanStatus(scan.ID, StatusFailed, err.Error())
		return Result{Document: doc, Scan: scan, Findings: findings, Err: err}
	}

	if err := r.store.UpdateScanStatus(scan.ID, StatusCompleted, ""); err != nil {
		return Result{Document: doc, Scan: scan, Findings: findings, Err: err}
	}

	log.Printf("Scan completed: scan=%s, skill=%s, findings=%d", scan.ID, doc.SkillID, len(findings))
	return Result{Document: doc, Scan: scan, Findings: findings}
}

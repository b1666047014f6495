// Package fetch retrieves skill files from GitHub repositories.
//
// Fetches run through the GitHub REST contents API with bounded
// concurrency. Each file fails independently: a 404 or network error is
// recorded on that file's result and never aborts the batch.
package fetch

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/sourcegraph/conc/pool"

	"github.com/github/skillscan/pkg/constants"
	"github.com/github/skillscan/pkg/logger"
)

var log = logger.New("fetch:fetch")

// RepoRef identifies a repository and optional ref.
type RepoRef struct {
	Owner string
	Repo  string
	Ref   string // empty means the default branch
}

// String returns the owner/repo[@ref] form of the reference.
func (r RepoRef) String() string {
	if r.Ref == "" {
		return r.Owner + "/" + r.Repo
	}
	return r.Owner + "/" + r.Repo + "@" + r.Ref
}

// ParseRepoRef parses "owner/repo" or "owner/repo@ref".
func ParseRepoRef(spec string) (RepoRef, error) {
	ref := ""
	if idx := strings.Index(spec, "@"); idx != -1 {
		ref = spec[idx+1:]
		spec = spec[:idx]
	}
	parts := strings.Split(spec, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, fmt.Errorf("invalid repository spec %q: expected owner/repo[@ref]", spec)
	}
	return RepoRef{Owner: parts[0], Repo: parts[1], Ref: ref}, nil
}

// FileResult is the outcome of fetching one file. Exactly one of Content
// and Err is meaningful.
type FileResult struct {
	Path    string
	Content string
	Err     error
}

// restClient is the subset of the go-gh REST client used here, extracted
// for testing.
type restClient interface {
	Get(path string, response any) error
}

// Fetcher downloads files from a GitHub repository.
type Fetcher struct {
	client      restClient
	concurrency int
}

// New creates a Fetcher using the ambient gh/GitHub CLI authentication.
func New() (*Fetcher, error) {
	client, err := api.DefaultRESTClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub API client: %w", err)
	}
	return &Fetcher{client: client, concurrency: constants.DefaultFetchConcurrency}, nil
}

// NewWithClient creates a Fetcher with a custom client and concurrency,
// used by tests and callers with their own transport.
func NewWithClient(client restClient, concurrency int) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Fetcher{client: client, concurrency: concurrency}
}

// contentsResponse is the subset of the contents API payload we read.
type contentsResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// FetchFiles retrieves the named files and returns results in request
// order. Individual failures are recorded per file; the only batch-level
// failure mode is context cancellation, which surfaces as per-file errors
// on the files not yet fetched.
func (f *Fetcher) FetchFiles(ctx context.Context, repo RepoRef, paths []string) []FileResult {
	log.Printf("Fetching %d files from %s with concurrency %d", len(paths), repo, f.concurrency)
	results := make([]FileResult, len(paths))

	p := pool.New().
		WithContext(ctx).
		WithMaxGoroutines(f.concurrency)

	for i, path := range paths {
		i, path := i, path
		p.Go(func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				results[i] = FileResult{Path: path, Err: ctx.Err()}
				return nil
			default:
			}
			content, err := f.fetchOne(repo, path)
			if err != nil {
				log.Printf("Fetch failed: path=%s, err=%v", path, err)
			}
			results[i] = FileResult{Path: path, Content: content, Err: err}
			// failures are isolated per file, never returned to the pool
			return nil
		})
	}
	// the pool only errors on context cancellation, already recorded per file
	_ = p.Wait()

	return results
}

func (f *Fetcher) fetchOne(repo RepoRef, path string) (string, error) {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	endpoint := fmt.Sprintf("repos/%s/%s/contents/%s", repo.Owner, repo.Repo, strings.Join(segments, "/"))
	if repo.Ref != "" {
		endpoint += "?ref=" + url.QueryEscape(repo.Ref)
	}

	var response contentsResponse
	if err := f.client.Get(endpoint, &response); err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", path, err)
	}

	if response.Encoding != "base64" {
		return response.Content, nil
	}
	// the contents API wraps base64 payloads with newlines
	raw := strings.ReplaceAll(response.Content, "\n", "")
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return string(decoded), nil
}

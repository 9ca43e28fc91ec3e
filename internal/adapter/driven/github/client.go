// Package github implements the CheckRunService port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/wborn/checkstyle-github-action/internal/domain/model"
	"github.com/wborn/checkstyle-github-action/internal/domain/port/driven"
)

// DefaultAPIURL is the REST endpoint of github.com.
const DefaultAPIURL = "https://api.github.com"

// Compile-time interface satisfaction check.
var _ driven.CheckRunService = (*Client)(nil)

// Client implements the driven.CheckRunService port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching; the check run list is
//     fetched once per batch and mostly unchanged between calls)
//  2. revalidateTransport (every cached GET is revalidated, never served blind)
//  3. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  4. go-github (GitHub REST API client with token auth)
//
// apiURL selects a GitHub Enterprise Server endpoint; empty means github.com.
func NewClient(token, apiURL string) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(&revalidateTransport{next: cacheTransport})
	rateLimitClient.Timeout = 30 * time.Second

	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	if apiURL != "" && strings.TrimSuffix(apiURL, "/") != DefaultAPIURL {
		u, err := url.Parse(strings.TrimSuffix(apiURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing API URL %q: %w", apiURL, err)
		}
		client.BaseURL = u
	}

	return &Client{gh: client}, nil
}

// revalidateTransport asks the cache to revalidate instead of trusting the
// max-age GitHub sends, so a run created by the previous batch is never
// hidden by a cached list. Unchanged lists come back as 304 and do not count
// against the primary rate limit.
type revalidateTransport struct {
	next http.RoundTripper
}

func (t *revalidateTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet || req.Header.Get("Cache-Control") != "" {
		return t.next.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("Cache-Control", "max-age=0")
	return t.next.RoundTrip(req)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// ListCheckRuns retrieves all check runs for the given ref (commit SHA or branch).
// It handles pagination automatically and maps go-github types to domain model types.
func (c *Client) ListCheckRuns(ctx context.Context, repoFullName string, ref string) ([]model.CheckRun, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.ListCheckRunsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var allRuns []model.CheckRun

	for {
		result, resp, err := c.gh.Checks.ListCheckRunsForRef(ctx, owner, repo, ref, opts)
		if err != nil {
			return nil, fmt.Errorf("listing check runs for %s@%s (page %d): %w", repoFullName, ref, opts.Page, err)
		}

		logRateLimit(resp, repoFullName+"/check-runs", opts.Page, len(result.CheckRuns))

		for _, cr := range result.CheckRuns {
			allRuns = append(allRuns, mapCheckRun(cr))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allRuns, nil
}

// CreateCheckRun creates a check run on report.HeadSHA and returns its ID.
func (c *Client) CreateCheckRun(ctx context.Context, repoFullName string, report model.CheckReport) (int64, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return 0, err
	}

	opts := gh.CreateCheckRunOptions{
		Name:       report.Name,
		HeadSHA:    report.HeadSHA,
		Status:     gh.Ptr(string(report.Status)),
		Conclusion: optionalConclusion(report),
		Output:     mapOutput(report.Output),
	}
	if report.ExternalID != "" {
		opts.ExternalID = gh.Ptr(report.ExternalID)
	}

	run, resp, err := c.gh.Checks.CreateCheckRun(ctx, owner, repo, opts)
	if err != nil {
		return 0, fmt.Errorf("creating check run %q on %s@%s: %w", report.Name, repoFullName, report.HeadSHA, err)
	}

	logRateLimit(resp, repoFullName+"/create-check-run", 0, len(report.Output.Annotations))
	return run.GetID(), nil
}

// UpdateCheckRun replaces status, conclusion and output of an existing check run.
// The API replaces output annotations rather than appending to them.
func (c *Client) UpdateCheckRun(ctx context.Context, repoFullName string, checkRunID int64, report model.CheckReport) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	opts := gh.UpdateCheckRunOptions{
		Name:       report.Name,
		Status:     gh.Ptr(string(report.Status)),
		Conclusion: optionalConclusion(report),
		Output:     mapOutput(report.Output),
	}
	if report.ExternalID != "" {
		opts.ExternalID = gh.Ptr(report.ExternalID)
	}

	_, resp, err := c.gh.Checks.UpdateCheckRun(ctx, owner, repo, checkRunID, opts)
	if err != nil {
		return fmt.Errorf("updating check run %d on %s: %w", checkRunID, repoFullName, err)
	}

	logRateLimit(resp, repoFullName+"/update-check-run", 0, len(report.Output.Annotations))
	return nil
}

// optionalConclusion returns the conclusion pointer, which the API only
// accepts for completed runs.
func optionalConclusion(report model.CheckReport) *string {
	if report.Status != model.CheckStatusCompleted || report.Conclusion == "" {
		return nil
	}
	return gh.Ptr(string(report.Conclusion))
}

// mapOutput converts a domain CheckRunOutput to the go-github request type.
func mapOutput(out model.CheckRunOutput) *gh.CheckRunOutput {
	annotations := make([]*gh.CheckRunAnnotation, 0, len(out.Annotations))
	for _, a := range out.Annotations {
		annotations = append(annotations, mapAnnotation(a))
	}

	return &gh.CheckRunOutput{
		Title:       gh.Ptr(out.Title),
		Summary:     gh.Ptr(out.Summary),
		Annotations: annotations,
	}
}

// mapAnnotation converts a domain Annotation to a go-github CheckRunAnnotation.
// Columns are only sent for single-line annotations; the API rejects them otherwise.
func mapAnnotation(a model.Annotation) *gh.CheckRunAnnotation {
	ann := &gh.CheckRunAnnotation{
		Path:            gh.Ptr(a.Path),
		StartLine:       gh.Ptr(a.StartLine),
		EndLine:         gh.Ptr(a.EndLine),
		AnnotationLevel: gh.Ptr(string(a.Level)),
		Message:         gh.Ptr(a.Message),
	}
	if a.HasColumns() {
		ann.StartColumn = gh.Ptr(a.StartColumn)
		end := a.EndColumn
		if end < a.StartColumn {
			end = a.StartColumn
		}
		ann.EndColumn = gh.Ptr(end)
	}
	if a.Title != "" {
		ann.Title = gh.Ptr(a.Title)
	}
	return ann
}

// mapCheckRun converts a go-github CheckRun to a domain model CheckRun.
func mapCheckRun(cr *gh.CheckRun) model.CheckRun {
	return model.CheckRun{
		ID:      cr.GetID(),
		Name:    cr.GetName(),
		HeadSHA: cr.GetHeadSHA(),
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}

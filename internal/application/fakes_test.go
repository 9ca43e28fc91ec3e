package application_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wborn/checkstyle-github-action/internal/domain/model"
	"github.com/wborn/checkstyle-github-action/internal/domain/port/driven"
)

// --- Mock implementations ---

type createCall struct {
	Repo   string
	Report model.CheckReport
}

type updateCall struct {
	Repo       string
	CheckRunID int64
	Report     model.CheckReport
}

// mockCheckRunService keeps created runs in memory so that a later list call
// sees runs created by an earlier batch.
type mockCheckRunService struct {
	runs      []model.CheckRun
	nextID    int64
	lists     int
	creates   []createCall
	updates   []updateCall
	listErr   error
	createErr error
	updateErr error
	// failUpdateAt makes the n-th update call (1-based) fail with updateErr.
	failUpdateAt int
}

func (m *mockCheckRunService) ListCheckRuns(_ context.Context, _ string, ref string) ([]model.CheckRun, error) {
	m.lists++
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.CheckRun
	for _, r := range m.runs {
		if r.HeadSHA == ref {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockCheckRunService) CreateCheckRun(_ context.Context, repo string, report model.CheckReport) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.creates = append(m.creates, createCall{Repo: repo, Report: report})
	m.nextID++
	id := 1000 + m.nextID
	m.runs = append(m.runs, model.CheckRun{ID: id, Name: report.Name, HeadSHA: report.HeadSHA})
	return id, nil
}

func (m *mockCheckRunService) UpdateCheckRun(_ context.Context, repo string, id int64, report model.CheckReport) error {
	if m.updateErr != nil && (m.failUpdateAt == 0 || m.failUpdateAt == len(m.updates)+1) {
		return m.updateErr
	}
	m.updates = append(m.updates, updateCall{Repo: repo, CheckRunID: id, Report: report})
	return nil
}

type sinkCall struct {
	Level   string
	Message string
	Props   driven.AnnotationProperties
}

type mockSink struct {
	calls []sinkCall
}

func (m *mockSink) Error(message string, props driven.AnnotationProperties) {
	m.calls = append(m.calls, sinkCall{Level: "error", Message: message, Props: props})
}

type mockSearcher struct {
	result   model.SearchResult
	err      error
	patterns []string
}

func (m *mockSearcher) Search(_ context.Context, pattern string) (model.SearchResult, error) {
	m.patterns = append(m.patterns, pattern)
	return m.result, m.err
}

type mockParser struct {
	byFile map[string][]model.Annotation
	err    error
	files  []string
}

func (m *mockParser) ParseAnnotations(_ context.Context, file string) ([]model.Annotation, error) {
	m.files = append(m.files, file)
	if m.err != nil {
		return nil, m.err
	}
	return m.byFile[file], nil
}

type mockLedger struct {
	records []model.UploadRecord
	err     error
}

func (m *mockLedger) RecordUpload(_ context.Context, rec model.UploadRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *mockLedger) ListByInvocation(_ context.Context, invocationID string) ([]model.UploadRecord, error) {
	var out []model.UploadRecord
	for _, r := range m.records {
		if r.InvocationID == invocationID {
			out = append(out, r)
		}
	}
	return out, nil
}

// --- Helpers ---

// newTestLogger returns a logger writing text records at info level and above to buf.
func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo})), buf
}

// logLines splits captured log output into non-empty lines.
func logLines(buf *bytes.Buffer) []string {
	var lines []string
	for _, l := range strings.Split(buf.String(), "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// makeAnnotations builds n single-line failures in a.java, lines 1..n.
func makeAnnotations(n int, level model.AnnotationLevel) []model.Annotation {
	out := make([]model.Annotation, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, model.Annotation{
			Path:      "src/A.java",
			StartLine: i,
			EndLine:   i,
			Level:     level,
			Message:   fmt.Sprintf("violation %d", i),
		})
	}
	return out
}

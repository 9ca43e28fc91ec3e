package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wborn/checkstyle-github-action/internal/domain/model"
	"github.com/wborn/checkstyle-github-action/internal/domain/port/driven"
)

// CheckReporter upserts a named check run on the current commit, one write
// per batch of annotations.
type CheckReporter struct {
	checks       driven.CheckRunService
	ledger       driven.ReportLedger
	invocationID string
	batchLimit   int
	logger       *slog.Logger
}

// NewCheckReporter creates a CheckReporter. ledger may be nil when no upload
// ledger is configured. batchLimit is normally MaxAnnotationsPerRequest.
func NewCheckReporter(
	checks driven.CheckRunService,
	ledger driven.ReportLedger,
	invocationID string,
	batchLimit int,
	logger *slog.Logger,
) *CheckReporter {
	return &CheckReporter{
		checks:       checks,
		ledger:       ledger,
		invocationID: invocationID,
		batchLimit:   batchLimit,
		logger:       logger,
	}
}

// Report writes annotations to the check run named by mode. The conclusion
// and the total count are computed once over the full set; every batch
// carries both. Batches are written strictly in order and the first failure
// aborts the remaining ones.
//
// Each batch repeats the list-and-match lookup instead of caching the run ID
// from the first write, so a run created elsewhere between two batches is
// updated rather than duplicated.
func (r *CheckReporter) Report(ctx context.Context, execCtx model.ExecutionContext, mode model.SeparateMode, annotations []model.Annotation) error {
	if execCtx.Repository == "" {
		return errors.New("reporting check run: repository is not set")
	}
	headSHA := execCtx.HeadSHA()
	if headSHA == "" {
		return errors.New("reporting check run: commit SHA is not set")
	}

	conclusion := ComputeConclusion(annotations)
	total := len(annotations)
	batches := Batch(annotations, r.batchLimit)

	uploaded := 0
	for i, batch := range batches {
		report := model.CheckReport{
			Name:       mode.Name,
			HeadSHA:    headSHA,
			ExternalID: r.invocationID,
			Status:     model.CheckStatusCompleted,
			Conclusion: conclusion,
			Output: model.CheckRunOutput{
				Title:       mode.Title,
				Summary:     violationSummary(total),
				Annotations: batch,
			},
		}

		checkRunID, action, err := r.upsert(ctx, execCtx.Repository, report)
		if err != nil {
			return fmt.Errorf("uploading batch %d/%d to check run %q on %s: %w", i+1, len(batches), mode.Name, headSHA, err)
		}

		uploaded += len(batch)
		r.logger.Info("annotations uploaded",
			"uploaded", uploaded,
			"total", total,
			"conclusion", conclusion,
			"check_run_id", checkRunID,
			"action", action,
		)

		r.record(ctx, model.UploadRecord{
			InvocationID: r.invocationID,
			Repository:   execCtx.Repository,
			HeadSHA:      headSHA,
			CheckName:    mode.Name,
			CheckRunID:   checkRunID,
			Action:       action,
			BatchIndex:   i,
			BatchSize:    len(batch),
			TotalCount:   total,
			Conclusion:   conclusion,
			RecordedAt:   time.Now().UTC(),
		})
	}

	return nil
}

// upsert looks the check run up by exact name on the report's commit and
// updates it, or creates it when absent.
func (r *CheckReporter) upsert(ctx context.Context, repoFullName string, report model.CheckReport) (int64, model.UploadAction, error) {
	runs, err := r.checks.ListCheckRuns(ctx, repoFullName, report.HeadSHA)
	if err != nil {
		return 0, "", err
	}

	existing := findCheckRun(runs, report.Name)
	if existing == nil {
		id, err := r.checks.CreateCheckRun(ctx, repoFullName, report)
		if err != nil {
			return 0, "", err
		}
		r.logger.Debug("check run created", "id", id, "name", report.Name)
		return id, model.UploadActionCreated, nil
	}

	if err := r.checks.UpdateCheckRun(ctx, repoFullName, existing.ID, report); err != nil {
		return 0, "", err
	}
	r.logger.Debug("check run updated", "id", existing.ID, "name", report.Name)
	return existing.ID, model.UploadActionUpdated, nil
}

// record stores an upload in the ledger. The ledger is local bookkeeping, so
// a failure here is logged and does not abort reporting.
func (r *CheckReporter) record(ctx context.Context, rec model.UploadRecord) {
	if r.ledger == nil {
		return
	}
	if err := r.ledger.RecordUpload(ctx, rec); err != nil {
		r.logger.Warn("failed to record upload in ledger", "check_run_id", rec.CheckRunID, "error", err)
	}
}

// findCheckRun returns the first run whose name matches exactly, or nil.
func findCheckRun(runs []model.CheckRun, name string) *model.CheckRun {
	for i := range runs {
		if runs[i].Name == name {
			return &runs[i]
		}
	}
	return nil
}

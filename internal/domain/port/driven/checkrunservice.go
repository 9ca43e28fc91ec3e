package driven

import (
	"context"

	"github.com/wborn/checkstyle-github-action/internal/domain/model"
)

// CheckRunService defines the driven port for the GitHub Checks API.
type CheckRunService interface {
	// ListCheckRuns returns all check runs attached to the given ref.
	ListCheckRuns(ctx context.Context, repoFullName string, ref string) ([]model.CheckRun, error)
	// CreateCheckRun creates a check run and returns its ID.
	CreateCheckRun(ctx context.Context, repoFullName string, report model.CheckReport) (int64, error)
	// UpdateCheckRun replaces the status, conclusion and output of an existing check run.
	UpdateCheckRun(ctx context.Context, repoFullName string, checkRunID int64, report model.CheckReport) error
}

package driven

import (
	"context"

	"github.com/wborn/checkstyle-github-action/internal/domain/model"
)

// ReportLedger keeps a local record of check run writes.
type ReportLedger interface {
	// RecordUpload stores one batch upload.
	RecordUpload(ctx context.Context, rec model.UploadRecord) error
	// ListByInvocation returns the uploads of one invocation, in the order they were recorded.
	ListByInvocation(ctx context.Context, invocationID string) ([]model.UploadRecord, error)
}

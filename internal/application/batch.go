// Package application contains use-case orchestration services.
package application

import "github.com/wborn/checkstyle-github-action/internal/domain/model"

// MaxAnnotationsPerRequest is the GitHub Checks API limit on annotations per
// create or update request.
const MaxAnnotationsPerRequest = 50

// Batch splits annotations into consecutive, order-preserving windows of at
// most limit elements. The result always holds at least one batch: an empty
// input yields a single empty batch so that a "0 violations" report is still
// written. A non-positive limit disables splitting.
func Batch(annotations []model.Annotation, limit int) [][]model.Annotation {
	if limit <= 0 || len(annotations) <= limit {
		return [][]model.Annotation{annotations}
	}

	batches := make([][]model.Annotation, 0, (len(annotations)+limit-1)/limit)
	for start := 0; start < len(annotations); start += limit {
		end := min(start+limit, len(annotations))
		batches = append(batches, annotations[start:end:end])
	}
	return batches
}

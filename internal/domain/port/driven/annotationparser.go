package driven

import (
	"context"

	"github.com/wborn/checkstyle-github-action/internal/domain/model"
)

// AnnotationParser turns one result file into annotations, in file order.
type AnnotationParser interface {
	ParseAnnotations(ctx context.Context, file string) ([]model.Annotation, error)
}

package driven

import (
	"context"

	"github.com/wborn/checkstyle-github-action/internal/domain/model"
)

// ResultSearcher locates lint result files on disk.
type ResultSearcher interface {
	Search(ctx context.Context, pattern string) (model.SearchResult, error)
}

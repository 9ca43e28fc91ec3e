package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wborn/checkstyle-github-action/internal/application"
	"github.com/wborn/checkstyle-github-action/internal/domain/model"
)

func TestBatch_RoundTrip(t *testing.T) {
	for _, limit := range []int{1, 2, 3, 7, 50} {
		for n := 0; n <= 120; n++ {
			input := makeAnnotations(n, model.AnnotationLevelFailure)
			batches := application.Batch(input, limit)

			var joined []model.Annotation
			for _, b := range batches {
				joined = append(joined, b...)
			}
			if n == 0 {
				require.Len(t, batches, 1, "n=%d limit=%d", n, limit)
				assert.Empty(t, batches[0])
				continue
			}
			require.Equal(t, input, joined, "n=%d limit=%d", n, limit)

			for i, b := range batches {
				require.NotEmpty(t, b, "n=%d limit=%d batch=%d", n, limit, i)
				if i < len(batches)-1 {
					assert.Len(t, b, limit, "n=%d limit=%d batch=%d", n, limit, i)
				} else {
					assert.LessOrEqual(t, len(b), limit)
				}
			}
			assert.Len(t, batches, (n+limit-1)/limit, "n=%d limit=%d", n, limit)
		}
	}
}

func TestBatch(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		limit     int
		wantSizes []int
	}{
		{name: "empty input yields one empty batch", n: 0, limit: 50, wantSizes: []int{0}},
		{name: "under limit", n: 3, limit: 50, wantSizes: []int{3}},
		{name: "exactly limit", n: 50, limit: 50, wantSizes: []int{50}},
		{name: "one over limit", n: 51, limit: 50, wantSizes: []int{50, 1}},
		{name: "exact multiple", n: 150, limit: 50, wantSizes: []int{50, 50, 50}},
		{name: "short tail", n: 120, limit: 50, wantSizes: []int{50, 50, 20}},
		{name: "non-positive limit disables splitting", n: 120, limit: 0, wantSizes: []int{120}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := application.Batch(makeAnnotations(tt.n, model.AnnotationLevelWarning), tt.limit)

			sizes := make([]int, 0, len(batches))
			for _, b := range batches {
				sizes = append(sizes, len(b))
			}
			assert.Equal(t, tt.wantSizes, sizes)
		})
	}
}

func TestBatch_AppendDoesNotClobberNextBatch(t *testing.T) {
	input := makeAnnotations(4, model.AnnotationLevelNotice)
	batches := application.Batch(input, 2)
	require.Len(t, batches, 2)

	_ = append(batches[0], model.Annotation{Path: "other"})

	assert.Equal(t, "src/A.java", batches[1][0].Path)
	assert.Equal(t, 3, batches[1][0].StartLine)
}

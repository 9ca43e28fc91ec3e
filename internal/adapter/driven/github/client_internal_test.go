package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wborn/checkstyle-github-action/internal/domain/model"
)

func TestNewClient_BaseURL(t *testing.T) {
	tests := []struct {
		name   string
		apiURL string
		want   string
	}{
		{name: "default", apiURL: "", want: "https://api.github.com/"},
		{name: "explicit github.com", apiURL: "https://api.github.com", want: "https://api.github.com/"},
		{name: "enterprise server", apiURL: "https://ghe.example.com/api/v3", want: "https://ghe.example.com/api/v3/"},
		{name: "enterprise server trailing slash", apiURL: "https://ghe.example.com/api/v3/", want: "https://ghe.example.com/api/v3/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient("token", tt.apiURL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.gh.BaseURL.String())
		})
	}
}

func TestMapAnnotation_ColumnRules(t *testing.T) {
	tests := []struct {
		name      string
		in        model.Annotation
		wantStart *int
		wantEnd   *int
	}{
		{
			name: "no column",
			in:   model.Annotation{Path: "a", StartLine: 1, EndLine: 1},
		},
		{
			name:      "single line with column",
			in:        model.Annotation{Path: "a", StartLine: 1, EndLine: 1, StartColumn: 4, EndColumn: 9},
			wantStart: intPtr(4),
			wantEnd:   intPtr(9),
		},
		{
			name:      "end column defaults to start",
			in:        model.Annotation{Path: "a", StartLine: 1, EndLine: 1, StartColumn: 4},
			wantStart: intPtr(4),
			wantEnd:   intPtr(4),
		},
		{
			name: "multi-line drops columns",
			in:   model.Annotation{Path: "a", StartLine: 1, EndLine: 3, StartColumn: 4, EndColumn: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapAnnotation(tt.in)
			assert.Equal(t, tt.wantStart, got.StartColumn)
			assert.Equal(t, tt.wantEnd, got.EndColumn)
		})
	}
}

func TestSplitRepo(t *testing.T) {
	owner, repo, err := splitRepo("octo/app")
	require.NoError(t, err)
	assert.Equal(t, "octo", owner)
	assert.Equal(t, "app", repo)

	for _, bad := range []string{"", "octo", "/app", "octo/"} {
		_, _, err := splitRepo(bad)
		assert.Error(t, err, bad)
	}
}

func intPtr(v int) *int { return &v }

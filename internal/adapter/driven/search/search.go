// Package search implements the ResultSearcher port with doublestar globs.
package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/wborn/checkstyle-github-action/internal/domain/model"
	"github.com/wborn/checkstyle-github-action/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ResultSearcher = (*Searcher)(nil)

// Searcher finds result files matching one or more glob patterns.
//
// The pattern argument holds one pattern per line. Lines starting with "!"
// exclude matches, lines starting with "#" are comments. "**" matches any
// number of directories. A pattern naming an existing directory matches every
// file below it. Relative patterns resolve against the working directory.
type Searcher struct{}

// NewSearcher creates a Searcher.
func NewSearcher() *Searcher {
	return &Searcher{}
}

// Search returns matching regular files as absolute paths. Files keep the
// order of the patterns that found them, sorted within one pattern, and
// appear once.
func (s *Searcher) Search(ctx context.Context, pattern string) (model.SearchResult, error) {
	includes, excludes, err := splitPatterns(pattern)
	if err != nil {
		return model.SearchResult{}, err
	}
	if len(includes) == 0 {
		return model.SearchResult{}, fmt.Errorf("no search pattern in %q", pattern)
	}

	seen := make(map[string]bool)
	files := []string{}

	for _, include := range includes {
		if err := ctx.Err(); err != nil {
			return model.SearchResult{}, err
		}

		matches, err := doublestar.FilepathGlob(include, doublestar.WithFilesOnly())
		if err != nil {
			return model.SearchResult{}, fmt.Errorf("glob %q: %w", include, err)
		}
		sort.Strings(matches)

		for _, match := range matches {
			if seen[match] || excluded(match, excludes) {
				continue
			}
			seen[match] = true
			files = append(files, match)
		}
	}

	return model.SearchResult{
		FilesToUpload: files,
		RootDirectory: commonDirectory(files),
	}, nil
}

// splitPatterns separates include and exclude patterns and makes them absolute.
func splitPatterns(raw string) (includes, excludes []string, err error) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		negate := strings.HasPrefix(line, "!")
		line = strings.TrimSpace(strings.TrimPrefix(line, "!"))
		if line == "" {
			continue
		}

		abs, err := filepath.Abs(line)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve pattern %q: %w", line, err)
		}
		abs = expandDirectory(abs)

		if negate {
			excludes = append(excludes, abs)
		} else {
			includes = append(includes, abs)
		}
	}
	return includes, excludes, nil
}

// expandDirectory turns a literal directory path into a pattern for every
// file below it.
func expandDirectory(pattern string) string {
	if strings.ContainsAny(pattern, "*?[{") {
		return pattern
	}
	if info, err := os.Stat(pattern); err == nil && info.IsDir() {
		return filepath.Join(pattern, "**")
	}
	return pattern
}

func excluded(path string, excludes []string) bool {
	for _, ex := range excludes {
		if ok, _ := doublestar.PathMatch(ex, path); ok {
			return true
		}
	}
	return false
}

// commonDirectory returns the deepest directory containing every file.
func commonDirectory(files []string) string {
	if len(files) == 0 {
		return ""
	}

	common := filepath.Dir(files[0])
	for _, f := range files[1:] {
		dir := filepath.Dir(f)
		for !isWithin(dir, common) {
			parent := filepath.Dir(common)
			if parent == common {
				return common
			}
			common = parent
		}
	}
	return common
}

func isWithin(dir, root string) bool {
	if dir == root {
		return true
	}
	rel, err := filepath.Rel(root, dir)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

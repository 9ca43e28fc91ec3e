package github

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	gh "github.com/google/go-github/v82/github"

	"github.com/wborn/checkstyle-github-action/internal/domain/model"
)

// LoadExecutionContext builds the execution context from the environment
// variables GitHub Actions sets for every job. For pull request events the
// PR head commit is read from the event payload at GITHUB_EVENT_PATH. An
// unreadable payload is logged and the triggering commit is used instead;
// inline mode never needs a commit, and separate mode still reports on
// GITHUB_SHA.
func LoadExecutionContext(logger *slog.Logger) model.ExecutionContext {
	execCtx := model.ExecutionContext{
		Repository: os.Getenv("GITHUB_REPOSITORY"),
		SHA:        os.Getenv("GITHUB_SHA"),
		EventName:  os.Getenv("GITHUB_EVENT_NAME"),
		RunID:      os.Getenv("GITHUB_RUN_ID"),
	}

	if !isPullRequestEvent(execCtx.EventName) {
		return execCtx
	}

	eventPath := os.Getenv("GITHUB_EVENT_PATH")
	if eventPath == "" {
		return execCtx
	}

	headSHA, err := readPullRequestHeadSHA(eventPath)
	if err != nil {
		logger.Warn("pull request head unknown, using triggering commit",
			"event", execCtx.EventName,
			"sha", execCtx.SHA,
			"error", err,
		)
		return execCtx
	}
	execCtx.PullRequestHeadSHA = headSHA

	return execCtx
}

func isPullRequestEvent(name string) bool {
	switch name {
	case "pull_request", "pull_request_target", "pull_request_review", "pull_request_review_comment":
		return true
	}
	return false
}

// readPullRequestHeadSHA decodes the pull request payload and returns the
// head commit, or "" when the payload carries no pull request.
func readPullRequestHeadSHA(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading event payload: %w", err)
	}

	var event gh.PullRequestEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return "", fmt.Errorf("decoding event payload %s: %w", path, err)
	}

	return event.GetPullRequest().GetHead().GetSHA(), nil
}

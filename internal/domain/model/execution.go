package model

// ExecutionContext describes the CI job the pipeline runs in: which
// repository and commit a report belongs to.
type ExecutionContext struct {
	Repository         string // owner/repo.
	SHA                string // Commit that triggered the workflow.
	PullRequestHeadSHA string // Set for pull request events only.
	EventName          string
	RunID              string
}

// HeadSHA returns the commit check runs must be attached to. For pull request
// events that is the PR head, since SHA then points at a synthetic merge commit.
func (e ExecutionContext) HeadSHA() string {
	if e.PullRequestHeadSHA != "" {
		return e.PullRequestHeadSHA
	}
	return e.SHA
}

package model

// CheckRun is an existing check run as listed by the GitHub Checks API.
type CheckRun struct {
	ID      int64  // GitHub check run ID.
	Name    string // Check run name (e.g., "Checkstyle").
	HeadSHA string // Commit the run is attached to.
}

// CheckRunOutput is the output block of a check run.
type CheckRunOutput struct {
	Title       string
	Summary     string
	Annotations []Annotation // At most one request's worth.
}

// CheckReport is the desired state of a named check run on a commit. The
// pair (HeadSHA, Name) identifies the remote resource.
type CheckReport struct {
	Name       string
	HeadSHA    string
	ExternalID string // Invocation ID, lets a run be traced back to the job that wrote it.
	Status     CheckStatus
	Conclusion Conclusion
	Output     CheckRunOutput
}

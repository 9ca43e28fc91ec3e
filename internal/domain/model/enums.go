package model

// AnnotationLevel is the severity of a single annotation as understood by the
// GitHub Checks API.
type AnnotationLevel string

const (
	AnnotationLevelNotice  AnnotationLevel = "notice"
	AnnotationLevelWarning AnnotationLevel = "warning"
	AnnotationLevelFailure AnnotationLevel = "failure"
)

// Valid reports whether l is one of the three levels the Checks API accepts.
func (l AnnotationLevel) Valid() bool {
	switch l {
	case AnnotationLevelNotice, AnnotationLevelWarning, AnnotationLevelFailure:
		return true
	}
	return false
}

// Conclusion is the overall verdict reported on a completed check run.
type Conclusion string

const (
	ConclusionSuccess Conclusion = "success"
	ConclusionFailure Conclusion = "failure"
	ConclusionNeutral Conclusion = "neutral"
)

// CheckStatus is the lifecycle state of a check run. Reports are always
// written as completed.
type CheckStatus string

const CheckStatusCompleted CheckStatus = "completed"

// UploadAction records whether a batch upload created a check run or
// updated an existing one.
type UploadAction string

const (
	UploadActionCreated UploadAction = "created"
	UploadActionUpdated UploadAction = "updated"
)

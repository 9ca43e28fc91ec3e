package application

import (
	"strconv"

	"github.com/wborn/checkstyle-github-action/internal/domain/model"
)

// ComputeConclusion reduces annotations to a single check run conclusion.
// Priority: failure > warning (neutral) > success. Notices never count.
func ComputeConclusion(annotations []model.Annotation) model.Conclusion {
	var hasWarning bool

	for _, a := range annotations {
		switch a.Level {
		case model.AnnotationLevelFailure:
			return model.ConclusionFailure
		case model.AnnotationLevelWarning:
			hasWarning = true
		case model.AnnotationLevelNotice:
			// informational only
		}
	}

	if hasWarning {
		return model.ConclusionNeutral
	}
	return model.ConclusionSuccess
}

// violationSummary formats the check run summary line for total annotations.
func violationSummary(total int) string {
	return strconv.Itoa(total) + " violation(s) found"
}

package model

import (
	"errors"
	"fmt"
)

// ErrInvalidAnnotation is returned by Annotation.Validate.
var ErrInvalidAnnotation = errors.New("invalid annotation")

// Annotation is one finding at a file location. Annotations are values: once
// built by a parser they are passed around by copy and never modified.
type Annotation struct {
	Path        string          // Repository-relative, slash-separated.
	StartLine   int             // 1-based.
	EndLine     int             // 1-based, >= StartLine.
	StartColumn int             // 0 when the finding has no column.
	EndColumn   int             // 0 when the finding has no column.
	Level       AnnotationLevel // notice, warning or failure.
	Message     string
	Title       string // Optional.
}

// Validate checks the constraints the Checks API enforces on annotations.
func (a Annotation) Validate() error {
	switch {
	case a.Path == "":
		return fmt.Errorf("%w: empty path", ErrInvalidAnnotation)
	case a.StartLine < 1:
		return fmt.Errorf("%w: %s: start line %d", ErrInvalidAnnotation, a.Path, a.StartLine)
	case a.EndLine < a.StartLine:
		return fmt.Errorf("%w: %s: end line %d before start line %d", ErrInvalidAnnotation, a.Path, a.EndLine, a.StartLine)
	case a.StartColumn < 0 || a.EndColumn < 0:
		return fmt.Errorf("%w: %s:%d: negative column", ErrInvalidAnnotation, a.Path, a.StartLine)
	case !a.Level.Valid():
		return fmt.Errorf("%w: %s:%d: unknown level %q", ErrInvalidAnnotation, a.Path, a.StartLine, a.Level)
	case a.Message == "":
		return fmt.Errorf("%w: %s:%d: empty message", ErrInvalidAnnotation, a.Path, a.StartLine)
	}
	return nil
}

// HasColumns reports whether the column range may be sent to the Checks API.
// GitHub only accepts columns when the annotation spans a single line.
func (a Annotation) HasColumns() bool {
	return a.StartColumn > 0 && a.StartLine == a.EndLine
}

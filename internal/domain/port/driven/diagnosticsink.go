package driven

// AnnotationProperties locates an inline diagnostic. Zero values are omitted.
type AnnotationProperties struct {
	File string
	Line int
	Col  int
}

// DiagnosticSink writes inline diagnostics into the build log, where the CI
// system attaches them to the current step.
type DiagnosticSink interface {
	Error(message string, props AnnotationProperties)
}

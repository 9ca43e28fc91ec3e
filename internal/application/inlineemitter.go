package application

import (
	"log/slog"

	"github.com/wborn/checkstyle-github-action/internal/domain/model"
	"github.com/wborn/checkstyle-github-action/internal/domain/port/driven"
)

// InlineEmitter reports annotations as diagnostics in the build log instead
// of through a check run.
type InlineEmitter struct {
	sink   driven.DiagnosticSink
	logger *slog.Logger
}

// NewInlineEmitter creates an InlineEmitter writing diagnostics to sink.
func NewInlineEmitter(sink driven.DiagnosticSink, logger *slog.Logger) *InlineEmitter {
	return &InlineEmitter{sink: sink, logger: logger}
}

// Emit logs every annotation and raises an inline error for each failure.
// Warnings and notices are only logged.
func (e *InlineEmitter) Emit(annotations []model.Annotation) {
	for _, a := range annotations {
		e.logger.Info("annotation",
			"path", a.Path,
			"line", a.StartLine,
			"level", a.Level,
			"message", a.Message,
		)

		if a.Level != model.AnnotationLevelFailure {
			continue
		}
		e.sink.Error(a.Message, driven.AnnotationProperties{
			File: a.Path,
			Line: a.StartLine,
			Col:  a.StartColumn,
		})
	}
}

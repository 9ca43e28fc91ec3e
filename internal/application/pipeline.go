package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wborn/checkstyle-github-action/internal/domain/model"
	"github.com/wborn/checkstyle-github-action/internal/domain/port/driven"
)

// RunRequest carries the user inputs of one invocation.
type RunRequest struct {
	Path  string // Search pattern for result files.
	Mode  string // "inline" or "separate".
	Name  string // Check run name (separate mode).
	Title string // Check run output title (separate mode).
}

// Pipeline finds result files, turns them into annotations and hands them to
// the reporter selected by the mode.
type Pipeline struct {
	searcher driven.ResultSearcher
	parser   driven.AnnotationParser
	reporter *CheckReporter
	emitter  *InlineEmitter
	logger   *slog.Logger
}

// NewPipeline creates a Pipeline with all required dependencies.
func NewPipeline(
	searcher driven.ResultSearcher,
	parser driven.AnnotationParser,
	reporter *CheckReporter,
	emitter *InlineEmitter,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		searcher: searcher,
		parser:   parser,
		reporter: reporter,
		emitter:  emitter,
		logger:   logger,
	}
}

// Run executes one invocation. An unknown mode is logged and ends the run
// without an error, as does finding no result files. Any search, parse or
// upload failure is returned.
func (p *Pipeline) Run(ctx context.Context, execCtx model.ExecutionContext, req RunRequest) error {
	mode, err := model.ParseMode(req.Mode, req.Name, req.Title)
	if err != nil {
		p.logger.Error("nothing reported", "error", err)
		return nil
	}

	result, err := p.searcher.Search(ctx, req.Path)
	if err != nil {
		return fmt.Errorf("searching result files %q: %w", req.Path, err)
	}
	if len(result.FilesToUpload) == 0 {
		p.logger.Warn("no files were found for the provided path, no results will be uploaded", "path", req.Path)
		return nil
	}

	p.logger.Info("result files found",
		"count", len(result.FilesToUpload),
		"root_directory", result.RootDirectory,
		"mode", mode,
	)

	annotations, err := p.collect(ctx, result.FilesToUpload)
	if err != nil {
		return err
	}

	switch m := mode.(type) {
	case model.SeparateMode:
		return p.reporter.Report(ctx, execCtx, m, annotations)
	case model.InlineMode:
		p.emitter.Emit(annotations)
		return nil
	default:
		return fmt.Errorf("unhandled mode %s", mode)
	}
}

// collect parses every file and concatenates the annotations in file order.
func (p *Pipeline) collect(ctx context.Context, files []string) ([]model.Annotation, error) {
	var all []model.Annotation

	for _, file := range files {
		annotations, err := p.parser.ParseAnnotations(ctx, file)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
		for _, a := range annotations {
			if err := a.Validate(); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", file, err)
			}
		}

		p.logger.Debug("result file parsed", "file", file, "annotations", len(annotations))
		all = append(all, annotations...)
	}

	if all == nil {
		all = []model.Annotation{}
	}
	return all, nil
}

// Package checkstyle implements the AnnotationParser port for Checkstyle XML reports.
package checkstyle

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wborn/checkstyle-github-action/internal/domain/model"
	"github.com/wborn/checkstyle-github-action/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AnnotationParser = (*Parser)(nil)

type report struct {
	XMLName xml.Name      `xml:"checkstyle"`
	Files   []fileElement `xml:"file"`
}

type fileElement struct {
	Name   string         `xml:"name,attr"`
	Errors []errorElement `xml:"error"`
}

type errorElement struct {
	Line     int    `xml:"line,attr"`
	Column   int    `xml:"column,attr"`
	Severity string `xml:"severity,attr"`
	Message  string `xml:"message,attr"`
	Source   string `xml:"source,attr"`
}

// Parser reads Checkstyle XML reports. Paths in the report are made
// relative to the workspace so that GitHub can match them to repository files.
type Parser struct {
	workspace string
}

// NewParser creates a Parser resolving absolute report paths against workspace.
func NewParser(workspace string) *Parser {
	return &Parser{workspace: workspace}
}

// ParseAnnotations reads one report file.
func (p *Parser) ParseAnnotations(ctx context.Context, file string) ([]model.Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	return p.Parse(f)
}

// Parse decodes a Checkstyle report and returns one annotation per <error>
// element, in document order.
func (p *Parser) Parse(r io.Reader) ([]model.Annotation, error) {
	var rep report
	if err := xml.NewDecoder(r).Decode(&rep); err != nil {
		return nil, fmt.Errorf("decode checkstyle xml: %w", err)
	}

	annotations := []model.Annotation{}
	for _, file := range rep.Files {
		path := p.relativePath(file.Name)
		for _, e := range file.Errors {
			annotations = append(annotations, p.toAnnotation(path, e))
		}
	}
	return annotations, nil
}

func (p *Parser) toAnnotation(path string, e errorElement) model.Annotation {
	line := e.Line
	if line < 1 {
		line = 1
	}

	column := e.Column
	if column < 0 {
		column = 0
	}

	title := ruleName(e.Source)

	// Messages are plain text on both the check run and the job log, so
	// anything that looks like markup ("<p>", "Map<K, V>") is kept verbatim.
	message := strings.TrimSpace(e.Message)
	if message == "" {
		message = title
	}
	if message == "" {
		message = "Checkstyle violation"
	}

	return model.Annotation{
		Path:        path,
		StartLine:   line,
		EndLine:     line,
		StartColumn: column,
		EndColumn:   column,
		Level:       mapSeverity(e.Severity),
		Message:     message,
		Title:       title,
	}
}

func (p *Parser) relativePath(name string) string {
	if p.workspace != "" && filepath.IsAbs(name) {
		if rel, err := filepath.Rel(p.workspace, name); err == nil && !escapes(rel) {
			name = rel
		}
	}
	return filepath.ToSlash(name)
}

// escapes reports whether a path produced by filepath.Rel leaves its base.
// Names that merely start with dots, like "..gen", stay inside.
func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// mapSeverity maps Checkstyle severities to annotation levels.
func mapSeverity(severity string) model.AnnotationLevel {
	switch strings.ToLower(severity) {
	case "error":
		return model.AnnotationLevelFailure
	case "warning":
		return model.AnnotationLevelWarning
	default:
		return model.AnnotationLevelNotice
	}
}

// ruleName returns the check class name of a Checkstyle source, e.g.
// "UnusedImportsCheck" for "com.puppycrawl.tools.checkstyle.checks.imports.UnusedImportsCheck".
func ruleName(source string) string {
	if i := strings.LastIndex(source, "."); i >= 0 {
		return source[i+1:]
	}
	return source
}

// Package actions implements the DiagnosticSink port with GitHub Actions
// workflow commands ("::error file=a.go,line=3::message").
package actions

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/wborn/checkstyle-github-action/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.DiagnosticSink = (*CommandWriter)(nil)

// CommandWriter writes workflow commands to the job's stdout, where the
// runner picks them up.
type CommandWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewCommandWriter creates a CommandWriter writing to w.
func NewCommandWriter(w io.Writer) *CommandWriter {
	return &CommandWriter{w: w}
}

// Error emits an error annotation.
func (c *CommandWriter) Error(message string, props driven.AnnotationProperties) {
	c.issue("error", message, props)
}

// Fail marks the step as failed with err as the reason. The process must
// still exit non-zero for the step to fail.
func (c *CommandWriter) Fail(err error) {
	c.issue("error", err.Error(), driven.AnnotationProperties{})
}

func (c *CommandWriter) issue(command, message string, props driven.AnnotationProperties) {
	line := formatCommand(command, properties(props), message)

	c.mu.Lock()
	defer c.mu.Unlock()
	// Nothing sensible can be done if stdout is gone.
	_, _ = io.WriteString(c.w, line)
}

type property struct {
	key   string
	value string
}

// properties lists the set fields of props in the order the runner documents them.
func properties(props driven.AnnotationProperties) []property {
	var out []property
	add := func(key, value string) {
		if value != "" {
			out = append(out, property{key: key, value: value})
		}
	}
	num := func(v int) string {
		if v <= 0 {
			return ""
		}
		return strconv.Itoa(v)
	}

	add("file", props.File)
	add("line", num(props.Line))
	add("col", num(props.Col))
	return out
}

func formatCommand(command string, props []property, message string) string {
	var sb strings.Builder
	sb.WriteString("::")
	sb.WriteString(command)

	for i, p := range props {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%s=%s", p.key, escapeProperty(p.value))
	}

	sb.WriteString("::")
	sb.WriteString(escapeData(message))
	sb.WriteByte('\n')
	return sb.String()
}

var (
	dataEscaper     = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	propertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)

func escapeData(s string) string {
	return dataEscaper.Replace(s)
}

func escapeProperty(s string) string {
	return propertyEscaper.Replace(s)
}

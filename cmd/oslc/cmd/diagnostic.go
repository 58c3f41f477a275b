package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/osllang/osl/lexer"
	"github.com/osllang/osl/parser"
)

// formatDiagnostic renders err with a caret pointing at the offending
// source line, the way CWBudde-go-dws's errors.CompilerError.Format does,
// generalized to always-on ANSI coloring via fatih/color instead of a
// hand-rolled escape-sequence writer. err is unwrapped to find the
// *parser.Error or *lexer.Error carrying line/column, if any.
func formatDiagnostic(filename, source string, err error) string {
	var line, column int
	var perr *parser.Error
	var lerr *lexer.Error
	switch {
	case errors.As(err, &perr):
		line, column = perr.Line, perr.Column
	case errors.As(err, &lerr):
		line, column = lerr.Line, lerr.Column
	default:
		return color.RedString("error: ") + err.Error()
	}

	var sb strings.Builder
	sb.WriteString(color.New(color.Bold).Sprintf("%s:%d:%d:", filename, line, column))
	sb.WriteString(" ")
	sb.WriteString(color.RedString(err.Error()))
	sb.WriteString("\n")

	if line > 0 {
		if src := sourceLine(source, line); src != "" {
			gutter := fmt.Sprintf("%4d | ", line)
			sb.WriteString(gutter)
			sb.WriteString(src)
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", len(gutter)+max(column-1, 0)))
			sb.WriteString(color.New(color.FgRed, color.Bold).Sprint("^"))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func sourceLine(source string, n int) string {
	lines := strings.Split(source, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// wrapStage attaches pipeline-stage context to an error via pkg/errors, for
// failures (emitter errors, file I/O) that carry no source position to
// turn into a caret diagnostic.
func wrapStage(stage string, err error) error {
	return errors.Wrapf(err, "%s failed", stage)
}

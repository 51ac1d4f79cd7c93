package driver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/YagoCrispim/pascal-interpreter/pkg/ast"
	"github.com/YagoCrispim/pascal-interpreter/pkg/checker"
	"github.com/YagoCrispim/pascal-interpreter/pkg/interpreter"
	"github.com/YagoCrispim/pascal-interpreter/pkg/lexer"
	"github.com/YagoCrispim/pascal-interpreter/pkg/parser"
	"github.com/YagoCrispim/pascal-interpreter/pkg/token"
)

// DiagnosticSeverity captures diagnostic levels.
type DiagnosticSeverity string

const (
	SeverityError   DiagnosticSeverity = "error"
	SeverityWarning DiagnosticSeverity = "warning"
)

// Stage names the pipeline phase that produced a diagnostic.
type Stage string

const (
	StageScan    Stage = "scanner"
	StageParse   Stage = "parser"
	StageCheck   Stage = "checker"
	StageRuntime Stage = "runtime"
)

// DiagnosticLocation references a source span for diagnostics.
type DiagnosticLocation struct {
	Path      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// Diagnostic is the printable form of any pipeline failure or finding.
type Diagnostic struct {
	Severity DiagnosticSeverity
	Stage    Stage
	Message  string
	Location DiagnosticLocation
	// Context is the source or token text surrounding the location.
	Context string
}

// DiagnosticError wraps a diagnostic for error handling.
type DiagnosticError struct {
	Diagnostic Diagnostic
	Err        error
}

func (e *DiagnosticError) Error() string {
	return DescribeDiagnostic(e.Diagnostic)
}

func (e *DiagnosticError) Unwrap() error {
	return e.Err
}

// DescribeDiagnostic formats a diagnostic for CLI output.
func DescribeDiagnostic(diag Diagnostic) string {
	message := strings.TrimSpace(diag.Message)
	prefix := string(diag.Stage) + ": "
	if diag.Stage == "" {
		prefix = ""
	}
	if diag.Severity == SeverityWarning {
		prefix = "warning: " + prefix
	}
	var b strings.Builder
	if location := formatDiagnosticLocation(diag.Location); location != "" {
		fmt.Fprintf(&b, "%s%s %s", prefix, location, message)
	} else {
		fmt.Fprintf(&b, "%s%s", prefix, message)
	}
	if ctx := strings.TrimSpace(diag.Context); ctx != "" {
		fmt.Fprintf(&b, "\nnear: %s", ctx)
	}
	return b.String()
}

func formatDiagnosticLocation(loc DiagnosticLocation) string {
	path := strings.TrimSpace(loc.Path)
	line := loc.Line
	column := loc.Column
	switch {
	case path != "" && line > 0 && column > 0:
		return fmt.Sprintf("%s:%d:%d", path, line, column)
	case path != "" && line > 0:
		return fmt.Sprintf("%s:%d", path, line)
	case path != "":
		return path
	case line > 0 && column > 0:
		return fmt.Sprintf("line %d, column %d", line, column)
	case line > 0:
		return fmt.Sprintf("line %d", line)
	default:
		return ""
	}
}

// DiagnosticFromError converts scanner, parser and evaluator errors into a
// diagnostic. Unknown errors keep their message and carry no location.
func DiagnosticFromError(err error, path string) Diagnostic {
	var (
		scanErr   *lexer.ScanError
		syntaxErr *parser.SyntaxError
		rtErr     interpreter.RuntimeError
		diagErr   *DiagnosticError
	)
	switch {
	case errors.As(err, &diagErr):
		return diagErr.Diagnostic
	case errors.As(err, &scanErr):
		return Diagnostic{
			Severity: SeverityError,
			Stage:    StageScan,
			Message:  fmt.Sprintf("%s %q", scanErr.Message, scanErr.Char),
			Location: DiagnosticLocation{Path: path, Line: scanErr.Pos.Line, Column: scanErr.Pos.Column},
			Context:  scanErr.Context,
		}
	case errors.As(err, &syntaxErr):
		return Diagnostic{
			Severity: SeverityError,
			Stage:    StageParse,
			Message:  syntaxMessage(syntaxErr),
			Location: DiagnosticLocation{Path: path, Line: syntaxErr.Token.Pos.Line, Column: syntaxErr.Token.Pos.Column},
			Context:  formatTokens(syntaxErr.Context),
		}
	case errors.Is(err, lexer.ErrScan):
		return Diagnostic{Severity: SeverityError, Stage: StageScan, Message: trimSentinel(err, lexer.ErrScan), Location: DiagnosticLocation{Path: path}}
	case errors.As(err, &rtErr):
		return Diagnostic{
			Severity: SeverityError,
			Stage:    StageRuntime,
			Message:  rtErr.Error(),
			Location: locationFromSpan(path, rtErr.NodeSpan()),
		}
	default:
		return Diagnostic{Severity: SeverityError, Message: err.Error(), Location: DiagnosticLocation{Path: path}}
	}
}

// DiagnosticsFromChecker converts checker findings.
func DiagnosticsFromChecker(diags []checker.Diagnostic, path string) []Diagnostic {
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		severity := SeverityError
		if d.Severity == checker.SeverityWarning {
			severity = SeverityWarning
		}
		var loc DiagnosticLocation
		if d.Node != nil {
			loc = locationFromSpan(path, d.Node.Span())
		} else {
			loc.Path = path
		}
		out = append(out, Diagnostic{Severity: severity, Stage: StageCheck, Message: d.Message, Location: loc})
	}
	return out
}

func locationFromSpan(path string, span ast.Span) DiagnosticLocation {
	return DiagnosticLocation{
		Path:      path,
		Line:      span.Start.Line,
		Column:    span.Start.Column,
		EndLine:   span.End.Line,
		EndColumn: span.End.Column,
	}
}

func syntaxMessage(err *parser.SyntaxError) string {
	if len(err.Expected) == 0 {
		return err.Message
	}
	names := make([]string, len(err.Expected))
	for i, k := range err.Expected {
		names[i] = k.String()
	}
	return fmt.Sprintf("%s, expected %s", err.Message, strings.Join(names, " or "))
}

func formatTokens(toks []token.Token) string {
	parts := make([]string, len(toks))
	for i, tok := range toks {
		parts[i] = tok.String()
	}
	return strings.Join(parts, " ")
}

func trimSentinel(err, sentinel error) string {
	msg := err.Error()
	return strings.TrimSpace(strings.TrimPrefix(msg, sentinel.Error()))
}

package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/YagoCrispim/pascal-interpreter/pkg/ast"
	"github.com/YagoCrispim/pascal-interpreter/pkg/checker"
	"github.com/YagoCrispim/pascal-interpreter/pkg/interpreter"
	"github.com/YagoCrispim/pascal-interpreter/pkg/lexer"
	"github.com/YagoCrispim/pascal-interpreter/pkg/parser"
	"github.com/YagoCrispim/pascal-interpreter/pkg/runtime"
	"github.com/YagoCrispim/pascal-interpreter/pkg/token"
)

// ErrCheckFailed is wrapped by CheckError.
var ErrCheckFailed = errors.New("declaration check failed")

// CheckError carries the error-severity checker findings that stopped a run.
type CheckError struct {
	Diagnostics []Diagnostic
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("%s: %d error(s)", ErrCheckFailed, len(e.Diagnostics))
}

func (e *CheckError) Unwrap() error {
	return ErrCheckFailed
}

// Result holds every stage's output. Later fields stay empty when an
// earlier stage fails.
type Result struct {
	Path        string
	Tokens      []token.Token
	Program     *ast.Program
	Diagnostics []Diagnostic
	Snapshot    runtime.Snapshot
}

// Pipeline runs source text through scanner, parser, optional checker and
// evaluator, strictly in that order.
type Pipeline struct {
	Options RunOptions
	// Trace receives one line per completed stage when Options.Verbose is set.
	Trace io.Writer
}

// LoadSource reads a whole program file.
func LoadSource(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("loader: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("loader: read %s: %w", path, err)
	}
	return string(data), nil
}

// RunFile loads path and runs it.
func (p *Pipeline) RunFile(path string) (*Result, error) {
	src, err := LoadSource(path)
	if err != nil {
		return nil, err
	}
	return p.Run(path, src)
}

// Run executes every stage. Failures are returned as *DiagnosticError or,
// for checker findings, *CheckError; the partial Result is returned alongside.
func (p *Pipeline) Run(path, src string) (*Result, error) {
	res, err := p.Parse(path, src)
	if err != nil {
		return res, err
	}

	if p.Options.Check {
		if err := p.check(res); err != nil {
			return res, err
		}
	}

	snap, err := interpreter.New().EvaluateProgram(res.Program)
	if err != nil {
		return res, wrapDiagnostic(err, path)
	}
	res.Snapshot = snap
	p.tracef("runtime: %d variable(s) assigned", len(snap))
	return res, nil
}

// Scan runs only the scanner.
func (p *Pipeline) Scan(path, src string) (*Result, error) {
	res := &Result{Path: path}
	toks, err := lexer.Scan(src)
	if err != nil {
		return res, wrapDiagnostic(err, path)
	}
	res.Tokens = toks
	p.tracef("scanner: %d token(s)", len(toks))
	return res, nil
}

// Parse runs the scanner and parser.
func (p *Pipeline) Parse(path, src string) (*Result, error) {
	res, err := p.Scan(path, src)
	if err != nil {
		return res, err
	}
	prog, err := parser.New(res.Tokens).ParseProgram()
	if err != nil {
		return res, wrapDiagnostic(err, path)
	}
	res.Program = prog
	p.tracef("parser: program %s", prog.Name)
	return res, nil
}

// Check runs the scanner, parser and checker without evaluating.
func (p *Pipeline) Check(path, src string) (*Result, error) {
	res, err := p.Parse(path, src)
	if err != nil {
		return res, err
	}
	return res, p.check(res)
}

func (p *Pipeline) check(res *Result) error {
	findings, err := checker.Check(res.Program)
	if err != nil {
		return err
	}
	res.Diagnostics = DiagnosticsFromChecker(findings, res.Path)
	p.tracef("checker: %d finding(s)", len(res.Diagnostics))
	var failures []Diagnostic
	for _, d := range res.Diagnostics {
		if d.Severity == SeverityError {
			failures = append(failures, d)
		}
	}
	if len(failures) > 0 {
		return &CheckError{Diagnostics: failures}
	}
	return nil
}

func (p *Pipeline) tracef(format string, args ...any) {
	if p.Trace == nil || !p.Options.Verbose {
		return
	}
	fmt.Fprintf(p.Trace, format+"\n", args...)
}

func wrapDiagnostic(err error, path string) error {
	return &DiagnosticError{Diagnostic: DiagnosticFromError(err, path), Err: err}
}

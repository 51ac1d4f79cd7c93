package driver

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YagoCrispim/pascal-interpreter/pkg/interpreter"
	"github.com/YagoCrispim/pascal-interpreter/pkg/lexer"
	"github.com/YagoCrispim/pascal-interpreter/pkg/parser"
	"github.com/YagoCrispim/pascal-interpreter/pkg/runtime"
)

const canonicalProgram = `PROGRAM Part10;
VAR
   a, b : INTEGER;
   y    : REAL;

BEGIN {Part10}
   a := 2;
   b := 10 * a + 10 * a DIV 4;
   y := 20 / 7 + 3.14;
END.  {Part10}
`

func TestPipelineRunCanonical(t *testing.T) {
	p := &Pipeline{Options: DefaultRunOptions()}
	res, err := p.Run("part10.pas", canonicalProgram)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Tokens) != 42 {
		t.Fatalf("expected 42 tokens, got %d", len(res.Tokens))
	}
	if res.Program == nil || res.Program.Name != "Part10" {
		t.Fatalf("unexpected program: %#v", res.Program)
	}
	if got := strings.Join(res.Snapshot.Names(), ","); got != "a,b,y" {
		t.Fatalf("unexpected order %s", got)
	}
	y, _ := res.Snapshot.Lookup("y")
	if !runtime.Equal(y, runtime.NewReal(5.997142857142857)) {
		t.Fatalf("unexpected y %s", runtime.FormatValue(y))
	}
}

func TestPipelineScanFailureStopsEarly(t *testing.T) {
	p := &Pipeline{}
	res, err := p.Run("bad.pas", "PROGRAM P; BEGIN a := 1 @ 2 END.")
	if err == nil {
		t.Fatalf("expected scan error")
	}
	if !errors.Is(err, lexer.ErrScan) {
		t.Fatalf("expected ErrScan, got %v", err)
	}
	var diagErr *DiagnosticError
	if !errors.As(err, &diagErr) {
		t.Fatalf("expected DiagnosticError, got %T", err)
	}
	if diagErr.Diagnostic.Stage != StageScan {
		t.Fatalf("expected scanner stage, got %s", diagErr.Diagnostic.Stage)
	}
	if res.Program != nil || res.Snapshot != nil {
		t.Fatalf("expected later stages to be skipped")
	}
}

func TestPipelineParseFailure(t *testing.T) {
	p := &Pipeline{}
	res, err := p.Run("bad.pas", "PROGRAM P; BEGIN a := 1 END")
	if !errors.Is(err, parser.ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}
	if len(res.Tokens) == 0 {
		t.Fatalf("expected tokens to be kept")
	}
	if res.Program != nil {
		t.Fatalf("expected no program")
	}
}

func TestPipelineRuntimeFailureCarriesLocation(t *testing.T) {
	p := &Pipeline{}
	_, err := p.Run("bad.pas", "PROGRAM P;\nBEGIN a := b END.")
	if !errors.Is(err, interpreter.ErrUndefinedVariable) {
		t.Fatalf("expected undefined variable, got %v", err)
	}
	var diagErr *DiagnosticError
	if !errors.As(err, &diagErr) {
		t.Fatalf("expected DiagnosticError, got %T", err)
	}
	loc := diagErr.Diagnostic.Location
	if loc.Path != "bad.pas" || loc.Line != 2 || loc.Column != 12 {
		t.Fatalf("unexpected location %+v", loc)
	}
}

func TestPipelineCheckBlocksEvaluation(t *testing.T) {
	p := &Pipeline{Options: RunOptions{Format: FormatJSON, Check: true}}
	res, err := p.Run("undeclared.pas", "PROGRAM P; BEGIN a := 1 END.")
	if !errors.Is(err, ErrCheckFailed) {
		t.Fatalf("expected ErrCheckFailed, got %v", err)
	}
	var checkErr *CheckError
	if !errors.As(err, &checkErr) || len(checkErr.Diagnostics) != 1 {
		t.Fatalf("expected one check failure, got %v", err)
	}
	if res.Snapshot != nil {
		t.Fatalf("expected evaluation to be skipped")
	}
}

func TestPipelineCheckWarningsDoNotFail(t *testing.T) {
	p := &Pipeline{Options: RunOptions{Check: true}}
	res, err := p.Run("warn.pas", "PROGRAM P; VAR a, unused : INTEGER; BEGIN a := 1 END.")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Severity != SeverityWarning {
		t.Fatalf("expected one warning, got %+v", res.Diagnostics)
	}
	if res.Snapshot.Names()[0] != "a" {
		t.Fatalf("expected evaluation to run")
	}
}

func TestPipelineWithoutCheckRunsUndeclared(t *testing.T) {
	p := &Pipeline{}
	res, err := p.Run("loose.pas", "PROGRAM P; BEGIN a := 1 END.")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if v, ok := res.Snapshot.Lookup("a"); !ok || !runtime.Equal(v, runtime.NewInteger(1)) {
		t.Fatalf("expected a = 1")
	}
}

func TestPipelineTraceOnlyWhenVerbose(t *testing.T) {
	var trace bytes.Buffer
	quiet := &Pipeline{Trace: &trace}
	if _, err := quiet.Run("p.pas", canonicalProgram); err != nil {
		t.Fatalf("run: %v", err)
	}
	if trace.Len() != 0 {
		t.Fatalf("expected no trace, got %q", trace.String())
	}

	loud := &Pipeline{Options: RunOptions{Verbose: true}, Trace: &trace}
	if _, err := loud.Run("p.pas", canonicalProgram); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := trace.String()
	for _, want := range []string{"scanner: 42 token(s)", "parser: program Part10", "runtime: 3 variable(s) assigned"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in trace:\n%s", want, out)
		}
	}
}

func TestPipelineRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.pas")
	if err := os.WriteFile(path, []byte(canonicalProgram), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p := &Pipeline{}
	res, err := p.RunFile(path)
	if err != nil {
		t.Fatalf("run file: %v", err)
	}
	if len(res.Snapshot) != 3 {
		t.Fatalf("expected 3 bindings, got %d", len(res.Snapshot))
	}

	if _, err := p.RunFile(filepath.Join(dir, "missing.pas")); err == nil || !strings.HasPrefix(err.Error(), "loader:") {
		t.Fatalf("expected loader error, got %v", err)
	}
}

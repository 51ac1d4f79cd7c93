package driver

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/YagoCrispim/pascal-interpreter/pkg/ast"
	"github.com/YagoCrispim/pascal-interpreter/pkg/checker"
	"github.com/YagoCrispim/pascal-interpreter/pkg/lexer"
	"github.com/YagoCrispim/pascal-interpreter/pkg/parser"
)

func TestDescribeDiagnostic(t *testing.T) {
	cases := []struct {
		diag Diagnostic
		want string
	}{
		{
			Diagnostic{Severity: SeverityError, Stage: StageRuntime, Message: "boom", Location: DiagnosticLocation{Path: "a.pas", Line: 2, Column: 7}},
			"runtime: a.pas:2:7 boom",
		},
		{
			Diagnostic{Severity: SeverityWarning, Stage: StageCheck, Message: "unused", Location: DiagnosticLocation{Line: 3}},
			"warning: checker: line 3 unused",
		},
		{
			Diagnostic{Severity: SeverityError, Message: "plain"},
			"plain",
		},
		{
			Diagnostic{Severity: SeverityError, Stage: StageScan, Message: "bad", Location: DiagnosticLocation{Path: "a.pas"}, Context: " x @ y "},
			"scanner: a.pas bad\nnear: x @ y",
		},
	}
	for _, tc := range cases {
		if got := DescribeDiagnostic(tc.diag); got != tc.want {
			t.Fatalf("DescribeDiagnostic = %q, want %q", got, tc.want)
		}
	}
}

func TestDiagnosticFromScanError(t *testing.T) {
	_, err := lexer.Scan("PROGRAM P; BEGIN a := 1 @ 2 END.")
	diag := DiagnosticFromError(err, "p.pas")
	if diag.Stage != StageScan {
		t.Fatalf("expected scanner stage, got %s", diag.Stage)
	}
	if diag.Location.Line != 1 || diag.Location.Column != 25 {
		t.Fatalf("unexpected location %+v", diag.Location)
	}
	if !strings.Contains(diag.Message, `"@"`) || diag.Context == "" {
		t.Fatalf("unexpected diagnostic %+v", diag)
	}
}

func TestDiagnosticFromSyntaxError(t *testing.T) {
	_, err := parser.ParseSource("PROGRAM P BEGIN END.")
	if !errors.Is(err, parser.ErrSyntax) {
		t.Fatalf("expected syntax error, got %v", err)
	}
	diag := DiagnosticFromError(err, "p.pas")
	if diag.Stage != StageParse {
		t.Fatalf("expected parser stage, got %s", diag.Stage)
	}
	if !strings.Contains(diag.Message, "expected SEMI") {
		t.Fatalf("expected token names in message, got %q", diag.Message)
	}
	if diag.Location.Line != 1 || diag.Location.Column != 11 {
		t.Fatalf("unexpected location %+v", diag.Location)
	}
	if !strings.Contains(diag.Context, "Token(BEGIN, BEGIN)") {
		t.Fatalf("expected token context, got %q", diag.Context)
	}
}

func TestDiagnosticFromWrappedDiagnostic(t *testing.T) {
	inner := Diagnostic{Severity: SeverityError, Stage: StageRuntime, Message: "inner"}
	err := fmt.Errorf("outer: %w", &DiagnosticError{Diagnostic: inner, Err: errors.New("x")})
	if got := DiagnosticFromError(err, "ignored.pas"); got != inner {
		t.Fatalf("expected wrapped diagnostic, got %+v", got)
	}
}

func TestDiagnosticFromUnknownError(t *testing.T) {
	diag := DiagnosticFromError(errors.New("disk on fire"), "p.pas")
	if diag.Stage != "" || diag.Message != "disk on fire" || diag.Location.Path != "p.pas" {
		t.Fatalf("unexpected diagnostic %+v", diag)
	}
}

func TestDiagnosticsFromChecker(t *testing.T) {
	v := ast.NewVariable("x")
	ast.SetSpan(v, ast.Span{Start: ast.Position{Line: 4, Column: 3}, End: ast.Position{Line: 4, Column: 4}})
	diags := DiagnosticsFromChecker([]checker.Diagnostic{
		{Severity: checker.SeverityError, Message: "undeclared", Node: v},
		{Severity: checker.SeverityWarning, Message: "unused"},
	}, "p.pas")
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(diags))
	}
	if diags[0].Severity != SeverityError || diags[0].Location.Line != 4 || diags[0].Location.EndColumn != 4 {
		t.Fatalf("unexpected first diagnostic %+v", diags[0])
	}
	if diags[1].Severity != SeverityWarning || diags[1].Location.Path != "p.pas" || diags[1].Stage != StageCheck {
		t.Fatalf("unexpected second diagnostic %+v", diags[1])
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package expr compiles CEL expressions into record filters, for example
//
//	record.journal.startsWith("Journal of") && record.year >= 2018
//
// The record variable exposes year, subject, journal, discipline, utd24 and
// ft50.
package expr

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/cel-go/cel"

	"github.com/pdiddy/pubrank/pkg/types"
)

var (
	env     *cel.Env
	envErr  error
	envOnce sync.Once
)

func recordEnv() (*cel.Env, error) {
	envOnce.Do(func() {
		env, envErr = cel.NewEnv(
			cel.Variable("record", cel.MapType(cel.StringType, cel.DynType)),
		)
	})
	return env, envErr
}

// Expression is a compiled record filter. It is safe for concurrent use.
type Expression struct {
	src        string
	prg        cel.Program
	evalErrors atomic.Int64
}

// Compile parses and type-checks src. Expressions whose result type is
// known not to be boolean are rejected.
func Compile(src string) (*Expression, error) {
	e, err := recordEnv()
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}

	ast, issues := e.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compiling %q: %w", src, issues.Err())
	}
	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("compiling %q: expression must be boolean, got %s", src, out)
	}

	prg, err := e.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("building program for %q: %w", src, err)
	}
	return &Expression{src: src, prg: prg}, nil
}

// String returns the source text.
func (x *Expression) String() string { return x.src }

// Match evaluates the expression for r. A runtime error or a non-boolean
// result counts as no match and is tallied in EvalErrors.
func (x *Expression) Match(r types.Record) bool {
	out, _, err := x.prg.Eval(map[string]any{"record": fields(r)})
	if err != nil {
		x.evalErrors.Add(1)
		return false
	}
	b, ok := out.Value().(bool)
	if !ok {
		x.evalErrors.Add(1)
		return false
	}
	return b
}

// Predicate adapts the expression to the ranking engine's filter hook.
func (x *Expression) Predicate() types.RecordPredicate {
	return x.Match
}

// EvalErrors is the number of records whose evaluation failed so far.
func (x *Expression) EvalErrors() int64 {
	return x.evalErrors.Load()
}

func fields(r types.Record) map[string]any {
	return map[string]any{
		"year":       int64(r.Year),
		"subject":    r.Subject,
		"journal":    r.Journal,
		"discipline": r.DisciplineAbbr,
		"utd24":      int64(r.UTD24),
		"ft50":       int64(r.FT50),
	}
}

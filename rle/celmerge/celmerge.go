// Package celmerge builds run-length merge predicates for generic values
// from CEL expressions. The expression sees the run's first element as a
// and the candidate as b, and must evaluate to a bool.
package celmerge

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/clickworkorange/catajson/jsonin"
	"github.com/clickworkorange/catajson/jsonout"
	"github.com/clickworkorange/catajson/rle"
	"github.com/clickworkorange/catajson/value"
)

var (
	ErrCompile        = errors.New("CEL compilation error")
	ErrNotBoolean     = errors.New("merge expression must evaluate to bool")
	ErrProgramFailure = errors.New("failed to create CEL program")
)

// CompileSame compiles expr into a merge predicate. An empty expression
// means structural equality. Evaluation errors and non-bool results count
// as "not the same".
func CompileSame(expr string) (func(a, b value.Value) bool, error) {
	if expr == "" {
		return value.Value.Equal, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("a", cel.DynType),
		cel.Variable("b", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("%w: %q has type %s", ErrNotBoolean, expr, out)
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProgramFailure, err)
	}

	return func(a, b value.Value) bool {
		result, _, err := program.Eval(map[string]any{
			"a": a.Native(),
			"b": b.Native(),
		})
		if err != nil {
			return false
		}
		same, ok := result.Value().(bool)
		return ok && same
	}, nil
}

// Codec returns a run-length codec for generic values merged by same
func Codec(same func(a, b value.Value) bool) rle.Codec[value.Value] {
	return rle.Codec[value.Value]{
		Read: func(r *jsonin.Reader) (value.Value, error) {
			var v value.Value
			err := v.Deserialize(r)
			return v, err
		},
		Write: func(w *jsonout.Writer, v value.Value) {
			v.Serialize(w)
		},
		Same: same,
		Wrap: func(v value.Value) bool {
			return v.Kind() == value.KindArray
		},
	}
}

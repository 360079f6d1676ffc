package runtime

import "github.com/weavelang/weave/pkg/ast"

// Lambda is a user-defined closure: parameters, body AST, and the
// environment snapshot captured at construction time. Invoke is supplied
// by the evaluator package at construction time so that runtime need not
// import evaluator (which itself imports runtime) — the classic
// inversion-of-control break for a two-package cycle.
type Lambda struct {
	Params []ast.Parameter
	Body   ast.Expression
	Env    *Environment
	Invoke func(l *Lambda, args []Value) (Value, error)
}

func (l *Lambda) Kind() string   { return "function" }
func (l *Lambda) String() string { return "<lambda>" }

// Arity is the number of declared parameters, used by the reduce
// intrinsic to decide whether to pass the running accumulator.
func (l *Lambda) Arity() int { return len(l.Params) }

// Call applies the lambda to already-evaluated arguments.
func (l *Lambda) Call(args []Value) (Value, error) {
	return l.Invoke(l, args)
}

// Intrinsic is a host-provided callable exposed under a reserved name:
// the binary/infix operators the parser lowers calls into, plus any
// standard-library functions the host registers.
type Intrinsic struct {
	Name string
	Fn   func(args []Value) (Value, error)
	// NumParams documents the intrinsic's declared arity for Arity();
	// higher-order intrinsics (map/filter/...) report the arity of the
	// (sequence, function) signature, i.e. 2.
	NumParams int
}

func (i *Intrinsic) Kind() string   { return "function" }
func (i *Intrinsic) String() string { return "<intrinsic:" + i.Name + ">" }
func (i *Intrinsic) Arity() int     { return i.NumParams }

func (i *Intrinsic) Call(args []Value) (Value, error) {
	return i.Fn(args)
}

// Package evaluator implements weave's tree-walking interpreter:
// identifier resolution, the control forms (if, default, match), lambda
// construction and application, and property/index access.
package evaluator

import (
	"fmt"

	"github.com/weavelang/weave/internal/diag"
	"github.com/weavelang/weave/internal/intrinsics"
	"github.com/weavelang/weave/internal/runtime"
	"github.com/weavelang/weave/pkg/ast"
)

// Evaluator holds the state that is fixed for one Execute call: the
// input payload, the intrinsics table, and the accumulating root
// environment that backs the reserved `vars` identifier. RootEnv is
// never replaced by Extend: lambda calls and match bindings work against
// copies, so the reserved `vars` binding always reflects header/caller
// variables only, never transient lambda parameters.
type Evaluator struct {
	Payload    runtime.Value
	Intrinsics map[string]runtime.Value
	RootEnv    *runtime.Environment
}

// New creates an Evaluator whose root environment is seeded with the
// caller-supplied vars, copied in as bare-name bindings. callerVars may
// be nil.
func New(payload runtime.Value, callerVars *runtime.Object) *Evaluator {
	env := runtime.NewEnvironment()
	if callerVars != nil {
		for _, k := range callerVars.Keys() {
			v, _ := callerVars.Get(k)
			env.Set(k, v)
		}
	}
	return &Evaluator{
		Payload:    payload,
		Intrinsics: intrinsics.Table(),
		RootEnv:    env,
	}
}

// DeclareVar evaluates a header `var` declaration's expression against
// the current root environment and binds its name into it, so that
// later declarations (and the body) see it both as a bare identifier and
// as a field of `vars`.
func (e *Evaluator) DeclareVar(name string, expr ast.Expression) error {
	val, err := e.Eval(expr, e.RootEnv)
	if err != nil {
		return err
	}
	e.RootEnv.Set(name, val)
	return nil
}

// Vars builds the reserved `vars` object from the root environment's
// current bindings, in declaration order.
func (e *Evaluator) Vars() *runtime.Object {
	obj := runtime.NewObject()
	for _, name := range e.RootEnv.Names() {
		v, _ := e.RootEnv.Get(name)
		obj.Set(name, v)
	}
	return obj
}

// Eval evaluates expr against env. env carries whatever lambda
// parameters or match bindings are in scope at this point; payload,
// vars, and the intrinsics table are resolved from the Evaluator itself
// regardless of env.
func (e *Evaluator) Eval(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := expr.(type) {
	case *ast.NullLiteral:
		return runtime.NullValue, nil
	case *ast.BooleanLiteral:
		return runtime.Bool(n.Value), nil
	case *ast.NumberLiteral:
		return runtime.NumberFromFloat(n.Value), nil
	case *ast.StringLiteral:
		return runtime.Str(n.Value), nil
	case *ast.Identifier:
		return e.resolveIdentifier(n, env)
	case *ast.ObjectLiteral:
		obj := runtime.NewObject()
		for _, f := range n.Fields {
			v, err := e.Eval(f.Value, env)
			if err != nil {
				return nil, err
			}
			obj.Set(f.Key, v)
		}
		return obj, nil
	case *ast.ListLiteral:
		out := make(runtime.List, len(n.Elements))
		for i, el := range n.Elements {
			v, err := e.Eval(el, env)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *ast.PropertyAccess:
		return e.evalPropertyAccess(n, env)
	case *ast.IndexAccess:
		return e.evalIndexAccess(n, env)
	case *ast.FunctionCall:
		return e.evalFunctionCall(n, env)
	case *ast.DefaultOp:
		left, err := e.Eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		if runtime.IsMissing(left) {
			return e.Eval(n.Right, env)
		}
		return left, nil
	case *ast.IfExpression:
		cond, err := e.Eval(n.Condition, env)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(cond) {
			return e.Eval(n.Then, env)
		}
		return e.Eval(n.Else, env)
	case *ast.LambdaExpression:
		return &runtime.Lambda{
			Params: n.Parameters,
			Body:   n.Body,
			Env:    env.Snapshot(),
			Invoke: e.invokeLambda,
		}, nil
	case *ast.MatchExpression:
		return e.evalMatch(n, env)
	default:
		return nil, diag.Type(expr.Pos(), "unsupported expression %T", expr)
	}
}

func (e *Evaluator) resolveIdentifier(id *ast.Identifier, env *runtime.Environment) (runtime.Value, error) {
	switch id.Name {
	case "payload":
		return e.Payload, nil
	case "vars":
		return e.Vars(), nil
	}
	if v, ok := e.Intrinsics[id.Name]; ok {
		return v, nil
	}
	if v, ok := env.Get(id.Name); ok {
		return v, nil
	}
	return nil, diag.Name(id.Pos(), id.Name)
}

func (e *Evaluator) evalPropertyAccess(n *ast.PropertyAccess, env *runtime.Environment) (runtime.Value, error) {
	base, err := e.Eval(n.Value, env)
	if err != nil {
		return nil, err
	}
	v, err := resolveProperty(base, n.Attribute)
	if err != nil {
		if n.NullSafe {
			return runtime.NullValue, nil
		}
		return nil, diag.Type(n.Pos(), "%s", err.Error())
	}
	return v, nil
}

// resolveProperty is a permissive field access: a null base or a
// missing object key both yield null; only a base kind that cannot carry
// named fields at all is an error.
func resolveProperty(base runtime.Value, attr string) (runtime.Value, error) {
	switch b := base.(type) {
	case runtime.Null:
		return runtime.NullValue, nil
	case *runtime.Object:
		if v, ok := b.Get(attr); ok {
			return v, nil
		}
		return runtime.NullValue, nil
	default:
		return nil, fmt.Errorf("cannot access attribute %q on %s", attr, base.Kind())
	}
}

func (e *Evaluator) evalIndexAccess(n *ast.IndexAccess, env *runtime.Environment) (runtime.Value, error) {
	base, err := e.Eval(n.Value, env)
	if err != nil {
		return nil, err
	}
	index, err := e.Eval(n.Index, env)
	if err != nil {
		return nil, err
	}
	return resolveIndex(base, index), nil
}

// resolveIndex never errors: any unsupported base/index combination
// falls back to null rather than raising.
func resolveIndex(base, index runtime.Value) runtime.Value {
	switch b := base.(type) {
	case runtime.Null:
		return runtime.NullValue
	case runtime.List:
		f, ok := runtime.AsFloat(index)
		if !ok {
			return runtime.NullValue
		}
		i := int64(f)
		if i < 0 || i >= int64(len(b)) {
			return runtime.NullValue
		}
		return b[i]
	case *runtime.Object:
		if v, ok := b.Get(index.String()); ok {
			return v
		}
		return runtime.NullValue
	default:
		return runtime.NullValue
	}
}

func (e *Evaluator) evalFunctionCall(n *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	fn, err := e.Eval(n.Function, env)
	if err != nil {
		return nil, err
	}
	callable, ok := fn.(runtime.Callable)
	if !ok {
		return nil, diag.Type(n.Pos(), "%s is not callable", n.Function.String())
	}
	args := make([]runtime.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.Eval(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return callable.Call(args)
}

// invokeLambda is wired into every constructed runtime.Lambda so that
// runtime need not import evaluator.
func (e *Evaluator) invokeLambda(l *runtime.Lambda, args []runtime.Value) (runtime.Value, error) {
	if len(args) > len(l.Params) {
		return nil, diag.Type(l.Body.Pos(), "too many arguments: lambda accepts at most %d, got %d", len(l.Params), len(args))
	}
	callEnv := l.Env
	for i, p := range l.Params {
		var val runtime.Value
		if i < len(args) {
			val = args[i]
		} else if p.Default != nil {
			v, err := e.Eval(p.Default, callEnv)
			if err != nil {
				return nil, err
			}
			val = v
		} else {
			return nil, diag.Type(l.Body.Pos(), "missing argument %q for lambda", p.Name)
		}
		callEnv = callEnv.Extend([]string{p.Name}, map[string]runtime.Value{p.Name: val})
	}
	return e.Eval(l.Body, callEnv)
}

func (e *Evaluator) evalMatch(n *ast.MatchExpression, env *runtime.Environment) (runtime.Value, error) {
	subject, err := e.Eval(n.Subject, env)
	if err != nil {
		return nil, err
	}
	for _, c := range n.Cases {
		if c.Pattern == nil {
			return e.Eval(c.Expression, env)
		}
		matchEnv := env
		if c.Pattern.Binding != "" {
			matchEnv = env.Extend([]string{c.Pattern.Binding}, map[string]runtime.Value{c.Pattern.Binding: subject})
		}
		matches := true
		if c.Pattern.Matcher != nil {
			expected, err := e.Eval(c.Pattern.Matcher, env)
			if err != nil {
				return nil, err
			}
			matches = runtime.Equals(subject, expected)
		}
		if matches && c.Pattern.Guard != nil {
			guardVal, err := e.Eval(c.Pattern.Guard, matchEnv)
			if err != nil {
				return nil, err
			}
			matches = runtime.Truthy(guardVal)
		}
		if matches {
			return e.Eval(c.Expression, matchEnv)
		}
	}
	return runtime.NullValue, nil
}

package evaluator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weavelang/weave/internal/evaluator"
	"github.com/weavelang/weave/internal/formats"
	"github.com/weavelang/weave/internal/parser"
	"github.com/weavelang/weave/internal/runtime"
)

// evalBody parses body as a standalone expression and evaluates it
// against a payload parsed from JSON, without going through the full
// Script/header machinery.
func evalBody(t *testing.T, body, payloadJSON string) runtime.Value {
	t.Helper()
	expr, err := parser.ParseExpressionSource(body)
	require.NoError(t, err)
	payload, err := formats.Read("json", []byte(payloadJSON), nil)
	require.NoError(t, err)
	ev := evaluator.New(payload, nil)
	v, err := ev.Eval(expr, ev.RootEnv)
	require.NoError(t, err)
	return v
}

func TestMapDoublesItems(t *testing.T) {
	v := evalBody(t, "payload.items map (i) -> i * 2", `{"items": [1, 2, 3]}`)
	assert.Equal(t, "[2, 4, 6]", v.String())
}

func TestFilterDropsNulls(t *testing.T) {
	v := evalBody(t, "payload filter (kv) -> kv != null", `[1, null, 2]`)
	assert.Equal(t, "[1, 2]", v.String())
}

func TestIfExpressionOverNegativePayload(t *testing.T) {
	v := evalBody(t, `if (payload > 0) "pos" else "neg"`, `-3`)
	assert.Equal(t, runtime.Str("neg"), v)
}

func TestMatchExpressionOverSignedPayload(t *testing.T) {
	body := `payload match {
		case var n when n > 0 -> "pos",
		case 0 -> "zero",
		else -> "neg"
	}`
	assert.Equal(t, runtime.Str("neg"), evalBody(t, body, "-1"))
	assert.Equal(t, runtime.Str("zero"), evalBody(t, body, "0"))
	assert.Equal(t, runtime.Str("pos"), evalBody(t, body, "5"))
}

func TestLambdaDefaultArguments(t *testing.T) {
	expr, err := parser.ParseExpressionSource("(a, b = 10) -> a + b")
	require.NoError(t, err)
	ev := evaluator.New(runtime.NullValue, nil)
	fn, err := ev.Eval(expr, ev.RootEnv)
	require.NoError(t, err)
	callable := fn.(runtime.Callable)

	one, err := callable.Call([]runtime.Value{runtime.Int(5)})
	require.NoError(t, err)
	assert.Equal(t, runtime.Int(15), one)

	two, err := callable.Call([]runtime.Value{runtime.Int(5), runtime.Int(7)})
	require.NoError(t, err)
	assert.Equal(t, runtime.Int(12), two)

	_, err = callable.Call([]runtime.Value{runtime.Int(1), runtime.Int(2), runtime.Int(3)})
	assert.Error(t, err)
}

func TestNullSafeAccessYieldsNull(t *testing.T) {
	assert.Equal(t, runtime.NullValue, evalBody(t, "null?.x", "null"))
}

func TestNonSafeAccessOnNonObjectIsTypeError(t *testing.T) {
	expr, err := parser.ParseExpressionSource(`"s".x`)
	require.NoError(t, err)
	ev := evaluator.New(runtime.NullValue, nil)
	_, err = ev.Eval(expr, ev.RootEnv)
	assert.Error(t, err)
}

func TestDefaultShortCircuitsSideEffects(t *testing.T) {
	calls := 0
	ev := evaluator.New(runtime.NullValue, nil)
	ev.Intrinsics["sideEffect"] = &runtime.Intrinsic{
		Name:      "sideEffect",
		NumParams: 0,
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			calls++
			return runtime.Int(1), nil
		},
	}

	expr, err := parser.ParseExpressionSource("null default sideEffect()")
	require.NoError(t, err)
	_, err = ev.Eval(expr, ev.RootEnv)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	expr2, err := parser.ParseExpressionSource("5 default sideEffect()")
	require.NoError(t, err)
	v, err := ev.Eval(expr2, ev.RootEnv)
	require.NoError(t, err)
	assert.Equal(t, runtime.Int(5), v)
	assert.Equal(t, 1, calls, "right side must not evaluate when left is non-null")
}

func TestClosuresCaptureSnapshotNotLiveEnvironment(t *testing.T) {
	env := runtime.NewEnvironment()
	env.Set("x", runtime.Int(1))

	lambdaExpr, err := parser.ParseExpressionSource("() -> x")
	require.NoError(t, err)
	ev := evaluator.New(runtime.NullValue, nil)
	fn, err := ev.Eval(lambdaExpr, env)
	require.NoError(t, err)

	env.Set("x", runtime.Int(99))

	result, err := fn.(runtime.Callable).Call(nil)
	require.NoError(t, err)
	assert.Equal(t, runtime.Int(1), result, "closure must see the value captured at construction time")
}

func TestObjectFieldOrderPreserved(t *testing.T) {
	v := evalBody(t, `{a: 1, b: 2}`, "null")
	obj := v.(*runtime.Object)
	assert.Equal(t, []string{"a", "b"}, obj.Keys())
}

func TestHeaderVarInterpolationScript(t *testing.T) {
	header := `%dw 2.0
var greet = "hi"
---
greet ++ " " ++ payload.name`
	script, err := parser.ParseScript(header)
	require.NoError(t, err)
	payload, err := formats.Read("json", []byte(`{"name": "ada"}`), nil)
	require.NoError(t, err)

	ev := evaluator.New(payload, nil)
	for _, decl := range script.Header.Variables {
		require.NoError(t, ev.DeclareVar(decl.Name, decl.Expression))
	}
	result, err := ev.Eval(script.Body, ev.RootEnv)
	require.NoError(t, err)
	assert.Equal(t, runtime.Str("hi ada"), result)
}

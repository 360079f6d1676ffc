package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weavelang/weave/pkg/ast"
)

func TestParseArithmeticPrecedence(t *testing.T) {
	expr, err := ParseExpressionSource("1 + 2 * 3")
	require.NoError(t, err)
	call, ok := expr.(*ast.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "_binary_plus", call.Function.(*ast.Identifier).Name)
	assert.Equal(t, "1", call.Args[0].String())
	rhs := call.Args[1].(*ast.FunctionCall)
	assert.Equal(t, "_binary_times", rhs.Function.(*ast.Identifier).Name)
}

func TestParseLeftAssociativity(t *testing.T) {
	expr, err := ParseExpressionSource("10 -- 3 -- 2")
	require.NoError(t, err)
	outer := expr.(*ast.FunctionCall)
	assert.Equal(t, "_binary_diff", outer.Function.(*ast.Identifier).Name)
	inner, ok := outer.Args[0].(*ast.FunctionCall)
	require.True(t, ok, "left operand must itself be the earlier subtraction")
	assert.Equal(t, "_binary_diff", inner.Function.(*ast.Identifier).Name)
	assert.Equal(t, "2", outer.Args[1].String())
}

func TestParseIfExpression(t *testing.T) {
	expr, err := ParseExpressionSource(`if (true) "yes" else "no"`)
	require.NoError(t, err)
	ifExpr, ok := expr.(*ast.IfExpression)
	require.True(t, ok)
	assert.Equal(t, "yes", ifExpr.Then.(*ast.StringLiteral).Value)
	assert.Equal(t, "no", ifExpr.Else.(*ast.StringLiteral).Value)
}

func TestParseDefaultChain(t *testing.T) {
	expr, err := ParseExpressionSource("payload.name default vars.fallback default \"anon\"")
	require.NoError(t, err)
	outer, ok := expr.(*ast.DefaultOp)
	require.True(t, ok)
	_, ok = outer.Left.(*ast.DefaultOp)
	assert.True(t, ok, "default is left-associative")
}

func TestParsePropertyAndSafeAccess(t *testing.T) {
	expr, err := ParseExpressionSource("payload.user?.email")
	require.NoError(t, err)
	outer := expr.(*ast.PropertyAccess)
	assert.True(t, outer.NullSafe)
	assert.Equal(t, "email", outer.Attribute)
	inner := outer.Value.(*ast.PropertyAccess)
	assert.False(t, inner.NullSafe)
	assert.Equal(t, "user", inner.Attribute)
}

func TestParseIndexAndCall(t *testing.T) {
	expr, err := ParseExpressionSource("items[0].total(1, 2)")
	require.NoError(t, err)
	call, ok := expr.(*ast.FunctionCall)
	require.True(t, ok)
	assert.Len(t, call.Args, 2)
	prop := call.Function.(*ast.PropertyAccess)
	assert.Equal(t, "total", prop.Attribute)
	idx := prop.Value.(*ast.IndexAccess)
	assert.Equal(t, "0", idx.Index.String())
}

func TestParseMapInfixLowersToIntrinsic(t *testing.T) {
	expr, err := ParseExpressionSource("payload.items map (x) -> x * 2")
	require.NoError(t, err)
	call, ok := expr.(*ast.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "_infix_map", call.Function.(*ast.Identifier).Name)
	lambda, ok := call.Args[1].(*ast.LambdaExpression)
	require.True(t, ok)
	assert.Len(t, lambda.Parameters, 1)
	assert.Equal(t, "x", lambda.Parameters[0].Name)
}

func TestParseToBindsTighterThanFollowingMap(t *testing.T) {
	// spec testable property 10: `1 to 3 map (n) -> n * n` == [1, 4, 9],
	// i.e. the `to` operand stops before `map` so `map` applies to the
	// whole range rather than swallowing it as its own right operand.
	expr, err := ParseExpressionSource("1 to 3 map (n) -> n * n")
	require.NoError(t, err)
	mapCall, ok := expr.(*ast.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "_infix_map", mapCall.Function.(*ast.Identifier).Name)
	toCall, ok := mapCall.Args[0].(*ast.FunctionCall)
	require.True(t, ok, "left operand of map must be the `to` range")
	assert.Equal(t, "_infix_to", toCall.Function.(*ast.Identifier).Name)
}

func TestParseSimpleLambdaWithDefault(t *testing.T) {
	expr, err := ParseExpressionSource("(x, y = 1) -> x + y")
	require.NoError(t, err)
	lambda, ok := expr.(*ast.LambdaExpression)
	require.True(t, ok)
	require.Len(t, lambda.Parameters, 2)
	assert.Nil(t, lambda.Parameters[0].Default)
	require.NotNil(t, lambda.Parameters[1].Default)
	assert.Equal(t, "1", lambda.Parameters[1].Default.String())
}

func TestParseLegacyLambdaForm(t *testing.T) {
	expr, err := ParseExpressionSource("((x) -> x * x)")
	require.NoError(t, err)
	lambda, ok := expr.(*ast.LambdaExpression)
	require.True(t, ok)
	assert.Len(t, lambda.Parameters, 1)
}

func TestParseParenthesizedExpressionIsNotLambda(t *testing.T) {
	expr, err := ParseExpressionSource("(1 + 2) * 3")
	require.NoError(t, err)
	call := expr.(*ast.FunctionCall)
	assert.Equal(t, "_binary_times", call.Function.(*ast.Identifier).Name)
}

func TestParseObjectAndList(t *testing.T) {
	expr, err := ParseExpressionSource(`{ name: "a", tags: [1, 2, 3] }`)
	require.NoError(t, err)
	obj := expr.(*ast.ObjectLiteral)
	require.Len(t, obj.Fields, 2)
	assert.Equal(t, "name", obj.Fields[0].Key)
	list := obj.Fields[1].Value.(*ast.ListLiteral)
	assert.Len(t, list.Elements, 3)
}

func TestParseMatchExpression(t *testing.T) {
	expr, err := ParseExpressionSource(`payload.kind match {
		case "a" -> 1,
		case var x when x != null -> 2,
		else -> 0
	}`)
	require.NoError(t, err)
	m := expr.(*ast.MatchExpression)
	require.Len(t, m.Cases, 3)
	assert.Equal(t, "a", m.Cases[0].Pattern.Matcher.(*ast.StringLiteral).Value)
	assert.Equal(t, "x", m.Cases[1].Pattern.Binding)
	assert.NotNil(t, m.Cases[1].Pattern.Guard)
	assert.Nil(t, m.Cases[2].Pattern)
}

func TestParseExpressionRejectsTrailingTokens(t *testing.T) {
	_, err := ParseExpressionSource("1 + 2 3")
	assert.Error(t, err)
}

func TestParseScriptSplitsHeaderAndBody(t *testing.T) {
	source := "%dw 2.0\noutput application/json\nvar greeting = \"hi\"\n---\n{ message: vars.greeting }"
	script, err := ParseScript(source)
	require.NoError(t, err)
	assert.Equal(t, "2.0", script.Header.Version)
	assert.Equal(t, "application/json", script.Header.Output)
	require.Len(t, script.Header.Variables, 1)
	assert.Equal(t, "greeting", script.Header.Variables[0].Name)
	_, ok := script.Body.(*ast.ObjectLiteral)
	assert.True(t, ok)
}

func TestParseScriptRequiresExactlyOneSeparator(t *testing.T) {
	_, err := ParseScript("%dw 2.0\n1")
	assert.Error(t, err)
	_, err = ParseScript("%dw 2.0\n---\n1\n---\n2")
	assert.Error(t, err)
}

func TestParseScriptMultilineVarExpression(t *testing.T) {
	source := "%dw 2.0\nvar total = 1 +\n  2 +\n  3\n---\nvars.total"
	script, err := ParseScript(source)
	require.NoError(t, err)
	require.Len(t, script.Header.Variables, 1)
	assert.Equal(t, "total", script.Header.Variables[0].Name)
}

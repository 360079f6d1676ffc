package intrinsics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weavelang/weave/internal/intrinsics"
	"github.com/weavelang/weave/internal/runtime"
)

func call(t *testing.T, name string, args ...runtime.Value) runtime.Value {
	t.Helper()
	table := intrinsics.Table()
	fn, ok := table[name]
	require.True(t, ok, "intrinsic %s not registered", name)
	v, err := fn.(runtime.Callable).Call(args)
	require.NoError(t, err)
	return v
}

func oneArgFn(f func(runtime.Value) (runtime.Value, error)) *runtime.Intrinsic {
	return &runtime.Intrinsic{
		Name:      "fn",
		NumParams: 1,
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			return f(args[0])
		},
	}
}

func twoArgFn(f func(a, b runtime.Value) (runtime.Value, error)) *runtime.Intrinsic {
	return &runtime.Intrinsic{
		Name:      "fn",
		NumParams: 2,
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			return f(args[0], args[1])
		},
	}
}

func TestBinaryPlusAddsNumbers(t *testing.T) {
	assert.Equal(t, runtime.Int(7), call(t, "_binary_plus", runtime.Int(3), runtime.Int(4)))
	assert.Equal(t, runtime.Float(2.5), call(t, "_binary_plus", runtime.Float(1), runtime.Float(1.5)))
}

func TestBinaryConcatListVsString(t *testing.T) {
	strResult := call(t, "_binary_concat", runtime.Str("foo"), runtime.Str("bar"))
	assert.Equal(t, runtime.Str("foobar"), strResult)

	listResult := call(t, "_binary_concat",
		runtime.List{runtime.Int(1)},
		runtime.List{runtime.Int(2), runtime.Int(3)},
	)
	assert.Equal(t, runtime.List{runtime.Int(1), runtime.Int(2), runtime.Int(3)}, listResult)
}

func TestBinaryDiffListVsNumeric(t *testing.T) {
	numResult := call(t, "_binary_diff", runtime.Int(5), runtime.Int(2))
	assert.Equal(t, runtime.Int(3), numResult)

	listResult := call(t, "_binary_diff",
		runtime.List{runtime.Int(1), runtime.Int(2), runtime.Int(3)},
		runtime.List{runtime.Int(2)},
	)
	assert.Equal(t, runtime.List{runtime.Int(1), runtime.Int(3)}, listResult)
}

func TestComparisonOperators(t *testing.T) {
	assert.Equal(t, runtime.Bool(true), call(t, "_binary_gt", runtime.Int(5), runtime.Int(2)))
	assert.Equal(t, runtime.Bool(false), call(t, "_binary_lt", runtime.Int(5), runtime.Int(2)))
	assert.Equal(t, runtime.Bool(true), call(t, "_binary_gte", runtime.Int(5), runtime.Int(5)))
	assert.Equal(t, runtime.Bool(true), call(t, "_binary_eq", runtime.Str("a"), runtime.Str("a")))
	assert.Equal(t, runtime.Bool(true), call(t, "_binary_neq", runtime.Int(1), runtime.Int(2)))
}

func TestInfixMapUsesOneArgLambdaOverItemOnly(t *testing.T) {
	items := runtime.List{runtime.Int(1), runtime.Int(2), runtime.Int(3)}
	double := oneArgFn(func(v runtime.Value) (runtime.Value, error) {
		n, _ := runtime.AsFloat(v)
		return runtime.NumberFromFloat(n * 2), nil
	})
	result := call(t, "_infix_map", items, double)
	assert.Equal(t, runtime.List{runtime.Int(2), runtime.Int(4), runtime.Int(6)}, result)
}

func TestInfixMapUsesTwoArgLambdaWithIndex(t *testing.T) {
	items := runtime.List{runtime.Str("a"), runtime.Str("b")}
	withIndex := twoArgFn(func(item, idx runtime.Value) (runtime.Value, error) {
		i, _ := runtime.AsFloat(idx)
		return runtime.NumberFromFloat(i), nil
	})
	result := call(t, "_infix_map", items, withIndex)
	assert.Equal(t, runtime.List{runtime.Int(0), runtime.Int(1)}, result)
}

func TestInfixFilterKeepsTruthyResults(t *testing.T) {
	items := runtime.List{runtime.Int(1), runtime.Int(2), runtime.Int(3), runtime.Int(4)}
	isEven := oneArgFn(func(v runtime.Value) (runtime.Value, error) {
		n, _ := runtime.AsFloat(v)
		return runtime.Bool(int(n)%2 == 0), nil
	})
	result := call(t, "_infix_filter", items, isEven)
	assert.Equal(t, runtime.List{runtime.Int(2), runtime.Int(4)}, result)
}

func TestInfixFlatMapFlattensOneLevel(t *testing.T) {
	items := runtime.List{runtime.Int(1), runtime.Int(2)}
	dup := oneArgFn(func(v runtime.Value) (runtime.Value, error) {
		return runtime.List{v, v}, nil
	})
	result := call(t, "_infix_flatMap", items, dup)
	assert.Equal(t, runtime.List{runtime.Int(1), runtime.Int(1), runtime.Int(2), runtime.Int(2)}, result)
}

func TestInfixReduceSeedsAccumulatorWithSingleArgCall(t *testing.T) {
	items := runtime.List{runtime.Int(10), runtime.Int(1), runtime.Int(2)}
	var seenArity []int
	sum := &runtime.Intrinsic{
		Name:      "fn",
		NumParams: 2,
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			seenArity = append(seenArity, len(args))
			if len(args) == 1 {
				n, _ := runtime.AsFloat(args[0])
				return runtime.NumberFromFloat(n), nil
			}
			a, _ := runtime.AsFloat(args[0])
			b, _ := runtime.AsFloat(args[1])
			return runtime.NumberFromFloat(a + b), nil
		},
	}
	result := call(t, "_infix_reduce", items, sum)
	assert.Equal(t, runtime.Int(13), result)
	require.Len(t, seenArity, 3)
	assert.Equal(t, 1, seenArity[0], "first call seeds the accumulator from the first item alone")
	assert.Equal(t, 2, seenArity[1])
	assert.Equal(t, 2, seenArity[2])
}

func TestInfixToBuildsInclusiveRange(t *testing.T) {
	result := call(t, "_infix_to", runtime.Int(1), runtime.Int(4))
	assert.Equal(t, runtime.List{runtime.Int(1), runtime.Int(2), runtime.Int(3), runtime.Int(4)}, result)
}

func TestInfixDistinctByDropsDuplicateKeys(t *testing.T) {
	items := runtime.List{runtime.Int(1), runtime.Int(11), runtime.Int(2)}
	modTen := oneArgFn(func(v runtime.Value) (runtime.Value, error) {
		n, _ := runtime.AsFloat(v)
		return runtime.NumberFromFloat(float64(int(n) % 10)), nil
	})
	result := call(t, "_infix_distinctBy", items, modTen)
	assert.Equal(t, runtime.List{runtime.Int(1), runtime.Int(2)}, result)
}

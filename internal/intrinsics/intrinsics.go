// Package intrinsics builds the closed table of host callables the
// parser lowers binary, comparison, and higher-order infix operators
// into. Each evaluator gets its own freshly built copy of the table
// (see Table), so no table is shared between evaluations.
package intrinsics

import (
	"github.com/weavelang/weave/internal/diag"
	"github.com/weavelang/weave/internal/runtime"
	"github.com/weavelang/weave/pkg/token"
)

// Table returns a fresh copy of the intrinsic-name → callable mapping.
// A fresh copy per evaluation avoids any shared mutable state between
// concurrent executions, even though none of these entries is ever
// mutated in practice.
func Table() map[string]runtime.Value {
	return map[string]runtime.Value{
		"_binary_plus":      intr("_binary_plus", 2, binaryPlus),
		"_binary_concat":    intr("_binary_concat", 2, binaryConcat),
		"_binary_diff":      intr("_binary_diff", 2, binaryDiff),
		"_binary_times":     intr("_binary_times", 2, binaryTimes),
		"_binary_eq":        intr("_binary_eq", 2, binaryEq),
		"_binary_neq":       intr("_binary_neq", 2, binaryNeq),
		"_binary_gt":        intr("_binary_gt", 2, binaryGt),
		"_binary_lt":        intr("_binary_lt", 2, binaryLt),
		"_binary_gte":       intr("_binary_gte", 2, binaryGte),
		"_binary_lte":       intr("_binary_lte", 2, binaryLte),
		"_infix_map":        intr("_infix_map", 2, infixMap),
		"_infix_filter":     intr("_infix_filter", 2, infixFilter),
		"_infix_flatMap":    intr("_infix_flatMap", 2, infixFlatMap),
		"_infix_distinctBy": intr("_infix_distinctBy", 2, infixDistinctBy),
		"_infix_reduce":     intr("_infix_reduce", 2, infixReduce),
		"_infix_to":         intr("_infix_to", 2, infixTo),
	}
}

func intr(name string, arity int, fn func(args []runtime.Value) (runtime.Value, error)) *runtime.Intrinsic {
	return &runtime.Intrinsic{Name: name, NumParams: arity, Fn: fn}
}

func binaryPlus(args []runtime.Value) (runtime.Value, error) {
	a, aok := runtime.AsFloat(args[0])
	b, bok := runtime.AsFloat(args[1])
	if !aok || !bok {
		return nil, typeErr("_binary_plus expects numeric operands")
	}
	return runtime.NumberFromFloat(a + b), nil
}

func binaryTimes(args []runtime.Value) (runtime.Value, error) {
	a, aok := runtime.AsFloat(args[0])
	b, bok := runtime.AsFloat(args[1])
	if !aok || !bok {
		return nil, typeErr("_binary_times expects numeric operands")
	}
	return runtime.NumberFromFloat(a * b), nil
}

// binaryConcat implements `++`: list concatenation when either operand
// is a list, otherwise string concatenation of both operands' textual
// form.
func binaryConcat(args []runtime.Value) (runtime.Value, error) {
	_, aList := args[0].(runtime.List)
	_, bList := args[1].(runtime.List)
	if aList || bList {
		left := runtime.ToIterable(args[0])
		right := runtime.ToIterable(args[1])
		out := make(runtime.List, 0, len(left)+len(right))
		out = append(out, left...)
		out = append(out, right...)
		return out, nil
	}
	return runtime.Str(args[0].String() + args[1].String()), nil
}

// binaryDiff implements `--`: array difference (elements of the left
// list not present in the right list, order preserved) when both
// operands are lists, otherwise numeric subtraction with null as 0.
func binaryDiff(args []runtime.Value) (runtime.Value, error) {
	aList, aok := args[0].(runtime.List)
	bList, bok := args[1].(runtime.List)
	if aok && bok {
		out := make(runtime.List, 0, len(aList))
		for _, item := range aList {
			found := false
			for _, other := range bList {
				if runtime.Equals(item, other) {
					found = true
					break
				}
			}
			if !found {
				out = append(out, item)
			}
		}
		return out, nil
	}
	a, aNum := runtime.AsFloat(args[0])
	b, bNum := runtime.AsFloat(args[1])
	if !aNum || !bNum {
		return nil, typeErr("_binary_diff expects two lists or two numbers")
	}
	return runtime.NumberFromFloat(a - b), nil
}

func binaryEq(args []runtime.Value) (runtime.Value, error) {
	return runtime.Bool(runtime.Equals(args[0], args[1])), nil
}

func binaryNeq(args []runtime.Value) (runtime.Value, error) {
	return runtime.Bool(!runtime.Equals(args[0], args[1])), nil
}

func compareOp(name string, pass func(c int) bool) func([]runtime.Value) (runtime.Value, error) {
	return func(args []runtime.Value) (runtime.Value, error) {
		c, ok := runtime.Compare(args[0], args[1])
		if !ok {
			return nil, typeErr("%s cannot compare %s and %s", name, args[0].Kind(), args[1].Kind())
		}
		return runtime.Bool(pass(c)), nil
	}
}

var (
	binaryGt  = compareOp("_binary_gt", func(c int) bool { return c > 0 })
	binaryLt  = compareOp("_binary_lt", func(c int) bool { return c < 0 })
	binaryGte = compareOp("_binary_gte", func(c int) bool { return c >= 0 })
	binaryLte = compareOp("_binary_lte", func(c int) bool { return c <= 0 })
)

func asCallable(v runtime.Value) (runtime.Callable, error) {
	c, ok := v.(runtime.Callable)
	if !ok {
		return nil, typeErr("expected a function, found %s", v.Kind())
	}
	return c, nil
}

// callWithIndex calls fn with (item, index) if it declares at least two
// parameters, otherwise with (item) alone: a lambda rejects arguments
// beyond its declared parameters, so the index is passed only to
// callables that declare room for it.
func callWithIndex(fn runtime.Callable, item runtime.Value, index int) (runtime.Value, error) {
	if fn.Arity() >= 2 {
		return fn.Call([]runtime.Value{item, runtime.Int(index)})
	}
	return fn.Call([]runtime.Value{item})
}

func infixMap(args []runtime.Value) (runtime.Value, error) {
	fn, err := asCallable(args[1])
	if err != nil {
		return nil, err
	}
	items := runtime.ToIterable(args[0])
	out := make(runtime.List, len(items))
	for i, item := range items {
		v, err := callWithIndex(fn, item, i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func infixFilter(args []runtime.Value) (runtime.Value, error) {
	fn, err := asCallable(args[1])
	if err != nil {
		return nil, err
	}
	items := runtime.ToIterable(args[0])
	var out runtime.List
	for i, item := range items {
		v, err := callWithIndex(fn, item, i)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(v) {
			out = append(out, item)
		}
	}
	return out, nil
}

func infixFlatMap(args []runtime.Value) (runtime.Value, error) {
	fn, err := asCallable(args[1])
	if err != nil {
		return nil, err
	}
	items := runtime.ToIterable(args[0])
	var out runtime.List
	for i, item := range items {
		v, err := callWithIndex(fn, item, i)
		if err != nil {
			return nil, err
		}
		out = append(out, runtime.ToIterable(v)...)
	}
	return out, nil
}

func infixDistinctBy(args []runtime.Value) (runtime.Value, error) {
	fn, err := asCallable(args[1])
	if err != nil {
		return nil, err
	}
	items := runtime.ToIterable(args[0])
	var out runtime.List
	var seen []runtime.Value
	for i, item := range items {
		key, err := callWithIndex(fn, item, i)
		if err != nil {
			return nil, err
		}
		dup := false
		for _, k := range seen {
			if runtime.Equals(k, key) {
				dup = true
				break
			}
		}
		if !dup {
			seen = append(seen, key)
			out = append(out, item)
		}
	}
	return out, nil
}

// infixReduce seeds the accumulator via a single-argument call
// `function(firstItem)`. Subsequent elements call
// `function(item, accumulator)` when the callable declares arity > 1,
// otherwise `function(item)` again, silently dropping the accumulator.
// A two-parameter lambda with no default for its accumulator parameter
// will therefore error on the seed call rather than on a later step.
func infixReduce(args []runtime.Value) (runtime.Value, error) {
	fn, err := asCallable(args[1])
	if err != nil {
		return nil, err
	}
	items := runtime.ToIterable(args[0])
	if len(items) == 0 {
		return runtime.NullValue, nil
	}
	acc, err := fn.Call([]runtime.Value{items[0]})
	if err != nil {
		return nil, err
	}
	for _, item := range items[1:] {
		if fn.Arity() > 1 {
			acc, err = fn.Call([]runtime.Value{item, acc})
		} else {
			acc, err = fn.Call([]runtime.Value{item})
		}
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func infixTo(args []runtime.Value) (runtime.Value, error) {
	start, sok := runtime.AsFloat(args[0])
	end, eok := runtime.AsFloat(args[1])
	if !sok || !eok {
		return nil, typeErr("_infix_to expects numeric bounds")
	}
	lo, hi := int64(start), int64(end)
	if lo > hi {
		return runtime.List{}, nil
	}
	out := make(runtime.List, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		out = append(out, runtime.Int(n))
	}
	return out, nil
}

func typeErr(format string, args ...any) error {
	return diag.Type(token.Position{}, format, args...)
}

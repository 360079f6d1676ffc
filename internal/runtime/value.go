// Package runtime defines weave's tagged runtime value model: null,
// bool, int, double, string, list, object, and callable, plus the
// lexical Environment lambdas close over.
package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is the tagged union every evaluated expression produces. It is a
// closed interface: Null, Bool, Int, Float, Str, List, Object, and
// Lambda/Intrinsic (both Callable) are its only implementations.
type Value interface {
	Kind() string
	String() string
}

// Null is the single "missing" value the default-coalesce operator
// checks for.
type Null struct{}

func (Null) Kind() string   { return "null" }
func (Null) String() string { return "null" }

// NullValue is the shared Null instance; values never need identity, so
// any call site can use this or a fresh Null{} interchangeably.
var NullValue Value = Null{}

// Bool is a boolean value.
type Bool bool

func (b Bool) Kind() string { return "boolean" }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Int is an integer value. Numeric literals that evaluate to an
// integral double are represented as Int.
type Int int64

func (i Int) Kind() string   { return "number" }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Float is a non-integral double value.
type Float float64

func (f Float) Kind() string   { return "number" }
func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

// Str is a string value.
type Str string

func (s Str) Kind() string   { return "string" }
func (s Str) String() string { return string(s) }

// List is an ordered sequence of values.
type List []Value

func (l List) Kind() string { return "array" }
func (l List) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Object is an insertion-ordered string-keyed mapping: object literals
// and transformed records must preserve field order. A plain Go map
// cannot satisfy that, so Object keeps an explicit key slice alongside a
// lookup index.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject creates an empty, insertion-ordered Object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Set inserts or updates a field, appending to the key order only the
// first time a key is seen.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the field's value and whether it is present.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the fields in insertion order. The caller must not mutate
// the returned slice.
func (o *Object) Keys() []string {
	return o.keys
}

// Len reports the number of fields.
func (o *Object) Len() int {
	return len(o.keys)
}

func (o *Object) Kind() string { return "object" }
func (o *Object) String() string {
	parts := make([]string, 0, len(o.keys))
	for _, k := range o.keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, o.values[k].String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Callable is any value that can appear as a FunctionCall target:
// a user Lambda or a host Intrinsic.
type Callable interface {
	Value
	// Arity is the number of declared parameters, used by the
	// higher-order intrinsics to decide whether to pass the index
	// (map/filter/flatMap/distinctBy) or the accumulator (reduce).
	Arity() int
	// Call invokes the callable with already-evaluated arguments.
	Call(args []Value) (Value, error)
}

package runtime

// IsMissing reports whether v is the language-level "missing" value used
// by DefaultOp: exactly null.
func IsMissing(v Value) bool {
	_, ok := v.(Null)
	return ok
}

// Truthy implements If/Match truthiness: null is false, booleans use
// their value, everything else is truthy when non-empty.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case Null:
		return false
	case Bool:
		return bool(x)
	case Str:
		return x != ""
	case List:
		return len(x) > 0
	case *Object:
		return x.Len() > 0
	case Int:
		return x != 0
	case Float:
		return x != 0
	default:
		return true
	}
}

// AsFloat coerces a numeric value (or null, treated as 0) to float64.
// ok is false for non-numeric, non-null values.
func AsFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case Null:
		return 0, true
	case Int:
		return float64(x), true
	case Float:
		return float64(x), true
	default:
		return 0, false
	}
}

// ToIterable coerces a value into a sequence for the higher-order infix
// operators: null becomes empty, a list is itself, an object yields its
// values in insertion order, anything else becomes a single-element
// list.
func ToIterable(v Value) []Value {
	switch x := v.(type) {
	case Null:
		return nil
	case List:
		return x
	case *Object:
		out := make([]Value, 0, x.Len())
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			out = append(out, val)
		}
		return out
	default:
		return []Value{v}
	}
}

// Equals implements value equality across compatible kinds, used by
// comparison intrinsics and match-pattern matching.
func Equals(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Str:
		bv, ok := b.(Str)
		return ok && av == bv
	case Int, Float:
		af, aok := AsFloat(a)
		bf, bok := AsFloat(b)
		return aok && bok && af == bf
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equals(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.Keys() {
			bval, present := bv.Get(k)
			if !present {
				return false
			}
			aval, _ := av.Get(k)
			if !Equals(aval, bval) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare orders two numeric or string values. ok is false when the pair
// is not comparable: comparison intrinsics only order values of
// compatible kinds.
func Compare(a, b Value) (int, bool) {
	if as, ok := a.(Str); ok {
		if bs, ok := b.(Str); ok {
			switch {
			case as < bs:
				return -1, true
			case as > bs:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}
	af, aok := AsFloat(a)
	bf, bok := AsFloat(b)
	if !aok || !bok {
		return 0, false
	}
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	default:
		return 0, true
	}
}

// NumberFromFloat applies the literal-coercion rule shared by arithmetic
// and numeric literals: an integral double becomes an Int, otherwise a
// Float.
func NumberFromFloat(f float64) Value {
	if f == float64(int64(f)) {
		return Int(int64(f))
	}
	return Float(f)
}

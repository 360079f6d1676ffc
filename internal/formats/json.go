package formats

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/weavelang/weave/internal/runtime"
)

// readJSON parses JSON text with gjson rather than encoding/json so that
// object key order from the source document is preserved into
// runtime.Object: gjson.Result.ForEach walks an object's keys in source
// order, which a decode into map[string]any cannot.
func readJSON(input []byte, _ map[string]string) (runtime.Value, error) {
	text := string(input)
	if !gjson.Valid(text) {
		return nil, fmt.Errorf("invalid JSON input")
	}
	return gjsonToValue(gjson.Parse(text)), nil
}

func gjsonToValue(r gjson.Result) runtime.Value {
	switch r.Type {
	case gjson.Null:
		return runtime.NullValue
	case gjson.True:
		return runtime.Bool(true)
	case gjson.False:
		return runtime.Bool(false)
	case gjson.Number:
		return runtime.NumberFromFloat(r.Num)
	case gjson.String:
		return runtime.Str(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			var list runtime.List
			r.ForEach(func(_, v gjson.Result) bool {
				list = append(list, gjsonToValue(v))
				return true
			})
			return list
		}
		obj := runtime.NewObject()
		r.ForEach(func(k, v gjson.Result) bool {
			obj.Set(k.String(), gjsonToValue(v))
			return true
		})
		return obj
	default:
		return runtime.NullValue
	}
}

// writeJSON renders a runtime.Value to JSON text using sjson, building the
// document field-by-field with sjson.SetRaw so that runtime.Object
// key order is preserved in the output exactly as it appears in the
// value. An "indent" option pretty-prints the result with that many
// spaces.
func writeJSON(v runtime.Value, opts map[string]string) ([]byte, error) {
	raw, err := valueToJSONRaw(v)
	if err != nil {
		return nil, err
	}
	if indentStr, ok := opts["indent"]; ok && indentStr != "" {
		n, err := strconv.Atoi(indentStr)
		if err != nil {
			return nil, fmt.Errorf("JSON indent must be an integer: %w", err)
		}
		return indentJSON(raw, n), nil
	}
	return raw, nil
}

func valueToJSONRaw(v runtime.Value) ([]byte, error) {
	switch x := v.(type) {
	case runtime.Null, nil:
		return []byte("null"), nil
	case runtime.Bool:
		if x {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case runtime.Int:
		return []byte(x.String()), nil
	case runtime.Float:
		return []byte(x.String()), nil
	case runtime.Str:
		raw, err := sjson.SetRaw("", "v", strconv.Quote(string(x)))
		if err != nil {
			return nil, err
		}
		return []byte(gjson.Get(raw, "v").Raw), nil
	case runtime.List:
		doc := "[]"
		var err error
		for i, elem := range x {
			var elemRaw []byte
			elemRaw, err = valueToJSONRaw(elem)
			if err != nil {
				return nil, err
			}
			doc, err = sjson.SetRaw(doc, strconv.Itoa(i), string(elemRaw))
			if err != nil {
				return nil, err
			}
		}
		return []byte(doc), nil
	case *runtime.Object:
		doc := "{}"
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			fieldRaw, err := valueToJSONRaw(val)
			if err != nil {
				return nil, err
			}
			doc, err = sjson.SetRaw(doc, sjsonEscapeKey(k), string(fieldRaw))
			if err != nil {
				return nil, err
			}
		}
		return []byte(doc), nil
	default:
		return nil, fmt.Errorf("cannot render %s as JSON", v.Kind())
	}
}

// sjsonEscapeKey escapes sjson path metacharacters ('.', '*', '?') in a
// plain object key so it is treated as a literal single path segment.
func sjsonEscapeKey(key string) string {
	out := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '*', '?':
			out = append(out, '\\')
		}
		out = append(out, key[i])
	}
	return string(out)
}

func indentJSON(raw []byte, spaces int) []byte {
	var out []byte
	indent := func(depth int) {
		out = append(out, '\n')
		for i := 0; i < depth*spaces; i++ {
			out = append(out, ' ')
		}
	}
	depth := 0
	inString := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if inString {
			out = append(out, c)
			if c == '\\' && i+1 < len(raw) {
				i++
				out = append(out, raw[i])
				continue
			}
			if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
			out = append(out, c)
		case '{', '[':
			out = append(out, c)
			if i+1 < len(raw) && (raw[i+1] == '}' || raw[i+1] == ']') {
				continue
			}
			depth++
			indent(depth)
		case '}', ']':
			if i > 0 && (raw[i-1] == '{' || raw[i-1] == '[') {
				out = append(out, c)
				continue
			}
			depth--
			indent(depth)
			out = append(out, c)
		case ',':
			out = append(out, c)
			indent(depth)
		case ':':
			out = append(out, c, ' ')
		default:
			out = append(out, c)
		}
	}
	return out
}

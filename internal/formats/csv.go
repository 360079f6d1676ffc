package formats

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/weavelang/weave/internal/runtime"
)

// readCSV reads delimited rows with encoding/csv. Unless "header" is
// explicitly "false", the first row becomes each record's object keys;
// otherwise every row is a plain list.
func readCSV(input []byte, opts map[string]string) (runtime.Value, error) {
	r := csv.NewReader(bytes.NewReader(input))
	r.Comma = delimRune(opts["separator"], ',')
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	header := opts["header"] != "false"
	if !header || len(rows) == 0 {
		out := make(runtime.List, len(rows))
		for i, row := range rows {
			out[i] = stringsToList(row)
		}
		return out, nil
	}
	cols := rows[0]
	out := make(runtime.List, 0, len(rows)-1)
	for _, row := range rows[1:] {
		obj := runtime.NewObject()
		for i, col := range cols {
			if i < len(row) {
				obj.Set(col, runtime.Str(row[i]))
			} else {
				obj.Set(col, runtime.NullValue)
			}
		}
		out = append(out, obj)
	}
	return out, nil
}

func stringsToList(row []string) runtime.List {
	out := make(runtime.List, len(row))
	for i, v := range row {
		out[i] = runtime.Str(v)
	}
	return out
}

// writeCSV renders a list of objects (or a list of lists) to delimited
// text with encoding/csv: a list of objects writes a header row from the
// first record's keys followed by one row per object, while a plain list
// of lists (or scalars) writes rows as-is.
func writeCSV(v runtime.Value, opts map[string]string) ([]byte, error) {
	rows, ok := v.(runtime.List)
	if !ok {
		if obj, isObj := v.(*runtime.Object); isObj {
			rows = runtime.List{obj}
		} else {
			return nil, fmt.Errorf("CSV writer expects a list or object value")
		}
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = delimRune(opts["separator"], ',')

	header := opts["header"] != "false"
	if len(rows) > 0 {
		if first, isObj := rows[0].(*runtime.Object); isObj {
			cols := columnsFor(first, opts["columns"])
			if header {
				if err := w.Write(cols); err != nil {
					return nil, err
				}
			}
			for _, r := range rows {
				obj, ok := r.(*runtime.Object)
				if !ok {
					return nil, fmt.Errorf("CSV writer requires a uniform list of objects")
				}
				rec := make([]string, len(cols))
				for i, c := range cols {
					val, _ := obj.Get(c)
					if val != nil {
						rec[i] = val.String()
					}
				}
				if err := w.Write(rec); err != nil {
					return nil, err
				}
			}
			w.Flush()
			return buf.Bytes(), w.Error()
		}
	}
	for _, r := range rows {
		switch x := r.(type) {
		case runtime.List:
			rec := make([]string, len(x))
			for i, el := range x {
				rec[i] = el.String()
			}
			if err := w.Write(rec); err != nil {
				return nil, err
			}
		default:
			if err := w.Write([]string{x.String()}); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func columnsFor(first *runtime.Object, explicit string) []string {
	if explicit != "" {
		parts := strings.Split(explicit, ",")
		cols := make([]string, 0, len(parts))
		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				cols = append(cols, t)
			}
		}
		if len(cols) > 0 {
			return cols
		}
	}
	return first.Keys()
}

func delimRune(s string, def rune) rune {
	if s == "" {
		return def
	}
	return []rune(s)[0]
}

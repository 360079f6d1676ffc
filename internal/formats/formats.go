// Package formats is weave's format registry. It converts raw bytes to
// and from runtime.Value at the Execute boundary only — the evaluator
// itself never imports this package, so script evaluation stays
// independent of whatever format the payload or output happens to use.
package formats

import (
	"strings"

	"github.com/weavelang/weave/internal/diag"
	"github.com/weavelang/weave/internal/runtime"
)

// Reader parses raw input bytes into a runtime.Value.
type Reader func(input []byte, opts map[string]string) (runtime.Value, error)

// Writer renders a runtime.Value into raw output bytes.
type Writer func(v runtime.Value, opts map[string]string) ([]byte, error)

// Format is one registered reader/writer pair.
type Format struct {
	ID       string
	MIMEType string
	Reader   Reader
	Writer   Writer
}

var (
	registry = map[string]*Format{}
	aliases  = map[string]string{}
)

// register stores the definition under its id, then indexes both the id
// and MIME type (plus any extra aliases) for case-insensitive lookup.
func register(f *Format, extraAliases ...string) {
	registry[f.ID] = f
	aliases[strings.ToLower(f.ID)] = f.ID
	aliases[strings.ToLower(f.MIMEType)] = f.ID
	for _, a := range extraAliases {
		aliases[strings.ToLower(a)] = f.ID
	}
}

// Get resolves a bare format id or MIME type (case-insensitive) to its
// registered Format, matching the values that can appear after a
// header's `output` directive.
func Get(name string) (*Format, bool) {
	if name == "" {
		return nil, false
	}
	id, ok := aliases[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	f, ok := registry[id]
	return f, ok
}

// Read parses input through the named format's reader. An unregistered
// format name is a FormatError.
func Read(name string, input []byte, opts map[string]string) (runtime.Value, error) {
	f, ok := Get(name)
	if !ok {
		return nil, diag.Format("unsupported input format %q", name)
	}
	if f.Reader == nil {
		return nil, diag.Format("format %q has no reader", name)
	}
	v, err := f.Reader(input, opts)
	if err != nil {
		return nil, diag.Format("failed to parse input as %s: %s", f.ID, err.Error())
	}
	return v, nil
}

// Write renders v through the named format's writer. An unregistered
// format name is a FormatError.
func Write(name string, v runtime.Value, opts map[string]string) ([]byte, error) {
	f, ok := Get(name)
	if !ok {
		return nil, diag.Format("unsupported output format %q", name)
	}
	if f.Writer == nil {
		return nil, diag.Format("format %q has no writer", name)
	}
	out, err := f.Writer(v, opts)
	if err != nil {
		return nil, diag.Format("failed to render output as %s: %s", f.ID, err.Error())
	}
	return out, nil
}

func init() {
	register(&Format{ID: "json", MIMEType: "application/json", Reader: readJSON, Writer: writeJSON}, "text/json")
	register(&Format{ID: "csv", MIMEType: "application/csv", Reader: readCSV, Writer: writeCSV}, "text/csv")
	register(&Format{ID: "xml", MIMEType: "application/xml", Reader: readXML, Writer: writeXML}, "text/xml")
}

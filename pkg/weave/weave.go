// Package weave is the public engine API: New/Execute wraps header
// parse, body parse, evaluation, and rendering behind a single call,
// configured with functional options.
package weave

import (
	"github.com/weavelang/weave/internal/diag"
	"github.com/weavelang/weave/internal/evaluator"
	"github.com/weavelang/weave/internal/formats"
	"github.com/weavelang/weave/internal/parser"
	"github.com/weavelang/weave/internal/runtime"
	"github.com/weavelang/weave/pkg/ast"
)

// Engine holds configuration that applies across Execute calls: the
// input format assumed when the caller passes raw bytes, and options for
// the output format writer.
type Engine struct {
	inputFormat string
	writeOpts   map[string]string
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithInputFormat sets the format used to parse a []byte/string payload
// passed to Execute, when the caller has not already decoded it into a
// runtime.Value. Defaults to "json".
func WithInputFormat(name string) Option {
	return func(e *Engine) { e.inputFormat = name }
}

// WithWriteOption sets one option key/value forwarded to the output
// format's writer (e.g. "indent", "separator", "header").
func WithWriteOption(key, value string) Option {
	return func(e *Engine) {
		if e.writeOpts == nil {
			e.writeOpts = map[string]string{}
		}
		e.writeOpts[key] = value
	}
}

// New constructs an Engine. With no options, raw payloads are parsed as
// JSON and output rendering uses each format's defaults.
func New(opts ...Option) *Engine {
	e := &Engine{inputFormat: "json"}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is what Execute returns: the evaluated value, plus its rendered
// bytes when the header names an output format.
type Result struct {
	Value    runtime.Value
	Rendered []byte // nil when the header has no `output` directive
	Format   string // "" when Rendered is nil
}

// Execute parses scriptSource, evaluates its body against payload and
// vars, and renders the result if the header names an output format.
//
// payload may be a runtime.Value (used as-is), a []byte or string (parsed
// through e.inputFormat), or nil (treated as runtime.NullValue).
// callerVars seeds the reserved `vars` identifier before header `var`
// declarations are evaluated.
func (e *Engine) Execute(scriptSource string, payload any, callerVars *runtime.Object) (*Result, error) {
	script, err := parser.ParseScript(scriptSource)
	if err != nil {
		return nil, err
	}
	payloadVal, err := e.resolvePayload(payload)
	if err != nil {
		return nil, err
	}
	value, err := e.run(script, payloadVal, callerVars)
	if err != nil {
		return nil, err
	}
	result := &Result{Value: value}
	if script.Header.Output != "" {
		rendered, err := formats.Write(script.Header.Output, value, e.writeOpts)
		if err != nil {
			return nil, err
		}
		result.Rendered = rendered
		result.Format = script.Header.Output
	}
	return result, nil
}

func (e *Engine) resolvePayload(payload any) (runtime.Value, error) {
	switch p := payload.(type) {
	case nil:
		return runtime.NullValue, nil
	case runtime.Value:
		return p, nil
	case []byte:
		return formats.Read(e.inputFormat, p, nil)
	case string:
		return formats.Read(e.inputFormat, []byte(p), nil)
	default:
		return nil, diag.Format("unsupported payload type %T", payload)
	}
}

// run builds the evaluator environment in order: intrinsics, then
// caller vars, then header var declarations in sequence, then the body.
func (e *Engine) run(script *ast.Script, payload runtime.Value, callerVars *runtime.Object) (runtime.Value, error) {
	ev := evaluator.New(payload, callerVars)
	for _, decl := range script.Header.Variables {
		if err := ev.DeclareVar(decl.Name, decl.Expression); err != nil {
			return nil, err
		}
	}
	return ev.Eval(script.Body, ev.RootEnv)
}

// ParseHeader is exposed for callers that want header metadata without
// running the body.
func ParseHeader(scriptSource string) (*ast.Header, error) {
	script, err := parser.ParseScript(scriptSource)
	if err != nil {
		return nil, err
	}
	return &script.Header, nil
}

// Package diag builds the interpreter's structured error taxonomy
// (LexError, ParseError, NameError, TypeError, FormatError) on top of
// github.com/samber/oops, so every error carries a category code, source
// position, and enough context for a single-line diagnostic.
package diag

import (
	"github.com/samber/oops"

	"github.com/weavelang/weave/pkg/token"
)

// Error codes, one per taxonomy entry.
const (
	CodeLex    = "LexError"
	CodeParse  = "ParseError"
	CodeName   = "NameError"
	CodeType   = "TypeError"
	CodeFormat = "FormatError"
)

func withPos(b oops.OopsErrorBuilder, pos token.Position) oops.OopsErrorBuilder {
	return b.With("line", pos.Line).With("column", pos.Column)
}

// Lex builds a LexError anchored at pos.
func Lex(pos token.Position, format string, args ...any) error {
	return withPos(oops.Code(CodeLex), pos).Errorf(format, args...)
}

// Parse builds a ParseError anchored at pos.
func Parse(pos token.Position, format string, args ...any) error {
	return withPos(oops.Code(CodeParse), pos).Errorf(format, args...)
}

// Name builds a NameError (unknown identifier) anchored at pos.
func Name(pos token.Position, name string) error {
	return withPos(oops.Code(CodeName), pos).With("name", name).Errorf("unknown identifier %q", name)
}

// Type builds a TypeError anchored at pos.
func Type(pos token.Position, format string, args ...any) error {
	return withPos(oops.Code(CodeType), pos).Errorf(format, args...)
}

// Format builds a FormatError. Raised only by the format registry at the
// I/O boundary; never produced by the core evaluator.
func Format(format string, args ...any) error {
	return oops.Code(CodeFormat).Errorf(format, args...)
}

// Code extracts the taxonomy code from err, if it was built by this
// package (or is otherwise an oops error). Returns "" for plain errors.
func Code(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		return oopsErr.Code()
	}
	return ""
}

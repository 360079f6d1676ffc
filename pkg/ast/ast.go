// Package ast defines the Abstract Syntax Tree node types produced by the
// weave parser: literals, constructors, accessors, calls, lambdas, and the
// if/match/default control forms, plus the Header/Script wrapper around a
// parsed program.
package ast

import (
	"strings"

	"github.com/weavelang/weave/pkg/token"
)

// Node is the base interface every AST node implements so diagnostics can
// always trace a node back to a token position.
type Node interface {
	Pos() token.Position
	String() string
}

// Expression is any node that produces a value when evaluated.
type Expression interface {
	Node
	expressionNode()
}

// Null, Boolean, Number, and String are the literal expression kinds.

type NullLiteral struct {
	Token token.Token
}

func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) Pos() token.Position  { return n.Token.Pos }
func (n *NullLiteral) String() string       { return "null" }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()     {}
func (b *BooleanLiteral) Pos() token.Position { return b.Token.Pos }
func (b *BooleanLiteral) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// NumberLiteral always stores the literal's text as parsed into a
// float64; whether it evaluates to an integer or double value is decided
// at evaluation time, not here.
type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (n *NumberLiteral) expressionNode()     {}
func (n *NumberLiteral) Pos() token.Position { return n.Token.Pos }
func (n *NumberLiteral) String() string      { return n.Token.Literal }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (s *StringLiteral) expressionNode()     {}
func (s *StringLiteral) Pos() token.Position { return s.Token.Pos }
func (s *StringLiteral) String() string      { return `"` + s.Value + `"` }

// Identifier references a bound name: payload, vars, an intrinsic, a
// header var, or a lambda parameter.
type Identifier struct {
	Token token.Token
	Name  string
}

func (i *Identifier) expressionNode()     {}
func (i *Identifier) Pos() token.Position { return i.Token.Pos }
func (i *Identifier) String() string      { return i.Name }

// ObjectField is one key/value pair of an ObjectLiteral; order matters.
type ObjectField struct {
	Key   string
	Value Expression
}

// ObjectLiteral preserves field declaration order, which is significant
// both for the resulting runtime.Object and for left-to-right evaluation.
type ObjectLiteral struct {
	Token  token.Token // the '{'
	Fields []ObjectField
}

func (o *ObjectLiteral) expressionNode()     {}
func (o *ObjectLiteral) Pos() token.Position { return o.Token.Pos }
func (o *ObjectLiteral) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, f := range o.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Key)
		sb.WriteString(": ")
		sb.WriteString(f.Value.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

// ListLiteral is an ordered sequence of element expressions.
type ListLiteral struct {
	Token    token.Token // the '['
	Elements []Expression
}

func (l *ListLiteral) expressionNode()     {}
func (l *ListLiteral) Pos() token.Position { return l.Token.Pos }
func (l *ListLiteral) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range l.Elements {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// PropertyAccess is `.attribute` or, when NullSafe, `?.attribute`.
type PropertyAccess struct {
	Token     token.Token // the '.' or '?.'
	Value     Expression
	Attribute string
	NullSafe  bool
}

func (p *PropertyAccess) expressionNode()     {}
func (p *PropertyAccess) Pos() token.Position { return p.Token.Pos }
func (p *PropertyAccess) String() string {
	op := "."
	if p.NullSafe {
		op = "?."
	}
	return p.Value.String() + op + p.Attribute
}

// IndexAccess is `value[index]`.
type IndexAccess struct {
	Token token.Token // the '['
	Value Expression
	Index Expression
}

func (ix *IndexAccess) expressionNode()     {}
func (ix *IndexAccess) Pos() token.Position { return ix.Token.Pos }
func (ix *IndexAccess) String() string {
	return ix.Value.String() + "[" + ix.Index.String() + "]"
}

// FunctionCall is `function(args...)`. The parser lowers all binary and
// infix operators into FunctionCall nodes against reserved intrinsic
// names, so this is the only "apply" node in the AST.
type FunctionCall struct {
	Token    token.Token // the '(', or the operator token for a lowered operator call
	Function Expression
	Args     []Expression
}

func (f *FunctionCall) expressionNode()     {}
func (f *FunctionCall) Pos() token.Position { return f.Token.Pos }
func (f *FunctionCall) String() string {
	var sb strings.Builder
	sb.WriteString(f.Function.String())
	sb.WriteByte('(')
	for i, a := range f.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// DefaultOp is `left default right`; right is only evaluated when left
// is missing (null).
type DefaultOp struct {
	Token token.Token // the 'default' keyword
	Left  Expression
	Right Expression
}

func (d *DefaultOp) expressionNode()     {}
func (d *DefaultOp) Pos() token.Position { return d.Token.Pos }
func (d *DefaultOp) String() string {
	return d.Left.String() + " default " + d.Right.String()
}

// IfExpression is `if (cond) then else else`.
type IfExpression struct {
	Token     token.Token // the 'if' identifier
	Condition Expression
	Then      Expression
	Else      Expression
}

func (i *IfExpression) expressionNode()     {}
func (i *IfExpression) Pos() token.Position { return i.Token.Pos }
func (i *IfExpression) String() string {
	return "if (" + i.Condition.String() + ") " + i.Then.String() + " else " + i.Else.String()
}

// Parameter is a lambda parameter with an optional default expression.
type Parameter struct {
	Name    string
	Default Expression // nil if no default
}

// LambdaExpression is `(p1, p2 = default) -> body`.
type LambdaExpression struct {
	Token      token.Token // the '(' that opened the parameter list
	Parameters []Parameter
	Body       Expression
}

func (l *LambdaExpression) expressionNode()     {}
func (l *LambdaExpression) Pos() token.Position { return l.Token.Pos }
func (l *LambdaExpression) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, p := range l.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		if p.Default != nil {
			sb.WriteString(" = ")
			sb.WriteString(p.Default.String())
		}
	}
	sb.WriteString(") -> ")
	sb.WriteString(l.Body.String())
	return sb.String()
}

// MatchPattern is one case's pattern: an optional `var` binding, an
// optional equality matcher expression, and an optional `when` guard. A
// MatchCase with a nil MatchPattern is the `else` branch.
type MatchPattern struct {
	Binding string     // "" if no `var` binding
	Matcher Expression // nil if the case has no equality matcher (bare `var`)
	Guard   Expression // nil if no `when` guard
}

// MatchCase pairs a pattern (nil for `else`) with its result expression.
type MatchCase struct {
	Pattern    *MatchPattern
	Expression Expression
}

// MatchExpression is `subject match { case ... -> ..., else -> ... }`.
type MatchExpression struct {
	Token   token.Token // the 'match' identifier
	Subject Expression
	Cases   []MatchCase
}

func (m *MatchExpression) expressionNode()     {}
func (m *MatchExpression) Pos() token.Position { return m.Token.Pos }
func (m *MatchExpression) String() string {
	var sb strings.Builder
	sb.WriteString(m.Subject.String())
	sb.WriteString(" match { ... }")
	return sb.String()
}

// VarDeclaration is a header `var name = expression` directive.
type VarDeclaration struct {
	Name       string
	Expression Expression
}

// Header is the parsed script preamble: version directive, optional
// output format, verbatim import lines, and ordered var declarations.
type Header struct {
	Version   string
	Output    string // "" if absent
	Imports   []string
	Variables []VarDeclaration
}

// Script is a full parsed program: header plus body expression.
type Script struct {
	Header Header
	Body   Expression
}

// Package parser implements weave's header parser and Pratt-style
// expression parser, turning a token stream from internal/lexer into a
// pkg/ast.Script.
package parser

import (
	"fmt"
	"strconv"

	"github.com/weavelang/weave/internal/diag"
	"github.com/weavelang/weave/internal/lexer"
	"github.com/weavelang/weave/pkg/ast"
	"github.com/weavelang/weave/pkg/token"
)

// specialInfix maps the higher-order infix identifiers to the intrinsic
// name the parser lowers a call into.
var specialInfix = map[string]string{
	"map":        "_infix_map",
	"reduce":     "_infix_reduce",
	"filter":     "_infix_filter",
	"flatMap":    "_infix_flatMap",
	"distinctBy": "_infix_distinctBy",
	"to":         "_infix_to",
}

// reservedInfixStop is the set of identifiers that never act as an infix
// operator even though they are plain IDENT tokens lexically.
var reservedInfixStop = map[string]bool{
	"else": true, "when": true, "default": true,
	"match": true, "case": true, "var": true,
}

var comparisonIntrinsic = map[token.Type]string{
	token.EQ:  "_binary_eq",
	token.NEQ: "_binary_neq",
	token.GT:  "_binary_gt",
	token.LT:  "_binary_lt",
	token.GTE: "_binary_gte",
	token.LTE: "_binary_lte",
}

// Parser consumes a token sequence and produces an Expression AST. Only
// the lambda-vs-parenthesised-expression decision needs backtracking;
// that uses mark/reset on the position counter rather than general
// backtracking.
type Parser struct {
	tokens []token.Token
	pos    int
}

func newParser(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

// peek returns the token n positions ahead of the current one. peek(0)
// is an alias for cur().
func (p *Parser) peek(n int) token.Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[i]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if t.Type != token.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) expect(tt token.Type) (token.Token, error) {
	if p.cur().Type != tt {
		return token.Token{}, diag.Parse(p.cur().Pos, "expected %s but found %s", tt, p.cur().Type)
	}
	return p.advance(), nil
}

// expectIdent expects an IDENT token whose literal equals word (used for
// contextual keywords: if, else, match, case, when, var).
func (p *Parser) expectIdent(word string) (token.Token, error) {
	if p.cur().Type != token.IDENT || p.cur().Literal != word {
		return token.Token{}, diag.Parse(p.cur().Pos, "expected %q but found %s", word, describeTok(p.cur()))
	}
	return p.advance(), nil
}

func (p *Parser) curIsIdent(word string) bool {
	return p.cur().Type == token.IDENT && p.cur().Literal == word
}

func describeTok(t token.Token) string {
	if t.Type == token.IDENT || t.Type == token.STRING {
		return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
	}
	return t.Type.String()
}

// mark/reset implement the single bounded-lookahead rollback point the
// grammar needs: lambda detection in parsePrimary.
func (p *Parser) mark() int      { return p.pos }
func (p *Parser) reset(mark int) { p.pos = mark }

// ParseExpressionSource tokenizes and parses a standalone expression,
// requiring it to consume every token up to EOF.
func ParseExpressionSource(source string) (ast.Expression, error) {
	l := lexer.New(source)
	tokens := l.Tokenize()
	if err := l.Err(); err != nil {
		return nil, diag.Lex(err.Pos, "%s", err.Message)
	}
	p := newParser(tokens)
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != token.EOF {
		return nil, diag.Parse(p.cur().Pos, "unexpected tokens after expression, starting at %s", describeTok(p.cur()))
	}
	return expr, nil
}

// ---- expression grammar, lowest to highest precedence ----

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseIf()
}

func (p *Parser) parseIf() (ast.Expression, error) {
	if p.curIsIdent("if") {
		ifTok := p.advance()
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		thenExpr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectIdent("else"); err != nil {
			return nil, diag.Parse(p.cur().Pos, "if expression requires an else branch")
		}
		elseExpr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.IfExpression{Token: ifTok, Condition: cond, Then: thenExpr, Else: elseExpr}, nil
	}
	return p.parseDefault()
}

func (p *Parser) parseDefault() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.DEFAULT {
		tok := p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.DefaultOp{Token: tok, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		name, ok := comparisonIntrinsic[p.cur().Type]
		if !ok {
			return left, nil
		}
		tok := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = callOp(tok, name, left, right)
	}
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var name string
		switch p.cur().Type {
		case token.PLUS:
			name = "_binary_plus"
		case token.PLUSPLUS:
			name = "_binary_concat"
		case token.MINUSMINUS:
			name = "_binary_diff"
		default:
			return left, nil
		}
		tok := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = callOp(tok, name, left, right)
	}
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parsePostfix(false)
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.STAR {
		tok := p.advance()
		right, err := p.parsePostfix(false)
		if err != nil {
			return nil, err
		}
		left = callOp(tok, "_binary_times", left, right)
	}
	return left, nil
}

func callOp(tok token.Token, name string, left, right ast.Expression) ast.Expression {
	return &ast.FunctionCall{
		Token:    tok,
		Function: &ast.Identifier{Token: tok, Name: name},
		Args:     []ast.Expression{left, right},
	}
}

// parsePostfix parses a primary expression followed by any number of
// postfix tails: property/safe access, indexing, calls, infix-identifier
// operators, and match. When noInfix is true (used for the right operand
// of `to`), infix-identifier and match handling are disabled so
// `1 to 10 map f` associates as `(1 to 10) map f`.
//
// For every infix identifier other than `to`, the right-hand operand is
// itself parsed via a recursive parsePostfix call (full postfix
// precedence) rather than a flat left-to-right loop, so chained non-`to`
// infix operators nest right-to-left rather than accumulating
// left-to-right the way the arithmetic operators do. The `to` special
// case exists precisely to avoid this for the common `N to M map f`
// pattern.
func (p *Parser) parsePostfix(noInfix bool) (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.cur().Type == token.DOT:
			tok := p.advance()
			name, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			expr = &ast.PropertyAccess{Token: tok, Value: expr, Attribute: name.Literal}
		case p.cur().Type == token.SAFE_DOT:
			tok := p.advance()
			name, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			expr = &ast.PropertyAccess{Token: tok, Value: expr, Attribute: name.Literal, NullSafe: true}
		case p.cur().Type == token.LPAREN:
			expr, err = p.parseCall(expr)
			if err != nil {
				return nil, err
			}
		case p.cur().Type == token.LBRACK:
			tok := p.advance()
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACK); err != nil {
				return nil, err
			}
			expr = &ast.IndexAccess{Token: tok, Value: expr, Index: idx}
		case !noInfix && p.curIsIdent("match"):
			expr, err = p.parseMatch(expr)
			if err != nil {
				return nil, err
			}
		case !noInfix && p.cur().Type == token.IDENT && !reservedInfixStop[p.cur().Literal]:
			opTok := p.advance()
			opName := opTok.Literal
			var arg ast.Expression
			if opName == "to" {
				arg, err = p.parsePostfix(true)
			} else {
				arg, err = p.parsePostfix(false)
			}
			if err != nil {
				return nil, err
			}
			target := opName
			if special, ok := specialInfix[opName]; ok {
				target = special
			}
			expr = &ast.FunctionCall{
				Token:    opTok,
				Function: &ast.Identifier{Token: opTok, Name: target},
				Args:     []ast.Expression{expr, arg},
			}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseCall(fn ast.Expression) (ast.Expression, error) {
	tok, err := p.expect(token.LPAREN)
	if err != nil {
		return nil, err
	}
	var args []ast.Expression
	if p.cur().Type != token.RPAREN {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur().Type == token.COMMA {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.FunctionCall{Token: tok, Function: fn, Args: args}, nil
}

func (p *Parser) parseMatch(subject ast.Expression) (ast.Expression, error) {
	tok, err := p.expectIdent("match")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var cases []ast.MatchCase
	for p.cur().Type != token.RBRACE {
		var c ast.MatchCase
		switch {
		case p.curIsIdent("case"):
			p.advance()
			pattern, err := p.parseMatchPattern()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.ARROW); err != nil {
				return nil, err
			}
			result, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			c = ast.MatchCase{Pattern: pattern, Expression: result}
		case p.curIsIdent("else"):
			p.advance()
			if _, err := p.expect(token.ARROW); err != nil {
				return nil, err
			}
			result, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			c = ast.MatchCase{Pattern: nil, Expression: result}
		default:
			return nil, diag.Parse(p.cur().Pos, "expected 'case' or 'else' in match expression, found %s", describeTok(p.cur()))
		}
		cases = append(cases, c)
		if p.cur().Type == token.COMMA {
			p.advance()
		}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, diag.Parse(tok.Pos, "match expression must contain at least one case")
	}
	return &ast.MatchExpression{Token: tok, Subject: subject, Cases: cases}, nil
}

func (p *Parser) parseMatchPattern() (*ast.MatchPattern, error) {
	pattern := &ast.MatchPattern{}
	if p.curIsIdent("var") {
		p.advance()
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		pattern.Binding = name.Literal
	} else {
		matcher, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		pattern.Matcher = matcher
	}
	if p.curIsIdent("when") {
		p.advance()
		guard, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		pattern.Guard = guard
	}
	return pattern, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Type {
	case token.LBRACE:
		return p.parseObject()
	case token.LBRACK:
		return p.parseList()
	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}, nil
	case token.NUMBER:
		p.advance()
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, diag.Parse(tok.Pos, "invalid number literal %q", tok.Literal)
		}
		return &ast.NumberLiteral{Token: tok, Value: f}, nil
	case token.BOOLEAN:
		p.advance()
		return &ast.BooleanLiteral{Token: tok, Value: tok.Literal == "true"}, nil
	case token.NULL:
		p.advance()
		return &ast.NullLiteral{Token: tok}, nil
	case token.IDENT:
		p.advance()
		return &ast.Identifier{Token: tok, Name: tok.Literal}, nil
	case token.LPAREN:
		if lambda, ok, err := p.tryParseLambda(); err != nil {
			return nil, err
		} else if ok {
			return lambda, nil
		}
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, diag.Parse(tok.Pos, "unexpected token %s", describeTok(tok))
	}
}

func (p *Parser) parseObject() (ast.Expression, error) {
	tok, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	var fields []ast.ObjectField
	if p.cur().Type != token.RBRACE {
		for {
			var key string
			switch p.cur().Type {
			case token.STRING:
				key = p.advance().Literal
			case token.IDENT:
				key = p.advance().Literal
			default:
				return nil, diag.Parse(p.cur().Pos, "expected object key, found %s", describeTok(p.cur()))
			}
			if _, err := p.expect(token.COLON); err != nil {
				return nil, err
			}
			val, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.ObjectField{Key: key, Value: val})
			if p.cur().Type == token.RBRACE {
				break
			}
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.ObjectLiteral{Token: tok, Fields: fields}, nil
}

func (p *Parser) parseList() (ast.Expression, error) {
	tok, err := p.expect(token.LBRACK)
	if err != nil {
		return nil, err
	}
	var elems []ast.Expression
	if p.cur().Type != token.RBRACK {
		for {
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.cur().Type == token.RBRACK {
				break
			}
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(token.RBRACK); err != nil {
		return nil, err
	}
	return &ast.ListLiteral{Token: tok, Elements: elems}, nil
}

// tryParseLambda attempts the simple lambda form `(p1, p2 = d) -> body`,
// then the legacy form `((p1, p2) -> body)`, rolling back the position
// counter between attempts. ok is false (with the position restored) if
// neither form matches, in which case the caller falls back to an
// ordinary parenthesised expression.
func (p *Parser) tryParseLambda() (ast.Expression, bool, error) {
	start := p.mark()
	if lambda, err := p.parseLambdaSimple(); err == nil {
		return lambda, true, nil
	}
	p.reset(start)
	if lambda, err := p.parseLambdaLegacy(); err == nil {
		return lambda, true, nil
	}
	p.reset(start)
	return nil, false, nil
}

func (p *Parser) parseLambdaSimple() (ast.Expression, error) {
	tok, err := p.expect(token.LPAREN)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamListTail()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ARROW); err != nil {
		return nil, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.LambdaExpression{Token: tok, Parameters: params, Body: body}, nil
}

func (p *Parser) parseLambdaLegacy() (ast.Expression, error) {
	tok, err := p.expect(token.LPAREN)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParameterList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ARROW); err != nil {
		return nil, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.LambdaExpression{Token: tok, Parameters: params, Body: body}, nil
}

// parseParamListTail parses the parameter list for the simple lambda
// form, where the opening LPAREN has already been consumed.
func (p *Parser) parseParamListTail() ([]ast.Parameter, error) {
	var params []ast.Parameter
	if p.cur().Type == token.RPAREN {
		p.advance()
		return params, nil
	}
	for {
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		param := ast.Parameter{Name: name.Literal}
		if p.cur().Type == token.ASSIGN {
			p.advance()
			def, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			param.Default = def
		}
		params = append(params, param)
		if p.cur().Type == token.COMMA {
			p.advance()
			continue
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		break
	}
	return params, nil
}

// parseParameterList parses a full `(p1, p2 = d)` list including its own
// parens, used by the legacy lambda form.
func (p *Parser) parseParameterList() ([]ast.Parameter, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	return p.parseParamListTail()
}

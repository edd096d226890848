package rmlgen

import "strconv"

// maxExprDepth bounds recursive descent through operand and grouping
// positions, so pathological nesting fails with a diagnostic instead of
// exhausting the stack.
const maxExprDepth = 64

// parseExpression parses one expression span extracted from a quoted
// attribute value or an interpolation. base locates the span's first
// character in the document; every position inside the span derives from
// it.
func parseExpression(src string, base Position) (Expr, *Error) {
	tokens, err := lexExpression(src, base)
	if err != nil {
		return nil, err
	}
	x := &exprParser{base: base, tokens: tokens}
	x.advance()

	if x.current.Type == TokenEOF {
		return nil, NewError(StageParse, CodeMalformedExpression, base, "empty expression")
	}
	expr := x.parseAssign()
	if x.err != nil {
		return nil, x.err
	}
	if x.current.Type != TokenEOF {
		return nil, NewErrorf(StageParse, CodeMalformedExpression, x.position(),
			"unexpected %s after expression", x.current.Type)
	}
	return expr, nil
}

// exprParser is a recursive-descent parser over one expression span. Each
// level hands tighter-binding operands to the next: assignment, ternary,
// nullish, logical or, logical and, equality, relational, additive,
// multiplicative, unary, postfix, primary.
type exprParser struct {
	base    Position
	tokens  []Token
	pos     int
	current Token
	depth   int
	err     *Error
}

var assignOps = map[TokenType]AssignOp{
	TokenEquals:  OpAssign,
	TokenPlusEq:  OpAddAssign,
	TokenMinusEq: OpSubAssign,
	TokenStarEq:  OpMulAssign,
	TokenSlashEq: OpDivAssign,
}

// parseAssign is the entry level. Assignment is right-associative and
// only valid on identifier, member, or index targets.
func (x *exprParser) parseAssign() Expr {
	if !x.enter() {
		return nil
	}
	defer x.leave()

	left := x.parseTernary()
	if x.err != nil {
		return nil
	}
	if x.current.Type == TokenArrow {
		x.failf(CodeUnsupportedSyntax, "arrow functions are not supported")
		return nil
	}
	op, ok := assignOps[x.current.Type]
	if !ok {
		return left
	}
	if !isAssignTarget(left) {
		x.failf(CodeMalformedExpression, "invalid assignment target")
		return nil
	}
	x.advance()
	value := x.parseAssign()
	if x.err != nil {
		return nil
	}
	return &AssignExpr{Op: op, Target: left, Value: value, Position: left.Pos()}
}

func (x *exprParser) parseTernary() Expr {
	cond := x.parseNullish()
	if x.err != nil || x.current.Type != TokenQuestion {
		return cond
	}
	x.advance()
	then := x.parseAssign()
	if x.err != nil {
		return nil
	}
	if !x.expect(TokenColon) {
		return nil
	}
	els := x.parseAssign()
	if x.err != nil {
		return nil
	}
	return &TernaryExpr{Cond: cond, Then: then, Else: els, Position: cond.Pos()}
}

func (x *exprParser) parseNullish() Expr {
	left := x.parseOr()
	for x.err == nil && x.current.Type == TokenNullish {
		pos := x.position()
		x.advance()
		right := x.parseOr()
		if x.err != nil {
			return nil
		}
		left = &BinaryExpr{Op: OpNullish, Left: left, Right: right, Position: pos}
	}
	return left
}

func (x *exprParser) parseOr() Expr {
	left := x.parseAnd()
	for x.err == nil && x.current.Type == TokenOrOr {
		pos := x.position()
		x.advance()
		right := x.parseAnd()
		if x.err != nil {
			return nil
		}
		left = &BinaryExpr{Op: OpOr, Left: left, Right: right, Position: pos}
	}
	return left
}

func (x *exprParser) parseAnd() Expr {
	left := x.parseEquality()
	for x.err == nil && x.current.Type == TokenAndAnd {
		pos := x.position()
		x.advance()
		right := x.parseEquality()
		if x.err != nil {
			return nil
		}
		left = &BinaryExpr{Op: OpAnd, Left: left, Right: right, Position: pos}
	}
	return left
}

var equalityOps = map[TokenType]BinaryOp{
	TokenEqEq:        OpEq,
	TokenNotEq:       OpNeq,
	TokenStrictEq:    OpStrictEq,
	TokenStrictNotEq: OpStrictNeq,
}

func (x *exprParser) parseEquality() Expr {
	left := x.parseRelational()
	for x.err == nil {
		op, ok := equalityOps[x.current.Type]
		if !ok {
			return left
		}
		pos := x.position()
		x.advance()
		right := x.parseRelational()
		if x.err != nil {
			return nil
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right, Position: pos}
	}
	return nil
}

var relationalOps = map[TokenType]BinaryOp{
	TokenLt:   OpLt,
	TokenGt:   OpGt,
	TokenLtEq: OpLe,
	TokenGtEq: OpGe,
}

func (x *exprParser) parseRelational() Expr {
	left := x.parseAdditive()
	for x.err == nil {
		op, ok := relationalOps[x.current.Type]
		if !ok {
			return left
		}
		pos := x.position()
		x.advance()
		right := x.parseAdditive()
		if x.err != nil {
			return nil
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right, Position: pos}
	}
	return nil
}

func (x *exprParser) parseAdditive() Expr {
	left := x.parseMultiplicative()
	for x.err == nil {
		var op BinaryOp
		switch x.current.Type {
		case TokenPlus:
			op = OpAdd
		case TokenMinus:
			op = OpSub
		default:
			return left
		}
		pos := x.position()
		x.advance()
		right := x.parseMultiplicative()
		if x.err != nil {
			return nil
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right, Position: pos}
	}
	return nil
}

func (x *exprParser) parseMultiplicative() Expr {
	left := x.parseUnary()
	for x.err == nil {
		var op BinaryOp
		switch x.current.Type {
		case TokenStar:
			op = OpMul
		case TokenSlash:
			op = OpDiv
		case TokenPercent:
			op = OpMod
		default:
			return left
		}
		pos := x.position()
		x.advance()
		right := x.parseUnary()
		if x.err != nil {
			return nil
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right, Position: pos}
	}
	return nil
}

func (x *exprParser) parseUnary() Expr {
	if !x.enter() {
		return nil
	}
	defer x.leave()

	var op UnaryOp
	switch x.current.Type {
	case TokenBang:
		op = OpNot
	case TokenMinus:
		op = OpNeg
	case TokenTypeof:
		op = OpTypeof
	case TokenPlusPlus, TokenMinusMinus:
		x.failf(CodeUnsupportedSyntax, "prefix %s is not supported", x.current.Type)
		return nil
	default:
		return x.parsePostfix()
	}
	pos := x.position()
	x.advance()
	operand := x.parseUnary()
	if x.err != nil {
		return nil
	}
	return &UnaryExpr{Op: op, Operand: operand, Position: pos}
}

// parsePostfix parses member access, indexing, calls, and the postfix
// increment forms. x++ and x-- are sugar and build the same tree as
// x = x + 1 and x = x - 1.
func (x *exprParser) parsePostfix() Expr {
	expr := x.parsePrimary()
	for x.err == nil {
		switch x.current.Type {
		case TokenDot:
			x.advance()
			if x.current.Type != TokenIdent {
				x.failf(CodeMalformedExpression, "expected property name, got %s", x.current.Type)
				return nil
			}
			expr = &MemberExpr{Object: expr, Property: x.current.Literal, Position: expr.Pos()}
			x.advance()

		case TokenLBracket:
			x.advance()
			index := x.parseAssign()
			if x.err != nil {
				return nil
			}
			if !x.expect(TokenRBracket) {
				return nil
			}
			expr = &IndexExpr{Object: expr, Index: index, Position: expr.Pos()}

		case TokenLParen:
			x.advance()
			var args []Expr
			for x.current.Type != TokenRParen {
				arg := x.parseAssign()
				if x.err != nil {
					return nil
				}
				args = append(args, arg)
				if x.current.Type != TokenComma {
					break
				}
				x.advance()
			}
			if !x.expect(TokenRParen) {
				return nil
			}
			expr = &CallExpr{Callee: expr, Args: args, Position: expr.Pos()}

		case TokenPlusPlus, TokenMinusMinus:
			if !isAssignTarget(expr) {
				x.failf(CodeMalformedExpression, "invalid %s target", x.current.Type)
				return nil
			}
			op := OpAdd
			if x.current.Type == TokenMinusMinus {
				op = OpSub
			}
			pos := x.position()
			x.advance()
			one := &NumberLit{Text: "1", Value: 1, Position: pos}
			expr = &AssignExpr{
				Op:       OpAssign,
				Target:   expr,
				Value:    &BinaryExpr{Op: op, Left: expr, Right: one, Position: pos},
				Position: expr.Pos(),
			}

		case TokenOptChain:
			x.failf(CodeUnsupportedSyntax, "optional chaining is not supported")
			return nil

		default:
			return expr
		}
	}
	return nil
}

func (x *exprParser) parsePrimary() Expr {
	tok := x.current
	pos := x.position()

	switch tok.Type {
	case TokenNumber:
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			x.failf(CodeMalformedExpression, "invalid number %q", tok.Literal)
			return nil
		}
		x.advance()
		return &NumberLit{Text: tok.Literal, Value: value, Position: pos}

	case TokenString:
		x.advance()
		return &StringLit{Value: tok.Literal, Position: pos}

	case TokenTrue, TokenFalse:
		x.advance()
		return &BoolLit{Value: tok.Type == TokenTrue, Position: pos}

	case TokenNull:
		x.advance()
		return &NullLit{Position: pos}

	case TokenUndefined:
		x.advance()
		return &UndefinedLit{Position: pos}

	case TokenIdent:
		x.advance()
		return &Ident{Name: tok.Literal, Position: pos}

	case TokenLParen:
		x.advance()
		inner := x.parseAssign()
		if x.err != nil {
			return nil
		}
		if !x.expect(TokenRParen) {
			return nil
		}
		return inner

	case TokenLBrace:
		return x.parseObjectLit()

	case TokenLBracket:
		return x.parseArrayLit()

	case TokenEOF:
		x.failf(CodeMalformedExpression, "unexpected end of expression")
		return nil

	default:
		x.failf(CodeMalformedExpression, "unexpected %s in expression", tok.Type)
		return nil
	}
}

// parseObjectLit parses { key: value, ... }. Keys are identifiers or
// string literals; a bare identifier is shorthand for key: key.
func (x *exprParser) parseObjectLit() Expr {
	lit := &ObjectLit{Position: x.position()}
	x.advance() // {

	for x.current.Type != TokenRBrace {
		prop := ObjectProp{Position: x.position()}
		switch x.current.Type {
		case TokenIdent:
			prop.Key = x.current.Literal
			x.advance()
		case TokenString:
			prop.Key = x.current.Literal
			x.advance()
		default:
			x.failf(CodeMalformedExpression, "expected property key, got %s", x.current.Type)
			return nil
		}

		if x.current.Type == TokenColon {
			x.advance()
			prop.Value = x.parseAssign()
			if x.err != nil {
				return nil
			}
		} else {
			prop.Value = &Ident{Name: prop.Key, Position: prop.Position}
		}
		lit.Props = append(lit.Props, prop)

		if x.current.Type != TokenComma {
			break
		}
		x.advance()
	}
	if !x.expect(TokenRBrace) {
		return nil
	}
	return lit
}

// parseArrayLit parses [ elem, ... ] with an optional trailing comma.
func (x *exprParser) parseArrayLit() Expr {
	lit := &ArrayLit{Position: x.position()}
	x.advance() // [

	for x.current.Type != TokenRBracket {
		elem := x.parseAssign()
		if x.err != nil {
			return nil
		}
		lit.Elems = append(lit.Elems, elem)
		if x.current.Type != TokenComma {
			break
		}
		x.advance()
	}
	if !x.expect(TokenRBracket) {
		return nil
	}
	return lit
}

// isAssignTarget reports whether e names a writable location.
func isAssignTarget(e Expr) bool {
	switch e.(type) {
	case *Ident, *MemberExpr, *IndexExpr:
		return true
	}
	return false
}

func (x *exprParser) advance() {
	if x.pos < len(x.tokens) {
		x.current = x.tokens[x.pos]
		x.pos++
	}
}

func (x *exprParser) position() Position {
	return Position{File: x.base.File, Line: x.current.Line, Column: x.current.Column}
}

func (x *exprParser) expect(typ TokenType) bool {
	if x.current.Type == typ {
		x.advance()
		return true
	}
	x.failf(CodeMalformedExpression, "expected %s, got %s", typ, x.current.Type)
	return false
}

func (x *exprParser) failf(code Code, format string, args ...any) {
	if x.err == nil {
		x.err = NewErrorf(StageParse, code, x.position(), format, args...)
	}
}

func (x *exprParser) enter() bool {
	x.depth++
	if x.depth > maxExprDepth {
		x.failf(CodeExpressionTooDeep, "expression nests deeper than %d levels", maxExprDepth)
		return false
	}
	return true
}

func (x *exprParser) leave() {
	x.depth--
}

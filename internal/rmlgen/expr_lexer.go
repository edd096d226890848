package rmlgen

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// exprLexer tokenizes one extracted expression span. Spans are always
// single-line (the document scanner rejects newlines inside strings), so
// every token's position is the span's base position shifted by column.
type exprLexer struct {
	source  string
	pos     int
	readPos int
	ch      rune

	base Position // file position of source[0]
	col  int      // rune offset of current char within the span

	tokenCol int
	tokenPos int
}

// lexExpression scans an expression span into a token stream ending with
// EOF. base locates the span's first character in the enclosing file so
// diagnostics point into the real source, not into the extracted text.
func lexExpression(source string, base Position) ([]Token, *Error) {
	l := &exprLexer{source: source, base: base, col: -1}
	l.readChar()

	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *exprLexer) next() (Token, *Error) {
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}
	l.startToken()

	switch l.ch {
	case 0:
		return l.makeToken(TokenEOF, ""), nil

	case '(':
		l.readChar()
		return l.makeToken(TokenLParen, "("), nil
	case ')':
		l.readChar()
		return l.makeToken(TokenRParen, ")"), nil
	case '{':
		l.readChar()
		return l.makeToken(TokenLBrace, "{"), nil
	case '}':
		l.readChar()
		return l.makeToken(TokenRBrace, "}"), nil
	case '[':
		l.readChar()
		return l.makeToken(TokenLBracket, "["), nil
	case ']':
		l.readChar()
		return l.makeToken(TokenRBracket, "]"), nil
	case ',':
		l.readChar()
		return l.makeToken(TokenComma, ","), nil
	case ':':
		l.readChar()
		return l.makeToken(TokenColon, ":"), nil

	case '.':
		if isDigit(l.peekChar()) {
			return l.readNumber(), nil
		}
		l.readChar()
		return l.makeToken(TokenDot, "."), nil

	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return l.makeToken(TokenStrictEq, "==="), nil
			}
			return l.makeToken(TokenEqEq, "=="), nil
		}
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return l.makeToken(TokenArrow, "=>"), nil
		}
		l.readChar()
		return l.makeToken(TokenEquals, "="), nil

	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return l.makeToken(TokenStrictNotEq, "!=="), nil
			}
			return l.makeToken(TokenNotEq, "!="), nil
		}
		l.readChar()
		return l.makeToken(TokenBang, "!"), nil

	case '+':
		switch l.peekChar() {
		case '+':
			l.readChar()
			l.readChar()
			return l.makeToken(TokenPlusPlus, "++"), nil
		case '=':
			l.readChar()
			l.readChar()
			return l.makeToken(TokenPlusEq, "+="), nil
		}
		l.readChar()
		return l.makeToken(TokenPlus, "+"), nil

	case '-':
		switch l.peekChar() {
		case '-':
			l.readChar()
			l.readChar()
			return l.makeToken(TokenMinusMinus, "--"), nil
		case '=':
			l.readChar()
			l.readChar()
			return l.makeToken(TokenMinusEq, "-="), nil
		}
		l.readChar()
		return l.makeToken(TokenMinus, "-"), nil

	case '*':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.makeToken(TokenStarEq, "*="), nil
		}
		l.readChar()
		return l.makeToken(TokenStar, "*"), nil

	case '/':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.makeToken(TokenSlashEq, "/="), nil
		}
		l.readChar()
		return l.makeToken(TokenSlash, "/"), nil

	case '%':
		l.readChar()
		return l.makeToken(TokenPercent, "%"), nil

	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.makeToken(TokenLtEq, "<="), nil
		}
		l.readChar()
		return l.makeToken(TokenLt, "<"), nil

	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.makeToken(TokenGtEq, ">="), nil
		}
		l.readChar()
		return l.makeToken(TokenGt, ">"), nil

	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			l.readChar()
			return l.makeToken(TokenAndAnd, "&&"), nil
		}
		return Token{}, l.errUnexpected('&')

	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			l.readChar()
			return l.makeToken(TokenOrOr, "||"), nil
		}
		return Token{}, l.errUnexpected('|')

	case '?':
		switch l.peekChar() {
		case '?':
			l.readChar()
			l.readChar()
			return l.makeToken(TokenNullish, "??"), nil
		case '.':
			l.readChar()
			l.readChar()
			return l.makeToken(TokenOptChain, "?."), nil
		}
		l.readChar()
		return l.makeToken(TokenQuestion, "?"), nil

	case '\'', '"', '`':
		return l.readString()

	default:
		if isExprIdentStart(l.ch) {
			return l.readIdentifier(), nil
		}
		if isDigit(l.ch) {
			return l.readNumber(), nil
		}
		return Token{}, l.errUnexpected(l.ch)
	}
}

// readIdentifier reads an identifier or expression keyword. `$` is an
// identifier character so `$event` scans as one name.
func (l *exprLexer) readIdentifier() Token {
	startPos := l.pos
	for isExprIdentPart(l.ch) {
		l.readChar()
	}
	literal := l.source[startPos:l.pos]
	return l.makeToken(LookupExprIdent(literal), literal)
}

// readNumber reads a numeric literal. Signs are unary operators here, not
// part of the number.
func (l *exprLexer) readNumber() Token {
	startPos := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.makeToken(TokenNumber, l.source[startPos:l.pos])
}

// readString reads a quoted string with its escapes decoded; unknown
// escapes keep the backslash. Backticks quote plain strings here, there is
// no template-literal substitution.
func (l *exprLexer) readString() (Token, *Error) {
	quote := l.ch
	openCol := l.tokenCol
	l.readChar()

	var sb strings.Builder
	for {
		switch l.ch {
		case 0:
			return Token{}, NewError(StageParse, CodeUnterminatedString,
				l.positionAt(openCol), "unterminated string literal")
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '\'', '"', '`':
				sb.WriteRune(l.ch)
			case 0:
				return Token{}, NewError(StageParse, CodeUnterminatedString,
					l.positionAt(openCol), "unterminated string literal")
			default:
				sb.WriteByte('\\')
				sb.WriteRune(l.ch)
			}
			l.readChar()
		case quote:
			l.readChar()
			return l.makeToken(TokenString, sb.String()), nil
		default:
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
}

func (l *exprLexer) readChar() {
	if l.readPos >= len(l.source) {
		l.ch = 0
		l.pos = l.readPos
		l.col++
		return
	}
	r, size := utf8.DecodeRuneInString(l.source[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
	l.col++
}

func (l *exprLexer) peekChar() rune {
	if l.readPos >= len(l.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.readPos:])
	return r
}

func (l *exprLexer) startToken() {
	l.tokenCol = l.col
	l.tokenPos = l.pos
}

func (l *exprLexer) makeToken(typ TokenType, literal string) Token {
	return Token{
		Type:     typ,
		Literal:  literal,
		Line:     l.base.Line,
		Column:   l.base.Column + l.tokenCol,
		StartPos: l.tokenPos,
	}
}

// positionAt returns the file Position for a rune offset within the span.
func (l *exprLexer) positionAt(col int) Position {
	return Position{File: l.base.File, Line: l.base.Line, Column: l.base.Column + col}
}

func (l *exprLexer) errUnexpected(ch rune) *Error {
	return NewErrorf(StageParse, CodeMalformedExpression,
		l.positionAt(l.tokenCol), "unexpected character %q in expression", ch)
}

// isExprIdentStart returns true if the rune can start an expression
// identifier.
func isExprIdentStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_' || ch == '$'
}

// isExprIdentPart returns true if the rune can continue an expression
// identifier.
func isExprIdentPart(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '$'
}

package rmlgen

import "strconv"

// Parser builds a Document from a token stream. It stops at the first
// structural error: the language has no recovery points a partial tree
// could resume from, so one accurate diagnostic beats a cascade.
type Parser struct {
	filename string
	tokens   []Token
	pos      int
	current  Token
	peek     Token

	declared map[string]bool // state and computed names, for duplicate checks
	err      *Error
}

// NewParser creates a new Parser for the given token stream. The stream
// must end with an EOF token, as produced by Lexer.Tokenize.
func NewParser(filename string, tokens []Token) *Parser {
	p := &Parser{
		filename: filename,
		tokens:   tokens,
		declared: make(map[string]bool),
	}
	// Read two tokens to initialize current and peek
	p.advance()
	p.advance()
	return p
}

// Parse consumes the token stream and returns the Document.
func (p *Parser) Parse() (*Document, error) {
	doc := &Document{Position: p.position()}

	p.skipNewlines()
	for p.current.Type != TokenEOF && p.err == nil {
		switch p.current.Type {
		case TokenState:
			if doc.State != nil {
				p.failAt(CodeDuplicateStateBlock, p.position(), "duplicate state block")
				break
			}
			doc.State = p.parseStateBlock()

		case TokenComputed:
			if doc.Computed != nil {
				p.failAt(CodeDuplicateStateBlock, p.position(), "duplicate computed block")
				break
			}
			doc.Computed = p.parseComputedBlock()

		case TokenElement:
			el := p.parseElement()
			if p.err == nil {
				doc.Elements = append(doc.Elements, el)
			}

		case TokenReserved:
			p.err = NewErrorf(StageParse, CodeUnsupportedSyntax, p.position(),
				"unsupported declaration %q", p.current.Literal).
				WithHint("this word is reserved syntax without an implementation")

		case TokenIndent:
			p.failf(CodeUnexpectedToken, "unexpected indentation")

		default:
			p.failf(CodeUnexpectedToken, "expected element, got %s", p.current.Type)
		}
		p.skipNewlines()
	}

	if p.err != nil {
		return nil, p.err
	}
	return doc, nil
}

// parseStateBlock parses `state` NEWLINE INDENT fields DEDENT. A state
// keyword with nothing indented under it is an empty block.
func (p *Parser) parseStateBlock() *StateBlock {
	block := &StateBlock{Position: p.position()}
	p.advance() // state
	if !p.expect(TokenNewline) {
		return nil
	}
	if p.current.Type != TokenIndent {
		return block
	}
	p.advance()

	for p.current.Type != TokenDedent && p.current.Type != TokenEOF && p.err == nil {
		field := p.parseStateField()
		if p.err != nil {
			return nil
		}
		block.Fields = append(block.Fields, field)
	}
	if p.err != nil {
		return nil
	}
	if !p.expect(TokenDedent) {
		return nil
	}
	return block
}

// parseStateField parses one `name: literal` line.
func (p *Parser) parseStateField() *StateField {
	field := &StateField{Position: p.position()}

	name, ok := p.expectFieldName()
	if !ok {
		return nil
	}
	field.Name = name

	if !p.expect(TokenColon) {
		return nil
	}
	field.Value = p.parseStateLiteral()
	if p.err != nil {
		return nil
	}
	if !p.expect(TokenNewline) {
		return nil
	}
	return field
}

// parseStateLiteral parses the literal initial value of a state field.
func (p *Parser) parseStateLiteral() Expr {
	tok := p.current
	pos := p.position()

	switch tok.Type {
	case TokenNumber:
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.failf(CodeMalformedExpression, "invalid number %q", tok.Literal)
			return nil
		}
		p.advance()
		return &NumberLit{Text: tok.Literal, Value: value, Position: pos}

	case TokenString:
		valuePos := Position{File: p.filename, Line: tok.Line, Column: tok.Column + 1}
		segments, err := splitText(tok.Literal, valuePos)
		if err != nil {
			p.err = err
			return nil
		}
		for _, seg := range segments {
			if seg.Expr != nil {
				p.err = NewError(StageParse, CodeUnsupportedSyntax, seg.Position,
					"interpolation is not allowed in state values")
				return nil
			}
		}
		p.advance()
		return &StringLit{Value: decodeText(tok.Literal), Position: pos}

	case TokenIdent:
		switch tok.Literal {
		case "true", "false":
			p.advance()
			return &BoolLit{Value: tok.Literal == "true", Position: pos}
		case "null":
			p.advance()
			return &NullLit{Position: pos}
		case "undefined":
			p.advance()
			return &UndefinedLit{Position: pos}
		}
		p.failf(CodeUnexpectedToken, "expected literal value, got %q", tok.Literal)
		return nil

	default:
		p.failf(CodeUnexpectedToken, "expected literal value, got %s", tok.Type)
		return nil
	}
}

// parseComputedBlock parses `computed` NEWLINE INDENT fields DEDENT, each
// field a `name: "expr"` line.
func (p *Parser) parseComputedBlock() *ComputedBlock {
	block := &ComputedBlock{Position: p.position()}
	p.advance() // computed
	if !p.expect(TokenNewline) {
		return nil
	}
	if p.current.Type != TokenIndent {
		return block
	}
	p.advance()

	for p.current.Type != TokenDedent && p.current.Type != TokenEOF && p.err == nil {
		field := &ComputedField{Position: p.position()}

		name, ok := p.expectFieldName()
		if !ok {
			return nil
		}
		field.Name = name

		if !p.expect(TokenColon) {
			return nil
		}
		if p.current.Type != TokenString {
			p.failf(CodeUnexpectedToken, "expected quoted expression, got %s", p.current.Type)
			return nil
		}
		tok := p.current
		valuePos := Position{File: p.filename, Line: tok.Line, Column: tok.Column + 1}
		field.Value = p.parseExprSpan(tok.Literal, valuePos)
		if p.err != nil {
			return nil
		}
		p.advance()
		if !p.expect(TokenNewline) {
			return nil
		}
		block.Fields = append(block.Fields, field)
	}
	if p.err != nil {
		return nil
	}
	if !p.expect(TokenDedent) {
		return nil
	}
	return block
}

// expectFieldName reads a state/computed field name, rejecting duplicates
// across both blocks. The lexer classifies line-head words as Element
// tokens, so field names arrive as either kind.
func (p *Parser) expectFieldName() (string, bool) {
	if p.current.Type != TokenElement && p.current.Type != TokenIdent {
		p.failf(CodeUnexpectedToken, "expected field name, got %s", p.current.Type)
		return "", false
	}
	name := p.current.Literal
	if p.declared[name] {
		p.failf(CodeDuplicateStateField, "duplicate field %q", name)
		return "", false
	}
	p.declared[name] = true
	p.advance()
	return name, true
}

// parseExprSpan parses an extracted expression span located at base.
func (p *Parser) parseExprSpan(src string, base Position) Expr {
	expr, err := parseExpression(src, base)
	if err != nil {
		p.err = err
		return nil
	}
	return expr
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.current = p.peek
	if p.pos < len(p.tokens) {
		p.peek = p.tokens[p.pos]
		p.pos++
	} else if len(p.tokens) > 0 {
		p.peek = p.tokens[len(p.tokens)-1] // EOF
	}
}

// skipNewlines consumes any newline tokens.
func (p *Parser) skipNewlines() {
	for p.current.Type == TokenNewline {
		p.advance()
	}
}

// position returns the current token's position.
func (p *Parser) position() Position {
	return Position{
		File:   p.filename,
		Line:   p.current.Line,
		Column: p.current.Column,
	}
}

// expect checks that the current token matches the expected type and
// advances. Records an expected-vs-found error otherwise.
func (p *Parser) expect(typ TokenType) bool {
	if p.current.Type == typ {
		p.advance()
		return true
	}
	p.failf(CodeUnexpectedToken, "expected %s, got %s", typ, p.current.Type)
	return false
}

// failf records a parse error at the current token unless one is already
// set.
func (p *Parser) failf(code Code, format string, args ...any) {
	p.failAt(code, p.position(), format, args...)
}

// failAt records a parse error at pos unless one is already set.
func (p *Parser) failAt(code Code, pos Position, format string, args ...any) {
	if p.err == nil {
		p.err = NewErrorf(StageParse, code, pos, format, args...)
	}
}

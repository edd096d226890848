package rmlgen

// parseElement parses one element line and, if the next line is indented
// one level deeper, its children.
//
//	tag [.class]* [attribute]* ["text"]? NEWLINE [INDENT children DEDENT]?
func (p *Parser) parseElement() *Element {
	el := &Element{
		Tag:      p.current.Literal,
		Position: p.position(),
	}
	p.advance()

	p.parseElementItems(el)
	if p.err != nil {
		return nil
	}
	if !p.expect(TokenNewline) {
		return nil
	}

	if p.current.Type == TokenIndent {
		p.advance()
		p.skipNewlines()
		for p.current.Type != TokenDedent && p.current.Type != TokenEOF && p.err == nil {
			if p.current.Type != TokenElement {
				p.failf(CodeUnexpectedToken, "expected element, got %s", p.current.Type)
				return nil
			}
			child := p.parseElement()
			if p.err != nil {
				return nil
			}
			el.Children = append(el.Children, child)
			p.skipNewlines()
		}
		if p.err != nil {
			return nil
		}
		if !p.expect(TokenDedent) {
			return nil
		}
	}
	return el
}

// parseElementItems consumes everything after the tag on an element line:
// class shorthands, attributes, and at most one quoted text literal.
func (p *Parser) parseElementItems(el *Element) {
	seenText := false
	for p.err == nil {
		switch p.current.Type {
		case TokenDot:
			p.parseClassShorthand(el)

		case TokenAt:
			attr := p.parseEventAttr()
			if p.err != nil {
				return
			}
			p.addAttr(el, attr)

		case TokenColon:
			attr := p.parseDirectiveAttr()
			if p.err != nil {
				return
			}
			p.addAttr(el, attr)

		case TokenDollar:
			p.err = NewError(StageParse, CodeUnsupportedSyntax, p.position(),
				"server directives are not supported").
				WithHint("remove the $ prefix or move this logic into state")
			return

		case TokenIdent, TokenElement:
			attr := p.parsePlainAttr()
			if p.err != nil {
				return
			}
			p.addAttr(el, attr)

		case TokenString:
			if seenText {
				p.failf(CodeUnexpectedToken, "multiple text literals on one element")
				return
			}
			seenText = true
			p.parseTextLiteral(el)

		case TokenNewline, TokenEOF:
			return

		default:
			p.failf(CodeUnexpectedToken, "unexpected %s on element line", p.current.Type)
			return
		}
	}
}

// parseClassShorthand parses one `.name` class. First occurrence wins on
// duplicates so the rendered class list stays stable.
func (p *Parser) parseClassShorthand(el *Element) {
	p.advance() // .
	if p.current.Type != TokenIdent && p.current.Type != TokenElement {
		p.failf(CodeUnexpectedToken, "expected class name after '.', got %s", p.current.Type)
		return
	}
	name := p.current.Literal
	p.advance()
	for _, existing := range el.Classes {
		if existing == name {
			return
		}
	}
	el.Classes = append(el.Classes, name)
}

// parseEventAttr parses `@event[.modifier]*="expr"`.
func (p *Parser) parseEventAttr() *Attribute {
	attr := &Attribute{Kind: AttrEvent, Position: p.position()}
	p.advance() // @

	if p.current.Type != TokenIdent && p.current.Type != TokenElement {
		p.failf(CodeUnexpectedToken, "expected event name after '@', got %s", p.current.Type)
		return nil
	}
	attr.Name = p.current.Literal
	if !supportedEvents[attr.Name] {
		p.failf(CodeUnknownEvent, "unknown event %q", attr.Name)
		return nil
	}
	p.advance()

	for p.current.Type == TokenDot {
		p.advance()
		if p.current.Type != TokenIdent && p.current.Type != TokenElement {
			p.failf(CodeUnexpectedToken, "expected modifier after '.', got %s", p.current.Type)
			return nil
		}
		mod := p.current.Literal
		if !isReservedModifier(mod) {
			p.failf(CodeUnknownModifier, "unknown modifier %q on @%s", mod, attr.Name)
			return nil
		}
		attr.Modifiers = append(attr.Modifiers, mod)
		p.advance()
	}

	if !p.expect(TokenEquals) {
		return nil
	}
	if p.current.Type != TokenString {
		p.failf(CodeUnexpectedToken, "expected quoted expression, got %s", p.current.Type)
		return nil
	}
	tok := p.current
	attr.Value = tok.Literal
	attr.HasValue = true
	attr.ValuePos = Position{File: p.filename, Line: tok.Line, Column: tok.Column + 1}
	attr.Expr = p.parseExprSpan(tok.Literal, attr.ValuePos)
	if p.err != nil {
		return nil
	}
	p.advance()
	return attr
}

// parseDirectiveAttr parses `:directive="expr"`.
func (p *Parser) parseDirectiveAttr() *Attribute {
	attr := &Attribute{Kind: AttrDirective, Position: p.position()}
	p.advance() // :

	if p.current.Type != TokenIdent && p.current.Type != TokenElement {
		p.failf(CodeUnexpectedToken, "expected directive name after ':', got %s", p.current.Type)
		return nil
	}
	attr.Name = p.current.Literal
	if !supportedDirectives[attr.Name] {
		p.failf(CodeUnknownDirective, "unknown directive %q", attr.Name)
		return nil
	}
	p.advance()

	if !p.expect(TokenEquals) {
		return nil
	}
	if p.current.Type != TokenString {
		p.failf(CodeUnexpectedToken, "expected quoted expression, got %s", p.current.Type)
		return nil
	}
	tok := p.current
	attr.Value = tok.Literal
	attr.HasValue = true
	attr.ValuePos = Position{File: p.filename, Line: tok.Line, Column: tok.Column + 1}
	attr.Expr = p.parseExprSpan(tok.Literal, attr.ValuePos)
	if p.err != nil {
		return nil
	}
	p.advance()
	return attr
}

// parsePlainAttr parses `key="value"` or a bare boolean `key`. Values are
// verbatim text, never expressions.
func (p *Parser) parsePlainAttr() *Attribute {
	attr := &Attribute{Kind: AttrPlain, Name: p.current.Literal, Position: p.position()}

	switch attr.Name {
	case "id":
		p.err = NewError(StageParse, CodeUnsupportedSyntax, p.position(),
			"the id attribute is assigned automatically").
			WithHint("element ids are generated in document order")
		return nil
	case "class":
		p.err = NewError(StageParse, CodeUnsupportedSyntax, p.position(),
			"use .name shorthand for classes")
		return nil
	}
	p.advance()

	if p.current.Type == TokenEquals {
		p.advance()
		if p.current.Type != TokenString {
			p.failf(CodeUnexpectedToken, "expected quoted value, got %s", p.current.Type)
			return nil
		}
		attr.Value = decodeText(p.current.Literal)
		attr.HasValue = true
		p.advance()
	}
	return attr
}

// parseTextLiteral parses the element's quoted text, splitting it into
// literal and interpolated segments.
func (p *Parser) parseTextLiteral(el *Element) {
	tok := p.current
	pos := Position{File: p.filename, Line: tok.Line, Column: tok.Column + 1}
	segments, err := splitText(tok.Literal, pos)
	if err != nil {
		p.err = err
		return
	}
	p.advance()
	el.Children = append(el.Children, &Text{
		Segments: segments,
		Position: Position{File: p.filename, Line: tok.Line, Column: tok.Column},
	})
}

// addAttr appends attr to el, rejecting a second directive or plain
// attribute of the same name. Repeated event bindings stay legal: each
// one registers its own listener.
func (p *Parser) addAttr(el *Element, attr *Attribute) {
	if attr == nil {
		return
	}
	if attr.Kind != AttrEvent {
		for _, existing := range el.Attrs {
			if existing.Kind == attr.Kind && existing.Name == attr.Name {
				prefix := ""
				if attr.Kind == AttrDirective {
					prefix = ":"
				}
				p.failAt(CodeDuplicateAttribute, attr.Position,
					"duplicate attribute %s%s", prefix, attr.Name)
				return
			}
		}
	}
	el.Attrs = append(el.Attrs, attr)
}

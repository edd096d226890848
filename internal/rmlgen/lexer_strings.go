package rmlgen

// readString reads a quoted literal. The token's literal is the raw text
// between the quotes: escapes stay undecoded and interpolation spans keep
// their braces, so the parser's single segmentation scan cannot confuse
// `\{` with a real span opener. The scanner's job here is validation and
// position tracking only.
//
// The scan-mode flag drives the brace and quote rules. In markup mode the
// closing quote ends the literal and `{` opens an interpolation span; in
// expression mode braces are ordinary nesting, the outer quote character
// loses its meaning, and quote characters open inner expression strings.
// Mode switches are strictly nested: the `}` matching the opening `{` pops
// back to markup mode.
func (l *Lexer) readString() {
	quote := l.ch
	openPos := l.position()
	l.readChar() // consume opening quote
	startPos := l.pos

	depth := 0
	var spanPos Position // position of the { that entered expression mode

	for {
		switch {
		case l.ch == 0 || l.ch == '\n':
			if l.mode == modeExpression {
				l.mode = modeMarkup
				l.err = NewError(StageLex, CodeUnterminatedInterpolation, spanPos, "unterminated interpolation")
				return
			}
			l.err = NewError(StageLex, CodeUnterminatedString, openPos, "unterminated string literal")
			return

		case l.ch == '\\':
			l.readChar()
			if l.ch != 0 && l.ch != '\n' {
				l.readChar()
			}

		case l.ch == quote && l.mode == modeMarkup:
			literal := l.source[startPos:l.pos]
			l.readChar() // consume closing quote
			l.emit(TokenString, literal)
			return

		case l.ch == '{' && l.mode == modeMarkup:
			spanPos = l.here()
			l.mode = modeExpression
			depth = 1
			l.readChar()

		case l.ch == '{':
			depth++
			l.readChar()

		case l.ch == '}' && l.mode == modeExpression:
			depth--
			l.readChar()
			if depth == 0 {
				l.mode = modeMarkup
			}

		case (l.ch == '\'' || l.ch == '"' || l.ch == '`') && l.mode == modeExpression:
			if !l.scanExprString() {
				return
			}

		default:
			l.readChar()
		}
	}
}

// scanExprString consumes a quoted string inside an interpolation span.
func (l *Lexer) scanExprString() bool {
	quote := l.ch
	openPos := l.here()
	l.readChar()

	for {
		switch {
		case l.ch == 0 || l.ch == '\n':
			l.mode = modeMarkup
			l.err = NewError(StageLex, CodeUnterminatedString, openPos, "unterminated string literal")
			return false

		case l.ch == '\\':
			l.readChar()
			if l.ch != 0 && l.ch != '\n' {
				l.readChar()
			}

		case l.ch == quote:
			l.readChar()
			return true

		default:
			l.readChar()
		}
	}
}

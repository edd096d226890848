package rmlgen

import (
	"unicode"
	"unicode/utf8"
)

// maxIndentDepth bounds the indentation stack so adversarial input fails
// with a diagnostic instead of unbounded parser recursion.
const maxIndentDepth = 32

// scanMode tracks which brace rules apply while reading quoted text.
type scanMode int

const (
	modeMarkup     scanMode = iota // { opens an interpolation span
	modeExpression                 // { } are ordinary nesting inside a span
)

// Lexer tokenizes .rml source into a flat token stream, resolving
// indentation into Indent/Dedent/Newline markers.
type Lexer struct {
	filename string
	source   string
	pos      int  // current position in source
	readPos  int  // next position to read
	ch       rune // current character
	line     int  // current line (1-based)
	column   int  // current column (1-based)

	// Track the start position of current token
	tokenLine     int
	tokenColumn   int
	tokenStartPos int // byte offset where current token starts

	indents []int // indentation stack, base level 0 always present
	mode    scanMode
	tokens  []Token
	err     *Error
}

// NewLexer creates a new Lexer for the given source.
func NewLexer(filename, source string) *Lexer {
	l := &Lexer{
		filename: filename,
		source:   source,
		line:     1,
		column:   0,
		indents:  []int{0},
	}
	l.readChar()
	return l
}

// Tokenize scans the entire source and returns the token stream. The
// stream always ends with one EOF token, preceded by one Dedent per open
// indentation level; a Newline is synthesized when the last line has no
// trailing newline. Scanning stops at the first error.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		l.beginLine()
		if l.err != nil {
			return nil, l.err
		}
		if l.ch == 0 {
			break
		}
		l.scanLine()
		if l.err != nil {
			return nil, l.err
		}
	}

	l.startToken()
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(TokenDedent, "")
	}
	l.emit(TokenEOF, "")
	return l.tokens, nil
}

// beginLine positions the lexer at the first contentful character of the
// next line, skipping blank and comment-only lines, and emits the
// Indent/Dedent tokens implied by the line's leading width.
func (l *Lexer) beginLine() {
	for {
		width := 0
		for l.ch == ' ' {
			width++
			l.readChar()
		}

		switch {
		case l.ch == '\t':
			l.startToken()
			l.err = NewError(StageLex, CodeInvalidCharacter, l.position(), "tab in indentation").
				WithHint("indent with spaces")
			return
		case l.ch == '\r':
			l.readChar()
			continue
		case l.ch == '\n':
			// blank line, no effect on indentation
			l.readChar()
			continue
		case l.ch == 0:
			return
		case l.ch == '/' && l.peekChar() == '/':
			// comment-only line, no effect on indentation
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}

		l.startToken()
		top := l.indents[len(l.indents)-1]
		switch {
		case width == top:
			// same level, the previous Newline already closed the line
		case width > top:
			if len(l.indents) >= maxIndentDepth {
				l.err = NewErrorf(StageLex, CodeNestingTooDeep, l.position(),
					"nesting exceeds %d levels", maxIndentDepth)
				return
			}
			l.indents = append(l.indents, width)
			l.emit(TokenIndent, "")
		default:
			for l.indents[len(l.indents)-1] > width {
				l.indents = l.indents[:len(l.indents)-1]
				l.emit(TokenDedent, "")
			}
			if l.indents[len(l.indents)-1] != width {
				l.err = NewErrorf(StageLex, CodeUnexpectedDedent, l.position(),
					"indentation of %d spaces matches no open level", width)
				return
			}
		}
		return
	}
}

// scanLine scans the tokens of one contentful line, through its
// terminating Newline (synthesized at EOF).
func (l *Lexer) scanLine() {
	lineStart := len(l.tokens)

	for {
		for l.ch == ' ' || l.ch == '\r' {
			l.readChar()
		}
		l.startToken()

		switch {
		case l.ch == 0:
			l.emit(TokenNewline, "")
			return

		case l.ch == '\n':
			l.readChar()
			l.emit(TokenNewline, "\n")
			return

		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}

		case l.ch == '.':
			l.readChar()
			l.emit(TokenDot, ".")

		case l.ch == ':':
			l.readChar()
			l.emit(TokenColon, ":")

		case l.ch == '@':
			l.readChar()
			l.emit(TokenAt, "@")

		case l.ch == '$':
			l.readChar()
			l.emit(TokenDollar, "$")

		case l.ch == '=':
			l.readChar()
			l.emit(TokenEquals, "=")

		case l.ch == ',':
			l.readChar()
			l.emit(TokenComma, ",")

		case l.ch == '(':
			l.readChar()
			l.emit(TokenLParen, "(")

		case l.ch == ')':
			l.readChar()
			l.emit(TokenRParen, ")")

		case l.ch == '"' || l.ch == '\'':
			l.readString()
			if l.err != nil {
				return
			}

		case l.ch == '-' && isDigit(l.peekChar()):
			l.readNumber()

		case isDigit(l.ch):
			l.readNumber()

		case isWordStart(l.ch):
			l.readWord(len(l.tokens) == lineStart)

		case l.ch == '{' || l.ch == '}':
			l.err = NewErrorf(StageLex, CodeInvalidCharacter, l.position(),
				"unexpected %q outside quoted text", l.ch).
				WithHint("interpolation is only valid inside quoted text")
			return

		default:
			l.err = NewErrorf(StageLex, CodeInvalidCharacter, l.position(),
				"unexpected character %q", l.ch)
			return
		}
	}
}

// readWord reads a tag name, keyword, or identifier. The first word of a
// line is classified through the keyword table; later words are plain
// identifiers.
func (l *Lexer) readWord(lineHead bool) {
	startPos := l.pos
	for isWordPart(l.ch) {
		l.readChar()
	}
	literal := l.source[startPos:l.pos]
	if lineHead {
		l.emit(LookupKeyword(literal), literal)
		return
	}
	l.emit(TokenIdent, literal)
}

// readNumber reads a numeric literal, folding a leading minus sign in.
func (l *Lexer) readNumber() {
	startPos := l.pos
	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	l.emit(TokenNumber, l.source[startPos:l.pos])
}

// readChar advances to the next character in the source.
func (l *Lexer) readChar() {
	// Track if previous char was a newline for line counting
	prevWasNewline := l.ch == '\n'

	if l.readPos >= len(l.source) {
		l.ch = 0 // EOF
		l.pos = l.readPos
		if prevWasNewline {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		return
	}

	r, size := utf8.DecodeRuneInString(l.source[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size

	if prevWasNewline {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.readPos:])
	return r
}

// startToken marks the beginning of a new token.
func (l *Lexer) startToken() {
	l.tokenLine = l.line
	l.tokenColumn = l.column
	l.tokenStartPos = l.pos
}

// emit appends a token starting at the last startToken mark.
func (l *Lexer) emit(typ TokenType, literal string) {
	l.tokens = append(l.tokens, Token{
		Type:     typ,
		Literal:  literal,
		Line:     l.tokenLine,
		Column:   l.tokenColumn,
		StartPos: l.tokenStartPos,
	})
}

// position returns the current token's Position for error reporting.
func (l *Lexer) position() Position {
	return Position{
		File:   l.filename,
		Line:   l.tokenLine,
		Column: l.tokenColumn,
	}
}

// here returns the Position of the character under the cursor.
func (l *Lexer) here() Position {
	return Position{
		File:   l.filename,
		Line:   l.line,
		Column: l.column,
	}
}

// isWordStart returns true if the rune can start a word.
func isWordStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

// isWordPart returns true if the rune can continue a word. Hyphens are
// word characters so custom tags and attributes like data-id scan whole.
func isWordPart(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '-'
}

// isDigit returns true if the rune is a digit.
func isDigit(ch rune) bool {
	return unicode.IsDigit(ch)
}

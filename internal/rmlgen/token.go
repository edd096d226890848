package rmlgen

import "fmt"

// TokenType represents the type of a lexical token.
//
// One token space serves both scanners: the document scanner emits the
// structural and markup-level tokens, the expression scanner emits the
// operator and expression-keyword tokens. Shared tokens (identifiers,
// literals, punctuation common to both) sit in the middle.
type TokenType int

const (
	// Special tokens
	TokenEOF     TokenType = iota // end of input
	TokenNewline                  // end of a logical line
	TokenIndent                   // indentation level opened
	TokenDedent                   // indentation level closed

	// Keywords
	TokenState    // state
	TokenComputed // computed
	TokenReserved // fn, async, props, emit, import, page, config

	// Markup-level tokens
	TokenElement // tag name in line-head position
	TokenAt      // @
	TokenDollar  // $

	// Shared literals and punctuation
	TokenIdent  // identifier
	TokenNumber // numeric literal: 12, 3.5, -1
	TokenString // quoted literal, value kept raw (escapes undecoded)
	TokenDot    // .
	TokenColon  // :
	TokenComma  // ,
	TokenEquals // =
	TokenLParen // (
	TokenRParen // )

	// Expression-level operators
	TokenPlus        // +
	TokenMinus       // -
	TokenStar        // *
	TokenSlash       // /
	TokenPercent     // %
	TokenBang        // !
	TokenLt          // <
	TokenGt          // >
	TokenLtEq        // <=
	TokenGtEq        // >=
	TokenEqEq        // ==
	TokenNotEq       // !=
	TokenStrictEq    // ===
	TokenStrictNotEq // !==
	TokenAndAnd      // &&
	TokenOrOr        // ||
	TokenNullish     // ??
	TokenQuestion    // ?
	TokenOptChain    // ?. (recognized, rejected by the parser)
	TokenArrow       // => (recognized, rejected by the parser)
	TokenPlusPlus    // ++
	TokenMinusMinus  // --
	TokenPlusEq      // +=
	TokenMinusEq     // -=
	TokenStarEq      // *=
	TokenSlashEq     // /=
	TokenLBrace      // {
	TokenRBrace      // }
	TokenLBracket    // [
	TokenRBracket    // ]

	// Expression keywords
	TokenTrue      // true
	TokenFalse     // false
	TokenNull      // null
	TokenUndefined // undefined
	TokenTypeof    // typeof
)

// tokenNames maps token types to their string names for debugging.
var tokenNames = map[TokenType]string{
	TokenEOF:         "EOF",
	TokenNewline:     "Newline",
	TokenIndent:      "Indent",
	TokenDedent:      "Dedent",
	TokenState:       "state",
	TokenComputed:    "computed",
	TokenReserved:    "Reserved",
	TokenElement:     "Element",
	TokenAt:          "@",
	TokenDollar:      "$",
	TokenIdent:       "Ident",
	TokenNumber:      "Number",
	TokenString:      "String",
	TokenDot:         ".",
	TokenColon:       ":",
	TokenComma:       ",",
	TokenEquals:      "=",
	TokenLParen:      "(",
	TokenRParen:      ")",
	TokenPlus:        "+",
	TokenMinus:       "-",
	TokenStar:        "*",
	TokenSlash:       "/",
	TokenPercent:     "%",
	TokenBang:        "!",
	TokenLt:          "<",
	TokenGt:          ">",
	TokenLtEq:        "<=",
	TokenGtEq:        ">=",
	TokenEqEq:        "==",
	TokenNotEq:       "!=",
	TokenStrictEq:    "===",
	TokenStrictNotEq: "!==",
	TokenAndAnd:      "&&",
	TokenOrOr:        "||",
	TokenNullish:     "??",
	TokenQuestion:    "?",
	TokenOptChain:    "?.",
	TokenArrow:       "=>",
	TokenPlusPlus:    "++",
	TokenMinusMinus:  "--",
	TokenPlusEq:      "+=",
	TokenMinusEq:     "-=",
	TokenStarEq:      "*=",
	TokenSlashEq:     "/=",
	TokenLBrace:      "{",
	TokenRBrace:      "}",
	TokenLBracket:    "[",
	TokenRBracket:    "]",
	TokenTrue:        "true",
	TokenFalse:       "false",
	TokenNull:        "null",
	TokenUndefined:   "undefined",
	TokenTypeof:      "typeof",
}

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// Token represents a lexical token with its type, literal value, and source position.
// Tokens are produced once by a scanner and consumed once by the parser.
type Token struct {
	Type     TokenType
	Literal  string
	Line     int
	Column   int
	StartPos int // byte offset in source where token starts
}

// String returns a debug representation of the token.
func (t Token) String() string {
	if t.Literal == "" {
		return fmt.Sprintf("%s at %d:%d", t.Type, t.Line, t.Column)
	}
	// Truncate long literals for readability
	lit := t.Literal
	if len(lit) > 20 {
		lit = lit[:17] + "..."
	}
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, lit, t.Line, t.Column)
}

// Position represents a source code location for error reporting.
type Position struct {
	File   string
	Line   int
	Column int
}

// String returns a formatted position string.
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// keywords maps line-head keyword strings to their token types. The
// reserved entries name constructs the language claims but does not
// implement; the parser rejects them with an explicit diagnostic.
var keywords = map[string]TokenType{
	"state":    TokenState,
	"computed": TokenComputed,
	"fn":       TokenReserved,
	"async":    TokenReserved,
	"props":    TokenReserved,
	"emit":     TokenReserved,
	"import":   TokenReserved,
	"page":     TokenReserved,
	"config":   TokenReserved,
}

// LookupKeyword returns the token type for a word in line-head position,
// checking if it's a keyword first.
func LookupKeyword(word string) TokenType {
	if tok, ok := keywords[word]; ok {
		return tok
	}
	return TokenElement
}

// exprKeywords maps expression keyword strings to their token types.
var exprKeywords = map[string]TokenType{
	"true":      TokenTrue,
	"false":     TokenFalse,
	"null":      TokenNull,
	"undefined": TokenUndefined,
	"typeof":    TokenTypeof,
}

// LookupExprIdent returns the token type for an identifier inside an
// expression, checking if it's an expression keyword first.
func LookupExprIdent(ident string) TokenType {
	if tok, ok := exprKeywords[ident]; ok {
		return tok
	}
	return TokenIdent
}

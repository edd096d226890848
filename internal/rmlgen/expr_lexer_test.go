package rmlgen

import (
	"testing"
)

func exprBase() Position {
	return Position{File: "test.rml", Line: 1, Column: 1}
}

func TestExprLexer_Operators(t *testing.T) {
	type tc struct {
		input    string
		expected []TokenType
	}

	tests := map[string]tc{
		"arithmetic": {
			input:    "a + b - c * d / e % f",
			expected: []TokenType{TokenIdent, TokenPlus, TokenIdent, TokenMinus, TokenIdent, TokenStar, TokenIdent, TokenSlash, TokenIdent, TokenPercent, TokenIdent, TokenEOF},
		},
		"comparison": {
			input:    "a < b <= c > d >= e",
			expected: []TokenType{TokenIdent, TokenLt, TokenIdent, TokenLtEq, TokenIdent, TokenGt, TokenIdent, TokenGtEq, TokenIdent, TokenEOF},
		},
		"equality": {
			input:    "a == b != c === d !== e",
			expected: []TokenType{TokenIdent, TokenEqEq, TokenIdent, TokenNotEq, TokenIdent, TokenStrictEq, TokenIdent, TokenStrictNotEq, TokenIdent, TokenEOF},
		},
		"logical": {
			input:    "!a && b || c ?? d",
			expected: []TokenType{TokenBang, TokenIdent, TokenAndAnd, TokenIdent, TokenOrOr, TokenIdent, TokenNullish, TokenIdent, TokenEOF},
		},
		"assignment": {
			input:    "a = b += c -= d *= e /= f",
			expected: []TokenType{TokenIdent, TokenEquals, TokenIdent, TokenPlusEq, TokenIdent, TokenMinusEq, TokenIdent, TokenStarEq, TokenIdent, TokenSlashEq, TokenIdent, TokenEOF},
		},
		"increment decrement": {
			input:    "a++ b--",
			expected: []TokenType{TokenIdent, TokenPlusPlus, TokenIdent, TokenMinusMinus, TokenEOF},
		},
		"ternary and member": {
			input:    "a ? b.c : d[0]",
			expected: []TokenType{TokenIdent, TokenQuestion, TokenIdent, TokenDot, TokenIdent, TokenColon, TokenIdent, TokenLBracket, TokenNumber, TokenRBracket, TokenEOF},
		},
		"optional chain and arrow": {
			input:    "a?.b => c",
			expected: []TokenType{TokenIdent, TokenOptChain, TokenIdent, TokenArrow, TokenIdent, TokenEOF},
		},
		"grouping": {
			input:    "({ a: [1, 2] })",
			expected: []TokenType{TokenLParen, TokenLBrace, TokenIdent, TokenColon, TokenLBracket, TokenNumber, TokenComma, TokenNumber, TokenRBracket, TokenRBrace, TokenRParen, TokenEOF},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tokens, err := lexExpression(tt.input, exprBase())
			if err != nil {
				t.Fatalf("lexExpression() error: %v", err)
			}
			if !sameTypes(tokens, tt.expected) {
				t.Errorf("types = %v, want %v", tokenTypes(tokens), tt.expected)
			}
		})
	}
}

func TestExprLexer_Keywords(t *testing.T) {
	tokens, err := lexExpression("true false null undefined typeof x", exprBase())
	if err != nil {
		t.Fatalf("lexExpression() error: %v", err)
	}
	want := []TokenType{TokenTrue, TokenFalse, TokenNull, TokenUndefined, TokenTypeof, TokenIdent, TokenEOF}
	if !sameTypes(tokens, want) {
		t.Errorf("types = %v, want %v", tokenTypes(tokens), want)
	}
}

func TestExprLexer_DollarIdentifier(t *testing.T) {
	tokens, err := lexExpression("$event.target.value", exprBase())
	if err != nil {
		t.Fatalf("lexExpression() error: %v", err)
	}
	if tokens[0].Type != TokenIdent || tokens[0].Literal != "$event" {
		t.Errorf("token 0 = %v %q, want Ident %q", tokens[0].Type, tokens[0].Literal, "$event")
	}
}

func TestExprLexer_Numbers(t *testing.T) {
	type tc struct {
		input    string
		literals []string
	}

	tests := map[string]tc{
		"integer":       {input: "42", literals: []string{"42"}},
		"decimal":       {input: "3.14", literals: []string{"3.14"}},
		"leading dot":   {input: ".5", literals: []string{".5"}},
		"sign detached": {input: "-7", literals: []string{"-", "7"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tokens, err := lexExpression(tt.input, exprBase())
			if err != nil {
				t.Fatalf("lexExpression() error: %v", err)
			}
			var got []string
			for _, tok := range tokens {
				if tok.Type != TokenEOF {
					got = append(got, tok.Literal)
				}
			}
			if len(got) != len(tt.literals) {
				t.Fatalf("literals = %v, want %v", got, tt.literals)
			}
			for i := range got {
				if got[i] != tt.literals[i] {
					t.Errorf("literal %d = %q, want %q", i, got[i], tt.literals[i])
				}
			}
		})
	}
}

func TestExprLexer_Strings(t *testing.T) {
	type tc struct {
		input   string
		decoded string
	}

	tests := map[string]tc{
		"single quotes":  {input: `'hello'`, decoded: "hello"},
		"double quotes":  {input: `"hello"`, decoded: "hello"},
		"backticks":      {input: "`hello`", decoded: "hello"},
		"newline escape": {input: `'a\nb'`, decoded: "a\nb"},
		"tab escape":     {input: `'a\tb'`, decoded: "a\tb"},
		"quote escape":   {input: `'it\'s'`, decoded: "it's"},
		"backslash":      {input: `'a\\b'`, decoded: `a\b`},
		"unknown escape": {input: `'a\qb'`, decoded: `a\qb`},
		"other quote":    {input: `'say "hi"'`, decoded: `say "hi"`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tokens, err := lexExpression(tt.input, exprBase())
			if err != nil {
				t.Fatalf("lexExpression() error: %v", err)
			}
			if tokens[0].Type != TokenString {
				t.Fatalf("Type = %v, want %v", tokens[0].Type, TokenString)
			}
			if tokens[0].Literal != tt.decoded {
				t.Errorf("Literal = %q, want %q", tokens[0].Literal, tt.decoded)
			}
		})
	}
}

func TestExprLexer_Errors(t *testing.T) {
	type tc struct {
		input string
		code  Code
	}

	tests := map[string]tc{
		"single ampersand":    {input: "a & b", code: CodeMalformedExpression},
		"single pipe":         {input: "a | b", code: CodeMalformedExpression},
		"stray hash":          {input: "a # b", code: CodeMalformedExpression},
		"unterminated string": {input: "'abc", code: CodeUnterminatedString},
		"dangling escape":     {input: `'abc\`, code: CodeUnterminatedString},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := lexExpression(tt.input, exprBase())
			if err == nil {
				t.Fatal("lexExpression() succeeded, want error")
			}
			if err.Code != tt.code {
				t.Errorf("Code = %v, want %v", err.Code, tt.code)
			}
			if err.Stage != StageParse {
				t.Errorf("Stage = %v, want %v", err.Stage, StageParse)
			}
		})
	}
}

func TestExprLexer_PositionsRebased(t *testing.T) {
	base := Position{File: "app.rml", Line: 7, Column: 20}
	tokens, err := lexExpression("count + 1", base)
	if err != nil {
		t.Fatalf("lexExpression() error: %v", err)
	}
	wantCols := []int{20, 26, 28}
	for i, col := range wantCols {
		if tokens[i].Line != 7 {
			t.Errorf("token %d: Line = %d, want 7", i, tokens[i].Line)
		}
		if tokens[i].Column != col {
			t.Errorf("token %d: Column = %d, want %d", i, tokens[i].Column, col)
		}
	}
}

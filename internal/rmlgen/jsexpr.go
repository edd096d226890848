package rmlgen

import (
	"strconv"
	"strings"
	"unicode"
)

// jsExpr serializes an expression tree into JavaScript source. Names in
// declared resolve through the generated state object; $event resolves to
// the listener's event parameter.
func jsExpr(e Expr, declared map[string]bool) string {
	w := &jsWriter{declared: declared}
	return w.expr(e)
}

type jsWriter struct {
	declared map[string]bool
}

// jsPrec returns the precedence used to decide parenthesization when a
// tree is serialized. Higher binds tighter; literals and postfix chains
// are atoms.
func jsPrec(e Expr) int {
	switch t := e.(type) {
	case *AssignExpr:
		return 2
	case *TernaryExpr:
		return 3
	case *BinaryExpr:
		switch t.Op {
		case OpNullish:
			return 4
		case OpOr:
			return 5
		case OpAnd:
			return 6
		case OpEq, OpNeq, OpStrictEq, OpStrictNeq:
			return 7
		case OpLt, OpGt, OpLe, OpGe:
			return 8
		case OpAdd, OpSub:
			return 9
		case OpMul, OpDiv, OpMod:
			return 10
		}
	case *UnaryExpr:
		return 11
	}
	return 12
}

func (w *jsWriter) expr(e Expr) string {
	switch t := e.(type) {
	case *NumberLit:
		return t.Text

	case *StringLit:
		return jsString(t.Value)

	case *BoolLit:
		return strconv.FormatBool(t.Value)

	case *NullLit:
		return "null"

	case *UndefinedLit:
		return "undefined"

	case *Ident:
		if t.Name == "$event" {
			return "event"
		}
		if w.declared[t.Name] {
			return "_s." + t.Name
		}
		return t.Name

	case *UnaryExpr:
		operand := w.operand(t.Operand, 11)
		switch t.Op {
		case OpTypeof:
			return "typeof " + operand
		case OpNeg:
			// keep -(-x) from fusing into a decrement token
			if strings.HasPrefix(operand, "-") {
				return "- " + operand
			}
			return "-" + operand
		default:
			return "!" + operand
		}

	case *BinaryExpr:
		p := jsPrec(t)
		left := w.binOperand(t.Op, t.Left, p)
		right := w.binOperand(t.Op, t.Right, p+1)
		return left + " " + t.Op.String() + " " + right

	case *MemberExpr:
		obj := w.operand(t.Object, 12)
		if _, ok := t.Object.(*NumberLit); ok {
			obj = "(" + obj + ")"
		}
		return obj + "." + t.Property

	case *IndexExpr:
		return w.operand(t.Object, 12) + "[" + w.expr(t.Index) + "]"

	case *CallExpr:
		args := make([]string, len(t.Args))
		for i, arg := range t.Args {
			args[i] = w.operand(arg, 2)
		}
		return w.operand(t.Callee, 12) + "(" + strings.Join(args, ", ") + ")"

	case *TernaryExpr:
		return w.operand(t.Cond, 4) + " ? " + w.operand(t.Then, 2) + " : " + w.operand(t.Else, 2)

	case *ObjectLit:
		if len(t.Props) == 0 {
			return "{}"
		}
		parts := make([]string, len(t.Props))
		for i, p := range t.Props {
			parts[i] = jsKey(p.Key) + ": " + w.operand(p.Value, 2)
		}
		return "{ " + strings.Join(parts, ", ") + " }"

	case *ArrayLit:
		parts := make([]string, len(t.Elems))
		for i, el := range t.Elems {
			parts[i] = w.operand(el, 2)
		}
		return "[" + strings.Join(parts, ", ") + "]"

	case *AssignExpr:
		return w.operand(t.Target, 12) + " " + t.Op.String() + " " + w.operand(t.Value, 2)
	}
	return ""
}

func (w *jsWriter) operand(e Expr, min int) string {
	s := w.expr(e)
	if jsPrec(e) < min {
		return "(" + s + ")"
	}
	return s
}

// binOperand parenthesizes like operand, plus the one case JavaScript
// outright rejects: ?? mixed bare with || or &&.
func (w *jsWriter) binOperand(parent BinaryOp, e Expr, min int) string {
	s := w.expr(e)
	if jsPrec(e) < min || nullishMix(parent, e) {
		return "(" + s + ")"
	}
	return s
}

func nullishMix(parent BinaryOp, child Expr) bool {
	b, ok := child.(*BinaryExpr)
	if !ok {
		return false
	}
	if parent == OpNullish {
		return b.Op == OpOr || b.Op == OpAnd
	}
	if parent == OpOr || parent == OpAnd {
		return b.Op == OpNullish
	}
	return false
}

// jsString renders a single-quoted JavaScript string literal. The </
// sequence is broken so the artifact stays safe inside an inline script
// tag.
func jsString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, ch := range s {
		switch ch {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(ch)
		}
	}
	b.WriteByte('\'')
	return strings.ReplaceAll(b.String(), "</", `<\/`)
}

// jsKey renders an object-literal key, quoting it unless it is a valid
// identifier.
func jsKey(key string) string {
	if isJSIdent(key) {
		return key
	}
	return jsString(key)
}

func isJSIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		if unicode.IsLetter(ch) || ch == '_' || ch == '$' {
			continue
		}
		if i > 0 && unicode.IsDigit(ch) {
			continue
		}
		return false
	}
	return true
}

package rmlgen

import (
	"strings"
	"unicode/utf8"
)

// splitText splits a raw quoted literal into literal and interpolated
// segments in one left-to-right pass. Interpolation boundaries are found
// before escapes are decoded, so \{ yields a literal brace and never
// opens a span. Columns count runes; quoted literals cannot span lines.
func splitText(raw string, base Position) ([]Segment, *Error) {
	var segments []Segment
	var buf strings.Builder
	runStart := 0 // rune offset where the pending literal run began
	col := 0
	i := 0

	flush := func() {
		if buf.Len() > 0 {
			segments = append(segments, Segment{
				Literal:  buf.String(),
				Position: at(base, runStart),
			})
			buf.Reset()
		}
	}

	for i < len(raw) {
		ch, size := utf8.DecodeRuneInString(raw[i:])

		if ch == '{' {
			flush()
			end, spanRunes := findSpanEnd(raw[i+size:])
			if end < 0 {
				return nil, NewError(StageParse, CodeUnterminatedInterpolation, at(base, col),
					"unterminated interpolation")
			}
			span := raw[i+size : i+size+end]
			expr, err := parseExpression(span, at(base, col+1))
			if err != nil {
				return nil, err
			}
			segments = append(segments, Segment{Expr: expr, Position: at(base, col)})
			i += size + end + 1
			col += 1 + spanRunes + 1
			continue
		}

		if buf.Len() == 0 {
			runStart = col
		}
		if ch == '\\' && i+size < len(raw) {
			next, nsize := utf8.DecodeRuneInString(raw[i+size:])
			buf.WriteString(decodeEscape(next))
			i += size + nsize
			col += 2
			continue
		}
		buf.WriteRune(ch)
		i += size
		col++
	}
	flush()
	return segments, nil
}

// findSpanEnd scans for the } closing an interpolation opened just before
// s. Nested braces and quoted strings inside the span are honored. It
// returns the byte offset of the closing brace and the rune count of the
// span, or -1 if the span never closes.
func findSpanEnd(s string) (int, int) {
	depth := 1
	runes := 0
	i := 0
	for i < len(s) {
		ch, size := utf8.DecodeRuneInString(s[i:])
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, runes
			}
		case '\'', '"', '`':
			quote := ch
			i += size
			runes++
			for i < len(s) {
				c, cs := utf8.DecodeRuneInString(s[i:])
				if c == '\\' && i+cs < len(s) {
					_, ns := utf8.DecodeRuneInString(s[i+cs:])
					i += cs + ns
					runes += 2
					continue
				}
				i += cs
				runes++
				if c == quote {
					break
				}
			}
			continue
		}
		i += size
		runes++
	}
	return -1, 0
}

// decodeText decodes backslash escapes in a raw quoted literal. Braces
// pass through untouched: plain attribute values are verbatim text and
// never interpolate.
func decodeText(raw string) string {
	if !strings.ContainsRune(raw, '\\') {
		return raw
	}
	var buf strings.Builder
	i := 0
	for i < len(raw) {
		ch, size := utf8.DecodeRuneInString(raw[i:])
		if ch == '\\' && i+size < len(raw) {
			next, nsize := utf8.DecodeRuneInString(raw[i+size:])
			buf.WriteString(decodeEscape(next))
			i += size + nsize
			continue
		}
		buf.WriteRune(ch)
		i += size
	}
	return buf.String()
}

// decodeEscape maps the character after a backslash to its replacement.
// Unknown escapes keep the backslash so nothing is silently dropped.
func decodeEscape(ch rune) string {
	switch ch {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '\\':
		return "\\"
	case '"':
		return "\""
	case '\'':
		return "'"
	case '{':
		return "{"
	case '}':
		return "}"
	}
	return "\\" + string(ch)
}

// at offsets base by n runes on the same line.
func at(base Position, n int) Position {
	return Position{File: base.File, Line: base.Line, Column: base.Column + n}
}

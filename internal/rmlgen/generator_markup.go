package rmlgen

import (
	"strings"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// renderMarkup serializes the element tree to HTML. Every element carries
// its assigned identifier so the script can locate it; interpolated text
// renders as empty placeholder content for the script to fill on first
// run.
func renderMarkup(doc *Document, ids map[*Element]int) (string, *Error) {
	var sb strings.Builder
	for i, el := range doc.Elements {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if err := renderElement(el, ids).Render(&sb); err != nil {
			return "", NewErrorf(StageGen, CodeRenderFailed, el.Position,
				"render markup: %v", err)
		}
	}
	if len(doc.Elements) > 0 {
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func renderElement(el *Element, ids map[*Element]int) g.Node {
	args := []g.Node{h.ID(elementID(ids[el]))}
	if len(el.Classes) > 0 {
		args = append(args, h.Class(strings.Join(el.Classes, " ")))
	}
	for _, attr := range el.Attrs {
		if attr.Kind != AttrPlain {
			continue
		}
		if attr.HasValue {
			args = append(args, g.Attr(attr.Name, attr.Value))
		} else {
			args = append(args, g.Attr(attr.Name))
		}
	}
	for _, child := range el.Children {
		switch c := child.(type) {
		case *Element:
			args = append(args, renderElement(c, ids))
		case *Text:
			if !c.Interpolated() {
				args = append(args, g.Text(staticText(c)))
			}
		}
	}
	return htmlElement(el.Tag, args...)
}

// staticText joins the literal segments of a non-interpolated text node.
func staticText(t *Text) string {
	var sb strings.Builder
	for _, seg := range t.Segments {
		sb.WriteString(seg.Literal)
	}
	return sb.String()
}

// htmlElement maps a tag name to its gomponents helper, falling back to
// a generic element for anything without one. The library knows which
// tags are void, so input and friends close themselves correctly.
func htmlElement(tag string, children ...g.Node) g.Node {
	switch tag {
	case "a":
		return h.A(children...)
	case "button":
		return h.Button(children...)
	case "div":
		return h.Div(children...)
	case "footer":
		return h.Footer(children...)
	case "form":
		return h.Form(children...)
	case "h1":
		return h.H1(children...)
	case "h2":
		return h.H2(children...)
	case "h3":
		return h.H3(children...)
	case "h4":
		return h.H4(children...)
	case "h5":
		return h.H5(children...)
	case "h6":
		return h.H6(children...)
	case "header":
		return h.Header(children...)
	case "img":
		return h.Img(children...)
	case "input":
		return h.Input(children...)
	case "label":
		return h.Label(children...)
	case "li":
		return h.Li(children...)
	case "main":
		return h.Main(children...)
	case "nav":
		return h.Nav(children...)
	case "p":
		return h.P(children...)
	case "section":
		return h.Section(children...)
	case "span":
		return h.Span(children...)
	case "ul":
		return h.Ul(children...)
	default:
		return g.El(tag, children...)
	}
}

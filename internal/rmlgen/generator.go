package rmlgen

import "fmt"

// Output holds the three artifacts compiled from one document.
type Output struct {
	HTML string
	CSS  string
	JS   string
}

// Generator derives the three artifacts from one validated document.
// Identifiers are assigned in a single pre-order traversal; markup,
// stylesheet, and script all read that assignment, so the same element
// carries the same identifier everywhere.
type Generator struct {
	declared map[string]bool
	ids      map[*Element]int
	order    []*Element
	binds    int
	err      *Error
}

// NewGenerator creates a new code generator.
func NewGenerator() *Generator {
	return &Generator{
		declared: make(map[string]bool),
		ids:      make(map[*Element]int),
	}
}

// Generate produces the three artifacts. The document is expected to have
// passed analysis; structurally unsupported constructs still fail here
// rather than emit silently wrong output.
func (g *Generator) Generate(doc *Document) (*Output, error) {
	if doc.State != nil {
		for _, f := range doc.State.Fields {
			g.declared[f.Name] = true
		}
	}
	if doc.Computed != nil {
		for _, f := range doc.Computed.Fields {
			g.declared[f.Name] = true
		}
	}
	for _, el := range doc.Elements {
		g.assign(el)
	}

	html, herr := renderMarkup(doc, g.ids)
	if herr != nil {
		return nil, herr
	}
	css := renderStylesheet(collectClasses(g.order))
	js := g.renderScript(doc)
	if g.err != nil {
		return nil, g.err
	}
	return &Output{HTML: html, CSS: css, JS: js}, nil
}

// assign gives el and its element children their traversal-order indices.
func (g *Generator) assign(el *Element) {
	g.ids[el] = len(g.order)
	g.order = append(g.order, el)
	for _, child := range el.Children {
		if c, ok := child.(*Element); ok {
			g.assign(c)
		}
	}
}

// elementID is the identifier shared by all three artifacts for the
// element assigned index i.
func elementID(i int) string { return fmt.Sprintf("element-%d", i) }

// elementRef is the script-local constant holding the cached lookup for
// the element assigned index i.
func elementRef(i int) string { return fmt.Sprintf("_e%d", i) }

func (g *Generator) failf(code Code, pos Position, format string, args ...any) {
	if g.err == nil {
		g.err = NewErrorf(StageGen, code, pos, format, args...)
	}
}

package rmlgen

import "strings"

// exprContext describes where an expression appears. The context decides
// which names are visible and whether writes are allowed.
type exprContext int

const (
	ctxComputed exprContext = iota
	ctxDirective
	ctxEvent
	ctxInterpolation
)

// globalIdents are browser globals expressions may reference without
// declaring. Writes to them are rejected like any other non-state target.
var globalIdents = map[string]bool{
	"Math":       true,
	"JSON":       true,
	"Date":       true,
	"String":     true,
	"Number":     true,
	"Boolean":    true,
	"Array":      true,
	"Object":     true,
	"parseInt":   true,
	"parseFloat": true,
	"isNaN":      true,
	"console":    true,
}

// modelTags lists the form controls :model can bind.
var modelTags = map[string]bool{
	"input":    true,
	"textarea": true,
	"select":   true,
}

// Analyzer validates a parsed document before generation: every
// identifier must resolve, writes are confined to event handlers and
// state fields, and directives must sit on elements that support them.
type Analyzer struct {
	state    map[string]bool
	computed map[string]bool
	visible  map[string]bool // grows as computed fields are checked in order
	err      *Error
}

// NewAnalyzer creates a new semantic analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		state:    make(map[string]bool),
		computed: make(map[string]bool),
		visible:  make(map[string]bool),
	}
}

// Analyze checks doc and reports the first violation found. Computed
// fields may reference state and computed fields defined above them;
// everything else sees all declared names.
func (a *Analyzer) Analyze(doc *Document) error {
	if doc.State != nil {
		for _, f := range doc.State.Fields {
			a.state[f.Name] = true
			a.visible[f.Name] = true
		}
	}
	if doc.Computed != nil {
		for _, f := range doc.Computed.Fields {
			a.computed[f.Name] = true
		}
		for _, f := range doc.Computed.Fields {
			a.checkExpr(f.Value, ctxComputed)
			if a.err != nil {
				return a.err
			}
			a.visible[f.Name] = true
		}
	}
	for _, el := range doc.Elements {
		a.analyzeElement(el)
		if a.err != nil {
			return a.err
		}
	}
	return nil
}

func (a *Analyzer) analyzeElement(el *Element) {
	textDirective := ""
	for _, attr := range el.Attrs {
		a.analyzeAttribute(el, attr)
		if a.err != nil {
			return
		}
		if attr.Kind == AttrDirective && (attr.Name == "text" || attr.Name == "html") {
			textDirective = attr.Name
		}
	}
	if textDirective != "" && len(el.Children) > 0 {
		a.failf(CodeMixedContent, el.Position,
			"element with :%s cannot have nested content", textDirective)
		return
	}
	// An interpolated text binding rewrites the element's text content,
	// so it cannot share the element with child elements.
	interpolated := false
	nested := false
	for _, child := range el.Children {
		switch c := child.(type) {
		case *Element:
			nested = true
		case *Text:
			if c.Interpolated() {
				interpolated = true
			}
		}
	}
	if interpolated && nested {
		a.fail(CodeMixedContent, el.Position,
			"element cannot mix interpolated text with child elements")
		return
	}
	for _, child := range el.Children {
		switch c := child.(type) {
		case *Element:
			a.analyzeElement(c)
		case *Text:
			for _, seg := range c.Segments {
				if seg.Expr != nil {
					a.checkExpr(seg.Expr, ctxInterpolation)
				}
			}
		}
		if a.err != nil {
			return
		}
	}
}

func (a *Analyzer) analyzeAttribute(el *Element, attr *Attribute) {
	switch attr.Kind {
	case AttrEvent:
		// The parser rejects unknown names; hand-built documents get the
		// same treatment here.
		if !supportedEvents[attr.Name] {
			a.failf(CodeUnsupportedEvent, attr.Position, "unsupported event %q", attr.Name)
			return
		}
		for _, mod := range attr.Modifiers {
			if !isReservedModifier(mod) {
				a.failf(CodeUnsupportedModifier, attr.Position,
					"unsupported modifier %q on @%s", mod, attr.Name)
				return
			}
			if keyFilters[mod] != "" && !keyboardEvents[attr.Name] {
				a.failf(CodeUnsupportedModifier, attr.Position,
					"key modifier %q only applies to keyboard events", mod)
				return
			}
		}
		a.checkExpr(attr.Expr, ctxEvent)

	case AttrDirective:
		switch attr.Name {
		case "model":
			a.analyzeModel(el, attr)
		case "show", "class", "text", "html", "disabled":
			a.checkExpr(attr.Expr, ctxDirective)
		default:
			a.failf(CodeUnsupportedDirective, attr.Position,
				"unsupported directive %q", attr.Name)
		}
	}
}

// analyzeModel enforces the two-way binding contract: a form control on
// the element side, a bare state field on the expression side.
func (a *Analyzer) analyzeModel(el *Element, attr *Attribute) {
	if !modelTags[el.Tag] {
		a.failf(CodeInvalidModelTarget, attr.Position,
			":model requires an input, textarea, or select element, got <%s>", el.Tag)
		return
	}
	id, ok := attr.Expr.(*Ident)
	if !ok {
		a.fail(CodeInvalidModelTarget, attr.ValuePos, ":model requires a bare state field")
		return
	}
	if !a.state[id.Name] {
		a.failf(CodeInvalidModelTarget, attr.ValuePos,
			":model target %q is not a state field", id.Name)
	}
}

func (a *Analyzer) checkExpr(e Expr, ctx exprContext) {
	if a.err != nil || e == nil {
		return
	}
	switch t := e.(type) {
	case *Ident:
		a.checkIdent(t, ctx)
	case *UnaryExpr:
		a.checkExpr(t.Operand, ctx)
	case *BinaryExpr:
		a.checkExpr(t.Left, ctx)
		a.checkExpr(t.Right, ctx)
	case *MemberExpr:
		a.checkExpr(t.Object, ctx)
	case *IndexExpr:
		a.checkExpr(t.Object, ctx)
		a.checkExpr(t.Index, ctx)
	case *CallExpr:
		a.checkExpr(t.Callee, ctx)
		for _, arg := range t.Args {
			a.checkExpr(arg, ctx)
		}
	case *TernaryExpr:
		a.checkExpr(t.Cond, ctx)
		a.checkExpr(t.Then, ctx)
		a.checkExpr(t.Else, ctx)
	case *ObjectLit:
		for _, p := range t.Props {
			a.checkExpr(p.Value, ctx)
		}
	case *ArrayLit:
		for _, el := range t.Elems {
			a.checkExpr(el, ctx)
		}
	case *AssignExpr:
		a.checkAssign(t, ctx)
	}
}

func (a *Analyzer) checkIdent(id *Ident, ctx exprContext) {
	name := id.Name
	if name == "$event" {
		if ctx != ctxEvent {
			a.fail(CodeUndeclaredIdentifier, id.Position,
				"$event is only available in event handlers")
		}
		return
	}
	if strings.HasPrefix(name, "$") {
		a.err = NewErrorf(StageGen, CodeUndeclaredIdentifier, id.Position,
			"unknown name %q", name).
			WithHint("$event is the only available $ name")
		return
	}
	if a.visible[name] || globalIdents[name] {
		return
	}
	if a.computed[name] {
		a.failf(CodeUndeclaredIdentifier, id.Position,
			"computed field %q is used before its definition", name)
		return
	}
	a.err = NewErrorf(StageGen, CodeUndeclaredIdentifier, id.Position,
		"undefined reference to %q", name).
		WithHint("declare it in the state block")
}

func (a *Analyzer) checkAssign(as *AssignExpr, ctx exprContext) {
	if ctx != ctxEvent {
		a.fail(CodeAssignmentNotAllowed, as.Position,
			"assignment is only allowed in event handlers")
		return
	}
	root := rootIdent(as.Target)
	if root == nil {
		a.fail(CodeAssignmentNotAllowed, as.Position, "invalid assignment target")
		return
	}
	if a.computed[root.Name] {
		a.failf(CodeAssignmentNotAllowed, as.Position,
			"cannot assign to computed field %q", root.Name)
		return
	}
	if !a.state[root.Name] {
		a.failf(CodeAssignmentNotAllowed, as.Position,
			"cannot assign to %q, it is not a state field", root.Name)
		return
	}
	a.checkExpr(as.Target, ctx)
	a.checkExpr(as.Value, ctx)
}

func (a *Analyzer) fail(code Code, pos Position, msg string) {
	if a.err == nil {
		a.err = NewError(StageGen, code, pos, msg)
	}
}

func (a *Analyzer) failf(code Code, pos Position, format string, args ...any) {
	if a.err == nil {
		a.err = NewErrorf(StageGen, code, pos, format, args...)
	}
}

// rootIdent walks to the identifier at the base of a member or index
// chain. Returns nil if the chain bottoms out in anything else.
func rootIdent(e Expr) *Ident {
	for {
		switch t := e.(type) {
		case *Ident:
			return t
		case *MemberExpr:
			e = t.Object
		case *IndexExpr:
			e = t.Object
		default:
			return nil
		}
	}
}

// collectRefs returns the declared fields e references, in first-use
// order. Globals and $event are not tracked; they never change.
func collectRefs(e Expr, declared map[string]bool) []string {
	var refs []string
	seen := make(map[string]bool)
	var walk func(Expr)
	walk = func(e Expr) {
		switch t := e.(type) {
		case *Ident:
			if declared[t.Name] && !seen[t.Name] {
				seen[t.Name] = true
				refs = append(refs, t.Name)
			}
		case *UnaryExpr:
			walk(t.Operand)
		case *BinaryExpr:
			walk(t.Left)
			walk(t.Right)
		case *MemberExpr:
			walk(t.Object)
		case *IndexExpr:
			walk(t.Object)
			walk(t.Index)
		case *CallExpr:
			walk(t.Callee)
			for _, arg := range t.Args {
				walk(arg)
			}
		case *TernaryExpr:
			walk(t.Cond)
			walk(t.Then)
			walk(t.Else)
		case *ObjectLit:
			for _, p := range t.Props {
				walk(p.Value)
			}
		case *ArrayLit:
			for _, el := range t.Elems {
				walk(el)
			}
		case *AssignExpr:
			walk(t.Target)
			walk(t.Value)
		}
	}
	walk(e)
	return refs
}

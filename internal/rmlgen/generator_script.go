package rmlgen

import (
	"fmt"
	"strings"
)

// runtimeJS is the reactive runtime embedded at the top of every script
// artifact. State fields become property accessors whose setters
// synchronously notify the bindings registered for that field; derived
// fields recompute from the same notifications. No eval and no Function
// constructor: the artifact runs under a restrictive content security
// policy.
const runtimeJS = `const rml = (() => {
  const create = (initial) => {
    const state = {};
    const watchers = {};
    const notify = (key) => {
      for (const fn of watchers[key].slice()) fn();
    };
    for (const key of Object.keys(initial)) {
      let value = initial[key];
      watchers[key] = [];
      Object.defineProperty(state, key, {
        enumerable: true,
        get: () => value,
        set: (next) => {
          if (next === value) return;
          value = next;
          notify(key);
        },
      });
    }
    const bind = (keys, fn) => {
      for (const key of keys) watchers[key].push(fn);
      fn();
    };
    const derive = (key, keys, compute) => {
      watchers[key] = [];
      let value = compute();
      Object.defineProperty(state, key, {
        enumerable: true,
        get: () => value,
      });
      for (const dep of keys) {
        watchers[dep].push(() => {
          const next = compute();
          if (next === value) return;
          value = next;
          notify(key);
        });
      }
    };
    return { state, bind, derive };
  };
  const text = (el, read) => () => { el.textContent = String(read()); };
  const html = (el, read) => () => { el.innerHTML = String(read()); };
  const show = (el, read) => {
    const visible = el.style.display === 'none' ? '' : el.style.display;
    return () => { el.style.display = read() ? visible : 'none'; };
  };
  const disabled = (el, read) => () => { el.disabled = !!read(); };
  const classes = (el, base, read) => () => {
    const names = base.slice();
    const value = read();
    if (typeof value === 'string') {
      if (value) names.push(value);
    } else if (Array.isArray(value)) {
      for (const name of value) if (name) names.push(String(name));
    } else if (value) {
      for (const name of Object.keys(value)) if (value[name]) names.push(name);
    }
    el.className = names.join(' ');
  };
  const model = (el, read, write) => {
    el.addEventListener('input', () => { write(el.value); });
    return () => {
      const next = String(read());
      if (el.value !== next) el.value = next;
    };
  };
  return { create, text, html, show, disabled, classes, model };
})();
`

// renderScript emits the script artifact: the runtime, the initial state,
// one cached lookup per assigned identifier, then the listeners and
// update routines in traversal order. A document with no state and no
// bindings needs no script at all.
func (g *Generator) renderScript(doc *Document) string {
	if !needsScript(doc) {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(runtimeJS)
	sb.WriteString("\n(() => {\n")

	sb.WriteString("  const { state: _s, bind, derive } = rml.create(")
	sb.WriteString(stateLiteral(doc))
	sb.WriteString(");\n")

	if doc.Computed != nil {
		for _, f := range doc.Computed.Fields {
			fmt.Fprintf(&sb, "  derive(%s, %s, () => %s);\n",
				jsString(f.Name),
				jsStringList(collectRefs(f.Value, g.declared)),
				arrowBody(jsExpr(f.Value, g.declared)))
		}
	}

	for i := range g.order {
		fmt.Fprintf(&sb, "  const %s = document.getElementById(%s);\n",
			elementRef(i), jsString(elementID(i)))
	}

	for _, el := range g.order {
		g.emitElement(&sb, el)
		if g.err != nil {
			return ""
		}
	}

	sb.WriteString("})();\n")
	return sb.String()
}

func needsScript(doc *Document) bool {
	if doc.State != nil && len(doc.State.Fields) > 0 {
		return true
	}
	if doc.Computed != nil && len(doc.Computed.Fields) > 0 {
		return true
	}
	for _, el := range doc.Elements {
		if elementNeedsScript(el) {
			return true
		}
	}
	return false
}

func elementNeedsScript(el *Element) bool {
	for _, attr := range el.Attrs {
		if attr.Kind == AttrEvent || attr.Kind == AttrDirective {
			return true
		}
	}
	for _, child := range el.Children {
		switch c := child.(type) {
		case *Element:
			if elementNeedsScript(c) {
				return true
			}
		case *Text:
			if c.Interpolated() {
				return true
			}
		}
	}
	return false
}

// stateLiteral renders the initial state object exactly as declared:
// fields in order, nothing added.
func stateLiteral(doc *Document) string {
	if doc.State == nil || len(doc.State.Fields) == 0 {
		return "{}"
	}
	parts := make([]string, len(doc.State.Fields))
	for i, f := range doc.State.Fields {
		parts[i] = jsKey(f.Name) + ": " + jsExpr(f.Value, nil)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// emitElement writes the listeners and bindings for one element, in
// source order, followed by its interpolated text binding if it has one.
func (g *Generator) emitElement(sb *strings.Builder, el *Element) {
	ref := elementRef(g.ids[el])
	for _, attr := range el.Attrs {
		switch attr.Kind {
		case AttrEvent:
			g.emitListener(sb, ref, attr)
		case AttrDirective:
			g.emitDirective(sb, el, ref, attr)
		}
		if g.err != nil {
			return
		}
	}
	for _, child := range el.Children {
		if t, ok := child.(*Text); ok && t.Interpolated() {
			g.emitTextBinding(sb, ref, t)
		}
	}
}

func (g *Generator) emitDirective(sb *strings.Builder, el *Element, ref string, attr *Attribute) {
	var call string
	switch attr.Name {
	case "show":
		call = fmt.Sprintf("rml.show(%s, () => %s)", ref, arrowBody(jsExpr(attr.Expr, g.declared)))
	case "text":
		call = fmt.Sprintf("rml.text(%s, () => %s)", ref, arrowBody(jsExpr(attr.Expr, g.declared)))
	case "html":
		call = fmt.Sprintf("rml.html(%s, () => %s)", ref, arrowBody(jsExpr(attr.Expr, g.declared)))
	case "disabled":
		call = fmt.Sprintf("rml.disabled(%s, () => %s)", ref, arrowBody(jsExpr(attr.Expr, g.declared)))
	case "class":
		call = fmt.Sprintf("rml.classes(%s, %s, () => %s)",
			ref, jsStringList(el.Classes), arrowBody(jsExpr(attr.Expr, g.declared)))
	case "model":
		id, ok := attr.Expr.(*Ident)
		if !ok || !g.declared[id.Name] {
			g.failf(CodeInvalidModelTarget, attr.ValuePos, ":model requires a bare state field")
			return
		}
		call = fmt.Sprintf("rml.model(%s, () => _s.%s, (value) => { _s.%s = value; })",
			ref, id.Name, id.Name)
		g.emitBinding(sb, call, []string{id.Name})
		return
	default:
		g.failf(CodeUnsupportedDirective, attr.Position, "unsupported directive %q", attr.Name)
		return
	}
	g.emitBinding(sb, call, collectRefs(attr.Expr, g.declared))
}

// emitBinding defines the update routine, runs it once for first render,
// and subscribes it to the fields it reads.
func (g *Generator) emitBinding(sb *strings.Builder, call string, refs []string) {
	name := fmt.Sprintf("_b%d", g.binds)
	g.binds++
	fmt.Fprintf(sb, "  const %s = %s;\n", name, call)
	fmt.Fprintf(sb, "  bind(%s, %s);\n", jsStringList(refs), name)
}

func (g *Generator) emitTextBinding(sb *strings.Builder, ref string, t *Text) {
	var refs []string
	seen := make(map[string]bool)
	for _, seg := range t.Segments {
		if seg.Expr == nil {
			continue
		}
		for _, r := range collectRefs(seg.Expr, g.declared) {
			if !seen[r] {
				seen[r] = true
				refs = append(refs, r)
			}
		}
	}
	g.emitBinding(sb, fmt.Sprintf("rml.text(%s, () => %s)", ref, textRead(t, g.declared)), refs)
}

// textRead builds the concatenation that recomputes an interpolated text
// node. Every expression piece goes through String so numeric segments
// concatenate instead of adding.
func textRead(t *Text, declared map[string]bool) string {
	parts := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		if seg.Expr != nil {
			parts = append(parts, "String("+jsExpr(seg.Expr, declared)+")")
		} else {
			parts = append(parts, jsString(seg.Literal))
		}
	}
	return strings.Join(parts, " + ")
}

// emitListener registers one listener, translating modifiers into guards
// ahead of the handler body: key filters, then modifier keys, then
// prevent and stop.
func (g *Generator) emitListener(sb *strings.Builder, ref string, attr *Attribute) {
	if !supportedEvents[attr.Name] {
		g.failf(CodeUnsupportedEvent, attr.Position, "unsupported event %q", attr.Name)
		return
	}
	var keys, guards []string
	prevent, stop, once := false, false, false
	for _, mod := range attr.Modifiers {
		switch {
		case mod == "prevent":
			prevent = true
		case mod == "stop":
			stop = true
		case mod == "once":
			once = true
		case modifierKeys[mod] != "":
			guards = append(guards, modifierKeys[mod])
		case keyFilters[mod] != "":
			keys = append(keys, keyFilters[mod])
		default:
			g.failf(CodeUnsupportedModifier, attr.Position,
				"unsupported modifier %q on @%s", mod, attr.Name)
			return
		}
	}
	body := jsExpr(attr.Expr, g.declared)
	opts := ""
	if once {
		opts = ", { once: true }"
	}

	if len(keys) == 0 && len(guards) == 0 && !prevent && !stop {
		fmt.Fprintf(sb, "  %s.addEventListener(%s, (event) => (%s)%s);\n",
			ref, jsString(attr.Name), body, opts)
		return
	}
	fmt.Fprintf(sb, "  %s.addEventListener(%s, (event) => {\n", ref, jsString(attr.Name))
	if len(keys) > 0 {
		conds := make([]string, len(keys))
		for i, k := range keys {
			conds[i] = "event.key !== " + jsString(k)
		}
		fmt.Fprintf(sb, "    if (%s) return;\n", strings.Join(conds, " && "))
	}
	for _, prop := range guards {
		fmt.Fprintf(sb, "    if (!event.%s) return;\n", prop)
	}
	if prevent {
		sb.WriteString("    event.preventDefault();\n")
	}
	if stop {
		sb.WriteString("    event.stopPropagation();\n")
	}
	fmt.Fprintf(sb, "    (%s);\n", body)
	fmt.Fprintf(sb, "  }%s);\n", opts)
}

// arrowBody parenthesizes an arrow-function expression body that would
// otherwise parse as a block.
func arrowBody(s string) string {
	if strings.HasPrefix(s, "{") {
		return "(" + s + ")"
	}
	return s
}

func jsStringList(names []string) string {
	if len(names) == 0 {
		return "[]"
	}
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = jsString(n)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

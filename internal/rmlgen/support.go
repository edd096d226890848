package rmlgen

// The tables below define the directive, event, and modifier surface the
// compiler supports. The parser validates names against them so unknown
// constructs fail at parse time; the generator re-checks them so Documents
// built by hand fail there instead of producing silently-wrong output.

// supportedDirectives lists the directives the generator can emit bindings
// for.
var supportedDirectives = map[string]bool{
	"show":     true,
	"model":    true,
	"class":    true,
	"text":     true,
	"html":     true,
	"disabled": true,
}

// supportedEvents lists the DOM events a listener may be registered for.
var supportedEvents = map[string]bool{
	"click":      true,
	"dblclick":   true,
	"mousedown":  true,
	"mouseup":    true,
	"mouseenter": true,
	"mouseleave": true,
	"mouseover":  true,
	"mouseout":   true,
	"mousemove":  true,
	"input":      true,
	"change":     true,
	"submit":     true,
	"focus":      true,
	"blur":       true,
	"keydown":    true,
	"keyup":      true,
	"keypress":   true,
	"scroll":     true,
	"touchstart": true,
	"touchend":   true,
	"touchmove":  true,
}

// keyboardEvents are the events whose listeners may carry key-filter
// modifiers.
var keyboardEvents = map[string]bool{
	"keydown":  true,
	"keyup":    true,
	"keypress": true,
}

// keyFilters maps key-name modifiers to the event.key value they match.
var keyFilters = map[string]string{
	"enter":  "Enter",
	"esc":    "Escape",
	"tab":    "Tab",
	"space":  " ",
	"delete": "Delete",
	"up":     "ArrowUp",
	"down":   "ArrowDown",
	"left":   "ArrowLeft",
	"right":  "ArrowRight",
}

// modifierKeys maps modifier-key combinator names to the event property
// they guard on.
var modifierKeys = map[string]string{
	"ctrl":  "ctrlKey",
	"alt":   "altKey",
	"shift": "shiftKey",
	"meta":  "metaKey",
}

// isReservedModifier reports whether name is any recognized event modifier.
func isReservedModifier(name string) bool {
	switch name {
	case "prevent", "stop", "once":
		return true
	}
	if _, ok := keyFilters[name]; ok {
		return true
	}
	_, ok := modifierKeys[name]
	return ok
}

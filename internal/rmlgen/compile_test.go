package rmlgen

import (
	"strings"
	"testing"
)

const counterSource = `state
  count: 0

div .counter
  button @click="count--" "-"
  span "{count}"
  button @click="count++" "+"
`

func TestCompile_Counter(t *testing.T) {
	out := compileSource(t, counterSource)

	wantHTML := `<div id="element-0" class="counter">` +
		`<button id="element-1">-</button>` +
		`<span id="element-2"></span>` +
		`<button id="element-3">+</button>` +
		`</div>` + "\n"
	if out.HTML != wantHTML {
		t.Errorf("HTML = %q, want %q", out.HTML, wantHTML)
	}

	if out.CSS != "" {
		t.Errorf("CSS = %q, want empty", out.CSS)
	}

	for _, want := range []string{
		"const rml = (() => {",
		"const { state: _s, bind, derive } = rml.create({ count: 0 });",
		"const _e2 = document.getElementById('element-2');",
		"_e1.addEventListener('click', (event) => (_s.count = _s.count - 1));",
		"_e3.addEventListener('click', (event) => (_s.count = _s.count + 1));",
		"const _b0 = rml.text(_e2, () => String(_s.count));",
		"bind(['count'], _b0);",
	} {
		if !strings.Contains(out.JS, want) {
			t.Errorf("JS missing %q in:\n%s", want, out.JS)
		}
	}
}

func TestCompile_Toggle(t *testing.T) {
	out := compileSource(t, `state
  visible: true

div
  button @click="visible = !visible" "toggle"
  p :show="visible" "content"
`)
	if !strings.Contains(out.HTML, `<p id="element-2">content</p>`) {
		t.Errorf("HTML = %q, want the static paragraph", out.HTML)
	}
	for _, want := range []string{
		"_e1.addEventListener('click', (event) => (_s.visible = !_s.visible));",
		"const _b0 = rml.show(_e2, () => _s.visible);",
		"bind(['visible'], _b0);",
	} {
		if !strings.Contains(out.JS, want) {
			t.Errorf("JS missing %q", want)
		}
	}
}

func TestCompile_TwoWayBinding(t *testing.T) {
	out := compileSource(t, `state
  name: ""

input :model="name" placeholder="Your name"
p "Hello, {name}!"
`)
	if !strings.Contains(out.HTML, `<input id="element-0" placeholder="Your name">`) {
		t.Errorf("HTML = %q, want the input markup", out.HTML)
	}
	if strings.Contains(out.HTML, "</input>") {
		t.Error("HTML closes a void element")
	}
	for _, want := range []string{
		"rml.create({ name: '' });",
		"const _b0 = rml.model(_e0, () => _s.name, (value) => { _s.name = value; });",
		"bind(['name'], _b0);",
		"const _b1 = rml.text(_e1, () => 'Hello, ' + String(_s.name) + '!');",
		"bind(['name'], _b1);",
	} {
		if !strings.Contains(out.JS, want) {
			t.Errorf("JS missing %q", want)
		}
	}
}

func TestCompile_EmptyDocument(t *testing.T) {
	for name, source := range map[string]string{
		"empty":         "",
		"only blanks":   "\n\n\n",
		"only comments": "// nothing here\n// at all\n",
	} {
		t.Run(name, func(t *testing.T) {
			out := compileSource(t, source)
			if out.HTML != "" {
				t.Errorf("HTML = %q, want empty", out.HTML)
			}
			if out.CSS != "" {
				t.Errorf("CSS = %q, want empty", out.CSS)
			}
			if out.JS != "" {
				t.Errorf("JS = %q, want empty", out.JS)
			}
		})
	}
}

func TestCompile_StaticDocumentHasNoScript(t *testing.T) {
	out := compileSource(t, `div .card
  h1 "Title"
  p "Body text"
  a href="/more" "Read more"
`)
	if out.HTML == "" {
		t.Error("HTML is empty, want markup")
	}
	if out.JS != "" {
		t.Errorf("JS = %q, want empty for a static document", out.JS)
	}
}

func TestCompile_EmptyStateStillStatic(t *testing.T) {
	// A state block with no fields declares nothing to react to.
	out := compileSource(t, "state\ndiv \"x\"\n")
	if out.JS != "" {
		t.Errorf("JS = %q, want empty", out.JS)
	}
}

func TestCompile_Deterministic(t *testing.T) {
	sources := map[string]string{
		"counter": counterSource,
		"static":  "div .card\n  p \"hi\"\n",
		"computed": `state
  price: 10
  qty: 2
computed
  total: "price * qty"
p "{total}"
`,
	}

	for name, source := range sources {
		t.Run(name, func(t *testing.T) {
			first := compileSource(t, source)
			for i := 0; i < 3; i++ {
				next := compileSource(t, source)
				if next.HTML != first.HTML {
					t.Fatal("HTML differs between compilations of the same source")
				}
				if next.CSS != first.CSS {
					t.Fatal("CSS differs between compilations of the same source")
				}
				if next.JS != first.JS {
					t.Fatal("JS differs between compilations of the same source")
				}
			}
		})
	}
}

func TestCompile_NoDynamicEvaluation(t *testing.T) {
	out := compileSource(t, `state
  q: ""
  n: 0
computed
  shout: "q + '!'"
input :model="q"
button @click="n++" "go"
p "{shout} {n}"
`)
	if strings.Contains(out.JS, "eval(") {
		t.Error("JS contains eval")
	}
	if strings.Contains(out.JS, "new Function") {
		t.Error("JS contains the Function constructor")
	}
}

func TestCompile_EscapedBraceStaysLiteral(t *testing.T) {
	out := compileSource(t, `p "\{count} stays literal"`+"\n")
	if !strings.Contains(out.HTML, "{count} stays literal") {
		t.Errorf("HTML = %q, want the braces kept as text", out.HTML)
	}
	if out.JS != "" {
		t.Errorf("JS = %q, want empty, the text never interpolates", out.JS)
	}
}

func TestCompile_ScriptShape(t *testing.T) {
	out := compileSource(t, counterSource)
	if !strings.HasPrefix(out.JS, "const rml = (() => {") {
		t.Error("JS does not begin with the runtime")
	}
	if !strings.HasSuffix(out.JS, "})();\n") {
		t.Errorf("JS tail = %q, want the closing of the setup function", tail(out.JS, 10))
	}
	runtimeEnd := strings.Index(out.JS, "\n(() => {\n")
	if runtimeEnd < 0 {
		t.Fatal("JS missing the setup function opener")
	}
	setup := out.JS[runtimeEnd:]
	if strings.Index(setup, "rml.create(") > strings.Index(setup, "getElementById") {
		t.Error("state creation comes after element lookups")
	}
}

func TestCompile_ErrorStages(t *testing.T) {
	type tc struct {
		input string
		stage Stage
		code  Code
	}

	tests := map[string]tc{
		"scanner error": {
			input: "\tdiv\n",
			stage: StageLex,
			code:  CodeInvalidCharacter,
		},
		"parser error": {
			input: `div :nope="1"` + "\n",
			stage: StageParse,
			code:  CodeUnknownDirective,
		},
		"semantic error": {
			input: `div :show="missing"` + "\n",
			stage: StageGen,
			code:  CodeUndeclaredIdentifier,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Compile("test.rml", tt.input)
			if err == nil {
				t.Fatal("Compile() succeeded, want error")
			}
			cerr, ok := err.(*Error)
			if !ok {
				t.Fatalf("error type = %T, want *Error", err)
			}
			if cerr.Stage != tt.stage {
				t.Errorf("Stage = %v, want %v", cerr.Stage, tt.stage)
			}
			if cerr.Code != tt.code {
				t.Errorf("Code = %v, want %v", cerr.Code, tt.code)
			}
			if cerr.Pos.File != "test.rml" {
				t.Errorf("File = %q, want %q", cerr.Pos.File, "test.rml")
			}
		})
	}
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

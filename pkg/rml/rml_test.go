package rml

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCompile(t *testing.T) {
	out, err := Compile("counter.rml", `state
  count: 0

div .counter
  button @click="count++" "+"
  span "{count}"
`)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if !strings.Contains(out.HTML, `id="element-0"`) {
		t.Errorf("HTML = %q, want assigned identifiers", out.HTML)
	}
	if out.CSS != "" {
		t.Errorf("CSS = %q, want empty", out.CSS)
	}
	if !strings.Contains(out.JS, "rml.create({ count: 0 });") {
		t.Errorf("JS missing state creation:\n%s", out.JS)
	}
}

func TestCompile_ErrorFields(t *testing.T) {
	type tc struct {
		source string
		stage  string
		code   string
		line   int
	}

	tests := map[string]tc{
		"lex": {
			source: "div\n\tspan\n",
			stage:  "lex",
			code:   "invalid-character",
			line:   2,
		},
		"parse": {
			source: `div :nope="1"` + "\n",
			stage:  "parse",
			code:   "unknown-directive",
			line:   1,
		},
		"codegen": {
			source: `div :show="missing"` + "\n",
			stage:  "codegen",
			code:   "undeclared-identifier",
			line:   1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Compile("app.rml", tt.source)
			if err == nil {
				t.Fatal("Compile() succeeded, want error")
			}
			cerr, ok := err.(*Error)
			if !ok {
				t.Fatalf("error type = %T, want *Error", err)
			}
			if cerr.Stage != tt.stage {
				t.Errorf("Stage = %q, want %q", cerr.Stage, tt.stage)
			}
			if cerr.Code != tt.code {
				t.Errorf("Code = %q, want %q", cerr.Code, tt.code)
			}
			if cerr.File != "app.rml" {
				t.Errorf("File = %q, want %q", cerr.File, "app.rml")
			}
			if cerr.Line != tt.line {
				t.Errorf("Line = %d, want %d", cerr.Line, tt.line)
			}
			if cerr.Column == 0 {
				t.Error("Column = 0, want 1-based position")
			}
		})
	}
}

func TestError_Rendering(t *testing.T) {
	_, err := Compile("app.rml", `div id="x"`+"\n")
	if err == nil {
		t.Fatal("Compile() succeeded, want error")
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "app.rml:1:5: parse error:") {
		t.Errorf("Error() = %q, want position and stage prefix", msg)
	}
	if !strings.Contains(msg, "(element ids are generated in document order)") {
		t.Errorf("Error() = %q, want the hint in parentheses", msg)
	}
}

func TestError_JSON(t *testing.T) {
	_, err := Compile("app.rml", `div :show="missing"`+"\n")
	if err == nil {
		t.Fatal("Compile() succeeded, want error")
	}
	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("Marshal() error: %v", jerr)
	}
	var decoded map[string]any
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("Unmarshal() error: %v", jerr)
	}
	if decoded["stage"] != "codegen" {
		t.Errorf("stage = %v, want codegen", decoded["stage"])
	}
	if decoded["code"] != "undeclared-identifier" {
		t.Errorf("code = %v, want undeclared-identifier", decoded["code"])
	}
	if decoded["line"] != float64(1) {
		t.Errorf("line = %v, want 1", decoded["line"])
	}
	if _, ok := decoded["hint"]; !ok {
		t.Error("hint missing, want the declaration suggestion")
	}
}

func TestOutput_JSON(t *testing.T) {
	out, err := Compile("app.rml", "div \"hi\"\n")
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	data, jerr := json.Marshal(out)
	if jerr != nil {
		t.Fatalf("Marshal() error: %v", jerr)
	}
	var decoded struct {
		HTML string `json:"html"`
		CSS  string `json:"css"`
		JS   string `json:"js"`
	}
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("Unmarshal() error: %v", jerr)
	}
	if decoded.HTML != out.HTML {
		t.Errorf("html = %q, want %q", decoded.HTML, out.HTML)
	}
}

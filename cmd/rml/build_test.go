package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const counterSource = `state
  count: 0

div .counter
  button @click="count++" "+"
  span "{count}"
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
}

func TestRunBuild_NextToSource(t *testing.T) {
	t.Setenv("RML_OUT_DIR", "")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app.rml"), counterSource)

	if err := runBuild([]string{filepath.Join(dir, "app.rml")}); err != nil {
		t.Fatalf("runBuild() error: %v", err)
	}

	html, err := os.ReadFile(filepath.Join(dir, "app.html"))
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.Contains(string(html), `id="element-0"`) {
		t.Errorf("html = %q, want assigned identifiers", html)
	}

	css, err := os.ReadFile(filepath.Join(dir, "app.css"))
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if len(css) != 0 {
		t.Errorf("css = %q, want empty", css)
	}

	js, err := os.ReadFile(filepath.Join(dir, "app.js"))
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.Contains(string(js), "rml.create({ count: 0 });") {
		t.Errorf("js missing state creation:\n%s", js)
	}
}

func TestRunBuild_OutDir(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "dist")
	writeFile(t, filepath.Join(dir, "app.rml"), counterSource)

	if err := runBuild([]string{"-o", out, filepath.Join(dir, "app.rml")}); err != nil {
		t.Fatalf("runBuild() error: %v", err)
	}

	for _, name := range []string{"app.html", "app.css", "app.js"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "app.html")); !os.IsNotExist(err) {
		t.Error("app.html written next to source, want it under -o only")
	}
}

func TestRunBuild_ReportsErrors(t *testing.T) {
	t.Setenv("RML_OUT_DIR", "")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.rml"), `div "ok"`+"\n")
	writeFile(t, filepath.Join(dir, "bad.rml"), `div :nope="1"`+"\n")

	err := runBuild([]string{dir})
	if err == nil {
		t.Fatal("runBuild() succeeded, want error")
	}
	if !strings.Contains(err.Error(), "1 file(s) had errors") {
		t.Errorf("error = %q, want the failure count", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "good.html")); err != nil {
		t.Errorf("good.html missing, want the healthy file compiled: %v", err)
	}
}

func TestCollectRmlFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.rml"), "div\n")
	writeFile(t, filepath.Join(dir, "b.txt"), "not a source\n")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("MkdirAll() error: %v", err)
	}
	writeFile(t, filepath.Join(dir, "nested", "c.rml"), "div\n")

	type tc struct {
		paths []string
		want  []string
	}

	tests := map[string]tc{
		"direct file": {
			paths: []string{filepath.Join(dir, "a.rml")},
			want:  []string{filepath.Join(dir, "a.rml")},
		},
		"directory is not recursive": {
			paths: []string{dir},
			want:  []string{filepath.Join(dir, "a.rml")},
		},
		"recursive pattern": {
			paths: []string{dir + "/..."},
			want: []string{
				filepath.Join(dir, "a.rml"),
				filepath.Join(dir, "nested", "c.rml"),
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := collectRmlFiles(tt.paths)
			if err != nil {
				t.Fatalf("collectRmlFiles() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("collectRmlFiles() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("files[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

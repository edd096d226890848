package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.rml"), `div "ok"`+"\n")

	if err := runCheck([]string{filepath.Join(dir, "good.rml")}); err != nil {
		t.Fatalf("runCheck() error: %v", err)
	}

	writeFile(t, filepath.Join(dir, "bad.rml"), `div :show="missing"`+"\n")
	err := runCheck([]string{dir})
	if err == nil {
		t.Fatal("runCheck() succeeded, want error")
	}
	if !strings.Contains(err.Error(), "1 file(s) had errors") {
		t.Errorf("error = %q, want the failure count", err)
	}
}

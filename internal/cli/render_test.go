package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRenderCommand(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.txt")

	root := NewRootCommand()
	root.SetArgs([]string{
		"render",
		"--form", filepath.Join("testdata", "form.json"),
		"--payload", filepath.Join("testdata", "payload.json"),
		"--template", filepath.Join("testdata", "email.tmpl"),
		"--output", outPath,
	})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	rendered := string(data)
	for _, want := range []string{"Hello Ada,", "a@b.com", "555-0100"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("rendered output missing %q:\n%s", want, rendered)
		}
	}
	if strings.Contains(rendered, "{{") {
		t.Errorf("unresolved tokens left in output:\n%s", rendered)
	}
}

func TestRenderCommand_ItemPayload(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.txt")

	root := NewRootCommand()
	root.SetArgs([]string{
		"render",
		"--form", filepath.Join("testdata", "form.json"),
		"--payload", filepath.Join("testdata", "payload_items.json"),
		"--text", "{{name}} <{{email}}>",
		"--output", outPath,
	})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "Ada Lovelace <a@b.com>" {
		t.Fatalf("rendered = %q", got)
	}
}

func TestRenderCommand_MissingForm(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{
		"render",
		"--form", filepath.Join("testdata", "does-not-exist.json"),
		"--text", "{{x}}",
	})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected error for missing form file")
	}
}

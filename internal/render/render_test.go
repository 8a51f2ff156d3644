package render

import (
	"strings"
	"testing"
)

func TestMarkdownGFM(t *testing.T) {
	out, err := Markdown("# Plan\n\n- [ ] write\n- [x] ship\n\n~~old~~")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"<h1", "Plan</h1>", `type="checkbox"`, "<del>old</del>"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestMarkdownDropsRawHTML(t *testing.T) {
	out, err := Markdown("<script>alert(1)</script>\n\ntext")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("raw html should be omitted:\n%s", out)
	}
}

func TestFencedCodeIsHighlighted(t *testing.T) {
	out, err := Markdown("```go\npackage main\n\nfunc main() {}\n```\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `class="chroma"`) {
		t.Fatalf("expected chroma markup:\n%s", out)
	}
	if !strings.Contains(out, "package") || !strings.Contains(out, "main") {
		t.Fatalf("expected code text in output:\n%s", out)
	}
}

func TestDetectLanguageShebang(t *testing.T) {
	if got := detectLanguage([]byte("#!/bin/bash\necho hi\n")); got != "shell" {
		t.Fatalf("expected shell, got %q", got)
	}
	if got := detectLanguage(nil); got != "" {
		t.Fatalf("expected empty language for empty code, got %q", got)
	}
}

func TestCodeCSS(t *testing.T) {
	if !strings.Contains(CodeCSS(), ".chroma") {
		t.Fatal("expected chroma css rules")
	}
}

package markdown

import (
	"errors"
	"strings"
	"testing"
)

type panicRenderer struct{}

func (panicRenderer) Render(string) (string, error) {
	panic("boom")
}

type failingRenderer struct{}

func (failingRenderer) Render(string) (string, error) {
	return "", errors.New("render failed")
}

func withRenderer(t *testing.T, width int, r renderer) {
	t.Helper()
	rendererMu.Lock()
	prev, hadPrev := renderers[width]
	renderers[width] = r
	rendererMu.Unlock()

	t.Cleanup(func() {
		rendererMu.Lock()
		defer rendererMu.Unlock()
		if hadPrev {
			renderers[width] = prev
		} else {
			delete(renderers, width)
		}
	})
}

func TestRenderRecoversFromRendererPanic(t *testing.T) {
	withRenderer(t, 20, panicRenderer{})

	if out := Render("hello\n", 20, 0); out != "hello" {
		t.Fatalf("expected fallback to original text, got %q", out)
	}
}

func TestRenderWrapsWhenRendererFails(t *testing.T) {
	withRenderer(t, 10, failingRenderer{})

	out := Render("pick up the dry cleaning", 10, 0)
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 10 {
			t.Fatalf("line %q exceeds width in %q", line, out)
		}
	}
}

func TestRenderIndents(t *testing.T) {
	withRenderer(t, 16, failingRenderer{})

	out := Render("call mom\nabout sunday", 20, 4)
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "    ") {
			t.Fatalf("expected every line indented, got %q", out)
		}
	}
}

func TestRenderBlank(t *testing.T) {
	if out := Render(" \r\n\n", 80, 2); out != "" {
		t.Fatalf("expected blank output, got %q", out)
	}
}

func TestRenderMarkdown(t *testing.T) {
	out := Render("- milk\n- eggs", 80, 0)
	if !strings.Contains(out, "milk") || !strings.Contains(out, "eggs") {
		t.Fatalf("expected list items in output, got %q", out)
	}
}

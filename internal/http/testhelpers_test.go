package httpx

import (
	"os"
	"strings"
	"testing"
)

// templatePathFromTest locates the page templates from this package's directory.
const templatePathFromTest = "../../frontend/templates"

// requireTemplateRenderer builds a renderer over the on-disk templates, skipping when they are absent.
func requireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	skipIfNoTemplates(t)
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(templatePathFromTest),
	})
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	return tr
}

func skipIfNoTemplates(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(templatePathFromTest); os.IsNotExist(err) {
		t.Skip("templates not available")
	}
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReportCollectsLines(t *testing.T) {
	r := NewReport("Feature Analysis")
	r.Log("FEATURE: usage")
	r.Log("Count: 42")

	lines := r.Lines()
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}

	md := r.Markdown()
	if !strings.Contains(md, "# Feature Analysis") {
		t.Error("Expected markdown heading")
	}
	if !strings.Contains(md, "Count: 42") {
		t.Error("Expected report line in markdown body")
	}
}

func TestWriterSavesArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "feature_analysis")

	w, err := NewWriter(dir, nil)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	r := NewReport("Feature Analysis")
	r.Log("FEATURE: usage")

	mdPath, htmlPath, err := w.Save(r, "feature_inspection")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("Reading markdown artifact: %v", err)
	}
	if !strings.Contains(string(md), "FEATURE: usage") {
		t.Error("Markdown artifact missing report content")
	}

	html, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("Reading HTML artifact: %v", err)
	}
	if !strings.Contains(string(html), "<html>") && !strings.Contains(string(html), "<!DOCTYPE html>") {
		t.Error("HTML artifact should be a complete page")
	}
	if !strings.Contains(string(html), "FEATURE: usage") {
		t.Error("HTML artifact missing report content")
	}
}

func TestWriterRejectsEmptyDir(t *testing.T) {
	if _, err := NewWriter("", nil); err == nil {
		t.Error("Expected error for empty output directory")
	}
}

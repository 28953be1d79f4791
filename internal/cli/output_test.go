package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		output string
		input  string
		want   string
	}{
		{"", "photos", "photos"},
		{"", "./photos/", "photos"},
		{"", "plan.json", "plan"},
		{"out.pdf", "photos", "out"},
		{"out", "photos", "out"},
		{"dir/out.png", "photos", "dir/out"},
		{"archive.tar", "photos", "archive.tar"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "out")

	err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{
			"pdf":  []byte("%PDF-1.4 fake"),
			"json": []byte(`{"pages":[]}`),
		},
		previews: [][]byte{[]byte("png1"), []byte("png2")},
		formats:  []string{"pdf", "png", "json"},
		input:    "photos",
		output:   base,
	})
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}

	for _, name := range []string{"out.pdf", "out.json", "out_page1.png", "out_page2.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}

func TestWriteArtifactsExplicitSingleOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "exact-name.pdf")

	err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"pdf": []byte("%PDF")},
		formats:   []string{"pdf"},
		input:     "photos",
		output:    out,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("expected %s to exist: %v", out, err)
	}
}

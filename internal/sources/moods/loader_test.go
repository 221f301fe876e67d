package moods

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	got := Default()
	if len(got) != 8 {
		t.Fatalf("Default() returned %d moods, want 8", len(got))
	}
	if got[0].Name != "Anxious" || got[0].Emoji != "😰" {
		t.Errorf("first mood = %+v, want Anxious 😰", got[0])
	}
	if got[7].ID != 8 || got[7].Name != "Betrayed" {
		t.Errorf("last mood = %+v, want 8 Betrayed", got[7])
	}
}

func TestLoaderLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moods.yaml")
	content := `moods:
  - id: 1
    name: Joyful
    emoji: "😄"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	got, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "Joyful" {
		t.Errorf("Load() = %+v", got)
	}
}

func TestLoaderEmptyPathUsesDefault(t *testing.T) {
	got, err := NewLoader("").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != len(Default()) {
		t.Errorf("Load() returned %d moods, want %d", len(got), len(Default()))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "invalid yaml", yaml: "moods: [::"},
		{name: "empty", yaml: "moods: []"},
		{name: "missing name", yaml: "moods:\n  - id: 1\n"},
		{name: "duplicate id", yaml: "moods:\n  - {id: 1, name: A}\n  - {id: 1, name: B}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("Parse() error = nil, want error")
			}
		})
	}
}

func TestLoaderMissingFile(t *testing.T) {
	if _, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml")).Load(); err == nil {
		t.Error("Load() error = nil, want error")
	}
}

// Package moods loads the mood catalog shown by the mood picker.
package moods

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/fellowship/internal/domain"
)

//go:embed moods.yaml
var defaultCatalog []byte

// catalogFile is the top-level structure of a moods YAML file.
type catalogFile struct {
	Moods []domain.Mood `yaml:"moods"`
}

// Loader reads the catalog from filePath, or the built-in one when empty.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

func (l *Loader) Load() ([]domain.Mood, error) {
	data := defaultCatalog
	if l.filePath != "" {
		var err error
		if data, err = os.ReadFile(l.filePath); err != nil {
			return nil, fmt.Errorf("failed to read moods file: %w", err)
		}
	}
	return Parse(data)
}

// Parse decodes a catalog and checks ids are positive and unique.
func Parse(data []byte) ([]domain.Mood, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse moods yaml: %w", err)
	}
	if len(cf.Moods) == 0 {
		return nil, fmt.Errorf("moods catalog is empty")
	}

	seen := make(map[int]struct{}, len(cf.Moods))
	for _, m := range cf.Moods {
		if m.ID <= 0 || m.Name == "" {
			return nil, fmt.Errorf("mood %+v: id and name are required", m)
		}
		if _, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("duplicate mood id %d", m.ID)
		}
		seen[m.ID] = struct{}{}
	}
	return cf.Moods, nil
}

// Default returns the built-in catalog.
func Default() []domain.Mood {
	m, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in moods catalog: %v", err))
	}
	return m
}

package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"museum-backend/domain/catalog"
	"museum-backend/domain/core/entities"
)

//go:embed themes.yaml
var embeddedThemes []byte

// ThemeFile is the document format of the theme catalog
type ThemeFile struct {
	Themes  []catalog.ThemeDescriptor `yaml:"themes"`
	Sources []SourceSeed              `yaml:"sources"`
}

// SourceSeed is a source artifact preloaded into the memory store
type SourceSeed struct {
	ID              string                   `yaml:"id"`
	Name            string                   `yaml:"name"`
	Description     string                   `yaml:"description"`
	CurrentImageSet string                   `yaml:"currentImageSet"`
	ImageSets       []map[string]interface{} `yaml:"imageSets"`
	OnType          string                   `yaml:"onType"`
}

// Artifact converts the seed to a domain source artifact
func (s SourceSeed) Artifact() entities.SourceArtifact {
	sets := make([]entities.ImageSet, 0, len(s.ImageSets))
	for _, set := range s.ImageSets {
		sets = append(sets, entities.ImageSet(set))
	}
	return entities.SourceArtifact{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		CurrentImageSet: s.CurrentImageSet,
		ImageSets:       sets,
		OnType:          entities.OnType(s.OnType),
	}
}

// LoadThemeFile reads the catalog document at path, or the embedded default when path is empty
func LoadThemeFile(path string) (*ThemeFile, error) {
	data := embeddedThemes
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read theme catalog %s: %w", path, err)
		}
		data = b
	}
	return ParseThemeFile(data)
}

// ParseThemeFile decodes a catalog document
func ParseThemeFile(data []byte) (*ThemeFile, error) {
	var f ThemeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse theme catalog: %w", err)
	}
	return &f, nil
}

// Catalog builds the validated theme catalog
func (f *ThemeFile) Catalog() (*catalog.Catalog, error) {
	return catalog.New(f.Themes)
}

// SourceArtifacts returns the seeds as domain artifacts
func (f *ThemeFile) SourceArtifacts() []entities.SourceArtifact {
	out := make([]entities.SourceArtifact, 0, len(f.Sources))
	for _, s := range f.Sources {
		out = append(out, s.Artifact())
	}
	return out
}

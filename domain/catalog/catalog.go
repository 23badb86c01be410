// Package catalog holds the process-wide theme enumeration and the
// default-object template each theme hands to newly onboarded users.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"museum-backend/domain/core/valueobjects"
)

// ThemeStatus describes whether a theme's default object can be materialized
type ThemeStatus string

const (
	StatusFinalized    ThemeStatus = "finalized"
	StatusPlaceholder  ThemeStatus = "placeholder"
	StatusUnknownTheme ThemeStatus = "unknown_theme"
)

// ThemeDescriptor is the curated description of one theme
type ThemeDescriptor struct {
	ID              valueobjects.ThemeID               `json:"id" yaml:"id"`
	Name            string                             `json:"name" yaml:"name"`
	Characteristics []string                           `json:"characteristics" yaml:"characteristics"`
	Description     string                             `json:"description" yaml:"description"`
	DefaultTemplate valueobjects.DefaultObjectTemplate `json:"-" yaml:"defaultTemplate"`
}

// Catalog is an immutable set of themes keyed by id. It is safe for concurrent readers.
type Catalog struct {
	themes  map[valueobjects.ThemeID]ThemeDescriptor
	choices []valueobjects.ThemeID
}

// New validates the descriptors and builds a catalog
func New(descriptors []ThemeDescriptor) (*Catalog, error) {
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("theme catalog is empty")
	}

	c := &Catalog{
		themes:  make(map[valueobjects.ThemeID]ThemeDescriptor, len(descriptors)),
		choices: make([]valueobjects.ThemeID, 0, len(descriptors)),
	}

	for _, d := range descriptors {
		if d.ID <= 0 {
			return nil, fmt.Errorf("theme %q has non-positive id %d", d.Name, d.ID)
		}
		if _, dup := c.themes[d.ID]; dup {
			return nil, fmt.Errorf("duplicate theme id %d", d.ID)
		}
		if strings.TrimSpace(d.Name) == "" {
			return nil, fmt.Errorf("theme %d has no name", d.ID)
		}
		if strings.TrimSpace(d.DefaultTemplate.SourceArtifactRef) == "" {
			return nil, fmt.Errorf("theme %d has no default object source reference", d.ID)
		}

		// Copy slices and maps so later mutation of the input cannot leak in
		d.Characteristics = append([]string(nil), d.Characteristics...)
		if d.DefaultTemplate.AdditionalData != nil {
			data := make(map[string]interface{}, len(d.DefaultTemplate.AdditionalData))
			for k, v := range d.DefaultTemplate.AdditionalData {
				data[k] = v
			}
			d.DefaultTemplate.AdditionalData = data
		}

		c.themes[d.ID] = d
		c.choices = append(c.choices, d.ID)
	}

	sort.Slice(c.choices, func(i, j int) bool { return c.choices[i] < c.choices[j] })
	return c, nil
}

// Lookup returns the descriptor for a theme id
func (c *Catalog) Lookup(id valueobjects.ThemeID) (ThemeDescriptor, bool) {
	d, ok := c.themes[id]
	return d, ok
}

// Contains reports whether the id is a member of the enumeration
func (c *Catalog) Contains(id valueobjects.ThemeID) bool {
	_, ok := c.themes[id]
	return ok
}

// Status classifies a theme's default-object template
func (c *Catalog) Status(id valueobjects.ThemeID) ThemeStatus {
	d, ok := c.themes[id]
	switch {
	case !ok:
		return StatusUnknownTheme
	case d.DefaultTemplate.IsPlaceholder():
		return StatusPlaceholder
	default:
		return StatusFinalized
	}
}

// IsFinalized reports whether the theme's default object is production-ready
func (c *Catalog) IsFinalized(id valueobjects.ThemeID) bool {
	return c.Status(id) == StatusFinalized
}

// ValidChoices returns the theme ids in ascending order
func (c *Catalog) ValidChoices() []valueobjects.ThemeID {
	return append([]valueobjects.ThemeID(nil), c.choices...)
}

// Themes returns every descriptor in ascending id order
func (c *Catalog) Themes() []ThemeDescriptor {
	out := make([]ThemeDescriptor, 0, len(c.choices))
	for _, id := range c.choices {
		out = append(out, c.themes[id])
	}
	return out
}

// Len returns the number of themes
func (c *Catalog) Len() int {
	return len(c.choices)
}

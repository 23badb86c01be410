package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"museum-backend/domain/core/valueobjects"
)

func testDescriptors() []ThemeDescriptor {
	return []ThemeDescriptor{
		{
			ID:              3,
			Name:            "Warm Hearth",
			Characteristics: []string{"warm", "cozy"},
			DefaultTemplate: valueobjects.DefaultObjectTemplate{SourceArtifactRef: "src3"},
		},
		{
			ID:              5,
			Name:            "Quiet Study",
			Characteristics: []string{"calm"},
			DefaultTemplate: valueobjects.DefaultObjectTemplate{SourceArtifactRef: "PLACEHOLDER_THEME_5"},
		},
		{
			ID:              1,
			Name:            "Bright Atrium",
			DefaultTemplate: valueobjects.DefaultObjectTemplate{SourceArtifactRef: "src1"},
		},
	}
}

func TestCatalog_Status(t *testing.T) {
	c, err := New(testDescriptors())
	require.NoError(t, err)

	assert.Equal(t, StatusFinalized, c.Status(3))
	assert.Equal(t, StatusPlaceholder, c.Status(5))
	assert.Equal(t, StatusUnknownTheme, c.Status(42))

	assert.True(t, c.IsFinalized(3))
	assert.False(t, c.IsFinalized(5))
	assert.False(t, c.IsFinalized(42))
}

func TestCatalog_LookupAndChoices(t *testing.T) {
	c, err := New(testDescriptors())
	require.NoError(t, err)

	d, ok := c.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, "Warm Hearth", d.Name)

	_, ok = c.Lookup(2)
	assert.False(t, ok)

	assert.Equal(t, []valueobjects.ThemeID{1, 3, 5}, c.ValidChoices())
	assert.Equal(t, 3, c.Len())
	assert.True(t, c.Contains(1))
	assert.False(t, c.Contains(0))
}

func TestCatalog_IsImmutable(t *testing.T) {
	descs := testDescriptors()
	descs[0].DefaultTemplate.AdditionalData = map[string]interface{}{"k": "v"}
	c, err := New(descs)
	require.NoError(t, err)

	descs[0].Characteristics[0] = "mutated"
	descs[0].DefaultTemplate.AdditionalData["k"] = "mutated"
	choices := c.ValidChoices()
	choices[0] = 99

	d, _ := c.Lookup(3)
	assert.Equal(t, "warm", d.Characteristics[0])
	assert.Equal(t, "v", d.DefaultTemplate.AdditionalData["k"])
	assert.Equal(t, valueobjects.ThemeID(1), c.ValidChoices()[0])
}

func TestNew_RejectsInvalidCatalogs(t *testing.T) {
	tests := []struct {
		name  string
		descs []ThemeDescriptor
	}{
		{"empty", nil},
		{"non-positive id", []ThemeDescriptor{{ID: 0, Name: "x", DefaultTemplate: valueobjects.DefaultObjectTemplate{SourceArtifactRef: "s"}}}},
		{"duplicate id", []ThemeDescriptor{
			{ID: 1, Name: "a", DefaultTemplate: valueobjects.DefaultObjectTemplate{SourceArtifactRef: "s"}},
			{ID: 1, Name: "b", DefaultTemplate: valueobjects.DefaultObjectTemplate{SourceArtifactRef: "s"}},
		}},
		{"missing name", []ThemeDescriptor{{ID: 1, DefaultTemplate: valueobjects.DefaultObjectTemplate{SourceArtifactRef: "s"}}}},
		{"missing source ref", []ThemeDescriptor{{ID: 1, Name: "a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.descs)
			assert.Error(t, err)
		})
	}
}

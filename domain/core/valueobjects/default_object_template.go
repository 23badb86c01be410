package valueobjects

import "strings"

// PlaceholderPrefix marks a source artifact reference the curator has not filled in yet
const PlaceholderPrefix = "PLACEHOLDER_"

// Coordinates places an artifact in the museum room
type Coordinates struct {
	X float64 `json:"x" dynamodbav:"x" yaml:"x"`
	Y float64 `json:"y" dynamodbav:"y" yaml:"y"`
}

// DefaultObjectTemplate describes the starter artifact a theme gives a new user
type DefaultObjectTemplate struct {
	SourceArtifactRef string                 `json:"sourceArtifactRef" yaml:"sourceArtifactRef"`
	Coordinates       Coordinates            `json:"coordinates" yaml:"coordinates"`
	IsReversed        bool                   `json:"isReversed" yaml:"isReversed"`
	ItemFunction      ItemFunction           `json:"itemFunction" yaml:"itemFunction"`
	AdditionalData    map[string]interface{} `json:"additionalData,omitempty" yaml:"additionalData"`
}

// IsPlaceholder reports whether the template still carries the curator sentinel.
// This is the only place the sentinel prefix is inspected.
func (t DefaultObjectTemplate) IsPlaceholder() bool {
	return strings.HasPrefix(t.SourceArtifactRef, PlaceholderPrefix)
}

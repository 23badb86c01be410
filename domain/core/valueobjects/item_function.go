package valueobjects

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ItemFunction describes what a placed artifact does when a visitor interacts with it
type ItemFunction string

const (
	ItemFunctionNone  ItemFunction = ""
	ItemFunctionLink  ItemFunction = "Link"
	ItemFunctionBoard ItemFunction = "Board"
)

// ParseItemFunction parses the curator spelling of an item function.
// Empty, "none" and "null" all mean no function.
func ParseItemFunction(s string) (ItemFunction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "null":
		return ItemFunctionNone, nil
	case "link":
		return ItemFunctionLink, nil
	case "board":
		return ItemFunctionBoard, nil
	default:
		return ItemFunctionNone, fmt.Errorf("unknown item function %q", s)
	}
}

// IsNone reports whether the artifact carries no function
func (f ItemFunction) IsNone() bool {
	return f == ItemFunctionNone
}

// String returns the stored spelling, "None" for the empty function
func (f ItemFunction) String() string {
	if f.IsNone() {
		return "None"
	}
	return string(f)
}

// MarshalJSON encodes None as null
func (f ItemFunction) MarshalJSON() ([]byte, error) {
	if f.IsNone() {
		return []byte("null"), nil
	}
	return json.Marshal(string(f))
}

// UnmarshalJSON implements json.Unmarshaler
func (f *ItemFunction) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ItemFunctionNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("item function must be a string: %w", err)
	}
	parsed, err := ParseItemFunction(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// UnmarshalText lets YAML and env decoders share the parser
func (f *ItemFunction) UnmarshalText(text []byte) error {
	parsed, err := ParseItemFunction(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

package valueobjects

import (
	"errors"
	"strconv"
)

// ThemeID identifies one member of the closed theme enumeration.
// Theme ids are small positive integers assigned by the catalog curator.
type ThemeID int

// NewThemeID creates a ThemeID from an integer
func NewThemeID(v int) (ThemeID, error) {
	if v <= 0 {
		return 0, errors.New("theme ID must be a positive integer")
	}
	return ThemeID(v), nil
}

// Int returns the integer value of the ThemeID
func (id ThemeID) Int() int {
	return int(id)
}

// String returns the decimal representation of the ThemeID
func (id ThemeID) String() string {
	return strconv.Itoa(int(id))
}

// IsZero checks if the ThemeID is the zero value
func (id ThemeID) IsZero() bool {
	return id == 0
}

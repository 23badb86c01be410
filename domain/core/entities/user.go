package entities

// User is the subset of a museum user that onboarding touches
type User struct {
	ID                string   `json:"id"`
	ModifiedObjectIDs []string `json:"modifiedObjectIds"`
}

// HasModifiedObject reports whether the artifact is already in the user's set
func (u *User) HasModifiedObject(artifactID string) bool {
	for _, id := range u.ModifiedObjectIDs {
		if id == artifactID {
			return true
		}
	}
	return false
}

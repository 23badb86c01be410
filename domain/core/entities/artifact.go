package entities

import (
	"errors"
	"time"

	"museum-backend/domain/core/valueobjects"
)

// OnType names the surface of the room an artifact is hung on
type OnType string

const (
	OnTypeLeftWall  OnType = "LeftWall"
	OnTypeRightWall OnType = "RightWall"
	OnTypeFloor     OnType = "Floor"
)

// ImageSet is one curator-supplied rendition of an artifact. Its contents are opaque to the backend.
type ImageSet map[string]interface{}

// Provenance keys written into AdditionalData of every default object
const (
	ProvenanceOriginalObjectID = "originalObjectId"
	ProvenanceUserID           = "userId"
	ProvenanceCreatedByTheme   = "createdByTheme"
	ProvenanceIsDefaultObject  = "isDefaultObject"
)

// SourceArtifact is a curator-owned artifact that default objects are cloned from
type SourceArtifact struct {
	ID              string     `json:"id" dynamodbav:"ID"`
	Name            string     `json:"name" dynamodbav:"Name"`
	Description     string     `json:"description" dynamodbav:"Description"`
	CurrentImageSet string     `json:"currentImageSet" dynamodbav:"CurrentImageSet"`
	ImageSets       []ImageSet `json:"imageSets" dynamodbav:"ImageSets"`
	OnType          OnType     `json:"onType" dynamodbav:"OnType"`
}

// ModifiedArtifact is a user-owned placement of an artifact in their museum
type ModifiedArtifact struct {
	ID string `json:"id"`

	// Display fields copied from the source artifact
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	CurrentImageSet string     `json:"currentImageSet"`
	ImageSets       []ImageSet `json:"imageSets"`
	OnType          OnType     `json:"onType"`
	IsUserMade      bool       `json:"isUserMade"`

	// Modification fields from the template
	Coordinates    valueobjects.Coordinates  `json:"coordinates"`
	IsReversed     bool                      `json:"isReversed"`
	ItemFunction   valueobjects.ItemFunction `json:"itemFunction"`
	AdditionalData map[string]interface{}    `json:"additionalData"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewDefaultModifiedArtifact builds the starter artifact for a user assigned to a theme.
// Template additional data is copied first, then the provenance keys are written over it.
func NewDefaultModifiedArtifact(
	themeID valueobjects.ThemeID,
	userID string,
	source *SourceArtifact,
	template valueobjects.DefaultObjectTemplate,
	now time.Time,
) (*ModifiedArtifact, error) {
	if source == nil {
		return nil, errors.New("source artifact is required")
	}
	if source.ID == "" {
		return nil, errors.New("source artifact has no ID")
	}
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	additional := make(map[string]interface{}, len(template.AdditionalData)+4)
	for k, v := range template.AdditionalData {
		additional[k] = v
	}
	additional[ProvenanceOriginalObjectID] = source.ID
	additional[ProvenanceUserID] = userID
	additional[ProvenanceCreatedByTheme] = themeID.Int()
	additional[ProvenanceIsDefaultObject] = true

	return &ModifiedArtifact{
		Name:            source.Name,
		Description:     source.Description,
		CurrentImageSet: source.CurrentImageSet,
		ImageSets:       source.ImageSets,
		OnType:          source.OnType,
		IsUserMade:      false,
		Coordinates:     template.Coordinates,
		IsReversed:      template.IsReversed,
		ItemFunction:    template.ItemFunction,
		AdditionalData:  additional,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// IsDefaultObject reports whether the artifact was created by theme onboarding
func (a *ModifiedArtifact) IsDefaultObject() bool {
	v, ok := a.AdditionalData[ProvenanceIsDefaultObject].(bool)
	return ok && v
}

// OriginalObjectID returns the source artifact id recorded in provenance
func (a *ModifiedArtifact) OriginalObjectID() string {
	v, _ := a.AdditionalData[ProvenanceOriginalObjectID].(string)
	return v
}

package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"museum-backend/application/ports"
	"museum-backend/domain/core/entities"
	"museum-backend/domain/core/valueobjects"
)

// ArtifactRepository implements ports.ArtifactRepository on DynamoDB
type ArtifactRepository struct {
	client    API
	tableName string
	logger    *zap.Logger
	newID     func() string
}

// NewArtifactRepository creates a new DynamoDB artifact repository
func NewArtifactRepository(client API, tableName string, logger *zap.Logger) *ArtifactRepository {
	return &ArtifactRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
		newID:     func() string { return uuid.New().String() },
	}
}

var _ ports.ArtifactRepository = (*ArtifactRepository)(nil)

type sourceItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	entities.SourceArtifact
}

type modifiedItem struct {
	PK               string                   `dynamodbav:"PK"`
	SK               string                   `dynamodbav:"SK"`
	EntityType       string                   `dynamodbav:"EntityType"`
	ID               string                   `dynamodbav:"ID"`
	OriginalObjectID string                   `dynamodbav:"OriginalObjectID,omitempty"`
	Name             string                   `dynamodbav:"Name"`
	Description      string                   `dynamodbav:"Description"`
	CurrentImageSet  string                   `dynamodbav:"CurrentImageSet"`
	ImageSets        []entities.ImageSet      `dynamodbav:"ImageSets"`
	OnType           string                   `dynamodbav:"OnType"`
	IsUserMade       bool                     `dynamodbav:"IsUserMade"`
	Coordinates      valueobjects.Coordinates `dynamodbav:"Coordinates"`
	IsReversed       bool                     `dynamodbav:"IsReversed"`
	ItemFunction     string                   `dynamodbav:"ItemFunction,omitempty"`
	AdditionalData   map[string]interface{}   `dynamodbav:"AdditionalData,omitempty"`
	CreatedAt        string                   `dynamodbav:"CreatedAt"`
	UpdatedAt        string                   `dynamodbav:"UpdatedAt"`
}

// FindSourceByID loads a source artifact. A missing item yields (nil, nil).
func (r *ArtifactRepository) FindSourceByID(ctx context.Context, id string) (*entities.SourceArtifact, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       sourceKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get source artifact %s: %w", id, err)
	}
	if len(result.Item) == 0 {
		return nil, nil
	}

	var item sourceItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal source artifact %s: %w", id, err)
	}
	source := item.SourceArtifact
	if source.ID == "" {
		source.ID = id
	}
	return &source, nil
}

// CreateModified writes a new modified artifact under a fresh id. The write never overwrites an existing item.
func (r *ArtifactRepository) CreateModified(ctx context.Context, artifact *entities.ModifiedArtifact) (string, error) {
	if artifact == nil {
		return "", fmt.Errorf("artifact is required")
	}
	id := artifact.ID
	if id == "" {
		id = r.newID()
	}

	item := modifiedItem{
		PK:               modifiedPrefix + id,
		SK:               modifiedSK,
		EntityType:       "MODIFIED_OBJECT",
		ID:               id,
		OriginalObjectID: artifact.OriginalObjectID(),
		Name:             artifact.Name,
		Description:      artifact.Description,
		CurrentImageSet:  artifact.CurrentImageSet,
		ImageSets:        artifact.ImageSets,
		OnType:           string(artifact.OnType),
		IsUserMade:       artifact.IsUserMade,
		Coordinates:      artifact.Coordinates,
		IsReversed:       artifact.IsReversed,
		ItemFunction:     string(artifact.ItemFunction),
		AdditionalData:   artifact.AdditionalData,
		CreatedAt:        artifact.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        artifact.UpdatedAt.UTC().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return "", fmt.Errorf("failed to marshal modified artifact: %w", err)
	}

	cond := expression.AttributeNotExists(expression.Name("PK"))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return "", fmt.Errorf("failed to build condition: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return "", fmt.Errorf("modified artifact %s already exists", id)
		}
		return "", fmt.Errorf("failed to put modified artifact: %w", err)
	}

	r.logger.Debug("modified artifact created",
		zap.String("artifactID", id),
		zap.String("originalObjectID", item.OriginalObjectID),
	)
	return id, nil
}

// FindModifiedByID loads a modified artifact. A missing item yields (nil, nil).
func (r *ArtifactRepository) FindModifiedByID(ctx context.Context, id string) (*entities.ModifiedArtifact, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       modifiedKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get modified artifact %s: %w", id, err)
	}
	if len(result.Item) == 0 {
		return nil, nil
	}

	var item modifiedItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal modified artifact %s: %w", id, err)
	}

	fn, err := valueobjects.ParseItemFunction(item.ItemFunction)
	if err != nil {
		return nil, err
	}
	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	return &entities.ModifiedArtifact{
		ID:              item.ID,
		Name:            item.Name,
		Description:     item.Description,
		CurrentImageSet: item.CurrentImageSet,
		ImageSets:       item.ImageSets,
		OnType:          entities.OnType(item.OnType),
		IsUserMade:      item.IsUserMade,
		Coordinates:     item.Coordinates,
		IsReversed:      item.IsReversed,
		ItemFunction:    fn,
		AdditionalData:  item.AdditionalData,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}, nil
}

package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"museum-backend/application/ports"
	"museum-backend/domain/core/entities"
	pkgerrors "museum-backend/pkg/errors"
)

// UserRepository implements ports.UserRepository on DynamoDB
type UserRepository struct {
	client    API
	tableName string
	logger    *zap.Logger
}

// NewUserRepository creates a new DynamoDB user repository
func NewUserRepository(client API, tableName string, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

var _ ports.UserRepository = (*UserRepository)(nil)

type userItem struct {
	PK                string   `dynamodbav:"PK"`
	SK                string   `dynamodbav:"SK"`
	ID                string   `dynamodbav:"ID"`
	ModifiedObjectIDs []string `dynamodbav:"ModifiedObjectIDs,stringset,omitempty"`
}

// AddModifiedObjectID unions the artifact id into the user's string set in a single UpdateItem.
// The user item must already exist.
func (r *UserRepository) AddModifiedObjectID(ctx context.Context, userID, artifactID string) error {
	if userID == "" || artifactID == "" {
		return fmt.Errorf("user id and artifact id are required")
	}

	update := expression.Add(expression.Name("ModifiedObjectIDs"), expression.Value(stringSet{artifactID}))
	cond := expression.AttributeExists(expression.Name("PK"))
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       userKey(userID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewUserNotFoundError(userID)
		}
		return fmt.Errorf("failed to add modified object to user %s: %w", userID, err)
	}

	r.logger.Debug("modified object linked to user",
		zap.String("userID", userID),
		zap.String("artifactID", artifactID),
	)
	return nil
}

// FindByID loads the onboarding view of a user. A missing item yields (nil, nil).
func (r *UserRepository) FindByID(ctx context.Context, userID string) (*entities.User, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       userKey(userID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	if len(result.Item) == 0 {
		return nil, nil
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user %s: %w", userID, err)
	}
	return &entities.User{ID: userID, ModifiedObjectIDs: item.ModifiedObjectIDs}, nil
}

package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Key prefixes for the single-table layout
const (
	sourcePrefix   = "OBJECT#"
	sourceSortKey  = "SOURCE"
	modifiedPrefix = "MODIFIED#"
	modifiedSK     = "MODIFIED"
	userPrefix     = "USER#"
	userProfileSK  = "PROFILE"
	lockPrefix     = "LOCK#"
	lockSortKey    = "LOCK"
)

// API is the subset of the DynamoDB client the repositories use
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

var _ API = (*dynamodb.Client)(nil)

func keyOf(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

func sourceKey(id string) map[string]types.AttributeValue {
	return keyOf(sourcePrefix+id, sourceSortKey)
}

func modifiedKey(id string) map[string]types.AttributeValue {
	return keyOf(modifiedPrefix+id, modifiedSK)
}

func userKey(id string) map[string]types.AttributeValue {
	return keyOf(userPrefix+id, userProfileSK)
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// stringSet marshals as a DynamoDB string set so ADD performs a set union
type stringSet []string

func (s stringSet) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("string set must not be empty")
	}
	return &types.AttributeValueMemberSS{Value: []string(s)}, nil
}

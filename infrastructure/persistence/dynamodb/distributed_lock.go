package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"museum-backend/application/ports"
)

// DistributedLock provides short-lived locks using DynamoDB conditional writes.
// An expired lock can be taken over by the next caller.
type DistributedLock struct {
	client    API
	tableName string
	logger    *zap.Logger
	now       func() time.Time
}

// LockRecord represents a lock record in DynamoDB
type LockRecord struct {
	PK         string `dynamodbav:"PK"`    // LOCK#<resource_name>
	SK         string `dynamodbav:"SK"`    // LOCK
	Owner      string `dynamodbav:"Owner"` // Lock owner identifier
	AcquiredAt string `dynamodbav:"AcquiredAt"`
	ExpiresAt  int64  `dynamodbav:"ExpiresAt"` // Unix seconds
	TTL        int64  `dynamodbav:"TTL"`       // Unix timestamp for DynamoDB TTL
}

// NewDistributedLock creates a new distributed lock instance
func NewDistributedLock(client API, tableName string, logger *zap.Logger) *DistributedLock {
	return &DistributedLock{
		client:    client,
		tableName: tableName,
		logger:    logger,
		now:       time.Now,
	}
}

var _ ports.UserLock = (*DistributedLock)(nil)

// AcquireLock attempts to take the lock for resource. It returns false without error when someone else holds it.
func (dl *DistributedLock) AcquireLock(ctx context.Context, resource, owner string, duration time.Duration) (bool, error) {
	now := dl.now().UTC()
	expiresAt := now.Add(duration)

	av, err := attributevalue.MarshalMap(LockRecord{
		PK:         lockPrefix + resource,
		SK:         lockSortKey,
		Owner:      owner,
		AcquiredAt: now.Format(time.RFC3339),
		ExpiresAt:  expiresAt.Unix(),
		// Keep the item around a little past expiry so takeover stays conditional
		TTL: expiresAt.Add(time.Hour).Unix(),
	})
	if err != nil {
		return false, fmt.Errorf("failed to marshal lock record: %w", err)
	}

	cond := expression.Or(
		expression.AttributeNotExists(expression.Name("PK")),
		expression.Name("ExpiresAt").LessThan(expression.Value(now.Unix())),
	)
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return false, fmt.Errorf("failed to build lock condition: %w", err)
	}

	_, err = dl.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(dl.tableName),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			dl.logger.Debug("lock already held",
				zap.String("resource", resource),
				zap.String("owner", owner),
			)
			return false, nil
		}
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}

	dl.logger.Debug("lock acquired",
		zap.String("resource", resource),
		zap.String("owner", owner),
		zap.Duration("duration", duration),
	)
	return true, nil
}

// ReleaseLock deletes the lock if owner still holds it. A lock that is gone or taken over is not an error.
func (dl *DistributedLock) ReleaseLock(ctx context.Context, resource, owner string) error {
	cond := expression.Name("Owner").Equal(expression.Value(owner))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build release condition: %w", err)
	}

	_, err = dl.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(dl.tableName),
		Key:                       keyOf(lockPrefix+resource, lockSortKey),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			dl.logger.Warn("lock already released or owned by someone else",
				zap.String("resource", resource),
				zap.String("owner", owner),
			)
			return nil
		}
		return fmt.Errorf("failed to release lock: %w", err)
	}

	dl.logger.Debug("lock released",
		zap.String("resource", resource),
		zap.String("owner", owner),
	)
	return nil
}

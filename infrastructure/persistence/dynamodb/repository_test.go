package dynamodb

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"museum-backend/domain/core/entities"
	"museum-backend/domain/core/valueobjects"
	pkgerrors "museum-backend/pkg/errors"
)

type fakeDynamo struct {
	getOut *dynamodb.GetItemOutput
	err    error

	gets    []*dynamodb.GetItemInput
	puts    []*dynamodb.PutItemInput
	updates []*dynamodb.UpdateItemInput
	deletes []*dynamodb.DeleteItemInput
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.gets = append(f.gets, in)
	if f.err != nil {
		return nil, f.err
	}
	if f.getOut == nil {
		return &dynamodb.GetItemOutput{}, nil
	}
	return f.getOut, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.puts = append(f.puts, in)
	return &dynamodb.PutItemOutput{}, f.err
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updates = append(f.updates, in)
	return &dynamodb.UpdateItemOutput{}, f.err
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.deletes = append(f.deletes, in)
	return &dynamodb.DeleteItemOutput{}, f.err
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: stringPtr("conditional request failed")}
}

func stringPtr(s string) *string { return &s }

func attrString(t *testing.T, item map[string]types.AttributeValue, name string) string {
	t.Helper()
	v, ok := item[name].(*types.AttributeValueMemberS)
	require.True(t, ok, "attribute %s is not a string", name)
	return v.Value
}

func TestArtifactRepository_FindSourceByID(t *testing.T) {
	item, err := attributevalue.MarshalMap(sourceItem{
		PK:         "OBJECT#lamp-01",
		SK:         "SOURCE",
		EntityType: "SOURCE_OBJECT",
		SourceArtifact: entities.SourceArtifact{
			ID:              "lamp-01",
			Name:            "Brass Lamp",
			CurrentImageSet: "default",
			ImageSets:       []entities.ImageSet{{"name": "default", "url": "lamp.png"}},
			OnType:          entities.OnTypeFloor,
		},
	})
	require.NoError(t, err)

	fake := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: item}}
	repo := NewArtifactRepository(fake, "artifacts", zap.NewNop())

	source, err := repo.FindSourceByID(context.Background(), "lamp-01")

	require.NoError(t, err)
	require.NotNil(t, source)
	assert.Equal(t, "Brass Lamp", source.Name)
	assert.Equal(t, entities.OnTypeFloor, source.OnType)
	require.Len(t, source.ImageSets, 1)
	assert.Equal(t, "lamp.png", source.ImageSets[0]["url"])
	assert.Equal(t, "OBJECT#lamp-01", attrString(t, fake.gets[0].Key, "PK"))
	assert.Equal(t, "SOURCE", attrString(t, fake.gets[0].Key, "SK"))
}

func TestArtifactRepository_FindSourceByID_Missing(t *testing.T) {
	repo := NewArtifactRepository(&fakeDynamo{}, "artifacts", zap.NewNop())

	source, err := repo.FindSourceByID(context.Background(), "nope")

	require.NoError(t, err)
	assert.Nil(t, source)
}

func TestArtifactRepository_FindSourceByID_StoreError(t *testing.T) {
	repo := NewArtifactRepository(&fakeDynamo{err: errors.New("throttled")}, "artifacts", zap.NewNop())

	_, err := repo.FindSourceByID(context.Background(), "lamp-01")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestArtifactRepository_CreateModified(t *testing.T) {
	fake := &fakeDynamo{}
	repo := NewArtifactRepository(fake, "artifacts", zap.NewNop())
	repo.newID = func() string { return "mod-1" }

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	artifact, err := entities.NewDefaultModifiedArtifact(
		valueobjects.ThemeID(2), "user-1",
		&entities.SourceArtifact{ID: "lamp-01", Name: "Brass Lamp", OnType: entities.OnTypeFloor},
		valueobjects.DefaultObjectTemplate{SourceArtifactRef: "lamp-01", Coordinates: valueobjects.Coordinates{X: 1.5, Y: 2}},
		now,
	)
	require.NoError(t, err)

	id, err := repo.CreateModified(context.Background(), artifact)

	require.NoError(t, err)
	assert.Equal(t, "mod-1", id)
	require.Len(t, fake.puts, 1)
	put := fake.puts[0]
	assert.Equal(t, "MODIFIED#mod-1", attrString(t, put.Item, "PK"))
	assert.Equal(t, "lamp-01", attrString(t, put.Item, "OriginalObjectID"))
	assert.Equal(t, "2026-03-01T12:00:00Z", attrString(t, put.Item, "CreatedAt"))
	assert.NotContains(t, put.Item, "ItemFunction")
	assert.Contains(t, put.Item, "AdditionalData")
	require.NotNil(t, put.ConditionExpression)
	assert.Contains(t, *put.ConditionExpression, "attribute_not_exists")
}

func TestArtifactRepository_CreateModified_Conflict(t *testing.T) {
	repo := NewArtifactRepository(&fakeDynamo{err: conditionFailed()}, "artifacts", zap.NewNop())

	_, err := repo.CreateModified(context.Background(), &entities.ModifiedArtifact{ID: "dup"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestUserRepository_AddModifiedObjectID(t *testing.T) {
	fake := &fakeDynamo{}
	repo := NewUserRepository(fake, "users", zap.NewNop())

	require.NoError(t, repo.AddModifiedObjectID(context.Background(), "user-1", "mod-1"))

	require.Len(t, fake.updates, 1)
	in := fake.updates[0]
	assert.Equal(t, "USER#user-1", attrString(t, in.Key, "PK"))
	require.NotNil(t, in.UpdateExpression)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(*in.UpdateExpression), "ADD "))
	require.NotNil(t, in.ConditionExpression)
	assert.Contains(t, *in.ConditionExpression, "attribute_exists")

	var sets []string
	for _, v := range in.ExpressionAttributeValues {
		if ss, ok := v.(*types.AttributeValueMemberSS); ok {
			sets = append(sets, ss.Value...)
		}
	}
	assert.Equal(t, []string{"mod-1"}, sets)
}

func TestUserRepository_AddModifiedObjectID_UserMissing(t *testing.T) {
	repo := NewUserRepository(&fakeDynamo{err: conditionFailed()}, "users", zap.NewNop())

	err := repo.AddModifiedObjectID(context.Background(), "ghost", "mod-1")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsUserNotFound(err))
}

func TestUserRepository_AddModifiedObjectID_RejectsEmptyIDs(t *testing.T) {
	fake := &fakeDynamo{}
	repo := NewUserRepository(fake, "users", zap.NewNop())

	assert.Error(t, repo.AddModifiedObjectID(context.Background(), "", "mod-1"))
	assert.Error(t, repo.AddModifiedObjectID(context.Background(), "user-1", ""))
	assert.Empty(t, fake.updates)
}

func TestDistributedLock_AcquireAndRelease(t *testing.T) {
	fake := &fakeDynamo{}
	lock := NewDistributedLock(fake, "locks", zap.NewNop())
	lock.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	ok, err := lock.AcquireLock(context.Background(), "onboarding#user-1", "req-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, fake.puts, 1)
	assert.Equal(t, "LOCK#onboarding#user-1", attrString(t, fake.puts[0].Item, "PK"))
	assert.Equal(t, "req-1", attrString(t, fake.puts[0].Item, "Owner"))

	require.NoError(t, lock.ReleaseLock(context.Background(), "onboarding#user-1", "req-1"))
	require.Len(t, fake.deletes, 1)
	assert.Equal(t, "LOCK#onboarding#user-1", attrString(t, fake.deletes[0].Key, "PK"))
}

func TestDistributedLock_Contention(t *testing.T) {
	fake := &fakeDynamo{err: conditionFailed()}
	lock := NewDistributedLock(fake, "locks", zap.NewNop())

	ok, err := lock.AcquireLock(context.Background(), "onboarding#user-1", "req-2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, lock.ReleaseLock(context.Background(), "onboarding#user-1", "req-2"))
}

func TestDistributedLock_StoreError(t *testing.T) {
	lock := NewDistributedLock(&fakeDynamo{err: errors.New("boom")}, "locks", zap.NewNop())

	ok, err := lock.AcquireLock(context.Background(), "r", "o", time.Minute)
	assert.False(t, ok)
	assert.Error(t, err)
}

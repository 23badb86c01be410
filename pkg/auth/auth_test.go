package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTValidator_RoundTrip(t *testing.T) {
	cfg := JWTConfig{SecretKey: "test-secret", Issuer: "museum", Audience: []string{"museum-app"}}
	gen := NewJWTGenerator(cfg, time.Hour)
	v, err := NewJWTValidator(cfg)
	require.NoError(t, err)

	token, err := gen.GenerateToken("user-123", "ada@example.com", "Ada")
	require.NoError(t, err)

	claims, err := v.ValidateToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "Ada", claims.Name)
}

func TestJWTValidator_SubjectFallback(t *testing.T) {
	secret := []byte("test-secret")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "sub-user",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString(secret)
	require.NoError(t, err)

	v, err := NewJWTValidator(JWTConfig{SecretKey: string(secret)})
	require.NoError(t, err)
	claims, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sub-user", claims.UserID())
}

func TestJWTValidator_Rejects(t *testing.T) {
	v, err := NewJWTValidator(JWTConfig{SecretKey: "right", Audience: []string{"museum-app"}})
	require.NoError(t, err)

	wrongKey, _ := NewJWTGenerator(JWTConfig{SecretKey: "wrong", Audience: []string{"museum-app"}}, time.Hour).GenerateToken("u", "", "")
	expired, _ := NewJWTGenerator(JWTConfig{SecretKey: "right", Audience: []string{"museum-app"}}, -time.Minute).GenerateToken("u", "", "")
	wrongAud, _ := NewJWTGenerator(JWTConfig{SecretKey: "right", Audience: []string{"other"}}, time.Hour).GenerateToken("u", "", "")
	noUser, _ := NewJWTGenerator(JWTConfig{SecretKey: "right", Audience: []string{"museum-app"}}, time.Hour).GenerateToken("", "", "")

	tests := map[string]struct {
		token string
		want  error
	}{
		"missing":        {"", ErrMissingToken},
		"garbage":        {"not.a.token", ErrInvalidToken},
		"wrong key":      {wrongKey, ErrInvalidSignature},
		"expired":        {expired, ErrExpiredToken},
		"wrong audience": {wrongAud, ErrInvalidClaims},
		"no user id":     {noUser, ErrInvalidClaims},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.ValidateToken(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err = NewJWTValidator(JWTConfig{})
	assert.Error(t, err)
}

func TestUserContext(t *testing.T) {
	_, ok := GetUserFromContext(context.Background())
	assert.False(t, ok)

	ctx := SetUserInContext(context.Background(), &UserContext{UserID: "u1"})
	user, ok := GetUserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", user.UserID)

	_, ok = GetUserFromContext(SetUserInContext(context.Background(), &UserContext{}))
	assert.False(t, ok)
}

func TestTokenBucketLimiter(t *testing.T) {
	l := NewTokenBucketLimiter(2, time.Second)
	defer l.Stop()
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "ip:1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "ip:1")
	assert.False(t, ok)

	other, _ := l.Allow(ctx, "ip:2")
	assert.True(t, other)

	now = now.Add(time.Second)
	ok, _ = l.Allow(ctx, "ip:1")
	assert.True(t, ok)

	require.NoError(t, l.Reset(ctx, "ip:1"))
	ok, _ = l.Allow(ctx, "ip:1")
	assert.True(t, ok)
}

type fakeCounterTable struct {
	updates []*dynamodb.UpdateItemInput
	out     *dynamodb.UpdateItemOutput
	err     error
}

func (f *fakeCounterTable) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updates = append(f.updates, in)
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func (f *fakeCounterTable) DeleteItem(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestDistributedRateLimiter(t *testing.T) {
	ctx := context.Background()

	under := &fakeCounterTable{out: &dynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{
		"Count": &types.AttributeValueMemberN{Value: "3"},
	}}}
	l := NewDistributedRateLimiter(under, "locks", 10, time.Minute, "API")
	ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, under.updates, 1)
	assert.Contains(t, *under.updates[0].ConditionExpression, "attribute_not_exists")

	over := &fakeCounterTable{err: &types.ConditionalCheckFailedException{}}
	ok, err = NewDistributedRateLimiter(over, "locks", 10, time.Minute, "API").Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	broken := &fakeCounterTable{err: errors.New("throttled")}
	ok, err = NewDistributedRateLimiter(broken, "locks", 10, time.Minute, "API").Allow(ctx, "1.2.3.4")
	assert.Error(t, err)
	assert.True(t, ok)

	ok, err = NewDistributedRateLimiter(nil, "locks", 10, time.Minute, "API").Allow(ctx, "x")
	require.NoError(t, err)
	assert.True(t, ok)
}

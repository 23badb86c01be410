package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"museum-backend/infrastructure/config"
	"museum-backend/pkg/auth"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(0)
	defer c.Close()
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "a", 1, 60))
	require.NoError(t, c.Set(ctx, "skip", 1, 0))

	v, ok := c.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = c.Get(ctx, "skip")
	assert.False(t, ok)

	now = now.Add(time.Minute)
	_, ok = c.Get(ctx, "a")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "b", 2, 60))
	require.NoError(t, c.Delete(ctx, "b"))
	_, ok = c.Get(ctx, "b")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "c", 3, 60))
	require.NoError(t, c.Clear(ctx))
	_, ok = c.Get(ctx, "c")
	assert.False(t, ok)
	c.Close()
}

func memoryConfig() *config.Config {
	return &config.Config{
		Environment:      "development",
		AWSRegion:        "us-west-2",
		StoreBackend:     config.StoreMemory,
		LogLevel:         "error",
		LLMProvider:      config.ProviderMock,
		LLMMockReply:     `{"choice": 3, "reason": "warm"}`,
		LLMTimeout:       time.Second,
		LLMMaxRetries:    1,
		SourceCacheTTL:   time.Minute,
		MinResponses:     5,
		JWTSecret:        "di-secret",
		RateLimitRPS:     10,
		RateLimitBurst:   20,
		MetricsNamespace: "Museum/Test",
	}
}

func TestInitializeContainer_MemoryBackend(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	container, cleanup, err := InitializeContainer(context.Background(), memoryConfig())
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, 5, container.Catalog.Len())

	tok, err := auth.NewJWTGenerator(auth.JWTConfig{SecretKey: "di-secret"}, time.Hour).GenerateToken("visitor", "", "")
	require.NoError(t, err)

	items := strings.TrimSuffix(strings.Repeat(`{"question":"q","answer":"a"},`, 5), ",")
	req := httptest.NewRequest(http.MethodPost, "/arti/analyze", strings.NewReader(`{"responses":[`+items+`]}`))
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	container.Router.Setup().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"created":true`)
	assert.Contains(t, rec.Body.String(), `"Lantern Hall"`)
}

func TestProvideAuthConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.JWTSecret = ""
	cfg.Environment = "production"
	_, err := ProvideAuthConfig(cfg, nil)
	assert.Error(t, err)

	cfg.IsLambda = true
	authCfg, err := ProvideAuthConfig(cfg, nil)
	require.NoError(t, err)
	assert.True(t, authCfg.TrustGateway)
	assert.Nil(t, authCfg.Validator)
}

func TestProvideRateLimiter(t *testing.T) {
	cfg := memoryConfig()
	cfg.RateLimitRPS = 0
	limiter, cleanup := ProvideRateLimiter(cfg, nil)
	cleanup()
	assert.Nil(t, limiter)

	cfg.RateLimitRPS = 1
	cfg.RateLimitBurst = 1
	limiter, cleanup = ProvideRateLimiter(cfg, nil)
	defer cleanup()
	require.NotNil(t, limiter)
	ok, _ := limiter.Allow(context.Background(), "1.1.1.1")
	assert.True(t, ok)
	ok, _ = limiter.Allow(context.Background(), "1.1.1.1")
	assert.False(t, ok)
}

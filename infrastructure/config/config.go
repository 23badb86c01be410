package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	domainconfig "museum-backend/domain/config"
)

// Store backends
const (
	StoreDynamoDB = "dynamodb"
	StoreMemory   = "memory"
)

// LLM providers
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderMock   = "mock"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion        string
	DynamoDBEndpoint string
	ArtifactsTable   string
	UsersTable       string
	LocksTable       string
	EventBusName     string
	StoreBackend     string

	// Lambda configuration
	IsLambda           bool
	LambdaFunctionName string

	// Logging
	LogLevel string

	// Language model
	LLMProvider   string
	LLMModel      string
	LLMBaseURL    string
	LLMAPIKey     string
	LLMTimeout    time.Duration
	LLMMaxRetries int
	LLMMockReply  string

	// Onboarding
	ThemeCatalogPath      string
	SourceCacheTTL        time.Duration
	OnboardingLockEnabled bool
	MinResponses          int

	// Authentication
	JWTSecret      string
	JWTIssuer      string
	JWTAudience    string
	RateLimitRPS   int
	RateLimitBurst int

	// RateLimitDistributed keeps rate limit counters in LocksTable so that
	// every Lambda instance shares one budget
	RateLimitDistributed bool

	// Feature flags
	EnableMetrics    bool
	EnableTracing    bool
	EnableCORS       bool
	AllowedOrigins   []string
	MetricsNamespace string
}

// LoadConfig loads configuration from an optional .env file and the environment
func LoadConfig() (*Config, error) {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()
	return FromEnv()
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

// FromEnv builds the configuration from the process environment only
func FromEnv() (*Config, error) {
	provider := strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI))

	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("NODE_ENV", getEnv("ENVIRONMENT", "production")),

		AWSRegion:        getEnv("AWS_REGION", "us-west-2"),
		DynamoDBEndpoint: getEnv("DYNAMODB_ENDPOINT", ""),
		ArtifactsTable:   getEnv("ARTIFACTS_TABLE", "museum-artifacts"),
		UsersTable:       getEnv("USERS_TABLE", "museum-users"),
		LocksTable:       getEnv("LOCKS_TABLE", "museum-locks"),
		EventBusName:     getEnv("EVENT_BUS_NAME", ""),
		StoreBackend:     strings.ToLower(getEnv("STORE_BACKEND", StoreDynamoDB)),

		IsLambda:           getEnvBool("IS_LAMBDA", false),
		LambdaFunctionName: getEnv("AWS_LAMBDA_FUNCTION_NAME", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		LLMProvider:   provider,
		LLMModel:      getEnv("LLM_MODEL", defaultModel(provider)),
		LLMBaseURL:    getEnv("LLM_BASE_URL", ""),
		LLMAPIKey:     getEnv("LLM_API_KEY", providerKey(provider)),
		LLMTimeout:    getEnvDuration("LLM_TIMEOUT", 30*time.Second),
		LLMMaxRetries: getEnvInt("LLM_MAX_RETRIES", 2),
		LLMMockReply:  getEnv("LLM_MOCK_REPLY", `{"choice": 1, "reason": "Mock classification"}`),

		ThemeCatalogPath:      getEnv("THEME_CATALOG_PATH", ""),
		SourceCacheTTL:        getEnvDuration("SOURCE_CACHE_TTL", 5*time.Minute),
		OnboardingLockEnabled: getEnvBool("ONBOARDING_LOCK_ENABLED", false),
		MinResponses:          getEnvInt("MIN_ONBOARDING_RESPONSES", 5),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTIssuer:      getEnv("JWT_ISSUER", ""),
		JWTAudience:    getEnv("JWT_AUDIENCE", ""),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),

		RateLimitDistributed: getEnvBool("RATE_LIMIT_DISTRIBUTED", false),

		EnableMetrics:    getEnvBool("ENABLE_METRICS", true),
		EnableTracing:    getEnvBool("ENABLE_TRACING", false),
		EnableCORS:       getEnvBool("ENABLE_CORS", true),
		AllowedOrigins:   getEnvList("ALLOWED_ORIGINS"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "Museum/Backend"),
	}
	cfg.IsLambda = cfg.IsLambda || cfg.LambdaFunctionName != ""

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreDynamoDB, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.LLMProvider {
	case ProviderOpenAI, ProviderGemini:
		if c.LLMAPIKey == "" {
			return fmt.Errorf("LLM_API_KEY is required for provider %s", c.LLMProvider)
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}

	if c.LLMMaxRetries < 0 {
		return fmt.Errorf("LLM_MAX_RETRIES must not be negative")
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive")
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}
	if c.MinResponses < 1 {
		return fmt.Errorf("MIN_ONBOARDING_RESPONSES must be at least 1")
	}

	if c.IsProduction() {
		if c.JWTSecret == "" && !c.IsLambda {
			return fmt.Errorf("JWT_SECRET is required in production outside Lambda")
		}
		if c.StoreBackend == StoreDynamoDB && (c.ArtifactsTable == "" || c.UsersTable == "") {
			return fmt.Errorf("ARTIFACTS_TABLE and USERS_TABLE are required")
		}
	}
	return nil
}

// Domain returns the onboarding business rules derived from this configuration
func (c *Config) Domain() *domainconfig.DomainConfig {
	d := domainconfig.DefaultDomainConfig()
	d.MinOnboardingResponses = c.MinResponses
	d.ClassifierMaxRetries = c.LLMMaxRetries
	d.ClassifierTimeout = c.LLMTimeout
	d.SerializeUserOnboarding = c.OnboardingLockEnabled
	return d
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderGemini:
		return "gemini-2.5-flash"
	case ProviderOpenAI:
		return "gpt-4o-mini"
	}
	return ""
}

func providerKey(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case ProviderGemini:
		return os.Getenv("GEMINI_API_KEY")
	}
	return ""
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("45s") or bare seconds ("45")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

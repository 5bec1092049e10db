package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	CORS        CORSConfig
	AI          AIConfig
	AniList     AniListConfig
	Cache       CacheConfig
	RateLimit   RateLimitConfig
	Comment     CommentConfig
	AuthorToken AuthorTokenConfig
	Security    SecurityConfig
	S3          S3Config
}

type ServerConfig struct {
	Port           string
	GinMode        string
	Environment    string
	MaxBodyBytes   int64
	TrustedProxies []string
	PublicBaseURL  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// AIConfig selects the text-generation provider. Provider is "openai" for any
// OpenAI-compatible endpoint (Gemini by default) or "anthropic".
type AIConfig struct {
	Provider  string
	APIKey    string
	BaseURL   string
	Model     string
	Timeout   time.Duration
	MaxTokens int64
}

type AniListConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxReviews int
}

type CacheConfig struct {
	TTL        time.Duration
	MemorySize int
}

// RateLimitConfig holds per-route request budgets, counted per IP per Window.
type RateLimitConfig struct {
	Window        time.Duration
	Search        int
	AnimeDetails  int
	GenerateRoast int
	CommentRead   int
	CommentCreate int
	CommentVote   int
	CommentEdit   int
	CommentDelete int
	AuthorToken   int
	Share         int
}

type CommentConfig struct {
	MaxLength       int
	MaxAuthorLength int
	EditWindow      time.Duration
	DefaultPageSize int
	MaxPageSize     int
}

type AuthorTokenConfig struct {
	Secret string
	Expiry time.Duration
}

type SecurityConfig struct {
	IPHashKey string
}

type S3Config struct {
	Enabled         bool
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
	Endpoint        string // S3-compatible endpoint override (MinIO, LocalStack)
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8000"),
			GinMode:        getEnv("GIN_MODE", "debug"),
			Environment:    getEnv("ENVIRONMENT", "development"),
			MaxBodyBytes:   int64(parseInt(getEnv("MAX_BODY_BYTES", "1048576"), 1<<20)),
			TrustedProxies: parseSlice(getEnv("TRUSTED_PROXIES", "")),
			PublicBaseURL:  strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "roast"),
			Password: getEnv("DB_PASSWORD", "roast"),
			DBName:   getEnv("DB_NAME", "animeroast"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  parseBool(getEnv("REDIS_ENABLED", "true")),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		AI: AIConfig{
			Provider:  strings.ToLower(getEnv("AI_PROVIDER", "openai")),
			APIKey:    getEnv("AI_API_KEY", os.Getenv("GEMINI_API_KEY")),
			BaseURL:   getEnv("AI_BASE_URL", ""),
			Model:     getEnv("AI_MODEL", ""),
			Timeout:   parseDuration(getEnv("AI_TIMEOUT", "30s"), 30*time.Second),
			MaxTokens: int64(parseInt(getEnv("AI_MAX_TOKENS", "800"), 800)),
		},
		AniList: AniListConfig{
			BaseURL:    getEnv("ANILIST_URL", "https://graphql.anilist.co"),
			Timeout:    parseDuration(getEnv("ANILIST_TIMEOUT", "10s"), 10*time.Second),
			MaxReviews: parseInt(getEnv("ANILIST_MAX_REVIEWS", "25"), 25),
		},
		Cache: CacheConfig{
			TTL:        parseDuration(getEnv("CACHE_TTL", "1h"), time.Hour),
			MemorySize: parseInt(getEnv("CACHE_MEMORY_SIZE", "1000"), 1000),
		},
		RateLimit: RateLimitConfig{
			Window:        parseDuration(getEnv("RATE_LIMIT_WINDOW", "1m"), time.Minute),
			Search:        parseInt(getEnv("RATE_LIMIT_SEARCH", "30"), 30),
			AnimeDetails:  parseInt(getEnv("RATE_LIMIT_ANIME", "30"), 30),
			GenerateRoast: parseInt(getEnv("RATE_LIMIT_ROAST", "10"), 10),
			CommentRead:   parseInt(getEnv("RATE_LIMIT_COMMENT_READ", "30"), 30),
			CommentCreate: parseInt(getEnv("RATE_LIMIT_COMMENT_CREATE", "5"), 5),
			CommentVote:   parseInt(getEnv("RATE_LIMIT_COMMENT_VOTE", "10"), 10),
			CommentEdit:   parseInt(getEnv("RATE_LIMIT_COMMENT_EDIT", "5"), 5),
			CommentDelete: parseInt(getEnv("RATE_LIMIT_COMMENT_DELETE", "5"), 5),
			AuthorToken:   parseInt(getEnv("RATE_LIMIT_AUTHOR_TOKEN", "10"), 10),
			Share:         parseInt(getEnv("RATE_LIMIT_SHARE", "10"), 10),
		},
		Comment: CommentConfig{
			MaxLength:       parseInt(getEnv("COMMENT_MAX_LENGTH", "1000"), 1000),
			MaxAuthorLength: parseInt(getEnv("COMMENT_MAX_AUTHOR_LENGTH", "50"), 50),
			EditWindow:      parseDuration(getEnv("COMMENT_EDIT_WINDOW", "15m"), 15*time.Minute),
			DefaultPageSize: parseInt(getEnv("COMMENT_PAGE_SIZE", "20"), 20),
			MaxPageSize:     parseInt(getEnv("COMMENT_MAX_PAGE_SIZE", "50"), 50),
		},
		AuthorToken: AuthorTokenConfig{
			Secret: getEnv("AUTHOR_TOKEN_SECRET", "change-me-author-token-secret"),
			Expiry: parseDuration(getEnv("AUTHOR_TOKEN_EXPIRY", "8760h"), 8760*time.Hour),
		},
		Security: SecurityConfig{
			IPHashKey: getEnv("IP_HASH_KEY", "change-me-ip-hash-key"),
		},
		S3: S3Config{
			Enabled:         parseBool(getEnv("AWS_S3_ENABLED", "false")),
			Region:          getEnv("AWS_REGION", "us-east-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "animeroast-shares"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
			Endpoint:        getEnv("AWS_S3_ENDPOINT", ""),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q", c.AI.Provider)
	}
	if c.Environment() == "production" {
		if strings.HasPrefix(c.AuthorToken.Secret, "change-me") {
			return fmt.Errorf("AUTHOR_TOKEN_SECRET must be set in production")
		}
		if strings.HasPrefix(c.Security.IPHashKey, "change-me") {
			return fmt.Errorf("IP_HASH_KEY must be set in production")
		}
	}
	if c.Comment.DefaultPageSize > c.Comment.MaxPageSize {
		c.Comment.DefaultPageSize = c.Comment.MaxPageSize
	}
	return nil
}

func (c *Config) Environment() string {
	return c.Server.Environment
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

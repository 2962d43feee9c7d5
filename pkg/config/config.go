package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"feed-api/pkg/appenv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            appenv.Env
	Port           string
	DatabaseURL    string
	MigrationsPath string
	JWTSecret      string
	TrustedProxies []string
	API            APIConfig
	CORS           CORSConfig
	RateLimit      RateLimitConfig
	Avatars        AvatarConfig
	// Users granted the moderation capability at startup.
	ModeratorUserIDs []int
	Catalogs         Catalogs
}

type APIConfig struct {
	Namespace        string
	PublicBaseURL    string
	UsersResourceURL string
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

type RateLimitConfig struct {
	Enabled   bool
	RPS       float64
	Burst     int
	Whitelist []string
}

// AvatarConfig selects between MinIO-backed presigned avatar URLs and a plain
// URL template. MinIO is used when Endpoint is set.
type AvatarConfig struct {
	Endpoint         string
	AccessKey        string
	SecretKey        string
	Bucket           string
	UseSSL           bool
	ExternalEndpoint string
	ExternalUseSSL   bool
	Expiry           time.Duration
	ObjectPattern    string
	URLTemplate      string
}

func (a AvatarConfig) MinioEnabled() bool { return strings.TrimSpace(a.Endpoint) != "" }

// Load reads .env (when present) and the process environment, then merges the
// activity catalog file on top of the built-in catalogs.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := appenv.Parse(getEnv("APP_ENV", ""))
	cfg := &Config{
		Env:            env,
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "127.0.0.1,::1")),
		API: APIConfig{
			Namespace:        strings.Trim(getEnv("API_NAMESPACE", "v1"), "/"),
			PublicBaseURL:    strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
			UsersResourceURL: strings.TrimRight(getEnv("USERS_RESOURCE_URL", ""), "/"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "")),
			AllowCredentials: parseBool(getEnv("ALLOW_CREDENTIALS", "false"), false),
		},
		RateLimit: RateLimitConfig{
			Enabled:   parseBool(getEnv("RATE_LIMIT_ENABLED", "true"), true) && env != appenv.Test,
			RPS:       parseFloat(getEnv("RATE_LIMIT_RPS", ""), 5),
			Burst:     parseInt(getEnv("RATE_LIMIT_BURST", ""), 20),
			Whitelist: splitList(getEnv("RATE_LIMIT_WHITELIST", "")),
		},
		Avatars: loadAvatarConfig(),
	}
	if cfg.API.UsersResourceURL == "" {
		cfg.API.UsersResourceURL = cfg.API.PublicBaseURL + "/" + cfg.API.Namespace + "/users"
	}

	ids, err := parseIDs(getEnv("MODERATOR_USER_IDS", ""))
	if err != nil {
		return nil, fmt.Errorf("MODERATOR_USER_IDS: %w", err)
	}
	cfg.ModeratorUserIDs = ids

	catalogs, err := LoadCatalogs(getEnv("ACTIVITY_CONFIG_FILE", "config/activity.yaml"))
	if err != nil {
		return nil, err
	}
	cfg.Catalogs = catalogs

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be set and at least 32 characters")
	}
	if c.Avatars.MinioEnabled() && c.Avatars.Bucket == "" {
		return errors.New("MINIO_BUCKET is required when MINIO_ENDPOINT is set")
	}
	if err := checkUserIDFormat("AVATAR_URL_TEMPLATE", c.Avatars.URLTemplate); err != nil {
		return err
	}
	return checkUserIDFormat("AVATAR_OBJECT_PATTERN", c.Avatars.ObjectPattern)
}

// checkUserIDFormat requires format to take exactly one integer verb.
func checkUserIDFormat(key, format string) error {
	if strings.Count(format, "%d") != 1 || strings.Contains(fmt.Sprintf(format, 1), "%!") {
		return fmt.Errorf("%s must contain exactly one %%d for the user id", key)
	}
	return nil
}

func loadAvatarConfig() AvatarConfig {
	external := strings.TrimSpace(getEnv("MINIO_EXTERNAL_ENDPOINT", ""))
	useSSL := parseBool(getEnv("MINIO_USE_SSL", "false"), false)
	externalSSL := useSSL
	switch {
	case getEnv("MINIO_EXTERNAL_USE_SSL", "") != "":
		externalSSL = parseBool(getEnv("MINIO_EXTERNAL_USE_SSL", ""), useSSL)
	case strings.HasPrefix(external, "https://"):
		externalSSL = true
	case strings.HasPrefix(external, "http://"):
		externalSSL = false
	}
	return AvatarConfig{
		Endpoint:         getEnv("MINIO_ENDPOINT", ""),
		AccessKey:        getEnv("MINIO_ACCESS_KEY", ""),
		SecretKey:        getEnv("MINIO_SECRET_KEY", ""),
		Bucket:           getEnv("MINIO_BUCKET", ""),
		UseSSL:           useSSL,
		ExternalEndpoint: external,
		ExternalUseSSL:   externalSSL,
		Expiry:           time.Duration(parseInt(getEnv("AVATAR_URL_EXPIRY", ""), 3600)) * time.Second,
		ObjectPattern:    getEnv("AVATAR_OBJECT_PATTERN", "avatars/%d.png"),
		URLTemplate:      getEnv("AVATAR_URL_TEMPLATE", "https://www.gravatar.com/avatar/?d=mp&u=%d"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(raw string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return def
	}
}

func parseInt(raw string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func parseFloat(raw string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func parseIDs(raw string) ([]int, error) {
	var ids []int
	for _, part := range splitList(raw) {
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid user id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

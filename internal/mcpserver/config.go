package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/xsdflat/flatten"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Conversion defaults.
	Scope         string
	MaxDepth      int
	SchemaName    string
	SchemaVersion string

	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration

	// Input limits.
	MaxInlineSize int64
	MaxDocuments  int

	// Issue pagination.
	IssueLimit int
	MaxLimit   int
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from XSDFLAT_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		Scope:              envScope("XSDFLAT_SCOPE", flatten.ScopeRootsOnly.String()),
		MaxDepth:           envInt("XSDFLAT_MAX_DEPTH", flatten.DefaultMaxDepth),
		SchemaName:         envString("XSDFLAT_SCHEMA_NAME", flatten.DefaultName),
		SchemaVersion:      envString("XSDFLAT_SCHEMA_VERSION", flatten.DefaultVersion),
		CacheEnabled:       envBool("XSDFLAT_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("XSDFLAT_CACHE_MAX_SIZE", 10),
		CacheTTL:           envDuration("XSDFLAT_CACHE_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("XSDFLAT_CACHE_SWEEP_INTERVAL", 60*time.Second),
		MaxInlineSize:      envInt64("XSDFLAT_MAX_INLINE_SIZE", 10*1024*1024),
		MaxDocuments:       envInt("XSDFLAT_MAX_DOCUMENTS", 50),
		IssueLimit:         envInt("XSDFLAT_ISSUE_LIMIT", 100),
		MaxLimit:           envInt("XSDFLAT_MAX_LIMIT", 1000),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envScope(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if !flatten.IsValidScope(v) {
		slog.Warn("invalid scope env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}

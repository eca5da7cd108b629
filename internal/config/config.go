package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// DefaultAllowedHosts keeps the API to loopback names when
// FAV_ALLOWED_HOSTS is unset. DNS rebound names are refused.
const DefaultAllowedHosts = "localhost,127.0.0.1,::1"

type Config struct {
	ListenPort      string        // ex: ":8765"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Workspace
	WorkspaceDir string // workspace root, team file and workspace slot derive from it
	EditorDir    string // team file dir relative to the workspace (default: .vscode)
	StorageScope string // "workspace" | "global" | "team"

	// Key-value slots (workspace + global scopes)
	KVBackend  string // "sqlite" | "redis"
	SQLitePath string // ex: "~/.favlauncher/state.db"

	// View
	SortOrder   string // "manual" | "alpha" | "type" | "lastUsed"
	ShowRecent  bool   // prepend the Recent pseudo-group when no filter is active
	RecentLimit int    // max entries in the Recent pseudo-group

	// Launch
	MacroStepDelay time.Duration // pause after each terminal step (default: 300ms)
	Shell          string        // shell used for terminal steps
	StartupItemID  string        // optional entry launched once on start
	StartupDelay   time.Duration // delay before the startup entry runs (default: 1500ms)
	PresetFile     string        // optional YAML preset merged on start

	// Maintenance
	DeadLinkInterval time.Duration // interval of the dead-link sweep (default: 1h)
	PruneDeadLinks   bool          // remove dead links during the sweep
	WatchDebounce    time.Duration // debounce window of the team file watcher

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedCIDRS []string // optional, restrict API access to specific IP ranges
	AllowedHosts []string // Host headers accepted by the API (ex: localhost, *.internal, * for any)
	TrustProxy   bool     // true => trust X-Forwarded-For headers

	// Launch endpoints rate limit
	LaunchBurst        int // max launches in a burst per client
	LaunchRefillPerMin int // launches regained per minute
}

// TeamFile is the shared favorites file of the workspace.
func (c *Config) TeamFile() string {
	return filepath.Join(c.WorkspaceDir, c.EditorDir, "favorites.json")
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("FAV_LISTEN_PORT", ":8765"),
		ShutdownTimeout: mustDuration("FAV_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("FAV_LOG_LEVEL", "info"),
		PrettyLog: mustBool("FAV_PRETTY_LOG", true),

		// Workspace
		WorkspaceDir: getenv("FAV_WORKSPACE_DIR", workingDir()),
		EditorDir:    getenv("FAV_EDITOR_DIR", ".vscode"),
		StorageScope: oneOf("FAV_STORAGE_SCOPE", "workspace", "workspace", "global", "team"),

		KVBackend:  oneOf("FAV_KV_BACKEND", BackendSQLite, BackendSQLite, BackendRedis),
		SQLitePath: getenv("FAV_SQLITE_PATH", defaultSQLitePath()),

		SortOrder:   oneOf("FAV_SORT_ORDER", "manual", "manual", "alpha", "type", "lastUsed"),
		ShowRecent:  mustBool("FAV_SHOW_RECENT", false),
		RecentLimit: getenvInt("FAV_RECENT_LIMIT", 5),

		MacroStepDelay: mustDuration("FAV_MACRO_STEP_DELAY", 300*time.Millisecond),
		Shell:          getenv("FAV_SHELL", "/bin/sh"),
		StartupItemID:  getenv("FAV_STARTUP_ITEM_ID", ""),
		StartupDelay:   mustDuration("FAV_STARTUP_DELAY", 1500*time.Millisecond),
		PresetFile:     getenv("FAV_PRESET_FILE", ""),

		DeadLinkInterval: mustDuration("FAV_DEAD_LINK_INTERVAL", time.Hour),
		PruneDeadLinks:   mustBool("FAV_PRUNE_DEAD_LINKS", false),
		WatchDebounce:    mustDuration("FAV_WATCH_DEBOUNCE", 200*time.Millisecond),

		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedCIDRS: parseAllowedIPs(getenv("FAV_ALLOWED_CIDRS", "")),
		AllowedHosts: splitAndTrim(getenv("FAV_ALLOWED_HOSTS", DefaultAllowedHosts)),
		TrustProxy:   mustBool("FAV_TRUST_PROXY", false),

		LaunchBurst:        getenvInt("FAV_LAUNCH_BURST", 20),
		LaunchRefillPerMin: getenvInt("FAV_LAUNCH_PER_MIN", 120),
	}

	// Redis settings are only required when redis backs the slots
	if cfg.KVBackend == BackendRedis {
		cfg.RedisAddr = requireEnv("FAV_REDIS_ADDR")
		cfg.RedisUser = getenv("FAV_REDIS_USERNAME", "default")
		cfg.RedisPasswordRequired = mustBool("FAV_REDIS_PASSWORD_REQUIRED", false)
		cfg.RedisPassword = getenv("FAV_REDIS_PASSWORD", "")
		cfg.RedisDB = requireEnvInt("FAV_REDIS_DB")

		if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
			panic("❌ FATAL: FAV_REDIS_PASSWORD is required when FAV_REDIS_PASSWORD_REQUIRED=true")
		}
	}

	if cfg.RecentLimit < 0 {
		cfg.RecentLimit = 0
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

// oneOf returns the variable when it is one of allowed, def when unset,
// and panics on any other value.
func oneOf(key, def string, allowed ...string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return a
		}
	}
	panic(fmt.Sprintf("❌ FATAL: Invalid value for %s: %s (allowed: %s)", key, v, strings.Join(allowed, ", ")))
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".favlauncher", "state.db")
	}
	return filepath.Join(home, ".favlauncher", "state.db")
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

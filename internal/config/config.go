package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Cache
		Auth
		Log
		Tasks
		Scheduler
		Global
	}

	HTTP struct {
		Port int
		Host string
	}

	Database struct {
		Path string
	}

	// Cache selects the cache backend and its endpoints. The driver is fixed
	// for the lifetime of the process.
	Cache struct {
		Driver        string // "file" (default), "redis" or "memcached"
		FilePath      string // directory for the file backend
		RedisHost     string
		RedisPort     int
		RedisPassword string
		RedisDB       int
		MemcachedHost string
		MemcachedPort int
		DefaultTTL    time.Duration
		Timeout       time.Duration // dial/read/write timeout for remote backends
	}

	Auth struct {
		SessionSecret    string // gorilla/csrf secret, auto-generated if empty
		SessionLifetime  time.Duration
		BcryptCost       int
		SecureCookies    bool // set to false for local dev without HTTPS
		MaxLoginAttempts int
		LockoutDuration  time.Duration
		RememberLifetime time.Duration // absolute expiry for remember-me tokens
	}

	Log struct {
		Dir           string
		Level         string // minimum level written: emergency..debug
		RetentionDays int
	}

	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}

	Scheduler struct {
		Enabled            bool
		StatusSchedule     string // cron format, e.g. "*/15 * * * *"
		LogCleanupSchedule string // cron format, e.g. "0 3 * * *"
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Cache defaults
	v.SetDefault("cache_driver", "file")
	v.SetDefault("cache_file_path", DefaultCacheDir)
	v.SetDefault("cache_default_ttl", "1h")
	v.SetDefault("cache_timeout", "2s")
	v.SetDefault("redis_host", "127.0.0.1")
	v.SetDefault("redis_port", 6379)
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_database", 0)
	v.SetDefault("memcached_host", "127.0.0.1")
	v.SetDefault("memcached_port", 11211)

	// Auth defaults
	v.SetDefault("auth_session_secret", "")      // auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h") // 24 hours
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_lockout_duration", "30m")
	v.SetDefault("auth_remember_lifetime", "720h") // 30 days

	// Logging defaults
	v.SetDefault("log_dir", DefaultLogDir)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_retention_days", 30)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Scheduler defaults
	v.SetDefault("scheduler_enabled", true)
	v.SetDefault("status_sweep_schedule", "*/15 * * * *") // every 15 minutes
	v.SetDefault("log_cleanup_schedule", "0 3 * * *")     // daily at 03:00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Cache: Cache{
			Driver:        v.GetString("CACHE_DRIVER"),
			FilePath:      v.GetString("CACHE_FILE_PATH"),
			RedisHost:     v.GetString("REDIS_HOST"),
			RedisPort:     v.GetInt("REDIS_PORT"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DATABASE"),
			MemcachedHost: v.GetString("MEMCACHED_HOST"),
			MemcachedPort: v.GetInt("MEMCACHED_PORT"),
			DefaultTTL:    v.GetDuration("CACHE_DEFAULT_TTL"),
			Timeout:       v.GetDuration("CACHE_TIMEOUT"),
		},
		Auth: Auth{
			SessionSecret:    v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
			RememberLifetime: v.GetDuration("AUTH_REMEMBER_LIFETIME"),
		},
		Log: Log{
			Dir:           v.GetString("LOG_DIR"),
			Level:         v.GetString("LOG_LEVEL"),
			RetentionDays: v.GetInt("LOG_RETENTION_DAYS"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Scheduler: Scheduler{
			Enabled:            v.GetBool("SCHEDULER_ENABLED"),
			StatusSchedule:     v.GetString("STATUS_SWEEP_SCHEDULE"),
			LogCleanupSchedule: v.GetString("LOG_CLEANUP_SCHEDULE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}

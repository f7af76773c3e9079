package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	ExportMemory  = "memory"
	ExportSheets  = "sheets"
)

type Config struct {
	// HTTP Server
	Port               string `yaml:"port"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
	LogLevel           string `yaml:"log_level"`

	// Storage
	DataBackend  string `yaml:"data_backend"`
	SQLiteDBPath string `yaml:"sqlite_db_path"`
	SeedFile     string `yaml:"seed_file"`

	// Dashboard cache
	CacheTTL  time.Duration `yaml:"cache_ttl"`
	CacheSize int           `yaml:"cache_size"`

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string `yaml:"amqp_url"`
	AMQPExchange string `yaml:"amqp_exchange"`
	AMQPQueue    string `yaml:"amqp_queue"`

	// Deadline export
	ExportBackend            string `yaml:"export_backend"`
	GoogleSpreadsheetID      string `yaml:"google_spreadsheet_id"`
	GoogleSheetName          string `yaml:"google_sheet_name"`
	GoogleServiceAccountFile string `yaml:"google_service_account_file"`
	GoogleServiceAccountJSON string `yaml:"google_service_account_json"`
	GoogleOAuthClientFile    string `yaml:"google_oauth_client_file"`
	GoogleOAuthTokenFile     string `yaml:"google_oauth_token_file"`

	// Worker
	RecurringInterval time.Duration `yaml:"recurring_interval"`

	// Advice
	AdviceURL     string        `yaml:"advice_url"`
	AdviceTimeout time.Duration `yaml:"advice_timeout"`

	// problems found while loading, reported by Validate
	loadErrs []string
}

func defaults() *Config {
	return &Config{
		Port:               "8080",
		RateLimitPerMinute: 120,
		LogLevel:           "info",
		DataBackend:        BackendMemory,
		SQLiteDBPath:       "./data/casa.db",
		CacheTTL:           30 * time.Second,
		CacheSize:          64,
		AMQPExchange:       "casa",
		AMQPQueue:          "entity_changes",
		ExportBackend:      ExportMemory,
		GoogleSheetName:    "Deadlines",
		RecurringInterval:  time.Hour,
		AdviceTimeout:      20 * time.Second,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CASA_CONFIG_PATH (if any), then environment variables. Load never fails;
// problems are reported by Validate.
func Load() *Config {
	cfg := defaults()
	if path := os.Getenv("CASA_CONFIG_PATH"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			cfg.loadErrs = append(cfg.loadErrs, err.Error())
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.RateLimitPerMinute = cfg.getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	cfg.DataBackend = getEnv("DATA_BACKEND", cfg.DataBackend)
	cfg.SQLiteDBPath = getEnv("SQLITE_DB_PATH", cfg.SQLiteDBPath)
	cfg.SeedFile = getEnv("SEED_FILE", cfg.SeedFile)

	cfg.CacheTTL = cfg.getEnvDuration("CACHE_TTL", cfg.CacheTTL)
	cfg.CacheSize = cfg.getEnvInt("CACHE_SIZE", cfg.CacheSize)

	cfg.AMQPURL = getEnv("AMQP_URL", cfg.AMQPURL)
	cfg.AMQPExchange = getEnv("AMQP_EXCHANGE", cfg.AMQPExchange)
	cfg.AMQPQueue = getEnv("AMQP_QUEUE", cfg.AMQPQueue)

	cfg.ExportBackend = getEnv("EXPORT_BACKEND", cfg.ExportBackend)
	cfg.GoogleSpreadsheetID = getEnv("GOOGLE_SPREADSHEET_ID", cfg.GoogleSpreadsheetID)
	cfg.GoogleSheetName = getEnv("GOOGLE_SHEET_NAME", cfg.GoogleSheetName)
	cfg.GoogleServiceAccountFile = getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", cfg.GoogleServiceAccountFile)
	cfg.GoogleServiceAccountJSON = getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", cfg.GoogleServiceAccountJSON)
	cfg.GoogleOAuthClientFile = getEnv("GOOGLE_OAUTH_CLIENT_FILE", cfg.GoogleOAuthClientFile)
	cfg.GoogleOAuthTokenFile = getEnv("GOOGLE_OAUTH_TOKEN_FILE", cfg.GoogleOAuthTokenFile)

	cfg.RecurringInterval = cfg.getEnvDuration("RECURRING_INTERVAL", cfg.RecurringInterval)

	cfg.AdviceURL = getEnv("ADVICE_URL", cfg.AdviceURL)
	cfg.AdviceTimeout = cfg.getEnvDuration("ADVICE_TIMEOUT", cfg.AdviceTimeout)

	return cfg
}

func (c *Config) overlayFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read config file '%s': %v", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("invalid config file '%s': %v", path, err)
	}
	return nil
}

// AMQPEnabled reports whether change events are published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	errors := slices.Clone(c.loadErrs)

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	validBackends := []string{BackendMemory, BackendSQLite}
	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}
	if c.DataBackend == BackendSQLite && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}
	if c.SeedFile != "" {
		if _, err := os.Stat(c.SeedFile); err != nil {
			errors = append(errors, fmt.Sprintf("seed file is not readable: %s", c.SeedFile))
		}
	}

	if c.CacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be positive", c.CacheTTL))
	}
	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	validExports := []string{ExportMemory, ExportSheets}
	if !slices.Contains(validExports, c.ExportBackend) {
		errors = append(errors, fmt.Sprintf("invalid export backend '%s': must be one of %v", c.ExportBackend, validExports))
	}
	if c.ExportBackend == ExportSheets {
		errors = append(errors, c.validateSheets()...)
	}

	if c.RecurringInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid recurring interval %v: must be at least 1 second", c.RecurringInterval))
	} else if c.RecurringInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid recurring interval %v: must be at most 24 hours", c.RecurringInterval))
	}

	if c.AdviceURL != "" {
		if u, err := url.Parse(c.AdviceURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid advice URL '%s': must be an http(s) URL", c.AdviceURL))
		}
	}
	if c.AdviceTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid advice timeout %v: must be positive", c.AdviceTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func (c *Config) validateSheets() []string {
	var errors []string
	if c.GoogleSpreadsheetID == "" {
		errors = append(errors, "Google Spreadsheet ID is required when exporting to sheets")
	}
	if c.GoogleSheetName == "" {
		errors = append(errors, "Google Sheet name is required when exporting to sheets")
	}

	hasServiceAccount := c.GoogleServiceAccountFile != "" || c.GoogleServiceAccountJSON != ""
	hasOAuth := c.GoogleOAuthClientFile != "" && c.GoogleOAuthTokenFile != ""
	if !hasServiceAccount && !hasOAuth {
		errors = append(errors, "sheets export needs GOOGLE_SERVICE_ACCOUNT_FILE/JSON or both GOOGLE_OAUTH_CLIENT_FILE and GOOGLE_OAUTH_TOKEN_FILE")
	}
	for _, f := range []string{c.GoogleServiceAccountFile, c.GoogleOAuthClientFile, c.GoogleOAuthTokenFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("Google credentials file does not exist: %s", f))
		}
	}
	return errors
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		c.loadErrs = append(c.loadErrs, fmt.Sprintf("invalid %s '%s': must be an integer", key, value))
		return defaultValue
	}
	return i
}

func (c *Config) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		c.loadErrs = append(c.loadErrs, fmt.Sprintf("invalid %s '%s': must be a duration like 30s or 1h", key, value))
		return defaultValue
	}
	return d
}

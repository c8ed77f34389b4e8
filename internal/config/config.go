package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	JWT        JWTConfig        `yaml:"jwt"`
	Redis      RedisConfig      `yaml:"redis"`
	AI         AIConfig         `yaml:"ai"`
	Quota      QuotaConfig      `yaml:"quota"`
	Invitation InvitationConfig `yaml:"invitation"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret            string `yaml:"secret"`
	ExpireHour        int    `yaml:"expire_hour"`
	RefreshExpireHour int    `yaml:"refresh_expire_hour"`
}

// RedisConfig enables the async activity recorder when set.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// AIConfig configures the generative content provider.
type AIConfig struct {
	Provider        string `yaml:"provider"` // openai, anthropic
	BaseURL         string `yaml:"base_url"` // OpenAI-compatible endpoint
	APIKey          string `yaml:"api_key"`
	Model           string `yaml:"model"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	AnthropicModel  string `yaml:"anthropic_model"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

// QuotaConfig holds the monthly AI-generation limits per subscription tier.
type QuotaConfig struct {
	FreeLimit       int    `yaml:"free_limit"`
	ProLimit        int    `yaml:"pro_limit"`
	EnterpriseLimit int    `yaml:"enterprise_limit"`
	ResetCron       string `yaml:"reset_cron"` // cron spec for the billing-period reset
}

type InvitationConfig struct {
	ExpireDays int `yaml:"expire_days"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.overrideFromEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "seoforge.db",
		},
		JWT: JWTConfig{
			Secret:            "seoforge-secret-key-change-in-production",
			ExpireHour:        24,
			RefreshExpireHour: 24 * 30,
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
		},
		AI: AIConfig{
			Provider:       "openai",
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4o-mini",
			AnthropicModel: "claude-sonnet-4-20250514",
			TimeoutSeconds: 60,
		},
		Quota: QuotaConfig{
			FreeLimit:       10,
			ProLimit:        100,
			EnterpriseLimit: 1000,
			ResetCron:       "0 0 1 * *",
		},
		Invitation: InvitationConfig{
			ExpireDays: 7,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Server.Port == "" {
		c.Server.Port = def.Server.Port
	}
	if c.Server.Mode == "" {
		c.Server.Mode = def.Server.Mode
	}
	if c.Database.Driver == "" {
		c.Database.Driver = def.Database.Driver
	}
	if c.Database.DSN == "" {
		c.Database.DSN = def.Database.DSN
	}
	if c.JWT.ExpireHour <= 0 {
		c.JWT.ExpireHour = def.JWT.ExpireHour
	}
	if c.JWT.RefreshExpireHour <= 0 {
		c.JWT.RefreshExpireHour = def.JWT.RefreshExpireHour
	}
	if c.Quota.FreeLimit <= 0 {
		c.Quota.FreeLimit = def.Quota.FreeLimit
	}
	if c.Quota.ProLimit <= 0 {
		c.Quota.ProLimit = def.Quota.ProLimit
	}
	if c.Quota.EnterpriseLimit <= 0 {
		c.Quota.EnterpriseLimit = def.Quota.EnterpriseLimit
	}
	if c.Quota.ResetCron == "" {
		c.Quota.ResetCron = def.Quota.ResetCron
	}
	if c.Invitation.ExpireDays <= 0 {
		c.Invitation.ExpireDays = def.Invitation.ExpireDays
	}
	if c.AI.TimeoutSeconds <= 0 {
		c.AI.TimeoutSeconds = def.AI.TimeoutSeconds
	}
	if c.AI.Provider == "" {
		c.AI.Provider = def.AI.Provider
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if provider := os.Getenv("AI_PROVIDER"); provider != "" {
		c.AI.Provider = provider
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		c.AI.BaseURL = baseURL
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		c.AI.APIKey = apiKey
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		c.AI.Model = model
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		c.AI.AnthropicAPIKey = apiKey
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	// Redis URL override (format: redis://:password@host:port/db)
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.Enabled = true
		c.parseRedisURL(redisURL)
	}
}

// parseRedisURL parses a Redis URL of the form redis://:password@host:port/db.
func (c *Config) parseRedisURL(redisURL string) {
	url := strings.TrimPrefix(redisURL, "redis://")

	if atIdx := strings.Index(url, "@"); atIdx != -1 {
		authPart := url[:atIdx]
		url = url[atIdx+1:]
		if colonIdx := strings.Index(authPart, ":"); colonIdx != -1 {
			c.Redis.Password = authPart[colonIdx+1:]
		}
	}

	if slashIdx := strings.LastIndex(url, "/"); slashIdx != -1 {
		dbStr := url[slashIdx+1:]
		url = url[:slashIdx]
		if db, err := strconv.Atoi(dbStr); err == nil {
			c.Redis.DB = db
		}
	}

	c.Redis.Addr = url
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// TierLimit returns the monthly usage limit for a subscription tier.
func (c *QuotaConfig) TierLimit(tier string) int {
	switch tier {
	case "pro":
		return c.ProLimit
	case "enterprise":
		return c.EnterpriseLimit
	default:
		return c.FreeLimit
	}
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	MongoDB       MongoDBConfig       `mapstructure:"mongodb"`
	Collections   CollectionsConfig   `mapstructure:"collections"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AppConfig holds application identity settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimit       int64         `mapstructure:"rate_limit"`
	RateWindow      time.Duration `mapstructure:"rate_window"`
}

// MongoDBConfig holds the MongoDB settings.
type MongoDBConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	MaxPoolSize    uint64        `mapstructure:"max_pool_size"`
	MinPoolSize    uint64        `mapstructure:"min_pool_size"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	Timeout        time.Duration `mapstructure:"timeout"`
	UseVault       bool          `mapstructure:"use_vault"`
	VaultPath      string        `mapstructure:"vault_path"`
}

// CollectionsConfig names the MongoDB collections.
type CollectionsConfig struct {
	SportDetail  string `mapstructure:"sport_detail"`
	SubSportType string `mapstructure:"sub_sport_type"`
	Medal        string `mapstructure:"medal"`
	Audient      string `mapstructure:"audient"`
	Keys         string `mapstructure:"keys"`
}

// RedisConfig holds the Redis settings.
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// KafkaConfig holds the Kafka producer settings.
type KafkaConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	Brokers       []string `mapstructure:"brokers"`
	ClientID      string   `mapstructure:"client_id"`
	MedalTopic    string   `mapstructure:"medal_topic"`
	AudienceTopic string   `mapstructure:"audience_topic"`
}

// VaultConfig holds the Vault settings.
type VaultConfig struct {
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	Namespace string `mapstructure:"namespace"`
}

// ObservabilityConfig holds logging, metrics and tracing settings.
type ObservabilityConfig struct {
	LogLevel       string `mapstructure:"log_level"`
	EnableMetrics  bool   `mapstructure:"enable_metrics"`
	EnableTracing  bool   `mapstructure:"enable_tracing"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// Load reads the configuration from config.yaml and SOTA_* environment
// variables. The file is optional; defaults cover local development.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/sota-service")

	v.SetEnvPrefix("SOTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.MongoDB.URI == "" {
		return fmt.Errorf("mongodb uri is required")
	}
	if c.MongoDB.Database == "" {
		return fmt.Errorf("mongodb database is required")
	}
	if c.MongoDB.UseVault && c.Vault.Address == "" {
		return fmt.Errorf("vault address is required when mongodb.use_vault is set")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka brokers are required when kafka is enabled")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sota-service")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit", 1000)
	v.SetDefault("server.rate_window", time.Minute)

	v.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb.database", "Sota")
	v.SetDefault("mongodb.max_pool_size", 100)
	v.SetDefault("mongodb.min_pool_size", 10)
	v.SetDefault("mongodb.connect_timeout", 10*time.Second)
	v.SetDefault("mongodb.timeout", 30*time.Second)
	v.SetDefault("mongodb.use_vault", false)
	v.SetDefault("mongodb.vault_path", "secret/data/mongodb")

	v.SetDefault("collections.sport_detail", "SportDetail")
	v.SetDefault("collections.sub_sport_type", "SubSportType")
	v.SetDefault("collections.medal", "Medal")
	v.SetDefault("collections.audient", "Audient")
	v.SetDefault("collections.keys", "Keys")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl", 30*time.Second)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.client_id", "sota-service")
	v.SetDefault("kafka.medal_topic", "sota.medals.updated")
	v.SetDefault("kafka.audience_topic", "sota.audience.updated")

	v.SetDefault("vault.address", "")

	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.enable_metrics", true)
	v.SetDefault("observability.enable_tracing", false)
	v.SetDefault("observability.jaeger_endpoint", "http://localhost:14268/api/traces")
}

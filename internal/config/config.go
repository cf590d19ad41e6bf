package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var ErrMissingSigningKey = errors.New("api.jwt_signing_key is required")

type AppConfig struct {
	API       *APIConfig       `mapstructure:"api"`
	Gin       *GinConfig       `mapstructure:"gin"`
	Storage   *StorageConfig   `mapstructure:"storage"`
	Postgres  *PostgresConfig  `mapstructure:"postgres"`
	SQLite    *SQLiteConfig    `mapstructure:"sqlite"`
	Mongo     *MongoConfig     `mapstructure:"mongo"`
	Discord   *DiscordConfig   `mapstructure:"discord"`
	Bootstrap *BootstrapConfig `mapstructure:"bootstrap"`

	v *viper.Viper
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	LogLevel           string        `mapstructure:"log_level"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	TokenTTL           time.Duration `mapstructure:"token_ttl"`
	PasswordPattern    string        `mapstructure:"password_pattern"`
	AllowAdminSignup   bool          `mapstructure:"allow_admin_signup"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type MongoConfig struct {
	URI      string        `mapstructure:"uri"`
	Database string        `mapstructure:"database"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type DiscordConfig struct {
	BotToken  string `mapstructure:"bot_token"`
	ChannelID string `mapstructure:"channel_id"`
}

type BootstrapConfig struct {
	AdminName     string `mapstructure:"admin_name"`
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "5000")
	v.SetDefault("api.base_url", "localhost:5000")
	v.SetDefault("api.log_level", "info")
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:3000"})
	v.SetDefault("api.jwt_signing_key", "")
	v.SetDefault("api.token_ttl", 24*time.Hour)
	v.SetDefault("api.password_pattern", `^(?=.*[A-Za-z])(?=.*\d).{8,}$`)
	v.SetDefault("api.allow_admin_signup", false)
	v.SetDefault("api.shutdown_timeout", 10*time.Second)

	v.SetDefault("gin.mode", "debug")

	v.SetDefault("storage.driver", DriverPostgres)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db", "church_members")
	v.SetDefault("postgres.sslmode", "disable")

	v.SetDefault("sqlite.path", "church_members.db")

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "church_members")
	v.SetDefault("mongo.timeout", 10*time.Second)

	v.SetDefault("discord.bot_token", "")
	v.SetDefault("discord.channel_id", "")

	v.SetDefault("bootstrap.admin_name", "Administrator")
	v.SetDefault("bootstrap.admin_email", "")
	v.SetDefault("bootstrap.admin_password", "")
}

// Load reads the YAML file at path. Every key can be overridden from the
// environment by upper-casing it and replacing dots with underscores, e.g.
// API_JWT_SIGNING_KEY.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf, err := unmarshal(v)
	if err != nil {
		return nil, err
	}

	return conf, nil
}

func unmarshal(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{v: v}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if conf.API.JWTSigningKey == "" {
		return nil, ErrMissingSigningKey
	}

	switch conf.Storage.Driver {
	case DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return nil, fmt.Errorf("unknown storage.driver %q", conf.Storage.Driver)
	}

	return conf, nil
}

// Watch calls onChange with the reloaded configuration each time the file
// changes. A reload that fails validation is logged and skipped.
func (c *AppConfig) Watch(onChange func(*AppConfig)) {
	if c.v == nil {
		return
	}

	c.v.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Info("config file changed", zap.String("file", e.Name), zap.String("op", e.Op.String()))

		reloaded, err := unmarshal(c.v)
		if err != nil {
			zap.L().Error("failed to reload config", zap.Error(err))
			return
		}

		onChange(reloaded)
	})
	c.v.WatchConfig()
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Env       string          `mapstructure:"env" validate:"required"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Password  PasswordConfig  `mapstructure:"password"`
	Log       LogConfig       `mapstructure:"log"`
	Superuser SuperuserConfig `mapstructure:"superuser"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Supported values of database.driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite mongo"`
	// DSN is used by the relational drivers, URI and Name by mongo.
	DSN  string `mapstructure:"dsn" validate:"required_unless=Driver mongo"`
	URI  string `mapstructure:"uri" validate:"required_if=Driver mongo"`
	Name string `mapstructure:"name" validate:"required_if=Driver mongo"`

	MaxOpenConns       int           `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns       int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime    time.Duration `mapstructure:"conn_max_lifetime"`
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`
	TraceSQL           bool          `mapstructure:"trace_sql"`
	AutoMigrate        bool          `mapstructure:"auto_migrate"`
	MongoTransactions  bool          `mapstructure:"mongo_transactions"`
}

type S3Config struct {
	Enabled         bool          `mapstructure:"enabled"`
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region" validate:"required_if=Enabled true"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name" validate:"required_if=Enabled true"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret" validate:"required,min=16"`
	Algorithm  string        `mapstructure:"algorithm" validate:"oneof=HS256 HS384 HS512"`
	Expiration time.Duration `mapstructure:"expiration" validate:"gt=0"`
	Issuer     string        `mapstructure:"issuer"`
}

type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// SuperuserConfig seeds the first superuser at startup when Email and
// Password are both set.
type SuperuserConfig struct {
	Email    string `mapstructure:"email" validate:"omitempty,email"`
	Password string `mapstructure:"password" validate:"required_with=Email"`
	FullName string `mapstructure:"full_name"`
}

// Enabled reports whether a bootstrap superuser is configured.
func (s SuperuserConfig) Enabled() bool {
	return s.Email != "" && s.Password != ""
}

var defaults = map[string]any{
	"env": "local",

	"server.address":          ":8080",
	"server.read_timeout":     "10s",
	"server.write_timeout":    "10s",
	"server.idle_timeout":     "120s",
	"server.shutdown_timeout": "5s",

	"database.driver":               DriverSQLite,
	"database.dsn":                  "file:gymhero.db",
	"database.uri":                  "mongodb://localhost:27017",
	"database.name":                 "gymhero",
	"database.max_open_conns":       25,
	"database.max_idle_conns":       5,
	"database.conn_max_lifetime":    "30m",
	"database.slow_query_threshold": "200ms",
	"database.trace_sql":            false,
	"database.auto_migrate":         true,
	"database.mongo_transactions":   false,

	"s3.enabled":           false,
	"s3.endpoint":          "",
	"s3.region":            "us-east-1",
	"s3.access_key_id":     "",
	"s3.secret_access_key": "",
	"s3.bucket_name":       "",
	"s3.use_ssl":           true, // Default to true for cloud providers
	"s3.presign_expiry":    "15m",

	"jwt.secret":     "",
	"jwt.algorithm":  "HS256",
	"jwt.expiration": "30m",
	"jwt.issuer":     "gymhero",

	"password.bcrypt_cost": 10,

	"log.level":  "info",
	"log.format": "json",

	"superuser.email":     "",
	"superuser.password":  "",
	"superuser.full_name": "",
}

// LoadConfig reads configuration from path/config.yaml, a .env file in path
// and environment variables (server.address -> SERVER_ADDRESS), then
// validates the result.
func LoadConfig(path string) (*Config, error) {
	// Existing environment variables win over .env entries.
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No file: defaults and environment only.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

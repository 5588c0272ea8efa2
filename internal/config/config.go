// Configuración de la aplicación
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "BI"

type Config struct {
	Addr        string    `mapstructure:"addr"`
	CORSOrigins []string  `mapstructure:"cors_origins"`
	Bootstrap   bool      `mapstructure:"bootstrap"`
	SecretID    string    `mapstructure:"secret_id"`
	Region      string    `mapstructure:"region"`
	Source      DBConfig  `mapstructure:"oltp"`
	Warehouse   DBConfig  `mapstructure:"olap"`
	Admin       DBConfig  `mapstructure:"admin"`
	MQ          MQConfig  `mapstructure:"mq"`
	S3          S3Config  `mapstructure:"s3"`
	Log         LogConfig `mapstructure:"log"`
}

// Load reads .env, an optional YAML file and BI_* environment variables, in
// that order of precedence (env wins). When a secret id is configured the
// AWS Secrets Manager payload is applied on top.
func Load(ctx context.Context, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("leer .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.SecretID != "" {
		if err := LoadSecretManager(ctx, &cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", getEnv("ADDR", ":8082"))
	v.SetDefault("cors_origins", []string{"http://localhost:5292"})
	v.SetDefault("bootstrap", false)
	v.SetDefault("secret_id", "")
	v.SetDefault("region", "us-east-2")

	for _, db := range []struct{ key, name string }{
		{"oltp", "care_services_oltp"},
		{"olap", "care_services_olap"},
		{"admin", "postgres"},
	} {
		v.SetDefault(db.key+".url", "")
		v.SetDefault(db.key+".host", "localhost")
		v.SetDefault(db.key+".port", "5432")
		v.SetDefault(db.key+".user", "postgres")
		v.SetDefault(db.key+".password", "")
		v.SetDefault(db.key+".name", db.name)
		v.SetDefault(db.key+".sslmode", "disable")
	}

	v.SetDefault("mq.url", "")
	v.SetDefault("mq.host", "")
	v.SetDefault("mq.port", "5671")
	v.SetDefault("mq.user", "")
	v.SetDefault("mq.password", "")
	v.SetDefault("mq.vhost", "")
	v.SetDefault("mq.tls", true)
	v.SetDefault("mq.exchange", "events.topic")
	v.SetDefault("mq.queue", "bi.etl.commands")

	v.SetDefault("s3.region", "")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.prefix", "exports")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if err := c.Source.validate("oltp"); err != nil {
		return err
	}
	if err := c.Warehouse.validate("olap"); err != nil {
		return err
	}
	if c.Bootstrap {
		if err := c.Admin.validate("admin"); err != nil {
			return err
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("invalid log format: %s, must be 'json' or 'console'", c.Log.Format)
	}
	return nil
}

// functions for configs
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

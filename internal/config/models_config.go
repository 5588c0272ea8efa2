package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/care-services/api-bi/internal/utils"
)

// SecretApp is the JSON document stored in AWS Secrets Manager.
type SecretApp struct {
	OLTPURL     string `json:"oltp_url"`
	OLAPURL     string `json:"olap_url"`
	AdminURL    string `json:"admin_url"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
	User        string `json:"username"`
	Pass        string `json:"password"`
	SSL         string `json:"sslmode"`
	S3Bucket    string `json:"bucket"`
	S3Region    string `json:"region"`
	MQ_HOST     string `json:"MQ_HOST"`
	MQ_PASSWORD string `json:"MQ_PASSWORD"`
	MQ_PORT     int    `json:"MQ_PORT"`
	MQ_USER     string `json:"MQ_USER"`
	MQ_VHOST    string `json:"MQ_VHOST"`
}

type DBConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type MQConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	VHost    string `mapstructure:"vhost"`
	TLS      bool   `mapstructure:"tls"`
	Exchange string `mapstructure:"exchange"`
	Queue    string `mapstructure:"queue"`
}

type S3Config struct {
	Region string `mapstructure:"region"`
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type UploadService struct {
	Uploader *manager.Uploader
	Bucket   string
	Prefix   string
}

/// mapping objects

// ConnString returns the configured URL or builds a postgres:// URL from parts.
func (c DBConfig) ConnString() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}
	portInt, err := utils.ConverToint(c.Port)
	if err != nil {
		return "", err
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, portInt),
		Path:   "/" + c.Name,
	}
	if c.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(c.SSLMode)
	}
	return u.String(), nil
}

func (c DBConfig) DatabaseName() string {
	if c.URL == "" {
		return c.Name
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

func (c DBConfig) validate(key string) error {
	if c.URL != "" {
		if _, err := url.Parse(c.URL); err != nil {
			return fmt.Errorf("%s.url is invalid: %w", key, err)
		}
		return nil
	}
	if c.Host == "" {
		return fmt.Errorf("%s.host is required", key)
	}
	if c.Name == "" {
		return fmt.Errorf("%s.name is required", key)
	}
	if _, err := utils.ConverToint(c.Port); err != nil {
		return fmt.Errorf("%s.port: %w", key, err)
	}
	return nil
}

func (m MQConfig) Enabled() bool {
	return m.URL != "" || m.Host != ""
}

func (m MQConfig) ConnString() string {
	if m.URL != "" {
		return m.URL
	}
	scheme := "amqp"
	if m.TLS {
		scheme = "amqps"
	}
	return fmt.Sprintf("%s://%s:%s@%s:%s/%s", scheme, url.QueryEscape(m.User), url.QueryEscape(m.Password), m.Host, m.Port, m.VHost)
}

func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// apply overlays the non-empty secret fields onto cfg.
func (s SecretApp) apply(cfg *Config) {
	if s.Host != "" {
		for _, db := range []*DBConfig{&cfg.Source, &cfg.Warehouse, &cfg.Admin} {
			db.Host = s.Host
			if s.Port != 0 {
				db.Port = fmt.Sprint(s.Port)
			}
			if s.User != "" {
				db.User = s.User
			}
			if s.Pass != "" {
				db.Password = s.Pass
			}
			if s.SSL != "" {
				db.SSLMode = s.SSL
			}
		}
	}
	if s.OLTPURL != "" {
		cfg.Source.URL = s.OLTPURL
	}
	if s.OLAPURL != "" {
		cfg.Warehouse.URL = s.OLAPURL
	}
	if s.AdminURL != "" {
		cfg.Admin.URL = s.AdminURL
	}
	if s.S3Bucket != "" {
		cfg.S3.Bucket = s.S3Bucket
	}
	if s.S3Region != "" {
		cfg.S3.Region = s.S3Region
	}
	if s.MQ_HOST != "" {
		cfg.MQ.Host = s.MQ_HOST
		cfg.MQ.User = s.MQ_USER
		cfg.MQ.Password = s.MQ_PASSWORD
		cfg.MQ.VHost = s.MQ_VHOST
		if s.MQ_PORT != 0 {
			cfg.MQ.Port = fmt.Sprint(s.MQ_PORT)
		}
	}
}

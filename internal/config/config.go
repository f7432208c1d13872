package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env       string
	DB        DBConfig
	Server    ServerConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Media     MediaConfig
	CacheTTLs CacheTTLConfig
}

type DBConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	MaxOpenConns int
	MaxIdleConns int
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimit    int
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LoggerConfig struct {
	Level      string
	Env        string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type AuthConfig struct {
	SecretKey    string
	SessionTTL   time.Duration
	CookieName   string
	SecureCookie bool
}

type MediaConfig struct {
	Backend   string
	Root      string
	URLPrefix string
	Minio     MinioConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type CacheTTLConfig struct {
	ExamResult string
}

const (
	EnvProduction  = "production"
	DriverGoOra    = "oracle"
	DriverGodror   = "godror"
	MediaLocal     = "local"
	MediaMinio     = "minio"
	minSecretBytes = 32
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("db.driver", DriverGoOra)
	v.SetDefault("db.port", 1521)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 20)
	v.SetDefault("server.idle_timeout", 60)
	v.SetDefault("server.body_limit_mb", 10)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.max_size_mb", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age_days", 30)
	v.SetDefault("auth.session_ttl", "336h")
	v.SetDefault("auth.cookie_name", "onlinecourse_session")
	v.SetDefault("media.backend", MediaLocal)
	v.SetDefault("media.root", "media")
	v.SetDefault("media.url_prefix", "/media")
	v.SetDefault("media.minio.bucket", "onlinecourse")
	v.SetDefault("cache_ttls.exam_result", "10m")
}

// LoadConfig reads configs/config.yaml (or ./config.yaml) and applies
// environment overrides, e.g. DB_HOST overrides db.host. A .env file in the
// working directory is loaded first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../configs")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	env := v.GetString("env")
	return &Config{
		Env: env,
		DB: DBConfig{
			Driver:       v.GetString("db.driver"),
			Host:         v.GetString("db.host"),
			Port:         v.GetInt("db.port"),
			User:         v.GetString("db.user"),
			Password:     v.GetString("db.password"),
			DBName:       v.GetString("db.name"),
			MaxOpenConns: v.GetInt("db.max_open_conns"),
			MaxIdleConns: v.GetInt("db.max_idle_conns"),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
			IdleTimeout:  time.Duration(v.GetInt("server.idle_timeout")) * time.Second,
			BodyLimit:    v.GetInt("server.body_limit_mb") * 1024 * 1024,
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level:      v.GetString("logger.level"),
			Env:        env,
			File:       v.GetString("logger.file"),
			MaxSizeMB:  v.GetInt("logger.max_size_mb"),
			MaxBackups: v.GetInt("logger.max_backups"),
			MaxAgeDays: v.GetInt("logger.max_age_days"),
		},
		Auth: AuthConfig{
			SecretKey:    v.GetString("auth.secret_key"),
			SessionTTL:   v.GetDuration("auth.session_ttl"),
			CookieName:   v.GetString("auth.cookie_name"),
			SecureCookie: v.GetBool("auth.secure_cookie"),
		},
		Media: MediaConfig{
			Backend:   v.GetString("media.backend"),
			Root:      v.GetString("media.root"),
			URLPrefix: v.GetString("media.url_prefix"),
			Minio: MinioConfig{
				Endpoint:  v.GetString("media.minio.endpoint"),
				AccessKey: v.GetString("media.minio.access_key"),
				SecretKey: v.GetString("media.minio.secret_key"),
				Bucket:    v.GetString("media.minio.bucket"),
				UseSSL:    v.GetBool("media.minio.use_ssl"),
			},
		},
		CacheTTLs: CacheTTLConfig{
			ExamResult: v.GetString("cache_ttls.exam_result"),
		},
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if len(c.Auth.SecretKey) < minSecretBytes {
		return fmt.Errorf("auth.secret_key must be at least %d bytes", minSecretBytes)
	}
	switch c.DB.Driver {
	case DriverGoOra, DriverGodror:
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	switch c.Media.Backend {
	case MediaLocal:
	case MediaMinio:
		if c.Media.Minio.Endpoint == "" {
			return fmt.Errorf("media.minio.endpoint is required for the minio backend")
		}
	default:
		return fmt.Errorf("unsupported media.backend %q", c.Media.Backend)
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// GetDSN builds the connection string for the configured Oracle driver.
func (c *Config) GetDSN() string {
	if c.DB.Driver == DriverGodror {
		return fmt.Sprintf(`user=%q password=%q connectString="%s:%d/%s"`,
			c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.DBName)
	}
	return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
	)
}

// ParseTTLStringOrDefault parses a duration string such as "10m", returning
// defaultTTL when the string is empty or malformed.
func ParseTTLStringOrDefault(ttlString string, defaultTTL time.Duration) time.Duration {
	if ttlString == "" {
		return defaultTTL
	}
	d, err := time.ParseDuration(ttlString)
	if err != nil || d <= 0 {
		return defaultTTL
	}
	return d
}

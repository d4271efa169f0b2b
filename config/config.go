package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

type Config struct {
	Port      string `envconfig:"PORT" default:"5000"`
	GinMode   string `envconfig:"GIN_MODE" default:"release"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"`

	DBDriver             string        `envconfig:"DB_DRIVER" default:"mongo"`
	MongoURI             string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase        string        `envconfig:"MONGO_DATABASE" default:"hospital"`
	MongoTimeout         time.Duration `envconfig:"MONGO_TIMEOUT" default:"10s"`
	MongoConnectAttempts uint          `envconfig:"MONGO_CONNECT_ATTEMPTS" default:"5"`

	CacheDriver   string        `envconfig:"CACHE_DRIVER" default:"memory"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"10m"`

	UserTokenSecret   string        `envconfig:"USER_TOKEN_SECRET"`
	DoctorTokenSecret string        `envconfig:"DOCTOR_TOKEN_SECRET"`
	AdminTokenSecret  string        `envconfig:"ADMIN_TOKEN_SECRET"`
	UserTokenTTL      time.Duration `envconfig:"USER_TOKEN_TTL" default:"2h"`
	DoctorTokenTTL    time.Duration `envconfig:"DOCTOR_TOKEN_TTL" default:"2h"`
	AdminTokenTTL     time.Duration `envconfig:"ADMIN_TOKEN_TTL" default:"2h"`
	CookieSecure      bool          `envconfig:"COOKIE_SECURE" default:"false"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	LoginRateLimit float64  `envconfig:"LOGIN_RATE_LIMIT" default:"1"`
	LoginBurst     int      `envconfig:"LOGIN_BURST" default:"10"`

	JobsEnabled       bool `envconfig:"JOBS_ENABLED" default:"true"`
	MigrationsEnabled bool `envconfig:"MIGRATIONS_ENABLED" default:"true"`

	AdminUsername string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	MailFrom     string `envconfig:"MAIL_FROM" default:"no-reply@medibook.local"`
}

/*
* Load the .env file when present
* Read the environment into Config
* Validate the result
 */
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every role has its own signing secret and that the
// drivers are known.
func (c *Config) Validate() error {
	secrets := map[string]string{
		"USER_TOKEN_SECRET":   c.UserTokenSecret,
		"DOCTOR_TOKEN_SECRET": c.DoctorTokenSecret,
		"ADMIN_TOKEN_SECRET":  c.AdminTokenSecret,
	}
	for name, v := range secrets {
		if v == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	if c.UserTokenSecret == c.DoctorTokenSecret ||
		c.UserTokenSecret == c.AdminTokenSecret ||
		c.DoctorTokenSecret == c.AdminTokenSecret {
		return errors.New("token secrets must differ between user, doctor and admin")
	}
	if c.DBDriver != DriverMongo && c.DBDriver != DriverMemory {
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.CacheDriver != DriverRedis && c.CacheDriver != DriverMemory {
		return fmt.Errorf("unknown CACHE_DRIVER %q", c.CacheDriver)
	}
	if c.UserTokenTTL <= 0 || c.DoctorTokenTTL <= 0 || c.AdminTokenTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	return nil
}

func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

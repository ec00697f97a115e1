package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Attendance AttendanceConfig
	Report     ReportConfig
	SMTP       SMTPConfig
	Storage    StorageConfig
	CORS       CORSConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int    `env:"APP_PORT" env-default:"8080"`
	Env      string `env:"APP_ENV" env-default:"development"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	Timezone string `env:"APP_TIMEZONE" env-default:"Local"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     int    `env:"DB_PORT" env-default:"5432"`
	User     string `env:"DB_USER" env-default:"postgres"`
	Password string `env:"DB_PASSWORD" env-required:"true"`
	Name     string `env:"DB_NAME" env-default:"timenest"`
	SSLMode  string `env:"DB_SSL_MODE" env-default:"disable"`
	MaxConns int32  `env:"DB_MAX_CONNS" env-default:"25"`
	MinConns int32  `env:"DB_MIN_CONNS" env-default:"5"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string `env:"JWT_SECRET_KEY" env-required:"true"`
	AccessExpiration string `env:"JWT_ACCESS_EXPIRATION_TIME" env-default:"1h"`
}

// AttendanceConfig holds check-in classification settings.
type AttendanceConfig struct {
	// LateThreshold is the local HH:MM after which a check-in counts as late.
	LateThreshold string `env:"ATTENDANCE_LATE_THRESHOLD" env-default:"09:00"`
}

// ReportConfig holds weekly report settings.
type ReportConfig struct {
	HireDatePolicy string        `env:"REPORT_HIRE_DATE_POLICY" env-default:"count"`
	Recipients     []string      `env:"REPORT_RECIPIENTS" env-separator:","`
	CheckInterval  time.Duration `env:"REPORT_CHECK_INTERVAL" env-default:"1h"`
	SendWeekday    string        `env:"REPORT_SEND_WEEKDAY" env-default:"Monday"`
	SendHour       int           `env:"REPORT_SEND_HOUR" env-default:"1"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" env-default:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" env-default:"no-reply@timenest.local"`
	FromName string `env:"SMTP_FROM_NAME" env-default:"TimeNest Support"`
}

type StorageConfig struct {
	BasePath string `env:"STORAGE_BASE_PATH" env-default:"./storage"`
	// BaseURL is where an external file server publishes BasePath.
	// Empty means archived reports are not linked from the weekly mail.
	BaseURL string `env:"STORAGE_BASE_URL"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5174"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		slog.Debug("No .env file found, reading configuration from environment")
	}

	config := &Config{}
	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if _, err := time.Parse("15:04", c.Attendance.LateThreshold); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_LATE_THRESHOLD %q: must be HH:MM", c.Attendance.LateThreshold)
	}
	switch c.Report.HireDatePolicy {
	case "count", "exclude":
	default:
		return fmt.Errorf("invalid REPORT_HIRE_DATE_POLICY %q: must be count or exclude", c.Report.HireDatePolicy)
	}
	if _, err := c.ReportWeekday(); err != nil {
		return err
	}
	if c.Report.SendHour < 0 || c.Report.SendHour > 23 {
		return fmt.Errorf("REPORT_SEND_HOUR must be between 0 and 23")
	}
	return nil
}

// Location returns the single local zone all day keys are computed in.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}

// LateThreshold returns the configured cutoff as an offset from local midnight.
func (c *Config) LateThreshold() time.Duration {
	t, err := time.Parse("15:04", c.Attendance.LateThreshold)
	if err != nil {
		return 9 * time.Hour
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
}

// ReportWeekday parses REPORT_SEND_WEEKDAY.
func (c *Config) ReportWeekday() (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), c.Report.SendWeekday) {
			return d, nil
		}
	}
	return time.Monday, fmt.Errorf("invalid REPORT_SEND_WEEKDAY %q", c.Report.SendWeekday)
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

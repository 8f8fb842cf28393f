package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-BookingListing/internal/domain"
)

// ErrInvalidConfig возвращается, когда конфигурация не проходит проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Engine   EngineConfig   `toml:"engine"`
}

// ServerConfig настройки HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к БД
type DatabaseConfig struct {
	Driver          string `toml:"driver"` // mysql или sqlite
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	Path            string `toml:"path"` // файл базы sqlite
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	Migrate         bool   `toml:"migrate"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// EngineConfig настройки движка запросов листинга
type EngineConfig struct {
	TablePrefix           string `toml:"table_prefix"`
	UTCOffset             string `toml:"utc_offset"` // "+03:00"
	MultiResourceDates    bool   `toml:"multi_resource_dates"`
	Strict                bool   `toml:"strict"`
	DefaultPageSize       int    `toml:"default_page_size"`
	MaxPageSize           int    `toml:"max_page_size"`
	ShortDaysLayout       string `toml:"short_days_layout"`
	SplitRunsOnTypeChange bool   `toml:"split_runs_on_type_change"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Driver:          string(domain.DialectSQLite),
			Host:            "localhost",
			Port:            3306,
			Path:            "data/booking.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "booking-listing",
		},
		Engine: EngineConfig{
			UTCOffset:       "+00:00",
			DefaultPageSize: domain.DefaultPageSize,
			MaxPageSize:     domain.MaxPageSize,
			ShortDaysLayout: domain.DateFormat,
		},
	}
}

// Load читает конфигурацию из TOML файла поверх значений по умолчанию.
// Переменные окружения (и файл .env рядом с конфигом) переопределяют секреты
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	// .env необязателен, но испорченный файл является ошибкой
	envPath := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: load %s: %w", envPath, err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok {
		c.Database.Password = v
	}
	if v, ok := os.LookupEnv("DB_USER"); ok {
		c.Database.User = v
	}
	if v, ok := os.LookupEnv("DB_HOST"); ok {
		c.Database.Host = v
	}
	if v, ok := os.LookupEnv("DB_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v, ok := os.LookupEnv("HTTP_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.HTTPPort = port
		}
	}
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	if _, ok := domain.ParseDialect(c.Database.Driver); !ok {
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, c.Database.Driver)
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if _, err := ParseUTCOffset(c.Engine.UTCOffset); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Engine.DefaultPageSize <= 0 || c.Engine.MaxPageSize < c.Engine.DefaultPageSize || c.Engine.MaxPageSize > domain.MaxPageSize {
		return fmt.Errorf("%w: page sizes default=%d max=%d", ErrInvalidConfig, c.Engine.DefaultPageSize, c.Engine.MaxPageSize)
	}
	if c.Engine.TablePrefix != "" && c.Database.Migrate {
		return fmt.Errorf("%w: migrations are only available without table_prefix", ErrInvalidConfig)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("%w: metrics path must start with /", ErrInvalidConfig)
	}
	return nil
}

// Dialect возвращает диалект SQL по драйверу
func (c *Config) Dialect() domain.Dialect {
	d, _ := domain.ParseDialect(c.Database.Driver)
	return d
}

// DriverName возвращает имя драйвера database/sql
func (c *Config) DriverName() string {
	if c.Dialect() == domain.DialectMySQL {
		return "mysql"
	}
	return "sqlite3"
}

// UTCOffset возвращает смещение часового пояса сайта
func (c *Config) UTCOffset() time.Duration {
	offset, _ := ParseUTCOffset(c.Engine.UTCOffset)
	return offset
}

// DSN возвращает строку подключения для драйвера
func (c *Config) DSN() string {
	if c.Dialect() == domain.DialectMySQL {
		return c.mysqlDSN()
	}
	return sqliteDSN(c.Database.Path)
}

func (c *Config) mysqlDSN() string {
	m := mysql.NewConfig()
	m.User = c.Database.User
	m.Passwd = c.Database.Password
	m.Net = "tcp"
	m.Addr = net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port))
	m.DBName = c.Database.DBName
	m.ParseTime = true
	m.Loc = time.UTC
	// CURDATE() и NOW() считаются в часовом поясе сайта
	m.Params = map[string]string{
		"time_zone": "'" + FormatUTCOffset(c.UTCOffset()) + "'",
	}
	return m.FormatDSN()
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "_fk=") {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&_fk=1"
	}
	return path + "?_fk=1"
}

// ParseUTCOffset разбирает смещение вида "+03:00", "-05:30" или "0"
func ParseUTCOffset(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return 0, nil
	}

	sign := time.Duration(1)
	switch raw[0] {
	case '+':
		raw = raw[1:]
	case '-':
		sign = -1
		raw = raw[1:]
	}

	parts := strings.Split(raw, ":")
	if len(parts) > 2 {
		return 0, fmt.Errorf("invalid utc offset %q", raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours > 14 {
		return 0, fmt.Errorf("invalid utc offset hours %q", raw)
	}
	minutes := 0
	if len(parts) == 2 {
		minutes, err = strconv.Atoi(parts[1])
		if err != nil || minutes < 0 || minutes >= 60 {
			return 0, fmt.Errorf("invalid utc offset minutes %q", raw)
		}
	}

	return sign * (time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute), nil
}

// FormatUTCOffset форматирует смещение как "+03:00"
func FormatUTCOffset(offset time.Duration) string {
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hours := int(offset / time.Hour)
	minutes := int((offset % time.Hour) / time.Minute)
	return fmt.Sprintf("%s%02d:%02d", sign, hours, minutes)
}

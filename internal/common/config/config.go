// internal/common/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Model      ModelConfig      `mapstructure:"model"`
	Session    SessionConfig    `mapstructure:"session"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Escalation EscalationConfig `mapstructure:"escalation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig configures the HTTP and websocket front ends.
type ServerConfig struct {
	Address         string   `mapstructure:"address"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	MaxMessageBytes int64    `mapstructure:"max_message_bytes"`
}

// ModelConfig points at the versioned classifier artifacts.
type ModelConfig struct {
	Dir            string `mapstructure:"dir"`
	VectorizerFile string `mapstructure:"vectorizer_file"`
	ClassifierFile string `mapstructure:"classifier_file"`
	MappingsFile   string `mapstructure:"mappings_file"`
}

func (m ModelConfig) VectorizerPath() string { return m.resolve(m.VectorizerFile) }
func (m ModelConfig) ClassifierPath() string { return m.resolve(m.ClassifierFile) }
func (m ModelConfig) MappingsPath() string   { return m.resolve(m.MappingsFile) }

func (m ModelConfig) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) || m.Dir == "" {
		return name
	}
	return filepath.Join(m.Dir, name)
}

// Session backends.
const (
	SessionBackendMemory   = "memory"
	SessionBackendRedis    = "redis"
	SessionBackendPostgres = "postgres"
)

type SessionConfig struct {
	Backend       string `mapstructure:"backend"`
	IdleTimeout   int    `mapstructure:"idle_timeout"`   // milliseconds
	SweepInterval int    `mapstructure:"sweep_interval"` // milliseconds
	KeyPrefix     string `mapstructure:"key_prefix"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// EscalationConfig controls the human-handoff notifier.
type EscalationConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Region   string `mapstructure:"region"`
	TopicARN string `mapstructure:"topic_arn"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds
}

// Span exporters.
const (
	TracingExporterNone   = "none"
	TracingExporterStdout = "stdout"
)

// TracingConfig selects where prediction spans are exported.
type TracingConfig struct {
	Exporter    string  `mapstructure:"exporter"`
	Output      string  `mapstructure:"output"` // stdout, stderr or a file path
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

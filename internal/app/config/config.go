package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		Env  string
		Port string
		Host string
	}

	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Presence struct {
		// Período de graça entre a última conexão fechar e o usuário ser
		// declarado offline; absorve reloads e quedas breves de rede
		GracePeriod time.Duration

		// Varredura de reconciliação do status durável
		SweepInterval     time.Duration
		InactiveThreshold time.Duration

		// Intervalo mínimo entre escritas de última atividade por heartbeat
		HeartbeatPersistInterval time.Duration

		// Tamanho do buffer de eventos por observador
		ObserverBuffer int
	}

	Logging struct {
		Level          string
		Output         string
		ConsoleFormat  string
		FileFormat     string
		FilePath       string
		FileMaxSize    int
		FileMaxBackups int
		FileMaxAge     int
		FileCompress   bool
		ConsoleColors  bool
	}

	RateLimit struct {
		Requests int
		Window   time.Duration
	}

	CORS struct {
		AllowedOrigins string
	}
}

func LoadConfig() (*Config, error) {
	// Carregar .env se existir
	_ = godotenv.Load()

	cfg := &Config{}

	// App
	cfg.App.Env = getEnv("APP_ENV", "development")
	cfg.App.Port = getEnv("APP_PORT", "8080")
	cfg.App.Host = getEnv("APP_HOST", "0.0.0.0")

	// Database
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnv("DB_PORT", "5432")
	cfg.Database.User = getEnv("DB_USER", "atendo")
	cfg.Database.Password = getEnv("DB_PASSWORD", "atendo123")
	cfg.Database.Name = getEnv("DB_NAME", "atendo")
	cfg.Database.SSLMode = getEnv("DB_SSL_MODE", "disable")

	// Redis (espelho de presença; desabilitado quando Addr é vazio)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	// Presence
	cfg.Presence.GracePeriod = getEnvAsDuration("PRESENCE_GRACE_PERIOD", 5*time.Second)
	cfg.Presence.SweepInterval = getEnvAsDuration("PRESENCE_SWEEP_INTERVAL", 1*time.Minute)
	cfg.Presence.InactiveThreshold = getEnvAsDuration("PRESENCE_INACTIVE_THRESHOLD", 5*time.Minute)
	cfg.Presence.HeartbeatPersistInterval = getEnvAsDuration("PRESENCE_HEARTBEAT_PERSIST_INTERVAL", 30*time.Second)
	cfg.Presence.ObserverBuffer = getEnvAsInt("PRESENCE_OBSERVER_BUFFER", 64)

	// Logging
	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")
	cfg.Logging.Output = getEnv("LOG_OUTPUT", "dual")
	cfg.Logging.ConsoleFormat = getEnv("LOG_CONSOLE_FORMAT", "console")
	cfg.Logging.FileFormat = getEnv("LOG_FILE_FORMAT", "json")
	cfg.Logging.FilePath = getEnv("LOG_FILE_PATH", "logs/atendo.log")
	cfg.Logging.FileMaxSize = getEnvAsInt("LOG_FILE_MAX_SIZE", 100)
	cfg.Logging.FileMaxBackups = getEnvAsInt("LOG_FILE_MAX_BACKUPS", 3)
	cfg.Logging.FileMaxAge = getEnvAsInt("LOG_FILE_MAX_AGE", 28)
	cfg.Logging.FileCompress = getEnvAsBool("LOG_FILE_COMPRESS", true)
	cfg.Logging.ConsoleColors = getEnvAsBool("LOG_CONSOLE_COLORS", true)

	// Rate Limit
	cfg.RateLimit.Requests = getEnvAsInt("RATE_LIMIT_REQUESTS", 100)
	cfg.RateLimit.Window = getEnvAsDuration("RATE_LIMIT_WINDOW", 1*time.Minute)

	// CORS
	cfg.CORS.AllowedOrigins = getEnv("CORS_ALLOWED_ORIGINS", "*")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func (c *Config) GetDatabaseDSN() string {
	return "postgres://" + c.Database.User + ":" + c.Database.Password +
		"@" + c.Database.Host + ":" + c.Database.Port +
		"/" + c.Database.Name + "?sslmode=" + c.Database.SSLMode
}

// RedisEnabled indica se o espelho de presença em Redis deve ser ligado
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

// Implementação da interface ConfigProvider para integração com o logger
func (c *Config) GetLogLevel() string         { return c.Logging.Level }
func (c *Config) GetLogOutput() string        { return c.Logging.Output }
func (c *Config) GetLogConsoleFormat() string { return c.Logging.ConsoleFormat }
func (c *Config) GetLogFileFormat() string    { return c.Logging.FileFormat }
func (c *Config) GetLogFilePath() string      { return c.Logging.FilePath }
func (c *Config) GetLogFileMaxSize() int      { return c.Logging.FileMaxSize }
func (c *Config) GetLogFileMaxBackups() int   { return c.Logging.FileMaxBackups }
func (c *Config) GetLogFileMaxAge() int       { return c.Logging.FileMaxAge }
func (c *Config) GetLogFileCompress() bool    { return c.Logging.FileCompress }
func (c *Config) GetLogConsoleColors() bool   { return c.Logging.ConsoleColors }

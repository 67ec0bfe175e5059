package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	Session   SessionConfig
	HTTP      HTTPConfig
	Redis     RedisConfig
	Mail      MailConfig
	RateLimit RateLimitConfig
	Worker    WorkerConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	BaseURL  string // base para armar enlaces de emails (verificación, login)
	// AllowCancelAfterShip permite cancelar pedidos ya despachados.
	AllowCancelAfterShip bool
	// SignupTrialDays días de suscripción de una empresa recién registrada; 0 = nace vencida.
	SignupTrialDays int
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL    string
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrateOnStart bool
	// Tamaño y reciclado del pool de pgx.
	MaxConns            int
	MinConns            int
	MaxConnLifetimeMins int
	MaxConnIdleMins     int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// SessionConfig secretos y duración de las dos sesiones (tenant y boss), siempre independientes.
type SessionConfig struct {
	TenantSecret     string
	BossSecret       string
	TenantTTLMinutes int
	BossTTLMinutes   int
	Issuer           string
	CookieSecure     bool
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig conexión a Redis (cola de emails y rate limit).
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr devuelve host:port.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MailConfig SMTP usado por el worker. Enabled=false encola igual pero el worker solo registra.
type MailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// RateLimitConfig límite de intentos de login, formato ulule ("10-M" = 10 por minuto).
type RateLimitConfig struct {
	Enabled bool
	Login   string
}

// WorkerConfig concurrencia del worker de asynq.
type WorkerConfig struct {
	Concurrency int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DATABASE_URL, SESSION_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:                  getString(v, "APP_ENV", "development"),
			Name:                 getString(v, "APP_NAME", "fieldsales-api"),
			LogLevel:             getString(v, "LOG_LEVEL", "info"),
			BaseURL:              strings.TrimRight(getString(v, "APP_BASE_URL", "http://localhost:8080"), "/"),
			AllowCancelAfterShip: getBool(v, "ALLOW_CANCEL_AFTER_SHIP", false),
			SignupTrialDays:      getInt(v, "SIGNUP_TRIAL_DAYS", 14),
		},
		DB: DBConfig{
			DatabaseURL:    getString(v, "DATABASE_URL", ""),
			Host:           getString(v, "DB_HOST", "localhost"),
			Port:           getInt(v, "DB_PORT", 5432),
			User:           getString(v, "DB_USER", "postgres"),
			Password:       getString(v, "DB_PASSWORD", ""),
			DBName:         getString(v, "DB_NAME", "fieldsales"),
			SSLMode:        getString(v, "DB_SSLMODE", "disable"),
			MigrateOnStart: getBool(v, "DB_MIGRATE", true),

			MaxConns:            getInt(v, "DB_MAX_CONNS", 10),
			MinConns:            getInt(v, "DB_MIN_CONNS", 1),
			MaxConnLifetimeMins: getInt(v, "DB_MAX_CONN_LIFETIME_MINUTES", 60),
			MaxConnIdleMins:     getInt(v, "DB_MAX_CONN_IDLE_MINUTES", 15),
		},
		Session: SessionConfig{
			TenantSecret:     getString(v, "SESSION_SECRET", ""),
			BossSecret:       getString(v, "BOSS_SESSION_SECRET", ""),
			TenantTTLMinutes: getInt(v, "SESSION_TTL_MINUTES", 7*24*60),
			BossTTLMinutes:   getInt(v, "BOSS_SESSION_TTL_MINUTES", 7*24*60),
			Issuer:           getString(v, "SESSION_ISSUER", "fieldsales-api"),
			CookieSecure:     getBool(v, "COOKIE_SECURE", false),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			CORSOrigins: getString(v, "CORS_ORIGINS", "*"),
		},
		Redis: RedisConfig{
			Host:     getString(v, "REDIS_HOST", "localhost"),
			Port:     getInt(v, "REDIS_PORT", 6379),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Mail: MailConfig{
			Enabled:  getBool(v, "MAIL_ENABLED", false),
			Host:     getString(v, "SMTP_HOST", "localhost"),
			Port:     getInt(v, "SMTP_PORT", 587),
			Username: getString(v, "SMTP_USERNAME", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "MAIL_FROM", "no-reply@fieldsales.local"),
		},
		RateLimit: RateLimitConfig{
			Enabled: getBool(v, "RATE_LIMIT_ENABLED", true),
			Login:   getString(v, "RATE_LIMIT_LOGIN", "10-M"),
		},
		Worker: WorkerConfig{
			Concurrency: getInt(v, "WORKER_CONCURRENCY", 10),
		},
	}

	if cfg.Session.TenantSecret == "" || cfg.Session.BossSecret == "" {
		return nil, fmt.Errorf("config: SESSION_SECRET y BOSS_SESSION_SECRET son obligatorios")
	}
	if cfg.App.SignupTrialDays < 0 {
		cfg.App.SignupTrialDays = 0
	}
	if cfg.DB.MaxConns < 1 {
		return nil, fmt.Errorf("config: DB_MAX_CONNS debe ser al menos 1")
	}
	if cfg.DB.MinConns < 0 || cfg.DB.MinConns > cfg.DB.MaxConns {
		return nil, fmt.Errorf("config: DB_MIN_CONNS debe estar entre 0 y DB_MAX_CONNS")
	}
	if cfg.Session.TenantSecret == cfg.Session.BossSecret {
		return nil, fmt.Errorf("config: SESSION_SECRET y BOSS_SESSION_SECRET deben ser distintos")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

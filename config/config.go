package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backends disponibles para la agenda
const (
	AgendaMemoria = "memoria"
	AgendaRedis   = "redis"
)

// Config contiene toda la configuración del servidor, leída del entorno
type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPassword  string `mapstructure:"DB_PASSWORD"`
	DBName      string `mapstructure:"DB_NAME"`
	DBSSLMode   string `mapstructure:"DB_SSLMODE"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	AdminName     string `mapstructure:"ADMIN_NAME"`

	OneSignalAppID      string        `mapstructure:"ONESIGNAL_APP_ID"`
	OneSignalRestKey    string        `mapstructure:"ONESIGNAL_REST_API_KEY"`
	OneSignalAPIURL     string        `mapstructure:"ONESIGNAL_API_URL"`
	NotificationTimeout time.Duration `mapstructure:"NOTIFICATION_TIMEOUT"`

	VerifyURL string `mapstructure:"VERIFY_URL"`
	AssetsDir string `mapstructure:"ASSETS_DIR"`

	AgendaBackend string `mapstructure:"AGENDA_BACKEND"`
	RedisURL      string `mapstructure:"REDIS_URL"`

	PDFRequireAuth           bool `mapstructure:"PDF_REQUIRE_AUTH"`
	NotificationsRequireAuth bool `mapstructure:"NOTIFICATIONS_REQUIRE_AUTH"`
}

var claves = []string{
	"PORT", "ENVIRONMENT", "LOG_LEVEL", "CORS_ORIGINS",
	"DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
	"JWT_SECRET",
	"ADMIN_EMAIL", "ADMIN_PASSWORD", "ADMIN_NAME",
	"ONESIGNAL_APP_ID", "ONESIGNAL_REST_API_KEY", "ONESIGNAL_API_URL", "NOTIFICATION_TIMEOUT",
	"VERIFY_URL", "ASSETS_DIR",
	"AGENDA_BACKEND", "REDIS_URL",
	"PDF_REQUIRE_AUTH", "NOTIFICATIONS_REQUIRE_AUTH",
}

// Cargar lee la configuración desde variables de entorno (y .env si existe)
func Cargar() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("ONESIGNAL_API_URL", "https://onesignal.com/api/v1/notifications")
	v.SetDefault("NOTIFICATION_TIMEOUT", "10s")
	v.SetDefault("VERIFY_URL", "https://heydoctor.health/verify")
	v.SetDefault("ASSETS_DIR", "assets")
	v.SetDefault("AGENDA_BACKEND", AgendaMemoria)
	v.SetDefault("PDF_REQUIRE_AUTH", false)
	v.SetDefault("NOTIFICATIONS_REQUIRE_AUTH", false)

	for _, clave := range claves {
		_ = v.BindEnv(clave)
	}

	// El archivo .env es opcional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = cfg.urlDesdeParametros()
	}
	if err := cfg.Validar(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validar revisa que las combinaciones de configuración tengan sentido
func (c *Config) Validar() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL o DB_HOST/DB_NAME son requeridos")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET es requerido")
	}
	switch c.AgendaBackend {
	case AgendaMemoria:
	case AgendaRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL es requerido cuando AGENDA_BACKEND=redis")
		}
	default:
		return fmt.Errorf("AGENDA_BACKEND inválido: %q", c.AgendaBackend)
	}
	return nil
}

// urlDesdeParametros arma la cadena de conexión a partir de DB_*
func (c *Config) urlDesdeParametros() string {
	if c.DBHost == "" || c.DBName == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	if c.DBUser != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPassword)
	}
	return u.String()
}

// IsDev indica si el servidor corre en modo desarrollo
func (c *Config) IsDev() bool {
	return c.Environment == "development"
}

// OrigenesCORS devuelve los orígenes permitidos en el formato que espera Fiber
func (c *Config) OrigenesCORS() string {
	partes := strings.Split(c.CORSOrigins, ",")
	for i := range partes {
		partes[i] = strings.TrimSpace(partes[i])
	}
	return strings.Join(partes, ",")
}

// NotificacionesConfiguradas indica si hay credenciales del proveedor de push
func (c *Config) NotificacionesConfiguradas() bool {
	return c.OneSignalAppID != "" && c.OneSignalRestKey != ""
}

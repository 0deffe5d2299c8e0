package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	JWT     JWTConfig
	Store   StoreConfig
	Extract ExtractConfig
	Export  ExportConfig
	Log     LogConfig
	CORS    CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// JWTConfig holds JWT verification settings.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// StoreConfig holds invoice store settings. Provider is "memory" or
// "firestore".
type StoreConfig struct {
	Provider        string `mapstructure:"provider"`
	ProjectID       string `mapstructure:"project_id"`
	Collection      string `mapstructure:"collection"`
	CredentialsJSON string `mapstructure:"credentials_json"`
}

// ExtractConfig holds invoice scanning model settings.
type ExtractConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ExportConfig holds CSV export and table presentation settings.
type ExportConfig struct {
	DecimalComma bool `mapstructure:"decimal_comma"`
	PageSize     int  `mapstructure:"page_size"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the EXCELSAVER_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("EXCELSAVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "excelsaver")

	// Store defaults
	v.SetDefault("store.provider", "memory")
	v.SetDefault("store.project_id", "")
	v.SetDefault("store.collection", "invoices")
	v.SetDefault("store.credentials_json", "")

	// Extraction defaults
	v.SetDefault("extract.api_key", "")
	v.SetDefault("extract.model", "gemini-2.0-flash")
	v.SetDefault("extract.timeout_secs", 60)

	// Export defaults
	v.SetDefault("export.decimal_comma", true)
	v.SetDefault("export.page_size", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":            "EXCELSAVER_SERVER_PORT",
		"server.read_timeout":    "EXCELSAVER_SERVER_READ_TIMEOUT",
		"server.write_timeout":   "EXCELSAVER_SERVER_WRITE_TIMEOUT",
		"server.environment":     "EXCELSAVER_SERVER_ENVIRONMENT",
		"jwt.secret":             "EXCELSAVER_JWT_SECRET",
		"jwt.issuer":             "EXCELSAVER_JWT_ISSUER",
		"store.provider":         "EXCELSAVER_STORE_PROVIDER",
		"store.project_id":       "EXCELSAVER_STORE_PROJECT_ID",
		"store.collection":       "EXCELSAVER_STORE_COLLECTION",
		"store.credentials_json": "EXCELSAVER_STORE_CREDENTIALS_JSON",
		"extract.api_key":        "EXCELSAVER_EXTRACT_API_KEY",
		"extract.model":          "EXCELSAVER_EXTRACT_MODEL",
		"extract.timeout_secs":   "EXCELSAVER_EXTRACT_TIMEOUT_SECS",
		"export.decimal_comma":   "EXCELSAVER_EXPORT_DECIMAL_COMMA",
		"export.page_size":       "EXCELSAVER_EXPORT_PAGE_SIZE",
		"log.level":              "EXCELSAVER_LOG_LEVEL",
		"log.format":             "EXCELSAVER_LOG_FORMAT",
		"cors.allowed_origins":   "EXCELSAVER_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if EXCELSAVER_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("EXCELSAVER_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.Store = StoreConfig{
		Provider:        v.GetString("store.provider"),
		ProjectID:       v.GetString("store.project_id"),
		Collection:      v.GetString("store.collection"),
		CredentialsJSON: v.GetString("store.credentials_json"),
	}
	cfg.Extract = ExtractConfig{
		APIKey:      v.GetString("extract.api_key"),
		Model:       v.GetString("extract.model"),
		TimeoutSecs: v.GetInt("extract.timeout_secs"),
	}
	cfg.Export = ExportConfig{
		DecimalComma: v.GetBool("export.decimal_comma"),
		PageSize:     v.GetInt("export.page_size"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}

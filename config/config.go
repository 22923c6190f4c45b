package config

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"github.com/nyayasankalan/case-api/models"
)

// Config holds the project config values
type Config struct {
	Port    string `yaml:"port" env:"PORT" env-default:"5000" env-description:"HTTP listen port"`
	BaseURL string `yaml:"base_url" env:"BASE_URL" env-description:"public base url, logged at start-up"`
	Env     string `yaml:"env" env:"APP_ENV" env-default:"development" env-description:"production, development or local"`

	DBDriver     string `yaml:"db_driver" env:"DB_DRIVER" env-default:"postgres" env-description:"postgres, sqlite or mongo"`
	DatabaseURL  string `yaml:"database_url" env:"DATABASE_URL" env-description:"DSN, sqlite file path or mongo URI"`
	DatabaseName string `yaml:"db_name" env:"DB_NAME" env-default:"nyaya" env-description:"mongo database name"`
	AutoMigrate  bool   `yaml:"auto_migrate" env:"AUTO_MIGRATE" env-default:"false" env-description:"apply migrations on serve"`

	JWTSecret    string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true" env-description:"HS256 secret of access tokens"`
	AuthCacheTTL time.Duration `yaml:"auth_cache_ttl" env:"AUTH_CACHE_TTL" env-default:"5m"`

	RequestTimeout         time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT" env-default:"30s"`
	MetricsRefreshSchedule string        `yaml:"metrics_refresh_schedule" env:"METRICS_REFRESH_SCHEDULE" env-default:"@every 5m"`
}

// New reads the config from the environment and installs the global logger
func New() (*Config, error) {
	return Load("")
}

// Load reads the config from the yaml file at path, when set, overridden by the
// environment, and installs the global logger for the configured environment.
func Load(path string) (*Config, error) {
	conf := &Config{}
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, conf)
	} else {
		err = cleanenv.ReadEnv(conf)
	}
	if err != nil {
		return nil, err
	}

	if _, err := setLogger(conf.Env); err != nil {
		return nil, err
	}
	return conf, nil
}

// Usage describes every environment variable the service reads
func Usage() string {
	desc, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return desc
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	if httpStatusCode >= http.StatusInternalServerError {
		zap.S().Errorw(message, "status", httpStatusCode, "error", err)
	} else {
		zap.S().Debugw(message, "status", httpStatusCode, "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	_ = json.NewEncoder(w).Encode(models.Response{Success: false, Error: message})
}

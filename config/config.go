package config

import (
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// EnvDevelopment switches logging to human-readable text.
const EnvDevelopment = "DEV"

const (
	DefaultWebhookURL     = "https://n8nier-brcffpabhghvemf7.malaysiawest-01.azurewebsites.net/webhook/article-analyzer"
	DefaultForwardTimeout = 15 * time.Second
)

type AppConfig struct {
	WebhookURL     string
	Host           string
	Port           int
	ForwardTimeout time.Duration
	ProxyURL       string
	AppEnv         string
	LogLevel       slog.Level
}

var Config AppConfig

func LoadConfig() error {
	cfg := AppConfig{}

	cfg.AppEnv = os.Getenv("APP_ENV")
	cfg.ProxyURL = os.Getenv("PROXY_URL")
	cfg.Host = loadOptional("HOST", "0.0.0.0")

	// N8N_WEBHOOK_URL is what older deployments set.
	cfg.WebhookURL = loadOptional("WEBHOOK_URL", loadOptional("N8N_WEBHOOK_URL", DefaultWebhookURL))
	if err := validateWebhookURL(cfg.WebhookURL); err != nil {
		return err
	}

	port, err := strconv.Atoi(loadOptional("PORT", "8000"))
	if err != nil || port <= 0 || port > 65535 {
		return errors.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}
	cfg.Port = port

	cfg.ForwardTimeout, err = time.ParseDuration(loadOptional("FORWARD_TIMEOUT", DefaultForwardTimeout.String()))
	if err != nil {
		return errors.Wrap(err, "invalid FORWARD_TIMEOUT")
	}
	if cfg.ForwardTimeout <= 0 {
		return errors.Errorf("FORWARD_TIMEOUT must be positive, got %s", cfg.ForwardTimeout)
	}

	lvlString := loadOptional("LOG_LEVEL", "INFO")
	cfg.LogLevel, err = parseLogLevel(lvlString)
	if err != nil {
		slog.Error("Invalid LOG_LEVEL", "error", err)
		cfg.LogLevel = slog.LevelInfo
	}

	Config = cfg
	return nil
}

func validateWebhookURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrap(err, "invalid WEBHOOK_URL")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Errorf("WEBHOOK_URL must be an absolute http(s) URL, got %q", raw)
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	var err = level.UnmarshalText([]byte(s))
	return level, err
}

func loadOptional(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func (c AppConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

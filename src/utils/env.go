package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

const DEV_ENV_FILENAME = ".env.development"
const PROD_ENV_FILENAME = ".env.production"

// Config is the process configuration read from the environment.
type Config struct {
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	TelegramChatID   int64  `envconfig:"TELEGRAM_CHAT_ID" required:"true"`
	TelegramAPIURL   string `envconfig:"TELEGRAM_API_URL" default:"https://api.telegram.org"`
	PumpPortalWsURL  string `envconfig:"PUMPPORTAL_WS_URL" default:"wss://pumpportal.fun/api/data"`
	BinancePriceURL  string `envconfig:"BINANCE_PRICE_URL" default:"https://api.binance.com/api/v3/ticker/price?symbol=SOLUSDT"`
	Port             string `envconfig:"PORT" default:"4000"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
	GoEnv            string `envconfig:"GO_ENV" default:"development"`
	PolicyConfigFile string `envconfig:"POLICY_CONFIG_FILE"`
	OtelEnabled      bool   `envconfig:"OTEL_ENABLED" default:"false"`
	MonitorAutostart bool   `envconfig:"MONITOR_AUTOSTART" default:"false"`
}

// InitEnvironmentVariables loads the .env file matching goEnv from envDir. A missing file is not
// an error: hosted deployments set their variables directly.
func InitEnvironmentVariables(envDir, goEnv string) error {
	envFile := filepath.Join(envDir, DEV_ENV_FILENAME)
	if goEnv == "production" {
		log.Info("Running in production environment")
		envFile = filepath.Join(envDir, PROD_ENV_FILENAME)
	}

	if _, err := os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
		log.Debugf("no %s found, using process environment", envFile)
		return nil
	}

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load %s file: %w", envFile, err)
	}

	return nil
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("LoadConfig: failed to process environment: %w", err)
	}

	return &cfg, nil
}

package logger

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otellogrus"
)

// Setup configures the global logrus logger. Production emits JSON, everything else emits text.
func Setup(level, goEnv string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logger.Setup: failed to parse level %q: %w", level, err)
	}

	log.SetOutput(os.Stdout)
	log.SetLevel(lvl)

	if goEnv == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	// Set up Telemetry
	log.AddHook(otellogrus.NewHook(otellogrus.WithLevels(
		log.PanicLevel,
		log.FatalLevel,
		log.ErrorLevel,
		log.WarnLevel,
	)))

	log.Infof("Log level set to %v", log.GetLevel())

	return nil
}

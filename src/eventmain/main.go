package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ctogod/cleanbot/src/eventconsumers"
	"github.com/ctogod/cleanbot/src/eventmodels"
	"github.com/ctogod/cleanbot/src/eventproducers"
	"github.com/ctogod/cleanbot/src/eventproducers/api"
	"github.com/ctogod/cleanbot/src/eventpubsub"
	"github.com/ctogod/cleanbot/src/eventservices"
	"github.com/ctogod/cleanbot/src/logger"
	"github.com/ctogod/cleanbot/src/monitor"
	"github.com/ctogod/cleanbot/src/utils"
)

type RunArgs struct {
	GoEnv            string
	EnvDir           string
	PolicyConfigFile string
}

var runCmd = &cobra.Command{
	Use:   "cleanbot",
	Short: "Watch pump.fun launches and alert Telegram when buyers keep coming after the creator sells.",
	Run: func(cmd *cobra.Command, args []string) {
		goEnv, err := cmd.Flags().GetString("go-env")
		if err != nil {
			log.Fatalf("error getting go-env: %v", err)
		}

		envDir, err := cmd.Flags().GetString("env-dir")
		if err != nil {
			log.Fatalf("error getting env-dir: %v", err)
		}

		policyConfigFile, err := cmd.Flags().GetString("policy-config")
		if err != nil {
			log.Fatalf("error getting policy-config: %v", err)
		}

		if err := run(RunArgs{
			GoEnv:            goEnv,
			EnvDir:           envDir,
			PolicyConfigFile: policyConfigFile,
		}); err != nil {
			log.Fatalf("Main: %v", err)
		}
	},
}

func run(args RunArgs) (err error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg := sync.WaitGroup{}

	if err := utils.InitEnvironmentVariables(args.EnvDir, args.GoEnv); err != nil {
		return err
	}

	config, err := utils.LoadConfig()
	if err != nil {
		return err
	}

	if err := logger.Setup(config.LogLevel, config.GoEnv); err != nil {
		return err
	}

	if config.OtelEnabled {
		otelShutdown, setupErr := utils.SetupOTelSDK(ctx, "cleanbot")
		if setupErr != nil {
			return fmt.Errorf("failed to setup otel sdk: %w", setupErr)
		}

		defer func() {
			err = errors.Join(err, otelShutdown(context.Background()))
		}()
	}

	policyConfigFile := config.PolicyConfigFile
	if args.PolicyConfigFile != "" {
		policyConfigFile = args.PolicyConfigFile
	}

	policy, err := eventmodels.LoadPolicyConfig(policyConfigFile)
	if err != nil {
		return err
	}

	bus := eventpubsub.NewBus()
	if err := eventconsumers.NewTrackerMetricsConsumer(bus).Start(); err != nil {
		return fmt.Errorf("failed to start tracker metrics consumer: %w", err)
	}

	valuation := eventservices.NewCachedValuationSource(eventservices.NewBinancePriceSource(config.BinancePriceURL), policy.ValuationCacheTTL)
	telegram := eventservices.NewTelegramClient(config.TelegramAPIURL, config.TelegramBotToken, config.TelegramChatID)
	feed := eventproducers.NewPumpPortalFeed(config.PumpPortalWsURL)
	thresholds := eventconsumers.NewThresholdPolicy(policy)

	mon := monitor.NewMonitor(ctx, feed, policy, func() *eventconsumers.AssetTracker {
		return eventconsumers.NewAssetTracker(thresholds, valuation, telegram, feed, bus)
	})

	eventproducers.NewTelegramCommandPoller(&wg, telegram, telegram, mon, config.TelegramChatID, policy.CommandPollInterval).Start(ctx)

	router := mux.NewRouter()
	api.SetupHandler(router, mon)

	srv := &http.Server{
		Handler: otelhttp.NewHandler(router, "cleanbot"),
		Addr:    fmt.Sprintf(":%s", config.Port),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		log.Infof("listening on :%s", config.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	if config.MonitorAutostart {
		mon.Start()
	}

	// Create channel for shutdown signals.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	signal.Notify(stop, syscall.SIGTERM)

	log.Info("Main: init complete")

	// Block here until program is shut down
	<-stop

	mon.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnf("Main: server shutdown: %v", err)
	}

	// Wait for event clients to shut down
	wg.Wait()
	bus.WaitAsync()

	log.Info("Main: gracefully stopped!")

	return nil
}

func main() {
	runCmd.PersistentFlags().String("go-env", "development", "The environment to run in: development or production.")
	runCmd.PersistentFlags().String("env-dir", ".", "The directory holding the .env files.")
	runCmd.PersistentFlags().String("policy-config", "", "Path to a YAML policy file. Overrides $POLICY_CONFIG_FILE.")

	runCmd.Execute()
}

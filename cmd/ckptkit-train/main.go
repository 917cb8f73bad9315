// Package main provides the entry point for ckptkit-train.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yndnr/ckptkit-go/internal/config"
	"github.com/yndnr/ckptkit-go/internal/infra/buildinfo"
	"github.com/yndnr/ckptkit-go/internal/infra/confloader"
	"github.com/yndnr/ckptkit-go/internal/infra/shutdown"
	"github.com/yndnr/ckptkit-go/internal/server/monitor"
	"github.com/yndnr/ckptkit-go/internal/telemetry/logger"
	"github.com/yndnr/ckptkit-go/internal/telemetry/metric"
	"github.com/yndnr/ckptkit-go/internal/train"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("ckptkit-train %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting ckptkit-train",
		"version", buildinfo.Version,
		"config", *configFile,
		"save_dir", cfg.Checkpoint.SaveDir)
	log.Debug("effective configuration", "config", fmt.Sprintf("%+v", *config.Sanitize(cfg)))

	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	// Live log-level reload while a long run is in flight.
	if *configFile != "" {
		watcher, err := startConfigWatcher(*configFile, log)
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(ctx context.Context) error {
				return watcher.Stop()
			})
		}
	}

	metrics := metric.NewRegistry()

	trainer, err := train.New(cfg,
		train.WithLogger(log),
		train.WithMetrics(metrics))
	if err != nil {
		return fmt.Errorf("init trainer: %w", err)
	}

	if cfg.Monitor.Addr != "" {
		router := monitor.NewRouter(&monitor.RouterConfig{
			Status:  trainer.Status(),
			Metrics: metrics,
			Logger:  log,
		})
		srv := monitor.New(cfg.Monitor.Addr, router, log)

		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		})
		go func() {
			if err := srv.ListenAndServe(); err != nil {
				log.Error("monitor server error", "error", err)
			}
		}()
	}

	// The training context is canceled first on shutdown so the loop
	// stops before the monitor goes away.
	ctx, cancel := context.WithCancel(context.Background())
	shutdownHandler.OnShutdown(func(context.Context) error {
		cancel()
		return nil
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- trainer.Run(ctx)
		shutdownHandler.Trigger()
	}()

	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
	}

	select {
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			return err
		}
	default:
	}

	log.Info("ckptkit-train stopped")
	return nil
}

// loadConfig loads configuration from defaults, file and environment.
func loadConfig(configFile string) (*config.Config, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initLogger initializes the structured logger and installs it as the
// process default.
func initLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

// startConfigWatcher reloads the log level when the config file
// changes on disk.
func startConfigWatcher(configFile string, log logger.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log.Slog()))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(string) {
		loader := confloader.NewLoader(confloader.WithConfigFile(configFile))
		cfg := config.Default()
		if err := loader.Load(cfg); err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			log.Info("log level changed", "level", cfg.Log.Level)
			logger.SetLevel(cfg.Log.Level)
		}
	})

	watcher.StartAsync()
	return watcher, nil
}

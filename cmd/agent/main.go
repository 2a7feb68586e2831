package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sessionkeeper/internal/config"
	"github.com/hamed0406/sessionkeeper/internal/credential"
	"github.com/hamed0406/sessionkeeper/internal/httpapi"
	"github.com/hamed0406/sessionkeeper/internal/logging"
	"github.com/hamed0406/sessionkeeper/internal/pinger"
	"github.com/hamed0406/sessionkeeper/internal/repo/memory"
	"github.com/hamed0406/sessionkeeper/internal/scheduler"
)

const version = "1.0.0"

func main() {
	os.Exit(run())
}

func run() int {
	cfgPath := os.Getenv("AGENT_CONFIG")
	if cfgPath == "" {
		cfgPath = "agent.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("load config: %v", err)
		return 1
	}

	sink, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Printf("init logging: %v", err)
		return 1
	}
	defer func() { _ = sink.Close() }()
	logger := sink.Logger

	logger.Info("agent_start",
		zap.String("version", version),
		zap.String("settings_file", cfg.SettingsFile),
		zap.String("ping_url", cfg.PingURL),
		zap.Duration("interval", cfg.Interval),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Bool("missing_settings_fatal", cfg.MissingSettingsFatal),
	)

	reader := credential.NewReader(logger, cfg.SettingsFile)
	reader.Verbatim = cfg.LogCredential
	p := pinger.NewPinger(logger, cfg.PingURL, cfg.HTTPTimeout)
	p.Verbatim = cfg.LogCredential
	cycles := memory.New(cfg.HistorySize)

	sched := scheduler.New(logger, reader, p, cycles, cfg.Interval)
	sched.MissingFatal = cfg.MissingSettingsFatal

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.StatusAddr != "" {
		srv := &http.Server{
			Addr:              cfg.StatusAddr,
			Handler:           httpapi.NewServer(logger, cycles).Router(cfg.StatusAPIKeys),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("status_listen", zap.String("addr", cfg.StatusAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("status_server_error", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	err = sched.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("agent_stop")
		return 0
	}
	logger.Error("agent_fatal", zap.Error(err))
	return 1
}

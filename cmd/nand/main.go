// nand is the Wi-Fi NAN state manager daemon.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/nan-project/nand/internal/config"
	"github.com/nan-project/nand/internal/halbus"
	"github.com/nan-project/nand/internal/halmock"
	nanmetrics "github.com/nan-project/nand/internal/metrics"
	"github.com/nan-project/nand/internal/nan"
	appversion "github.com/nan-project/nand/internal/version"
)

// shutdownTimeout is the maximum time to wait for the HTTP servers to
// drain active connections during graceful shutdown.
const shutdownTimeout = 10 * time.Second

// halRunner is satisfied by every nan.HAL adapter this daemon can drive:
// the D-Bus adapter pumps wpa_supplicant signals, the mock adapter just
// blocks until shutdown. Both let cmd/nand run them identically.
type halRunner interface {
	nan.HAL
	SetCallbacks(nan.HALCallbacks)
	Run(ctx context.Context) error
}

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to configuration file (YAML)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("failed to load configuration",
			slog.String("error", err.Error()),
		)
		return 1
	}

	logLevel := new(slog.LevelVar)
	logLevel.Set(config.ParseLogLevel(cfg.Log.Level))
	logger := newLoggerWithLevel(cfg.Log, logLevel)

	logger.Info("nand starting",
		slog.String("version", appversion.Version),
		slog.String("hal_driver", cfg.HAL.Driver),
		slog.String("metrics_addr", cfg.Metrics.Addr),
	)

	reg := prometheus.NewRegistry()
	collector := nanmetrics.NewCollector(reg)

	hal, err := newHAL(cfg.HAL, logger)
	if err != nil {
		logger.Error("failed to construct HAL adapter", slog.String("error", err.Error()))
		return 1
	}
	if closer, ok := hal.(interface{ Close() error }); ok {
		defer func() {
			if cerr := closer.Close(); cerr != nil {
				logger.Warn("failed to close HAL adapter", slog.String("error", cerr.Error()))
			}
		}()
	}

	mgr, err := nan.NewManager(logger, hal,
		nan.WithMetrics(collector),
		nan.WithQueueDepth(cfg.Device.EventQueueDepth),
	)
	if err != nil {
		logger.Error("failed to construct manager", slog.String("error", err.Error()))
		return 1
	}
	hal.SetCallbacks(mgr)

	if err := runDaemon(cfg, mgr, hal, reg, logger, *configPath, logLevel); err != nil {
		logger.Error("nand exited with error", slog.String("error", err.Error()))
		return 1
	}

	logger.Info("nand stopped")
	return 0
}

// newHAL constructs the configured HAL adapter. cfg.Driver was already
// validated against config.ValidHALDrivers by config.Validate.
func newHAL(cfg config.HALConfig, logger *slog.Logger) (halRunner, error) {
	switch cfg.Driver {
	case "mock":
		return halmock.NewAdapter(logger), nil
	default:
		adapter, err := halbus.NewAdapter(logger, cfg.DBusObjectPath)
		if err != nil {
			return nil, fmt.Errorf("construct wpa_supplicant HAL adapter: %w", err)
		}
		return adapter, nil
	}
}

// runDaemon wires the manager and HAL adapter event loops, the metrics and
// debug HTTP servers, and SIGHUP-driven log level reload, under an
// errgroup with a signal-aware shutdown context.
func runDaemon(
	cfg *config.Config,
	mgr *nan.Manager,
	hal halRunner,
	reg *prometheus.Registry,
	logger *slog.Logger,
	configPath string,
	logLevel *slog.LevelVar,
) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		mgr.Run(gCtx)
		return nil
	})

	g.Go(func() error {
		return hal.Run(gCtx)
	})

	metricsSrv := newMetricsServer(cfg.Metrics, reg, mgr)

	g.Go(func() error {
		logger.Info("metrics server listening",
			slog.String("addr", cfg.Metrics.Addr),
			slog.String("path", cfg.Metrics.Path),
		)
		return listenAndServe(gCtx, metricsSrv, cfg.Metrics.Addr)
	})

	sigHUP := make(chan os.Signal, 1)
	signal.Notify(sigHUP, syscall.SIGHUP)
	g.Go(func() error {
		defer signal.Stop(sigHUP)
		handleSIGHUP(gCtx, sigHUP, configPath, logLevel, logger)
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		return gracefulShutdown(gCtx, logger, metricsSrv)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run daemon: %w", err)
	}
	return nil
}

// handleSIGHUP reloads the log level from configPath on every SIGHUP.
// Declarative session state has no analogue here -- unlike the teacher's
// BFD sessions, NAN sessions are always client-driven -- so reload only
// ever touches the log level.
func handleSIGHUP(ctx context.Context, sigHUP <-chan os.Signal, configPath string, logLevel *slog.LevelVar, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sigHUP:
			newCfg, err := loadConfig(configPath)
			if err != nil {
				logger.Error("failed to reload configuration, keeping current settings",
					slog.String("error", err.Error()),
				)
				continue
			}
			oldLevel := logLevel.Level()
			newLevel := config.ParseLogLevel(newCfg.Log.Level)
			logLevel.Set(newLevel)
			logger.Info("configuration reloaded",
				slog.String("old_log_level", oldLevel.String()),
				slog.String("new_log_level", newLevel.String()),
			)
		}
	}
}

// gracefulShutdown shuts down the HTTP servers, bounded by shutdownTimeout.
// The manager's event loop already stops on its own once gCtx is cancelled.
func gracefulShutdown(ctx context.Context, logger *slog.Logger, servers ...*http.Server) error {
	logger.Info("initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			shutdownErr = errors.Join(shutdownErr, fmt.Errorf("shutdown server: %w", err))
		}
	}
	return shutdownErr
}

// listenAndServe creates a TCP listener using a context-aware ListenConfig
// and serves HTTP requests until the server is shut down.
func listenAndServe(ctx context.Context, srv *http.Server, addr string) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve on %s: %w", addr, err)
	}
	return nil
}

// newMetricsServer creates an HTTP server exposing Prometheus metrics and a
// JSON debug snapshot of the manager's live client/session state, read by
// cmd/nanctl.
func newMetricsServer(cfg config.MetricsConfig, reg *prometheus.Registry, mgr *nan.Manager) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/debug/snapshot", newSnapshotHandler(mgr))
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// newSnapshotHandler returns an HTTP handler serving mgr.Snapshot() as JSON.
func newSnapshotHandler(mgr *nan.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(mgr.Snapshot()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// loadConfig loads configuration from a file path or returns defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config from %s: %w", path, err)
		}
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}

// newLoggerWithLevel creates a structured logger using a shared LevelVar
// for dynamic log level changes via SIGHUP reload.
func newLoggerWithLevel(cfg config.LogConfig, level *slog.LevelVar) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

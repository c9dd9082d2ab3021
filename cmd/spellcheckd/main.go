// Command spellcheckd is the spell-checking HTTP daemon.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/app"
	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/channel"
	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/config"
	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/observe"
	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/server"
	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/spell"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "spellcheckd: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "spellcheckd: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("spellcheckd starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	shutdownTelemetry, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName: "spellcheckd",
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── Application ───────────────────────────────────────────────────────────
	application, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialise application", "err", err)
		return 1
	}
	defer func() {
		if err := application.Close(); err != nil {
			slog.Warn("close error", "err", err)
		}
	}()

	// ── HTTP server ───────────────────────────────────────────────────────────
	opts := []server.Option{server.WithMetrics(observe.DefaultMetrics())}
	if cfg.Checker.Alpha != 0 {
		opts = append(opts, server.WithAlpha(cfg.Checker.Alpha))
	}
	if application.Dict != nil {
		opts = append(opts, server.WithDictionary(application.Dict))
	}
	srv := server.New(application.Checker, application.Model, opts...)

	// ── Config watcher ────────────────────────────────────────────────────────
	watcher, err := config.NewWatcher(*configPath, func(old, new *config.Config) {
		applyConfigChange(application.Checker, srv, config.Diff(old, new))
	})
	if err != nil {
		slog.Warn("config watcher disabled", "err", err)
	} else {
		defer watcher.Stop()
	}

	// ── Startup summary ───────────────────────────────────────────────────────
	printStartupSummary(cfg, application)

	addr := cfg.Server.ListenAddr
	if addr == "" {
		addr = ":8080"
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if cfg.Server.TLS != nil {
			errCh <- httpServer.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
		} else {
			errCh <- httpServer.ListenAndServe()
		}
	}()

	slog.Info("server ready — press Ctrl+C to shut down", "addr", addr)

	select {
	case err := <-errCh:
		slog.Error("server error", "err", err)
		return 1
	case <-ctx.Done():
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	slog.Info("shutdown signal received, stopping…")

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// ── Config hot reload ───────────────────────────────────────────────────────────

// applyConfigChange applies the hot-reloadable subset of a config change to
// the running services. Changes outside that subset require a restart and
// are ignored here.
func applyConfigChange(checker *spell.Checker, srv *server.Server, diff config.ConfigDiff) {
	if diff.Empty() {
		return
	}
	if diff.LogLevelChanged {
		slog.SetDefault(newLogger(diff.NewLogLevel))
		slog.Info("log level changed", "log_level", diff.NewLogLevel)
	}
	if diff.AlphaChanged {
		alpha := diff.NewAlpha
		if alpha == 0 {
			alpha = spell.DefaultAlpha
		}
		srv.SetAlpha(alpha)
		slog.Info("alpha changed", "alpha", alpha)
	}
	if diff.TablesPathChanged {
		tables, err := loadTables(diff.NewTablesPath)
		if err != nil {
			slog.Warn("keeping previous confusion tables", "path", diff.NewTablesPath, "err", err)
			return
		}
		checker.SetErrorTables(tables)
		slog.Info("confusion tables reloaded", "path", diff.NewTablesPath)
	}
}

// loadTables returns the confusion tables at path, or the embedded defaults
// when path is empty.
func loadTables(path string) (*channel.Tables, error) {
	if path == "" {
		return channel.Default(), nil
	}
	return channel.Load(path)
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config, application *app.App) {
	alpha := cfg.Checker.Alpha
	if alpha == 0 {
		alpha = spell.DefaultAlpha
	}
	tables := cfg.Checker.TablesPath
	if tables == "" {
		tables = "(embedded)"
	}
	dictionary := cfg.Dictionary.RedisAddr
	if application.Dict == nil {
		dictionary = "(disabled)"
	}
	addr := cfg.Server.ListenAddr
	if addr == "" {
		addr = ":8080"
	}

	fmt.Println("╔════════════════════════════════════════╗")
	fmt.Println("║      spellcheckd — startup summary     ║")
	fmt.Println("╠════════════════════════════════════════╣")
	printRow("Model order", strconv.Itoa(application.Model.Order()))
	printRow("Tokens", strconv.Itoa(application.Model.TotalTokens()))
	printRow("Vocabulary", strconv.Itoa(application.Model.VocabularySize()))
	printRow("N-gram types", strconv.Itoa(application.Model.NgramTypes()))
	printRow("Alpha", strconv.FormatFloat(alpha, 'g', -1, 64))
	printRow("Tables", tables)
	printRow("Dictionary", dictionary)
	printRow("Listen addr", addr)
	fmt.Println("╚════════════════════════════════════════╝")
}

func printRow(label, value string) {
	if len(value) > 19 {
		value = value[:16] + "…"
	}
	fmt.Printf("║  %-12s    : %-19s ║\n", label, value)
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

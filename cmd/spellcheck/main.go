// Command spellcheck corrects text from the command line in one shot. It
// builds the language model from the configured corpus, corrects the text
// given as arguments (or on stdin), and prints the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/app"
	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/config"
	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/spell"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	alpha := flag.Float64("alpha", 0, "identity weight in (0, 1); 0 uses the configured default")
	all := flag.Bool("all", false, "keep correcting until the text stops changing")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "spellcheck: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "spellcheck: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	slog.SetDefault(newLogger(cfg.Server.LogLevel))

	// ── Input text ─────────────────────────────────────────────────────────────
	text, err := inputText(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "spellcheck: %v\n", err)
		return 2
	}

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Build and correct ─────────────────────────────────────────────────────
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

	a := *alpha
	if a == 0 {
		a = cfg.Checker.Alpha
	}
	if a == 0 {
		a = spell.DefaultAlpha
	}

	var corrected string
	if *all {
		corrected, err = application.Checker.CheckAll(text, a)
	} else {
		corrected, err = application.Checker.Check(text, a)
	}
	if err != nil {
		slog.Error("check failed", "err", err)
		return 1
	}

	fmt.Println(corrected)
	return 0
}

// inputText joins the positional arguments into the text to correct,
// falling back to stdin when none are given.
func inputText(args []string) (string, error) {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("no input text — pass it as arguments or on stdin")
	}
	return text, nil
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

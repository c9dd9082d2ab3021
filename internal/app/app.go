// Package app wires the spell-checking subsystems into a running application.
//
// The App struct owns the full lifecycle: New loads the confusion tables,
// connects the optional custom dictionary, fetches the corpus and builds the
// language model, then assembles the checker on top. Close tears the held
// connections down in order.
//
// For testing, inject substitutes via functional options (WithSources,
// WithDictionary, etc.). When an option is not provided, New creates real
// implementations from the config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/channel"
	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/config"
	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/corpus"
	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/customdict"
	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/ngram"
	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/observe"
	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/spell"
)

// defaultFetchTimeout bounds the combined corpus fetch when the config does
// not set one.
const defaultFetchTimeout = 60 * time.Second

// App owns the assembled spell-checking subsystems.
type App struct {
	// Model is the language model built from the configured corpus.
	Model *ngram.Model

	// Checker corrects text against Model and the confusion tables.
	Checker *spell.Checker

	// Dict is the custom dictionary store. Nil when no Redis address is
	// configured.
	Dict *customdict.Store

	cfg     *config.Config
	metrics *observe.Metrics
	sources []corpus.Source

	// closers are called in reverse order during Close.
	closers []func() error

	// stopOnce guards the Close path.
	stopOnce sync.Once
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithSources injects corpus sources instead of deriving them from config.
func WithSources(sources ...corpus.Source) Option {
	return func(a *App) { a.sources = sources }
}

// WithDictionary injects a dictionary store instead of connecting to Redis.
func WithDictionary(dict *customdict.Store) Option {
	return func(a *App) { a.Dict = dict }
}

// WithMetrics injects a metrics instance instead of the process default.
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// New assembles the application from config. It blocks until the corpus is
// fetched and the language model is built, so the returned App is ready to
// serve immediately.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}

	// ── 1. Confusion tables ─────────────────────────────────────────────
	tables, err := a.loadTables()
	if err != nil {
		return nil, fmt.Errorf("app: load confusion tables: %w", err)
	}

	// ── 2. Custom dictionary ────────────────────────────────────────────
	a.initDictionary()

	// ── 3. Corpus and language model ────────────────────────────────────
	if err := a.buildModel(ctx); err != nil {
		return nil, fmt.Errorf("app: build language model: %w", err)
	}

	// ── 4. Checker ──────────────────────────────────────────────────────
	a.Checker = spell.New(
		spell.WithLanguageModel(a.Model),
		spell.WithErrorTables(tables),
	)

	return a, nil
}

// loadTables returns the confusion tables from the configured path, or the
// embedded defaults when no path is set.
func (a *App) loadTables() (*channel.Tables, error) {
	if a.cfg.Checker.TablesPath == "" {
		return channel.Default(), nil
	}
	return channel.Load(a.cfg.Checker.TablesPath)
}

// initDictionary connects the Redis-backed dictionary when configured. A
// store injected via WithDictionary wins over the config.
func (a *App) initDictionary() {
	if a.Dict != nil || a.cfg.Dictionary.RedisAddr == "" {
		return
	}
	client := redis.NewClient(&redis.Options{
		Addr:     a.cfg.Dictionary.RedisAddr,
		Password: a.cfg.Dictionary.RedisPassword,
		DB:       a.cfg.Dictionary.RedisDB,
	})
	var opts []customdict.Option
	if a.cfg.Dictionary.Key != "" {
		opts = append(opts, customdict.WithKey(a.cfg.Dictionary.Key))
	}
	a.Dict = customdict.New(client, opts...)
	a.closers = append(a.closers, client.Close)
	slog.Info("custom dictionary connected",
		"addr", a.cfg.Dictionary.RedisAddr,
		"key", a.Dict.Key(),
	)
}

// buildModel fetches the corpus, trains the language model and merges the
// custom dictionary into its vocabulary. With no sources configured the
// model starts empty and the daemon reports not-ready until it is rebuilt.
func (a *App) buildModel(ctx context.Context) error {
	sources := a.sources
	if sources == nil {
		sources = configSources(a.cfg.Corpus)
	}

	var text string
	if len(sources) == 0 {
		slog.Warn("no corpus sources configured; model starts empty")
	} else {
		timeout := time.Duration(a.cfg.Corpus.FetchTimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = defaultFetchTimeout
		}
		fetchCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		start := time.Now()
		fetched, err := corpus.FetchAll(fetchCtx, sources...)
		a.metrics.FetchDuration.Record(ctx, time.Since(start).Seconds())
		if err != nil {
			var srcErr *corpus.SourceError
			if errors.As(err, &srcErr) {
				a.metrics.RecordFetchError(ctx, srcErr.Source)
			}
			return err
		}
		text = fetched
		slog.Info("corpus fetched", "sources", len(sources), "bytes", len(text))
	}

	model := ngram.New(modelOptions(a.cfg.Model)...)
	start := time.Now()
	model.Build(text)
	a.metrics.BuildDuration.Record(ctx, time.Since(start).Seconds())
	slog.Info("language model built",
		"order", model.Order(),
		"tokens", model.TotalTokens(),
		"vocabulary", model.VocabularySize(),
		"ngrams", model.NgramTypes(),
	)

	if a.Dict != nil {
		words, err := a.Dict.Words(ctx)
		if err != nil {
			return fmt.Errorf("load custom dictionary: %w", err)
		}
		boost := a.cfg.Dictionary.Boost
		if boost <= 0 {
			boost = 1
		}
		model.InjectVocabulary(words, boost)
		slog.Info("custom dictionary merged", "words", len(words), "boost", boost)
	}

	a.Model = model
	return nil
}

// Close releases held connections. Safe to call more than once; only the
// first call runs the closers.
func (a *App) Close() error {
	var errs []error
	a.stopOnce.Do(func() {
		for i := len(a.closers) - 1; i >= 0; i-- {
			if err := a.closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}

// configSources maps the corpus config onto fetchable sources, URLs first.
func configSources(cfg config.CorpusConfig) []corpus.Source {
	sources := make([]corpus.Source, 0, len(cfg.URLs)+len(cfg.Files))
	for _, u := range cfg.URLs {
		sources = append(sources, &corpus.URLSource{URL: u})
	}
	for _, f := range cfg.Files {
		sources = append(sources, &corpus.FileSource{Path: f})
	}
	return sources
}

// modelOptions maps the model config onto n-gram model options.
func modelOptions(cfg config.ModelConfig) []ngram.Option {
	var opts []ngram.Option
	if cfg.Order != 0 {
		opts = append(opts, ngram.WithOrder(cfg.Order))
	}
	if cfg.TokenMode == config.TokenModeCharacters {
		opts = append(opts, ngram.WithCharacters())
	}
	if cfg.Seed != 0 {
		opts = append(opts, ngram.WithSeed(cfg.Seed))
	}
	return opts
}

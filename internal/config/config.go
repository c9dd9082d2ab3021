// Package config provides the configuration schema, loader, and file
// watcher for the spellcheck services.
package config

// LogLevel controls log verbosity for the spellcheck services.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// TokenMode selects the unit the language model is trained on.
type TokenMode string

const (
	// TokenModeWords trains the model on whitespace-delimited words.
	TokenModeWords TokenMode = "words"

	// TokenModeCharacters trains the model on individual characters.
	TokenModeCharacters TokenMode = "characters"
)

// IsValid reports whether m is a recognised token mode.
func (m TokenMode) IsValid() bool {
	return m == TokenModeWords || m == TokenModeCharacters
}

// Config is the root configuration structure for the spellcheck
// services. It is typically loaded from a YAML file using [Load] or
// [LoadFromReader].
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Model      ModelConfig      `yaml:"model"`
	Checker    CheckerConfig    `yaml:"checker"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
}

// ServerConfig holds network and logging settings for spellcheckd.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// TLS configures TLS for the server. When nil, the server runs plain HTTP.
	TLS *TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate paths for enabling HTTPS.
type TLSConfig struct {
	// CertFile is the path to the PEM-encoded TLS certificate.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded TLS private key.
	KeyFile string `yaml:"key_file"`
}

// ModelConfig controls how the language model is built from the corpus.
type ModelConfig struct {
	// Order is the n-gram window size. Zero means the default of 3.
	Order int `yaml:"order"`

	// TokenMode selects word- or character-level n-grams. Empty means
	// words.
	TokenMode TokenMode `yaml:"token_mode"`

	// Seed fixes the random source used by text generation, for
	// reproducible output. Zero keeps the automatic per-process seed.
	Seed uint64 `yaml:"seed"`
}

// CheckerConfig controls correction behaviour.
type CheckerConfig struct {
	// Alpha is the probability of keeping a token that is itself a
	// known word. Zero means the default of 0.95; explicit values must
	// lie strictly between 0 and 1.
	Alpha float64 `yaml:"alpha"`

	// TablesPath optionally replaces the embedded confusion tables with
	// a YAML file of the same shape. Hot-reloadable.
	TablesPath string `yaml:"tables_path"`
}

// CorpusConfig lists the text sources the model is trained on at
// startup.
type CorpusConfig struct {
	// URLs lists plain-text documents fetched over HTTP.
	URLs []string `yaml:"urls"`

	// Files lists local plain-text files merged into the corpus.
	Files []string `yaml:"files"`

	// FetchTimeoutSeconds bounds the combined corpus fetch. Zero means
	// the default of 60 seconds.
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
}

// DictionaryConfig connects the optional Redis-backed custom
// dictionary. Dictionary words are merged into the model vocabulary at
// build time.
type DictionaryConfig struct {
	// RedisAddr enables the dictionary when non-empty (host:port).
	RedisAddr string `yaml:"redis_addr"`

	// RedisPassword authenticates against Redis if required.
	RedisPassword string `yaml:"redis_password"`

	// RedisDB selects the Redis logical database.
	RedisDB int `yaml:"redis_db"`

	// Key is the Redis set holding dictionary words. Empty means the
	// store default.
	Key string `yaml:"key"`

	// Boost is the term frequency granted to each dictionary word when
	// it is injected into the vocabulary. Zero means 1.
	Boost int `yaml:"boost"`
}

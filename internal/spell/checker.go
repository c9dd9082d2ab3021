// Package spell corrects misspelled text with a noisy-channel model.
//
// A Checker combines two statistical components: confusion tables
// describing how typos arise (the error channel, [channel.Tables]) and
// an n-gram language model scoring how plausible the corrected text is
// ([LanguageModel]). For every token it weighs correction candidates
// within two edits by channel probability, reranks them with the
// language model, and returns the best-scoring whole sentence.
//
// Both components can be swapped at runtime; correction calls carry no
// shared per-call state, so a Checker is safe for concurrent use.
package spell

import (
	"errors"
	"strings"
	"sync"

	"github.com/antzucaro/matchr"

	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/channel"
	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/textnorm"
)

// DefaultAlpha is the default probability of keeping a token unchanged
// when the token itself is a known word.
const DefaultAlpha = 0.95

var (
	// ErrNoLanguageModel is returned by scoring calls made before a
	// language model has been attached.
	ErrNoLanguageModel = errors.New("spell: language model not configured")

	// ErrNoErrorTables is returned by correction calls made before
	// confusion tables have been attached.
	ErrNoErrorTables = errors.New("spell: error tables not configured")

	// ErrEmptyModel is reported by [Checker.Ready] while the attached
	// language model has no vocabulary to correct against.
	ErrEmptyModel = errors.New("spell: language model has no vocabulary")
)

// ─────────────────────────────────────────────────────────────────────────────
// Public types
// ─────────────────────────────────────────────────────────────────────────────

// LanguageModel is the statistical model a Checker scores candidates
// against. *ngram.Model satisfies it.
type LanguageModel interface {
	channel.CharStats

	// Order returns the n-gram window size of the model.
	Order() int
	// Known reports whether token appeared in the training corpus.
	Known(token string) bool
	// TokenCount returns how often token appeared in the corpus.
	TokenCount(token string) int
	// TotalTokens returns the corpus size in tokens.
	TotalTokens() int
	// VocabularySize returns the number of distinct tokens.
	VocabularySize() int
	// Smooth returns the add-one smoothed probability of an n-gram.
	Smooth(ngram string) float64
	// Evaluate returns the log-likelihood of a normalized text.
	Evaluate(text string) float64
}

// Correction records a single token replacement applied by
// [Checker.CheckDetailed].
type Correction struct {
	// Original is the token as it appeared in the normalized input.
	Original string `json:"original"`
	// Corrected is the token that replaced it.
	Corrected string `json:"corrected"`
	// Position is the zero-based token index in the normalized input.
	Position int `json:"position"`
	// Distance is the optimal string alignment edit distance between
	// the two tokens.
	Distance int `json:"distance"`
}

// Result is the detailed outcome of a spell check.
type Result struct {
	// Text is the corrected, normalized text.
	Text string `json:"text"`
	// Corrections lists applied replacements in token order. Empty when
	// the input was already the best candidate.
	Corrections []Correction `json:"corrections,omitempty"`
	// Score is the language-model log-likelihood of Text.
	Score float64 `json:"score"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Checker
// ─────────────────────────────────────────────────────────────────────────────

// Checker orchestrates candidate generation, ranking and selection.
type Checker struct {
	mu     sync.RWMutex
	lm     LanguageModel
	tables *channel.Tables
}

// Option is a functional option for [New].
type Option func(*Checker)

// WithLanguageModel attaches the language model used for ranking.
func WithLanguageModel(lm LanguageModel) Option {
	return func(c *Checker) { c.lm = lm }
}

// WithErrorTables replaces the default confusion tables.
func WithErrorTables(tables *channel.Tables) Option {
	return func(c *Checker) { c.tables = tables }
}

// New creates a Checker with the embedded default confusion tables and
// no language model. A model must be attached before any scoring call.
func New(opts ...Option) *Checker {
	c := &Checker{tables: channel.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLanguageModel swaps the language model. In-flight calls finish
// against the model they started with.
func (c *Checker) SetLanguageModel(lm LanguageModel) {
	c.mu.Lock()
	c.lm = lm
	c.mu.Unlock()
}

// SetErrorTables swaps the confusion tables. In-flight calls finish
// against the tables they started with.
func (c *Checker) SetErrorTables(tables *channel.Tables) {
	c.mu.Lock()
	c.tables = tables
	c.mu.Unlock()
}

// snapshot returns the current model and tables, or the sentinel error
// for whichever is missing.
func (c *Checker) snapshot() (LanguageModel, *channel.Tables, error) {
	c.mu.RLock()
	lm, tables := c.lm, c.tables
	c.mu.RUnlock()

	if lm == nil {
		return nil, nil, ErrNoLanguageModel
	}
	if tables == nil {
		return nil, nil, ErrNoErrorTables
	}
	return lm, tables, nil
}

// Ready reports whether the Checker can serve corrections.
func (c *Checker) Ready() error {
	lm, _, err := c.snapshot()
	if err != nil {
		return err
	}
	if lm.TotalTokens() == 0 {
		return ErrEmptyModel
	}
	return nil
}

// Check returns the most probable correction of text. The result is
// always normalized (lowercase, punctuation stripped, whitespace
// collapsed), whether or not a correction was applied. alpha is the
// probability of keeping a token that is itself a known word; at most
// one token is replaced per call.
func (c *Checker) Check(text string, alpha float64) (string, error) {
	lm, tables, err := c.snapshot()
	if err != nil {
		return "", err
	}
	return check(lm, tables, text, alpha), nil
}

// CheckDetailed corrects text like [Checker.Check] and reports which
// tokens changed along with the language-model score of the result.
func (c *Checker) CheckDetailed(text string, alpha float64) (*Result, error) {
	lm, tables, err := c.snapshot()
	if err != nil {
		return nil, err
	}

	norm := textnorm.Normalize(text)
	corrected := check(lm, tables, norm, alpha)
	result := &Result{Text: corrected, Score: lm.Evaluate(corrected)}

	// Corrections substitute single tokens, so both texts tokenize to
	// the same length and positions line up.
	before := strings.Fields(norm)
	after := strings.Fields(corrected)
	for i, token := range before {
		if i >= len(after) || after[i] == token {
			continue
		}
		result.Corrections = append(result.Corrections, Correction{
			Original:  token,
			Corrected: after[i],
			Position:  i,
			Distance:  matchr.OSA(token, after[i]),
		})
	}
	return result, nil
}

// CheckAll applies [Checker.Check] repeatedly until the text stops
// changing, correcting multi-error texts one token per pass. The number
// of passes is bounded by the token count.
func (c *Checker) CheckAll(text string, alpha float64) (string, error) {
	lm, tables, err := c.snapshot()
	if err != nil {
		return "", err
	}

	current := textnorm.Normalize(text)
	for range strings.Count(current, " ") + 1 {
		next := check(lm, tables, current, alpha)
		if next == current {
			break
		}
		current = next
	}
	return current, nil
}

// Evaluate returns the language-model log-likelihood of text. The text
// is normalized before scoring so that raw input and [Checker.Check]
// output score identically.
func (c *Checker) Evaluate(text string) (float64, error) {
	c.mu.RLock()
	lm := c.lm
	c.mu.RUnlock()

	if lm == nil {
		return 0, ErrNoLanguageModel
	}
	return lm.Evaluate(textnorm.Normalize(text)), nil
}

// check runs both correction modes and picks the sentence candidate the
// language model likes best. Every decision point contributes exactly
// one whole-sentence candidate; the first maximum in emission order
// wins.
func check(lm LanguageModel, tables *channel.Tables, text string, alpha float64) string {
	norm := textnorm.Normalize(text)
	tokens := strings.Fields(norm)
	order := lm.Order()

	var sentences []string
	if len(tokens) < order {
		sentences = simpleCorrections(lm, tables, tokens, nil, alpha)
	} else {
		sentences = simpleCorrections(lm, tables, tokens[:order-1], tokens[order-1:], alpha)
		sentences = append(sentences, contextCorrections(lm, tables, tokens, alpha)...)
	}
	if len(sentences) == 0 {
		return norm
	}

	best, bestScore := sentences[0], lm.Evaluate(sentences[0])
	for _, sentence := range sentences[1:] {
		if score := lm.Evaluate(sentence); score > bestScore {
			best, bestScore = sentence, score
		}
	}
	return best
}

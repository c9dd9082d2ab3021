// Package ngram implements the statistical language model behind the
// spelling corrector. A [Model] holds token term frequencies, character
// unigram/bigram counts and an order-n model with Laplace (add-one)
// smoothing over observed n-gram types, and can score or generate text.
//
// A model is populated once from a corpus via [Model.Build], optionally
// enriched with [Model.InjectVocabulary], and is read-only from then on, so
// a single instance can back the checker and the HTTP API concurrently.
package ngram

import (
	"maps"
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/textnorm"
)

// DefaultOrder is the n-gram window size used when [WithOrder] is not given.
const DefaultOrder = 3

// Model is an order-n statistical language model plus the auxiliary
// frequency tables the noisy-channel corrector divides by.
type Model struct {
	order int
	chars bool
	rng   *rand.Rand

	// Word-level statistics over the normalized corpus.
	tokenFreq   map[string]int
	totalTokens int

	// Character statistics over the normalized corpus, spaces included.
	unigramChars map[string]int
	bigramChars  map[string]int

	// Order-n statistics. Keys are space-joined words, or plain rune
	// concatenations for character models.
	ngrams      map[string]int
	contexts    map[string]int
	completions map[string]map[string]int
}

// Option configures a [Model].
type Option func(*Model)

// WithOrder sets the n-gram window size. Values below 1 are ignored; the
// default is [DefaultOrder].
func WithOrder(n int) Option {
	return func(m *Model) {
		if n >= 1 {
			m.order = n
		}
	}
}

// WithCharacters switches the model to character n-grams instead of word
// n-grams. Token term frequencies and character statistics are unaffected.
func WithCharacters() Option {
	return func(m *Model) { m.chars = true }
}

// WithSeed makes [Model.Generate] sampling reproducible. Without it the
// model draws from a per-process automatically-seeded source.
func WithSeed(seed uint64) Option {
	return func(m *Model) { m.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// New returns an empty model. Call [Model.Build] before scoring text.
func New(opts ...Option) *Model {
	m := &Model{
		order: DefaultOrder,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.reset()
	return m
}

func (m *Model) reset() {
	m.tokenFreq = make(map[string]int)
	m.totalTokens = 0
	m.unigramChars = make(map[string]int)
	m.bigramChars = make(map[string]int)
	m.ngrams = make(map[string]int)
	m.contexts = make(map[string]int)
	m.completions = make(map[string]map[string]int)
}

// Build derives every model statistic from the given corpus text, replacing
// whatever a previous call built. The text is normalized first, so callers
// can pass raw documents straight from disk or the network.
func (m *Model) Build(text string) {
	m.reset()
	norm := textnorm.Normalize(text)

	// Token term frequencies feed the vocabulary filter and the priors.
	for _, tok := range textnorm.Tokenize(norm) {
		m.tokenFreq[tok]++
		m.totalTokens++
	}

	// Character statistics count every position once; the final rune only
	// starts a unigram because no bigram begins there.
	runes := []rune(norm)
	for i := 0; i < len(runes)-1; i++ {
		m.unigramChars[string(runes[i])]++
		m.bigramChars[string(runes[i:i+2])]++
	}
	if len(runes) > 0 {
		m.unigramChars[string(runes[len(runes)-1])]++
	}

	units := m.split(norm)
	for i := 0; i+m.order <= len(units); i++ {
		window := units[i : i+m.order]
		prefix := m.join(window[:m.order-1])
		m.ngrams[m.join(window)]++
		m.contexts[prefix]++
		if m.completions[prefix] == nil {
			m.completions[prefix] = make(map[string]int)
		}
		m.completions[prefix][window[m.order-1]]++
	}
}

// InjectVocabulary adds count occurrences of each word to the token term
// frequencies, as if the words had appeared in the build corpus. It exists
// to merge user dictionaries after [Model.Build]: injected words pass the
// vocabulary filter and gain a prior, but carry no n-gram context of their
// own. Counts below 1 are clamped to 1.
func (m *Model) InjectVocabulary(words []string, count int) {
	if count < 1 {
		count = 1
	}
	for _, w := range words {
		for _, tok := range strings.Fields(textnorm.Normalize(w)) {
			m.tokenFreq[tok] += count
			m.totalTokens += count
		}
	}
}

// split breaks normalized text into model units: words by default, single
// characters when the model was built [WithCharacters].
func (m *Model) split(text string) []string {
	if m.chars {
		runes := []rune(text)
		units := make([]string, len(runes))
		for i, r := range runes {
			units[i] = string(r)
		}
		return units
	}
	return strings.Fields(text)
}

// join is the inverse of split for building n-gram keys.
func (m *Model) join(units []string) string {
	if m.chars {
		return strings.Join(units, "")
	}
	return strings.Join(units, " ")
}

// lastUnit extracts the final unit of an n-gram key.
func (m *Model) lastUnit(key string) string {
	if m.chars {
		runes := []rune(key)
		return string(runes[len(runes)-1])
	}
	fields := strings.Fields(key)
	return fields[len(fields)-1]
}

// Order returns the n-gram window size.
func (m *Model) Order() int { return m.order }

// Known reports whether token appeared in the build corpus.
func (m *Model) Known(token string) bool {
	_, ok := m.tokenFreq[token]
	return ok
}

// TokenCount returns how many times token appeared in the build corpus.
func (m *Model) TokenCount(token string) int { return m.tokenFreq[token] }

// TotalTokens returns the corpus length in tokens.
func (m *Model) TotalTokens() int { return m.totalTokens }

// VocabularySize returns the number of distinct tokens in the corpus.
func (m *Model) VocabularySize() int { return len(m.tokenFreq) }

// UnigramCount returns how often the single-character key appears in the
// normalized corpus and whether it was seen at all.
func (m *Model) UnigramCount(key string) (int, bool) {
	n, ok := m.unigramChars[key]
	return n, ok
}

// BigramCount returns how often the two-character key appears in the
// normalized corpus and whether it was seen at all.
func (m *Model) BigramCount(key string) (int, bool) {
	n, ok := m.bigramChars[key]
	return n, ok
}

// UnigramTypes returns the number of distinct characters seen.
func (m *Model) UnigramTypes() int { return len(m.unigramChars) }

// BigramTypes returns the number of distinct character pairs seen.
func (m *Model) BigramTypes() int { return len(m.bigramChars) }

// NgramCount returns the corpus count of the exact n-gram key.
func (m *Model) NgramCount(ngram string) int { return m.ngrams[ngram] }

// NgramTypes returns the number of distinct n-grams seen.
func (m *Model) NgramTypes() int { return len(m.ngrams) }

// Smooth returns the add-one smoothed probability of ngram: its observed
// count plus one, over the count of its n-1 unit prefix plus the number of
// distinct n-gram types. Unseen n-grams score low but never zero. A model
// with no n-gram statistics at all returns 1.
func (m *Model) Smooth(ngram string) float64 {
	units := m.split(ngram)
	var prefix string
	if len(units) > 0 {
		prefix = m.join(units[:len(units)-1])
	}
	denom := float64(m.contexts[prefix] + len(m.ngrams))
	if denom == 0 {
		return 1
	}
	return float64(m.ngrams[ngram]+1) / denom
}

// Evaluate returns the mean log-likelihood per token of text under the
// model. Every token contributes its Laplace-smoothed prior; when the text
// is at least one window long, every sliding n-gram window adds its
// smoothed log-probability on top. Empty text and unbuilt models evaluate
// to negative infinity so they can never win a likelihood comparison.
//
// The text is expected to be normalized already; the checker always scores
// candidate sentences it assembled from normalized tokens.
func (m *Model) Evaluate(text string) float64 {
	tokens := strings.Fields(text)
	if len(tokens) == 0 || m.totalTokens == 0 {
		return math.Inf(-1)
	}

	denom := float64(m.totalTokens + len(m.tokenFreq))
	logProb := 0.0
	for _, tok := range tokens {
		logProb += math.Log(float64(m.tokenFreq[tok]+1) / denom)
	}

	if len(tokens) >= m.order {
		for i := 0; i+m.order <= len(tokens); i++ {
			logProb += math.Log(m.Smooth(strings.Join(tokens[i:i+m.order], " ")))
		}
	}
	return logProb / float64(len(tokens))
}

// Generate produces text of up to length units (words, or characters for a
// character model), continuing from context. An empty context starts from a
// randomly drawn corpus context instead. When the seed context alone already
// spans length units, its prefix is returned verbatim.
//
// Each step looks for n-grams extending the last n-1 generated units and
// samples the next unit proportionally to their counts. If nothing extends
// the current context, a random context's completions stand in; if the model
// has no completions at all, generation stops early with what it has.
func (m *Model) Generate(context string, length int) string {
	if length <= 0 {
		return ""
	}

	var units []string
	if context == "" {
		if len(m.contexts) == 0 {
			return ""
		}
		keys := slices.Sorted(maps.Keys(m.contexts))
		units = m.split(keys[m.rng.IntN(len(keys))])
	} else {
		units = m.split(textnorm.Normalize(context))
	}

	if len(units) >= length {
		return m.join(units[:length])
	}

	ngramKeys := slices.Sorted(maps.Keys(m.ngrams))
	out := slices.Clone(units)
	for len(out) < length {
		ctxLen := min(m.order-1, len(out))
		current := m.join(out[len(out)-ctxLen:])

		// Candidate continuations: every n-gram whose key extends the
		// current context. Counts for the same completion accumulate.
		weights := make(map[string]int)
		for _, key := range ngramKeys {
			if strings.HasPrefix(key, current) {
				weights[m.lastUnit(key)] += m.ngrams[key]
			}
		}
		if len(weights) == 0 {
			if len(m.completions) == 0 {
				break
			}
			keys := slices.Sorted(maps.Keys(m.completions))
			weights = m.completions[keys[m.rng.IntN(len(keys))]]
		}
		out = append(out, m.sample(weights))
	}
	return m.join(out)
}

// sample draws one key from weights proportionally to its count. Iteration
// runs over sorted keys so a seeded model generates reproducible text.
func (m *Model) sample(weights map[string]int) string {
	keys := slices.Sorted(maps.Keys(weights))
	total := 0
	for _, k := range keys {
		total += weights[k]
	}
	r := m.rng.IntN(total)
	for _, k := range keys {
		r -= weights[k]
		if r < 0 {
			return k
		}
	}
	return keys[len(keys)-1]
}

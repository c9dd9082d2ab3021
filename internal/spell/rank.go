package spell

import (
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/channel"
)

// Candidate is a correction candidate for a single token.
type Candidate struct {
	// Term is the candidate word, always part of the model vocabulary.
	Term string
	// Prob is the blended channel probability. The original token, when
	// viable, carries exactly the retention probability alpha; all other
	// candidates share the remaining 1−alpha mass.
	Prob float64
}

// Candidates generates and weighs the correction candidates for a
// single token, sorted by term. The token itself appears among them
// only when it is a known word reachable through the confusion tables.
func (c *Checker) Candidates(token string, alpha float64) ([]Candidate, error) {
	lm, tables, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	return candidates(lm, tables, token, alpha), nil
}

// candidates builds the per-token working table: one- and two-edit
// probabilities summed, filtered to vocabulary words, normalized to sum
// one, then reweighted so the identity keeps exactly alpha.
func candidates(lm LanguageModel, tables *channel.Tables, token string, alpha float64) []Candidate {
	gen := channel.NewGenerator(tables, lm)
	working := gen.SingleEdits(token)
	for cand, p := range gen.DoubleEdits(working) {
		working[cand] += p
	}

	known := make(map[string]float64, len(working))
	var total float64
	for cand, p := range working {
		if lm.Known(cand) {
			known[cand] = p
			total += p
		}
	}
	if len(known) == 0 {
		return nil
	}

	out := make([]Candidate, 0, len(known))
	for _, term := range slices.Sorted(maps.Keys(known)) {
		p := known[term] / total
		if term == token {
			p = alpha
		} else {
			p *= 1 - alpha
		}
		out = append(out, Candidate{Term: term, Prob: p})
	}
	return out
}

// simpleCorrections corrects tokens independently of their context:
// each candidate is scored by channel probability times the token's
// add-one smoothed unigram prior. One sentence is emitted per position,
// with rest appended unchanged.
func simpleCorrections(lm LanguageModel, tables *channel.Tables, tokens, rest []string, alpha float64) []string {
	denom := float64(lm.TotalTokens() + lm.VocabularySize())

	sentences := make([]string, 0, len(tokens))
	for i, token := range tokens {
		fixed, best := token, math.Inf(-1)
		for _, cand := range candidates(lm, tables, token, alpha) {
			prior := float64(lm.TokenCount(cand.Term)+1) / denom
			if score := cand.Prob * prior; score > best {
				fixed, best = cand.Term, score
			}
		}
		sentence := slices.Concat(tokens[:i], []string{fixed}, tokens[i+1:], rest)
		sentences = append(sentences, strings.Join(sentence, " "))
	}
	return sentences
}

// contextCorrections slides an order-wide window over the tokens and
// corrects the last token of each window, scoring candidates by channel
// probability times the smoothed probability of the window with the
// candidate substituted in. One sentence is emitted per window.
func contextCorrections(lm LanguageModel, tables *channel.Tables, tokens []string, alpha float64) []string {
	order := lm.Order()

	var sentences []string
	for i := 0; i+order <= len(tokens); i++ {
		window := tokens[i : i+order]
		prefix := strings.Join(window[:order-1], " ")

		fixed, best := window[order-1], math.Inf(-1)
		for _, cand := range candidates(lm, tables, window[order-1], alpha) {
			if score := cand.Prob * lm.Smooth(prefix+" "+cand.Term); score > best {
				fixed, best = cand.Term, score
			}
		}
		sentence := slices.Concat(tokens[:i+order-1], []string{fixed}, tokens[i+order:])
		sentences = append(sentences, strings.Join(sentence, " "))
	}
	return sentences
}

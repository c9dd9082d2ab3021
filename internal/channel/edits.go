package channel

import (
	"maps"
	"slices"
)

// alphabet spans the letters tried when repairing deletion and substitution
// errors.
const alphabet = "abcdefghijklmnopqrstuvwxyz"

// missingCharCount stands in for the corpus frequency of a character key the
// language model never saw. It is large enough to make such repairs
// vanishingly unlikely without ruling them out completely.
const missingCharCount = 1e15

// CharStats is the view of corpus character statistics the generator needs
// to turn confusion counts into probabilities. *ngram.Model satisfies it.
type CharStats interface {
	UnigramCount(key string) (int, bool)
	BigramCount(key string) (int, bool)
	UnigramTypes() int
	BigramTypes() int
}

// Generator derives candidate repairs for a possibly misspelled token. Each
// candidate carries the channel probability of the edit that produced it:
// the add-one smoothed confusion count over the corpus frequency of the
// characters involved.
type Generator struct {
	tables *Tables
	stats  CharStats
}

// NewGenerator returns a generator over the given confusion tables and
// corpus character statistics.
func NewGenerator(tables *Tables, stats CharStats) *Generator {
	return &Generator{tables: tables, stats: stats}
}

// SingleEdits returns every candidate exactly one edit away from token,
// mapped to its channel probability. All four repairs are tried at every
// position; a repair whose confusion key is absent from its table
// contributes nothing, and candidates reachable through several different
// edits accumulate the probability of each path.
//
// Note that the substitution table usually carries identity pairs ("aa",
// "bb", ...), so the unmodified token itself comes back as a candidate.
func (g *Generator) SingleEdits(token string) map[string]float64 {
	cands := make(map[string]float64)
	runes := []rune(token)
	unigramTypes := float64(g.stats.UnigramTypes())
	bigramTypes := float64(g.stats.BigramTypes())

	for i := 0; i <= len(runes); i++ {
		left, right := string(runes[:i]), string(runes[i:])
		var last string // character before the split, when there is one
		if i > 0 {
			last = string(runes[i-1])
		}

		// Deletion repair: the writer dropped a letter here, so put
		// one back. Word-initial drops are keyed by the boundary
		// marker and rated against a space-letter bigram, since that
		// is how the pair appears in running text.
		for _, c := range alphabet {
			letter := string(c)
			key, statKey := string(Boundary)+letter, " "+letter
			if last != "" {
				key, statKey = last+letter, last+letter
			}
			if count, ok := g.tables.Deletion[key]; ok {
				p := (float64(count) + 1) / (g.bigramFreq(statKey) + bigramTypes)
				cands[left+letter+right] += p
			}
		}

		if i == len(runes) {
			continue
		}
		first, rest := string(runes[i]), string(runes[i+1:])

		// Insertion repair: the writer typed an extra letter, so
		// remove it.
		key, statKey := string(Boundary)+first, " "
		if last != "" {
			key, statKey = last+first, last
		}
		if count, ok := g.tables.Insertion[key]; ok {
			p := (float64(count) + 1) / (g.unigramFreq(statKey) + unigramTypes)
			cands[left+rest] += p
		}

		// Substitution repair: the writer typed this letter in place
		// of another.
		for _, c := range alphabet {
			letter := string(c)
			if count, ok := g.tables.Substitution[first+letter]; ok {
				p := (float64(count) + 1) / (g.unigramFreq(first) + unigramTypes)
				cands[left+letter+rest] += p
			}
		}

		// Transposition repair: the writer swapped two adjacent
		// letters, so swap them back.
		if i+1 < len(runes) {
			second := string(runes[i+1])
			if count, ok := g.tables.Transposition[first+second]; ok {
				p := (float64(count) + 1) / (g.bigramFreq(first+second) + bigramTypes)
				cands[left+second+first+string(runes[i+2:])] += p
			}
		}
	}
	return cands
}

// DoubleEdits expands one-edit candidates into two-edit candidates. Every
// first edit is re-edited, and the path probability is the product of both
// edit probabilities; should a first edit carry probability zero, the
// second edit's probability stands alone rather than erasing the path.
// Paths meeting in the same candidate accumulate.
func (g *Generator) DoubleEdits(edits1 map[string]float64) map[string]float64 {
	cands := make(map[string]float64)
	for _, cand1 := range slices.Sorted(maps.Keys(edits1)) {
		p1 := edits1[cand1]
		for cand2, p2 := range g.SingleEdits(cand1) {
			p := p1 * p2
			if p1 == 0 {
				p = p2
			}
			cands[cand2] += p
		}
	}
	return cands
}

// unigramFreq returns the corpus count of a single character, or
// missingCharCount when the model never saw it.
func (g *Generator) unigramFreq(key string) float64 {
	if n, ok := g.stats.UnigramCount(key); ok {
		return float64(n)
	}
	return missingCharCount
}

// bigramFreq returns the corpus count of a character pair, or
// missingCharCount when the model never saw it.
func (g *Generator) bigramFreq(key string) float64 {
	if n, ok := g.stats.BigramCount(key); ok {
		return float64(n)
	}
	return missingCharCount
}

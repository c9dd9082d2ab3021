// Package textnorm prepares raw text for the spelling pipeline.
//
// Corpus documents and checker input run through the same normalization so
// that token lookups, character statistics and n-gram keys always agree:
//
//  1. Typographic quotes become their ASCII forms.
//  2. Everything is lowercased.
//  3. Hyphens and dashes become spaces, splitting compound words.
//  4. Every rune that is not a letter, digit or whitespace is dropped,
//     along with underscores and a small set of accented glyphs that show
//     up as encoding artifacts in public-domain corpus dumps.
//  5. Whitespace runs collapse to a single ASCII space; both ends are
//     trimmed.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
)

// quoteReplacer maps typographic quote variants to their ASCII forms before
// the punctuation filter runs.
var quoteReplacer = strings.NewReplacer(
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"‘", "'", // left single quote
	"’", "'", // right single quote
)

// droppedRunes are letters removed outright: stray accented glyphs and the
// byte-order mark, all common residue of scraped corpus files.
const droppedRunes = "éâêàœ\uFEFF"

// wordPattern matches a single word token: a run of letters, digits or
// underscores, mirroring the usual regex \w class.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Normalize lowercases text and strips it down to plain spaced-out words.
// The result contains only letters, digits and single spaces, so it can be
// indexed rune by rune for character statistics or split on spaces for word
// tokens.
func Normalize(text string) string {
	text = quoteReplacer.Replace(text)
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '-' || r == '–' || r == '—':
			// Hyphens and dashes separate words rather than vanish, so
			// "well-known" keeps both parts.
			b.WriteByte(' ')
		case r == '_' || strings.ContainsRune(droppedRunes, r):
			// dropped
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize returns the word tokens of text in order of appearance. It does
// not normalize; callers that want canonical tokens should pass text through
// [Normalize] first.
func Tokenize(text string) []string {
	return wordPattern.FindAllString(text, -1)
}

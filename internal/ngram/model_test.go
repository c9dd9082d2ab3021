package ngram_test

import (
	"math"
	"strings"
	"testing"

	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/ngram"
)

// buildTestModel returns a trigram model over a small corpus with
// hand-checkable counts:
//
//	tokens: the=3 cat=2 sat=1 on=1 mat=1 ran=1 (9 total, 6 distinct)
//	trigrams: 7 distinct, each seen once
//	contexts: "the cat"=2, all others 1
func buildTestModel(t *testing.T, opts ...ngram.Option) *ngram.Model {
	t.Helper()
	m := ngram.New(opts...)
	m.Build("The cat sat on the mat. The cat ran!")
	return m
}

func TestBuildTokenStatistics(t *testing.T) {
	t.Parallel()
	m := buildTestModel(t)

	if got := m.TotalTokens(); got != 9 {
		t.Errorf("TotalTokens() = %d, want 9", got)
	}
	if got := m.VocabularySize(); got != 6 {
		t.Errorf("VocabularySize() = %d, want 6", got)
	}
	if got := m.TokenCount("the"); got != 3 {
		t.Errorf("TokenCount(the) = %d, want 3", got)
	}
	if got := m.TokenCount("cat"); got != 2 {
		t.Errorf("TokenCount(cat) = %d, want 2", got)
	}
	if !m.Known("mat") {
		t.Error("Known(mat) = false, want true")
	}
	if m.Known("dog") {
		t.Error("Known(dog) = true, want false")
	}
}

func TestBuildCharacterStatistics(t *testing.T) {
	t.Parallel()
	m := buildTestModel(t)

	if got, ok := m.UnigramCount("t"); !ok || got != 7 {
		t.Errorf("UnigramCount(t) = %d, %v, want 7, true", got, ok)
	}
	if got, ok := m.UnigramCount(" "); !ok || got != 8 {
		t.Errorf("UnigramCount(space) = %d, %v, want 8, true", got, ok)
	}
	if _, ok := m.UnigramCount("z"); ok {
		t.Error("UnigramCount(z) reported seen, want unseen")
	}
	if got, ok := m.BigramCount("th"); !ok || got != 3 {
		t.Errorf("BigramCount(th) = %d, %v, want 3, true", got, ok)
	}
	if got := m.UnigramTypes(); got != 11 {
		t.Errorf("UnigramTypes() = %d, want 11", got)
	}
	if m.BigramTypes() == 0 {
		t.Error("BigramTypes() = 0, want > 0")
	}
}

func TestBuildNgramStatistics(t *testing.T) {
	t.Parallel()
	m := buildTestModel(t)

	if got := m.NgramTypes(); got != 7 {
		t.Errorf("NgramTypes() = %d, want 7", got)
	}
	if got := m.NgramCount("the cat sat"); got != 1 {
		t.Errorf("NgramCount(the cat sat) = %d, want 1", got)
	}
	if got := m.NgramCount("cat the mat"); got != 0 {
		t.Errorf("NgramCount(cat the mat) = %d, want 0", got)
	}
}

func TestBuildReplacesPreviousStatistics(t *testing.T) {
	t.Parallel()
	m := buildTestModel(t)
	m.Build("one two three")

	if m.Known("cat") {
		t.Error("Known(cat) = true after rebuild, want false")
	}
	if got := m.TotalTokens(); got != 3 {
		t.Errorf("TotalTokens() = %d after rebuild, want 3", got)
	}
}

func TestSmooth(t *testing.T) {
	t.Parallel()
	m := buildTestModel(t)

	tests := []struct {
		name  string
		ngram string
		want  float64
	}{
		{"seen ngram", "the cat sat", 2.0 / 9},
		{"unseen ngram with seen context", "the cat cat", 1.0 / 9},
		{"fully unseen ngram", "zz qq pp", 1.0 / 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := m.Smooth(tc.ngram)
			if math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("Smooth(%q) = %v, want %v", tc.ngram, got, tc.want)
			}
		})
	}
}

func TestSmoothStaysInUnitInterval(t *testing.T) {
	t.Parallel()
	m := buildTestModel(t)

	for _, g := range []string{"the cat sat", "the cat ran", "a b c", "the the the"} {
		p := m.Smooth(g)
		if p <= 0 || p > 1 {
			t.Errorf("Smooth(%q) = %v, want within (0, 1]", g, p)
		}
	}
}

func TestSmoothOnEmptyModel(t *testing.T) {
	t.Parallel()
	m := ngram.New()

	if got := m.Smooth("a b c"); got != 1 {
		t.Errorf("Smooth on empty model = %v, want 1", got)
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()
	m := buildTestModel(t)

	// Below the window size only the Laplace priors contribute.
	// Denominator: 9 total tokens + 6 vocabulary entries.
	want := (math.Log(4.0/15) + math.Log(3.0/15)) / 2
	if got := m.Evaluate("the cat"); math.Abs(got-want) > 1e-12 {
		t.Errorf("Evaluate(the cat) = %v, want %v", got, want)
	}

	// At the window size the single trigram window joins in.
	want = (math.Log(4.0/15) + math.Log(3.0/15) + math.Log(2.0/15) + math.Log(2.0/9)) / 3
	if got := m.Evaluate("the cat sat"); math.Abs(got-want) > 1e-12 {
		t.Errorf("Evaluate(the cat sat) = %v, want %v", got, want)
	}
}

func TestEvaluatePrefersSeenText(t *testing.T) {
	t.Parallel()
	m := buildTestModel(t)

	seen := m.Evaluate("the cat sat on the mat")
	unseen := m.Evaluate("the cat sat on the hat")
	if seen <= unseen {
		t.Errorf("Evaluate(seen) = %v, Evaluate(unseen) = %v, want seen > unseen", seen, unseen)
	}
}

func TestEvaluateEmptyText(t *testing.T) {
	t.Parallel()
	m := buildTestModel(t)

	if got := m.Evaluate(""); !math.IsInf(got, -1) {
		t.Errorf("Evaluate(\"\") = %v, want -Inf", got)
	}
}

func TestEvaluateUnbuiltModel(t *testing.T) {
	t.Parallel()
	m := ngram.New()

	if got := m.Evaluate("anything at all"); !math.IsInf(got, -1) {
		t.Errorf("Evaluate on unbuilt model = %v, want -Inf", got)
	}
}

func TestInjectVocabulary(t *testing.T) {
	t.Parallel()
	m := buildTestModel(t)

	m.InjectVocabulary([]string{"Zebra"}, 5)

	if !m.Known("zebra") {
		t.Fatal("Known(zebra) = false after injection, want true")
	}
	if got := m.TokenCount("zebra"); got != 5 {
		t.Errorf("TokenCount(zebra) = %d, want 5", got)
	}
	if got := m.TotalTokens(); got != 14 {
		t.Errorf("TotalTokens() = %d, want 14", got)
	}
	if got := m.VocabularySize(); got != 7 {
		t.Errorf("VocabularySize() = %d, want 7", got)
	}
}

func TestInjectVocabularyClampsCount(t *testing.T) {
	t.Parallel()
	m := buildTestModel(t)

	m.InjectVocabulary([]string{"yak"}, 0)
	if got := m.TokenCount("yak"); got != 1 {
		t.Errorf("TokenCount(yak) = %d, want 1", got)
	}
}

func TestGenerateTruncatesLongContext(t *testing.T) {
	t.Parallel()
	m := buildTestModel(t)

	if got := m.Generate("the cat sat on", 2); got != "the cat" {
		t.Errorf("Generate(long context, 2) = %q, want %q", got, "the cat")
	}
}

func TestGenerateExtendsContext(t *testing.T) {
	t.Parallel()
	m := buildTestModel(t, ngram.WithSeed(7))

	got := m.Generate("the cat", 3)
	if got != "the cat sat" && got != "the cat ran" {
		t.Errorf("Generate(the cat, 3) = %q, want one of %q or %q", got, "the cat sat", "the cat ran")
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	t.Parallel()

	a := buildTestModel(t, ngram.WithSeed(42))
	b := buildTestModel(t, ngram.WithSeed(42))

	first := a.Generate("", 10)
	second := b.Generate("", 10)
	if first != second {
		t.Errorf("seeded Generate differs: %q vs %q", first, second)
	}
	if got := len(strings.Fields(first)); got != 10 {
		t.Errorf("generated %d words, want 10", got)
	}
}

func TestGenerateFallsBackOnUnknownContext(t *testing.T) {
	t.Parallel()
	m := buildTestModel(t, ngram.WithSeed(1))

	got := m.Generate("zzz qqq", 4)
	if fields := strings.Fields(got); len(fields) != 4 {
		t.Errorf("Generate(unknown context, 4) = %q (%d words), want 4 words", got, len(fields))
	}
}

func TestGenerateStopsWhenModelHasNoCompletions(t *testing.T) {
	t.Parallel()
	m := ngram.New()
	m.Build("a b") // too short for any trigram

	if got := m.Generate("x", 5); got != "x" {
		t.Errorf("Generate on completion-less model = %q, want %q", got, "x")
	}
}

func TestCharacterModel(t *testing.T) {
	t.Parallel()
	m := ngram.New(ngram.WithCharacters(), ngram.WithOrder(2), ngram.WithSeed(3))
	m.Build("abab")

	if got := m.NgramTypes(); got != 2 {
		t.Errorf("NgramTypes() = %d, want 2", got)
	}
	if got := m.NgramCount("ab"); got != 2 {
		t.Errorf("NgramCount(ab) = %d, want 2", got)
	}
	if got := m.Smooth("ab"); math.Abs(got-3.0/4) > 1e-12 {
		t.Errorf("Smooth(ab) = %v, want 0.75", got)
	}

	// From "a" the only continuations are forced: abab.
	if got := m.Generate("a", 4); got != "abab" {
		t.Errorf("Generate(a, 4) = %q, want %q", got, "abab")
	}
}

func TestOrderAccessor(t *testing.T) {
	t.Parallel()

	if got := ngram.New().Order(); got != ngram.DefaultOrder {
		t.Errorf("Order() = %d, want %d", got, ngram.DefaultOrder)
	}
	if got := ngram.New(ngram.WithOrder(4)).Order(); got != 4 {
		t.Errorf("Order() = %d, want 4", got)
	}
}

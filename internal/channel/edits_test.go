package channel_test

import (
	"math"
	"testing"

	"github.com/antzucaro/matchr"

	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/channel"
)

// fakeStats is a hand-countable stand-in for a character language model.
type fakeStats struct {
	unigrams map[string]int
	bigrams  map[string]int
}

func (f fakeStats) UnigramCount(key string) (int, bool) {
	n, ok := f.unigrams[key]
	return n, ok
}

func (f fakeStats) BigramCount(key string) (int, bool) {
	n, ok := f.bigrams[key]
	return n, ok
}

func (f fakeStats) UnigramTypes() int { return len(f.unigrams) }
func (f fakeStats) BigramTypes() int  { return len(f.bigrams) }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestSingleEditsSubstitution(t *testing.T) {
	t.Parallel()

	tables := &channel.Tables{Substitution: map[string]int{"ca": 7}}
	stats := fakeStats{unigrams: map[string]int{"c": 14, "x": 1}}
	g := channel.NewGenerator(tables, stats)

	got := g.SingleEdits("cat")
	if len(got) != 1 {
		t.Fatalf("SingleEdits(cat) produced %d candidates %v, want 1", len(got), got)
	}
	// Typed "c" where "a" was intended: (7+1) / (count(c) + unigram types).
	if want := 8.0 / 16.0; !almostEqual(got["aat"], want) {
		t.Errorf("SingleEdits(cat)[aat] = %g, want %g", got["aat"], want)
	}
}

func TestSingleEditsZeroCountStillEligible(t *testing.T) {
	t.Parallel()

	tables := &channel.Tables{Substitution: map[string]int{"ca": 0}}
	stats := fakeStats{unigrams: map[string]int{"c": 14, "x": 1}}
	g := channel.NewGenerator(tables, stats)

	got := g.SingleEdits("cat")
	if want := 1.0 / 16.0; !almostEqual(got["aat"], want) {
		t.Errorf("SingleEdits(cat)[aat] = %g, want %g", got["aat"], want)
	}
}

func TestSingleEditsMissingKeySkipsPath(t *testing.T) {
	t.Parallel()

	tables := &channel.Tables{Substitution: map[string]int{"zz": 5}}
	stats := fakeStats{unigrams: map[string]int{"c": 14}}
	g := channel.NewGenerator(tables, stats)

	if got := g.SingleEdits("cat"); len(got) != 0 {
		t.Errorf("SingleEdits(cat) = %v, want no candidates", got)
	}
}

func TestSingleEditsDeletionAtBoundary(t *testing.T) {
	t.Parallel()

	tables := &channel.Tables{Deletion: map[string]int{"#c": 3}}
	stats := fakeStats{bigrams: map[string]int{" c": 5, "at": 10}}
	g := channel.NewGenerator(tables, stats)

	got := g.SingleEdits("at")
	// Restores the dropped leading "c": (3+1) / (count(" c") + bigram types).
	if want := 4.0 / 7.0; !almostEqual(got["cat"], want) {
		t.Errorf("SingleEdits(at)[cat] = %g, want %g", got["cat"], want)
	}
}

func TestSingleEditsDeletionMissingStatsFallBack(t *testing.T) {
	t.Parallel()

	tables := &channel.Tables{Deletion: map[string]int{"ac": 2}}
	stats := fakeStats{bigrams: map[string]int{" c": 5, "at": 10}}
	g := channel.NewGenerator(tables, stats)

	got := g.SingleEdits("at")
	// "ac" is absent from the bigram stats, so the huge default count
	// drives the probability toward zero without discarding the path.
	if want := 3.0 / (1e15 + 2); !almostEqual(got["act"], want) {
		t.Errorf("SingleEdits(at)[act] = %g, want %g", got["act"], want)
	}
}

func TestSingleEditsInsertion(t *testing.T) {
	t.Parallel()

	tables := &channel.Tables{Insertion: map[string]int{"ca": 9}}
	stats := fakeStats{unigrams: map[string]int{"c": 14, "x": 1}}
	g := channel.NewGenerator(tables, stats)

	got := g.SingleEdits("cat")
	// Removes the spurious "a" typed after "c": (9+1) / (count(c) + unigram types).
	if want := 10.0 / 16.0; !almostEqual(got["ct"], want) {
		t.Errorf("SingleEdits(cat)[ct] = %g, want %g", got["ct"], want)
	}
}

func TestSingleEditsInsertionAtBoundary(t *testing.T) {
	t.Parallel()

	tables := &channel.Tables{Insertion: map[string]int{"#c": 4}}
	stats := fakeStats{unigrams: map[string]int{"a": 3, "t": 2}}
	g := channel.NewGenerator(tables, stats)

	got := g.SingleEdits("cat")
	// Word-initial insertions are normalized by the space character,
	// which the fake stats do not track.
	if want := 5.0 / (1e15 + 2); !almostEqual(got["at"], want) {
		t.Errorf("SingleEdits(cat)[at] = %g, want %g", got["at"], want)
	}
}

func TestSingleEditsTransposition(t *testing.T) {
	t.Parallel()

	tables := &channel.Tables{Transposition: map[string]int{"at": 5}}
	stats := fakeStats{bigrams: map[string]int{" c": 5, "at": 10}}
	g := channel.NewGenerator(tables, stats)

	got := g.SingleEdits("cat")
	// Swaps "at" back to "ta": (5+1) / (count(at) + bigram types).
	if want := 6.0 / 12.0; !almostEqual(got["cta"], want) {
		t.Errorf("SingleEdits(cat)[cta] = %g, want %g", got["cta"], want)
	}
}

func TestSingleEditsSumsDuplicateCandidates(t *testing.T) {
	t.Parallel()

	tables := &channel.Tables{Deletion: map[string]int{"#a": 1, "aa": 1}}
	stats := fakeStats{bigrams: map[string]int{" a": 4, "aa": 6}}
	g := channel.NewGenerator(tables, stats)

	got := g.SingleEdits("aa")
	// "aaa" arises from restoring an "a" at any of the three splits:
	// 2/6 at the front plus 2/8 at each interior split.
	if want := 1.0/3.0 + 1.0/4.0 + 1.0/4.0; !almostEqual(got["aaa"], want) {
		t.Errorf("SingleEdits(aa)[aaa] = %g, want %g", got["aaa"], want)
	}
}

func TestSingleEditsEmptyToken(t *testing.T) {
	t.Parallel()

	tables := &channel.Tables{Deletion: map[string]int{"#c": 3}}
	stats := fakeStats{bigrams: map[string]int{" c": 5, "at": 10}}
	g := channel.NewGenerator(tables, stats)

	got := g.SingleEdits("")
	// Only deletion repairs apply to an empty token.
	if want := 4.0 / 7.0; !almostEqual(got["c"], want) {
		t.Errorf("SingleEdits(\"\")[c] = %g, want %g", got["c"], want)
	}
}

func TestDoubleEditsMultipliesPathProbabilities(t *testing.T) {
	t.Parallel()

	tables := &channel.Tables{Substitution: map[string]int{"xy": 3}}
	stats := fakeStats{unigrams: map[string]int{"x": 14, "q": 1}}
	g := channel.NewGenerator(tables, stats)

	// Each application of the single-edit pass turns "x" into "y"
	// with probability (3+1)/16.
	got := g.DoubleEdits(map[string]float64{"x": 0.5})
	if want := 0.5 * 0.25; !almostEqual(got["y"], want) {
		t.Errorf("DoubleEdits[y] = %g, want %g", got["y"], want)
	}
}

func TestDoubleEditsZeroFirstEditKeepsSecond(t *testing.T) {
	t.Parallel()

	tables := &channel.Tables{Substitution: map[string]int{"xy": 3}}
	stats := fakeStats{unigrams: map[string]int{"x": 14, "q": 1}}
	g := channel.NewGenerator(tables, stats)

	got := g.DoubleEdits(map[string]float64{"x": 0})
	if want := 0.25; !almostEqual(got["y"], want) {
		t.Errorf("DoubleEdits[y] = %g, want %g", got["y"], want)
	}
}

func TestEditCandidatesStayWithinEditDistance(t *testing.T) {
	t.Parallel()

	stats := fakeStats{
		unigrams: map[string]int{"s": 4, "p": 2, "e": 9, "l": 3, "i": 5, "n": 4, "g": 2},
		bigrams:  map[string]int{"sp": 2, "pe": 1, "el": 2, "li": 1, "in": 3, "ng": 2},
	}
	g := channel.NewGenerator(channel.Default(), stats)

	const token = "speling"
	single := g.SingleEdits(token)
	if len(single) == 0 {
		t.Fatal("SingleEdits produced no candidates with the default tables")
	}
	for cand := range single {
		if d := matchr.OSA(token, cand); d > 1 {
			t.Errorf("single-edit candidate %q is %d edits from %q", cand, d, token)
		}
	}

	double := g.DoubleEdits(single)
	for cand := range double {
		if d := matchr.OSA(token, cand); d > 2 {
			t.Errorf("double-edit candidate %q is %d edits from %q", cand, d, token)
		}
	}
}

func TestSingleEditsIncludesOriginalToken(t *testing.T) {
	t.Parallel()

	stats := fakeStats{
		unigrams: map[string]int{"c": 14, "a": 8, "t": 6},
		bigrams:  map[string]int{"ca": 4, "at": 5},
	}
	g := channel.NewGenerator(channel.Default(), stats)

	// Identity substitutions such as "aa" keep the typed token itself in
	// the candidate pool.
	got := g.SingleEdits("cat")
	if _, ok := got["cat"]; !ok {
		t.Error("SingleEdits(cat) does not contain the original token")
	}
}

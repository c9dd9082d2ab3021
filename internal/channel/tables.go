// Package channel implements the noisy-channel error model of the spelling
// corrector. Confusion [Tables] hold observed counts of the four classic
// edit error types, and a [Generator] combines them with corpus character
// statistics to produce candidate repairs with channel probabilities.
package channel

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Boundary marks the start of a word in insertion and deletion table keys,
// e.g. "#t" counts errors involving a word-initial t.
const Boundary = '#'

// Tables holds the confusion matrices of the error model, one per edit
// error type. Keys are two-character strings naming the characters involved
// in the error; values count how often that error was observed.
//
// A zero count is not the same as a missing key: zero-count errors stay
// eligible for add-one smoothing, while absent keys rule the edit out.
type Tables struct {
	// Insertion counts extra-letter errors: "ab" means the writer typed
	// b right after a where nothing belonged.
	Insertion map[string]int `yaml:"insertion"`

	// Deletion counts missing-letter errors: "ab" means the writer
	// dropped the b that belongs after a.
	Deletion map[string]int `yaml:"deletion"`

	// Substitution counts wrong-letter errors: "ab" means the writer
	// typed a where b was intended.
	Substitution map[string]int `yaml:"substitution"`

	// Transposition counts swapped-letter errors: "ab" means the writer
	// typed ab where ba was intended.
	Transposition map[string]int `yaml:"transposition"`
}

//go:embed tables.yaml
var defaultTablesYAML []byte

var (
	defaultTables     *Tables
	defaultTablesOnce sync.Once
)

// Default returns the built-in confusion tables, parsed once from the
// embedded dataset. The result is shared; callers must not modify it.
func Default() *Tables {
	defaultTablesOnce.Do(func() {
		t, err := LoadFromReader(bytes.NewReader(defaultTablesYAML))
		if err != nil {
			panic(fmt.Sprintf("channel: embedded confusion tables are invalid: %v", err))
		}
		defaultTables = t
	})
	return defaultTables
}

// Load reads confusion tables from a YAML file.
func Load(path string) (*Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("channel: open tables file %s: %w", path, err)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader reads confusion tables from YAML. Unknown top-level keys
// are rejected so typos in hand-edited files surface immediately, and the
// result is validated before being returned.
func LoadFromReader(r io.Reader) (*Tables, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var t Tables
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("channel: parse tables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("channel: invalid tables: %w", err)
	}
	return &t, nil
}

// Validate checks the shape of all four tables: every key must be exactly
// two characters, counts must not be negative, and the word boundary marker
// may only open insertion and deletion keys. All problems are reported, not
// just the first.
func (t *Tables) Validate() error {
	var errs []error

	check := func(name string, table map[string]int, allowBoundary bool) {
		for key, count := range table {
			runes := []rune(key)
			if len(runes) != 2 {
				errs = append(errs, fmt.Errorf("%s key %q must be exactly two characters", name, key))
				continue
			}
			if count < 0 {
				errs = append(errs, fmt.Errorf("%s key %q has negative count %d", name, key, count))
			}
			if runes[1] == Boundary {
				errs = append(errs, fmt.Errorf("%s key %q: %q is only allowed as the first character", name, key, Boundary))
			}
			if runes[0] == Boundary && !allowBoundary {
				errs = append(errs, fmt.Errorf("%s key %q: word boundary keys are only meaningful for insertion and deletion", name, key))
			}
		}
	}

	check("insertion", t.Insertion, true)
	check("deletion", t.Deletion, true)
	check("substitution", t.Substitution, false)
	check("transposition", t.Transposition, false)

	return errors.Join(errs...)
}

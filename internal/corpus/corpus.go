// Package corpus acquires raw training text for the language model.
//
// Sources are fetched concurrently and concatenated in declaration
// order, so a corpus can be stitched together from multiple URLs and
// local files. The text is returned as-is; normalization happens when
// the model is built.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ErrNoSources is returned by [FetchAll] when called without sources.
var ErrNoSources = errors.New("corpus: no sources configured")

// SourceError attributes a fetch failure to the source it came from, so
// callers can report it without parsing the message.
type SourceError struct {
	// Source is the failing source's String().
	Source string
	// Err is the underlying fetch error.
	Err error
}

func (e *SourceError) Error() string { return e.Err.Error() }

func (e *SourceError) Unwrap() error { return e.Err }

// Source supplies raw corpus text.
type Source interface {
	// Fetch returns the full text of the source.
	Fetch(ctx context.Context) (string, error)
	// String identifies the source in logs and error messages.
	String() string
}

// URLSource downloads corpus text over HTTP.
type URLSource struct {
	// URL is the address of a plain-text document.
	URL string
	// Client is the HTTP client to fetch with. Defaults to
	// [http.DefaultClient].
	Client *http.Client
}

// Fetch downloads the document and returns its body.
func (s *URLSource) Fetch(ctx context.Context) (string, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", fmt.Errorf("corpus: create request for %s: %w", s.URL, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("corpus: fetch %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("corpus: fetch %s: unexpected status %s", s.URL, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("corpus: read %s: %w", s.URL, err)
	}
	return string(body), nil
}

func (s *URLSource) String() string { return s.URL }

// FileSource reads corpus text from a local file.
type FileSource struct {
	// Path is the location of a plain-text file.
	Path string
}

// Fetch reads the whole file.
func (s *FileSource) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("corpus: %w", err)
	}
	return string(data), nil
}

func (s *FileSource) String() string { return s.Path }

// FetchAll fetches every source concurrently and joins the texts with
// newlines, preserving source order. The first failure cancels the
// remaining fetches and is returned as a [SourceError].
func FetchAll(ctx context.Context, sources ...Source) (string, error) {
	if len(sources) == 0 {
		return "", ErrNoSources
	}

	parts := make([]string, len(sources))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, src := range sources {
		eg.Go(func() error {
			text, err := src.Fetch(egCtx)
			if err != nil {
				return &SourceError{Source: src.String(), Err: err}
			}
			parts[i] = text
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return "", err
	}
	return strings.Join(parts, "\n"), nil
}

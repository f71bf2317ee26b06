package voice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/blugelabs/bluge"
)

const (
	nameField = "name"
	// Shorter words are one edit away from too many common words.
	minFuzzyRunes = 4
)

// Directory is an in-memory fuzzy index of the roster names. It catches
// names the recognizer got slightly wrong, one edit away. The first rune has
// to be right and both the term and the name need minFuzzyRunes runes.
type Directory struct {
	mu     sync.Mutex
	log    *slog.Logger
	writer *bluge.Writer
	ids    map[string]struct{}
}

func NewDirectory(log *slog.Logger) (*Directory, error) {
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	if err != nil {
		return nil, fmt.Errorf("open name index: %w", err)
	}
	return &Directory{log: log, writer: writer, ids: make(map[string]struct{})}, nil
}

// Replace swaps the indexed names for the given roster in one batch.
func (d *Directory) Replace(names []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := make(map[string]struct{})
	batch := bluge.NewBatch()
	for _, name := range names {
		id := nameKey(name)
		if id == "" {
			continue
		}
		if _, ok := next[id]; ok {
			continue
		}
		next[id] = struct{}{}
		doc := bluge.NewDocument(id).
			AddField(bluge.NewKeywordField(nameField, id)).
			AddField(bluge.NewStoredOnlyField("display", []byte(name)))
		batch.Update(doc.ID(), doc)
	}
	for id := range d.ids {
		if _, ok := next[id]; !ok {
			batch.Delete(bluge.Identifier(id))
		}
	}
	if err := d.writer.Batch(batch); err != nil {
		return fmt.Errorf("index roster names: %w", err)
	}
	d.ids = next
	d.log.Debug("Name index rebuilt", "names", len(next))
	return nil
}

// Lookup returns the best indexed name within one edit of term.
func (d *Directory) Lookup(ctx context.Context, term string) (string, bool, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if utf8.RuneCountInString(term) < minFuzzyRunes {
		return "", false, nil
	}

	d.mu.Lock()
	reader, err := d.writer.Reader()
	d.mu.Unlock()
	if err != nil {
		return "", false, fmt.Errorf("open name reader: %w", err)
	}
	defer reader.Close()

	query := bluge.NewFuzzyQuery(term).SetField(nameField).SetFuzziness(1).SetPrefix(1)
	matches, err := reader.Search(ctx, bluge.NewTopNSearch(1, query))
	if err != nil {
		return "", false, fmt.Errorf("search name %q: %w", term, err)
	}
	match, err := matches.Next()
	if err != nil {
		return "", false, err
	}
	if match == nil {
		return "", false, nil
	}

	var display string
	err = match.VisitStoredFields(func(field string, value []byte) bool {
		if field == "display" {
			display = string(value)
			return false
		}
		return true
	})
	if err != nil {
		return "", false, err
	}
	if utf8.RuneCountInString(nameKey(display)) < minFuzzyRunes {
		return "", false, nil
	}
	return display, true, nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

func (d *Directory) Close() error {
	return d.writer.Close()
}

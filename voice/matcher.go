package voice

import (
	"sort"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// NameMatcher finds roster names inside a transcript.
type NameMatcher struct {
	matcher *goahocorasick.Machine
	names   map[string]string
}

// NewNameMatcher initializes the Aho-Corasick automaton with the normalized roster names.
// An empty roster gives a matcher that never matches.
func NewNameMatcher(names []string) (*NameMatcher, error) {
	m := &NameMatcher{names: make(map[string]string)}
	var patterns [][]rune
	for _, name := range names {
		normalized := normalizeRunes([]rune(name))
		if len(normalized) == 0 {
			continue
		}
		key := string(normalized)
		if _, seen := m.names[key]; seen {
			continue
		}
		m.names[key] = name
		patterns = append(patterns, normalized)
	}
	if len(patterns) == 0 {
		return m, nil
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	m.matcher = machine
	return m, nil
}

// Match returns the roster names spoken in the transcript, unique and in
// order of appearance. At a given position the longest name wins and
// matches never overlap.
func (m *NameMatcher) Match(transcript string) []string {
	if m.matcher == nil {
		return nil
	}
	normalized := normalizeRunes([]rune(transcript))
	if len(normalized) == 0 {
		return nil
	}
	terms := m.matcher.MultiPatternSearch(normalized, false)
	if len(terms) == 0 {
		return nil
	}

	sort.SliceStable(terms, func(i, j int) bool {
		if terms[i].Pos != terms[j].Pos {
			return terms[i].Pos < terms[j].Pos
		}
		return len(terms[i].Word) > len(terms[j].Word)
	})

	var found []string
	seen := make(map[string]bool)
	end := 0
	for _, term := range terms {
		if term.Pos < end {
			continue
		}
		end = term.Pos + len(term.Word)
		name := m.names[string(term.Word)]
		if seen[name] {
			continue
		}
		seen[name] = true
		found = append(found, name)
	}
	return found
}

// normalizeRunes lowercases and drops spaces and punctuation, speech
// recognizers often split names in two words.
func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		if isNoise(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
	}
	return out
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}

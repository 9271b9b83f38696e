package markov

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// DefaultLength is the number of tokens generated when a caller has no
// preference of its own.
const DefaultLength = 50

// maxPreallocTokens bounds the up-front allocation for a generation walk.
// Longer walks grow the slice as they go.
const maxPreallocTokens = 4096

// RandomPair returns the two tokens of a key chosen uniformly from the
// distinct keys of the table. Keys with long continuation lists are not
// favoured.
func (m *Model) RandomPair() ([]string, error) {
	s, err := m.ready()
	if err != nil {
		return nil, err
	}
	key := m.randomKey(s.table)
	return []string{key.First, key.Second}, nil
}

// NextWord returns a token that may follow phrase. The last two
// space-separated words of phrase, lower-cased, select the key to continue
// from. If phrase has fewer than two words, or its last two words were never
// seen together, the continuation is drawn from a random key instead and the
// phrase has no influence on the result.
func (m *Model) NextWord(phrase string) (string, error) {
	s, err := m.ready()
	if err != nil {
		return "", err
	}
	if phrase == "" {
		return m.continueFrom(s.table, m.randomKey(s.table)), nil
	}
	words := strings.Split(phrase, " ")
	if len(words) < 2 {
		return m.continueFrom(s.table, m.randomKey(s.table)), nil
	}
	key := Key{
		First:  strings.ToLower(words[len(words)-2]),
		Second: strings.ToLower(words[len(words)-1]),
	}
	return m.continueFrom(s.table, key), nil
}

// Generate produces up to length tokens and returns them joined by single
// spaces.
//
// An empty or single-word startPhrase is replaced by a random pair; the single
// word is discarded. A startPhrase of two or more words is split on single
// spaces and used verbatim, case included, and is never truncated even when
// it is longer than length. The walk then appends NextWord of the last two
// tokens until length tokens exist. The output always holds at least the two
// seed tokens. A cancelled ctx stops the walk and its error is returned.
func (m *Model) Generate(ctx context.Context, startPhrase string, length int) (string, error) {
	s, err := m.ready()
	if err != nil {
		return "", err
	}

	text := m.seed(s.table, startPhrase)
	seeded := len(text)
	if n := min(length, maxPreallocTokens) - len(text); n > 0 {
		text = slices.Grow(text, n)
	}
	for len(text) < length {
		if err = ctx.Err(); err != nil {
			return "", fmt.Errorf("generation stopped after %d tokens: %w", len(text), err)
		}
		text = append(text, m.nextAfter(s.table, text[len(text)-2], text[len(text)-1]))
	}

	m.logger.DebugContext(ctx, "Generation completed",
		slog.Int("seed_length", seeded),
		slog.Int("target_length", length),
		slog.Int("generated_length", len(text)),
	)

	return strings.Join(text, " "), nil
}

// seed returns the initial tokens of a generation walk.
func (m *Model) seed(table *Table, startPhrase string) []string {
	var words []string
	if startPhrase != "" {
		words = strings.Split(startPhrase, " ")
	}
	if len(words) < 2 {
		key := m.randomKey(table)
		words = []string{key.First, key.Second}
	}
	return words
}

// nextAfter draws the token that follows (first, second), matching the key
// case-insensitively.
func (m *Model) nextAfter(table *Table, first, second string) string {
	key := Key{First: strings.ToLower(first), Second: strings.ToLower(second)}
	return m.continueFrom(table, key)
}

// continueFrom draws uniformly from the continuations of key, falling back to
// a random key when key is unknown.
func (m *Model) continueFrom(table *Table, key Key) string {
	continuations, ok := table.lookup(key)
	if !ok {
		continuations, _ = table.lookup(m.randomKey(table))
	}
	return continuations[m.intN(len(continuations))]
}

func (m *Model) randomKey(table *Table) Key {
	return table.keyAt(m.intN(table.Len()))
}

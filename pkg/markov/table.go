package markov

// Key is an ordered pair of consecutive tokens. It is the state of the
// second-order chain: (a, b) and (b, a) are different keys.
type Key struct {
	First  string
	Second string
}

// Table maps every observed Key to the tokens that followed it. Continuation
// lists keep insertion order and duplicates, so sampling uniformly from a list
// respects the observed frequencies. A Table is never modified after
// BuildTable returns it and is safe for concurrent reads.
type Table struct {
	// keys holds every key in first-seen order, giving sampling over the
	// key set a stable order under a fixed random source.
	keys        []Key
	next        map[Key][]string
	transitions int
}

// BuildTable builds the transition table for a token sequence. For every
// position i in 1..len(tokens)-2 the token at i+1 is appended to the
// continuations of (tokens[i-1], tokens[i]). Sequences shorter than three
// tokens yield an empty table.
func BuildTable(tokens []string) *Table {
	t := &Table{next: make(map[Key][]string)}
	for i := 1; i < len(tokens)-1; i++ {
		key := Key{First: tokens[i-1], Second: tokens[i]}
		continuations, ok := t.next[key]
		if !ok {
			t.keys = append(t.keys, key)
		}
		t.next[key] = append(continuations, tokens[i+1])
		t.transitions++
	}
	return t
}

// Len returns the number of distinct keys.
func (t *Table) Len() int {
	return len(t.keys)
}

// Transitions returns the total number of recorded transitions, the sum of the
// lengths of all continuation lists.
func (t *Table) Transitions() int {
	return t.transitions
}

// Keys returns a copy of the key set in first-seen order.
func (t *Table) Keys() []Key {
	keys := make([]Key, len(t.keys))
	copy(keys, t.keys)
	return keys
}

// Continuations returns a copy of the tokens that followed key, in the order
// they were observed. It returns nil if key was never observed.
func (t *Table) Continuations(key Key) []string {
	continuations, ok := t.next[key]
	if !ok {
		return nil
	}
	out := make([]string, len(continuations))
	copy(out, continuations)
	return out
}

// Vocabulary returns the number of distinct tokens that appear in any key or
// continuation.
func (t *Table) Vocabulary() int {
	seen := make(map[string]struct{})
	for _, key := range t.keys {
		seen[key.First] = struct{}{}
		seen[key.Second] = struct{}{}
		for _, token := range t.next[key] {
			seen[token] = struct{}{}
		}
	}
	return len(seen)
}

// keyAt and lookup are the allocation-free accessors used by generation.
func (t *Table) keyAt(i int) Key {
	return t.keys[i]
}

func (t *Table) lookup(key Key) ([]string, bool) {
	continuations, ok := t.next[key]
	return continuations, ok
}

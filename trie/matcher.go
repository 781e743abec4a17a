package trie

// Match is one completed key ending at the token just consumed.
type Match[V any] struct {
	Length int
	Value  V
}

type cursor[V any] struct {
	length int
	node   *node[V]
}

// Matcher streams tokens through a built Trie and reports every stored
// key that ends at the current position, for all key lengths at once.
// A matcher is single-use per sentence and must not be shared between
// goroutines; the underlying Trie may be.
type Matcher[V any] struct {
	root   *node[V]
	active []cursor[V]
}

func (t *Trie[V]) NewMatcher() *Matcher[V] {
	return &Matcher[V]{
		root:   t.root,
		active: []cursor[V]{{length: 0, node: t.root}},
	}
}

// Advance consumes one word form. Every active partial match tries to
// follow the edge labeled word; destinations holding a value are
// emitted. The new active set is a fresh root cursor (a match may
// start at any token) followed by the surviving cursors.
func (m *Matcher[V]) Advance(word string) []Match[V] {
	var matches []Match[V]
	next := make([]cursor[V], 0, len(m.active)+1)
	next = append(next, cursor[V]{length: 0, node: m.root})

	for _, cur := range m.active {
		dst := cur.node.child(word)
		if dst == nil {
			continue
		}
		if dst.hasValue {
			matches = append(matches, Match[V]{Length: cur.length + 1, Value: dst.value})
		}
		next = append(next, cursor[V]{length: cur.length + 1, node: dst})
	}

	m.active = next
	return matches
}

// Package trie implements a prefix tree over token sequences together
// with a streaming matcher that reports every stored phrase ending at
// the current token.
package trie

import "errors"

var ErrNotFound = errors.New("trie: key not found")

type node[V any] struct {
	children map[string]*node[V]
	value    V
	hasValue bool
}

func (n *node[V]) child(word string) *node[V] {
	if n.children == nil {
		return nil
	}
	return n.children[word]
}

// Trie maps ordered word-form sequences to values. Build it once,
// then share it read-only; concurrent readers need no locking as long
// as nobody calls Insert or Delete anymore.
type Trie[V any] struct {
	root *node[V]
}

func New[V any]() *Trie[V] {
	return &Trie[V]{root: &node[V]{}}
}

func (t *Trie[V]) Insert(key []string, value V) {
	n := t.root
	for _, word := range key {
		next := n.child(word)
		if next == nil {
			next = &node[V]{}
			if n.children == nil {
				n.children = make(map[string]*node[V])
			}
			n.children[word] = next
		}
		n = next
	}
	n.value = value
	n.hasValue = true
}

func (t *Trie[V]) Get(key []string) (V, error) {
	n := t.root
	for _, word := range key {
		if n = n.child(word); n == nil {
			var zero V
			return zero, ErrNotFound
		}
	}
	if !n.hasValue {
		var zero V
		return zero, ErrNotFound
	}
	return n.value, nil
}

// Delete clears the value stored at key. Intermediate nodes are left
// in place; they are unreachable through Get and Walk once valueless.
func (t *Trie[V]) Delete(key []string) error {
	n := t.root
	for _, word := range key {
		if n = n.child(word); n == nil {
			return ErrNotFound
		}
	}
	if !n.hasValue {
		return ErrNotFound
	}
	var zero V
	n.value = zero
	n.hasValue = false
	return nil
}

// Walk visits every stored key depth-first. Child order is undefined.
// Returning false from visit stops the walk. Walk may be called any
// number of times; each call starts over from the root.
func (t *Trie[V]) Walk(visit func(key []string, value V) bool) {
	t.walk(t.root, nil, visit)
}

func (t *Trie[V]) walk(n *node[V], prefix []string, visit func(key []string, value V) bool) bool {
	if n.hasValue {
		key := make([]string, len(prefix))
		copy(key, prefix)
		if !visit(key, n.value) {
			return false
		}
	}
	for word, child := range n.children {
		if !t.walk(child, append(prefix, word), visit) {
			return false
		}
	}
	return true
}

// Keys collects every stored key.
func (t *Trie[V]) Keys() [][]string {
	var keys [][]string
	t.Walk(func(key []string, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

package types

import (
	"fmt"
	"sort"
)

// DepNode is one token of a sentence's dependency tree. Head is nil
// for the root; Dependents is the inverse of the head links, ordered
// by token position, and is populated only once the whole tree is
// linked (see BuildDepTree).
type DepNode struct {
	Span
	Tag        string
	Rel        string
	Head       *DepNode
	Dependents []*DepNode
}

func (node *DepNode) GetSpan() *Span {
	return &node.Span
}

// DepEdge is one row of the flat edge list an upstream parser emits.
// Dependent and Head index the sentence's tokens; Head is -1 for the
// sentence root.
type DepEdge struct {
	Dependent int    `json:"dependent"`
	Head      int    `json:"head"`
	Rel       string `json:"rel"`
}

// BuildDepTree assembles an immutable dependency tree from a token
// list and a flat edge list. The build is two-pass: every node exists
// and has its head link resolved before any Dependents collection is
// filled, so a partially linked tree is never observable.
func BuildDepTree(tokens []*Token, edges []DepEdge) ([]*DepNode, error) {
	if len(edges) != len(tokens) {
		return nil, fmt.Errorf("dependency tree: %d edges for %d tokens", len(edges), len(tokens))
	}

	nodes := make([]*DepNode, len(tokens))
	for i, token := range tokens {
		tag := ""
		if token.Tag != nil {
			tag = *token.Tag
		}
		nodes[i] = &DepNode{
			Span: token.Span,
			Tag:  tag,
		}
	}

	rootCount := 0
	seen := make([]bool, len(tokens))
	for _, edge := range edges {
		if edge.Dependent < 0 || edge.Dependent >= len(nodes) {
			return nil, fmt.Errorf("dependency tree: dependent index %d out of range", edge.Dependent)
		}
		if seen[edge.Dependent] {
			return nil, fmt.Errorf("dependency tree: token %d has two heads", edge.Dependent)
		}
		seen[edge.Dependent] = true

		node := nodes[edge.Dependent]
		node.Rel = edge.Rel
		if edge.Head < 0 {
			rootCount++
			continue
		}
		if edge.Head >= len(nodes) {
			return nil, fmt.Errorf("dependency tree: head index %d out of range", edge.Head)
		}
		node.Head = nodes[edge.Head]
	}

	if rootCount != 1 {
		return nil, fmt.Errorf("dependency tree: expected one root, got %d", rootCount)
	}

	// All heads are resolved; invert them into the ordered Dependents
	// collections.
	for _, node := range nodes {
		if node.Head != nil {
			node.Head.Dependents = append(node.Head.Dependents, node)
		}
	}
	for _, node := range nodes {
		sort.Slice(node.Dependents, func(i, j int) bool {
			return node.Dependents[i].Begin < node.Dependents[j].Begin
		})
	}

	return nodes, nil
}

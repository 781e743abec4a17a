package negation

import (
	"errors"
	"fmt"
	"strings"

	"text2phenotype.com/nsd/types"
)

var (
	// ErrAnchorNotFound means no dependency node inside a trigger span
	// attaches to the rest of the tree; the upstream parse is broken
	// for this sentence and it should be skipped.
	ErrAnchorNotFound = errors.New("deepen: no dependency anchor inside trigger span")

	// ErrScopeResolutionOverflow means the tree walk exceeded its
	// iteration ceiling, which only happens for cyclic or otherwise
	// malformed dependency graphs.
	ErrScopeResolutionOverflow = errors.New("deepen: scope resolution exceeded iteration ceiling")
)

// DefaultMaxIterations bounds the combined climb and coordination walk
// per sentence.
const DefaultMaxIterations = 5000

// Resolver refines trigger scope over a sentence's dependency tree:
// a term is negated only when it falls inside the syntactic scope of
// the trigger's governor.
type Resolver struct {
	maxIter int
}

func NewResolver(maxIter int) *Resolver {
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	return &Resolver{maxIter: maxIter}
}

// Resolve evaluates every candidate term against every directionally
// compatible, non-overlapping trigger. The first trigger whose scope
// covers a term wins; the term is not re-evaluated against later
// triggers.
func (r *Resolver) Resolve(nodes []*types.DepNode, triggers []Trigger, terms []types.Span) (Result, error) {
	var result Result
	budget := r.maxIter

	for _, term := range terms {
		term := term
		for _, trigger := range triggers {
			if trigger.Intersects(&term) {
				continue
			}
			if !directionCompatible(trigger, &term) {
				continue
			}

			anchor, err := findAnchor(nodes, &trigger.Span)
			if err != nil {
				return Result{}, err
			}
			governor, err := climb(anchor, &budget)
			if err != nil {
				return Result{}, err
			}

			affirmed, err := firstLevel(governor, &term, &budget)
			if err != nil {
				return Result{}, err
			}
			if affirmed {
				result.Terms = append(result.Terms, term)
				result.Triggers = append(result.Triggers, trigger.Span)
				break
			}
		}
	}
	return result, nil
}

func directionCompatible(trigger Trigger, term *types.Span) bool {
	if trigger.Tags[TagPreNegation] && trigger.End <= term.Begin {
		return true
	}
	if trigger.Tags[TagPostNegation] && trigger.Begin >= term.End {
		return true
	}
	return false
}

// findAnchor locates the trigger's attachment to the rest of the tree:
// the node inside the trigger span whose head lies outside it.
func findAnchor(nodes []*types.DepNode, trigger *types.Span) (*types.DepNode, error) {
	for _, node := range nodes {
		if !trigger.Contains(&node.Span) {
			continue
		}
		if node.Head == nil || !trigger.Contains(&node.Head.Span) {
			return node, nil
		}
	}
	return nil, fmt.Errorf("%w: [%d,%d)", ErrAnchorNotFound, trigger.Begin, trigger.End)
}

// climb walks head links from the anchor until it reaches a VERB or
// NOUN, the root, or a conjunct. The stopping node is the governor.
func climb(anchor *types.DepNode, budget *int) (*types.DepNode, error) {
	node := anchor
	for {
		if err := debit(budget); err != nil {
			return nil, err
		}
		if node.Tag == "VERB" || node.Tag == "NOUN" || node.Head == nil || node.Rel == "conj" {
			return node, nil
		}
		node = node.Head
	}
}

// firstLevel reports whether the term falls inside the governor's
// immediate scope: the governor itself, an or-coordination it belongs
// to, or its direct dependents (with nmod and suggestive-acl recursion
// and a one-level skip over and-conjuncts).
func firstLevel(governor *types.DepNode, term *types.Span, budget *int) (bool, error) {
	if err := debit(budget); err != nil {
		return false, err
	}
	if governor.Intersects(term) {
		return true, nil
	}
	if ok, err := checkConjOr(governor, term, budget); ok || err != nil {
		return ok, err
	}
	return scanDependents(governor, term, budget, 0)
}

// checkConjOr affirms a term appearing in a later conjunct of an
// or-coordination the governor belongs to. Only the last 4 conjuncts
// of the group are considered, and the group's final conjunct must
// carry a cc dependent reading "or".
func checkConjOr(governor *types.DepNode, term *types.Span, budget *int) (bool, error) {
	if governor.Rel != "conj" || governor.Head == nil {
		return false, nil
	}

	head := governor.Head
	group := make([]*types.DepNode, 0, len(head.Dependents)+1)
	group = append(group, head)
	for _, dep := range head.Dependents {
		if dep.Rel == "conj" {
			group = append(group, dep)
		}
	}

	pos := -1
	for i, conjunct := range group {
		if conjunct == governor {
			pos = i
			break
		}
	}
	if pos < 0 || len(group)-pos > 4 {
		return false, nil
	}
	if !hasCCWord(group[len(group)-1], "or") {
		return false, nil
	}

	for _, conjunct := range group[pos:] {
		if err := debit(budget); err != nil {
			return false, err
		}
		if conjunct.Intersects(term) {
			return true, nil
		}
	}
	return false, nil
}

// scanDependents inspects a node's direct dependents. And-conjuncts
// are skipped over: their own dependents are inspected instead, one
// extra level deep, without skipping again.
func scanDependents(node *types.DepNode, term *types.Span, budget *int, level int) (bool, error) {
	for _, dep := range node.Dependents {
		if err := debit(budget); err != nil {
			return false, err
		}

		if dep.Rel == "conj" && hasCCWord(dep, "and") {
			if level == 0 {
				if ok, err := scanDependents(dep, term, budget, level+1); ok || err != nil {
					return ok, err
				}
			}
			continue
		}

		if dep.Intersects(term) {
			return true, nil
		}
		if dep.Rel == "nmod" {
			if ok, err := firstLevel(dep, term, budget); ok || err != nil {
				return ok, err
			}
		}
		if dep.Rel == "acl" && isSuggestive(dep) {
			if ok, err := firstLevel(dep, term, budget); ok || err != nil {
				return ok, err
			}
		}
	}
	return false, nil
}

func hasCCWord(node *types.DepNode, word string) bool {
	for _, dep := range node.Dependents {
		if dep.Rel == "cc" && nodeNorm(dep) == word {
			return true
		}
	}
	return false
}

func isSuggestive(node *types.DepNode) bool {
	norm := nodeNorm(node)
	return strings.HasPrefix(norm, "suggest") || strings.HasPrefix(norm, "indicat")
}

func nodeNorm(node *types.DepNode) string {
	if node.Text == nil {
		return ""
	}
	return types.Normalize(*node.Text)
}

func debit(budget *int) error {
	*budget--
	if *budget < 0 {
		return ErrScopeResolutionOverflow
	}
	return nil
}

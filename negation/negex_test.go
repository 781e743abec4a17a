package negation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"text2phenotype.com/nsd/types"
)

func TestNegatePrenegationTrigger(t *testing.T) {
	lexicon := NewLexicon([]Rule{{Phrase: "denies", Tag: TagPreNegation}})
	tagger := NewTagger(lexicon, 0)

	sent := makeSentence("Pt. denies chest pain.")
	term := types.Span{Begin: 11, End: 21} // "chest pain"

	result := tagger.Negate(sent, []types.Span{term})
	require.Len(t, result.Terms, 1)
	require.Equal(t, term, result.Terms[0])
	require.Equal(t, types.Span{Begin: 4, End: 10}, result.Triggers[0]) // "denies"
}

func TestNegateDirectionalityRespected(t *testing.T) {
	// POST trigger before the term: trigger_start - term_end is negative
	lexicon := NewLexicon([]Rule{{Phrase: "unlikely", Tag: TagPostNegation}})
	tagger := NewTagger(lexicon, 0)

	sent := makeSentence("unlikely chest pain")
	term := types.Span{Begin: 9, End: 19}

	result := tagger.Negate(sent, []types.Span{term})
	require.Empty(t, result.Terms)
}

func TestNegatePostnegationTrigger(t *testing.T) {
	lexicon := NewLexicon([]Rule{{Phrase: "unlikely", Tag: TagPostNegation}})
	tagger := NewTagger(lexicon, 0)

	sent := makeSentence("chest pain unlikely")
	term := types.Span{Begin: 0, End: 10}

	result := tagger.Negate(sent, []types.Span{term})
	require.Len(t, result.Terms, 1)
	require.Equal(t, types.Span{Begin: 11, End: 19}, result.Triggers[0])
}

func TestNegateWindowIsExclusive(t *testing.T) {
	lexicon := NewLexicon([]Rule{{Phrase: "no", Tag: TagPreNegation}})
	tagger := NewTagger(lexicon, 2)

	// "no alpha beta": beta ends 2 tokens after the trigger, at the
	// exclusive window bound
	sent := makeSentence("no alpha beta")
	atBound := types.Span{Begin: 9, End: 13} // "beta", distance 2
	inside := types.Span{Begin: 3, End: 8}   // "alpha", distance 1

	result := tagger.Negate(sent, []types.Span{atBound})
	require.Empty(t, result.Terms, "distance == window must not fire")

	result = tagger.Negate(sent, []types.Span{inside})
	require.Len(t, result.Terms, 1, "distance == window-1 must fire")
}

func TestNegateLastQualifyingTriggerWins(t *testing.T) {
	lexicon := NewLexicon([]Rule{
		{Phrase: "denies", Tag: TagPreNegation},
		{Phrase: "no", Tag: TagPreNegation},
	})
	tagger := NewTagger(lexicon, 0)

	sent := makeSentence("denies and no chest pain")
	term := types.Span{Begin: 14, End: 24}

	result := tagger.Negate(sent, []types.Span{term})
	require.Len(t, result.Terms, 1)
	// both triggers qualify; attribution goes to the later-discovered
	// "no", not the first-seen "denies"
	require.Equal(t, types.Span{Begin: 11, End: 13}, result.Triggers[0])
}

func TestNegateSkipsOverlappingTriggers(t *testing.T) {
	lexicon := NewLexicon([]Rule{{Phrase: "no", Tag: TagPreNegation}})
	tagger := NewTagger(lexicon, 0)

	// term covers the trigger itself
	sent := makeSentence("no pain")
	term := types.Span{Begin: 0, End: 7}

	result := tagger.Negate(sent, []types.Span{term})
	require.Empty(t, result.Terms)
}

func TestNegateIsIdempotent(t *testing.T) {
	lexicon := NewLexicon([]Rule{
		{Phrase: "no", Tag: TagPreNegation},
		{Phrase: "no evidence of", Tag: TagPreNegation},
	})
	tagger := NewTagger(lexicon, 0)

	sent := makeSentence("no evidence of acute infection")
	terms := []types.Span{{Begin: 15, End: 30}}

	first := tagger.Negate(sent, terms)
	second := tagger.Negate(sent, terms)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated tagging differs (-first +second):\n%s", diff)
	}
	require.Len(t, first.Terms, 1)
}

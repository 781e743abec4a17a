package types

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpanContainsAndIntersects(t *testing.T) {
	span := Span{Begin: 10, End: 20}

	require.True(t, span.Contains(&Span{Begin: 10, End: 20}))
	require.True(t, span.Contains(&Span{Begin: 12, End: 18}))
	require.False(t, span.Contains(&Span{Begin: 9, End: 15}))
	require.False(t, span.Contains(&Span{Begin: 15, End: 21}))

	require.True(t, span.Intersects(&Span{Begin: 15, End: 25}))
	require.True(t, span.Intersects(&Span{Begin: 0, End: 11}))
	// half-open spans only touching at the bound do not intersect
	require.False(t, span.Intersects(&Span{Begin: 20, End: 25}))
	require.False(t, span.Intersects(&Span{Begin: 0, End: 10}))
}

func TestSpanGetTextFromSentence(t *testing.T) {
	text := "Pt. denies chest pain."
	sent := &Sentence{Span: Span{Begin: 100, End: 100 + int32(len([]rune(text))), Text: &text}}

	got, ok := (Span{Begin: 111, End: 121}).GetTextFromSentence(sent)
	require.True(t, ok)
	require.Equal(t, "chest pain", got)

	_, ok = (Span{Begin: 90, End: 105}).GetTextFromSentence(sent)
	require.False(t, ok)
}

func TestSpansSortOrder(t *testing.T) {
	spans := Spans{
		&Span{Begin: 5, End: 9},
		&Span{Begin: 0, End: 7},
		&Span{Begin: 5, End: 6},
	}
	sort.Sort(spans)

	require.Equal(t, &Span{Begin: 0, End: 7}, spans[0].GetSpan())
	require.Equal(t, &Span{Begin: 5, End: 6}, spans[1].GetSpan())
	require.Equal(t, &Span{Begin: 5, End: 9}, spans[2].GetSpan())
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "denies", Normalize("Denies,"))
	require.Equal(t, "ruledout", Normalize("ruled-out"))
	require.Equal(t, "no", Normalize("No"))
	require.Equal(t, "", Normalize("..."))
}

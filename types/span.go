package types

import (
	"fmt"

	"text2phenotype.com/nsd/utils"
)

type HasSpan interface {
	GetSpan() *Span
}

// Span is a half-open [Begin, End) character offset pair in document
// coordinates. Text, when set, points at the covered surface string.
type Span struct {
	Begin int32
	End   int32
	Text  *string
}

func (span *Span) GetSpan() *Span {
	return span
}

// Contains reports whether other lies fully inside span.
func (span Span) Contains(other *Span) bool {
	return span.Begin <= other.Begin && span.End >= other.End
}

// Intersects reports whether span and other share at least one character.
func (span Span) Intersects(other *Span) bool {
	return span.Begin < other.End && span.End > other.Begin
}

func (span Span) GetHashCode() uint64 {
	key := fmt.Sprintf("%d_%d", span.Begin, span.End)
	return utils.HashString(key)
}

// GetTextFromSentence slices the covered text out of the sentence the
// span belongs to. Returns false when the span is not inside it.
func (span Span) GetTextFromSentence(sent *Sentence) (string, bool) {
	if span.Begin < sent.Begin || span.End > sent.End {
		return "", false
	}

	localBegin := span.Begin - sent.Begin
	localEnd := span.End - sent.Begin

	runes := []rune(*sent.Text)
	return string(runes[localBegin:localEnd]), true
}

type Spans []HasSpan

func (spans Spans) Len() int {
	return len(spans)
}

func (spans Spans) Less(i int, j int) bool {
	spanI, spanJ := spans[i].GetSpan(), spans[j].GetSpan()

	if spanI.Begin == spanJ.Begin {
		return spanI.End < spanJ.End
	}
	return spanI.Begin < spanJ.Begin
}

func (spans Spans) Swap(i int, j int) {
	spans[i], spans[j] = spans[j], spans[i]
}

package negation

import (
	"text2phenotype.com/nsd/types"
)

// DefaultWindow is the maximum token distance between a trigger and a
// term it negates.
const DefaultWindow = 40

// Result pairs each negated term span with the trigger span it was
// attributed to; the two slices are parallel.
type Result struct {
	Terms    []types.Span
	Triggers []types.Span
}

// Tagger is the distance-window negation tagger. It finds triggers
// with the lexicon's streaming matcher and negates every candidate
// term within the directional token window of a trigger.
type Tagger struct {
	lexicon *Lexicon
	window  int
}

func NewTagger(lexicon *Lexicon, window int) *Tagger {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tagger{lexicon: lexicon, window: window}
}

// Negate decides which candidate terms the sentence negates. Term
// spans use the same document-absolute offsets as the sentence.
func (tagger *Tagger) Negate(sent *types.Sentence, terms []types.Span) Result {
	_, result := tagger.Run(sent, terms)
	return result
}

// Run returns both the detected triggers and the negation result, so
// callers that report triggers do not have to detect them twice.
func (tagger *Tagger) Run(sent *types.Sentence, terms []types.Span) ([]Trigger, Result) {
	tokens := Tokenize(sent)
	triggers := tagger.lexicon.detect(tokens)
	return triggers, tagger.negate(tokens, triggers, terms)
}

func (tagger *Tagger) negate(tokens []*types.Token, triggers []Trigger, terms []types.Span) Result {
	var result Result
	for _, term := range terms {
		term := term
		_, lastTok, ok := enclosingTokenRange(tokens, &term)
		if !ok {
			continue
		}

		var qualifying []Trigger
		for _, trigger := range triggers {
			if trigger.Intersects(&term) {
				continue
			}
			if trigger.Tags[TagPreNegation] {
				if d := lastTok - trigger.LastToken; d >= 0 && d < tagger.window {
					qualifying = append(qualifying, trigger)
					continue
				}
			}
			if trigger.Tags[TagPostNegation] {
				if d := trigger.FirstToken - lastTok; d >= 0 && d < tagger.window {
					qualifying = append(qualifying, trigger)
				}
			}
		}
		if len(qualifying) == 0 {
			continue
		}

		winner := attributeTrigger(qualifying)
		result.Terms = append(result.Terms, term)
		result.Triggers = append(result.Triggers, winner.Span)
	}
	return result
}

// attributeTrigger picks which qualifying trigger a negated term is
// attributed to. Compatibility: the historical behavior keeps the last
// qualifying trigger in discovery order, not the nearest one, and
// downstream consumers rely on the exact attribution.
func attributeTrigger(qualifying []Trigger) Trigger {
	return qualifying[len(qualifying)-1]
}

// enclosingTokenRange maps a term span to the smallest token index
// range covering it.
func enclosingTokenRange(tokens []*types.Token, term *types.Span) (int, int, bool) {
	first, last := -1, -1
	for i, token := range tokens {
		if first < 0 && token.End > term.Begin {
			first = i
		}
		if token.Begin < term.End {
			last = i
		}
	}
	if first < 0 || last < first {
		return 0, 0, false
	}
	return first, last, true
}

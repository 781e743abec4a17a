package pipeline

import (
	"sort"

	"text2phenotype.com/nsd/negation"
	"text2phenotype.com/nsd/types"
)

// Response is the document-level output: per configuration, the
// processed sentences with their triggers and term polarities.
type Response struct {
	Tid     string                      `json:"tid"`
	Results map[string][]SentenceResult `json:"results"`
}

type SentenceResult struct {
	Begin    int32           `json:"begin"`
	End      int32           `json:"end"`
	Triggers []TriggerResult `json:"triggers,omitempty"`
	Terms    []TermResult    `json:"terms,omitempty"`
}

type TriggerResult struct {
	Begin int32    `json:"begin"`
	End   int32    `json:"end"`
	Text  string   `json:"text"`
	Tags  []string `json:"tags"`
}

type TermResult struct {
	Begin    int32     `json:"begin"`
	End      int32     `json:"end"`
	Text     string    `json:"text"`
	Polarity string    `json:"polarity"`
	Trigger  *SpanInput `json:"trigger,omitempty"`
}

// buildSentenceResult folds the engine output for one sentence into
// the wire shape. Every candidate term is reported; negated ones carry
// the span of the trigger they were attributed to.
func buildSentenceResult(sent *types.Sentence, terms []types.Span, triggers []negation.Trigger, result negation.Result) SentenceResult {
	out := SentenceResult{Begin: sent.Begin, End: sent.End}

	for _, trigger := range triggers {
		text, _ := trigger.GetTextFromSentence(sent)
		out.Triggers = append(out.Triggers, TriggerResult{
			Begin: trigger.Begin,
			End:   trigger.End,
			Text:  text,
			Tags:  trigger.Tags.Names(),
		})
	}

	attributed := make(map[uint64]types.Span, len(result.Terms))
	for i, term := range result.Terms {
		attributed[term.GetHashCode()] = result.Triggers[i]
	}

	for _, term := range terms {
		term := term
		text, _ := term.GetTextFromSentence(sent)
		termResult := TermResult{
			Begin:    term.Begin,
			End:      term.End,
			Text:     text,
			Polarity: types.PolarityPositive.Name(),
		}
		if trigger, ok := attributed[term.GetHashCode()]; ok {
			termResult.Polarity = types.PolarityNegative.Name()
			termResult.Trigger = &SpanInput{Begin: trigger.Begin, End: trigger.End}
		}
		out.Terms = append(out.Terms, termResult)
	}

	return out
}

func sortSentenceResults(results []SentenceResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Begin < results[j].Begin
	})
}

package pipeline

import (
	"text2phenotype.com/nsd/types"
)

// Request is one document to process. The document payload is the
// upstream parser's output: sentence boundaries, parser tokens with
// part-of-speech tags, flat dependency edges, and candidate term
// spans. All offsets are document-absolute rune offsets.
type Request struct {
	Tid      string   `json:"tid"`
	Document Document `json:"document"`
}

type Document struct {
	Text      string          `json:"text"`
	Sentences []SentenceInput `json:"sentences"`
}

type SentenceInput struct {
	Begin        int32           `json:"begin"`
	End          int32           `json:"end"`
	Tokens       []TokenInput    `json:"tokens,omitempty"`
	Dependencies []types.DepEdge `json:"dependencies,omitempty"`
	Terms        []SpanInput     `json:"terms,omitempty"`
}

type TokenInput struct {
	Begin int32  `json:"begin"`
	End   int32  `json:"end"`
	Tag   string `json:"tag,omitempty"`
}

type SpanInput struct {
	Begin int32 `json:"begin"`
	End   int32 `json:"end"`
}

// toSentence converts the wire sentence into engine types, slicing
// token and sentence text out of the document text.
func (in SentenceInput) toSentence(docText []rune) *types.Sentence {
	text := string(docText[in.Begin:in.End])
	sent := &types.Sentence{
		Span: types.Span{Begin: in.Begin, End: in.End, Text: &text},
	}
	for _, token := range in.Tokens {
		tokenText := string(docText[token.Begin:token.End])
		tag := token.Tag
		sent.Tokens = append(sent.Tokens, &types.Token{
			Span: types.Span{Begin: token.Begin, End: token.End, Text: &tokenText},
			Tag:  &tag,
			Norm: types.Normalize(tokenText),
		})
	}
	return sent
}

func (in SentenceInput) termSpans() []types.Span {
	terms := make([]types.Span, 0, len(in.Terms))
	for _, term := range in.Terms {
		terms = append(terms, types.Span{Begin: term.Begin, End: term.End})
	}
	return terms
}

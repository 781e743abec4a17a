package negation

import (
	"unicode"

	"text2phenotype.com/nsd/types"
)

// Tokenize splits a sentence into whitespace-delimited tokens. A token
// is a maximal run of non-space characters; offsets are document
// absolute, counted in runes like every other span in the system.
func Tokenize(sent *types.Sentence) []*types.Token {
	if sent.Text == nil {
		return nil
	}

	runes := []rune(*sent.Text)
	var tokens []*types.Token
	start := -1
	for i := 0; i <= len(runes); i++ {
		boundary := i == len(runes) || unicode.IsSpace(runes[i])
		if !boundary {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			text := string(runes[start:i])
			tokens = append(tokens, &types.Token{
				Span: types.Span{
					Begin: sent.Begin + int32(start),
					End:   sent.Begin + int32(i),
					Text:  &text,
				},
				Norm: types.Normalize(text),
			})
			start = -1
		}
	}

	return tokens
}

package types

import (
	"strings"
	"unicode"
)

// Token is one whitespace- or parser-delimited unit of a sentence.
// Norm holds the lower-cased, punctuation-stripped word form used as
// the matching alphabet by the trigger lexicon.
type Token struct {
	Span
	Tag  *string
	Norm string
}

func (token *Token) GetSpan() *Span {
	return &token.Span
}

// Normalize derives the matching word form of a surface token.
func Normalize(text string) string {
	var sb strings.Builder
	for _, r := range text {
		if unicode.IsPunct(r) {
			continue
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

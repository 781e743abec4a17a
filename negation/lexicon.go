package negation

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"text2phenotype.com/nsd/logger"
	"text2phenotype.com/nsd/trie"
	"text2phenotype.com/nsd/types"
	"text2phenotype.com/nsd/utils"
)

// Direction tags a trigger phrase carries. PREN triggers negate terms
// they precede, POST triggers negate terms they follow.
const (
	TagPreNegation  = "PREN"
	TagPostNegation = "POST"
)

type TagSet map[string]bool

func (tags TagSet) Names() []string {
	names := make([]string, 0, len(tags))
	for tag := range tags {
		names = append(names, tag)
	}
	sort.Strings(names)
	return names
}

// Rule is one line of a trigger rule file.
type Rule struct {
	Phrase   string
	Category string
	Tag      string
}

// ParseRule parses a `phrase<TAB>category<TAB>[TAG]` line.
func ParseRule(line string) (Rule, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 3 {
		return Rule{}, fmt.Errorf("rule line has %d fields, want 3", len(fields))
	}
	phrase := strings.TrimSpace(fields[0])
	if phrase == "" {
		return Rule{}, errors.New("rule line has empty phrase")
	}
	code := strings.TrimSpace(fields[2])
	if len(code) != 6 || code[0] != '[' || code[5] != ']' {
		return Rule{}, fmt.Errorf("rule tag %q is not a bracketed 4-character code", code)
	}
	return Rule{
		Phrase:   phrase,
		Category: strings.TrimSpace(fields[1]),
		Tag:      code[1:5],
	}, nil
}

// Lexicon is the trigger-phrase dictionary: a trie keyed by the
// normalized tokens of each phrase, valued with the accumulated
// direction-tag set. A lexicon is built once and then only read, so it
// may be shared across sentence workers without locking.
type Lexicon struct {
	tree *trie.Trie[TagSet]
}

// NewLexicon builds a lexicon from parsed rules. Rules are sorted
// before insertion so the result does not depend on file order.
func NewLexicon(rules []Rule) *Lexicon {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Phrase == sorted[j].Phrase {
			return sorted[i].Tag < sorted[j].Tag
		}
		return sorted[i].Phrase < sorted[j].Phrase
	})

	tree := trie.New[TagSet]()
	for _, rule := range sorted {
		key := phraseKey(rule.Phrase)
		if len(key) == 0 {
			continue
		}
		tags, err := tree.Get(key)
		if errors.Is(err, trie.ErrNotFound) {
			tags = TagSet{}
			tree.Insert(key, tags)
		}
		tags[rule.Tag] = true
	}
	return &Lexicon{tree: tree}
}

// LoadLexicon reads a tab-separated rule file. Duplicate lines are
// dropped, malformed lines are skipped with a warning; neither aborts
// the build.
func LoadLexicon(path string) (*Lexicon, error) {
	nsdLogger := logger.NewLogger("Trigger lexicon").With().Str("path", path).Logger()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rules []Rule
	hashes := make(map[uint64]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		hash := utils.HashString(line)
		if hashes[hash] {
			continue
		}
		hashes[hash] = true

		rule, err := ParseRule(line)
		if err != nil {
			nsdLogger.Warn().Err(err).Str("line", line).Msg("Skipping malformed rule line")
			continue
		}
		rules = append(rules, rule)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	nsdLogger.Info().Msgf("Loaded %d trigger rules", len(rules))
	return NewLexicon(rules), nil
}

func phraseKey(phrase string) []string {
	var key []string
	for _, word := range strings.Fields(phrase) {
		norm := types.Normalize(word)
		if norm != "" {
			key = append(key, norm)
		}
	}
	return key
}

// Trigger is one matched trigger phrase in a sentence. FirstToken and
// LastToken index the sentence's whitespace token stream.
type Trigger struct {
	types.Span
	Tags       TagSet
	FirstToken int
	LastToken  int
}

// DetectTriggers finds every trigger phrase in the sentence. A fresh
// matcher is used per call, so repeated calls over the same sentence
// return identical results.
func (lex *Lexicon) DetectTriggers(sent *types.Sentence) []Trigger {
	return lex.detect(Tokenize(sent))
}

func (lex *Lexicon) detect(tokens []*types.Token) []Trigger {
	var triggers []Trigger
	matcher := lex.tree.NewMatcher()
	for i, token := range tokens {
		for _, match := range matcher.Advance(token.Norm) {
			first := i + 1 - match.Length
			triggers = append(triggers, Trigger{
				Span: types.Span{
					Begin: tokens[first].Begin,
					End:   tokens[i].End,
				},
				Tags:       match.Value,
				FirstToken: first,
				LastToken:  i,
			})
		}
	}
	return triggers
}

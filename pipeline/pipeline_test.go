package pipeline

import (
	"encoding/json"
	"io/ioutil"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"text2phenotype.com/nsd/types"
)

func writeRules(t *testing.T, lines string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, ioutil.WriteFile(path.Join(dir, "rules.txt"), []byte(lines), 0600))
	return dir
}

func runPipeline(t *testing.T, pipe Pipeline, request Request) Response {
	t.Helper()
	select {
	case serialized, ok := <-pipe(request):
		require.True(t, ok, "pipeline closed the channel without a response")
		var response Response
		require.NoError(t, json.Unmarshal([]byte(serialized), &response))
		return response
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not respond")
		return Response{}
	}
}

func TestPipelineNegex(t *testing.T) {
	resources := writeRules(t, "no\tdefinite_negated_existence\t[PREN]\n")
	pipe, err := New(Params{
		ResourceFolder: resources,
		Configurations: []types.Configuration{{
			Name:      "negex",
			Strategy:  types.NegexStrategy,
			RulesFile: "rules.txt",
		}},
	})
	require.NoError(t, err)

	text := "No acute distress. Has fever."
	response := runPipeline(t, pipe, Request{
		Tid: "tid-1",
		Document: Document{
			Text: text,
			Sentences: []SentenceInput{
				{Begin: 0, End: 18, Terms: []SpanInput{{Begin: 3, End: 17}}},
				{Begin: 19, End: 29, Terms: []SpanInput{{Begin: 23, End: 28}}},
			},
		},
	})

	require.Equal(t, "tid-1", response.Tid)
	results := response.Results["negex"]
	require.Len(t, results, 2)

	first := results[0]
	require.Equal(t, int32(0), first.Begin)
	require.Len(t, first.Triggers, 1)
	require.Equal(t, "No", first.Triggers[0].Text)
	require.Equal(t, []string{"PREN"}, first.Triggers[0].Tags)
	require.Len(t, first.Terms, 1)
	require.Equal(t, "acute distress", first.Terms[0].Text)
	require.Equal(t, types.PolarityNegative.Name(), first.Terms[0].Polarity)
	require.Equal(t, &SpanInput{Begin: 0, End: 2}, first.Terms[0].Trigger)

	second := results[1]
	require.Equal(t, int32(19), second.Begin)
	require.Empty(t, second.Triggers)
	require.Len(t, second.Terms, 1)
	require.Equal(t, types.PolarityPositive.Name(), second.Terms[0].Polarity)
	require.Nil(t, second.Terms[0].Trigger)
}

func TestPipelineDeepen(t *testing.T) {
	resources := writeRules(t, "no\tdefinite_negated_existence\t[PREN]\n")
	pipe, err := New(Params{
		ResourceFolder: resources,
		Configurations: []types.Configuration{{
			Name:      "deepen",
			Strategy:  types.DeepenStrategy,
			RulesFile: "rules.txt",
		}},
	})
	require.NoError(t, err)

	text := "No evidence of infection."
	response := runPipeline(t, pipe, Request{
		Tid: "tid-2",
		Document: Document{
			Text: text,
			Sentences: []SentenceInput{{
				Begin: 0,
				End:   25,
				Tokens: []TokenInput{
					{Begin: 0, End: 2, Tag: "DET"},
					{Begin: 3, End: 11, Tag: "NOUN"},
					{Begin: 12, End: 14, Tag: "ADP"},
					{Begin: 15, End: 24, Tag: "NOUN"},
					{Begin: 24, End: 25, Tag: "PUNCT"},
				},
				Dependencies: []types.DepEdge{
					{Dependent: 0, Head: 1, Rel: "det"},
					{Dependent: 1, Head: -1, Rel: "root"},
					{Dependent: 2, Head: 3, Rel: "case"},
					{Dependent: 3, Head: 1, Rel: "nmod"},
					{Dependent: 4, Head: 1, Rel: "punct"},
				},
				Terms: []SpanInput{{Begin: 15, End: 24}},
			}},
		},
	})

	results := response.Results["deepen"]
	require.Len(t, results, 1)
	require.Len(t, results[0].Terms, 1)
	require.Equal(t, "infection", results[0].Terms[0].Text)
	require.Equal(t, types.PolarityNegative.Name(), results[0].Terms[0].Polarity)
	require.Equal(t, &SpanInput{Begin: 0, End: 2}, results[0].Terms[0].Trigger)
}

func TestPipelineDeepenSkipsMalformedParse(t *testing.T) {
	resources := writeRules(t, "no\tdefinite_negated_existence\t[PREN]\n")
	pipe, err := New(Params{
		ResourceFolder: resources,
		Configurations: []types.Configuration{{
			Name:      "deepen",
			Strategy:  types.DeepenStrategy,
			RulesFile: "rules.txt",
		}},
	})
	require.NoError(t, err)

	// dependency edge count does not match the token count; the
	// sentence is reported but nothing is negated
	response := runPipeline(t, pipe, Request{
		Tid: "tid-3",
		Document: Document{
			Text: "No fever.",
			Sentences: []SentenceInput{{
				Begin:        0,
				End:          9,
				Tokens:       []TokenInput{{Begin: 0, End: 2, Tag: "DET"}},
				Dependencies: nil,
				Terms:        []SpanInput{{Begin: 3, End: 8}},
			}},
		},
	})

	results := response.Results["deepen"]
	require.Len(t, results, 1)
	require.Len(t, results[0].Terms, 1)
	require.Equal(t, types.PolarityPositive.Name(), results[0].Terms[0].Polarity)
}

func TestPipelineSkipsOutOfBoundsSentences(t *testing.T) {
	resources := writeRules(t, "no\tdefinite_negated_existence\t[PREN]\n")
	pipe, err := New(Params{
		ResourceFolder: resources,
		Configurations: []types.Configuration{{
			Name:      "negex",
			Strategy:  types.NegexStrategy,
			RulesFile: "rules.txt",
		}},
	})
	require.NoError(t, err)

	response := runPipeline(t, pipe, Request{
		Tid: "tid-4",
		Document: Document{
			Text: "short",
			Sentences: []SentenceInput{
				{Begin: 0, End: 50},
				{Begin: -1, End: 3},
			},
		},
	})
	require.Empty(t, response.Results["negex"])
}

func TestPipelineRequiresConfigurations(t *testing.T) {
	_, err := New(Params{ResourceFolder: t.TempDir()})
	require.Error(t, err)
}

func TestPipelineRequiresReadableRules(t *testing.T) {
	_, err := New(Params{
		ResourceFolder: t.TempDir(),
		Configurations: []types.Configuration{{
			Name:      "negex",
			Strategy:  types.NegexStrategy,
			RulesFile: "missing.txt",
		}},
	})
	require.Error(t, err)
}

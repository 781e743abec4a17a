package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sync"

	"github.com/rs/zerolog"

	"text2phenotype.com/nsd/logger"
	"text2phenotype.com/nsd/negation"
	"text2phenotype.com/nsd/types"
)

// Pipeline processes one document and delivers the serialized response
// on the returned channel.
type Pipeline func(request Request) <-chan string

type Params struct {
	ResourceFolder string                `json:"resource_folder"`
	Configurations []types.Configuration `json:"configurations"`
}

// New builds the negation pipeline: every configuration gets its own
// lexicon and scope strategy, sentences fan out across goroutines, and
// the per-sentence results fold into one JSON response. Lexicons are
// immutable after this point and shared by all sentence workers.
func New(params Params) (Pipeline, error) {
	nsdLogger := logger.NewLogger("Negation pipeline")
	nsdLogger.Info().
		Interface("params", params).
		Msg("Starting negation pipeline (see parameters in 'params' field)")

	if len(params.Configurations) == 0 {
		return nil, errors.New("pipeline: no configurations")
	}

	lexicons := make(map[string]*negation.Lexicon)
	runners := make([]*configRunner, 0, len(params.Configurations))
	for _, cfg := range params.Configurations {
		rulesPath := cfg.RulesFile
		if !path.IsAbs(rulesPath) {
			rulesPath = path.Join(params.ResourceFolder, rulesPath)
		}
		lexicon, ok := lexicons[rulesPath]
		if !ok {
			var err error
			lexicon, err = negation.LoadLexicon(rulesPath)
			if err != nil {
				return nil, fmt.Errorf("pipeline: configuration %s: %w", cfg.Name, err)
			}
			lexicons[rulesPath] = lexicon
		}

		runner := &configRunner{
			name:     cfg.Name,
			strategy: cfg.Strategy,
			lexicon:  lexicon,
		}
		switch cfg.Strategy {
		case types.NegexStrategy:
			runner.tagger = negation.NewTagger(lexicon, cfg.Window)
		case types.DeepenStrategy:
			runner.resolver = negation.NewResolver(cfg.MaxScopeIterations)
		default:
			return nil, fmt.Errorf("pipeline: configuration %s: unknown strategy %q", cfg.Name, cfg.Strategy)
		}
		runners = append(runners, runner)
	}

	return func(request Request) <-chan string {
		out := make(chan string)
		go func() {
			defer close(out)
			reqLogger := nsdLogger.With().Str("tid", request.Tid).Logger()
			response := processDocument(request, runners, &reqLogger)
			serialized, err := json.Marshal(response)
			if err != nil {
				reqLogger.Err(err).Msg("Failed to serialize response")
				return
			}
			out <- string(serialized)
		}()
		return out
	}, nil
}

type configRunner struct {
	name     string
	strategy string
	lexicon  *negation.Lexicon
	tagger   *negation.Tagger
	resolver *negation.Resolver
}

// run executes one configuration over one sentence. Scope resolution
// failures skip the sentence, never the document.
func (runner *configRunner) run(sent *types.Sentence, edges []types.DepEdge, terms []types.Span, sentLogger *zerolog.Logger) ([]negation.Trigger, negation.Result) {
	if runner.strategy == types.NegexStrategy {
		return runner.tagger.Run(sent, terms)
	}

	triggers := runner.lexicon.DetectTriggers(sent)
	nodes, err := types.BuildDepTree(sent.Tokens, edges)
	if err != nil {
		sentLogger.Warn().Err(err).Msg("Skipping sentence with malformed dependency parse")
		return triggers, negation.Result{}
	}
	result, err := runner.resolver.Resolve(nodes, triggers, terms)
	if err != nil {
		if errors.Is(err, negation.ErrScopeResolutionOverflow) {
			sentLogger.Error().Err(err).Msg("Scope resolution overflowed, dropping sentence")
		} else {
			sentLogger.Warn().Err(err).Msg("Skipping sentence after scope resolution error")
		}
		return triggers, negation.Result{}
	}
	return triggers, result
}

func processDocument(request Request, runners []*configRunner, reqLogger *zerolog.Logger) Response {
	docText := []rune(request.Document.Text)
	response := Response{
		Tid:     request.Tid,
		Results: make(map[string][]SentenceResult, len(runners)),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, in := range request.Document.Sentences {
		if in.Begin < 0 || in.End < in.Begin || int(in.End) > len(docText) {
			reqLogger.Warn().
				Int32("begin", in.Begin).
				Int32("end", in.End).
				Msg("Skipping sentence with offsets outside the document")
			continue
		}

		wg.Add(1)
		go func(in SentenceInput) {
			defer wg.Done()
			sent := in.toSentence(docText)
			terms := in.termSpans()
			sentLogger := reqLogger.With().
				Int32("sentence_begin", sent.Begin).
				Int32("sentence_end", sent.End).
				Logger()

			for _, runner := range runners {
				triggers, result := runner.run(sent, in.Dependencies, terms, &sentLogger)
				sentResult := buildSentenceResult(sent, terms, triggers, result)
				mu.Lock()
				response.Results[runner.name] = append(response.Results[runner.name], sentResult)
				mu.Unlock()
			}
		}(in)
	}
	wg.Wait()

	for name := range response.Results {
		sortSentenceResults(response.Results[name])
	}
	return response
}

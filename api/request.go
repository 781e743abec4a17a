package api

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	jsonpatch "github.com/evanphx/json-patch"

	"text2phenotype.com/nsd/pipeline"
)

// requestDefaults is merged under every incoming body, so ad-hoc
// callers may omit fields the queue contract requires.
var requestDefaults = []byte(`{"tid": "api_request"}`)

type Request struct {
	Pipeline pipeline.Pipeline
}

func (req *Request) ProcessData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	reqLogger := makeRequestLogger(r)

	if r.Method != http.MethodPost {
		reqLogger.Err(nil).Int("status", http.StatusMethodNotAllowed).Msg("Only 'POST' method is allowed here")
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		reqLogger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not read request body")
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	merged, err := jsonpatch.MergePatch(requestDefaults, body)
	if err != nil {
		reqLogger.Err(err).Int("status", http.StatusBadRequest).Msg("Request body is not valid JSON")
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	var request pipeline.Request
	if err := json.Unmarshal(merged, &request); err != nil {
		reqLogger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not unmarshal request")
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	reqLogger.Info().Str("tid", request.Tid).Msg("Starting pipeline for request from API")
	resp := <-req.Pipeline(request)
	_, _ = w.Write([]byte(resp))
	reqLogger.Info().Int("status", http.StatusOK).Msg("Finished processing request")
}

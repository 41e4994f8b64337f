/* ctr/handler.go */

package ctr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/loomctr/loomctr/rpchash"
)

type appState struct {
	manifestJSON []byte
	handlers     map[string]*ProcedureDef
	subs         map[string]*SubscriptionDef
	opts         HandlerOptions
	hashToName   map[string]string
	batchHash    string
	i18n         *i18nRuntime
	localeSet    map[string]bool
	log          *zap.Logger
}

func buildHandler(procedures []ProcedureDef, subscriptions []SubscriptionDef, pages []PageDef, hashMap *rpchash.Map, i18n *i18nRuntime, opts HandlerOptions) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	state := &appState{
		handlers: make(map[string]*ProcedureDef),
		subs:     make(map[string]*SubscriptionDef),
		opts:     opts,
		i18n:     i18n,
		log:      log,
	}

	if hashMap != nil {
		state.hashToName = hashMap.ReverseLookup()
		state.batchHash = hashMap.Batch
	}

	if i18n != nil {
		state.localeSet = make(map[string]bool, len(i18n.cfg.Locales))
		for _, l := range i18n.cfg.Locales {
			state.localeSet[l] = true
		}
		procedures = append(procedures, i18n.queryProcedure())
	}

	manifest := buildManifest(procedures, subscriptions)
	state.manifestJSON, _ = json.Marshal(manifest)

	for i := range procedures {
		state.handlers[procedures[i].Name] = &procedures[i]
	}
	for i := range subscriptions {
		state.subs[subscriptions[i].Name] = &subscriptions[i]
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /_seam/manifest.json", state.handleManifest)
	mux.HandleFunc("POST /_seam/rpc/{name}", state.handleRPC)
	mux.HandleFunc("GET /_seam/subscribe/{name}", state.handleSubscribe)

	// Pages are served under /_seam/page/* only; mounting at the
	// application's own root paths is the caller's responsibility (a
	// reverse proxy or a framework-level NoRoute rewrite).
	for i := range pages {
		goPattern := routeToGoPattern(pages[i].Route)
		page := &pages[i]
		mux.HandleFunc("GET /_seam/page"+goPattern, state.makePageHandler(page))
	}

	return mux
}

func routeToGoPattern(route string) string {
	parts := strings.Split(route, "/")
	for i, p := range parts {
		if strings.HasPrefix(p, ":") {
			parts[i] = "{" + p[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}

type manifestSchema struct {
	Version    string                    `json:"version"`
	Procedures map[string]procedureEntry `json:"procedures"`
}

type procedureEntry struct {
	Type   string `json:"type"`
	Input  any    `json:"input"`
	Output any    `json:"output"`
}

func buildManifest(procedures []ProcedureDef, subscriptions []SubscriptionDef) manifestSchema {
	procs := make(map[string]procedureEntry)
	for _, p := range procedures {
		procs[p.Name] = procedureEntry{Type: "query", Input: p.InputSchema, Output: p.OutputSchema}
	}
	for _, s := range subscriptions {
		procs[s.Name] = procedureEntry{Type: "subscription", Input: s.InputSchema, Output: s.OutputSchema}
	}
	return manifestSchema{Version: "0.1.0", Procedures: procs}
}

func (s *appState) handleManifest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(s.manifestJSON)
}

func (s *appState) handleRPC(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if s.batchHash != "" && name == s.batchHash {
		s.handleBatch(w, r)
		return
	}

	if s.hashToName != nil && name != i18nQueryProcedureName {
		resolved, ok := s.hashToName[name]
		if !ok {
			writeError(w, http.StatusNotFound, NotFoundError(fmt.Sprintf("Procedure '%s' not found", name)))
			return
		}
		name = resolved
	}

	proc, ok := s.handlers[name]
	if !ok {
		writeError(w, http.StatusNotFound, NotFoundError(fmt.Sprintf("Procedure '%s' not found", name)))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, ValidationError("Failed to read request body"))
		return
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, ValidationError("Invalid JSON"))
		return
	}

	ctx := r.Context()
	if s.opts.RPCTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RPCTimeout)
		defer cancel()
	}

	result, err := proc.Handler(ctx, body)
	if err != nil {
		s.handleProcError(w, ctx, err, "RPC timed out")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

type batchRequest struct {
	Calls []batchCall `json:"calls"`
}

type batchCall struct {
	Procedure string          `json:"procedure"`
	Input     json.RawMessage `json:"input"`
}

type batchResult struct {
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

func (s *appState) handleBatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, ValidationError("Failed to read request body"))
		return
	}

	var batch batchRequest
	if err := json.Unmarshal(body, &batch); err != nil {
		writeError(w, http.StatusBadRequest, ValidationError("Invalid batch JSON"))
		return
	}

	ctx := r.Context()
	if s.opts.RPCTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RPCTimeout)
		defer cancel()
	}

	results := make([]batchResult, len(batch.Calls))
	for i, call := range batch.Calls {
		name := call.Procedure
		if s.hashToName != nil && name != i18nQueryProcedureName {
			resolved, ok := s.hashToName[name]
			if !ok {
				results[i] = batchResult{Error: NotFoundError(fmt.Sprintf("Procedure '%s' not found", name))}
				continue
			}
			name = resolved
		}

		proc, ok := s.handlers[name]
		if !ok {
			results[i] = batchResult{Error: NotFoundError(fmt.Sprintf("Procedure '%s' not found", name))}
			continue
		}

		input := call.Input
		if len(input) == 0 {
			input = json.RawMessage("{}")
		}

		result, err := proc.Handler(ctx, input)
		if err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				results[i] = batchResult{Error: NewError("INTERNAL_ERROR", "RPC timed out", http.StatusGatewayTimeout)}
			} else if ctrErr, ok := err.(*Error); ok {
				results[i] = batchResult{Error: ctrErr}
			} else {
				s.log.Warn("batch procedure failed", zap.String("procedure", name), zap.Error(err))
				results[i] = batchResult{Error: InternalError(err.Error())}
			}
			continue
		}
		results[i] = batchResult{Data: result}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

func (s *appState) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	sub, ok := s.subs[name]
	if !ok {
		writeSSEError(w, NotFoundError(fmt.Sprintf("Subscription '%s' not found", name)))
		return
	}

	inputStr := r.URL.Query().Get("input")
	rawInput := json.RawMessage("{}")
	if inputStr != "" {
		rawInput = json.RawMessage(inputStr)
	}

	ch, err := sub.Handler(r.Context(), rawInput)
	if err != nil {
		if ctrErr, ok := err.(*Error); ok {
			writeSSEError(w, ctrErr)
		} else {
			writeSSEError(w, InternalError(err.Error()))
		}
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, canFlush := w.(http.Flusher)
	idle := s.opts.SSEIdleTimeout

	for {
		if idle > 0 {
			select {
			case ev, ok := <-ch:
				if !ok {
					goto complete
				}
				writeSSEEvent(w, ev)
				if canFlush {
					flusher.Flush()
				}
			case <-time.After(idle):
				goto complete
			case <-r.Context().Done():
				return
			}
		} else {
			ev, ok := <-ch
			if !ok {
				goto complete
			}
			writeSSEEvent(w, ev)
			if canFlush {
				flusher.Flush()
			}
		}
	}

complete:
	fmt.Fprintf(w, "event: complete\ndata: {}\n\n")
	if canFlush {
		flusher.Flush()
	}
}

func (s *appState) handleProcError(w http.ResponseWriter, ctx context.Context, err error, timeoutMsg string) {
	if ctx.Err() == context.DeadlineExceeded {
		writeError(w, http.StatusGatewayTimeout, NewError("INTERNAL_ERROR", timeoutMsg, http.StatusGatewayTimeout))
		return
	}
	if ctrErr, ok := err.(*Error); ok {
		writeError(w, errorHTTPStatus(ctrErr), ctrErr)
		return
	}
	s.log.Warn("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, InternalError(err.Error()))
}

func extractParams(route string, r *http.Request) map[string]string {
	params := make(map[string]string)
	for _, p := range strings.Split(route, "/") {
		if strings.HasPrefix(p, ":") {
			name := p[1:]
			params[name] = r.PathValue(name)
		}
	}
	return params
}

func writeError(w http.ResponseWriter, status int, e *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": e.Code, "message": e.Message},
	})
}

func writeSSEEvent(w http.ResponseWriter, ev SubscriptionEvent) {
	if ev.Err != nil {
		fmt.Fprintf(w, "event: error\ndata: %s\n\n", mustJSON(map[string]string{"code": ev.Err.Code, "message": ev.Err.Message}))
	} else {
		fmt.Fprintf(w, "event: data\ndata: %s\n\n", mustJSON(ev.Value))
	}
}

func writeSSEError(w http.ResponseWriter, e *Error) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	fmt.Fprintf(w, "event: error\ndata: %s\n\n", mustJSON(map[string]string{"code": e.Code, "message": e.Message}))
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func mustJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

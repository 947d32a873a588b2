package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/rahul/webo/internal/governance"
	"github.com/rahul/webo/internal/observability"
	"github.com/rahul/webo/internal/store"
)

// HTTPGateway exposes the submission and status surfaces over HTTP.
type HTTPGateway struct {
	Store          JobStore
	Runner         Launcher
	Watcher        Subscriber
	Policy         governance.PolicyEngine
	Logger         *observability.Logger
	AllowedOrigins []string
}

func NewHTTPGateway(jobs JobStore, runner Launcher, watcher Subscriber, policy governance.PolicyEngine, logger *observability.Logger) *HTTPGateway {
	return &HTTPGateway{
		Store:   jobs,
		Runner:  runner,
		Watcher: watcher,
		Policy:  policy,
		Logger:  logger,
	}
}

type askRequest struct {
	Query string `json:"query"`
}

type askResponse struct {
	JobID string `json:"job_id"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// statusResponse maps the persisted job fields onto the wire. Sources are
// deduplicated by URL at this boundary; the persisted sequence keeps every
// encounter.
type statusResponse struct {
	JobID         string           `json:"job_id"`
	Status        store.Status     `json:"status"`
	OriginalQuery string           `json:"original_query"`
	FinalAnswer   string           `json:"final_answer,omitempty"`
	SubQueries    []string         `json:"sub_queries,omitempty"`
	Sources       []store.Citation `json:"sources,omitempty"`
	Memory        []store.Step     `json:"memory,omitempty"`
}

func toStatusResponse(st store.JobState) statusResponse {
	return statusResponse{
		JobID:         st.JobID,
		Status:        st.Status,
		OriginalQuery: st.OriginalQuery,
		FinalAnswer:   st.FinalAnswer,
		SubQueries:    st.SubQueries,
		Sources:       store.DedupeByURL(st.Sources),
		Memory:        st.Memory,
	}
}

func (g *HTTPGateway) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	origins := g.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/", g.handleRoot)
	r.Post("/ask", g.handleAsk)
	r.Get("/status/{jobID}", g.handleStatus)
	r.Get("/stream/{jobID}", g.handleStream)
	return r
}

func (g *HTTPGateway) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "webo"})
}

// handleAsk creates the job in PENDING and schedules its pipeline to run in
// the background. The response carries only the job ID; progress is read
// through /status and /stream.
func (g *HTTPGateway) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}

	verdict, err := g.Policy.Evaluate(r.Context(), governance.Request{Query: req.Query})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "policy evaluation failed"})
		return
	}
	if verdict.Effect == governance.EffectDeny {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: verdict.Reason})
		return
	}

	jobID := uuid.NewString()
	if _, err := g.Store.Create(jobID, strings.TrimSpace(req.Query)); err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Detail: fmt.Sprintf("Service unavailable: %v", err)})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: fmt.Sprintf("Error submitting job: %v", err)})
		return
	}

	if err := g.Runner.Launch(jobID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: fmt.Sprintf("Error starting job: %v", err)})
		return
	}

	writeJSON(w, http.StatusOK, askResponse{JobID: jobID})
}

func (g *HTTPGateway) handleStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	st, err := g.Store.Get(jobID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: fmt.Sprintf("No job found with ID: %s", jobID)})
		return
	case errors.Is(err, store.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Detail: fmt.Sprintf("Service unavailable: %v", err)})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: fmt.Sprintf("Error fetching job: %v", err)})
		return
	}

	writeJSON(w, http.StatusOK, toStatusResponse(st))
}

// handleStream emits one SSE event per job mutation and a final explicit
// completion event, then closes the connection.
func (g *HTTPGateway) handleStream(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	terminal := false
	for ev := range g.Watcher.Watch(r.Context(), jobID) {
		if ev.NotFound {
			writeSSE(w, map[string]string{"type": "error", "message": fmt.Sprintf("No job found with ID: %s", jobID)})
			flusher.Flush()
			return
		}
		writeSSE(w, toStatusResponse(*ev.State))
		flusher.Flush()
		if ev.State.Status.Terminal() {
			terminal = true
		}
	}

	if terminal {
		writeSSE(w, map[string]string{"type": "completed"})
		flusher.Flush()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeSSE(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("failed to encode stream event: %v", err)
		return
	}
	fmt.Fprintf(w, "data:%s\n\n", data)
}

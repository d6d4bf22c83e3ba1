package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	workflowx "github.com/sudeep-c/NEXTGENMARKETER/agent/agents/workflow"
	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
	statex "github.com/sudeep-c/NEXTGENMARKETER/agent/state"
)

type fakeEngine struct {
	state     *contractx.WorkflowState
	runErr    error
	threadErr error

	lastPrompt string
	lastThread string
}

func (f *fakeEngine) Run(ctx context.Context, userPrompt string, threadID string) (*contractx.WorkflowState, error) {
	f.lastPrompt = userPrompt
	f.lastThread = threadID
	if f.runErr != nil {
		return nil, f.runErr
	}
	return f.state, nil
}

func (f *fakeEngine) Thread(ctx context.Context, threadID string) (*contractx.WorkflowState, error) {
	f.lastThread = threadID
	if f.threadErr != nil {
		return nil, f.threadErr
	}
	return f.state, nil
}

func sampleState() *contractx.WorkflowState {
	return &contractx.WorkflowState{
		ThreadID:   "t-1",
		UserPrompt: "plan the launch",
		Route:      []contractx.AgentName{contractx.AgentSentiment, contractx.AgentMarketer},
		FinalDecision: &contractx.FinalDecision{
			ExecutiveSummary: "go west",
		},
	}
}

func newTestServer(t *testing.T, engine Runner) *Server {
	t.Helper()
	s, err := New(Config{Addr: ":0"}, engine)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestStrategyEndpoint(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{state: sampleState()}
	s := newTestServer(t, engine)

	body := strings.NewReader(`{"user_prompt": "plan the launch", "thread_id": "t-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/strategy", body)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if engine.lastPrompt != "plan the launch" || engine.lastThread != "t-1" {
		t.Fatalf("engine got prompt=%q thread=%q", engine.lastPrompt, engine.lastThread)
	}

	var got contractx.WorkflowState
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.FinalDecision == nil || got.FinalDecision.ExecutiveSummary != "go west" {
		t.Fatalf("unexpected decision: %+v", got.FinalDecision)
	}
}

func TestStrategyEndpointBadJSON(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeEngine{state: sampleState()})

	req := httptest.NewRequest(http.MethodPost, "/api/strategy", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestStrategyEndpointEmptyPrompt(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{runErr: workflowx.ErrInvalidPrompt}
	s := newTestServer(t, engine)

	req := httptest.NewRequest(http.MethodPost, "/api/strategy", strings.NewReader(`{"user_prompt": "  "}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestStrategyEndpointEngineFailure(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{runErr: errors.New("model exploded")}
	s := newTestServer(t, engine)

	req := httptest.NewRequest(http.MethodPost, "/api/strategy", strings.NewReader(`{"user_prompt": "x"}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "model exploded") {
		t.Fatalf("internal error detail must not leak: %s", rec.Body.String())
	}
}

func TestThreadEndpoint(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{state: sampleState()}
	s := newTestServer(t, engine)

	req := httptest.NewRequest(http.MethodGet, "/api/threads/t-1", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if engine.lastThread != "t-1" {
		t.Fatalf("engine got thread %q", engine.lastThread)
	}
}

func TestThreadEndpointNotFound(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{threadErr: statex.ErrThreadNotFound}
	s := newTestServer(t, engine)

	req := httptest.NewRequest(http.MethodGet, "/api/threads/missing", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeEngine{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeEngine{state: sampleState()})

	// hit a handler first so counters exist
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	s.Handler().ServeHTTP(httptest.NewRecorder(), req)

	metricsReq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, metricsReq)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "marketer_http_requests_total") {
		t.Fatalf("request counter missing from metrics output")
	}
}

package state

import (
	"context"
	"fmt"
	"strings"
	"sync"

	contractx "github.com/sudeep-c/NEXTGENMARKETER/agent/contract"
)

// MemoryStore is an in-process Store for tests and single-node setups.
type MemoryStore struct {
	mu      sync.RWMutex
	threads map[string]*contractx.WorkflowState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{threads: make(map[string]*contractx.WorkflowState)}
}

func (m *MemoryStore) Load(_ context.Context, threadID string) (*contractx.WorkflowState, error) {
	if strings.TrimSpace(threadID) == "" {
		return nil, ErrInvalidThread
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.threads[threadID]
	if !ok {
		return nil, fmt.Errorf("%w: thread_id=%s", ErrThreadNotFound, threadID)
	}
	return cloneState(st), nil
}

func (m *MemoryStore) Save(_ context.Context, st *contractx.WorkflowState) error {
	if st == nil {
		return ErrNilState
	}
	if strings.TrimSpace(st.ThreadID) == "" {
		return ErrInvalidThread
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.threads[st.ThreadID] = cloneState(st)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, threadID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.threads, threadID)
	return nil
}

// cloneState keeps callers from mutating the stored copy through shared
// slices and maps.
func cloneState(st *contractx.WorkflowState) *contractx.WorkflowState {
	clone := *st
	clone.Route = append([]contractx.AgentName(nil), st.Route...)
	clone.AgentOutputs = append([]contractx.AgentOutput(nil), st.AgentOutputs...)
	if st.Failures != nil {
		clone.Failures = make(map[contractx.AgentName]string, len(st.Failures))
		for k, v := range st.Failures {
			clone.Failures[k] = v
		}
	}
	if st.FinalDecision != nil {
		decision := *st.FinalDecision
		clone.FinalDecision = &decision
	}
	return &clone
}

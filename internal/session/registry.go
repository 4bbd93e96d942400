package session

import (
	"sync"
	"time"

	"vectorchat/internal/llm"
)

// Registry hands out the single actor instance for each session id, creating
// it lazily on first access. This reproduces the one-instance-per-session
// discipline: operations against one session's state are serialized by that
// actor, while actors for different sessions run fully in parallel.
type Registry struct {
	mu     sync.Mutex
	actors map[string]*Actor

	factory      llm.Factory
	fanout       TurnRecorder
	defaultModel string
	timeout      time.Duration
}

// NewRegistry creates an empty registry. Each new actor gets its own engine
// from factory, bound to defaultModel until overridden.
func NewRegistry(factory llm.Factory, fanout TurnRecorder, defaultModel string, timeout time.Duration) *Registry {
	return &Registry{
		actors:       make(map[string]*Actor),
		factory:      factory,
		fanout:       fanout,
		defaultModel: defaultModel,
		timeout:      timeout,
	}
}

// Get returns the actor owning sessionID, creating it if needed.
func (r *Registry) Get(sessionID string) *Actor {
	r.mu.Lock()
	defer r.mu.Unlock()

	if actor, ok := r.actors[sessionID]; ok {
		return actor
	}
	actor := NewActor(sessionID, r.defaultModel, r.factory(r.defaultModel), r.fanout, r.timeout)
	r.actors[sessionID] = actor
	return actor
}

// Len reports how many actors are currently materialized.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.actors)
}

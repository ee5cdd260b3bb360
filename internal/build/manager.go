package build

import "sync"

// Manager owns at most one active session. Beginning a new build abandons
// the previous one, so a regenerated world replaces the old.
type Manager struct {
	mu     sync.Mutex
	active *Session
}

// Begin abandons any active session and schedules a new one.
func (m *Manager) Begin(env Env, stages []Stage) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil {
		m.active.Abandon()
	}
	m.active = Schedule(env, stages)
	return m.active
}

// Active returns the most recently begun session, or nil.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

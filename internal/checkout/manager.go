package checkout

import "sync"

// Manager hands out one checkout machine per shopper email. Sessions live in
// memory; a fresh machine simply starts at the cart step.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Machine

	store OrderStore
	fee   FeeFunc
}

func NewManager(store OrderStore, fee FeeFunc) *Manager {
	return &Manager{
		sessions: make(map[string]*Machine),
		store:    store,
		fee:      fee,
	}
}

// Session returns the machine for the email, creating one when absent.
func (g *Manager) Session(email string) *Machine {
	g.mu.Lock()
	defer g.mu.Unlock()

	m, ok := g.sessions[email]
	if !ok {
		m = newMachine(email, g.store, g.fee)
		g.sessions[email] = m
	}
	return m
}

// End drops the session, e.g. after a confirmed checkout or sign-out.
func (g *Manager) End(email string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sessions, email)
}

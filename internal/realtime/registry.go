package realtime

import "sync"

// SessionRegistry tracks which user owns each live connection and how
// many connections each user holds. It is the authority for the
// first-session / last-session edges that drive presence.
type SessionRegistry struct {
	mu        sync.Mutex
	connUser  map[string]string              // connID -> userID
	userConns map[string]map[string]struct{} // userID -> set of connIDs
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		connUser:  make(map[string]string),
		userConns: make(map[string]map[string]struct{}),
	}
}

// Register binds a connection to a user and reports whether it is the
// user's first live session.
func (r *SessionRegistry) Register(connID, userID string) (first bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.connUser[connID] = userID
	conns, ok := r.userConns[userID]
	if !ok {
		conns = make(map[string]struct{})
		r.userConns[userID] = conns
	}
	conns[connID] = struct{}{}
	return len(conns) == 1
}

// Unregister removes a connection and reports the owning user and
// whether it was that user's last session. Unknown connections are a
// no-op with ok=false, so double-unregister is safe.
func (r *SessionRegistry) Unregister(connID string) (userID string, last, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok = r.connUser[connID]
	if !ok {
		return "", false, false
	}
	delete(r.connUser, connID)

	conns := r.userConns[userID]
	delete(conns, connID)
	if len(conns) == 0 {
		delete(r.userConns, userID)
		return userID, true, true
	}
	return userID, false, true
}

// Sessions returns the user's live connection ids. The result is a
// copy; callers may not mutate registry state through it.
func (r *SessionRegistry) Sessions(userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := make([]string, 0, len(r.userConns[userID]))
	for connID := range r.userConns[userID] {
		conns = append(conns, connID)
	}
	return conns
}

// Identity reports the user bound to a connection.
func (r *SessionRegistry) Identity(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, ok := r.connUser[connID]
	return userID, ok
}

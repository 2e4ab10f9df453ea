package session

import "sync"

// state is the per-connection record: which device topic the session is
// watching and whether target reporting should be switched off when the
// session goes away.
type state struct {
	topic   string
	autoOff bool
}

// Router tracks per-connection selected-device and preference state.
//
// Command routing always resolves the issuing session's own selected topic;
// there is deliberately no global "currently selected device" fallback, so
// one operator's commands can never leak to another operator's device.
//
// One mutex guards the whole store. All methods are safe for concurrent use.
type Router struct {
	mu       sync.Mutex
	sessions map[string]*state
}

// NewRouter creates an empty session router.
func NewRouter() *Router {
	return &Router{sessions: make(map[string]*state)}
}

// Connect registers a new session with no selected device.
func (r *Router) Connect(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &state{}
}

// Disconnect atomically removes the session and returns what it held, so
// the caller can decide on an auto-off publish without a second lookup
// racing a concurrent reconnect under the same id.
func (r *Router) Disconnect(id string) (lastTopic string, autoOff bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return "", false
	}
	delete(r.sessions, id)
	return s.topic, s.autoOff
}

// Select overwrites the session's chosen topic. The topic is not validated
// against the registry: an unknown topic simply yields "no device"
// behaviour downstream. An empty topic clears the selection.
func (r *Router) Select(id, topic string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.topic = topic
	}
}

// CurrentTopic returns the session's selected topic, or false when the
// session has none.
func (r *Router) CurrentTopic(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || s.topic == "" {
		return "", false
	}
	return s.topic, true
}

// SetAutoOff records whether target reporting should be disabled when this
// session disconnects.
func (r *Router) SetAutoOff(id string, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.autoOff = enabled
	}
}

// AnyOtherOnTopic reports whether any live session other than the excluded
// one currently has the topic selected. Used to gate the last-watcher
// auto-off publish.
func (r *Router) AnyOtherOnTopic(topic, excluding string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		if id != excluding && s.topic == topic {
			return true
		}
	}
	return false
}

// Count returns the number of live sessions.
func (r *Router) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

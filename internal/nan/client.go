package nan

// ClientState represents one connected client (spec §3, §4.2): its event
// callback, its latest requested ConfigRequest, and its owned sessions.
//
// A client whose event callback is nil receives no events; its
// ConfigRequest, if present, still participates in ConfigMerger.
type ClientState struct {
	id       uint32
	callback EventCallback

	config    ConfigRequest
	hasConfig bool

	sessions   map[uint32]*SessionState
	nextSessID uint32
}

// newClientState returns an empty ClientState for id, with callback
// possibly nil.
func newClientState(id uint32, callback EventCallback) *ClientState {
	return &ClientState{
		id:       id,
		callback: callback,
		sessions: make(map[uint32]*SessionState),
	}
}

// ID returns the client's identifier.
func (c *ClientState) ID() uint32 { return c.id }

// Callback returns the client's registered event callback, or nil.
func (c *ClientState) Callback() EventCallback { return c.callback }

// Config returns the client's latest requested ConfigRequest and whether
// one has been submitted yet.
func (c *ClientState) Config() (ConfigRequest, bool) { return c.config, c.hasConfig }

// SetConfig stores req as the client's latest requested configuration.
func (c *ClientState) SetConfig(req ConfigRequest) {
	c.config = req
	c.hasConfig = true
}

// addSession mints a new client-local sessionId, attaches session under it,
// and returns the id.
func (c *ClientState) addSession(session *SessionState) uint32 {
	c.nextSessID++
	id := c.nextSessID
	c.sessions[id] = session
	return id
}

// Session looks up a session owned by this client by id.
func (c *ClientState) Session(sessionID uint32) (*SessionState, bool) {
	s, ok := c.sessions[sessionID]
	return s, ok
}

// removeSession detaches a session from this client.
func (c *ClientState) removeSession(sessionID uint32) {
	delete(c.sessions, sessionID)
}

// Sessions returns a snapshot of this client's (sessionID, *SessionState)
// pairs, for iteration during sweep/disconnect.
func (c *ClientState) Sessions() map[uint32]*SessionState {
	out := make(map[uint32]*SessionState, len(c.sessions))
	for id, s := range c.sessions {
		out[id] = s
	}
	return out
}


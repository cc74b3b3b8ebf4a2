package nan

// ClientSnapshot is a read-only view of one connected client, for
// diagnostics tooling (cmd/nanctl). It is not part of the client-facing
// callback contract.
type ClientSnapshot struct {
	// ClientID identifies the client.
	ClientID uint32

	// HasConfig reports whether the client has submitted a ConfigRequest.
	HasConfig bool

	// Config is the client's latest requested configuration, valid only
	// when HasConfig is true.
	Config ConfigRequest

	// Sessions lists the client's owned sessions.
	Sessions []SessionSnapshot
}

// SessionSnapshot is a read-only view of one publish or subscribe session.
type SessionSnapshot struct {
	// SessionID is the client-local session handle.
	SessionID uint32

	// Kind is the session's fixed kind.
	Kind SessionKind

	// PubSubID is the HAL-assigned session id, valid only when HasPubSubID
	// is true (absent while the session is still being created).
	PubSubID    uint32
	HasPubSubID bool

	// Lifecycle is the session's current FSM state.
	Lifecycle LifecycleState

	// PeerCount is the number of peers this session has ever seen.
	PeerCount int
}

// ManagerSnapshot is a point-in-time read-only view of the Manager's state,
// for introspection tooling. It never appears on the client API or HAL
// callback surface.
type ManagerSnapshot struct {
	Clients []ClientSnapshot

	LastCapabilities    Capabilities
	HasLastCapabilities bool

	LastEffectiveConfig    ConfigRequest
	HasLastEffectiveConfig bool
}

// Snapshot returns a point-in-time view of every connected client and its
// sessions, plus the last-known HAL capabilities and effective device
// config. Unlike the rest of the Manager API this call blocks until the
// event loop has processed it, since diagnostics tooling needs the
// answer, not a fire-and-forget acknowledgement.
func (m *Manager) Snapshot() ManagerSnapshot {
	result := make(chan ManagerSnapshot, 1)
	m.loop.Post(func() {
		result <- m.buildSnapshot()
	})
	return <-result
}

func (m *Manager) buildSnapshot() ManagerSnapshot {
	snap := ManagerSnapshot{
		LastCapabilities:       m.lastCapabilities,
		HasLastCapabilities:    m.hasLastCapabilities,
		LastEffectiveConfig:    m.lastEffectiveConfig,
		HasLastEffectiveConfig: m.hasLastEffectiveConfig,
	}

	for clientID, client := range m.clients {
		cs := ClientSnapshot{ClientID: clientID}
		cs.Config, cs.HasConfig = client.Config()

		for sessionID, session := range client.Sessions() {
			ss := SessionSnapshot{
				SessionID: sessionID,
				Kind:      session.Kind(),
				Lifecycle: session.Lifecycle(),
				PeerCount: session.peers.Len(),
			}
			ss.PubSubID, ss.HasPubSubID = session.PubSubID()
			cs.Sessions = append(cs.Sessions, ss)
		}

		snap.Clients = append(snap.Clients, cs)
	}

	return snap
}

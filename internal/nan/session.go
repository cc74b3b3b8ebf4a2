package nan

// SessionState represents one publish or subscribe session owned by a
// client (spec §3, §4.2).
type SessionState struct {
	kind     SessionKind
	pubSubID uint32
	hasPSID  bool

	callback SessionCallback
	peers    *PeerTable

	lifecycle LifecycleState
}

// newSessionState returns a SessionState in StateCreating, not yet attached
// to any client (it is attached once the HAL acknowledges creation).
func newSessionState(kind SessionKind, cb SessionCallback) *SessionState {
	return &SessionState{
		kind:      kind,
		callback:  cb,
		peers:     NewPeerTable(),
		lifecycle: StateCreating,
	}
}

// Kind returns the session's fixed kind (spec invariant: never changes).
func (s *SessionState) Kind() SessionKind { return s.kind }

// PubSubID returns the HAL-assigned session id and whether it has been set
// yet (it is absent while the session is still being created).
func (s *SessionState) PubSubID() (uint32, bool) { return s.pubSubID, s.hasPSID }

// setPubSubID installs the HAL-assigned id once. Per spec §3 invariant (c),
// it is a no-op once already set -- even across update attempts.
func (s *SessionState) setPubSubID(id uint32) {
	if s.hasPSID {
		return
	}
	s.pubSubID = id
	s.hasPSID = true
}

// Callback returns the session's registered callback.
func (s *SessionState) Callback() SessionCallback { return s.callback }

// UpdatePeer records mac as the most-recently-seen address for peerID.
func (s *SessionState) UpdatePeer(peerID uint32, mac MAC) { s.peers.Update(peerID, mac) }

// LookupPeer resolves peerID to its most-recently-seen MAC.
func (s *SessionState) LookupPeer(peerID uint32) (MAC, bool) { return s.peers.Lookup(peerID) }

// Lifecycle returns the session's current lifecycle state.
func (s *SessionState) Lifecycle() LifecycleState { return s.lifecycle }

package nan

// PeerTable maps a session's discovered peers (peerInstanceId) to the most
// recently seen MAC address for that instance. peerInstanceId is stable
// across MAC changes for the life of a discovery (spec glossary); the
// table always resolves to the freshest address.
type PeerTable struct {
	byInstance map[uint32]MAC
}

// NewPeerTable returns an empty peer table.
func NewPeerTable() *PeerTable {
	return &PeerTable{byInstance: make(map[uint32]MAC)}
}

// Update records mac as the most-recently-seen address for peerID,
// overwriting whatever was previously recorded.
func (t *PeerTable) Update(peerID uint32, mac MAC) {
	t.byInstance[peerID] = mac
}

// Lookup returns the most-recently-seen MAC for peerID, or ok == false if
// this table has never observed that peer instance.
func (t *PeerTable) Lookup(peerID uint32) (MAC, bool) {
	mac, ok := t.byInstance[peerID]
	return mac, ok
}

// Len returns the number of distinct peer instances this table has
// observed.
func (t *PeerTable) Len() int {
	return len(t.byInstance)
}

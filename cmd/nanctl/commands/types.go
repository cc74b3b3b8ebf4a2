package commands

// The view types below mirror the JSON shape nan.ManagerSnapshot and its
// fields render as (see internal/nan/snapshot.go and internal/nan/types.go
// ConfigRequest.MarshalJSON). nanctl decodes into these rather than
// importing internal/nan directly, the same way gobfdctl talks to gobfd
// only through its wire contract rather than its internal packages.

type snapshotView struct {
	Clients []clientView `json:"Clients"`

	LastCapabilities    capabilitiesView `json:"LastCapabilities"`
	HasLastCapabilities bool             `json:"HasLastCapabilities"`

	LastEffectiveConfig    configView `json:"LastEffectiveConfig"`
	HasLastEffectiveConfig bool       `json:"HasLastEffectiveConfig"`
}

type clientView struct {
	ClientID  uint32        `json:"ClientID"`
	HasConfig bool          `json:"HasConfig"`
	Config    configView    `json:"Config"`
	Sessions  []sessionView `json:"Sessions"`
}

type sessionView struct {
	SessionID   uint32 `json:"SessionID"`
	Kind        uint8  `json:"Kind"`
	PubSubID    uint32 `json:"PubSubID"`
	HasPubSubID bool   `json:"HasPubSubID"`
	Lifecycle   uint8  `json:"Lifecycle"`
	PeerCount   int    `json:"PeerCount"`
}

type configView struct {
	ClusterLow                    uint16 `json:"cluster_low"`
	ClusterHigh                   uint16 `json:"cluster_high"`
	MasterPreference              uint8  `json:"master_preference"`
	Support5gBand                 bool   `json:"support_5g_band"`
	IdentityChangeCallbackEnabled bool   `json:"identity_change_callback_enabled"`
}

type capabilitiesView struct {
	MaxConcurrentClusters     int `json:"MaxConcurrentClusters"`
	MaxPublishes              int `json:"MaxPublishes"`
	MaxSubscribes             int `json:"MaxSubscribes"`
	MaxServiceNameLen         int `json:"MaxServiceNameLen"`
	MaxMatchFilterLen         int `json:"MaxMatchFilterLen"`
	MaxTotalMatchFilterLen    int `json:"MaxTotalMatchFilterLen"`
	MaxServiceSpecificInfoLen int `json:"MaxServiceSpecificInfoLen"`
	MaxNdiInterfaces          int `json:"MaxNdiInterfaces"`
	MaxNdpSessions            int `json:"MaxNdpSessions"`
	MaxAppInfoLen             int `json:"MaxAppInfoLen"`
	MaxQueuedTransmitMessages int `json:"MaxQueuedTransmitMessages"`
}

// sessionKindName renders the wire session kind (nan.SessionKind) as a
// short string without importing internal/nan.
func sessionKindName(kind uint8) string {
	switch kind {
	case 1:
		return "publish"
	case 2:
		return "subscribe"
	default:
		return "unknown"
	}
}

// lifecycleStateName renders the wire lifecycle state (nan.LifecycleState)
// as a short string without importing internal/nan.
func lifecycleStateName(state uint8) string {
	switch state {
	case 1:
		return "creating"
	case 2:
		return "creating-orphan"
	case 3:
		return "established"
	case 4:
		return "terminated"
	case 5:
		return "gone"
	default:
		return "unknown"
	}
}

package nan

import (
	"encoding/json"
	"fmt"
	"net"
)

// -------------------------------------------------------------------------
// ConfigRequest — device-level NAN configuration requested by one client
// -------------------------------------------------------------------------

// Bounds of the NAN cluster ID range. A ConfigRequest whose range is the
// full [ClusterIDMin, ClusterIDMax] span does not constrain the merged
// device-level range (see MergeConfigs).
const (
	ClusterIDMin uint16 = 0x0000
	ClusterIDMax uint16 = 0xFFFF
)

// ConfigRequest is an immutable description of the NAN device configuration
// a single client wants in effect. Multiple clients' requests are combined
// by ConfigMerger into the single request the HAL actually runs.
//
// ConfigRequest has value semantics: once built it cannot be mutated, so it
// is always safe to hold (and compare) without copying defensively.
type ConfigRequest struct {
	clusterLow                    uint16
	clusterHigh                   uint16
	masterPreference              uint8
	support5gBand                 bool
	identityChangeCallbackEnabled bool
}

// ClusterLow is the low end of the configured cluster ID range.
func (c ConfigRequest) ClusterLow() uint16 { return c.clusterLow }

// ClusterHigh is the high end of the configured cluster ID range.
func (c ConfigRequest) ClusterHigh() uint16 { return c.clusterHigh }

// MasterPreference is the requested master-preference value used in
// cluster merge/master election.
func (c ConfigRequest) MasterPreference() uint8 { return c.masterPreference }

// Support5gBand reports whether the client asked the device to also
// operate NAN discovery on the 5 GHz band.
func (c ConfigRequest) Support5gBand() bool { return c.support5gBand }

// IdentityChangeCallbackEnabled reports whether the client opted in to
// onIdentityChanged notifications.
func (c ConfigRequest) IdentityChangeCallbackEnabled() bool { return c.identityChangeCallbackEnabled }

// MarshalJSON renders a ConfigRequest by its exported accessors, for
// diagnostics tooling (cmd/nanctl) -- ConfigRequest has no exported fields
// of its own to marshal.
func (c ConfigRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ClusterLow                    uint16 `json:"cluster_low"`
		ClusterHigh                   uint16 `json:"cluster_high"`
		MasterPreference              uint8  `json:"master_preference"`
		Support5gBand                 bool   `json:"support_5g_band"`
		IdentityChangeCallbackEnabled bool   `json:"identity_change_callback_enabled"`
	}{
		ClusterLow:                    c.clusterLow,
		ClusterHigh:                   c.clusterHigh,
		MasterPreference:              c.masterPreference,
		Support5gBand:                 c.support5gBand,
		IdentityChangeCallbackEnabled: c.identityChangeCallbackEnabled,
	})
}

// ConfigRequestBuilder constructs a ConfigRequest.
type ConfigRequestBuilder struct {
	req ConfigRequest
}

// NewConfigRequestBuilder returns a builder seeded with the device's
// default cluster range and no optional behaviors enabled.
func NewConfigRequestBuilder() *ConfigRequestBuilder {
	return &ConfigRequestBuilder{req: ConfigRequest{
		clusterLow:  ClusterIDMin,
		clusterHigh: ClusterIDMax,
	}}
}

// SetClusterLow sets the low end of the cluster ID range.
func (b *ConfigRequestBuilder) SetClusterLow(v uint16) *ConfigRequestBuilder {
	b.req.clusterLow = v
	return b
}

// SetClusterHigh sets the high end of the cluster ID range.
func (b *ConfigRequestBuilder) SetClusterHigh(v uint16) *ConfigRequestBuilder {
	b.req.clusterHigh = v
	return b
}

// SetMasterPreference sets the requested master-preference value.
func (b *ConfigRequestBuilder) SetMasterPreference(v uint8) *ConfigRequestBuilder {
	b.req.masterPreference = v
	return b
}

// SetSupport5gBand sets whether the client wants 5 GHz NAN discovery.
func (b *ConfigRequestBuilder) SetSupport5gBand(v bool) *ConfigRequestBuilder {
	b.req.support5gBand = v
	return b
}

// SetIdentityChangeCallbackEnabled sets whether the client wants
// onIdentityChanged notifications.
func (b *ConfigRequestBuilder) SetIdentityChangeCallbackEnabled(v bool) *ConfigRequestBuilder {
	b.req.identityChangeCallbackEnabled = v
	return b
}

// Build returns the immutable ConfigRequest.
func (b *ConfigRequestBuilder) Build() ConfigRequest {
	return b.req
}

// -------------------------------------------------------------------------
// SessionKind — publish vs subscribe
// -------------------------------------------------------------------------

// SessionKind distinguishes a publish session from a subscribe session.
type SessionKind uint8

const (
	// KindPublish identifies a session advertising a service.
	KindPublish SessionKind = iota + 1

	// KindSubscribe identifies a session searching for a service.
	KindSubscribe
)

// String returns the human-readable name of the session kind.
func (k SessionKind) String() string {
	switch k {
	case KindPublish:
		return "Publish"
	case KindSubscribe:
		return "Subscribe"
	default:
		return "Unknown"
	}
}

// -------------------------------------------------------------------------
// PublishConfig / SubscribeConfig
// -------------------------------------------------------------------------

// PublishConfig is an immutable description of a publish session's
// parameters, as supplied by the client and forwarded to the HAL verbatim.
// NAN service-discovery semantics (service name matching, ranging) are not
// interpreted by the manager; only the fields needed for transaction
// bookkeeping are modeled here (see spec §1 non-goals: no 802.11 wire
// encoding).
type PublishConfig struct {
	serviceName   string
	ssi           []byte
	matchFilter   []byte
	ttlSec        uint16
	rangingOptOut bool
}

// ServiceName returns the advertised service name.
func (c PublishConfig) ServiceName() string { return c.serviceName }

// SSI returns the service-specific information payload.
func (c PublishConfig) SSI() []byte { return c.ssi }

// MatchFilter returns the match filter bytes.
func (c PublishConfig) MatchFilter() []byte { return c.matchFilter }

// TTLSeconds returns the requested session TTL in seconds (0 = no timeout).
func (c PublishConfig) TTLSeconds() uint16 { return c.ttlSec }

// PublishConfigBuilder constructs a PublishConfig.
type PublishConfigBuilder struct {
	cfg PublishConfig
}

// NewPublishConfigBuilder returns a builder for the given service name.
func NewPublishConfigBuilder(serviceName string) *PublishConfigBuilder {
	return &PublishConfigBuilder{cfg: PublishConfig{serviceName: serviceName}}
}

// SetSSI sets the service-specific information payload.
func (b *PublishConfigBuilder) SetSSI(ssi []byte) *PublishConfigBuilder {
	b.cfg.ssi = ssi
	return b
}

// SetMatchFilter sets the match filter bytes.
func (b *PublishConfigBuilder) SetMatchFilter(mf []byte) *PublishConfigBuilder {
	b.cfg.matchFilter = mf
	return b
}

// SetTTLSeconds sets the requested session TTL.
func (b *PublishConfigBuilder) SetTTLSeconds(ttl uint16) *PublishConfigBuilder {
	b.cfg.ttlSec = ttl
	return b
}

// SetRangingOptOut sets whether the session opts out of ranging-gated matches.
func (b *PublishConfigBuilder) SetRangingOptOut(v bool) *PublishConfigBuilder {
	b.cfg.rangingOptOut = v
	return b
}

// Build returns the immutable PublishConfig.
func (b *PublishConfigBuilder) Build() PublishConfig {
	return b.cfg
}

// SubscribeConfig is an immutable description of a subscribe session's
// parameters, as supplied by the client and forwarded to the HAL verbatim.
type SubscribeConfig struct {
	serviceName   string
	ssi           []byte
	matchFilter   []byte
	ttlSec        uint16
	rangingOptOut bool
}

// ServiceName returns the searched-for service name.
func (c SubscribeConfig) ServiceName() string { return c.serviceName }

// SSI returns the service-specific information payload.
func (c SubscribeConfig) SSI() []byte { return c.ssi }

// MatchFilter returns the match filter bytes.
func (c SubscribeConfig) MatchFilter() []byte { return c.matchFilter }

// TTLSeconds returns the requested session TTL in seconds (0 = no timeout).
func (c SubscribeConfig) TTLSeconds() uint16 { return c.ttlSec }

// SubscribeConfigBuilder constructs a SubscribeConfig.
type SubscribeConfigBuilder struct {
	cfg SubscribeConfig
}

// NewSubscribeConfigBuilder returns a builder for the given service name.
func NewSubscribeConfigBuilder(serviceName string) *SubscribeConfigBuilder {
	return &SubscribeConfigBuilder{cfg: SubscribeConfig{serviceName: serviceName}}
}

// SetSSI sets the service-specific information payload.
func (b *SubscribeConfigBuilder) SetSSI(ssi []byte) *SubscribeConfigBuilder {
	b.cfg.ssi = ssi
	return b
}

// SetMatchFilter sets the match filter bytes.
func (b *SubscribeConfigBuilder) SetMatchFilter(mf []byte) *SubscribeConfigBuilder {
	b.cfg.matchFilter = mf
	return b
}

// SetTTLSeconds sets the requested session TTL.
func (b *SubscribeConfigBuilder) SetTTLSeconds(ttl uint16) *SubscribeConfigBuilder {
	b.cfg.ttlSec = ttl
	return b
}

// SetRangingOptOut sets whether the session opts out of ranging-gated matches.
func (b *SubscribeConfigBuilder) SetRangingOptOut(v bool) *SubscribeConfigBuilder {
	b.cfg.rangingOptOut = v
	return b
}

// Build returns the immutable SubscribeConfig.
func (b *SubscribeConfigBuilder) Build() SubscribeConfig {
	return b.cfg
}

// -------------------------------------------------------------------------
// Capabilities — informational, delivered via onCapabilitiesUpdate
// -------------------------------------------------------------------------

// Capabilities describes the firmware's reported NAN capabilities. It is
// cached by the manager for diagnostics; no client API depends on it.
type Capabilities struct {
	MaxConcurrentClusters     int
	MaxPublishes              int
	MaxSubscribes             int
	MaxServiceNameLen         int
	MaxMatchFilterLen         int
	MaxTotalMatchFilterLen    int
	MaxServiceSpecificInfoLen int
	MaxNdiInterfaces          int
	MaxNdpSessions            int
	MaxAppInfoLen             int
	MaxQueuedTransmitMessages int
}

// MAC is a 6-byte hardware address, used for peer identity.
type MAC [6]byte

// ParseMAC parses a colon-separated MAC address string. Unlike
// net.ParseMAC it accepts only 6-byte addresses -- NAN peer identity is
// EUI-48, so EUI-64 and InfiniBand forms are rejected rather than
// truncated.
func ParseMAC(s string) (MAC, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return MAC{}, err
	}
	if len(hw) != 6 {
		return MAC{}, fmt.Errorf("nan: not a 6-byte MAC address: %q", s)
	}
	var m MAC
	copy(m[:], hw)
	return m, nil
}

// String returns the colon-separated form of the MAC address.
func (m MAC) String() string {
	return net.HardwareAddr(m[:]).String()
}

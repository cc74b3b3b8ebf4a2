package nan_test

import (
	"sync"

	"github.com/nan-project/nand/internal/nan"
)

// -------------------------------------------------------------------------
// mockHAL — test double for nan.HAL
// -------------------------------------------------------------------------

// mockHAL implements nan.HAL for testing without a real firmware adapter.
// It records every command it receives and never calls back into the
// manager on its own; tests drive HALCallbacks responses explicitly to
// keep control flow deterministic.
type mockHAL struct {
	mu sync.Mutex

	EnableCalls  []enableCall
	DisableCalls []uint16
	PublishCalls []createOrUpdateCall
	StopPublishCalls []stopCall
	SubscribeCalls   []createOrUpdateCall
	StopSubscribeCalls []stopCall
	SendMessageCalls []sendMessageCall

	// FailNext, when non-nil, is returned by the next HAL method call and
	// then cleared.
	FailNext error
}

type enableCall struct {
	TransactionID uint16
	Req           nan.ConfigRequest
}

type createOrUpdateCall struct {
	TransactionID uint16
	PubSubID      uint32
}

type stopCall struct {
	TransactionID uint16
	PubSubID      uint32
}

type sendMessageCall struct {
	TransactionID uint16
	PubSubID      uint32
	PeerID        uint32
	PeerMAC       nan.MAC
	Data          []byte
}

func newMockHAL() *mockHAL {
	return &mockHAL{}
}

func (m *mockHAL) takeErr() error {
	err := m.FailNext
	m.FailNext = nil
	return err
}

func (m *mockHAL) EnableAndConfigure(transactionID uint16, req nan.ConfigRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnableCalls = append(m.EnableCalls, enableCall{transactionID, req})
	return m.takeErr()
}

func (m *mockHAL) Disable(transactionID uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DisableCalls = append(m.DisableCalls, transactionID)
	return m.takeErr()
}

func (m *mockHAL) Publish(transactionID uint16, pubSubID uint32, _ nan.PublishConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishCalls = append(m.PublishCalls, createOrUpdateCall{transactionID, pubSubID})
	return m.takeErr()
}

func (m *mockHAL) StopPublish(transactionID uint16, pubSubID uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopPublishCalls = append(m.StopPublishCalls, stopCall{transactionID, pubSubID})
	return m.takeErr()
}

func (m *mockHAL) Subscribe(transactionID uint16, pubSubID uint32, _ nan.SubscribeConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubscribeCalls = append(m.SubscribeCalls, createOrUpdateCall{transactionID, pubSubID})
	return m.takeErr()
}

func (m *mockHAL) StopSubscribe(transactionID uint16, pubSubID uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopSubscribeCalls = append(m.StopSubscribeCalls, stopCall{transactionID, pubSubID})
	return m.takeErr()
}

func (m *mockHAL) SendMessage(transactionID uint16, pubSubID uint32, peerID uint32, peerMAC nan.MAC, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMessageCalls = append(m.SendMessageCalls, sendMessageCall{transactionID, pubSubID, peerID, peerMAC, data})
	return m.takeErr()
}

func (m *mockHAL) lastPublish() (createOrUpdateCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.PublishCalls) == 0 {
		return createOrUpdateCall{}, false
	}
	return m.PublishCalls[len(m.PublishCalls)-1], true
}

func (m *mockHAL) lastSubscribe() (createOrUpdateCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.SubscribeCalls) == 0 {
		return createOrUpdateCall{}, false
	}
	return m.SubscribeCalls[len(m.SubscribeCalls)-1], true
}

// -------------------------------------------------------------------------
// recordingEventCallback / recordingSessionCallback — test doubles
// -------------------------------------------------------------------------

type recordingEventCallback struct {
	mu              sync.Mutex
	ConfigCompleted []nan.ConfigRequest
	ConfigFailed    []nan.Reason
	FailedReqs      []nan.ConfigRequest
	IdentityChanges int
	NanDowns        []nan.Reason

	// Order tags every delivery in arrival order, for tests that assert
	// cross-type callback ordering.
	Order []string
}

func (c *recordingEventCallback) OnConfigCompleted(req nan.ConfigRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ConfigCompleted = append(c.ConfigCompleted, req)
	c.Order = append(c.Order, "configCompleted")
}

func (c *recordingEventCallback) OnConfigFailed(req nan.ConfigRequest, reason nan.Reason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ConfigFailed = append(c.ConfigFailed, reason)
	c.FailedReqs = append(c.FailedReqs, req)
	c.Order = append(c.Order, "configFailed")
}

func (c *recordingEventCallback) OnIdentityChanged() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.IdentityChanges++
	c.Order = append(c.Order, "identityChanged")
}

func (c *recordingEventCallback) OnNanDown(reason nan.Reason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NanDowns = append(c.NanDowns, reason)
	c.Order = append(c.Order, "nanDown")
}

type matchEvent struct {
	PeerID      uint32
	SSI         []byte
	MatchFilter []byte
}

type messageEvent struct {
	PeerID uint32
	Msg    []byte
}

type recordingSessionCallback struct {
	mu sync.Mutex

	Started           []uint32
	ConfigFailed      []nan.Reason
	Terminated        []nan.Reason
	Matches           []matchEvent
	MessagesReceived  []messageEvent
	MessageSendOK     []int16
	MessageSendFailed []struct {
		MessageID int16
		Reason    nan.Reason
	}
}

func (c *recordingSessionCallback) OnSessionStarted(sessionID uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Started = append(c.Started, sessionID)
}

func (c *recordingSessionCallback) OnSessionConfigFail(reason nan.Reason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ConfigFailed = append(c.ConfigFailed, reason)
}

func (c *recordingSessionCallback) OnSessionTerminated(reason nan.Reason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Terminated = append(c.Terminated, reason)
}

func (c *recordingSessionCallback) OnMatch(peerID uint32, ssi []byte, matchFilter []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Matches = append(c.Matches, matchEvent{peerID, ssi, matchFilter})
}

func (c *recordingSessionCallback) OnMessageReceived(peerID uint32, msg []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.MessagesReceived = append(c.MessagesReceived, messageEvent{peerID, msg})
}

func (c *recordingSessionCallback) OnMessageSendSuccess(messageID int16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.MessageSendOK = append(c.MessageSendOK, messageID)
}

func (c *recordingSessionCallback) OnMessageSendFail(messageID int16, reason nan.Reason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.MessageSendFailed = append(c.MessageSendFailed, struct {
		MessageID int16
		Reason    nan.Reason
	}{messageID, reason})
}

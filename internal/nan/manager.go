package nan

import (
	"context"
	"log/slog"
)

// ownerRef identifies the (client, session) pair that owns a given
// HAL-assigned pubSubId, for the firmware-initiated lookups (spec §4.5)
// that carry a pubSubId but no transaction or client context:
// onXxxTerminated, onMatch, onMessageReceived.
type ownerRef struct {
	clientID  uint32
	sessionID uint32
}

// MetricsReporter is the optional metrics sink the Manager reports to. A
// nil MetricsReporter (the zero value of ManagerOption applied) disables
// reporting entirely; production wiring supplies internal/metrics.Collector.
type MetricsReporter interface {
	ClientConnected()
	ClientDisconnected()
	SessionEstablished(kind SessionKind)
	SessionRemoved(kind SessionKind)
	TransactionOrphaned()
	HALCommandFailed(reason Reason)
}

// Manager is the NAN state manager: an ordinary Go value (spec §9 redesign
// note -- no process-wide singleton) owned by whatever entry point embeds
// it. All mutation happens on the goroutine draining its EventLoop; client
// API methods and HAL callback methods only ever enqueue work and return.
type Manager struct {
	logger  *slog.Logger
	hal     HAL
	loop    *EventLoop
	metrics MetricsReporter

	clients map[uint32]*ClientState
	txns    *TransactionRegistry

	// pubSubIndex resolves a HAL-assigned pubSubId back to its owning
	// client/session, for unsolicited HAL events that carry no transaction.
	pubSubIndex map[uint32]ownerRef

	// orphanedCreates marks transaction ids for a CreateSession that was
	// swept by disconnect before the HAL responded (spec §4.4 rule (c)),
	// keyed to the session kind the HAL command was issued with. When the
	// HAL eventually answers onPublishSuccess/onSubscribeSuccess for one of
	// these ids, the manager issues a compensating stop instead of
	// silently absorbing the orphan.
	orphanedCreates map[uint16]SessionKind

	lastCapabilities    Capabilities
	hasLastCapabilities bool

	lastEffectiveConfig    ConfigRequest
	hasLastEffectiveConfig bool
}

// ManagerOption configures optional Manager behavior at construction time.
type ManagerOption func(*Manager)

// WithMetrics wires a MetricsReporter into the manager.
func WithMetrics(mr MetricsReporter) ManagerOption {
	return func(m *Manager) { m.metrics = mr }
}

// WithQueueDepth overrides the event loop's queue depth (default 256).
func WithQueueDepth(depth int) ManagerOption {
	return func(m *Manager) { m.loop = NewEventLoop(m.logger, depth) }
}

// NewManager constructs a Manager bound to hal, logging through logger. The
// returned Manager owns no goroutine until Run is called; DispatchAll can
// drive it synchronously in tests without ever calling Run.
func NewManager(logger *slog.Logger, hal HAL, opts ...ManagerOption) (*Manager, error) {
	if hal == nil {
		return nil, ErrNilHAL
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		logger:          logger.With(slog.String("component", "nan")),
		hal:             hal,
		clients:         make(map[uint32]*ClientState),
		txns:            NewTransactionRegistry(),
		pubSubIndex:     make(map[uint32]ownerRef),
		orphanedCreates: make(map[uint16]SessionKind),
	}
	m.loop = NewEventLoop(m.logger, 256)

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Run drains the event loop until ctx is cancelled. Most production use
// calls this from a dedicated goroutine; tests instead drive DispatchAll.
func (m *Manager) Run(ctx context.Context) {
	m.loop.Run(ctx)
}

// DispatchAll synchronously drains every currently-queued posted call and
// callback. This is the test hook spec §5/§9 require preserving.
func (m *Manager) DispatchAll() {
	m.loop.DispatchAll()
}

// -------------------------------------------------------------------------
// Client-facing API (spec §4.4) -- every method enqueues and returns.
// -------------------------------------------------------------------------

// Connect installs a new ClientState for clientID. A duplicate connect for
// an already-connected clientID is tolerated as a logged no-op (spec §9
// open question).
func (m *Manager) Connect(clientID uint32, callback EventCallback) {
	m.loop.Post(func() {
		if _, exists := m.clients[clientID]; exists {
			m.logger.Info("duplicate connect ignored", slog.Uint64("client_id", uint64(clientID)))
			return
		}
		m.clients[clientID] = newClientState(clientID, callback)
		if m.metrics != nil {
			m.metrics.ClientConnected()
		}
	})
}

// Disconnect tears down clientID: sweeps its pending transactions, stops
// its established sessions at the HAL, marks its still-pending creations
// as orphaned, drops its ClientState, and recomputes (or disables) the
// device configuration (spec §4.4).
func (m *Manager) Disconnect(clientID uint32) {
	m.loop.Post(func() {
		client, ok := m.clients[clientID]
		if !ok {
			return
		}

		swept := m.txns.SweepClient(clientID)
		for txID, record := range swept {
			if record.Kind == txCreateSession {
				m.orphanedCreates[txID] = record.SessionKind
			}
		}

		for sessionID, session := range client.Sessions() {
			m.teardownSessionOnDisconnect(client, sessionID, session)
		}

		_, hadConfig := client.Config()
		delete(m.clients, clientID)
		if m.metrics != nil {
			m.metrics.ClientDisconnected()
		}

		if hadConfig {
			m.pushDeviceConfigAfterDisconnect()
		}
	})
}

// teardownSessionOnDisconnect drives one of client's sessions through the
// OwnerDisconnect transition: established sessions are stopped at the HAL;
// sessions still Creating transition to CreatingOrphan (handled by the
// orphanedCreates marker set in Disconnect, since the swept transaction
// carries no SessionState yet).
func (m *Manager) teardownSessionOnDisconnect(client *ClientState, sessionID uint32, session *SessionState) {
	wasTombstone := session.Lifecycle() == StateTerminated

	result := Transition(session.Lifecycle(), EventOwnerDisconnect)
	session.lifecycle = result.Next

	for _, action := range result.Actions {
		if action == ActionStopAtHAL {
			m.stopAtHAL(session)
		}
	}

	if result.Next == StateGone {
		pubSubID, _ := session.PubSubID()
		delete(m.pubSubIndex, pubSubID)
		client.removeSession(sessionID)
		if m.metrics != nil && !wasTombstone {
			m.metrics.SessionRemoved(session.Kind())
		}
	}
}

// stopAtHAL issues stopPublish/stopSubscribe for an established session as
// a NoOp transaction (no client callback fires for its response).
func (m *Manager) stopAtHAL(session *SessionState) {
	pubSubID, ok := session.PubSubID()
	if !ok {
		return
	}
	txID := m.txns.Allocate(noOpTx())
	var err error
	if session.Kind() == KindPublish {
		err = m.hal.StopPublish(txID, pubSubID)
	} else {
		err = m.hal.StopSubscribe(txID, pubSubID)
	}
	if err != nil {
		m.logger.Warn("HAL stop command failed to submit", slog.String("error", err.Error()))
	}
}

// RequestConfig stores req as clientID's latest requested configuration,
// recomputes the merged device configuration, and pushes it to the HAL as
// a Config transaction on behalf of the requesting client (spec §4.4).
func (m *Manager) RequestConfig(clientID uint32, req ConfigRequest) {
	m.loop.Post(func() {
		client, ok := m.clients[clientID]
		if !ok {
			return
		}
		client.SetConfig(req)

		merged := MergeConfigs(m.collectConfigs())
		txID := m.txns.Allocate(configTx(clientID, req))
		if err := m.hal.EnableAndConfigure(txID, merged); err != nil {
			m.logger.Warn("HAL enableAndConfigure failed to submit", slog.String("error", err.Error()))
		}
	})
}

// pushDeviceConfigAfterDisconnect re-merges the remaining clients' requests
// and pushes the result to the HAL, or disables the HAL if no client is
// left with a config (spec §3 "Device configuration", §4.4 disconnect rule
// (e)). The push is a NoOp transaction: the departed client cannot receive
// a completion, and the survivors already got theirs.
func (m *Manager) pushDeviceConfigAfterDisconnect() {
	requests := m.collectConfigs()
	txID := m.txns.Allocate(noOpTx())
	if len(requests) == 0 {
		if err := m.hal.Disable(txID); err != nil {
			m.logger.Warn("HAL disable failed to submit", slog.String("error", err.Error()))
		}
		return
	}
	if err := m.hal.EnableAndConfigure(txID, MergeConfigs(requests)); err != nil {
		m.logger.Warn("HAL enableAndConfigure failed to submit", slog.String("error", err.Error()))
	}
}

// collectConfigs returns every connected client's current ConfigRequest, in
// map-iteration order (the merge itself is commutative per field, so no
// ordering guarantee is needed).
func (m *Manager) collectConfigs() []ConfigRequest {
	var out []ConfigRequest
	for _, client := range m.clients {
		if req, ok := client.Config(); ok {
			out = append(out, req)
		}
	}
	return out
}

// Publish allocates a CreateSession transaction and invokes HAL.Publish
// with pubSubId 0 ("create new") (spec §4.4).
func (m *Manager) Publish(clientID uint32, cfg PublishConfig, callback SessionCallback) {
	m.loop.Post(func() {
		if _, ok := m.clients[clientID]; !ok {
			return
		}
		txID := m.txns.Allocate(createSessionTx(clientID, KindPublish, callback))
		if err := m.hal.Publish(txID, 0, cfg); err != nil {
			m.logger.Warn("HAL publish failed to submit", slog.String("error", err.Error()))
		}
	})
}

// Subscribe allocates a CreateSession transaction and invokes
// HAL.Subscribe with pubSubId 0 ("create new") (spec §4.4).
func (m *Manager) Subscribe(clientID uint32, cfg SubscribeConfig, callback SessionCallback) {
	m.loop.Post(func() {
		if _, ok := m.clients[clientID]; !ok {
			return
		}
		txID := m.txns.Allocate(createSessionTx(clientID, KindSubscribe, callback))
		if err := m.hal.Subscribe(txID, 0, cfg); err != nil {
			m.logger.Warn("HAL subscribe failed to submit", slog.String("error", err.Error()))
		}
	})
}

// UpdatePublish re-publishes an existing session (spec §4.4). An update
// against a session the firmware already terminated reports
// SessionTerminated on the session's own callback; a kind mismatch reports
// Other; a sessionId the manager no longer knows at all is logged and
// dropped, since there is no callback left to deliver on.
func (m *Manager) UpdatePublish(clientID, sessionID uint32, cfg PublishConfig) {
	m.loop.Post(func() {
		m.updateSession(clientID, sessionID, KindPublish, func(txID uint16, pubSubID uint32) error {
			return m.hal.Publish(txID, pubSubID, cfg)
		})
	})
}

// UpdateSubscribe re-subscribes an existing session (spec §4.4). See
// UpdatePublish for the missing/terminated/mismatch-session behavior.
func (m *Manager) UpdateSubscribe(clientID, sessionID uint32, cfg SubscribeConfig) {
	m.loop.Post(func() {
		m.updateSession(clientID, sessionID, KindSubscribe, func(txID uint16, pubSubID uint32) error {
			return m.hal.Subscribe(txID, pubSubID, cfg)
		})
	})
}

// updateSession is the shared body of UpdatePublish/UpdateSubscribe.
func (m *Manager) updateSession(
	clientID, sessionID uint32,
	wantKind SessionKind,
	invoke func(txID uint16, pubSubID uint32) error,
) {
	client, ok := m.clients[clientID]
	if !ok {
		m.logger.Warn("session update from unknown client",
			slog.Uint64("client_id", uint64(clientID)))
		return
	}

	session, ok := client.Session(sessionID)
	if !ok {
		m.logger.Warn("session update for unknown session",
			slog.Uint64("client_id", uint64(clientID)),
			slog.Uint64("session_id", uint64(sessionID)))
		return
	}

	if session.Lifecycle() == StateTerminated {
		m.failSessionConfig(session, ReasonSessionTerminated)
		return
	}

	if session.Kind() != wantKind {
		m.failSessionConfig(session, ReasonOther)
		return
	}

	pubSubID, ok := session.PubSubID()
	if !ok {
		m.failSessionConfig(session, ReasonSessionTerminated)
		return
	}

	txID := m.txns.Allocate(updateSessionTx(clientID, sessionID))
	if err := invoke(txID, pubSubID); err != nil {
		m.logger.Warn("HAL update command failed to submit", slog.String("error", err.Error()))
	}
}

func (m *Manager) failSessionConfig(session *SessionState, reason Reason) {
	if session.Callback() != nil {
		session.Callback().OnSessionConfigFail(reason)
	}
}

func (m *Manager) failMessageSend(session *SessionState, messageID int16, reason Reason) {
	if session.Callback() != nil {
		session.Callback().OnMessageSendFail(messageID, reason)
	}
}

// TerminateSession removes sessionID from clientID's session table and,
// for an established session, instructs the HAL to stop it as a NoOp
// transaction; a session the firmware already terminated is removed without
// a HAL stop. No client callback fires. An already-gone sessionID is
// silently ignored (spec §4.4, §4.6).
func (m *Manager) TerminateSession(clientID, sessionID uint32) {
	m.loop.Post(func() {
		client, ok := m.clients[clientID]
		if !ok {
			return
		}
		session, ok := client.Session(sessionID)
		if !ok {
			return
		}

		wasTombstone := session.Lifecycle() == StateTerminated

		result := Transition(session.Lifecycle(), EventAppTerminate)
		session.lifecycle = result.Next
		for _, action := range result.Actions {
			if action == ActionStopAtHAL {
				m.stopAtHAL(session)
			}
		}

		if pubSubID, ok := session.PubSubID(); ok {
			delete(m.pubSubIndex, pubSubID)
		}
		client.removeSession(sessionID)
		if m.metrics != nil && !wasTombstone {
			m.metrics.SessionRemoved(session.Kind())
		}
	})
}

// SendMessage resolves peerID to a MAC via the session's PeerTable and
// forwards the message to the HAL; a lookup miss reports
// OnMessageSendFail(messageID, ReasonNoMatchSession) without issuing
// any HAL command (spec §3 "PeerTable", §4.4).
func (m *Manager) SendMessage(clientID, sessionID, peerID uint32, data []byte, messageID int16) {
	m.loop.Post(func() {
		client, ok := m.clients[clientID]
		if !ok {
			return
		}
		session, ok := client.Session(sessionID)
		if !ok {
			return
		}

		if session.Lifecycle() == StateTerminated {
			m.failMessageSend(session, messageID, ReasonSessionTerminated)
			return
		}

		mac, ok := session.LookupPeer(peerID)
		if !ok {
			m.failMessageSend(session, messageID, ReasonNoMatchSession)
			return
		}

		pubSubID, ok := session.PubSubID()
		if !ok {
			m.failMessageSend(session, messageID, ReasonSessionTerminated)
			return
		}

		txID := m.txns.Allocate(sendMessageTx(clientID, sessionID, messageID))
		if err := m.hal.SendMessage(txID, pubSubID, peerID, mac, data); err != nil {
			m.logger.Warn("HAL sendMessage failed to submit", slog.String("error", err.Error()))
		}
	})
}

// -------------------------------------------------------------------------
// HAL callback handlers (spec §4.5) -- every method enqueues and returns.
// An unknown transaction id or pubSubId is silently absorbed except where
// noted (compensating stop for an orphaned CreateSession).
// -------------------------------------------------------------------------

// OnConfigCompleted implements HALCallbacks.
func (m *Manager) OnConfigCompleted(transactionID uint16) {
	m.loop.Post(func() {
		record, ok := m.takeKnownTransaction(transactionID, txConfig)
		if !ok {
			return
		}
		m.lastEffectiveConfig = record.ConfigReq
		m.hasLastEffectiveConfig = true
		client, ok := m.clients[record.ClientID]
		if !ok || client.Callback() == nil {
			return
		}
		client.Callback().OnConfigCompleted(record.ConfigReq)
	})
}

// OnConfigFailed implements HALCallbacks.
func (m *Manager) OnConfigFailed(transactionID uint16, reason Reason) {
	m.loop.Post(func() {
		record, ok := m.takeKnownTransaction(transactionID, txConfig)
		if !ok {
			return
		}
		if m.metrics != nil {
			m.metrics.HALCommandFailed(reason)
		}
		client, ok := m.clients[record.ClientID]
		if !ok || client.Callback() == nil {
			return
		}
		client.Callback().OnConfigFailed(record.ConfigReq, reason)
	})
}

// OnPublishSuccess implements HALCallbacks.
func (m *Manager) OnPublishSuccess(transactionID uint16, pubSubID uint32) {
	m.loop.Post(func() { m.onCreateOrUpdateSuccess(transactionID, pubSubID) })
}

// OnSubscribeSuccess implements HALCallbacks.
func (m *Manager) OnSubscribeSuccess(transactionID uint16, pubSubID uint32) {
	m.loop.Post(func() { m.onCreateOrUpdateSuccess(transactionID, pubSubID) })
}

func (m *Manager) onCreateOrUpdateSuccess(transactionID uint16, pubSubID uint32) {
	if kind, wasOrphaned := m.orphanedCreates[transactionID]; wasOrphaned {
		delete(m.orphanedCreates, transactionID)
		m.issueCompensatingStop(pubSubID, kind)
		return
	}

	record, ok := m.txns.Take(transactionID)
	if !ok {
		m.absorbOrphan()
		return
	}

	switch record.Kind {
	case txCreateSession:
		m.attachNewSession(record, pubSubID)
	case txUpdateSession:
		// No client callback for a successful update (spec §4.5).
	default:
		m.absorbOrphan()
	}
}

// attachNewSession installs pubSubID on a freshly created session, mints
// its manager-local sessionId, attaches it to the owning client, and fires
// OnSessionStarted -- unless the owning client disconnected while the
// create was in flight, in which case a compensating stop is issued
// instead and no session is created (spec §4.5).
func (m *Manager) attachNewSession(record PendingTransaction, pubSubID uint32) {
	client, ok := m.clients[record.ClientID]
	if !ok {
		m.issueCompensatingStop(pubSubID, record.SessionKind)
		return
	}

	session := newSessionState(record.SessionKind, record.SessionCallback)
	session.setPubSubID(pubSubID)

	result := Transition(session.Lifecycle(), EventHalSuccess)
	session.lifecycle = result.Next

	sessionID := client.addSession(session)
	m.pubSubIndex[pubSubID] = ownerRef{clientID: record.ClientID, sessionID: sessionID}

	if m.metrics != nil {
		m.metrics.SessionEstablished(session.Kind())
	}

	if record.SessionCallback != nil {
		record.SessionCallback.OnSessionStarted(sessionID)
	}
}

// issueCompensatingStop tears down a session at the HAL that the manager
// never created locally (spec §4.4 rule (c)): either the HAL answered an
// orphaned CreateSession, or the owning client vanished between the HAL
// response arriving and attachNewSession running.
func (m *Manager) issueCompensatingStop(pubSubID uint32, kind SessionKind) {
	txID := m.txns.Allocate(noOpTx())
	var err error
	if kind == KindPublish {
		err = m.hal.StopPublish(txID, pubSubID)
	} else {
		err = m.hal.StopSubscribe(txID, pubSubID)
	}
	if err != nil {
		m.logger.Warn("HAL compensating stop failed to submit", slog.String("error", err.Error()))
	}
}

// OnPublishFail implements HALCallbacks.
func (m *Manager) OnPublishFail(transactionID uint16, reason Reason) {
	m.loop.Post(func() { m.onCreateOrUpdateFail(transactionID, reason) })
}

// OnSubscribeFail implements HALCallbacks.
func (m *Manager) OnSubscribeFail(transactionID uint16, reason Reason) {
	m.loop.Post(func() { m.onCreateOrUpdateFail(transactionID, reason) })
}

func (m *Manager) onCreateOrUpdateFail(transactionID uint16, reason Reason) {
	if _, wasOrphaned := m.orphanedCreates[transactionID]; wasOrphaned {
		delete(m.orphanedCreates, transactionID)
		return
	}

	record, ok := m.txns.Take(transactionID)
	if !ok {
		m.absorbOrphan()
		return
	}

	if m.metrics != nil {
		m.metrics.HALCommandFailed(reason)
	}

	switch record.Kind {
	case txCreateSession:
		if record.SessionCallback != nil {
			record.SessionCallback.OnSessionConfigFail(reason)
		}
	case txUpdateSession:
		client, ok := m.clients[record.ClientID]
		if !ok {
			return
		}
		session, ok := client.Session(record.SessionID)
		if !ok {
			return
		}
		result := Transition(session.Lifecycle(), EventHalFail)
		session.lifecycle = result.Next
		if session.Callback() != nil {
			session.Callback().OnSessionConfigFail(reason)
		}
	}
}

// OnMessageSendSuccess implements HALCallbacks.
func (m *Manager) OnMessageSendSuccess(transactionID uint16) {
	m.loop.Post(func() {
		record, ok := m.takeKnownTransaction(transactionID, txSendMessage)
		if !ok {
			return
		}
		if cb := m.sessionCallback(record.ClientID, record.SessionID); cb != nil {
			cb.OnMessageSendSuccess(record.MessageID)
		}
	})
}

// OnMessageSendFail implements HALCallbacks.
func (m *Manager) OnMessageSendFail(transactionID uint16, reason Reason) {
	m.loop.Post(func() {
		record, ok := m.takeKnownTransaction(transactionID, txSendMessage)
		if !ok {
			return
		}
		if m.metrics != nil {
			m.metrics.HALCommandFailed(reason)
		}
		if cb := m.sessionCallback(record.ClientID, record.SessionID); cb != nil {
			cb.OnMessageSendFail(record.MessageID, reason)
		}
	})
}

// OnPublishTerminated implements HALCallbacks.
func (m *Manager) OnPublishTerminated(pubSubID uint32, reason Reason) {
	m.loop.Post(func() { m.onFirmwareTerminated(pubSubID, reason) })
}

// OnSubscribeTerminated implements HALCallbacks.
func (m *Manager) OnSubscribeTerminated(pubSubID uint32, reason Reason) {
	m.loop.Post(func() { m.onFirmwareTerminated(pubSubID, reason) })
}

func (m *Manager) onFirmwareTerminated(pubSubID uint32, reason Reason) {
	owner, ok := m.pubSubIndex[pubSubID]
	if !ok {
		m.absorbOrphan()
		return
	}
	client, ok := m.clients[owner.clientID]
	if !ok {
		delete(m.pubSubIndex, pubSubID)
		return
	}
	session, ok := client.Session(owner.sessionID)
	if !ok {
		delete(m.pubSubIndex, pubSubID)
		return
	}

	result := Transition(session.Lifecycle(), EventFirmwareTerminated)
	session.lifecycle = result.Next

	if session.Callback() != nil {
		session.Callback().OnSessionTerminated(reason)
	}

	// The SessionState stays resident as a tombstone (StateTerminated): an
	// update racing this termination must still be answerable with
	// SessionTerminated on the session's own callback. The pubSubId itself
	// is dead at the firmware, so the index entry goes now.
	delete(m.pubSubIndex, pubSubID)
	if m.metrics != nil {
		m.metrics.SessionRemoved(session.Kind())
	}
}

// OnMatch implements HALCallbacks.
func (m *Manager) OnMatch(pubSubID uint32, peerID uint32, peerMAC MAC, ssi []byte, matchFilter []byte) {
	m.loop.Post(func() {
		session := m.sessionByPubSubID(pubSubID)
		if session == nil {
			m.absorbOrphan()
			return
		}
		session.UpdatePeer(peerID, peerMAC)
		if session.Callback() != nil {
			session.Callback().OnMatch(peerID, ssi, matchFilter)
		}
	})
}

// OnMessageReceived implements HALCallbacks.
func (m *Manager) OnMessageReceived(pubSubID uint32, peerID uint32, peerMAC MAC, msg []byte) {
	m.loop.Post(func() {
		session := m.sessionByPubSubID(pubSubID)
		if session == nil {
			m.absorbOrphan()
			return
		}
		session.UpdatePeer(peerID, peerMAC)
		if session.Callback() != nil {
			session.Callback().OnMessageReceived(peerID, msg)
		}
	})
}

// OnClusterChange implements HALCallbacks.
func (m *Manager) OnClusterChange(mac MAC) {
	m.loop.Post(func() { m.broadcastIdentityChange() })
}

// OnInterfaceAddressChange implements HALCallbacks.
func (m *Manager) OnInterfaceAddressChange(mac MAC) {
	m.loop.Post(func() { m.broadcastIdentityChange() })
}

// broadcastIdentityChange delivers OnIdentityChanged to every client whose
// own current ConfigRequest opted in, even though the device-level merge
// may have enabled identity-change reporting globally (spec §4.5).
func (m *Manager) broadcastIdentityChange() {
	for _, client := range m.clients {
		req, ok := client.Config()
		if !ok || !req.IdentityChangeCallbackEnabled() {
			continue
		}
		if client.Callback() != nil {
			client.Callback().OnIdentityChanged()
		}
	}
}

// OnNanDown implements HALCallbacks. Per spec §9 design notes, client and
// session tables are left intact: clients decide whether to disconnect.
func (m *Manager) OnNanDown(reason Reason) {
	m.loop.Post(func() {
		for _, client := range m.clients {
			if client.Callback() != nil {
				client.Callback().OnNanDown(reason)
			}
		}
	})
}

// OnCapabilitiesUpdate implements HALCallbacks. Informational only; caches
// the capabilities for diagnostics and clears the transaction.
func (m *Manager) OnCapabilitiesUpdate(transactionID uint16, caps Capabilities) {
	m.loop.Post(func() {
		m.txns.Take(transactionID)
		m.lastCapabilities = caps
		m.hasLastCapabilities = true
	})
}

// OnUnknownTransaction implements HALCallbacks.
func (m *Manager) OnUnknownTransaction(transactionID uint16) {
	m.loop.Post(func() {
		m.txns.Take(transactionID)
		m.absorbOrphan()
	})
}

// OnNoOpTransaction implements HALCallbacks.
func (m *Manager) OnNoOpTransaction(transactionID uint16) {
	m.loop.Post(func() {
		m.txns.Take(transactionID)
	})
}

// -------------------------------------------------------------------------
// Shared lookups
// -------------------------------------------------------------------------

// takeKnownTransaction removes and returns transactionID's record iff it is
// in-flight and of kind want; otherwise it is absorbed as an orphan.
func (m *Manager) takeKnownTransaction(transactionID uint16, want transactionKind) (PendingTransaction, bool) {
	record, ok := m.txns.Take(transactionID)
	if !ok || record.Kind != want {
		m.absorbOrphan()
		return PendingTransaction{}, false
	}
	return record, true
}

func (m *Manager) sessionCallback(clientID, sessionID uint32) SessionCallback {
	client, ok := m.clients[clientID]
	if !ok {
		return nil
	}
	session, ok := client.Session(sessionID)
	if !ok {
		return nil
	}
	return session.Callback()
}

func (m *Manager) sessionByPubSubID(pubSubID uint32) *SessionState {
	owner, ok := m.pubSubIndex[pubSubID]
	if !ok {
		return nil
	}
	client, ok := m.clients[owner.clientID]
	if !ok {
		return nil
	}
	session, ok := client.Session(owner.sessionID)
	if !ok {
		return nil
	}
	return session
}

func (m *Manager) absorbOrphan() {
	if m.metrics != nil {
		m.metrics.TransactionOrphaned()
	}
}

// LastCapabilities returns the most recently reported HAL capabilities and
// whether any have been reported yet.
func (m *Manager) LastCapabilities() (Capabilities, bool) {
	return m.lastCapabilities, m.hasLastCapabilities
}

// LastEffectiveConfig returns the most recent client ConfigRequest that
// completed successfully, and whether any has yet.
func (m *Manager) LastEffectiveConfig() (ConfigRequest, bool) {
	return m.lastEffectiveConfig, m.hasLastEffectiveConfig
}

package nan

// HAL is the downward interface the manager uses to drive the NAN firmware.
// It is a pure command-issuing interface: every method returns immediately
// and the eventual result arrives later as a call to HALCallbacks, tagged
// with the transactionID the manager supplied here (or, for
// stopPublish/stopSubscribe/disable, simply by transactionID for a response
// that carries no semantic payload).
//
// Implementations MUST NOT block the caller waiting for the firmware
// response — the manager's single-threaded event loop depends on every HAL
// call returning promptly (spec §5 "Suspension").
type HAL interface {
	// EnableAndConfigure (re)configures and enables the NAN device with the
	// merged ConfigRequest. Eventual response: OnConfigCompleted/OnConfigFailed.
	EnableAndConfigure(transactionID uint16, req ConfigRequest) error

	// Disable turns off the NAN device entirely (no clients remain with a
	// config). Eventual response: OnUnknownTransaction/OnNoOpTransaction,
	// since disable carries no semantic payload in this design.
	Disable(transactionID uint16) error

	// Publish starts (pubSubID == 0) or updates (pubSubID != 0) a publish
	// session. Eventual response: OnPublishSuccess/OnPublishFail.
	Publish(transactionID uint16, pubSubID uint32, cfg PublishConfig) error

	// StopPublish tears down an established publish session.
	StopPublish(transactionID uint16, pubSubID uint32) error

	// Subscribe starts (pubSubID == 0) or updates (pubSubID != 0) a
	// subscribe session. Eventual response: OnSubscribeSuccess/OnSubscribeFail.
	Subscribe(transactionID uint16, pubSubID uint32, cfg SubscribeConfig) error

	// StopSubscribe tears down an established subscribe session.
	StopSubscribe(transactionID uint16, pubSubID uint32) error

	// SendMessage transmits a message to a known peer. Eventual response:
	// OnMessageSendSuccess/OnMessageSendFail.
	SendMessage(transactionID uint16, pubSubID uint32, peerID uint32, peerMAC MAC, data []byte) error
}

// HALCallbacks is the upward interface the HAL (or its adapter) uses to
// deliver asynchronous responses and unsolicited events back to the
// manager. Manager implements this interface; every method is dispatched
// through the event loop exactly like a client API call (spec §5).
type HALCallbacks interface {
	OnConfigCompleted(transactionID uint16)
	OnConfigFailed(transactionID uint16, reason Reason)

	OnPublishSuccess(transactionID uint16, pubSubID uint32)
	OnPublishFail(transactionID uint16, reason Reason)
	OnSubscribeSuccess(transactionID uint16, pubSubID uint32)
	OnSubscribeFail(transactionID uint16, reason Reason)

	OnMessageSendSuccess(transactionID uint16)
	OnMessageSendFail(transactionID uint16, reason Reason)

	OnPublishTerminated(pubSubID uint32, reason Reason)
	OnSubscribeTerminated(pubSubID uint32, reason Reason)

	OnMatch(pubSubID uint32, peerID uint32, peerMAC MAC, ssi []byte, matchFilter []byte)
	OnMessageReceived(pubSubID uint32, peerID uint32, peerMAC MAC, msg []byte)

	OnClusterChange(mac MAC)
	OnInterfaceAddressChange(mac MAC)

	OnNanDown(reason Reason)

	OnCapabilitiesUpdate(transactionID uint16, caps Capabilities)

	OnUnknownTransaction(transactionID uint16)
	OnNoOpTransaction(transactionID uint16)
}

package nan

// EventCallback is the capability a client registers at connect() time to
// receive device-level events.
//
// Callbacks are invoked synchronously by the manager's event loop goroutine
// as each posted handler runs to completion (spec §5). Implementations must
// not block or re-enter the manager from within a callback.
//
// The manager treats EventCallback purely as an opaque capability: it is
// never inspected or compared, only checked for presence (a client "without"
// a callback is simply one whose ClientState.callback is nil).
type EventCallback interface {
	// OnConfigCompleted reports that the client's own requested config was
	// successfully applied to the merged device configuration.
	OnConfigCompleted(req ConfigRequest)

	// OnConfigFailed reports that the client's own requested config could
	// not be applied, with the given reason.
	OnConfigFailed(req ConfigRequest, reason Reason)

	// OnIdentityChanged reports a device identity change (cluster or
	// interface address change), delivered only to clients that opted in
	// via ConfigRequest.IdentityChangeCallbackEnabled.
	OnIdentityChanged()

	// OnNanDown reports that the HAL/firmware brought NAN down.
	OnNanDown(reason Reason)
}

// SessionCallback is the capability a client registers when creating a
// publish or subscribe session, to receive session-scoped events.
type SessionCallback interface {
	// OnSessionStarted reports that the session reached the Established
	// state at the given manager-assigned sessionId.
	OnSessionStarted(sessionID uint32)

	// OnSessionConfigFail reports that a create or update attempt failed,
	// including an update issued against a session the firmware already
	// terminated.
	OnSessionConfigFail(reason Reason)

	// OnSessionTerminated reports that the session was torn down by the
	// firmware.
	OnSessionTerminated(reason Reason)

	// OnMatch reports a discovered peer.
	OnMatch(peerID uint32, ssi []byte, matchFilter []byte)

	// OnMessageReceived reports an inbound message from a peer.
	OnMessageReceived(peerID uint32, msg []byte)

	// OnMessageSendSuccess reports that an outgoing message, identified by
	// its caller-supplied messageID, was delivered to the firmware.
	OnMessageSendSuccess(messageID int16)

	// OnMessageSendFail reports that an outgoing message failed, with the
	// given reason.
	OnMessageSendFail(messageID int16, reason Reason)
}

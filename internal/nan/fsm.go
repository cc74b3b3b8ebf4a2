package nan

// This file implements the session lifecycle FSM (spec §4.6) as a pure
// function over a transition table -- no side effects, no SessionState
// dependency. This mirrors the teacher protocol's FSM: trivially testable
// and auditable independent of the struct that drives it.
//
// State diagram (spec §4.6):
//
//	Creating --HalSuccess--> Established --FirmwareTerminated--> Terminated
//	     |                        |                                  |
//	     |--HalFail--> Gone       |--AppTerminate--> Gone (StopAtHAL)|--AppTerminate--> Gone
//	     |                        |--OwnerDisconnect--> Gone         |--OwnerDisconnect--> Gone
//	     |--OwnerDisconnect              (StopAtHAL)
//	     --> CreatingOrphan
//	            |--HalSuccess--> Gone (StopAtHAL)
//	            |--HalFail--> Gone
//
// Terminated is a tombstone: the firmware already tore the session down,
// but the SessionState stays resident so that an update racing the
// termination can still be answered with SessionTerminated on the
// session's own callback. The app's terminateSession (or its disconnect)
// removes the tombstone; neither issues a HAL stop, since the firmware
// side is already gone.

// LifecycleState is one of the states a session passes through between
// creation and removal.
type LifecycleState uint8

const (
	// StateCreating is the state between publish()/subscribe() and the
	// HAL's first response.
	StateCreating LifecycleState = iota + 1

	// StateCreatingOrphan is StateCreating after the owning client
	// disconnected while the create was still in flight.
	StateCreatingOrphan

	// StateEstablished is a session with a HAL-assigned pubSubId.
	StateEstablished

	// StateTerminated is a session the firmware tore down, kept resident
	// until the owning app acknowledges with terminateSession (or
	// disconnects).
	StateTerminated

	// StateGone is a session that no longer exists in the manager.
	StateGone
)

// String returns the human-readable name of the lifecycle state.
func (s LifecycleState) String() string {
	switch s {
	case StateCreating:
		return "Creating"
	case StateCreatingOrphan:
		return "CreatingOrphan"
	case StateEstablished:
		return "Established"
	case StateTerminated:
		return "Terminated"
	case StateGone:
		return "Gone"
	default:
		return "Unknown"
	}
}

// LifecycleEvent is an input to the session lifecycle FSM.
type LifecycleEvent uint8

const (
	// EventHalSuccess is the HAL's onXxxSuccess response to the pending
	// create or update command.
	EventHalSuccess LifecycleEvent = iota + 1

	// EventHalFail is the HAL's onXxxFail response.
	EventHalFail

	// EventOwnerDisconnect is the owning client disconnecting.
	EventOwnerDisconnect

	// EventFirmwareTerminated is an unsolicited onXxxTerminated from the HAL.
	EventFirmwareTerminated

	// EventAppTerminate is an explicit terminateSession call.
	EventAppTerminate
)

// LifecycleAction is a side effect the caller must perform after a
// transition. The FSM itself has no side effects; it only names what to do.
type LifecycleAction uint8

const (
	// ActionNone means no side effect is required.
	ActionNone LifecycleAction = iota + 1

	// ActionAttachSession means install the HAL-assigned pubSubId, mint a
	// sessionId, attach the session to its client, and fire
	// OnSessionStarted.
	ActionAttachSession

	// ActionNotifyConfigFail means fire OnSessionConfigFail with the
	// transition's reason.
	ActionNotifyConfigFail

	// ActionNotifyTerminated means fire OnSessionTerminated with the
	// transition's reason, then detach the session from its client.
	ActionNotifyTerminated

	// ActionStopAtHAL means issue stopPublish/stopSubscribe against the
	// HAL-assigned pubSubId as a NoOp transaction, with no client callback.
	ActionStopAtHAL
)

// LifecycleResult is the outcome of one FSM transition.
type LifecycleResult struct {
	Next    LifecycleState
	Actions []LifecycleAction
}

// Transition computes the next lifecycle state and required actions for
// (state, event), per spec §4.6. A transition not named in the table is a
// programmer error (unreachable in the manager's call pattern) and returns
// the input state unchanged with no actions.
func Transition(state LifecycleState, event LifecycleEvent) LifecycleResult {
	switch state {
	case StateCreating:
		switch event {
		case EventHalSuccess:
			return LifecycleResult{Next: StateEstablished, Actions: []LifecycleAction{ActionAttachSession}}
		case EventHalFail:
			return LifecycleResult{Next: StateGone, Actions: []LifecycleAction{ActionNotifyConfigFail}}
		case EventOwnerDisconnect:
			return LifecycleResult{Next: StateCreatingOrphan}
		}
	case StateCreatingOrphan:
		switch event {
		case EventHalSuccess:
			return LifecycleResult{Next: StateGone, Actions: []LifecycleAction{ActionStopAtHAL}}
		case EventHalFail:
			return LifecycleResult{Next: StateGone}
		}
	case StateEstablished:
		switch event {
		case EventHalFail:
			// Update failed; session remains alive at its existing pubSubId.
			return LifecycleResult{Next: StateEstablished, Actions: []LifecycleAction{ActionNotifyConfigFail}}
		case EventHalSuccess:
			// Update succeeded; no client callback.
			return LifecycleResult{Next: StateEstablished}
		case EventFirmwareTerminated:
			return LifecycleResult{Next: StateTerminated, Actions: []LifecycleAction{ActionNotifyTerminated}}
		case EventAppTerminate:
			return LifecycleResult{Next: StateGone, Actions: []LifecycleAction{ActionStopAtHAL}}
		case EventOwnerDisconnect:
			return LifecycleResult{Next: StateGone, Actions: []LifecycleAction{ActionStopAtHAL}}
		}
	case StateTerminated:
		switch event {
		case EventAppTerminate:
			return LifecycleResult{Next: StateGone}
		case EventOwnerDisconnect:
			return LifecycleResult{Next: StateGone}
		}
	}

	return LifecycleResult{Next: state}
}

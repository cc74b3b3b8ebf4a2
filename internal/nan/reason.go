package nan

// Reason is the single enumeration of reason codes the HAL or local
// validation can report, covering both command failures and session
// termination (spec §6 "Reason codes").
type Reason uint8

const (
	// ReasonNoResources indicates the firmware has no free resources to
	// satisfy the request.
	ReasonNoResources Reason = iota + 1

	// ReasonInvalidArgs indicates the request parameters were rejected by
	// the firmware.
	ReasonInvalidArgs

	// ReasonOther is a catch-all for firmware failures with no more
	// specific code, and for local validation failures such as a
	// cross-kind session update.
	ReasonOther

	// ReasonNoMatchSession indicates sendMessage was asked to address a
	// peerInstanceId with no known MAC (PeerTable lookup miss).
	ReasonNoMatchSession

	// ReasonSessionTerminated indicates an update or send referenced a
	// session the firmware already terminated. An operation on a sessionId
	// the manager no longer knows at all gets no callback.
	ReasonSessionTerminated

	// ReasonDone indicates an ordinary, non-error session termination.
	ReasonDone
)

// String returns the human-readable name of the reason code.
func (r Reason) String() string {
	switch r {
	case ReasonNoResources:
		return "NoResources"
	case ReasonInvalidArgs:
		return "InvalidArgs"
	case ReasonOther:
		return "Other"
	case ReasonNoMatchSession:
		return "NoMatchSession"
	case ReasonSessionTerminated:
		return "SessionTerminated"
	case ReasonDone:
		return "Done"
	default:
		return "Unknown"
	}
}

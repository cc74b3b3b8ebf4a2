package nan

// -------------------------------------------------------------------------
// PendingTransaction — tagged variant keyed by transactionID
// -------------------------------------------------------------------------

// transactionKind enumerates the PendingTransaction variants (spec §3).
// This replaces inheritance with a tagged union, per the design notes in
// spec §9 ("Pending-transaction table polymorphism").
type transactionKind uint8

const (
	txConfig transactionKind = iota + 1
	txCreateSession
	txUpdateSession
	txSendMessage
	txNoOp
)

// PendingTransaction is the continuation record bound to one outstanding
// HAL command. Only the fields relevant to its Kind are meaningful; callers
// switch on Kind before reading the rest, mirroring the exhaustive dispatch
// the design notes ask for.
type PendingTransaction struct {
	Kind transactionKind

	// ClientID names the owning client, by back-reference id rather than a
	// direct pointer (spec §9 "Back-references without ownership cycles").
	// Present for Config, CreateSession, UpdateSession and SendMessage.
	ClientID uint32

	// ConfigReq is set for Config only: the client's own ConfigRequest as
	// it stood when the enableAndConfigure was issued. The eventual
	// onConfigCompleted/onConfigFailed echoes this snapshot back, not the
	// client's (possibly newer) current request and not the merged one.
	ConfigReq ConfigRequest

	// SessionKind is set for CreateSession only: the kind the new session
	// will have once the HAL acknowledges it.
	SessionKind SessionKind

	// SessionCallback is set for CreateSession only: the callback to wire
	// into the new SessionState once created.
	SessionCallback SessionCallback

	// SessionID identifies the existing session for UpdateSession and
	// SendMessage, by back-reference id local to ClientID.
	SessionID uint32

	// MessageID is set for SendMessage only: the caller-supplied id echoed
	// back in the eventual success/failure callback.
	MessageID int16
}

func configTx(clientID uint32, req ConfigRequest) PendingTransaction {
	return PendingTransaction{Kind: txConfig, ClientID: clientID, ConfigReq: req}
}

func createSessionTx(clientID uint32, kind SessionKind, cb SessionCallback) PendingTransaction {
	return PendingTransaction{
		Kind:            txCreateSession,
		ClientID:        clientID,
		SessionKind:     kind,
		SessionCallback: cb,
	}
}

func updateSessionTx(clientID, sessionID uint32) PendingTransaction {
	return PendingTransaction{Kind: txUpdateSession, ClientID: clientID, SessionID: sessionID}
}

func sendMessageTx(clientID, sessionID uint32, messageID int16) PendingTransaction {
	return PendingTransaction{
		Kind:      txSendMessage,
		ClientID:  clientID,
		SessionID: sessionID,
		MessageID: messageID,
	}
}

func noOpTx() PendingTransaction {
	return PendingTransaction{Kind: txNoOp}
}

// -------------------------------------------------------------------------
// TransactionRegistry — allocates transaction ids, tracks the continuation
// -------------------------------------------------------------------------

// TransactionRegistry maps in-flight 16-bit transaction ids to their
// PendingTransaction continuation. It is not safe for concurrent use; it is
// owned exclusively by the manager's single-threaded event loop.
type TransactionRegistry struct {
	// next is the next candidate transaction id. It only ever increases
	// (mod 2^16), so successive Allocate calls return strictly increasing
	// ids within a process run, as required by spec invariant 4.
	next  uint32
	table map[uint16]PendingTransaction
}

// NewTransactionRegistry returns an empty registry.
func NewTransactionRegistry() *TransactionRegistry {
	return &TransactionRegistry{table: make(map[uint16]PendingTransaction)}
}

// Allocate reserves the next transaction id, binds it to record, and
// returns it. Ids are strictly increasing within a process run (spec §3,
// §4.1, invariant 4); wrap-around at the 16-bit limit is allowed, but an id
// currently occupied by another in-flight transaction is skipped.
func (r *TransactionRegistry) Allocate(record PendingTransaction) uint16 {
	id := uint16(r.next)
	for {
		if _, occupied := r.table[id]; !occupied {
			break
		}
		r.next++
		id = uint16(r.next)
	}

	r.table[id] = record
	r.next++
	return id
}

// Take removes and returns the record bound to id, or reports ok == false
// if id names no in-flight transaction (unknown or already-terminal).
func (r *TransactionRegistry) Take(id uint16) (PendingTransaction, bool) {
	record, ok := r.table[id]
	if !ok {
		return PendingTransaction{}, false
	}
	delete(r.table, id)
	return record, true
}

// SweepClient removes every entry whose record names clientID, returning
// the removed records keyed by their transaction id so the caller can react
// to swept CreateSession transactions when the HAL eventually answers with
// that same id (spec §4.4 disconnect rule (c)).
func (r *TransactionRegistry) SweepClient(clientID uint32) map[uint16]PendingTransaction {
	swept := make(map[uint16]PendingTransaction)
	for id, record := range r.table {
		if record.Kind != txNoOp && record.ClientID == clientID {
			swept[id] = record
			delete(r.table, id)
		}
	}
	return swept
}

// Len reports the number of in-flight transactions. The registry's own
// tests use it to check how many entries remain.
func (r *TransactionRegistry) Len() int {
	return len(r.table)
}

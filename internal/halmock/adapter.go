// Package halmock implements nan.HAL against nothing: every command
// immediately succeeds on its own goroutine, with no real radio or D-Bus
// connection. It exists for "hal.driver: mock" dry runs of cmd/nand -- exercising
// the manager's full client-facing behavior without wpa_supplicant or a
// NAN-capable adapter present.
package halmock

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/nan-project/nand/internal/nan"
)

// Adapter is a dry-run nan.HAL: it accepts every command and answers it
// asynchronously (via a goroutine, mirroring a real firmware's async
// response) with an unconditional success callback.
type Adapter struct {
	logger    *slog.Logger
	callbacks nan.HALCallbacks

	nextPubSubID atomic.Uint32
}

// NewAdapter returns a mock HAL adapter. Callbacks must be installed with
// SetCallbacks before any command is issued.
func NewAdapter(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{logger: logger.With(slog.String("component", "halmock"))}
}

// SetCallbacks installs the HALCallbacks the adapter answers into.
func (a *Adapter) SetCallbacks(cb nan.HALCallbacks) {
	a.callbacks = cb
}

// Run blocks until ctx is cancelled. The mock adapter has no signal source
// of its own to dispatch; this only exists so cmd/nand can treat every HAL
// driver uniformly.
func (a *Adapter) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (a *Adapter) EnableAndConfigure(transactionID uint16, _ nan.ConfigRequest) error {
	a.reply(func() { a.callbacks.OnConfigCompleted(transactionID) })
	return nil
}

func (a *Adapter) Disable(transactionID uint16) error {
	a.reply(func() { a.callbacks.OnNoOpTransaction(transactionID) })
	return nil
}

func (a *Adapter) Publish(transactionID uint16, pubSubID uint32, _ nan.PublishConfig) error {
	a.reply(func() { a.callbacks.OnPublishSuccess(transactionID, a.resolvePubSubID(pubSubID)) })
	return nil
}

func (a *Adapter) StopPublish(transactionID uint16, _ uint32) error {
	a.reply(func() { a.callbacks.OnNoOpTransaction(transactionID) })
	return nil
}

func (a *Adapter) Subscribe(transactionID uint16, pubSubID uint32, _ nan.SubscribeConfig) error {
	a.reply(func() { a.callbacks.OnSubscribeSuccess(transactionID, a.resolvePubSubID(pubSubID)) })
	return nil
}

func (a *Adapter) StopSubscribe(transactionID uint16, _ uint32) error {
	a.reply(func() { a.callbacks.OnNoOpTransaction(transactionID) })
	return nil
}

func (a *Adapter) SendMessage(transactionID uint16, _ uint32, _ uint32, _ nan.MAC, _ []byte) error {
	a.reply(func() { a.callbacks.OnMessageSendSuccess(transactionID) })
	return nil
}

// resolvePubSubID returns requested when it is an update of an existing
// session (non-zero), or mints a fresh one for a new session.
func (a *Adapter) resolvePubSubID(requested uint32) uint32 {
	if requested != 0 {
		return requested
	}
	return a.nextPubSubID.Add(1)
}

// reply runs fn on its own goroutine, matching the async-response contract
// every real HAL adapter (including internal/halbus) has: the manager's
// event loop must never block waiting for a command to answer.
func (a *Adapter) reply(fn func()) {
	go fn()
}

var _ nan.HAL = (*Adapter)(nil)

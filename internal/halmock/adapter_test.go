package halmock_test

import (
	"sync"
	"testing"
	"time"

	"github.com/nan-project/nand/internal/halmock"
	"github.com/nan-project/nand/internal/nan"
)

type pubSubReply struct {
	txID     uint16
	pubSubID uint32
}

// callbackLog is the lock-free copy snapshot() hands to assertions.
type callbackLog struct {
	configCompleted  []uint16
	noOps            []uint16
	publishSuccesses []pubSubReply
	subscribeSuccess []pubSubReply
	messageSendOK    []uint16
}

type recordingCallbacks struct {
	mu  sync.Mutex
	log callbackLog
}

func (c *recordingCallbacks) OnConfigCompleted(transactionID uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log.configCompleted = append(c.log.configCompleted, transactionID)
}
func (c *recordingCallbacks) OnConfigFailed(uint16, nan.Reason) {}
func (c *recordingCallbacks) OnPublishSuccess(transactionID uint16, pubSubID uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log.publishSuccesses = append(c.log.publishSuccesses, pubSubReply{transactionID, pubSubID})
}
func (c *recordingCallbacks) OnPublishFail(uint16, nan.Reason) {}
func (c *recordingCallbacks) OnSubscribeSuccess(transactionID uint16, pubSubID uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log.subscribeSuccess = append(c.log.subscribeSuccess, pubSubReply{transactionID, pubSubID})
}
func (c *recordingCallbacks) OnSubscribeFail(uint16, nan.Reason) {}
func (c *recordingCallbacks) OnMessageSendSuccess(transactionID uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log.messageSendOK = append(c.log.messageSendOK, transactionID)
}
func (c *recordingCallbacks) OnMessageSendFail(uint16, nan.Reason)              {}
func (c *recordingCallbacks) OnPublishTerminated(uint32, nan.Reason)            {}
func (c *recordingCallbacks) OnSubscribeTerminated(uint32, nan.Reason)          {}
func (c *recordingCallbacks) OnMatch(uint32, uint32, nan.MAC, []byte, []byte)   {}
func (c *recordingCallbacks) OnMessageReceived(uint32, uint32, nan.MAC, []byte) {}
func (c *recordingCallbacks) OnClusterChange(nan.MAC)                           {}
func (c *recordingCallbacks) OnInterfaceAddressChange(nan.MAC)                  {}
func (c *recordingCallbacks) OnNanDown(nan.Reason)                              {}
func (c *recordingCallbacks) OnCapabilitiesUpdate(uint16, nan.Capabilities)     {}
func (c *recordingCallbacks) OnUnknownTransaction(uint16)                       {}
func (c *recordingCallbacks) OnNoOpTransaction(transactionID uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log.noOps = append(c.log.noOps, transactionID)
}

func (c *recordingCallbacks) snapshot() callbackLog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition never became true")
}

func TestAdapterEnableAndConfigureCallsBack(t *testing.T) {
	cb := &recordingCallbacks{}
	a := halmock.NewAdapter(nil)
	a.SetCallbacks(cb)

	if err := a.EnableAndConfigure(7, nan.ConfigRequest{}); err != nil {
		t.Fatalf("EnableAndConfigure: %v", err)
	}

	waitFor(t, func() bool { return len(cb.snapshot().configCompleted) == 1 })
	if got := cb.snapshot().configCompleted[0]; got != 7 {
		t.Errorf("transaction id = %d, want 7", got)
	}
}

func TestAdapterPublishMintsFreshPubSubID(t *testing.T) {
	cb := &recordingCallbacks{}
	a := halmock.NewAdapter(nil)
	a.SetCallbacks(cb)

	if err := a.Publish(1, 0, nan.PublishConfig{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := a.Publish(2, 0, nan.PublishConfig{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	waitFor(t, func() bool { return len(cb.snapshot().publishSuccesses) == 2 })
	calls := cb.snapshot().publishSuccesses
	if calls[0].pubSubID == 0 || calls[1].pubSubID == 0 {
		t.Fatal("expected nonzero minted pubSubIds")
	}
	if calls[0].pubSubID == calls[1].pubSubID {
		t.Fatal("expected distinct pubSubIds across two creations")
	}
}

func TestAdapterPublishUpdateReusesGivenPubSubID(t *testing.T) {
	cb := &recordingCallbacks{}
	a := halmock.NewAdapter(nil)
	a.SetCallbacks(cb)

	if err := a.Publish(1, 42, nan.PublishConfig{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	waitFor(t, func() bool { return len(cb.snapshot().publishSuccesses) == 1 })
	if got := cb.snapshot().publishSuccesses[0].pubSubID; got != 42 {
		t.Errorf("pubSubID = %d, want 42 (update of existing session)", got)
	}
}

func TestAdapterStopCommandsAnswerAsNoOp(t *testing.T) {
	cb := &recordingCallbacks{}
	a := halmock.NewAdapter(nil)
	a.SetCallbacks(cb)

	if err := a.StopPublish(9, 1); err != nil {
		t.Fatalf("StopPublish: %v", err)
	}

	waitFor(t, func() bool { return len(cb.snapshot().noOps) == 1 })
	if got := cb.snapshot().noOps[0]; got != 9 {
		t.Errorf("transaction id = %d, want 9", got)
	}
}

func TestAdapterSendMessageSucceeds(t *testing.T) {
	cb := &recordingCallbacks{}
	a := halmock.NewAdapter(nil)
	a.SetCallbacks(cb)

	if err := a.SendMessage(3, 1, 1, nan.MAC{}, []byte("hi")); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	waitFor(t, func() bool { return len(cb.snapshot().messageSendOK) == 1 })
}

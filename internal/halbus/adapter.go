package halbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"

	"github.com/nan-project/nand/internal/nan"
)

// wpaNANInterface is the D-Bus interface name wpa_supplicant exposes its
// NAN commands and signals under.
const wpaNANInterface = "fi.w1.wpa_supplicant1.Interface.NAN"

const wpaDest = "fi.w1.wpa_supplicant1"

// Adapter implements nan.HAL by issuing D-Bus method calls against a
// wpa_supplicant interface object, and feeds wpa_supplicant's NAN signals
// into a registered nan.HALCallbacks as they arrive.
//
// Every nan.HAL method call is fired with dbus.FlagNoReplyExpected: no
// D-Bus reply is awaited, so the returned error only reports a failure to
// send the call, never the eventual firmware result, matching the "never
// block the event loop" contract in spec §5.
type Adapter struct {
	logger *slog.Logger
	conn   *dbus.Conn
	obj    dbus.BusObject

	callbacks nan.HALCallbacks

	signals chan *dbus.Signal
}

// NewAdapter connects to the system D-Bus and binds to the wpa_supplicant
// interface object at objectPath (e.g.
// "/fi/w1/wpa_supplicant1/Interfaces/0").
func NewAdapter(logger *slog.Logger, objectPath string) (*Adapter, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("halbus: connect system bus: %w", err)
	}

	a := &Adapter{
		logger:  logger,
		conn:    conn,
		obj:     conn.Object(wpaDest, dbus.ObjectPath(objectPath)),
		signals: make(chan *dbus.Signal, 64),
	}
	return a, nil
}

// SetCallbacks registers the callbacks sink signals are translated into.
// Must be called before Run.
func (a *Adapter) SetCallbacks(cb nan.HALCallbacks) {
	a.callbacks = cb
}

// Run subscribes to the NAN interface's signals and translates them into
// HALCallbacks calls until ctx is cancelled. It blocks; callers run it in
// its own goroutine.
func (a *Adapter) Run(ctx context.Context) error {
	if err := a.conn.AddMatchSignal(
		dbus.WithMatchInterface(wpaNANInterface),
	); err != nil {
		return fmt.Errorf("halbus: add match signal: %w", err)
	}
	a.conn.Signal(a.signals)
	defer a.conn.RemoveSignal(a.signals)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-a.signals:
			if !ok {
				return nil
			}
			a.dispatch(sig)
		}
	}
}

// Close tears down the underlying D-Bus connection.
func (a *Adapter) Close() error {
	return a.conn.Close()
}

// -------------------------------------------------------------------------
// nan.HAL
// -------------------------------------------------------------------------

func (a *Adapter) call(method string, args ...interface{}) error {
	call := a.obj.Go(wpaNANInterface+"."+method, dbus.FlagNoReplyExpected, nil, args...)
	return call.Err
}

// EnableAndConfigure implements nan.HAL.
func (a *Adapter) EnableAndConfigure(transactionID uint16, req nan.ConfigRequest) error {
	return a.call("EnableAndConfigure",
		transactionID,
		req.ClusterLow(),
		req.ClusterHigh(),
		req.MasterPreference(),
		req.Support5gBand(),
		req.IdentityChangeCallbackEnabled(),
	)
}

// Disable implements nan.HAL.
func (a *Adapter) Disable(transactionID uint16) error {
	return a.call("Disable", transactionID)
}

// Publish implements nan.HAL.
func (a *Adapter) Publish(transactionID uint16, pubSubID uint32, cfg nan.PublishConfig) error {
	return a.call("Publish",
		transactionID,
		pubSubID,
		cfg.ServiceName(),
		cfg.SSI(),
		cfg.MatchFilter(),
		cfg.TTLSeconds(),
	)
}

// StopPublish implements nan.HAL.
func (a *Adapter) StopPublish(transactionID uint16, pubSubID uint32) error {
	return a.call("StopPublish", transactionID, pubSubID)
}

// Subscribe implements nan.HAL.
func (a *Adapter) Subscribe(transactionID uint16, pubSubID uint32, cfg nan.SubscribeConfig) error {
	return a.call("Subscribe",
		transactionID,
		pubSubID,
		cfg.ServiceName(),
		cfg.SSI(),
		cfg.MatchFilter(),
		cfg.TTLSeconds(),
	)
}

// StopSubscribe implements nan.HAL.
func (a *Adapter) StopSubscribe(transactionID uint16, pubSubID uint32) error {
	return a.call("StopSubscribe", transactionID, pubSubID)
}

// SendMessage implements nan.HAL.
func (a *Adapter) SendMessage(transactionID uint16, pubSubID uint32, peerID uint32, peerMAC nan.MAC, data []byte) error {
	return a.call("SendMessage", transactionID, pubSubID, peerID, peerMAC[:], data)
}

// -------------------------------------------------------------------------
// Signal translation
// -------------------------------------------------------------------------

// dispatch translates one D-Bus signal into the matching HALCallbacks call.
// An unrecognized signal name, or a body that doesn't match the expected
// shape, is logged and dropped -- it must never panic the signal loop.
func (a *Adapter) dispatch(sig *dbus.Signal) {
	if a.callbacks == nil {
		return
	}

	name := signalMember(sig.Name)
	args := sig.Body

	switch name {
	case "ConfigDone":
		txID, ok := arg[uint16](args, 0)
		if !ok {
			a.logInvalid(name)
			return
		}
		a.callbacks.OnConfigCompleted(txID)

	case "ConfigFailed":
		txID, ok1 := arg[uint16](args, 0)
		reason, ok2 := argReason(args, 1)
		if !ok1 || !ok2 {
			a.logInvalid(name)
			return
		}
		a.callbacks.OnConfigFailed(txID, reason)

	case "PublishReplied":
		a.dispatchCreateSuccess(name, args, a.callbacks.OnPublishSuccess)
	case "PublishFailed":
		a.dispatchCreateFail(name, args, a.callbacks.OnPublishFail)
	case "SubscribeReplied":
		a.dispatchCreateSuccess(name, args, a.callbacks.OnSubscribeSuccess)
	case "SubscribeFailed":
		a.dispatchCreateFail(name, args, a.callbacks.OnSubscribeFail)

	case "SendMessageDone":
		txID, ok := arg[uint16](args, 0)
		if !ok {
			a.logInvalid(name)
			return
		}
		a.callbacks.OnMessageSendSuccess(txID)

	case "SendMessageFailed":
		txID, ok1 := arg[uint16](args, 0)
		reason, ok2 := argReason(args, 1)
		if !ok1 || !ok2 {
			a.logInvalid(name)
			return
		}
		a.callbacks.OnMessageSendFail(txID, reason)

	case "PublishTerminated":
		a.dispatchTerminated(name, args, a.callbacks.OnPublishTerminated)
	case "SubscribeTerminated":
		a.dispatchTerminated(name, args, a.callbacks.OnSubscribeTerminated)

	case "DiscoveryResult":
		pubSubID, ok1 := arg[uint32](args, 0)
		peerID, ok2 := arg[uint32](args, 1)
		peerMAC, ok3 := argMAC(args, 2)
		ssi, ok4 := arg[[]byte](args, 3)
		matchFilter, ok5 := arg[[]byte](args, 4)
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
			a.logInvalid(name)
			return
		}
		a.callbacks.OnMatch(pubSubID, peerID, peerMAC, ssi, matchFilter)

	case "ReceiveMessage":
		pubSubID, ok1 := arg[uint32](args, 0)
		peerID, ok2 := arg[uint32](args, 1)
		peerMAC, ok3 := argMAC(args, 2)
		msg, ok4 := arg[[]byte](args, 3)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			a.logInvalid(name)
			return
		}
		a.callbacks.OnMessageReceived(pubSubID, peerID, peerMAC, msg)

	case "ClusterChanged":
		mac, ok := argMAC(args, 0)
		if !ok {
			a.logInvalid(name)
			return
		}
		a.callbacks.OnClusterChange(mac)

	case "InterfaceAddressChanged":
		mac, ok := argMAC(args, 0)
		if !ok {
			a.logInvalid(name)
			return
		}
		a.callbacks.OnInterfaceAddressChange(mac)

	case "Disabled":
		reason, ok := argReason(args, 0)
		if !ok {
			a.logInvalid(name)
			return
		}
		a.callbacks.OnNanDown(reason)

	case "CapabilitiesUpdate":
		txID, ok := arg[uint16](args, 0)
		if !ok {
			a.logInvalid(name)
			return
		}
		a.callbacks.OnCapabilitiesUpdate(txID, decodeCapabilities(args[1:]))

	default:
		a.logger.Debug("halbus: ignoring unrecognized NAN signal", slog.String("signal", sig.Name))
	}
}

func (a *Adapter) dispatchCreateSuccess(name string, args []interface{}, deliver func(transactionID uint16, pubSubID uint32)) {
	txID, ok1 := arg[uint16](args, 0)
	pubSubID, ok2 := arg[uint32](args, 1)
	if !ok1 || !ok2 {
		a.logInvalid(name)
		return
	}
	deliver(txID, pubSubID)
}

func (a *Adapter) dispatchCreateFail(name string, args []interface{}, deliver func(transactionID uint16, reason nan.Reason)) {
	txID, ok1 := arg[uint16](args, 0)
	reason, ok2 := argReason(args, 1)
	if !ok1 || !ok2 {
		a.logInvalid(name)
		return
	}
	deliver(txID, reason)
}

func (a *Adapter) dispatchTerminated(name string, args []interface{}, deliver func(pubSubID uint32, reason nan.Reason)) {
	pubSubID, ok1 := arg[uint32](args, 0)
	reason, ok2 := argReason(args, 1)
	if !ok1 || !ok2 {
		a.logInvalid(name)
		return
	}
	deliver(pubSubID, reason)
}

func (a *Adapter) logInvalid(signal string) {
	a.logger.Warn("halbus: NAN signal body did not match expected shape", slog.String("signal", signal))
}

// signalMember strips the leading interface name from a D-Bus signal name,
// e.g. "fi.w1.wpa_supplicant1.Interface.NAN.ConfigDone" -> "ConfigDone".
func signalMember(full string) string {
	prefix := wpaNANInterface + "."
	if len(full) > len(prefix) && full[:len(prefix)] == prefix {
		return full[len(prefix):]
	}
	return full
}

// arg type-asserts args[i] to T, reporting ok == false on an out-of-range
// index or a type mismatch rather than panicking.
func arg[T any](args []interface{}, i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(args) {
		return zero, false
	}
	v, ok := args[i].(T)
	return v, ok
}

// argReason decodes a wire reason code (wpa_supplicant sends it as a
// uint8) into nan.Reason.
func argReason(args []interface{}, i int) (nan.Reason, bool) {
	v, ok := arg[uint8](args, i)
	if !ok {
		return 0, false
	}
	return nan.Reason(v), true
}

// argMAC decodes a 6-byte wire MAC into nan.MAC.
func argMAC(args []interface{}, i int) (nan.MAC, bool) {
	raw, ok := arg[[]byte](args, i)
	if !ok || len(raw) != 6 {
		return nan.MAC{}, false
	}
	var mac nan.MAC
	copy(mac[:], raw)
	return mac, true
}

// decodeCapabilities decodes the trailing capability fields of a
// CapabilitiesUpdate signal, tolerating a short or malformed body by
// returning whatever fields parsed.
func decodeCapabilities(fields []interface{}) nan.Capabilities {
	ints := make([]int, len(fields))
	for i, f := range fields {
		if v, ok := f.(uint16); ok {
			ints[i] = int(v)
		} else if v, ok := f.(uint32); ok {
			ints[i] = int(v)
		}
	}
	var caps nan.Capabilities
	set := func(dst *int, idx int) {
		if idx < len(ints) {
			*dst = ints[idx]
		}
	}
	set(&caps.MaxConcurrentClusters, 0)
	set(&caps.MaxPublishes, 1)
	set(&caps.MaxSubscribes, 2)
	set(&caps.MaxServiceNameLen, 3)
	set(&caps.MaxMatchFilterLen, 4)
	set(&caps.MaxTotalMatchFilterLen, 5)
	set(&caps.MaxServiceSpecificInfoLen, 6)
	set(&caps.MaxNdiInterfaces, 7)
	set(&caps.MaxNdpSessions, 8)
	set(&caps.MaxAppInfoLen, 9)
	set(&caps.MaxQueuedTransmitMessages, 10)
	return caps
}

var _ nan.HAL = (*Adapter)(nil)

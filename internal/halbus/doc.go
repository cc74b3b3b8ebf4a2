// Package halbus implements nan.HAL against wpa_supplicant's NAN D-Bus
// interface, fi.w1.wpa_supplicant1.Interface.NAN. Commands are issued as
// no-reply-expected D-Bus method calls so they never block the manager's
// event loop; results and unsolicited events arrive as D-Bus signals on
// the same interface, translated into nan.HALCallbacks calls.
package halbus

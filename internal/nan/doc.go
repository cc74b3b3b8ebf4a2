// Package nan implements the core Wi-Fi Neighbor Awareness Networking (NAN)
// state manager: a single-threaded coordinator between local application
// clients and a single hardware abstraction layer (HAL) for NAN discovery.
//
// This includes the transaction registry, client/session/peer tables, the
// device-configuration merger, and the session lifecycle FSM.
package nan

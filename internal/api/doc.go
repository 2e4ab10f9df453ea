// Package api implements the HTTP and WebSocket front end for Switch Studio.
//
// This package provides:
//   - REST endpoints for health, the device roster, and the capability model
//   - WebSocket hub carrying the event protocol browsers speak
//   - Middleware stack (request ID, logging, recovery, CORS, body limits)
//   - TLS support for deployments that need it
//
// # Architecture
//
// The server sits between browser sessions and the bridge service. Inbound
// WebSocket envelopes are decoded here and dispatched to the session
// handler; everything the bridge emits flows back out through the hub,
// either broadcast to all sessions or addressed to one.
//
// The hub is created by the caller and injected, because the bridge
// service needs it as its emitter before the HTTP listener exists.
//
// # Security
//
// There is no authentication layer. The bridge is built for a trusted home
// LAN, the same trust model as the zigbee2mqtt frontend it sits beside.
package api

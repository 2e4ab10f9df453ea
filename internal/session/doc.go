// Package session tracks per-WebSocket-connection state: the selected
// device topic and the reporting auto-off preference. Records are created
// on connect and destroyed on disconnect; nothing survives a session.
package session

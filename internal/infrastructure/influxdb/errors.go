package influxdb

import "errors"

// Sentinel errors for the telemetry sink, matched with errors.Is.
// Write-path failures do not get sentinels of their own: the non-blocking
// write API reports them asynchronously through the error callback, where
// they are logged and dropped.
var (
	// ErrNotConnected indicates a write was attempted before Connect or
	// after Close.
	ErrNotConnected = errors.New("influxdb: not connected")

	// ErrConnectionFailed indicates the initial health probe against the
	// InfluxDB server failed. Telemetry is optional, but a configured and
	// unreachable server fails startup rather than silently dropping
	// history.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrDisabled is returned by Connect when the influxdb section of
	// config.yaml has enabled: false.
	ErrDisabled = errors.New("influxdb: disabled in configuration")
)

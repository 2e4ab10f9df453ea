// Package logging provides the bridge's structured logger, built on
// log/slog.
//
// Output format, level, and destination come from the logging section of
// config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Every entry carries service and version attributes. Subsystems tag
// their output with With:
//
//	log := logging.New(cfg.Logging, version)
//	mqttLog := log.With("component", "mqtt")
//	mqttLog.Warn("handler error", "topic", topic, "error", err)
//
// Device payloads may name a household's rooms and occupancy patterns, so
// log at debug level anything that echoes message contents back out.
package logging

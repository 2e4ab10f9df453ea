// Package mqtt connects the bridge to the Mosquitto broker that fronts
// zigbee2mqtt.
//
// The bridge's broker footprint is small and fixed:
//
//   - one wildcard subscription over the configured base topic
//     (zigbee2mqtt/# by default), which delivers every device report
//   - publishes to the per-device /set and /get topics for writes
//     and read requests
//   - a retained status message on switchstudio/system/status, armed
//     with a Last Will so the broker flips it to offline if the bridge
//     crashes
//
// Reconnection is paho's retry loop with exponential backoff between the
// configured initial and maximum delays; the wildcard subscription is
// re-established on every reconnect. TLS (minimum 1.2) and
// username/password auth are switched on through config. Anonymous
// plaintext is for local development against a broker on the same host.
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT, log)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	wildcard := mqtt.Topics{}.DeviceWildcard(cfg.Studio.BaseTopic)
//	err = client.Subscribe(wildcard, byte(cfg.MQTT.QoS), bridge.HandleMessage)
//
//	topic := mqtt.Topics{}.DeviceSet("zigbee2mqtt/office_switch")
//	client.Publish(topic, []byte(`{"mmWaveHoldTime":30}`), byte(cfg.MQTT.QoS), false)
package mqtt

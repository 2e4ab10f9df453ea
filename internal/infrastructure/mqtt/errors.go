package mqtt

import "errors"

// Sentinel errors for broker operations, matched with errors.Is. Wrapped
// variants carry the underlying paho error where one exists.
var (
	// ErrNotConnected is returned for publishes and subscribes attempted
	// while the broker link is down. Paho reconnects on its own; callers
	// either retry later or surface the failure.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed is returned by Connect when the initial attempt
	// does not complete. Startup treats this as fatal.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed covers device writes the broker did not acknowledge
	// in time, plus payload-size rejections.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrSubscribeFailed means a topic filter could not be established.
	// For the base-topic wildcard this is fatal: without it no device
	// traffic reaches the bridge.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrInvalidQoS is returned for QoS levels outside 0..2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")

	// ErrInvalidTopic is returned for an empty topic string.
	ErrInvalidTopic = errors.New("mqtt: topic cannot be empty")
)

package mqtt

import (
	"fmt"
)

// maxPayloadSize caps outbound payloads at 1MB. Device writes are small
// JSON objects; anything approaching this limit indicates a caller bug,
// and Mosquitto's default message limit sits in the same range.
const maxPayloadSize = 1 << 20

// Publish sends payload to topic and waits for broker acknowledgement.
//
// The bridge publishes two kinds of messages: device writes to
// <device>/set and <device>/get, which are never retained, and its own
// retained status on switchstudio/system/status. Retained messages are
// replayed to every new subscriber, so retain state only, never commands.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// Subscribe registers handler for every message matching the topic filter
// and tracks the filter so it survives reconnects.
//
// The bridge calls this once at startup with the base-topic wildcard
// (zigbee2mqtt/# by default); the filter accepts the usual + and #
// wildcards. The handler runs wrapped with panic recovery on paho's
// delivery goroutines and must not block.
func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if handler == nil {
		return fmt.Errorf("%w: handler cannot be nil", ErrSubscribeFailed)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	c.subMu.Lock()
	c.subscriptions[topic] = subscription{topic: topic, qos: qos, handler: handler}
	c.subMu.Unlock()

	token := c.client.Subscribe(topic, qos, c.wrapHandler(handler))
	if !token.WaitTimeout(defaultPublishTimeout) {
		c.forgetSubscription(topic)
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		c.forgetSubscription(topic)
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	return nil
}

// forgetSubscription drops a filter from the reconnect set after a failed
// subscribe, so the restore pass does not repeat something that never
// took effect.
func (c *Client) forgetSubscription(topic string) {
	c.subMu.Lock()
	delete(c.subscriptions, topic)
	c.subMu.Unlock()
}

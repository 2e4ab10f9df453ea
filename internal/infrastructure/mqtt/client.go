package mqtt

import (
	"context"
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/switch-studio-core/internal/infrastructure/config"
)

// Client is the bridge's single link to the Mosquitto broker fronting
// zigbee2mqtt. It carries one wildcard subscription over the configured
// base topic for inbound device reports, publishes device writes to the
// per-device /set and /get topics, and maintains a retained status
// message on switchstudio/system/status.
//
// All methods are safe for concurrent use. Reconnection is delegated to
// paho; tracked subscriptions are re-established on every reconnect.
type Client struct {
	client pahomqtt.Client
	cfg    config.MQTTConfig
	logger Logger

	// subscriptions holds the topic filters to re-establish after a
	// reconnect. In practice this is the single base-topic wildcard.
	subscriptions map[string]subscription
	subMu         sync.RWMutex

	connected bool
	connMu    sync.RWMutex

	// Connection-event callbacks, registered by the caller after Connect.
	onConnect    func()
	onDisconnect func(err error)
	cbMu         sync.RWMutex
}

// Logger is the subset of logging.Logger the client needs to report
// handler failures. A nil logger disables that reporting.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

type subscription struct {
	topic   string
	qos     byte
	handler MessageHandler
}

// MessageHandler receives each inbound message. Paho invokes handlers on
// its own goroutines, so a handler that blocks stalls delivery on the
// shared connection. Handler errors are logged without affecting message
// acknowledgement.
type MessageHandler func(topic string, payload []byte) error

// Connect dials the broker and returns a ready client.
//
// The connection is armed with a Last Will so other services watching
// switchstudio/system/status see it flip to offline if the bridge dies
// without a graceful Close. The matching retained online announcement is
// published on connect and again after every reconnect. logger may be
// nil.
func Connect(cfg config.MQTTConfig, logger Logger) (*Client, error) {
	opts := buildClientOptions(cfg)
	configureLastWill(opts, cfg.Broker.ClientID)

	c := &Client{
		cfg:           cfg,
		logger:        logger,
		subscriptions: make(map[string]subscription),
	}

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.handleConnect()
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.handleDisconnect(err)
	})

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// Paho runs the on-connect handler asynchronously; mark connected here
	// as well so IsConnected cannot briefly report false right after a
	// successful Connect.
	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	return c, nil
}

// handleConnect fires on the initial connection and on every reconnect.
func (c *Client) handleConnect() {
	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	c.resubscribe()
	c.announceOnline()

	c.cbMu.RLock()
	callback := c.onConnect
	c.cbMu.RUnlock()
	if callback != nil {
		callback()
	}
}

func (c *Client) handleDisconnect(err error) {
	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	c.cbMu.RLock()
	callback := c.onDisconnect
	c.cbMu.RUnlock()
	if callback != nil {
		callback(err)
	}
}

// resubscribe re-establishes tracked topic filters after a reconnect.
// Errors are deliberately ignored: if the link drops again mid-restore,
// the next reconnect repeats the whole pass.
func (c *Client) resubscribe() {
	c.subMu.RLock()
	defer c.subMu.RUnlock()

	for _, sub := range c.subscriptions {
		c.client.Subscribe(sub.topic, sub.qos, c.wrapHandler(sub.handler))
	}
}

// announceOnline publishes the retained online status, replacing any
// offline status a previous Last Will may have left on the topic.
func (c *Client) announceOnline() {
	topic := Topics{}.SystemStatus()
	c.client.Publish(topic, byte(c.cfg.QoS), true, statusOnline(c.cfg.Broker.ClientID))
}

// Close publishes a graceful offline status, distinguishable from the
// Last Will's unexpected_disconnect, then drops the broker connection
// after a short quiesce for in-flight messages.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	if c.IsConnected() {
		topic := Topics{}.SystemStatus()
		token := c.client.Publish(topic, byte(c.cfg.QoS), true, statusOffline(c.cfg.Broker.ClientID))
		token.WaitTimeout(defaultPublishTimeout)
	}

	c.client.Disconnect(defaultDisconnectQuiesce)

	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	return nil
}

// HealthCheck reports whether the broker link is up. Surfaced through the
// /api/v1/health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("mqtt health check: %w", ctx.Err())
	default:
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	return nil
}

// IsConnected reports the last known connection state.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected && c.client.IsConnected()
}

// SetOnConnect registers a callback invoked on the initial connection and
// on every reconnect, after subscriptions have been restored.
func (c *Client) SetOnConnect(callback func()) {
	c.cbMu.Lock()
	c.onConnect = callback
	c.cbMu.Unlock()
}

// SetOnDisconnect registers a callback invoked with the cause whenever
// the broker link drops.
func (c *Client) SetOnDisconnect(callback func(err error)) {
	c.cbMu.Lock()
	c.onDisconnect = callback
	c.cbMu.Unlock()
}

// wrapHandler adapts a MessageHandler to paho's callback shape. A panic
// inside a handler is recovered so one malformed device report cannot
// kill paho's delivery goroutine; panics and handler errors are logged
// and the message stays acknowledged either way.
func (c *Client) wrapHandler(handler MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil && c.logger != nil {
				c.logger.Error("mqtt handler panic recovered",
					"topic", msg.Topic(),
					"panic", r,
				)
			}
		}()

		if err := handler(msg.Topic(), msg.Payload()); err != nil && c.logger != nil {
			c.logger.Warn("mqtt handler error",
				"topic", msg.Topic(),
				"error", err,
			)
		}
	}
}

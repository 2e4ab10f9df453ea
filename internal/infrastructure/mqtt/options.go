package mqtt

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/switch-studio-core/internal/infrastructure/config"
)

const (
	// defaultConnectTimeout bounds the initial Connect. Reconnects after
	// that run in paho's retry loop with the configured backoff.
	defaultConnectTimeout = 10 * time.Second

	// defaultPublishTimeout bounds waiting for broker acknowledgement on
	// publishes and subscribes.
	defaultPublishTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is how long Close lets in-flight messages
	// drain, in milliseconds (paho takes a plain uint here).
	defaultDisconnectQuiesce = 1000

	// defaultKeepAlive is the PINGREQ interval for dead-link detection.
	defaultKeepAlive = 60 * time.Second

	maxQoS        = 2
	tlsMinVersion = tls.VersionTLS12
)

// buildClientOptions maps the mqtt section of config.yaml onto paho
// options: broker URL, client identity, credentials, and a reconnect loop
// whose backoff comes from cfg.Reconnect.
func buildClientOptions(cfg config.MQTTConfig) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	scheme := "tcp"
	if cfg.Broker.TLS {
		scheme = "ssl"
		opts.SetTLSConfig(&tls.Config{MinVersion: tlsMinVersion})
	}
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.Broker.Host, cfg.Broker.Port))

	opts.SetClientID(cfg.Broker.ClientID)
	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}

	// Clean session: the bridge rebuilds its wildcard subscription on
	// every connect, so a persistent broker-side session buys nothing.
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(time.Duration(cfg.Reconnect.InitialDelay) * time.Second)
	opts.SetMaxReconnectInterval(time.Duration(cfg.Reconnect.MaxDelay) * time.Second)

	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)

	return opts
}

// statusMessage is the payload published on switchstudio/system/status.
type statusMessage struct {
	Status    string `json:"status"`
	ClientID  string `json:"client_id"`
	Reason    string `json:"reason,omitempty"`
	Timestamp string `json:"timestamp"`
}

func encodeStatus(status, clientID, reason string) []byte {
	payload, _ := json.Marshal(statusMessage{
		Status:    status,
		ClientID:  clientID,
		Reason:    reason,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	return payload
}

// configureLastWill arms the broker-side offline announcement. If the
// bridge dies without a graceful Close the broker publishes this retained
// message itself, so watchers of the status topic notice crashes as well
// as clean shutdowns.
func configureLastWill(opts *pahomqtt.ClientOptions, clientID string) {
	payload := encodeStatus("offline", clientID, "unexpected_disconnect")
	opts.SetBinaryWill(Topics{}.SystemStatus(), payload, 1, true)
}

func statusOnline(clientID string) []byte {
	return encodeStatus("online", clientID, "")
}

func statusOffline(clientID string) []byte {
	return encodeStatus("offline", clientID, "graceful_shutdown")
}

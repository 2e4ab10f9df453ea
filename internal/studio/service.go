package studio

import (
	"encoding/json"
	"time"

	"github.com/nerrad567/switch-studio-core/internal/device"
	"github.com/nerrad567/switch-studio-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/switch-studio-core/internal/schema"
	"github.com/nerrad567/switch-studio-core/internal/session"
)

// Emitter delivers events to browser sessions. Broadcast reaches every
// connected session, SendTo exactly one. Implemented by the API hub.
type Emitter interface {
	Broadcast(event string, data any)
	SendTo(sessionID string, event string, data any)
}

// Publisher sends MQTT messages. Implemented by the infrastructure client.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Telemetry records time-series datapoints. Implemented by the InfluxDB
// client; optional, the service runs fully without it.
type Telemetry interface {
	WriteDeviceMetric(deviceID string, measurement string, value float64)
	WriteTargetReport(deviceID string, seq int, targetCount int)
	WriteZoneReport(deviceID string, kind string, zoneCount int)
}

// Logger defines the logging interface used by the Service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Service is the bridge core: it ingests zigbee2mqtt traffic into the
// device registry, fans state out to browser sessions, and turns session
// commands into validated MQTT writes.
type Service struct {
	registry  *device.Registry
	sessions  *session.Router
	schema    *schema.Service
	emitter   Emitter
	publisher Publisher
	telemetry Telemetry
	logger    Logger
	topics    mqtt.Topics
	baseTopic string
	qos       byte
}

// Deps bundles the Service's dependencies for construction.
type Deps struct {
	Registry  *device.Registry
	Sessions  *session.Router
	Schema    *schema.Service
	Emitter   Emitter
	Publisher Publisher

	// Telemetry may be nil when InfluxDB is disabled.
	Telemetry Telemetry

	Logger    Logger
	BaseTopic string
	QoS       byte
}

// New creates the bridge service.
func New(deps Deps) *Service {
	return &Service{
		registry:  deps.Registry,
		sessions:  deps.Sessions,
		schema:    deps.Schema,
		emitter:   deps.Emitter,
		publisher: deps.Publisher,
		telemetry: deps.Telemetry,
		logger:    deps.Logger,
		baseTopic: deps.BaseTopic,
		qos:       deps.QoS,
	}
}

// publishJSON marshals and publishes a payload, returning the (ok, rc)
// pair surfaced to sessions in command results: rc is 0 on success and the
// error string on failure.
func (s *Service) publishJSON(topic string, payload any, origin, sid string) (bool, any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("mqtt publish marshal failed",
			"origin", origin, "sid", sid, "topic", topic, "error", err)
		return false, err.Error()
	}

	s.logger.Info("mqtt publish",
		"origin", origin, "sid", sid, "topic", topic, "bytes", len(data))

	if err := s.publisher.Publish(topic, data, s.qos, false); err != nil {
		s.logger.Warn("mqtt publish failed",
			"origin", origin, "sid", sid, "topic", topic, "error", err)
		return false, err.Error()
	}
	return true, 0
}

// now returns the wall-clock timestamp attached to outbound events, as
// fractional seconds since the epoch.
func now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

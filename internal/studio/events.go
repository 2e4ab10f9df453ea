package studio

// Outbound event names.
const (
	EventDeviceList        = "device_list"
	EventDeviceDelta       = "device_delta"
	EventDeviceSnapshot    = "device_snapshot"
	EventDeviceConfig      = "device_config"
	EventZoneConfig        = "zone_config"
	EventInterferenceZones = "interference_zones"
	EventDetectionZones    = "detection_zones"
	EventStayZones         = "stay_zones"
	EventNewData           = "new_data"
	EventSchemaModel       = "schema_model"
	EventCommandResult     = "command_result"
)

// Command result status values.
const (
	StatusSent  = "sent"
	StatusError = "error"
)

// TopicPayload is the common shape of per-device events: the device's base
// topic plus an event-specific payload.
type TopicPayload struct {
	Topic   string `json:"topic"`
	Payload any    `json:"payload"`
}

// Delta is the uniform change-feed record mirrored alongside every legacy
// per-kind event, so new clients can consume a single stream.
type Delta struct {
	Kind    string  `json:"kind"`
	Topic   string  `json:"topic,omitempty"`
	Payload any     `json:"payload"`
	Ts      float64 `json:"ts"`
}

// Snapshot is the device_snapshot event body: the cached record for one
// device at a moment in time.
type Snapshot struct {
	Topic   string  `json:"topic"`
	Payload any     `json:"payload"`
	Ts      float64 `json:"ts"`
}

// TargetReport is the new_data payload: one throttled radar frame.
type TargetReport struct {
	Seq     int `json:"seq"`
	Targets any `json:"targets"`
}

// CommandResult reports the outcome of a session command. RC is 0 when the
// MQTT publish succeeded and the transport error string when it did not.
type CommandResult struct {
	Action    string  `json:"action"`
	Status    string  `json:"status"`
	Topic     string  `json:"topic,omitempty"`
	RequestID string  `json:"request_id,omitempty"`
	Ts        float64 `json:"ts"`
	Message   string  `json:"message,omitempty"`
	Payload   any     `json:"payload,omitempty"`
	RC        any     `json:"rc,omitempty"`
}

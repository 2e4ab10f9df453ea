package studio

// targetReportingField is the device attribute that switches the raw
// target stream on and off.
const targetReportingField = "mmWaveTargetInfoReport"

// Brightness range accepted by the switch.
const (
	brightnessMin = 0
	brightnessMax = 254
)

// commandActions maps send_command action ids to the vendor controlID
// tokens wrapped into mmwave_control_commands writes.
var commandActions = map[int]string{
	0: "reset_mmwave_module",
	1: "set_interference",
	2: "query_areas",
	3: "clear_interference",
	4: "reset_detection_area",
	5: "clear_stay_areas",
}

// HandleConnect registers a new session and pushes the capability model so
// the UI can render controls before any device is selected.
func (s *Service) HandleConnect(sid string) {
	s.sessions.Connect(sid)
	s.logger.Info("session connected", "sid", sid, "sessions", s.sessions.Count())
	s.emitter.SendTo(sid, EventSchemaModel, s.schema.Schema())
}

// HandleDisconnect removes the session. When the departing session opted
// in to auto-off, had a device selected, and was the last session watching
// that device, target reporting is switched off on the device.
func (s *Service) HandleDisconnect(sid string) {
	topic, autoOff := s.sessions.Disconnect(sid)
	s.logger.Info("session disconnected", "sid", sid, "sessions", s.sessions.Count())

	if !autoOff || topic == "" || s.sessions.AnyOtherOnTopic(topic, sid) {
		return
	}

	token := s.schema.ResolveEnumToken(targetReportingField, false)
	payload := map[string]any{targetReportingField: token}
	ok, _ := s.publishJSON(s.topics.DeviceSet(topic), payload, "auto_disable_target_reporting", sid)
	if !ok {
		s.logger.Warn("auto-off publish failed", "sid", sid, "topic", topic)
	}
}

// RequestDevices replays the device roster to the requesting session.
func (s *Service) RequestDevices(sid string) {
	s.sendDeviceList(sid)
}

// RequestSchema replays the capability model to the requesting session.
func (s *Service) RequestSchema(sid string) {
	s.emitter.SendTo(sid, EventSchemaModel, s.schema.Schema())
}

// ChangeDevice switches the session's selected device. An empty topic
// clears the selection. A known topic gets its cached record replayed to
// the session immediately so the UI renders without waiting for traffic.
func (s *Service) ChangeDevice(sid, topic string) {
	if topic == "" {
		s.sessions.Select(sid, "")
		return
	}

	s.sessions.Select(sid, topic)
	s.logger.Info("session selected device", "sid", sid, "topic", topic)
	s.sendDelta(sid, "selected_device", topic, map[string]any{"topic": topic})
	s.sendDeviceReplay(sid, topic)
}

// UpdateParameter validates a single attribute write against the schema
// and publishes it to the selected device's /set topic. Validation
// failures never reach the broker.
func (s *Service) UpdateParameter(sid, param string, value any, requestID string) {
	topic, selected := s.sessions.CurrentTopic(sid)
	if !selected {
		s.sendResult(sid, CommandResult{
			Action:    "update_parameter",
			Status:    StatusError,
			RequestID: requestID,
			Message:   "No device selected",
		})
		return
	}
	if param == "" {
		s.sendResult(sid, CommandResult{
			Action:    "update_parameter",
			Status:    StatusError,
			Topic:     topic,
			RequestID: requestID,
			Message:   "Missing param",
		})
		return
	}

	normalized, unknown, err := s.schema.Validate(param, value)
	if err != nil {
		s.sendResult(sid, CommandResult{
			Action:    "update_parameter",
			Status:    StatusError,
			Topic:     topic,
			RequestID: requestID,
			Payload:   map[string]any{param: value},
			Message:   err.Error(),
		})
		return
	}

	writePayload := map[string]any{param: normalized}
	ok, rc := s.publishJSON(s.topics.DeviceSet(topic), writePayload, "update_parameter", sid)

	result := CommandResult{
		Action:    "update_parameter",
		Status:    statusFor(ok),
		Topic:     topic,
		RequestID: requestID,
		Payload:   writePayload,
		RC:        rc,
	}
	switch {
	case !ok:
		result.Message = "MQTT publish failed"
	case unknown:
		result.Message = "Sent without schema validation (unknown field)"
	}
	s.sendResult(sid, result)
}

// ForceSync replays the cached record, then asks the device for everything:
// a full attribute read on /get plus a query_areas command on /set that
// makes the sensor re-emit all three zone frames.
func (s *Service) ForceSync(sid, requestID string) {
	topic, selected := s.sessions.CurrentTopic(sid)
	if !selected {
		s.sendResult(sid, CommandResult{
			Action:    "force_sync",
			Status:    StatusError,
			RequestID: requestID,
			Message:   "No device selected",
		})
		return
	}

	s.sendDeviceReplay(sid, topic)

	readPayload := s.schema.FullReadPayload()
	okGet, rcGet := s.publishJSON(s.topics.DeviceGet(topic), readPayload, "force_sync_get", sid)
	result := CommandResult{
		Action:    "force_sync_get",
		Status:    statusFor(okGet),
		Topic:     topic,
		RequestID: requestID,
		Payload:   readPayload,
		RC:        rcGet,
	}
	if !okGet {
		result.Message = "MQTT publish failed"
	}
	s.sendResult(sid, result)

	cmdPayload := controlCommand("query_areas")
	okCmd, rcCmd := s.publishJSON(s.topics.DeviceSet(topic), cmdPayload, "force_sync_query_areas", sid)
	result = CommandResult{
		Action:    "force_sync_query_areas",
		Status:    statusFor(okCmd),
		Topic:     topic,
		RequestID: requestID,
		Payload:   cmdPayload,
		RC:        rcCmd,
	}
	if !okCmd {
		result.Message = "MQTT publish failed"
	}
	s.sendResult(sid, result)
}

// SendCommand publishes one of the fixed module control actions to the
// selected device.
func (s *Service) SendCommand(sid string, actionID int, requestID string) {
	topic, selected := s.sessions.CurrentTopic(sid)
	if !selected {
		s.sendResult(sid, CommandResult{
			Action:    "send_command",
			Status:    StatusError,
			RequestID: requestID,
			Message:   "No device selected",
		})
		return
	}

	controlID, valid := commandActions[actionID]
	if !valid {
		s.sendResult(sid, CommandResult{
			Action:    "send_command",
			Status:    StatusError,
			Topic:     topic,
			RequestID: requestID,
			Payload:   map[string]any{"action_id": actionID},
			Message:   "Unknown command action",
		})
		return
	}

	ok, rc := s.publishJSON(s.topics.DeviceSet(topic), controlCommand(controlID), "send_command", sid)
	result := CommandResult{
		Action:    "send_command",
		Status:    statusFor(ok),
		Topic:     topic,
		RequestID: requestID,
		Payload:   map[string]any{"action_id": actionID, "controlID": controlID},
		RC:        rc,
	}
	if !ok {
		result.Message = "MQTT publish failed"
	}
	s.sendResult(sid, result)
}

// SetTargetReporting switches the raw target stream on or off by writing
// the matching enum literal from the loaded schema.
func (s *Service) SetTargetReporting(sid string, enabled bool, requestID string) {
	topic, selected := s.sessions.CurrentTopic(sid)
	if !selected {
		s.sendResult(sid, CommandResult{
			Action:    "set_target_reporting",
			Status:    StatusError,
			RequestID: requestID,
			Message:   "No device selected",
		})
		return
	}

	token := s.schema.ResolveEnumToken(targetReportingField, enabled)
	writePayload := map[string]any{targetReportingField: token}
	ok, rc := s.publishJSON(s.topics.DeviceSet(topic), writePayload, "set_target_reporting", sid)

	result := CommandResult{
		Action:    "set_target_reporting",
		Status:    statusFor(ok),
		Topic:     topic,
		RequestID: requestID,
		Payload:   map[string]any{"enabled": enabled, "value": token},
		RC:        rc,
	}
	if !ok {
		result.Message = "MQTT publish failed"
	}
	s.sendResult(sid, result)
}

// SetBasicControl writes power state and/or brightness to the selected
// device. Brightness is clamped into the range the switch accepts.
func (s *Service) SetBasicControl(sid string, state *string, brightness *int, requestID string) {
	topic, selected := s.sessions.CurrentTopic(sid)
	if !selected {
		s.sendResult(sid, CommandResult{
			Action:    "set_basic_control",
			Status:    StatusError,
			RequestID: requestID,
			Message:   "No device selected",
		})
		return
	}

	writePayload := map[string]any{}
	if state != nil {
		writePayload["state"] = *state
	}
	if brightness != nil {
		writePayload["brightness"] = clampBrightness(*brightness)
	}
	if len(writePayload) == 0 {
		s.sendResult(sid, CommandResult{
			Action:    "set_basic_control",
			Status:    StatusError,
			Topic:     topic,
			RequestID: requestID,
			Message:   "Nothing to set",
		})
		return
	}

	ok, rc := s.publishJSON(s.topics.DeviceSet(topic), writePayload, "set_basic_control", sid)
	result := CommandResult{
		Action:    "set_basic_control",
		Status:    statusFor(ok),
		Topic:     topic,
		RequestID: requestID,
		Payload:   writePayload,
		RC:        rc,
	}
	if !ok {
		result.Message = "MQTT publish failed"
	}
	s.sendResult(sid, result)
}

// SetReportingAutoOff records the session's preference for disabling
// target reporting when it disconnects.
func (s *Service) SetReportingAutoOff(sid string, enabled bool) {
	s.sessions.SetAutoOff(sid, enabled)
	s.sendResult(sid, CommandResult{
		Action:  "set_reporting_auto_off",
		Status:  StatusSent,
		Payload: map[string]any{"enabled": enabled},
	})
}

// sendResult stamps and delivers a command result to one session.
func (s *Service) sendResult(sid string, result CommandResult) {
	result.Ts = now()
	s.emitter.SendTo(sid, EventCommandResult, result)
}

// controlCommand wraps a vendor controlID token into the write shape the
// firmware expects.
func controlCommand(controlID string) map[string]any {
	return map[string]any{
		"mmwave_control_commands": map[string]any{"controlID": controlID},
	}
}

func statusFor(ok bool) string {
	if ok {
		return StatusSent
	}
	return StatusError
}

func clampBrightness(v int) int {
	if v < brightnessMin {
		return brightnessMin
	}
	if v > brightnessMax {
		return brightnessMax
	}
	return v
}

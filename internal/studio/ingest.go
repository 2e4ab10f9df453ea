package studio

import (
	"github.com/nerrad567/switch-studio-core/internal/device"
	"github.com/nerrad567/switch-studio-core/internal/frame"
)

// HandleMessage processes one MQTT message from the zigbee2mqtt tree. It
// is the subscription callback for the base-topic wildcard.
//
// A message can carry a raw sensor frame, semantic config fields, or both;
// the branches fire independently. Decode failures are logged and confined
// to the message that caused them.
func (s *Service) HandleMessage(topic string, payload []byte) error {
	obj, ok := frame.ParseObject(payload)
	if !ok {
		return nil
	}

	// Discovery: a marker attribute on a topic exactly one segment below
	// the base topic registers the device.
	if frame.HasDiscoveryMarker(obj) {
		if name, valid := frame.DeviceNameFromTopic(s.baseTopic, topic); valid {
			if created := s.registry.Discover(name, topic); created {
				s.BroadcastDeviceList()
			}
		}
	}

	// Everything else requires an exact match on a known device's base
	// topic. Sub-topics like /get and /set never match, so echoes of our
	// own reads cannot mutate state.
	name, known := s.registry.LookupTopic(topic)
	if !known {
		return nil
	}
	// Any traffic on the device's base topic counts against staleness,
	// including frames the throttle later drops.
	s.registry.Touch(name)

	if frame.IsRawFrame(obj) {
		s.handleRawFrame(name, topic, obj)
	}

	if fields := frame.ConfigFields(obj); len(fields) > 0 {
		s.handleConfigFields(name, topic, fields)
	}

	return nil
}

// handleRawFrame dispatches a vendor cluster frame by command id.
func (s *Service) handleRawFrame(name, topic string, obj map[string]any) {
	switch frame.CommandID(obj) {
	case frame.CmdTargetInfo:
		if !s.registry.AcceptTargetFrame(name) {
			return
		}
		targets, err := frame.DecodeTargets(obj)
		if err != nil {
			s.logger.Warn("dropping truncated target frame", "device", name, "error", err)
			return
		}
		seq := frame.SequenceNumber(obj)
		report := TargetReport{Seq: seq, Targets: targets}
		s.emitter.Broadcast(EventNewData, TopicPayload{Topic: topic, Payload: report})
		s.broadcastDelta(EventNewData, topic, report)
		if s.telemetry != nil {
			s.telemetry.WriteTargetReport(name, seq, len(targets))
		}

	case frame.CmdInterferenceZones, frame.CmdDetectionZones, frame.CmdStayZones:
		kind := zoneKindForCommand(frame.CommandID(obj))
		zones, err := frame.DecodeZones(obj)
		if err != nil {
			s.logger.Warn("dropping truncated zone frame",
				"device", name, "kind", string(kind), "error", err)
			return
		}
		if !s.registry.ApplyZoneFrame(name, kind, zones) {
			return
		}
		event := zoneEventName(kind)
		s.emitter.Broadcast(event, TopicPayload{Topic: topic, Payload: zones})
		s.broadcastDelta(event, topic, zones)
		s.logger.Info("zone list replaced", "device", name, "kind", string(kind), "zones", len(zones))
		if s.telemetry != nil {
			s.telemetry.WriteZoneReport(name, string(kind), len(zones))
		}
	}
}

// handleConfigFields fans out a semantic attribute report and folds the
// detection-envelope attributes into the device's zone config.
func (s *Service) handleConfigFields(name, topic string, fields map[string]any) {
	s.emitter.Broadcast(EventDeviceConfig, TopicPayload{Topic: topic, Payload: fields})
	s.broadcastDelta(EventDeviceConfig, topic, fields)

	zc, changed, ok := s.registry.ApplyConfigUpdate(name, fields)
	if ok && changed {
		s.emitter.Broadcast(EventZoneConfig, TopicPayload{Topic: topic, Payload: zc})
		s.broadcastDelta(EventZoneConfig, topic, zc)
	}

	if s.telemetry != nil {
		for field, value := range fields {
			if n, isNum := value.(float64); isNum {
				s.telemetry.WriteDeviceMetric(name, field, n)
			}
		}
	}
}

// zoneKindForCommand maps a raw-frame command id to the zone list it
// replaces.
func zoneKindForCommand(cmdID int) device.ZoneKind {
	switch cmdID {
	case frame.CmdInterferenceZones:
		return device.ZoneInterference
	case frame.CmdDetectionZones:
		return device.ZoneDetection
	case frame.CmdStayZones:
		return device.ZoneStay
	default:
		return ""
	}
}

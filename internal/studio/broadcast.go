package studio

import (
	"github.com/nerrad567/switch-studio-core/internal/device"
)

// broadcastDelta mirrors an event into the uniform change feed.
func (s *Service) broadcastDelta(kind, topic string, payload any) {
	s.emitter.Broadcast(EventDeviceDelta, Delta{
		Kind:    kind,
		Topic:   topic,
		Payload: payload,
		Ts:      now(),
	})
}

// sendDelta delivers a change-feed record to a single session.
func (s *Service) sendDelta(sid, kind, topic string, payload any) {
	s.emitter.SendTo(sid, EventDeviceDelta, Delta{
		Kind:    kind,
		Topic:   topic,
		Payload: payload,
		Ts:      now(),
	})
}

// BroadcastDeviceList pushes the full device roster to every session, both
// as the legacy device_list event and as a change-feed record.
func (s *Service) BroadcastDeviceList() {
	devices := s.registry.Snapshot()
	s.emitter.Broadcast(EventDeviceList, devices)
	s.broadcastDelta(EventDeviceList, "", map[string]any{"devices": devices})
}

// sendDeviceList delivers the roster to one session.
func (s *Service) sendDeviceList(sid string) {
	devices := s.registry.Snapshot()
	s.emitter.SendTo(sid, EventDeviceList, devices)
	s.sendDelta(sid, EventDeviceList, "", map[string]any{"devices": devices})
}

// snapshotPayload is the device_snapshot body built from a registry copy.
func snapshotPayload(d *device.Device) map[string]any {
	return map[string]any{
		"friendly_name":      d.Name,
		"zone_config":        d.ZoneConfig,
		"interference_zones": d.InterferenceZones,
		"detection_zones":    d.DetectionZones,
		"stay_zones":         d.StayZones,
		"last_config":        d.LastConfig,
		"last_seen":          d.LastSeen,
	}
}

// sendDeviceReplay pushes the cached record for one device to a single
// session: the snapshot event followed by the per-kind events the UI
// panels subscribe to. A no-op when the topic is unknown.
func (s *Service) sendDeviceReplay(sid, topic string) {
	d, ok := s.registry.SnapshotByTopic(topic)
	if !ok {
		return
	}

	s.emitter.SendTo(sid, EventDeviceSnapshot, Snapshot{
		Topic:   topic,
		Payload: snapshotPayload(d),
		Ts:      now(),
	})
	s.emitter.SendTo(sid, EventZoneConfig, TopicPayload{Topic: topic, Payload: d.ZoneConfig})
	s.emitter.SendTo(sid, EventInterferenceZones, TopicPayload{Topic: topic, Payload: d.InterferenceZones})
	s.emitter.SendTo(sid, EventDetectionZones, TopicPayload{Topic: topic, Payload: d.DetectionZones})
	s.emitter.SendTo(sid, EventStayZones, TopicPayload{Topic: topic, Payload: d.StayZones})
}

// zoneEventName maps a zone kind to its legacy event name. The kind
// strings are chosen to match, so this is the identity with a guard.
func zoneEventName(kind device.ZoneKind) string {
	switch kind {
	case device.ZoneInterference:
		return EventInterferenceZones
	case device.ZoneDetection:
		return EventDetectionZones
	case device.ZoneStay:
		return EventStayZones
	default:
		return ""
	}
}

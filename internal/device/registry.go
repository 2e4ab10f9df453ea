package device

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nerrad567/switch-studio-core/internal/frame"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry is the concurrent-safe store of per-device state.
//
// One mutex guards the whole store; every operation is mutually exclusive
// with every other for its duration. Snapshot methods return deep copies,
// and no method invokes callbacks while holding the lock, so callers can
// broadcast after the registry releases it.
type Registry struct {
	mu      sync.Mutex
	devices map[string]*Device
	logger  Logger
}

// NewRegistry creates an empty device registry.
func NewRegistry() *Registry {
	return &Registry{
		devices: make(map[string]*Device),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Discover registers a device seen on a qualifying discovery message.
// New devices get the default zone config and empty zone lists; known
// devices only have their last-seen timestamp refreshed.
func (r *Registry) Discover(name, topic string) (created bool) {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.devices[name]; ok {
		existing.LastSeen = now
		return false
	}

	r.devices[name] = &Device{
		Name:              name,
		Topic:             topic,
		ZoneConfig:        DefaultZoneConfig(),
		InterferenceZones: []frame.Zone{},
		DetectionZones:    []frame.Zone{},
		StayZones:         []frame.Zone{},
		LastConfig:        map[string]any{},
		LastSeen:          now,
	}
	r.logger.Info("discovered mmWave switch", "name", name, "topic", topic)
	return true
}

// Touch refreshes the device's last-seen timestamp.
func (r *Registry) Touch(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.devices[name]; ok {
		d.LastSeen = time.Now()
	}
}

// AcceptTargetFrame arbitrates the per-device target-frame throttle: at
// most one accepted frame per 100ms, measured against a monotonic clock.
// Target data itself is transient, broadcast by the caller and never
// stored, so acceptance only advances the throttle timestamp. A rejected frame is
// silently dropped and must not be broadcast.
func (r *Registry) AcceptTargetFrame(name string) bool {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[name]
	if !ok {
		return false
	}
	if !d.lastUpdate.IsZero() && now.Sub(d.lastUpdate) < targetFrameMinInterval {
		return false
	}
	d.lastUpdate = now
	d.LastSeen = now
	return true
}

// ApplyZoneFrame replaces the named zone list wholesale with the newly
// decoded list. Zone frames are never merged.
func (r *Registry) ApplyZoneFrame(name string, kind ZoneKind, zones []frame.Zone) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[name]
	if !ok {
		return false
	}

	copied := append([]frame.Zone(nil), zones...)
	switch kind {
	case ZoneInterference:
		d.InterferenceZones = copied
	case ZoneDetection:
		d.DetectionZones = copied
	case ZoneStay:
		d.StayZones = copied
	default:
		return false
	}
	d.LastSeen = time.Now()
	return true
}

// ApplyConfigUpdate merges fields into the device's last-seen config and
// folds the four envelope attributes (mmWaveWidthMin/Max, mmWaveDepthMin/Max)
// into the zone config when present and parseable. An unparseable value is
// a no-op for that one field only, never an error for the whole update.
//
// Returns the new zone config and whether it changed, so the caller can
// broadcast after the lock is released.
func (r *Registry) ApplyConfigUpdate(name string, fields map[string]any) (zc ZoneConfig, changed, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, exists := r.devices[name]
	if !exists {
		return ZoneConfig{}, false, false
	}

	for k, v := range fields {
		d.LastConfig[k] = v
	}

	zone := d.ZoneConfig
	apply := func(field string, dst *int) {
		v, present := fields[field]
		if !present {
			return
		}
		// Presence of a parseable value counts as a change even when the
		// device re-reports the current value; the UI resyncs either way.
		if n, parsed := asInt(v); parsed {
			*dst = n
			changed = true
		}
	}
	apply("mmWaveWidthMin", &zone.XMin)
	apply("mmWaveWidthMax", &zone.XMax)
	apply("mmWaveDepthMin", &zone.YMin)
	apply("mmWaveDepthMax", &zone.YMax)

	if changed {
		d.ZoneConfig = zone
	}
	d.LastSeen = time.Now()
	return zone, changed, true
}

// Snapshot returns independent copies of every device record.
func (r *Registry) Snapshot() []Device {
	r.mu.Lock()
	defer r.mu.Unlock()

	devices := make([]Device, 0, len(r.devices))
	for _, d := range r.devices {
		devices = append(devices, *d.DeepCopy())
	}
	return devices
}

// SnapshotByTopic returns an independent copy of the device with the given
// base topic, or false when no such device exists.
func (r *Registry) SnapshotByTopic(topic string) (*Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.devices {
		if d.Topic == topic {
			return d.DeepCopy(), true
		}
	}
	return nil, false
}

// LookupTopic resolves an exact base topic to a device name. Sub-topics
// (<topic>/get, <topic>/set) intentionally do not match: echoes of our own
// read requests must never mutate device state.
func (r *Registry) LookupTopic(topic string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, d := range r.devices {
		if d.Topic == topic {
			return name, true
		}
	}
	return "", false
}

// Count returns the number of known devices.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.devices)
}

// SweepStale removes every record whose last-seen timestamp is older than
// maxAge and returns the removed names. Callers broadcast one device-list
// event only when the removal set is non-empty.
func (r *Registry) SweepStale(maxAge time.Duration) []string {
	cutoff := time.Now().Add(-maxAge)

	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []string
	for name, d := range r.devices {
		if d.LastSeen.Before(cutoff) {
			delete(r.devices, name)
			removed = append(removed, name)
		}
	}
	if len(removed) > 0 {
		r.logger.Info("evicted stale devices", "names", removed)
	}
	return removed
}

// asInt coerces the lenient value shapes zigbee2mqtt reports for numeric
// attributes: JSON numbers, integer strings, and decimal strings (truncated
// toward zero), with surrounding whitespace tolerated.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

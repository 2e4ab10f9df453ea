package device

import (
	"time"

	"github.com/nerrad567/switch-studio-core/internal/frame"
)

// Default detection envelope applied to newly discovered devices, in
// centimetres relative to the sensor.
const (
	defaultXMin = -400
	defaultXMax = 400
	defaultYMin = 0
	defaultYMax = 600
)

// targetFrameMinInterval is the per-device throttle for target-info frames.
// Frames arriving faster than this are silently dropped so a chatty sensor
// cannot flood every browser session.
const targetFrameMinInterval = 100 * time.Millisecond

// ZoneConfig is the standard (non-raw) detection envelope, driven by the
// mmWaveWidth*/mmWaveDepth* config attributes.
type ZoneConfig struct {
	XMin int `json:"x_min"`
	XMax int `json:"x_max"`
	YMin int `json:"y_min"`
	YMax int `json:"y_max"`
}

// DefaultZoneConfig returns the envelope assigned at discovery time.
func DefaultZoneConfig() ZoneConfig {
	return ZoneConfig{XMin: defaultXMin, XMax: defaultXMax, YMin: defaultYMin, YMax: defaultYMax}
}

// ZoneKind identifies which of the three zone lists a zone frame replaces.
type ZoneKind string

// Zone kinds, in raw-frame command-id order.
const (
	ZoneInterference ZoneKind = "interference_zones"
	ZoneDetection    ZoneKind = "detection_zones"
	ZoneStay         ZoneKind = "stay_zones"
)

// Device is one discovered mmWave switch. The registry is the sole owner of
// a record; callers only ever see deep copies.
type Device struct {
	Name              string         `json:"friendly_name"`
	Topic             string         `json:"topic"`
	ZoneConfig        ZoneConfig     `json:"zone_config"`
	InterferenceZones []frame.Zone   `json:"interference_zones"`
	DetectionZones    []frame.Zone   `json:"detection_zones"`
	StayZones         []frame.Zone   `json:"stay_zones"`
	LastConfig        map[string]any `json:"last_config"`

	// LastSeen is wall-clock time, used only for staleness eviction.
	LastSeen time.Time `json:"last_seen"`

	// lastUpdate is the monotonic timestamp used only by the target-frame
	// throttle. Never serialised or copied out.
	lastUpdate time.Time
}

// DeepCopy returns an independent copy of the device so later registry
// mutation cannot race a caller iterating the copy.
func (d *Device) DeepCopy() *Device {
	copied := *d
	copied.InterferenceZones = append([]frame.Zone(nil), d.InterferenceZones...)
	copied.DetectionZones = append([]frame.Zone(nil), d.DetectionZones...)
	copied.StayZones = append([]frame.Zone(nil), d.StayZones...)
	copied.LastConfig = make(map[string]any, len(d.LastConfig))
	for k, v := range d.LastConfig {
		copied.LastConfig[k] = v
	}
	return &copied
}

package frame

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Raw-frame cluster signature. Every vendor raw packet carries these three
// marker bytes at string indices "0", "1", "2" of the JSON object.
const (
	sigByte0 = 29
	sigByte1 = 47
	sigByte2 = 18
)

// Byte-index positions of the frame header fields.
const (
	idxCommandID = 4
	idxCount     = 5
	idxSequence  = 3

	payloadOffset = 6

	targetRecordSize = 9
	zoneRecordSize   = 12

	// maxClaimedRecords bounds slice pre-allocation for the count byte at
	// index "5". The count comes straight off the wire; a frame claiming
	// more records than a Zigbee attribute report can physically carry
	// must fail the truncation guard, not drive an allocation.
	maxClaimedRecords = 64
)

// Command identifiers carried at index "4" of a raw frame.
const (
	CmdTargetInfo        = 1
	CmdInterferenceZones = 2
	CmdDetectionZones    = 3
	CmdStayZones         = 4
)

// discoveryMarkers is the vendor-specific key set that identifies a
// publishing device as a supported mmWave switch. A payload key matches on
// equality or prefix.
var discoveryMarkers = []string{
	"mmWaveVersion",
	"mmwaveControl",
}

// Target is one tracked moving target from a target-info frame.
// DOP is the sensor's "degree of presence" motion-strength value.
type Target struct {
	ID  int `json:"id"`
	X   int `json:"x"`
	Y   int `json:"y"`
	Z   int `json:"z"`
	DOP int `json:"dop"`
}

// Zone is one configured 3-D rectangular region. Inverted or degenerate
// rectangles are preserved as reported; interpretation is the consumer's
// problem.
type Zone struct {
	XMin int `json:"x_min"`
	XMax int `json:"x_max"`
	YMin int `json:"y_min"`
	YMax int `json:"y_max"`
	ZMin int `json:"z_min"`
	ZMax int `json:"z_max"`
}

// IsZero reports whether all six zone values are exactly zero, which the
// device uses to mean "slot not configured". A legitimate zone centred at
// the origin is indistinguishable from an unset slot and is dropped too;
// this is inherited source behaviour, not a bug to fix.
func (z Zone) IsZero() bool {
	return z == Zone{}
}

// ParseObject parses a raw ingest payload into a JSON object.
// It returns false for empty payloads, non-JSON, and JSON that is not an
// object; such messages are dropped by the caller.
func ParseObject(raw []byte) (map[string]any, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// HasDiscoveryMarker reports whether the object contains at least one key
// recognisable as a device-capability marker.
func HasDiscoveryMarker(obj map[string]any) bool {
	for key := range obj {
		for _, marker := range discoveryMarkers {
			if key == marker || strings.HasPrefix(key, marker) {
				return true
			}
		}
	}
	return false
}

// IsRawFrame reports whether the object carries the vendor raw-frame
// cluster signature at indices "0", "1", "2".
func IsRawFrame(obj map[string]any) bool {
	return byteAt(obj, 0) == sigByte0 &&
		byteAt(obj, 1) == sigByte1 &&
		byteAt(obj, 2) == sigByte2
}

// CommandID returns the raw-frame command id (index "4").
func CommandID(obj map[string]any) int {
	return byteAt(obj, idxCommandID)
}

// SequenceNumber returns the frame sequence counter (index "3").
func SequenceNumber(obj map[string]any) int {
	return byteAt(obj, idxSequence)
}

// DecodeTargets decodes a target-info frame (CmdTargetInfo).
//
// Each target occupies nine consecutive indexed bytes starting at offset
// 6+9k: little-endian signed 16-bit x, y, z and dop, then one unsigned id
// byte. If the payload lacks the key for the last required offset of any
// target the whole frame is discarded and ErrTruncated is returned; a frame
// is atomic and never partially emitted.
func DecodeTargets(obj map[string]any) ([]Target, error) {
	count := byteAt(obj, idxCount)
	targets := make([]Target, 0, recordCap(count))
	offset := payloadOffset
	for i := 0; i < count; i++ {
		if !hasIndex(obj, offset+targetRecordSize-1) {
			return nil, ErrTruncated
		}
		targets = append(targets, Target{
			ID:  byteAt(obj, offset+8),
			X:   int16At(obj, offset),
			Y:   int16At(obj, offset+2),
			Z:   int16At(obj, offset+4),
			DOP: int16At(obj, offset+6),
		})
		offset += targetRecordSize
	}
	return targets, nil
}

// DecodeZones decodes a zone frame (CmdInterferenceZones, CmdDetectionZones
// or CmdStayZones; the layout is identical for all three).
//
// Each zone occupies twelve consecutive indexed bytes starting at offset
// 6+12k: six little-endian signed 16-bit values in the order x_min, x_max,
// y_min, y_max, z_min, z_max. All-zero zones are unset slots and dropped;
// everything else is kept verbatim. Truncation follows the same atomic
// all-or-nothing rule as DecodeTargets.
func DecodeZones(obj map[string]any) ([]Zone, error) {
	count := byteAt(obj, idxCount)
	zones := make([]Zone, 0, recordCap(count))
	offset := payloadOffset
	for i := 0; i < count; i++ {
		if !hasIndex(obj, offset+zoneRecordSize-1) {
			return nil, ErrTruncated
		}
		zone := Zone{
			XMin: int16At(obj, offset),
			XMax: int16At(obj, offset+2),
			YMin: int16At(obj, offset+4),
			YMax: int16At(obj, offset+6),
			ZMin: int16At(obj, offset+8),
			ZMax: int16At(obj, offset+10),
		}
		if !zone.IsZero() {
			zones = append(zones, zone)
		}
		offset += zoneRecordSize
	}
	return zones, nil
}

// ConfigFields extracts the semantic (non-byte-indexed) keys of an ingest
// object. A message can carry both a raw frame and semantic fields; both
// branches fire independently.
func ConfigFields(obj map[string]any) map[string]any {
	fields := make(map[string]any)
	for key, value := range obj {
		if !isDecimalIndex(key) {
			fields[key] = value
		}
	}
	return fields
}

// DeviceNameFromTopic extracts the device name from a discovery topic.
// Discovery only fires for topics exactly one path segment below the base
// prefix, so sub-topics like <base>/<name>/get can never mint a device.
func DeviceNameFromTopic(baseTopic, topic string) (string, bool) {
	rest, ok := strings.CutPrefix(topic, baseTopic+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}

// int16At reconstructs the little-endian signed 16-bit value stored at two
// consecutive byte indices: value = (high << 8) | low, two's-complement
// over 16 bits.
func int16At(obj map[string]any, idx int) int {
	low := byteAt(obj, idx)
	high := byteAt(obj, idx+1)
	v := ((high << 8) | low) & 0xFFFF
	if v >= 1<<15 {
		v -= 1 << 16
	}
	return v
}

// byteAt returns the numeric value at a string byte index, or 0 when the
// key is missing or not numeric. Presence is only significant for the
// truncation guard, which uses hasIndex.
func byteAt(obj map[string]any, idx int) int {
	v, ok := obj[strconv.Itoa(idx)]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// recordCap clamps a claimed record count into a sane allocation size.
// The decode loops still iterate the claimed count, so an oversized claim
// hits the truncation guard on its first missing record and the frame is
// discarded; a negative claim decodes to an empty frame.
func recordCap(count int) int {
	if count < 0 {
		return 0
	}
	if count > maxClaimedRecords {
		return maxClaimedRecords
	}
	return count
}

// hasIndex reports whether the string byte index is present in the object.
func hasIndex(obj map[string]any, idx int) bool {
	_, ok := obj[strconv.Itoa(idx)]
	return ok
}

// isDecimalIndex reports whether the key is a pure decimal-string byte
// index ("0", "17", ...).
func isDecimalIndex(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

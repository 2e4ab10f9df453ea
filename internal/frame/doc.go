// Package frame decodes the vendor raw-frame protocol that mmWave switches
// embed inside zigbee2mqtt JSON payloads.
//
// A raw frame is a flat JSON object whose keys are decimal-string byte
// indices ("0", "1", ...). Indices 0-2 carry a fixed cluster signature,
// index 4 the command id, index 5 the element count, and the remainder
// little-endian signed 16-bit fields. The same object may also carry
// ordinary semantic keys (occupancy, mmWaveHoldTime, ...); ConfigFields
// extracts those independently of the raw branch.
//
// All functions are pure: the decoder classifies and extracts, the device
// registry applies. Truncated frames are reported as ErrTruncated and
// dropped whole rather than partially emitted.
package frame

// Package studio is the bridge core between zigbee2mqtt and browser
// sessions.
//
// Inbound, it ingests MQTT traffic from mmWave-equipped switches: device
// discovery, raw sensor frames (target reports and zone lists), and
// semantic attribute reports. Decoded state lands in the device registry
// and fans out to every session as events; raw target frames are throttled
// per device and never stored.
//
// Outbound, it turns session commands into MQTT writes on the selected
// device's /set and /get topics, validating attribute writes against the
// capability schema first. Command routing is strictly per session: a
// command always targets the issuing session's own selected device.
package studio

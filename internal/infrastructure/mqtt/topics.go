package mqtt

import "fmt"

// TopicPrefixSystem is the base for bridge service-status topics. Device
// topics live under the configured zigbee2mqtt base topic instead.
const TopicPrefixSystem = "switchstudio/system"

// Topics provides builders for the MQTT topics the bridge touches.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	topics.DeviceSet("zigbee2mqtt/office_switch")
//	// Returns: "zigbee2mqtt/office_switch/set"
type Topics struct{}

// DeviceWildcard returns the subscription pattern covering every topic
// under the zigbee2mqtt base topic.
//
// Pattern: zigbee2mqtt/#
func (Topics) DeviceWildcard(baseTopic string) string {
	return fmt.Sprintf("%s/#", baseTopic)
}

// DeviceSet returns the write topic for a device.
//
// Example: zigbee2mqtt/office_switch/set
func (Topics) DeviceSet(deviceTopic string) string {
	return fmt.Sprintf("%s/set", deviceTopic)
}

// DeviceGet returns the read-request topic for a device.
//
// Example: zigbee2mqtt/office_switch/get
func (Topics) DeviceGet(deviceTopic string) string {
	return fmt.Sprintf("%s/get", deviceTopic)
}

// SystemStatus returns the bridge status topic, used for the online
// announcement and the Last Will message.
//
// Example: switchstudio/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// All writes are non-blocking: points are batched by the client and
// flushed asynchronously, and every method is a no-op while disconnected
// so telemetry never stalls or fails message handling.

// WriteDeviceMetric records one numeric attribute report, such as an
// illuminance reading or a changed parameter value.
//
//	client.WriteDeviceMetric("office_switch", "illuminance", 412)
func (c *Client) WriteDeviceMetric(deviceID string, measurement string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_metrics",
		map[string]string{
			"device_id":   deviceID,
			"measurement": measurement,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteTargetReport records one decoded radar target frame: how many
// targets the sensor saw and the frame sequence number. Frame contents
// themselves are transient and never stored.
func (c *Client) WriteTargetReport(deviceID string, seq int, targetCount int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"mmwave_targets",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"sequence": seq,
			"count":    targetCount,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteZoneReport records a zone-list replacement: which zone kind was
// rewritten ("interference_zones", "detection_zones" or "stay_zones") and
// how many slots survived decoding.
func (c *Client) WriteZoneReport(deviceID string, kind string, zoneCount int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"mmwave_zones",
		map[string]string{
			"device_id": deviceID,
			"kind":      kind,
		},
		map[string]interface{}{
			"count": zoneCount,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

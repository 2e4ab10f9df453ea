package schema

import "time"

// fallbackReadFields is the conservative /get request body used when no
// manifest could be loaded and the built-in fallback carries no readable
// entries of its own.
var fallbackReadFields = []string{
	"state", "occupancy", "illuminance",
	"mmWaveDepthMax", "mmWaveDepthMin", "mmWaveWidthMax", "mmWaveWidthMin",
	"mmWaveHeightMax", "mmWaveHeightMin", "mmWaveDetectSensitivity",
	"mmWaveDetectTrigger", "mmWaveHoldTime", "mmWaveStayLife",
	"mmWaveRoomSizePreset", "mmWaveTargetInfoReport", "mmWaveVersion",
	"mmwaveControlWiredDevice",
}

// fallbackSchema returns a built-in VZM32-SN capability model covering the
// mmWave presence controls. It keeps the service operational when no
// zigbee2mqtt definition file is available on disk.
func fallbackSchema() *Schema {
	fields := []Field{
		fallbackEnum("mmwaveControlWiredDevice", "Wired Device Control",
			"Controls automatic on/off behavior using presence.",
			[]string{
				"Disabled",
				"Occupancy (default)",
				"Vacancy",
				"Wasteful Occupancy",
				"Mirrored Occupancy",
				"Mirrored Vacancy",
				"Mirrored Wasteful Occupancy",
			}),
		fallbackEnum("mmWaveRoomSizePreset", "Room Preset",
			"Predefined room dimensions for mmWave processing.",
			[]string{"Custom", "Small", "Medium", "Large"}),
		fallbackEnum("mmWaveDetectSensitivity", "Sensitivity",
			"The sensitivity of the mmWave sensor.",
			[]string{"Low", "Medium", "High (default)"}),
		fallbackEnum("mmWaveDetectTrigger", "Trigger Speed",
			"The time from detecting a person to triggering an action.",
			[]string{"Slow (5s)", "Medium (1s)", "Fast (0.2s, default)"}),
		fallbackNumeric("mmWaveHoldTime", "Hold Time",
			"Duration in seconds to hold occupancy after motion stops.", "s", true),
		fallbackNumeric("mmWaveStayLife", "Stay Life",
			"Stationary-presence timing parameter.", "", true),
		fallbackEnum("mmWaveTargetInfoReport", "Target Reporting",
			"Enable raw target report stream when cluster binding is configured.",
			[]string{"Disable (default)", "Enable"}),
		fallbackNumeric("mmWaveVersion", "mmWave Version",
			"Firmware version of the mmWave module.", "", false),
	}

	presence := make([]string, len(presenceFields))
	copy(presence, presenceFields)

	return &Schema{
		Source:         "fallback",
		Model:          "VZM32-SN",
		Vendor:         "Inovelli",
		GeneratedAt:    float64(time.Now().UnixNano()) / float64(time.Second),
		FieldCount:     len(fields),
		OptionCount:    0,
		Fields:         fields,
		Options:        []Field{},
		PresenceFields: presence,
	}
}

func fallbackEnum(name, label, description string, values []string) Field {
	return Field{
		Name:        name,
		Property:    name,
		Label:       label,
		Description: description,
		Type:        TypeEnum,
		Category:    "config",
		Source:      "fallback",
		Access:      accessPublished | accessWrite | accessRead,
		CanRead:     true,
		CanWrite:    true,
		Values:      values,
		Presets:     []any{},
		Features:    []Field{},
		Tab:         "Presence",
		Section:     "Presence Controls",
	}
}

func fallbackNumeric(name, label, description, unit string, writable bool) Field {
	var (
		min  float64 = 0
		max  float64 = 4294967295
		step float64 = 1
	)
	access := accessPublished | accessRead
	category := "none"
	section := "Presence Diagnostics"
	if writable {
		access |= accessWrite
		category = "config"
		section = "Presence Controls"
	}
	return Field{
		Name:        name,
		Property:    name,
		Label:       label,
		Description: description,
		Type:        TypeNumeric,
		Category:    category,
		Source:      "fallback",
		Access:      access,
		CanRead:     true,
		CanWrite:    writable,
		ValueMin:    &min,
		ValueMax:    &max,
		ValueStep:   &step,
		Unit:        unit,
		Values:      []string{},
		Presets:     []any{},
		Features:    []Field{},
		Tab:         "Presence",
		Section:     section,
	}
}

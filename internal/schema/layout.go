package schema

import "strings"

// UI layout inference. Tab and section assignments follow the grouping the
// frontend renders; fields that match nothing land under Advanced.

var liveFieldNames = map[string]struct{}{
	"occupancy": {}, "illuminance": {}, "power": {}, "voltage": {},
	"current": {}, "energy": {}, "action": {}, "linkquality": {},
	"area1occupancy": {}, "area2occupancy": {}, "area3occupancy": {}, "area4occupancy": {},
}

var loadDimmingKeywords = []string{
	"dimming", "ramprate", "defaultlevel", "minimumlevel", "maximumlevel",
	"outputmode", "quickstart", "autotimeroff", "stateafterpowerrestored",
	"loadlevelindicatortimeout", "switchtype", "invertswitch", "smartbulbmode",
	"bindingofftoonsynclevel", "higheroutputinnonneutral",
}

var buttonSceneKeywords = []string{
	"tap", "button", "scene", "aux", "multitap", "doubletap", "singletap", "held", "delay",
}

var powerDeviceNames = map[string]struct{}{
	"identify": {}, "energy_reset": {}, "otaimagetype": {}, "localprotection": {},
	"remoteprotection": {}, "powertype": {}, "internaltemperature": {}, "overheat": {},
	"devicebindnumber": {}, "activepowerreports": {}, "periodicpowerandenergyreports": {},
	"activeenergyreports": {}, "fancontrolmode": {}, "fantimermode": {},
	"lowlevelforfancontrolmode": {}, "mediumlevelforfancontrolmode": {},
	"highlevelforfancontrolmode": {},
}

var runtimeOptionKeywords = []string{
	"calibration", "precision", "transition", "identify_timeout",
	"state_action", "illuminance_raw", "no_occupancy_since",
}

func inferTab(name, category string) string {
	if name == "" {
		return "Advanced"
	}
	lname := strings.ToLower(name)

	if strings.Contains(lname, "mmwave") {
		if strings.HasSuffix(lname, "_areas") || lname == "mmwave_control_commands" {
			return "Zones"
		}
		if strings.HasSuffix(lname, "occupancy") {
			return "Live"
		}
		return "Presence"
	}

	if _, live := liveFieldNames[lname]; live {
		return "Live"
	}
	if containsAny(lname, loadDimmingKeywords) {
		return "Load & Dimming"
	}
	if strings.Contains(lname, "led") || strings.Contains(lname, "notification") ||
		lname == "firmwareupdateinprogressindicator" {
		return "LED & Notifications"
	}
	if containsAny(lname, buttonSceneKeywords) {
		return "Buttons & Scenes"
	}
	if _, pd := powerDeviceNames[lname]; pd {
		return "Power & Device"
	}
	if containsAny(lname, runtimeOptionKeywords) {
		return "Power & Device"
	}
	if strings.EqualFold(category, "diagnostic") {
		return "Live"
	}
	return "Advanced"
}

func inferSection(name, category string) string {
	tab := inferTab(name, category)
	lname := strings.ToLower(name)

	switch tab {
	case "Presence":
		if name == "mmWaveVersion" {
			return "Presence Diagnostics"
		}
		return "Presence Controls"
	case "Zones":
		return "Zone Definitions"
	case "Live":
		if lname == "action" || lname == "linkquality" {
			return "Live Diagnostics"
		}
		return "Live Sensors"
	case "Load & Dimming":
		return "Load Behavior & Dimming"
	case "LED & Notifications":
		return "LED Effects & Notifications"
	case "Buttons & Scenes":
		return "Buttons & Scene Behavior"
	case "Power & Device":
		if lname == "identify" || lname == "energy_reset" {
			return "Device Actions"
		}
		if strings.EqualFold(category, "diagnostic") ||
			lname == "internaltemperature" || lname == "overheat" || lname == "devicebindnumber" {
			return "Diagnostics"
		}
		if containsAny(lname, runtimeOptionKeywords) {
			return "Runtime Options"
		}
		return "Power & Device Settings"
	}
	return "Advanced"
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

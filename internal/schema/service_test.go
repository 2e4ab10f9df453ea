package schema

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type testLogger struct{}

func (testLogger) Info(string, ...any) {}
func (testLogger) Warn(string, ...any) {}

func newFallbackService(t *testing.T) *Service {
	t.Helper()
	return New(nil, testLogger{})
}

func writeManifest(t *testing.T, m map[string]any) string {
	t.Helper()
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}
	path := filepath.Join(t.TempDir(), "definition.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestNewUsesFallbackWhenNoPathReadable(t *testing.T) {
	svc := New([]string{"", "/nonexistent/definition.json"}, testLogger{})

	sch := svc.Schema()
	if sch.Source != "fallback" {
		t.Fatalf("source = %q, want fallback", sch.Source)
	}
	if sch.FieldCount != 8 {
		t.Fatalf("field count = %d, want 8", sch.FieldCount)
	}
	if _, ok := svc.Field("mmWaveHoldTime"); !ok {
		t.Fatal("fallback schema missing mmWaveHoldTime")
	}
}

func TestNewLoadsManifestFromDisk(t *testing.T) {
	path := writeManifest(t, map[string]any{
		"model":  "VZM32-SN",
		"vendor": "Inovelli",
		"exposes": []map[string]any{
			{
				"name":       "mmWaveHoldTime",
				"type":       "numeric",
				"access":     7,
				"value_min":  0,
				"value_max":  4294967295,
				"value_step": 1,
			},
			{
				"name":   "mmWaveVersion",
				"type":   "numeric",
				"access": 5,
			},
		},
	})

	svc := New([]string{path}, testLogger{})
	sch := svc.Schema()
	if sch.Source != "zigbee2mqtt_definition" {
		t.Fatalf("source = %q", sch.Source)
	}
	if sch.Model != "VZM32-SN" {
		t.Fatalf("model = %q", sch.Model)
	}

	hold, ok := svc.Field("mmWaveHoldTime")
	if !ok {
		t.Fatal("mmWaveHoldTime not loaded")
	}
	if !hold.CanRead || !hold.CanWrite {
		t.Fatalf("access bits wrong: can_read=%v can_write=%v", hold.CanRead, hold.CanWrite)
	}
	if hold.Tab != "Presence" || hold.Section != "Presence Controls" {
		t.Fatalf("layout = %q/%q", hold.Tab, hold.Section)
	}

	version, ok := svc.Field("mmWaveVersion")
	if !ok {
		t.Fatal("mmWaveVersion not loaded")
	}
	if version.CanWrite {
		t.Fatal("mmWaveVersion should be read-only")
	}
	if version.Section != "Presence Diagnostics" {
		t.Fatalf("mmWaveVersion section = %q", version.Section)
	}
}

func TestValidateNumericBounds(t *testing.T) {
	svc := newFallbackService(t)

	cases := []struct {
		name    string
		value   any
		want    int64
		wantErr error
	}{
		{"in range", float64(30), 30, nil},
		{"numeric string", "120", 120, nil},
		{"rounds float", 10.6, 11, nil},
		{"at min", float64(0), 0, nil},
		{"at max", float64(4294967295), 4294967295, nil},
		{"below min", float64(-1), 0, ErrBelowMin},
		{"above max", float64(4294967296), 0, ErrAboveMax},
		{"not a number", "soon", 0, ErrNotNumeric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, unknown, err := svc.Validate("mmWaveHoldTime", tc.value)
			if unknown {
				t.Fatal("mmWaveHoldTime reported unknown")
			}
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("normalized = %v (%T), want %v", got, got, tc.want)
			}
		})
	}
}

func TestValidateEnumExactMatch(t *testing.T) {
	svc := newFallbackService(t)

	got, unknown, err := svc.Validate("mmWaveDetectSensitivity", "High (default)")
	if err != nil || unknown {
		t.Fatalf("valid enum rejected: err=%v unknown=%v", err, unknown)
	}
	if got != "High (default)" {
		t.Fatalf("normalized = %v", got)
	}

	if _, _, err := svc.Validate("mmWaveDetectSensitivity", "high (default)"); !errors.Is(err, ErrNotEnum) {
		t.Fatalf("case-mismatched enum accepted: err=%v", err)
	}
	if _, _, err := svc.Validate("mmWaveDetectSensitivity", 2); !errors.Is(err, ErrNotEnum) {
		t.Fatalf("non-string enum accepted: err=%v", err)
	}
}

func TestValidateUnknownFieldPassesThrough(t *testing.T) {
	svc := newFallbackService(t)

	got, unknown, err := svc.Validate("someFutureFirmwareKnob", "whatever")
	if err != nil {
		t.Fatalf("unknown field rejected: %v", err)
	}
	if !unknown {
		t.Fatal("unknown flag not set")
	}
	if got != "whatever" {
		t.Fatalf("value mutated: %v", got)
	}
}

func TestValidateReadOnlyRejected(t *testing.T) {
	svc := newFallbackService(t)

	if _, _, err := svc.Validate("mmWaveVersion", 3); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("read-only write accepted: err=%v", err)
	}
}

func TestValidateBinaryTokens(t *testing.T) {
	path := writeManifest(t, map[string]any{
		"model": "VZM32-SN",
		"exposes": []map[string]any{
			{
				"name":      "ledBar",
				"type":      "binary",
				"access":    7,
				"value_on":  "ON",
				"value_off": "OFF",
			},
		},
	})
	svc := New([]string{path}, testLogger{})

	for _, token := range []string{"true", "1", "on", "YES"} {
		got, _, err := svc.Validate("ledBar", token)
		if err != nil {
			t.Fatalf("token %q rejected: %v", token, err)
		}
		if got != "ON" {
			t.Fatalf("token %q normalized to %v, want ON", token, got)
		}
	}
	for _, token := range []string{"false", "0", "off", "No"} {
		got, _, err := svc.Validate("ledBar", token)
		if err != nil {
			t.Fatalf("token %q rejected: %v", token, err)
		}
		if got != "OFF" {
			t.Fatalf("token %q normalized to %v, want OFF", token, got)
		}
	}

	if got, _, err := svc.Validate("ledBar", true); err != nil || got != true {
		t.Fatalf("bool true: got=%v err=%v", got, err)
	}
	if _, _, err := svc.Validate("ledBar", "sideways"); !errors.Is(err, ErrNotBinary) {
		t.Fatalf("bad binary token accepted: err=%v", err)
	}
}

func TestFullReadPayloadListsReadableFields(t *testing.T) {
	svc := newFallbackService(t)

	payload := svc.FullReadPayload()
	for _, name := range []string{
		"mmWaveHoldTime", "mmWaveVersion", "mmWaveTargetInfoReport",
		"state", "brightness",
	} {
		v, ok := payload[name]
		if !ok {
			t.Fatalf("payload missing %q", name)
		}
		if v != "" {
			t.Fatalf("payload[%q] = %v, want empty placeholder", name, v)
		}
	}
}

func TestResolveEnumToken(t *testing.T) {
	svc := newFallbackService(t)

	if got := svc.ResolveEnumToken("mmWaveTargetInfoReport", true); got != "Enable" {
		t.Fatalf("enable token = %q", got)
	}
	// "Disable (default)" contains "enable" as a substring; the disable
	// check must win.
	if got := svc.ResolveEnumToken("mmWaveTargetInfoReport", false); got != "Disable (default)" {
		t.Fatalf("disable token = %q", got)
	}

	if got := svc.ResolveEnumToken("noSuchField", true); got != "Enable" {
		t.Fatalf("missing-field enable literal = %q", got)
	}
	if got := svc.ResolveEnumToken("noSuchField", false); got != "Disable (default)" {
		t.Fatalf("missing-field disable literal = %q", got)
	}
}

func TestInferTabGrouping(t *testing.T) {
	cases := []struct {
		name     string
		category string
		want     string
	}{
		{"mmWaveHoldTime", "config", "Presence"},
		{"mmwave_interference_areas", "", "Zones"},
		{"occupancy", "", "Live"},
		{"dimmingSpeedUpRemote", "config", "Load & Dimming"},
		{"ledColorWhenOn", "config", "LED & Notifications"},
		{"buttonDelay", "config", "Buttons & Scenes"},
		{"internalTemperature", "diagnostic", "Power & Device"},
		{"somethingObscure", "", "Advanced"},
	}
	for _, tc := range cases {
		if got := inferTab(tc.name, tc.category); got != tc.want {
			t.Errorf("inferTab(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

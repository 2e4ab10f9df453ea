package device

import (
	"testing"
	"time"

	"github.com/nerrad567/switch-studio-core/internal/frame"
)

const testTopic = "zigbee2mqtt/Bedroom Light Control"

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	if created := r.Discover("Bedroom Light Control", testTopic); !created {
		t.Fatal("expected first Discover to create the device")
	}
	return r
}

func TestDiscoverCreatesOnce(t *testing.T) {
	r := newTestRegistry(t)

	if created := r.Discover("Bedroom Light Control", testTopic); created {
		t.Error("second Discover must not report creation")
	}
	if r.Count() != 1 {
		t.Errorf("Count = %d, want 1", r.Count())
	}

	d, ok := r.SnapshotByTopic(testTopic)
	if !ok {
		t.Fatal("SnapshotByTopic: device missing")
	}
	if d.ZoneConfig != DefaultZoneConfig() {
		t.Errorf("zone config = %+v, want default", d.ZoneConfig)
	}
	if d.InterferenceZones == nil || d.DetectionZones == nil || d.StayZones == nil {
		t.Error("zone lists must be initialised empty, not nil")
	}
}

func TestLookupTopicExactOnly(t *testing.T) {
	r := newTestRegistry(t)

	if _, ok := r.LookupTopic(testTopic); !ok {
		t.Error("exact base topic must resolve")
	}
	if _, ok := r.LookupTopic(testTopic + "/get"); ok {
		t.Error("/get sub-topic must not resolve to the device")
	}
	if _, ok := r.LookupTopic(testTopic + "/set"); ok {
		t.Error("/set sub-topic must not resolve to the device")
	}
}

func TestAcceptTargetFrameThrottle(t *testing.T) {
	r := newTestRegistry(t)

	if !r.AcceptTargetFrame("Bedroom Light Control") {
		t.Fatal("first frame must be accepted")
	}
	if r.AcceptTargetFrame("Bedroom Light Control") {
		t.Error("frame inside the 100ms window must be rejected")
	}

	time.Sleep(110 * time.Millisecond)
	if !r.AcceptTargetFrame("Bedroom Light Control") {
		t.Error("frame after the window must be accepted")
	}

	if r.AcceptTargetFrame("unknown") {
		t.Error("unknown device must be rejected")
	}
}

func TestApplyZoneFrameReplacesWholesale(t *testing.T) {
	r := newTestRegistry(t)

	first := []frame.Zone{{XMin: 1, XMax: 2, YMin: 3, YMax: 4}}
	if !r.ApplyZoneFrame("Bedroom Light Control", ZoneDetection, first) {
		t.Fatal("ApplyZoneFrame failed for known device")
	}

	second := []frame.Zone{
		{XMin: 20, XMax: 111, YMax: 107, ZMin: -11, ZMax: 300},
	}
	r.ApplyZoneFrame("Bedroom Light Control", ZoneDetection, second)

	d, _ := r.SnapshotByTopic(testTopic)
	if len(d.DetectionZones) != 1 || d.DetectionZones[0] != second[0] {
		t.Errorf("detection zones = %v, want wholesale replacement %v", d.DetectionZones, second)
	}
	if len(d.InterferenceZones) != 0 || len(d.StayZones) != 0 {
		t.Error("other zone kinds must be untouched")
	}
}

func TestApplyConfigUpdatePartialZoneConfig(t *testing.T) {
	r := newTestRegistry(t)

	zc, changed, ok := r.ApplyConfigUpdate("Bedroom Light Control", map[string]any{
		"mmWaveWidthMin": "20",
		"mmWaveDepthMax": "220",
	})
	if !ok || !changed {
		t.Fatalf("ok=%v changed=%v, want true/true", ok, changed)
	}
	want := ZoneConfig{XMin: 20, XMax: 400, YMin: 0, YMax: 220}
	if zc != want {
		t.Errorf("zone config = %+v, want %+v (only two components updated)", zc, want)
	}
}

func TestApplyConfigUpdateUnparseableFieldIsNoOp(t *testing.T) {
	r := newTestRegistry(t)

	zc, changed, ok := r.ApplyConfigUpdate("Bedroom Light Control", map[string]any{
		"mmWaveWidthMin": "",
		"mmWaveWidthMax": "not-a-number",
		"occupancy":      true,
	})
	if !ok {
		t.Fatal("update must succeed for known device")
	}
	if changed {
		t.Error("unparseable envelope values must not report a zone change")
	}
	if zc != DefaultZoneConfig() {
		t.Errorf("zone config = %+v, want default untouched", zc)
	}

	d, _ := r.SnapshotByTopic(testTopic)
	if d.LastConfig["occupancy"] != true {
		t.Error("semantic fields must still merge into last config")
	}
	if d.LastConfig["mmWaveWidthMax"] != "not-a-number" {
		t.Error("unparseable values still merge into last config verbatim")
	}
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	r := newTestRegistry(t)
	r.ApplyZoneFrame("Bedroom Light Control", ZoneStay, []frame.Zone{{XMax: 9}})

	snap := r.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("snapshot length = %d, want 1", len(snap))
	}
	snap[0].StayZones[0].XMax = 12345
	snap[0].LastConfig["poisoned"] = true

	d, _ := r.SnapshotByTopic(testTopic)
	if d.StayZones[0].XMax != 9 {
		t.Error("mutating a snapshot must not affect the registry record")
	}
	if _, found := d.LastConfig["poisoned"]; found {
		t.Error("mutating a snapshot config must not affect the registry record")
	}
}

func TestSweepStale(t *testing.T) {
	r := newTestRegistry(t)
	r.Discover("Other Switch", "zigbee2mqtt/Other Switch")

	time.Sleep(20 * time.Millisecond)
	r.Touch("Other Switch")

	removed := r.SweepStale(10 * time.Millisecond)
	if len(removed) != 1 || removed[0] != "Bedroom Light Control" {
		t.Fatalf("removed = %v, want only the silent device", removed)
	}
	if r.Count() != 1 {
		t.Errorf("Count = %d, want 1", r.Count())
	}

	if removed := r.SweepStale(time.Hour); len(removed) != 0 {
		t.Errorf("nothing should be stale within an hour, removed %v", removed)
	}
}

func TestAsInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
		ok   bool
	}{
		{10, 10, true},
		{float64(10.9), 10, true},
		{" 55 ", 55, true},
		{"12.7", 12, true},
		{"-40", -40, true},
		{"", 0, false},
		{"nan-value", 0, false},
		{true, 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := asInt(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("asInt(%#v) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

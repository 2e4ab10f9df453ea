package session

import "testing"

func TestSelectAndCurrentTopic(t *testing.T) {
	r := NewRouter()
	r.Connect("a")
	r.Connect("b")

	r.Select("a", "zigbee2mqtt/device_a")
	r.Select("b", "zigbee2mqtt/device_b")

	if topic, ok := r.CurrentTopic("a"); !ok || topic != "zigbee2mqtt/device_a" {
		t.Errorf("session a topic = (%q, %v)", topic, ok)
	}
	if topic, ok := r.CurrentTopic("b"); !ok || topic != "zigbee2mqtt/device_b" {
		t.Errorf("session b topic = (%q, %v)", topic, ok)
	}

	// Clearing one session must not affect the other.
	r.Select("a", "")
	if _, ok := r.CurrentTopic("a"); ok {
		t.Error("cleared session must report no topic")
	}
	if _, ok := r.CurrentTopic("b"); !ok {
		t.Error("session b must keep its selection")
	}
}

func TestCurrentTopicUnknownSession(t *testing.T) {
	r := NewRouter()
	if _, ok := r.CurrentTopic("ghost"); ok {
		t.Error("unknown session must report no topic")
	}
	// Select on an unknown session is a no-op, not a create.
	r.Select("ghost", "zigbee2mqtt/x")
	if r.Count() != 0 {
		t.Error("Select must not create sessions")
	}
}

func TestDisconnectReturnsStateAtomically(t *testing.T) {
	r := NewRouter()
	r.Connect("a")
	r.Select("a", "zigbee2mqtt/shared")
	r.SetAutoOff("a", true)

	topic, autoOff := r.Disconnect("a")
	if topic != "zigbee2mqtt/shared" || !autoOff {
		t.Errorf("Disconnect = (%q, %v), want topic and auto-off", topic, autoOff)
	}
	if r.Count() != 0 {
		t.Error("session must be removed")
	}

	// Second disconnect for the same id is a clean miss.
	if topic, autoOff := r.Disconnect("a"); topic != "" || autoOff {
		t.Errorf("repeat Disconnect = (%q, %v), want empty", topic, autoOff)
	}
}

func TestAnyOtherOnTopic(t *testing.T) {
	r := NewRouter()
	r.Connect("a")
	r.Connect("b")
	r.Select("a", "zigbee2mqtt/shared")
	r.Select("b", "zigbee2mqtt/shared")

	if !r.AnyOtherOnTopic("zigbee2mqtt/shared", "a") {
		t.Error("b still watches the topic")
	}

	r.Disconnect("b")
	if r.AnyOtherOnTopic("zigbee2mqtt/shared", "a") {
		t.Error("no other watcher remains")
	}
	if r.AnyOtherOnTopic("zigbee2mqtt/other", "") {
		t.Error("nobody watches an unselected topic")
	}
}

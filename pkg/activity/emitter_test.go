package activity

import (
	"context"
	"testing"
)

func TestEmitterDefaultsChannel(t *testing.T) {
	capture := &CaptureHook{}
	em := NewEmitter(Hooks{capture}, Config{Enabled: true})
	if !em.Enabled() {
		t.Fatalf("expected emitter enabled")
	}
	if err := em.Emit(context.Background(), Event{Verb: "dashboard.delete", ObjectType: "campaign", ObjectID: "CAM-1001"}); err != nil {
		t.Fatalf("emit returned error: %v", err)
	}
	events := capture.Snapshot()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Channel != "dashboard" {
		t.Fatalf("expected default channel dashboard, got %q", events[0].Channel)
	}
}

func TestEmitterKeepsExplicitChannel(t *testing.T) {
	capture := &CaptureHook{}
	em := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "ops"})
	_ = em.Emit(context.Background(), Event{Verb: "dashboard.toggle", Channel: "admin"})
	_ = em.Emit(context.Background(), Event{Verb: "dashboard.toggle"})
	events := capture.Snapshot()
	if events[0].Channel != "admin" || events[1].Channel != "ops" {
		t.Fatalf("unexpected channels %q %q", events[0].Channel, events[1].Channel)
	}
}

func TestEmitterDisabled(t *testing.T) {
	if NewEmitter(nil, Config{Enabled: true}).Enabled() {
		t.Fatalf("expected emitter disabled without hooks")
	}
	capture := &CaptureHook{}
	em := NewEmitter(Hooks{capture}, Config{})
	if err := em.Emit(context.Background(), Event{Verb: "dashboard.delete"}); err != nil {
		t.Fatalf("emit returned error: %v", err)
	}
	if len(capture.Snapshot()) != 0 {
		t.Fatalf("expected disabled emitter to drop events")
	}
	var nilEmitter *Emitter
	if nilEmitter.Enabled() {
		t.Fatalf("nil emitter must be disabled")
	}
}

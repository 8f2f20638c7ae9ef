package activity

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// Hook receives normalized activity events.
type Hook interface {
	Notify(ctx context.Context, evt Event) error
}

// HookFunc adapts a function into a Hook.
type HookFunc func(ctx context.Context, evt Event) error

// Notify implements Hook.
func (f HookFunc) Notify(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

// Hooks fans an event out to every hook.
type Hooks []Hook

// Notify normalizes evt and delivers it to each hook. Events without a verb
// are dropped. Hook errors are joined; one failing hook does not stop the rest.
func (h Hooks) Notify(ctx context.Context, evt Event) error {
	evt = NormalizeEvent(evt)
	if evt.Verb == "" {
		return nil
	}
	var errs []error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CaptureHook records events in memory.
type CaptureHook struct {
	mu     sync.Mutex
	Events []Event
}

// Notify implements Hook.
func (c *CaptureHook) Notify(_ context.Context, evt Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Events = append(c.Events, evt)
	return nil
}

// Snapshot returns a copy of the captured events.
func (c *CaptureHook) Snapshot() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.Events...)
}

// LoggerHook writes events to a logrus logger.
type LoggerHook struct {
	Logger logrus.FieldLogger
}

// Notify implements Hook.
func (h LoggerHook) Notify(_ context.Context, evt Event) error {
	logger := h.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	fields := logrus.Fields{
		"verb":        evt.Verb,
		"object_type": evt.ObjectType,
		"object_id":   evt.ObjectID,
		"channel":     evt.Channel,
	}
	if evt.ActorID != "" {
		fields["actor_id"] = evt.ActorID
	}
	for key, value := range evt.Metadata {
		if _, taken := fields[key]; !taken {
			fields[key] = value
		}
	}
	logger.WithFields(fields).Info("activity")
	return nil
}

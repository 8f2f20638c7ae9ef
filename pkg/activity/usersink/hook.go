// Package usersink forwards dashboard activity into go-users activity records.
package usersink

import (
	"context"
	"errors"
	"maps"
	"slices"

	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-commsdash/pkg/activity"
)

// Sink persists activity records.
type Sink interface {
	Log(ctx context.Context, record types.ActivityRecord) error
}

// Hook adapts a Sink into an activity.Hook.
type Hook struct {
	Sink Sink
}

var errNoSink = errors.New("usersink: sink is required")

// Notify implements activity.Hook.
func (h Hook) Notify(ctx context.Context, evt activity.Event) error {
	evt = activity.NormalizeEvent(evt)
	if evt.Verb == "" {
		return nil
	}
	if h.Sink == nil {
		return errNoSink
	}
	return h.Sink.Log(ctx, Record(evt))
}

// Record maps an event onto an activity record. Identifiers that are not
// UUIDs are left as uuid.Nil.
func Record(evt activity.Event) types.ActivityRecord {
	data := make(map[string]any, len(evt.Metadata)+2)
	maps.Copy(data, evt.Metadata)
	if evt.DefinitionCode != "" {
		data["definition_code"] = evt.DefinitionCode
	}
	if len(evt.Recipients) > 0 {
		data["recipients"] = slices.Clone(evt.Recipients)
	}
	return types.ActivityRecord{
		ActorID:    parseUUID(evt.ActorID),
		UserID:     parseUUID(evt.UserID),
		TenantID:   parseUUID(evt.TenantID),
		Verb:       evt.Verb,
		ObjectType: evt.ObjectType,
		ObjectID:   evt.ObjectID,
		Channel:    evt.Channel,
		Data:       data,
		OccurredAt: evt.OccurredAt,
	}
}

func parseUUID(value string) uuid.UUID {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// LogSink writes records through logrus. It stands in for a go-users
// activity repository when none is configured.
type LogSink struct {
	Logger logrus.FieldLogger
}

// Log implements Sink.
func (s LogSink) Log(_ context.Context, record types.ActivityRecord) error {
	logger := s.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	fields := logrus.Fields{
		"verb":        record.Verb,
		"object_type": record.ObjectType,
		"object_id":   record.ObjectID,
		"channel":     record.Channel,
		"occurred_at": record.OccurredAt,
	}
	if record.ActorID != uuid.Nil {
		fields["actor_id"] = record.ActorID.String()
	}
	for key, value := range record.Data {
		if _, taken := fields[key]; !taken {
			fields[key] = value
		}
	}
	logger.WithFields(fields).Info("activity record")
	return nil
}

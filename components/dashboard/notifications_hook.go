package dashboard

import (
	"context"
	"slices"

	"github.com/sirupsen/logrus"
)

// NotificationsClient publishes view events to an external notifications system.
type NotificationsClient interface {
	PublishDashboardEvent(ctx context.Context, channel string, event ViewEvent) error
}

// NotificationsHook forwards selected view events to a notifications client.
// With no States it forwards failures only.
type NotificationsHook struct {
	Client  NotificationsClient
	Channel string
	States  []ViewState
}

// ViewUpdated implements RefreshHook.
func (h *NotificationsHook) ViewUpdated(ctx context.Context, event ViewEvent) error {
	if h == nil || h.Client == nil {
		return nil
	}
	states := h.States
	if len(states) == 0 {
		states = []ViewState{StateFailed}
	}
	if !slices.Contains(states, event.State) {
		return nil
	}
	channel := h.Channel
	if channel == "" {
		channel = "ops"
	}
	return h.Client.PublishDashboardEvent(ctx, channel, event)
}

// LogNotifications writes notifications as warnings.
type LogNotifications struct {
	Logger logrus.FieldLogger
}

// PublishDashboardEvent implements NotificationsClient.
func (n LogNotifications) PublishDashboardEvent(_ context.Context, channel string, event ViewEvent) error {
	logger := n.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger.WithFields(logrus.Fields{
		"channel":    channel,
		"session_id": event.SessionID,
		"view":       event.View,
		"reason":     event.Reason,
		"state":      event.State,
	}).Warn("dashboard view notification")
	return nil
}

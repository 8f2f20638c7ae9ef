package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-commsdash/components/dashboard"
)

type filterService interface {
	ApplyFilters(ctx context.Context, sessionID, view string, selections dashboard.Selections, query string) (dashboard.ViewSnapshot, error)
}

// ApplyFiltersInput replaces the categorical selections and query of a view.
type ApplyFiltersInput struct {
	SessionID  string                  `json:"session_id"`
	View       string                  `json:"view"`
	Selections dashboard.Selections    `json:"selections"`
	Query      string                  `json:"query"`
	Result     *dashboard.ViewSnapshot `json:"-"`
}

// ApplyFiltersCommand wraps Service.ApplyFilters.
type ApplyFiltersCommand struct {
	service   filterService
	telemetry Telemetry
}

// NewApplyFiltersCommand builds a command instance.
func NewApplyFiltersCommand(service filterService, telemetry Telemetry) *ApplyFiltersCommand {
	return &ApplyFiltersCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ApplyFiltersInput] = (*ApplyFiltersCommand)(nil)

// Execute applies the filters.
func (c *ApplyFiltersCommand) Execute(ctx context.Context, msg ApplyFiltersInput) error {
	if c.service == nil {
		return errors.New("filter command requires service")
	}
	if msg.View == "" {
		return errors.New("filter command requires view")
	}
	snap, err := c.service.ApplyFilters(ctx, msg.SessionID, msg.View, msg.Selections, msg.Query)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = snap
	}
	c.telemetry.Record(ctx, "dashboard.command.filter", map[string]any{
		"session_id": msg.SessionID,
		"view":       msg.View,
		"count":      snap.Count,
	})
	return nil
}

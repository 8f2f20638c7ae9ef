package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-commsdash/components/dashboard"
)

type recordService interface {
	DeleteRecord(ctx context.Context, sessionID, view, id string, confirmed bool) (dashboard.Record, error)
	ToggleRecord(ctx context.Context, sessionID, view, id string) (dashboard.Record, error)
}

// RecordRef points at one record of a mounted view.
type RecordRef struct {
	SessionID string `json:"session_id"`
	View      string `json:"view"`
	ID        string `json:"id"`
}

func (r RecordRef) validate(command string) error {
	if r.View == "" || r.ID == "" {
		return errors.New(command + " command requires view and record id")
	}
	return nil
}

// DeleteRecordInput removes a record. Without Confirmed the command fails
// with a *dashboard.ConfirmationError carrying the prompt.
type DeleteRecordInput struct {
	RecordRef
	Actor
	Confirmed bool              `json:"confirmed"`
	Result    *dashboard.Record `json:"-"`
}

// DeleteRecordCommand wraps Service.DeleteRecord.
type DeleteRecordCommand struct {
	service   recordService
	telemetry Telemetry
}

// NewDeleteRecordCommand builds a command instance.
func NewDeleteRecordCommand(service recordService, telemetry Telemetry) *DeleteRecordCommand {
	return &DeleteRecordCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DeleteRecordInput] = (*DeleteRecordCommand)(nil)

// Execute deletes the record.
func (c *DeleteRecordCommand) Execute(ctx context.Context, msg DeleteRecordInput) error {
	if c.service == nil {
		return errors.New("delete command requires service")
	}
	if err := msg.validate("delete"); err != nil {
		return err
	}
	record, err := c.service.DeleteRecord(msg.Actor.bind(ctx), msg.SessionID, msg.View, msg.ID, msg.Confirmed)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = record
	}
	c.telemetry.Record(ctx, "dashboard.command.delete", map[string]any{
		"view":      msg.View,
		"record_id": msg.ID,
	})
	return nil
}

// ToggleRecordInput flips the toggle field of a record.
type ToggleRecordInput struct {
	RecordRef
	Actor
	Result *dashboard.Record `json:"-"`
}

// ToggleRecordCommand wraps Service.ToggleRecord.
type ToggleRecordCommand struct {
	service   recordService
	telemetry Telemetry
}

// NewToggleRecordCommand builds a command instance.
func NewToggleRecordCommand(service recordService, telemetry Telemetry) *ToggleRecordCommand {
	return &ToggleRecordCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleRecordInput] = (*ToggleRecordCommand)(nil)

// Execute toggles the record.
func (c *ToggleRecordCommand) Execute(ctx context.Context, msg ToggleRecordInput) error {
	if c.service == nil {
		return errors.New("toggle command requires service")
	}
	if err := msg.validate("toggle"); err != nil {
		return err
	}
	record, err := c.service.ToggleRecord(msg.Actor.bind(ctx), msg.SessionID, msg.View, msg.ID)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = record
	}
	c.telemetry.Record(ctx, "dashboard.command.toggle", map[string]any{
		"view":      msg.View,
		"record_id": msg.ID,
	})
	return nil
}

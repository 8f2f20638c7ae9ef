package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-commsdash/components/dashboard"
)

type sessionService interface {
	OpenSession(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.SessionInfo, error)
	CloseSession(ctx context.Context, sessionID string) error
}

// OpenSessionInput starts a session. Result receives the session when set.
type OpenSessionInput struct {
	Viewer dashboard.ViewerContext `json:"viewer"`
	Result *dashboard.SessionInfo  `json:"-"`
}

// OpenSessionCommand wraps Service.OpenSession.
type OpenSessionCommand struct {
	service   sessionService
	telemetry Telemetry
}

// NewOpenSessionCommand builds a command instance.
func NewOpenSessionCommand(service sessionService, telemetry Telemetry) *OpenSessionCommand {
	return &OpenSessionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[OpenSessionInput] = (*OpenSessionCommand)(nil)

// Execute opens the session.
func (c *OpenSessionCommand) Execute(ctx context.Context, msg OpenSessionInput) error {
	if c.service == nil {
		return errors.New("open session command requires service")
	}
	info, err := c.service.OpenSession(ctx, msg.Viewer)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = info
	}
	c.telemetry.Record(ctx, "dashboard.command.session_open", map[string]any{"session_id": info.ID})
	return nil
}

// CloseSessionInput names the session to tear down.
type CloseSessionInput struct {
	SessionID string `json:"session_id"`
}

// CloseSessionCommand wraps Service.CloseSession.
type CloseSessionCommand struct {
	service   sessionService
	telemetry Telemetry
}

// NewCloseSessionCommand builds a command instance.
func NewCloseSessionCommand(service sessionService, telemetry Telemetry) *CloseSessionCommand {
	return &CloseSessionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CloseSessionInput] = (*CloseSessionCommand)(nil)

// Execute closes the session.
func (c *CloseSessionCommand) Execute(ctx context.Context, msg CloseSessionInput) error {
	if c.service == nil {
		return errors.New("close session command requires service")
	}
	if msg.SessionID == "" {
		return errors.New("close session command requires session id")
	}
	if err := c.service.CloseSession(ctx, msg.SessionID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.session_close", map[string]any{"session_id": msg.SessionID})
	return nil
}

package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-commsdash/components/dashboard"
)

type sectionService interface {
	OpenSection(ctx context.Context, sessionID, section string) (dashboard.SectionInfo, error)
}

// OpenSectionInput navigates a session to a section.
type OpenSectionInput struct {
	SessionID string                 `json:"session_id"`
	Section   string                 `json:"section"`
	Result    *dashboard.SectionInfo `json:"-"`
}

// OpenSectionCommand mounts the views of a section.
type OpenSectionCommand struct {
	service   sectionService
	telemetry Telemetry
}

// NewOpenSectionCommand builds a command instance.
func NewOpenSectionCommand(service sectionService, telemetry Telemetry) *OpenSectionCommand {
	return &OpenSectionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[OpenSectionInput] = (*OpenSectionCommand)(nil)

// Execute opens the section.
func (c *OpenSectionCommand) Execute(ctx context.Context, msg OpenSectionInput) error {
	if c.service == nil {
		return errors.New("open section command requires service")
	}
	if msg.Section == "" {
		return errors.New("open section command requires section")
	}
	info, err := c.service.OpenSection(ctx, msg.SessionID, msg.Section)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = info
	}
	c.telemetry.Record(ctx, "dashboard.command.section_open", map[string]any{
		"session_id": msg.SessionID,
		"section":    msg.Section,
	})
	return nil
}

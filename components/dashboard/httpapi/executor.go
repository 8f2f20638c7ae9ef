package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-commsdash/components/dashboard"
	"github.com/goliatone/go-commsdash/components/dashboard/commands"
	"github.com/goliatone/go-commsdash/components/dashboard/queries"
)

// Executor is the transport-facing surface of the dashboard. Both the
// net/http handlers and the go-router routes dispatch through it.
type Executor interface {
	OpenSession(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.SessionInfo, error)
	CloseSession(ctx context.Context, sessionID string) error
	OpenSection(ctx context.Context, sessionID, section string) (dashboard.SectionInfo, error)
	Snapshot(ctx context.Context, sessionID, view string) (dashboard.ViewSnapshot, error)
	ApplyFilters(ctx context.Context, input commands.ApplyFiltersInput) (dashboard.ViewSnapshot, error)
	Delete(ctx context.Context, input commands.DeleteRecordInput) (dashboard.Record, error)
	Toggle(ctx context.Context, input commands.ToggleRecordInput) (dashboard.Record, error)
	Panel(ctx context.Context, sessionID, panel string) (dashboard.PanelData, error)
}

// CommandExecutor implements Executor on top of go-command commanders and queriers.
type CommandExecutor struct {
	OpenSessionCmd  gocommand.Commander[commands.OpenSessionInput]
	CloseSessionCmd gocommand.Commander[commands.CloseSessionInput]
	OpenSectionCmd  gocommand.Commander[commands.OpenSectionInput]
	FiltersCmd      gocommand.Commander[commands.ApplyFiltersInput]
	DeleteCmd       gocommand.Commander[commands.DeleteRecordInput]
	ToggleCmd       gocommand.Commander[commands.ToggleRecordInput]
	SnapshotQuery   gocommand.Querier[queries.SnapshotInput, dashboard.ViewSnapshot]
	PanelQuery      gocommand.Querier[queries.PanelInput, dashboard.PanelData]
}

var errNotConfigured = errors.New("httpapi: operation not configured")

// NewExecutor wires every command and query against the service.
func NewExecutor(service *dashboard.Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		OpenSessionCmd:  commands.NewOpenSessionCommand(service, telemetry),
		CloseSessionCmd: commands.NewCloseSessionCommand(service, telemetry),
		OpenSectionCmd:  commands.NewOpenSectionCommand(service, telemetry),
		FiltersCmd:      commands.NewApplyFiltersCommand(service, telemetry),
		DeleteCmd:       commands.NewDeleteRecordCommand(service, telemetry),
		ToggleCmd:       commands.NewToggleRecordCommand(service, telemetry),
		SnapshotQuery:   queries.NewSnapshotQuery(service),
		PanelQuery:      queries.NewPanelQuery(service),
	}
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) OpenSession(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.SessionInfo, error) {
	if e.OpenSessionCmd == nil {
		return dashboard.SessionInfo{}, errNotConfigured
	}
	var info dashboard.SessionInfo
	err := e.OpenSessionCmd.Execute(ctx, commands.OpenSessionInput{Viewer: viewer, Result: &info})
	return info, err
}

func (e *CommandExecutor) CloseSession(ctx context.Context, sessionID string) error {
	if e.CloseSessionCmd == nil {
		return errNotConfigured
	}
	return e.CloseSessionCmd.Execute(ctx, commands.CloseSessionInput{SessionID: sessionID})
}

func (e *CommandExecutor) OpenSection(ctx context.Context, sessionID, section string) (dashboard.SectionInfo, error) {
	if e.OpenSectionCmd == nil {
		return dashboard.SectionInfo{}, errNotConfigured
	}
	var info dashboard.SectionInfo
	err := e.OpenSectionCmd.Execute(ctx, commands.OpenSectionInput{SessionID: sessionID, Section: section, Result: &info})
	return info, err
}

func (e *CommandExecutor) Snapshot(ctx context.Context, sessionID, view string) (dashboard.ViewSnapshot, error) {
	if e.SnapshotQuery == nil {
		return dashboard.ViewSnapshot{}, errNotConfigured
	}
	return e.SnapshotQuery.Query(ctx, queries.SnapshotInput{SessionID: sessionID, View: view})
}

func (e *CommandExecutor) ApplyFilters(ctx context.Context, input commands.ApplyFiltersInput) (dashboard.ViewSnapshot, error) {
	if e.FiltersCmd == nil {
		return dashboard.ViewSnapshot{}, errNotConfigured
	}
	var snap dashboard.ViewSnapshot
	input.Result = &snap
	err := e.FiltersCmd.Execute(ctx, input)
	return snap, err
}

func (e *CommandExecutor) Delete(ctx context.Context, input commands.DeleteRecordInput) (dashboard.Record, error) {
	if e.DeleteCmd == nil {
		return nil, errNotConfigured
	}
	var record dashboard.Record
	input.Result = &record
	err := e.DeleteCmd.Execute(ctx, input)
	return record, err
}

func (e *CommandExecutor) Toggle(ctx context.Context, input commands.ToggleRecordInput) (dashboard.Record, error) {
	if e.ToggleCmd == nil {
		return nil, errNotConfigured
	}
	var record dashboard.Record
	input.Result = &record
	err := e.ToggleCmd.Execute(ctx, input)
	return record, err
}

func (e *CommandExecutor) Panel(ctx context.Context, sessionID, panel string) (dashboard.PanelData, error) {
	if e.PanelQuery == nil {
		return nil, errNotConfigured
	}
	return e.PanelQuery.Query(ctx, queries.PanelInput{SessionID: sessionID, Panel: panel})
}

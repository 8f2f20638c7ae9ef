package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-commsdash/components/dashboard"
)

type snapshotService interface {
	Snapshot(ctx context.Context, sessionID, view string) (dashboard.ViewSnapshot, error)
}

// SnapshotInput names a mounted view.
type SnapshotInput struct {
	SessionID string `json:"session_id"`
	View      string `json:"view"`
}

// SnapshotQuery renders the current state of a view.
type SnapshotQuery struct {
	service snapshotService
}

// NewSnapshotQuery builds the query.
func NewSnapshotQuery(service snapshotService) *SnapshotQuery {
	return &SnapshotQuery{service: service}
}

var _ gocommand.Querier[SnapshotInput, dashboard.ViewSnapshot] = (*SnapshotQuery)(nil)

// Query returns the view snapshot.
func (q *SnapshotQuery) Query(ctx context.Context, input SnapshotInput) (dashboard.ViewSnapshot, error) {
	if input.View == "" {
		return dashboard.ViewSnapshot{}, errors.New("snapshot query requires view")
	}
	return q.service.Snapshot(ctx, input.SessionID, input.View)
}

type sessionService interface {
	Session(sessionID string) (dashboard.SessionInfo, error)
}

// SessionQuery describes an open session.
type SessionQuery struct {
	service sessionService
}

// NewSessionQuery builds the query.
func NewSessionQuery(service sessionService) *SessionQuery {
	return &SessionQuery{service: service}
}

var _ gocommand.Querier[string, dashboard.SessionInfo] = (*SessionQuery)(nil)

// Query returns the session info for the id.
func (q *SessionQuery) Query(_ context.Context, sessionID string) (dashboard.SessionInfo, error) {
	return q.service.Session(sessionID)
}

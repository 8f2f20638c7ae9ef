package dashboard

import (
	"context"
	"time"
)

// RefreshHook notifies transports (REST/WebSocket/SSE) about view changes.
type RefreshHook interface {
	ViewUpdated(ctx context.Context, event ViewEvent) error
}

// ViewerContext captures the active user information attached to a session.
type ViewerContext struct {
	UserID string   `json:"user_id,omitempty"`
	Roles  []string `json:"roles,omitempty"`
	Locale string   `json:"locale,omitempty"`
}

// SessionInfo describes a session to transports.
type SessionInfo struct {
	ID        string        `json:"session_id"`
	Viewer    ViewerContext `json:"viewer"`
	Section   string        `json:"section,omitempty"`
	Views     []string      `json:"views"`
	CreatedAt time.Time     `json:"created_at"`
	LastSeen  time.Time     `json:"last_seen"`
}

// SectionInfo is the result of opening a section.
type SectionInfo struct {
	Section SectionDefinition `json:"section"`
	Views   []ViewSnapshot    `json:"views"`
}

type noopRefreshHook struct{}

func (noopRefreshHook) ViewUpdated(context.Context, ViewEvent) error {
	return nil
}

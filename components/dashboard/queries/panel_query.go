package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-commsdash/components/dashboard"
)

type panelService interface {
	Panel(ctx context.Context, sessionID, panel string) (dashboard.PanelData, error)
}

// PanelInput names a panel to fetch for a session.
type PanelInput struct {
	SessionID string `json:"session_id"`
	Panel     string `json:"panel"`
}

// PanelQuery fetches chart and summary panel payloads.
type PanelQuery struct {
	service panelService
}

// NewPanelQuery builds the query.
func NewPanelQuery(service panelService) *PanelQuery {
	return &PanelQuery{service: service}
}

var _ gocommand.Querier[PanelInput, dashboard.PanelData] = (*PanelQuery)(nil)

// Query returns the panel payload.
func (q *PanelQuery) Query(ctx context.Context, input PanelInput) (dashboard.PanelData, error) {
	if input.Panel == "" {
		return nil, errors.New("panel query requires panel")
	}
	return q.service.Panel(ctx, input.SessionID, input.Panel)
}

type sectionLister interface {
	Sections() []dashboard.SectionDefinition
}

// SectionsQuery lists the navigable sections.
type SectionsQuery struct {
	service sectionLister
}

// NewSectionsQuery builds the query.
func NewSectionsQuery(service sectionLister) *SectionsQuery {
	return &SectionsQuery{service: service}
}

var _ gocommand.Querier[struct{}, []dashboard.SectionDefinition] = (*SectionsQuery)(nil)

// Query returns the sections in display order.
func (q *SectionsQuery) Query(context.Context, struct{}) ([]dashboard.SectionDefinition, error) {
	return q.service.Sections(), nil
}

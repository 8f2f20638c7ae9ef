package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-commsdash/components/dashboard"
	"github.com/goliatone/go-commsdash/components/dashboard/commands"
)

const (
	defaultCollectionCount = 20
	maxCollectionCount     = 1000
)

// Handlers exposes HTTP endpoints backed by shared commands.
type Handlers struct {
	API       Executor
	Sections  func() []dashboard.SectionDefinition
	Generator *dashboard.Generator
	Viewer    func(*http.Request) dashboard.ViewerContext
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string `json:"error"`
	Prompt string `json:"prompt,omitempty"`
}

// StatusFor maps dashboard errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, dashboard.ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	case errors.Is(err, dashboard.ErrSessionNotFound),
		errors.Is(err, dashboard.ErrSectionNotFound),
		errors.Is(err, dashboard.ErrViewNotFound),
		errors.Is(err, dashboard.ErrViewNotOpen),
		errors.Is(err, dashboard.ErrRecordNotFound),
		errors.Is(err, dashboard.ErrPanelNotFound),
		errors.Is(err, dashboard.ErrUnknownEntity):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrViewNotReady),
		errors.Is(err, dashboard.ErrActionNotSupported),
		errors.Is(err, dashboard.ErrNotToggleable):
		return http.StatusConflict
	case errors.Is(err, dashboard.ErrUnknownFilterField),
		errors.Is(err, dashboard.ErrInvalidFilterValue):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrServiceClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorPayload builds the response body for err, carrying the confirmation
// prompt when one is required.
func ErrorPayload(err error) ErrorBody {
	body := ErrorBody{Error: err.Error()}
	var confirm *dashboard.ConfirmationError
	if errors.As(err, &confirm) {
		body.Prompt = confirm.Prompt
	}
	return body
}

// WriteError writes err as JSON with the mapped status.
func WriteError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), ErrorPayload(err))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, ErrorBody{Error: err.Error()})
}

func (h *Handlers) viewer(r *http.Request) dashboard.ViewerContext {
	if h.Viewer != nil {
		return h.Viewer(r)
	}
	return ViewerFromRequest(r)
}

// ViewerFromRequest reads the viewer from X-User-ID, X-User-Roles and
// Accept-Language headers.
func ViewerFromRequest(r *http.Request) dashboard.ViewerContext {
	viewer := dashboard.ViewerContext{UserID: strings.TrimSpace(r.Header.Get("X-User-ID"))}
	for _, role := range strings.Split(r.Header.Get("X-User-Roles"), ",") {
		if role = strings.TrimSpace(role); role != "" {
			viewer.Roles = append(viewer.Roles, role)
		}
	}
	viewer.Locale = ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	return viewer
}

// ParseAcceptLanguage returns the first language tag of an Accept-Language header.
func ParseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

// SelectionsFromQuery reads one selection per declared filter field plus
// the free-text query from URL query values. Other keys are ignored.
func SelectionsFromQuery(values map[string][]string, fields []dashboard.FilterField) (dashboard.Selections, string, bool) {
	first := func(key string) string {
		if vals := values[key]; len(vals) > 0 {
			return vals[0]
		}
		return ""
	}
	selections := dashboard.Selections{}
	for _, field := range fields {
		if value := strings.TrimSpace(first(field.Name)); value != "" {
			selections[field.Name] = value
		}
	}
	query := first("query")
	if query == "" {
		query = first("q")
	}
	return selections, query, len(selections) > 0 || query != ""
}

func (h *Handlers) HandleSections(w http.ResponseWriter, r *http.Request) {
	sections := []dashboard.SectionDefinition{}
	if h.Sections != nil {
		sections = h.Sections()
	}
	writeJSON(w, http.StatusOK, map[string]any{"sections": sections})
}

func (h *Handlers) HandleOpenSession(w http.ResponseWriter, r *http.Request) {
	info, err := h.API.OpenSession(r.Context(), h.viewer(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

func (h *Handlers) HandleCloseSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := h.API.CloseSession(r.Context(), sessionID); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleOpenSection(w http.ResponseWriter, r *http.Request, sessionID, section string) {
	info, err := h.API.OpenSection(r.Context(), sessionID, section)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// HandleSnapshot returns the view state. Query parameters naming the view's
// filter fields, when present, are applied as filters first.
func (h *Handlers) HandleSnapshot(w http.ResponseWriter, r *http.Request, sessionID, view string) {
	snap, err := h.API.Snapshot(r.Context(), sessionID, view)
	if err != nil {
		WriteError(w, err)
		return
	}
	selections, query, present := SelectionsFromQuery(r.URL.Query(), snap.Filters)
	if present {
		snap, err = h.API.ApplyFilters(r.Context(), commands.ApplyFiltersInput{
			SessionID:  sessionID,
			View:       view,
			Selections: selections,
			Query:      query,
		})
		if err != nil {
			WriteError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, snap)
}

// FiltersPayload is the body of a filter request.
type FiltersPayload struct {
	Selections dashboard.Selections `json:"selections"`
	Query      string               `json:"query"`
}

func (h *Handlers) HandleApplyFilters(w http.ResponseWriter, r *http.Request, sessionID, view string) {
	var payload FiltersPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, err)
		return
	}
	snap, err := h.API.ApplyFilters(r.Context(), commands.ApplyFiltersInput{
		SessionID:  sessionID,
		View:       view,
		Selections: payload.Selections,
		Query:      payload.Query,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handlers) HandleDeleteRecord(w http.ResponseWriter, r *http.Request, sessionID, view, id string) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	viewer := h.viewer(r)
	record, err := h.API.Delete(r.Context(), commands.DeleteRecordInput{
		RecordRef: commands.RecordRef{SessionID: sessionID, View: view, ID: id},
		Actor:     commands.Actor{ActorID: viewer.UserID, UserID: viewer.UserID},
		Confirmed: confirmed,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "record": record})
}

func (h *Handlers) HandleToggleRecord(w http.ResponseWriter, r *http.Request, sessionID, view, id string) {
	viewer := h.viewer(r)
	record, err := h.API.Toggle(r.Context(), commands.ToggleRecordInput{
		RecordRef: commands.RecordRef{SessionID: sessionID, View: view, ID: id},
		Actor:     commands.Actor{ActorID: viewer.UserID, UserID: viewer.UserID},
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "toggled", "record": record})
}

func (h *Handlers) HandlePanel(w http.ResponseWriter, r *http.Request, sessionID, panel string) {
	data, err := h.API.Panel(r.Context(), sessionID, panel)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// CollectionPayload is the body served by the collections endpoint.
type CollectionPayload struct {
	Entity  string `json:"entity"`
	Count   int    `json:"count"`
	Records any    `json:"records"`
}

// HandleCollection generates a collection without a session. It backs the
// analytics HTTP client in local setups.
func (h *Handlers) HandleCollection(w http.ResponseWriter, r *http.Request, entity string) {
	if h.Generator == nil {
		WriteError(w, errNotConfigured)
		return
	}
	count := defaultCollectionCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxCollectionCount {
			badRequest(w, fmt.Errorf("count must be an integer between 0 and %d", maxCollectionCount))
			return
		}
		count = n
	}
	records, err := h.Generator.Generate(entity, count)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CollectionPayload{Entity: entity, Count: count, Records: records})
}

package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-commsdash/components/dashboard"
	"github.com/goliatone/go-commsdash/components/dashboard/commands"
	"github.com/goliatone/go-commsdash/components/dashboard/httpapi"
)

// ViewerResolver converts a router.Context into a dashboard.ViewerContext.
type ViewerResolver func(router.Context) dashboard.ViewerContext

// Config wires go-router with the dashboard controller, API and broadcast hook.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *dashboard.Controller
	API            httpapi.Executor
	Broadcast      *dashboard.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	HTML      string
	Shell     string
	Sessions  string
	Session   string
	Section   string
	View      string
	Filters   string
	Record    string
	Toggle    string
	Panel     string
	WebSocket string
}

// Register mounts dashboard routes (HTML, JSON, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := DefaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	viewerResolver := cfg.ViewerResolver
	if viewerResolver == nil {
		viewerResolver = defaultViewerResolver
	}

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		viewer := viewerResolver(ctx)
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), viewer, &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.Shell, router.WrapHandler(func(ctx router.Context) error {
		return ctx.JSON(http.StatusOK, cfg.Controller.Payload(ctx.Context(), viewerResolver(ctx)))
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, viewerResolver, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver ViewerResolver, routes RouteConfig) {
	r.Post(routes.Sessions, router.WrapHandler(func(ctx router.Context) error {
		info, err := api.OpenSession(ctx.Context(), resolver(ctx))
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, info)
	}))

	r.Delete(routes.Session, router.WrapHandler(func(ctx router.Context) error {
		if err := api.CloseSession(ctx.Context(), ctx.Param("session")); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "closed"})
	}))

	r.Post(routes.Section, router.WrapHandler(func(ctx router.Context) error {
		info, err := api.OpenSection(ctx.Context(), ctx.Param("session"), ctx.Param("section"))
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, info)
	}))

	r.Get(routes.View, router.WrapHandler(func(ctx router.Context) error {
		sessionID, view := ctx.Param("session"), ctx.Param("view")
		snap, err := api.Snapshot(ctx.Context(), sessionID, view)
		if err != nil {
			return respondError(ctx, err)
		}
		selections, query, present := selectionsFromContext(ctx, snap.Filters)
		if present {
			snap, err = api.ApplyFilters(ctx.Context(), commands.ApplyFiltersInput{
				SessionID:  sessionID,
				View:       view,
				Selections: selections,
				Query:      query,
			})
			if err != nil {
				return respondError(ctx, err)
			}
		}
		return ctx.JSON(http.StatusOK, snap)
	}))

	r.Post(routes.Filters, router.WrapHandler(func(ctx router.Context) error {
		var payload httpapi.FiltersPayload
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return ctx.JSON(http.StatusBadRequest, httpapi.ErrorBody{Error: err.Error()})
		}
		snap, err := api.ApplyFilters(ctx.Context(), commands.ApplyFiltersInput{
			SessionID:  ctx.Param("session"),
			View:       ctx.Param("view"),
			Selections: payload.Selections,
			Query:      payload.Query,
		})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, snap)
	}))

	r.Delete(routes.Record, router.WrapHandler(func(ctx router.Context) error {
		confirmed, _ := strconv.ParseBool(ctx.Query("confirm"))
		viewer := resolver(ctx)
		record, err := api.Delete(ctx.Context(), commands.DeleteRecordInput{
			RecordRef: recordRef(ctx),
			Actor:     commands.Actor{ActorID: viewer.UserID, UserID: viewer.UserID},
			Confirmed: confirmed,
		})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{"status": "deleted", "record": record})
	}))

	r.Post(routes.Toggle, router.WrapHandler(func(ctx router.Context) error {
		viewer := resolver(ctx)
		record, err := api.Toggle(ctx.Context(), commands.ToggleRecordInput{
			RecordRef: recordRef(ctx),
			Actor:     commands.Actor{ActorID: viewer.UserID, UserID: viewer.UserID},
		})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{"status": "toggled", "record": record})
	}))

	r.Get(routes.Panel, router.WrapHandler(func(ctx router.Context) error {
		data, err := api.Panel(ctx.Context(), ctx.Param("session"), ctx.Param("panel"))
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, data)
	}))
}

func recordRef(ctx router.Context) commands.RecordRef {
	return commands.RecordRef{
		SessionID: ctx.Param("session"),
		View:      ctx.Param("view"),
		ID:        ctx.Param("id"),
	}
}

// selectionsFromContext reads one query parameter per filter field plus the
// free-text query.
func selectionsFromContext(ctx router.Context, fields []dashboard.FilterField) (dashboard.Selections, string, bool) {
	selections := dashboard.Selections{}
	for _, field := range fields {
		if value := strings.TrimSpace(ctx.Query(field.Name)); value != "" {
			selections[field.Name] = value
		}
	}
	query := ctx.Query("query")
	return selections, query, len(selections) > 0 || query != ""
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe("")
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func defaultViewerResolver(ctx router.Context) dashboard.ViewerContext {
	var viewer dashboard.ViewerContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		viewer.UserID = v
	} else {
		viewer.UserID = strings.TrimSpace(ctx.Header("X-User-ID"))
	}
	if roles, ok := ctx.Locals("roles").([]string); ok {
		viewer.Roles = roles
	}
	viewer.Locale = inferLocale(ctx)
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	return httpapi.ParseAcceptLanguage(ctx.Header("Accept-Language"))
}

func respondError(ctx router.Context, err error) error {
	return ctx.JSON(httpapi.StatusFor(err), httpapi.ErrorPayload(err))
}

// DefaultRouteConfig fills the unset paths.
func DefaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/dashboard"
	}
	if routes.Shell == "" {
		routes.Shell = "/dashboard/_shell"
	}
	if routes.Sessions == "" {
		routes.Sessions = "/sessions"
	}
	if routes.Session == "" {
		routes.Session = "/sessions/:session"
	}
	if routes.Section == "" {
		routes.Section = "/sessions/:session/sections/:section"
	}
	if routes.View == "" {
		routes.View = "/sessions/:session/views/:view"
	}
	if routes.Filters == "" {
		routes.Filters = "/sessions/:session/views/:view/filters"
	}
	if routes.Record == "" {
		routes.Record = "/sessions/:session/views/:view/records/:id"
	}
	if routes.Toggle == "" {
		routes.Toggle = "/sessions/:session/views/:view/records/:id/toggle"
	}
	if routes.Panel == "" {
		routes.Panel = "/sessions/:session/panels/:panel"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-commsdash/pkg/activity"
)

const (
	defaultSessionTTL = 30 * time.Minute
	defaultChartTTL   = time.Minute
)

var errMissingSessionID = errors.New("dashboard: session id is required")

// Options configures the dashboard Service. Every collaborator is provided via
// interface or func so applications and tests can swap implementations.
type Options struct {
	Registry       *Registry
	Generator      *Generator
	Scheduler      Scheduler
	Loader         CollectionLoader
	RefreshHook    RefreshHook
	Telemetry      Telemetry
	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
	Validator      SelectionValidator
	Logger         logrus.FieldLogger
	ChartCache     *ChartCache
	SessionTTL     time.Duration
	Now            func() time.Time
	IDGenerator    func() string
}

// Service maps session ids to sessions and runs every operation a transport
// exposes: sections, filters, mutations and panels.
type Service struct {
	opts     Options
	activity *activity.Emitter

	mu       sync.RWMutex
	sessions map[string]*session
	closed   bool
	janitor  Timer
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Now == nil {
		if opts.Generator != nil {
			opts.Now = opts.Generator.Now
		} else {
			opts.Now = time.Now
		}
	}
	if opts.Generator == nil {
		opts.Generator = NewGenerator(GeneratorOptions{Now: opts.Now})
	}
	opts.Scheduler = normalizeScheduler(opts.Scheduler)
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.ChartCache == nil {
		opts.ChartCache = NewChartCache(defaultChartTTL)
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = uuid.NewString
	}
	return &Service{
		opts:     opts,
		activity: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
		sessions: map[string]*session{},
	}
}

// Registry exposes the catalog the service resolves sections against.
func (s *Service) Registry() *Registry { return s.opts.Registry }

// Generator exposes the data source used by views and panels.
func (s *Service) Generator() *Generator { return s.opts.Generator }

// Sections lists the navigable sections in display order.
func (s *Service) Sections() []SectionDefinition {
	return s.opts.Registry.Sections()
}

// OpenSession starts a session for viewer.
func (s *Service) OpenSession(ctx context.Context, viewer ViewerContext) (SessionInfo, error) {
	now := s.opts.Now()
	sess := newSession(s.opts.IDGenerator(), viewer, now)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return SessionInfo{}, ErrServiceClosed
	}
	s.sessions[sess.id] = sess
	active := len(s.sessions)
	s.mu.Unlock()

	s.opts.Logger.WithFields(logrus.Fields{
		"session_id": sess.id,
		"user_id":    viewer.UserID,
	}).Debug("dashboard session opened")
	s.recordTelemetry(ctx, "dashboard.session.open", map[string]any{
		"session_id": sess.id,
		"user_id":    viewer.UserID,
		"active":     active,
	})
	return sess.info(), nil
}

// CloseSession tears down every view of the session and forgets it.
func (s *Service) CloseSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	active := len(s.sessions)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return s.closeSession(ctx, sess, "close", active)
}

func (s *Service) closeSession(ctx context.Context, sess *session, reason string, active int) error {
	teardownViews(sess.detach())
	purged := s.opts.ChartCache.Purge(sess.id + ":")
	s.recordTelemetry(ctx, "dashboard.session."+reason, map[string]any{
		"session_id":    sess.id,
		"active":        active,
		"charts_purged": purged,
	})
	if err := s.opts.RefreshHook.ViewUpdated(ctx, ViewEvent{
		SessionID:  sess.id,
		Reason:     "session_" + reason,
		State:      StateIdle,
		OccurredAt: s.opts.Now(),
	}); err != nil {
		return fmt.Errorf("dashboard: notify session %s %s: %w", sess.id, reason, err)
	}
	return nil
}

// Session describes an open session.
func (s *Service) Session(sessionID string) (SessionInfo, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return SessionInfo{}, err
	}
	return sess.info(), nil
}

// OpenSection mounts the views of section in the session, tearing down the
// views of the previously open section. Every open starts from fresh data.
func (s *Service) OpenSection(ctx context.Context, sessionID, code string) (SectionInfo, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return SectionInfo{}, err
	}
	section, ok := s.opts.Registry.Section(code)
	if !ok {
		return SectionInfo{}, fmt.Errorf("%w: %s", ErrSectionNotFound, code)
	}
	views := make([]ViewHandle, 0, len(section.Views))
	for _, viewCode := range section.Views {
		def, factory, ok := s.opts.Registry.View(viewCode)
		if !ok || factory == nil {
			return SectionInfo{}, fmt.Errorf("%w: %s", ErrViewNotFound, viewCode)
		}
		views = append(views, factory(ViewEnv{
			Definition: def,
			Generator:  s.opts.Generator,
			Scheduler:  s.opts.Scheduler,
			Loader:     s.opts.Loader,
			OnEvent:    s.onViewEvent(sess.id),
		}))
	}
	teardownViews(sess.swap(section.Code, views))
	sess.touch(s.opts.Now())

	info := SectionInfo{Section: section, Views: make([]ViewSnapshot, 0, len(views))}
	for _, view := range views {
		view.Mount(ctx)
		info.Views = append(info.Views, view.Snapshot())
	}
	s.recordTelemetry(ctx, "dashboard.section.open", map[string]any{
		"session_id": sess.id,
		"section":    section.Code,
		"views":      len(views),
	})
	return info, nil
}

// Snapshot renders the current state of a mounted view.
func (s *Service) Snapshot(ctx context.Context, sessionID, viewCode string) (ViewSnapshot, error) {
	_, view, err := s.openView(sessionID, viewCode)
	if err != nil {
		return ViewSnapshot{}, err
	}
	return view.Snapshot(), nil
}

// ApplyFilters validates the selections against the fields the view exposes
// and replaces its filter state.
func (s *Service) ApplyFilters(ctx context.Context, sessionID, viewCode string, selections Selections, query string) (ViewSnapshot, error) {
	_, view, err := s.openView(sessionID, viewCode)
	if err != nil {
		return ViewSnapshot{}, err
	}
	normalized := selections.Normalize()
	fields := view.Snapshot().Filters
	for key := range normalized {
		if !slices.ContainsFunc(fields, func(f FilterField) bool { return f.Name == key }) {
			return ViewSnapshot{}, fmt.Errorf("%w: %s", ErrUnknownFilterField, key)
		}
	}
	if err := s.opts.Validator.Validate(viewCode, fields, normalized); err != nil {
		return ViewSnapshot{}, err
	}
	if err := view.ApplyFilters(normalized, query); err != nil {
		return ViewSnapshot{}, err
	}
	snap := view.Snapshot()
	s.recordTelemetry(ctx, "dashboard.filters.apply", map[string]any{
		"session_id": sessionID,
		"view":       viewCode,
		"selections": len(normalized),
		"query":      query != "",
		"count":      snap.Count,
	})
	return snap, nil
}

// DeleteRecord removes a record. Without confirmed it returns a
// *ConfirmationError carrying the prompt to show.
func (s *Service) DeleteRecord(ctx context.Context, sessionID, viewCode, id string, confirmed bool) (Record, error) {
	sess, view, err := s.openView(sessionID, viewCode)
	if err != nil {
		return nil, err
	}
	record, err := view.Delete(id, confirmed)
	if err != nil {
		return nil, err
	}
	s.recordMutation(ctx, sess, viewCode, "delete", record, nil)
	return record, nil
}

// ToggleRecord flips the two-valued field the view declares.
func (s *Service) ToggleRecord(ctx context.Context, sessionID, viewCode, id string) (Record, error) {
	sess, view, err := s.openView(sessionID, viewCode)
	if err != nil {
		return nil, err
	}
	record, err := view.Toggle(id)
	if err != nil {
		return nil, err
	}
	s.recordMutation(ctx, sess, viewCode, "toggle", record, map[string]any{
		"status": recordStatus(record),
	})
	return record, nil
}

func (s *Service) recordMutation(ctx context.Context, sess *session, viewCode, verb string, record Record, extra map[string]any) {
	def, _, _ := s.opts.Registry.View(viewCode)
	meta := activityActor(ctx, sess.viewer)
	metadata := map[string]any{
		"session_id": sess.id,
		"view":       viewCode,
		"name":       record.RecordName(),
	}
	for key, value := range extra {
		metadata[key] = value
	}
	if err := s.activity.Emit(ctx, activity.Event{
		Verb:           "dashboard." + verb,
		ActorID:        meta.ActorID,
		UserID:         meta.UserID,
		TenantID:       meta.TenantID,
		ObjectType:     def.Entity,
		ObjectID:       record.RecordID(),
		DefinitionCode: viewCode,
		Metadata:       metadata,
		OccurredAt:     s.opts.Now(),
	}); err != nil {
		s.opts.Logger.WithError(err).WithField("view", viewCode).Warn("dashboard activity emit failed")
	}
	payload := map[string]any{
		"session_id": sess.id,
		"view":       viewCode,
		"record_id":  record.RecordID(),
	}
	for key, value := range extra {
		payload[key] = value
	}
	s.recordTelemetry(ctx, "dashboard.record."+verb, payload)
}

func recordStatus(record Record) string {
	switch r := record.(type) {
	case AlertRule:
		return string(r.Status)
	case UserProfile:
		return string(r.Status)
	case ScheduledJob:
		return string(r.Status)
	default:
		return ""
	}
}

// Panel fetches the payload of a chart or summary panel for the session.
func (s *Service) Panel(ctx context.Context, sessionID, code string) (PanelData, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	panel, ok := s.opts.Registry.Panel(code)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPanelNotFound, code)
	}
	provider, ok := s.opts.Registry.Provider(code)
	if !ok || provider == nil {
		return nil, fmt.Errorf("%w: %s has no provider", ErrPanelNotFound, code)
	}
	started := time.Now()
	data, err := provider.Fetch(ctx, PanelContext{
		Panel:     panel,
		SessionID: sess.id,
		Viewer:    sess.viewer,
		Generator: s.opts.Generator,
		Cache:     s.opts.ChartCache,
	})
	if err != nil {
		s.recordTelemetry(ctx, "dashboard.panel.provider_error", map[string]any{
			"session_id": sess.id,
			"panel":      code,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("dashboard: panel %s: %w", code, err)
	}
	s.recordTelemetry(ctx, "dashboard.panel.render", map[string]any{
		"session_id":  sess.id,
		"panel":       code,
		"duration_ms": float64(time.Since(started)) / float64(time.Millisecond),
	})
	return data, nil
}

// ReapIdle closes sessions not seen since now minus the session TTL and
// returns how many were closed.
func (s *Service) ReapIdle(ctx context.Context, now time.Time) int {
	cutoff := now.Add(-s.opts.SessionTTL)
	s.mu.Lock()
	var stale []*session
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	active := len(s.sessions)
	s.mu.Unlock()

	for _, sess := range stale {
		if err := s.closeSession(ctx, sess, "expire", active); err != nil {
			s.opts.Logger.WithError(err).WithField("session_id", sess.id).Warn("dashboard session expiry notify failed")
		}
	}
	if len(stale) > 0 {
		s.opts.Logger.WithField("sessions", len(stale)).Info("dashboard idle sessions reaped")
	}
	return len(stale)
}

// StartJanitor reaps idle sessions every interval until Shutdown.
func (s *Service) StartJanitor(interval time.Duration) {
	if interval <= 0 {
		interval = s.opts.SessionTTL / 2
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.janitor != nil {
		return
	}
	s.janitor = s.opts.Scheduler.Every(interval, func() {
		s.ReapIdle(context.Background(), s.opts.Now())
	})
}

// Shutdown stops the janitor and closes every session. Later calls to
// OpenSession fail with ErrServiceClosed.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if s.janitor != nil {
		s.janitor.Stop()
		s.janitor = nil
	}
	sessions := s.sessions
	s.sessions = map[string]*session{}
	s.mu.Unlock()

	var errs []error
	for _, sess := range sessions {
		if err := ctx.Err(); err != nil {
			teardownViews(sess.detach())
			continue
		}
		if err := s.closeSession(ctx, sess, "close", 0); err != nil {
			errs = append(errs, err)
		}
	}
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ActiveSessions reports the number of open sessions.
func (s *Service) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Service) session(sessionID string) (*session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, errMissingSessionID
	}
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return nil, ErrServiceClosed
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	sess.touch(s.opts.Now())
	return sess, nil
}

func (s *Service) openView(sessionID, viewCode string) (*session, ViewHandle, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, nil, err
	}
	if _, _, ok := s.opts.Registry.View(viewCode); !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrViewNotFound, viewCode)
	}
	view, err := sess.view(viewCode)
	if err != nil {
		return nil, nil, err
	}
	return sess, view, nil
}

// onViewEvent forwards view transitions to the refresh hook. It runs from
// timer goroutines and must not take the session lock.
func (s *Service) onViewEvent(sessionID string) func(ViewEvent) {
	return func(event ViewEvent) {
		event.SessionID = sessionID
		ctx := context.Background()
		if err := s.opts.RefreshHook.ViewUpdated(ctx, event); err != nil {
			s.opts.Logger.WithError(err).WithFields(logrus.Fields{
				"session_id": sessionID,
				"view":       event.View,
				"reason":     event.Reason,
			}).Warn("dashboard refresh hook failed")
		}
		s.recordTelemetry(ctx, "dashboard.view."+event.Reason, map[string]any{
			"session_id": sessionID,
			"view":       event.View,
			"state":      string(event.State),
			"count":      event.Count,
		})
	}
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

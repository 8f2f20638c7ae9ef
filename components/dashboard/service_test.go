package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-commsdash/pkg/activity"
)

type telemetryCapture struct {
	mu     sync.Mutex
	events []string
}

func (c *telemetryCapture) Record(_ context.Context, event string, _ map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *telemetryCapture) has(event string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.events {
		if e == event {
			return true
		}
	}
	return false
}

type hookCapture struct {
	mu     sync.Mutex
	events []ViewEvent
	err    error
}

func (h *hookCapture) ViewUpdated(_ context.Context, event ViewEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *hookCapture) reasons(sessionID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, e := range h.events {
		if e.SessionID == sessionID {
			out = append(out, e.Reason)
		}
	}
	return out
}

type serviceFixture struct {
	service   *Service
	scheduler *manualScheduler
	clock     *time.Time
	hook      *hookCapture
	telemetry *telemetryCapture
	activity  *activity.CaptureHook
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	clock := testEpoch
	f := &serviceFixture{
		scheduler: &manualScheduler{},
		clock:     &clock,
		hook:      &hookCapture{},
		telemetry: &telemetryCapture{},
		activity:  &activity.CaptureHook{},
	}
	now := func() time.Time { return *f.clock }
	seq := 0
	f.service = NewService(Options{
		Generator:      NewSeededGenerator(99, now),
		Scheduler:      f.scheduler,
		RefreshHook:    f.hook,
		Telemetry:      f.telemetry,
		ActivityHooks:  activity.Hooks{f.activity},
		ActivityConfig: activity.Config{Enabled: true, Channel: "dashboard"},
		SessionTTL:     10 * time.Minute,
		Now:            now,
		IDGenerator: func() string {
			seq++
			return fmt.Sprintf("sess-%d", seq)
		},
	})
	return f
}

// settle advances past the longest built-in load delay.
func (f *serviceFixture) settle() {
	f.scheduler.Advance(2 * time.Second)
}

func (f *serviceFixture) open(t *testing.T, section string) string {
	t.Helper()
	info, err := f.service.OpenSession(context.Background(), ViewerContext{UserID: "operator-1"})
	if err != nil {
		t.Fatalf("OpenSession returned error: %v", err)
	}
	if _, err := f.service.OpenSection(context.Background(), info.ID, section); err != nil {
		t.Fatalf("OpenSection(%s) returned error: %v", section, err)
	}
	f.settle()
	return info.ID
}

func TestServiceSessionLifecycle(t *testing.T) {
	f := newServiceFixture(t)
	info, err := f.service.OpenSession(context.Background(), ViewerContext{UserID: "operator-1", Locale: "es"})
	if err != nil {
		t.Fatalf("OpenSession returned error: %v", err)
	}
	if info.ID != "sess-1" || info.Viewer.Locale != "es" {
		t.Fatalf("unexpected session info %+v", info)
	}
	if f.service.ActiveSessions() != 1 {
		t.Fatalf("expected one active session")
	}
	if err := f.service.CloseSession(context.Background(), info.ID); err != nil {
		t.Fatalf("CloseSession returned error: %v", err)
	}
	if _, err := f.service.Session(info.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := f.service.CloseSession(context.Background(), info.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on double close, got %v", err)
	}
	if got := f.hook.reasons(info.ID); len(got) != 1 || got[0] != "session_close" {
		t.Fatalf("expected session_close notification, got %v", got)
	}
	if !f.telemetry.has("dashboard.session.open") || !f.telemetry.has("dashboard.session.close") {
		t.Fatalf("expected session telemetry, got %v", f.telemetry.events)
	}
}

func TestServiceOpenSectionMountsViews(t *testing.T) {
	f := newServiceFixture(t)
	info, _ := f.service.OpenSession(context.Background(), ViewerContext{UserID: "operator-1"})

	section, err := f.service.OpenSection(context.Background(), info.ID, "settings")
	if err != nil {
		t.Fatalf("OpenSection returned error: %v", err)
	}
	if len(section.Views) != 2 || section.Views[0].Code != ViewChannels || section.Views[1].Code != ViewAlerts {
		t.Fatalf("unexpected section views %+v", section.Views)
	}
	for _, snap := range section.Views {
		if snap.State != StateLoading {
			t.Fatalf("expected %s loading right after open, got %s", snap.Code, snap.State)
		}
	}

	f.settle()
	snap, err := f.service.Snapshot(context.Background(), info.ID, ViewAlerts)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if snap.State != StateLoaded || snap.Total != 10 {
		t.Fatalf("expected 10 loaded alert rules, got %s/%d", snap.State, snap.Total)
	}

	sess, _ := f.service.Session(info.ID)
	if sess.Section != "settings" || len(sess.Views) != 2 {
		t.Fatalf("unexpected session state %+v", sess)
	}
}

func TestServiceSwitchingSectionsTearsDownPrevious(t *testing.T) {
	f := newServiceFixture(t)
	info, _ := f.service.OpenSession(context.Background(), ViewerContext{UserID: "operator-1"})

	if _, err := f.service.OpenSection(context.Background(), info.ID, "campaigns"); err != nil {
		t.Fatalf("OpenSection returned error: %v", err)
	}
	// switch before the campaign load lands
	if _, err := f.service.OpenSection(context.Background(), info.ID, "templates"); err != nil {
		t.Fatalf("OpenSection returned error: %v", err)
	}
	f.settle()

	if _, err := f.service.Snapshot(context.Background(), info.ID, ViewCampaigns); !errors.Is(err, ErrViewNotOpen) {
		t.Fatalf("expected ErrViewNotOpen for torn down view, got %v", err)
	}
	for _, e := range f.hook.events {
		if e.View == ViewCampaigns && e.Reason == "loaded" {
			t.Fatalf("torn down campaign view still completed loading")
		}
	}
	snap, _ := f.service.Snapshot(context.Background(), info.ID, ViewTemplates)
	if snap.State != StateLoaded {
		t.Fatalf("expected templates loaded, got %s", snap.State)
	}
}

func TestServiceOpenSectionErrors(t *testing.T) {
	f := newServiceFixture(t)
	if _, err := f.service.OpenSection(context.Background(), "missing", "campaigns"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	info, _ := f.service.OpenSession(context.Background(), ViewerContext{})
	if _, err := f.service.OpenSection(context.Background(), info.ID, "billing"); !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
	if _, err := f.service.Snapshot(context.Background(), info.ID, "invoices"); !errors.Is(err, ErrViewNotFound) {
		t.Fatalf("expected ErrViewNotFound, got %v", err)
	}
	if _, err := f.service.Session(" "); err == nil {
		t.Fatalf("expected error for blank session id")
	}
}

func TestServiceApplyFilters(t *testing.T) {
	f := newServiceFixture(t)
	id := f.open(t, "campaigns")

	snap, err := f.service.ApplyFilters(context.Background(), id, ViewCampaigns, Selections{"status": "Active"}, "")
	if err != nil {
		t.Fatalf("ApplyFilters returned error: %v", err)
	}
	records := snap.Records.([]Campaign)
	if snap.Count != len(records) || snap.Total != 20 {
		t.Fatalf("unexpected counts %d/%d", snap.Count, snap.Total)
	}
	for _, c := range records {
		if c.Status != CampaignActive {
			t.Fatalf("filtered campaign %s has status %s", c.ID, c.Status)
		}
	}

	if _, err := f.service.ApplyFilters(context.Background(), id, ViewCampaigns, Selections{"owner": "x"}, ""); !errors.Is(err, ErrUnknownFilterField) {
		t.Fatalf("expected ErrUnknownFilterField, got %v", err)
	}
	if _, err := f.service.ApplyFilters(context.Background(), id, ViewCampaigns, Selections{"status": "Archived"}, ""); !errors.Is(err, ErrInvalidFilterValue) {
		t.Fatalf("expected ErrInvalidFilterValue, got %v", err)
	}
	if !f.telemetry.has("dashboard.filters.apply") {
		t.Fatalf("expected filter telemetry")
	}
}

func TestServiceDeleteEmitsActivity(t *testing.T) {
	f := newServiceFixture(t)
	id := f.open(t, "campaigns")
	snap, _ := f.service.Snapshot(context.Background(), id, ViewCampaigns)
	target := snap.Records.([]Campaign)[0]

	_, err := f.service.DeleteRecord(context.Background(), id, ViewCampaigns, target.ID, false)
	var confirm *ConfirmationError
	if !errors.As(err, &confirm) {
		t.Fatalf("expected ConfirmationError, got %v", err)
	}
	if len(f.activity.Events) != 0 {
		t.Fatalf("unconfirmed delete must not emit activity")
	}

	ctx := ContextWithActivity(context.Background(), ActivityContext{ActorID: "actor-1", TenantID: "tenant-1"})
	if _, err := f.service.DeleteRecord(ctx, id, ViewCampaigns, target.ID, true); err != nil {
		t.Fatalf("DeleteRecord returned error: %v", err)
	}
	if len(f.activity.Events) != 1 {
		t.Fatalf("expected 1 activity event, got %d", len(f.activity.Events))
	}
	event := f.activity.Events[0]
	if event.Verb != "dashboard.delete" || event.ObjectType != "campaign" || event.ObjectID != target.ID {
		t.Fatalf("unexpected event payload: %+v", event)
	}
	if event.ActorID != "actor-1" || event.UserID != "operator-1" || event.TenantID != "tenant-1" {
		t.Fatalf("unexpected actor context: %+v", event)
	}
	if event.Channel != "dashboard" || event.Metadata["name"] != target.Name {
		t.Fatalf("unexpected channel or metadata: %+v", event)
	}

	after, _ := f.service.Snapshot(context.Background(), id, ViewCampaigns)
	if after.Total != 19 {
		t.Fatalf("expected 19 campaigns after delete, got %d", after.Total)
	}
}

func TestServiceDeleteRejectedOnAuditLogs(t *testing.T) {
	f := newServiceFixture(t)
	id := f.open(t, "reports")
	snap, _ := f.service.Snapshot(context.Background(), id, ViewAuditLogs)
	entry := snap.Records.([]AuditLogEntry)[0]
	if _, err := f.service.DeleteRecord(context.Background(), id, ViewAuditLogs, entry.ID, true); !errors.Is(err, ErrActionNotSupported) {
		t.Fatalf("expected ErrActionNotSupported, got %v", err)
	}
}

func TestServiceToggleUser(t *testing.T) {
	f := newServiceFixture(t)
	id := f.open(t, "admin")
	snap, _ := f.service.Snapshot(context.Background(), id, ViewUsers)
	var user UserProfile
	for _, candidate := range snap.Records.([]UserProfile) {
		if candidate.Status != StatusPending {
			user = candidate
			break
		}
	}
	want, ok := user.Status.Toggled()
	if !ok {
		t.Fatalf("expected a toggleable user, got %+v", user)
	}

	record, err := f.service.ToggleRecord(context.Background(), id, ViewUsers, user.ID)
	if err != nil {
		t.Fatalf("ToggleRecord returned error: %v", err)
	}
	if record.(UserProfile).Status != want {
		t.Fatalf("expected status %s, got %s", want, record.(UserProfile).Status)
	}
	event := f.activity.Events[0]
	if event.Verb != "dashboard.toggle" || event.Metadata["status"] != string(want) {
		t.Fatalf("unexpected toggle event %+v", event)
	}
	if _, err := f.service.ToggleRecord(context.Background(), id, ViewLiveFeed, "MSG-100000"); !errors.Is(err, ErrActionNotSupported) {
		t.Fatalf("expected ErrActionNotSupported on live feed, got %v", err)
	}
}

func TestServicePanels(t *testing.T) {
	f := newServiceFixture(t)
	id := f.open(t, "dashboard")

	overview, err := f.service.Panel(context.Background(), id, PanelOverview)
	if err != nil {
		t.Fatalf("Panel(overview) returned error: %v", err)
	}
	if cards, ok := overview["cards"].([]map[string]any); !ok || len(cards) != 3 {
		t.Fatalf("expected 3 overview cards, got %#v", overview["cards"])
	}

	chart, err := f.service.Panel(context.Background(), id, PanelDailyTrend)
	if err != nil {
		t.Fatalf("Panel(daily_trend) returned error: %v", err)
	}
	if html, _ := chart["chart_html"].(string); html == "" {
		t.Fatalf("expected rendered chart html")
	}
	if _, err := f.service.Panel(context.Background(), id, "forecast"); !errors.Is(err, ErrPanelNotFound) {
		t.Fatalf("expected ErrPanelNotFound, got %v", err)
	}
	if !f.telemetry.has("dashboard.panel.render") {
		t.Fatalf("expected panel telemetry")
	}
}

func TestServicePanelProviderError(t *testing.T) {
	f := newServiceFixture(t)
	boom := errors.New("warehouse offline")
	reg := f.service.Registry()
	if err := reg.RegisterPanel(PanelDefinition{Code: "broken", Name: "Broken"}); err != nil {
		t.Fatalf("RegisterPanel: %v", err)
	}
	_ = reg.RegisterProvider("broken", ProviderFunc(func(context.Context, PanelContext) (PanelData, error) {
		return nil, boom
	}))
	info, _ := f.service.OpenSession(context.Background(), ViewerContext{})
	if _, err := f.service.Panel(context.Background(), info.ID, "broken"); !errors.Is(err, boom) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if !f.telemetry.has("dashboard.panel.provider_error") {
		t.Fatalf("expected provider error telemetry")
	}
}

func TestServiceReapIdle(t *testing.T) {
	f := newServiceFixture(t)
	stale := f.open(t, "campaigns")
	*f.clock = f.clock.Add(8 * time.Minute)
	fresh, _ := f.service.OpenSession(context.Background(), ViewerContext{UserID: "operator-2"})

	*f.clock = f.clock.Add(3 * time.Minute)
	if got := f.service.ReapIdle(context.Background(), *f.clock); got != 1 {
		t.Fatalf("expected 1 reaped session, got %d", got)
	}
	if _, err := f.service.Session(stale); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected stale session gone, got %v", err)
	}
	if _, err := f.service.Session(fresh.ID); err != nil {
		t.Fatalf("expected fresh session kept, got %v", err)
	}
	reasons := f.hook.reasons(stale)
	if reasons[len(reasons)-1] != "session_expire" {
		t.Fatalf("expected session_expire notification, got %v", reasons)
	}
}

func TestServiceJanitorAndShutdown(t *testing.T) {
	f := newServiceFixture(t)
	id := f.open(t, "admin")
	f.service.StartJanitor(time.Minute)

	*f.clock = f.clock.Add(11 * time.Minute)
	f.scheduler.Advance(time.Minute)
	if f.service.ActiveSessions() != 0 {
		t.Fatalf("expected janitor to reap session %s", id)
	}

	if _, err := f.service.OpenSession(context.Background(), ViewerContext{}); err != nil {
		t.Fatalf("OpenSession returned error: %v", err)
	}
	if err := f.service.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}
	if f.scheduler.Pending() != 0 {
		t.Fatalf("expected no timers after shutdown, got %d", f.scheduler.Pending())
	}
	if _, err := f.service.OpenSession(context.Background(), ViewerContext{}); !errors.Is(err, ErrServiceClosed) {
		t.Fatalf("expected ErrServiceClosed, got %v", err)
	}
	if err := f.service.Shutdown(context.Background()); err != nil {
		t.Fatalf("second Shutdown returned error: %v", err)
	}
}

func TestServiceRefreshHookErrorIsLogged(t *testing.T) {
	f := newServiceFixture(t)
	f.hook.err = errors.New("socket closed")
	id := f.open(t, "campaigns")
	snap, err := f.service.Snapshot(context.Background(), id, ViewCampaigns)
	if err != nil || snap.State != StateLoaded {
		t.Fatalf("hook failures must not block loading: %v %s", err, snap.State)
	}
	if err := f.service.CloseSession(context.Background(), id); err == nil {
		t.Fatalf("expected close to surface hook error")
	}
}

// switchingView opens another section the first time it is mounted, before
// mounting itself.
type switchingView struct {
	ViewHandle
	switchTo func()
}

func (v *switchingView) Mount(ctx context.Context) {
	if v.switchTo != nil {
		switchTo := v.switchTo
		v.switchTo = nil
		switchTo()
	}
	v.ViewHandle.Mount(ctx)
}

func TestServiceSectionSwitchDuringMountStopsDetachedFeed(t *testing.T) {
	f := newServiceFixture(t)
	info, err := f.service.OpenSession(context.Background(), ViewerContext{UserID: "operator-1"})
	if err != nil {
		t.Fatalf("OpenSession returned error: %v", err)
	}

	var feed *View[LiveMessage]
	def, _, _ := f.service.Registry().View(ViewLiveFeed)
	err = f.service.Registry().RegisterView(def, func(env ViewEnv) ViewHandle {
		feed = newLiveFeedView(env).(*View[LiveMessage])
		return &switchingView{ViewHandle: feed, switchTo: func() {
			if _, err := f.service.OpenSection(context.Background(), info.ID, "campaigns"); err != nil {
				t.Errorf("nested OpenSection returned error: %v", err)
			}
		}}
	})
	if err != nil {
		t.Fatalf("RegisterView returned error: %v", err)
	}

	if _, err := f.service.OpenSection(context.Background(), info.ID, "admin"); err != nil {
		t.Fatalf("OpenSection returned error: %v", err)
	}
	f.settle()

	sess, _ := f.service.Session(info.ID)
	if sess.Section != "campaigns" {
		t.Fatalf("expected campaigns section, got %q", sess.Section)
	}
	if feed.State() != StateIdle {
		t.Fatalf("detached live feed must stay idle, got %s", feed.State())
	}
	if pending := f.scheduler.Pending(); pending != 0 {
		t.Fatalf("expected no timers after the switch, got %d", pending)
	}
}

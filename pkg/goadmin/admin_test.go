package goadmin_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	activitypkg "github.com/goliatone/go-commsdash/pkg/activity"
	dashboardpkg "github.com/goliatone/go-commsdash/pkg/dashboard"
	"github.com/goliatone/go-commsdash/pkg/goadmin"
	"github.com/sirupsen/logrus"
)

type stubMenuBuilder struct {
	items []goadmin.MenuItem
	err   error
}

func (s *stubMenuBuilder) EnsureMenuItem(_ context.Context, _ string, item goadmin.MenuItem) error {
	if s.err != nil {
		return s.err
	}
	s.items = append(s.items, item)
	return nil
}

func newService(t *testing.T) *dashboardpkg.Service {
	t.Helper()
	service := dashboardpkg.NewService(dashboardpkg.Options{})
	t.Cleanup(func() { _ = service.Shutdown(context.Background()) })
	return service
}

func TestAdminBootstrapSeedsSectionMenu(t *testing.T) {
	builder := &stubMenuBuilder{}
	capture := &activitypkg.CaptureHook{}
	service := newService(t)
	admin, err := goadmin.New(goadmin.Config{
		EnableDashboard: true,
		Service:         service,
		MenuBuilder:     builder,
		SectionIcons:    map[string]string{"reports": "pie-chart"},
		ActivityHooks:   activitypkg.Hooks{capture},
		ActivityConfig:  activitypkg.Config{Enabled: true},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	sections := service.Sections()
	if len(builder.items) != len(sections)+1 {
		t.Fatalf("expected %d items, got %d", len(sections)+1, len(builder.items))
	}
	if builder.items[0].Label != "Communications" {
		t.Fatalf("expected root item first, got %+v", builder.items[0])
	}
	for _, item := range builder.items[1:] {
		if item.Parent != "admin.dashboard" || !strings.HasPrefix(item.Route, "admin.dashboard/") {
			t.Fatalf("unexpected child item %+v", item)
		}
		if item.Label == "Reports" && item.Icon != "pie-chart" {
			t.Fatalf("expected icon override, got %s", item.Icon)
		}
	}
	events := capture.Snapshot()
	if len(events) != 1 || events[0].Verb != "admin.menu.seeded" {
		t.Fatalf("expected seeded event, got %+v", events)
	}
	if admin.Dashboard() == nil {
		t.Fatalf("expected dashboard service")
	}
}

func TestAdminBootstrapStopsOnBuilderError(t *testing.T) {
	boom := errors.New("menu store down")
	admin, err := goadmin.New(goadmin.Config{
		EnableDashboard: true,
		Service:         newService(t),
		MenuBuilder:     &stubMenuBuilder{err: boom},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected builder error, got %v", err)
	}
}

func TestAdminDisabledSkipsBootstrap(t *testing.T) {
	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{
		EnableDashboard: false,
		MenuBuilder:     builder,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if len(builder.items) != 0 {
		t.Fatalf("expected no items, got %d", len(builder.items))
	}
	if admin.Dashboard() != nil {
		t.Fatalf("expected nil dashboard when disabled")
	}
}

func TestNewRequiresServiceWhenEnabled(t *testing.T) {
	if _, err := goadmin.New(goadmin.Config{EnableDashboard: true}); err == nil {
		t.Fatalf("expected error without service")
	}
}

func TestLogMenuBuilderWritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	builder := goadmin.LogMenuBuilder{Logger: logger}
	if err := builder.EnsureMenuItem(context.Background(), "admin.main", goadmin.MenuItem{Label: "Campaigns", Route: "admin.dashboard/campaigns"}); err != nil {
		t.Fatalf("EnsureMenuItem returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"label":"Campaigns"`) || !strings.Contains(out, `"menu":"admin.main"`) {
		t.Fatalf("unexpected log output %s", out)
	}
}

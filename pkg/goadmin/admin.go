package goadmin

import (
	"context"
	"errors"
	"path"

	activitypkg "github.com/goliatone/go-commsdash/pkg/activity"
	dashboardpkg "github.com/goliatone/go-commsdash/pkg/dashboard"
	"github.com/sirupsen/logrus"
)

// MenuBuilder ensures dashboard entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures dashboard link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
	Parent   string
}

// Config wires dashboard service + feature flags into an admin shell.
type Config struct {
	EnableDashboard bool
	MenuCode        string
	MenuBuilder     MenuBuilder
	Service         *dashboardpkg.Service
	DefaultMenuItem MenuItem
	// SectionIcons overrides the icon per section code.
	SectionIcons   map[string]string
	ActivityHooks  activitypkg.Hooks
	ActivityConfig activitypkg.Config
}

var defaultSectionIcons = map[string]string{
	"dashboard": "home",
	"campaigns": "megaphone",
	"templates": "file-text",
	"audiences": "users",
	"settings":  "settings",
	"reports":   "bar-chart",
	"admin":     "shield",
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg     Config
	emitter *activitypkg.Emitter
}

// New creates an Admin helper that can seed dashboard menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableDashboard && cfg.Service == nil {
		return nil, errors.New("goadmin: dashboard service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.DefaultMenuItem.Label == "" {
		cfg.DefaultMenuItem.Label = "Communications"
	}
	if cfg.DefaultMenuItem.Route == "" {
		cfg.DefaultMenuItem.Route = "admin.dashboard"
	}
	if cfg.DefaultMenuItem.Icon == "" {
		cfg.DefaultMenuItem.Icon = "message-circle"
	}
	return &Admin{
		cfg:     cfg,
		emitter: activitypkg.NewEmitter(cfg.ActivityHooks, cfg.ActivityConfig),
	}, nil
}

// Dashboard exposes the configured dashboard service when enabled.
func (a *Admin) Dashboard() *dashboardpkg.Service {
	if !a.cfg.EnableDashboard {
		return nil
	}
	return a.cfg.Service
}

// MenuItems lists the root entry followed by one child per dashboard section.
func (a *Admin) MenuItems() []MenuItem {
	root := a.cfg.DefaultMenuItem
	items := []MenuItem{root}
	if a.cfg.Service == nil {
		return items
	}
	for i, section := range a.cfg.Service.Sections() {
		icon := a.cfg.SectionIcons[section.Code]
		if icon == "" {
			icon = defaultSectionIcons[section.Code]
		}
		items = append(items, MenuItem{
			Label:    section.Label,
			Route:    path.Join(root.Route, section.Code),
			Icon:     icon,
			Position: root.Position + i + 1,
			Parent:   root.Route,
		})
	}
	return items
}

// Bootstrap seeds menu entries when dashboard support is enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableDashboard || a.cfg.MenuBuilder == nil {
		return nil
	}
	items := a.MenuItems()
	for _, item := range items {
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			return err
		}
	}
	if a.emitter.Enabled() {
		return a.emitter.Emit(ctx, activitypkg.Event{
			Verb:       "admin.menu.seeded",
			ObjectType: "menu",
			ObjectID:   a.cfg.MenuCode,
			Metadata:   map[string]any{"items": len(items)},
		})
	}
	return nil
}

// LogMenuBuilder logs menu entries instead of persisting them. It stands in
// for a real admin menu store in local setups.
type LogMenuBuilder struct {
	Logger logrus.FieldLogger
}

// EnsureMenuItem implements MenuBuilder.
func (b LogMenuBuilder) EnsureMenuItem(_ context.Context, menuCode string, item MenuItem) error {
	logger := b.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger.WithFields(logrus.Fields{
		"menu":     menuCode,
		"label":    item.Label,
		"route":    item.Route,
		"icon":     item.Icon,
		"position": item.Position,
		"parent":   item.Parent,
	}).Info("menu item ensured")
	return nil
}

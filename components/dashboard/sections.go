package dashboard

import (
	"fmt"
	"slices"
	"time"
)

// View codes.
const (
	ViewCampaigns    = "campaigns"
	ViewTemplates    = "templates"
	ViewAudiences    = "audiences"
	ViewChannels     = "channels"
	ViewAlerts       = "alerts"
	ViewAuditLogs    = "audit_logs"
	ViewUsers        = "users"
	ViewJobs         = "jobs"
	ViewSystemHealth = "system_health"
	ViewLiveFeed     = "live_feed"
)

// Panel codes.
const (
	PanelOverview     = "overview"
	PanelDailyTrend   = "daily_trend"
	PanelChannelUsage = "channel_usage"
	PanelCostAnalysis = "cost_analysis"
)

// SectionDefinition is one navigable area of the dashboard.
type SectionDefinition struct {
	Code        string   `json:"code" yaml:"code"`
	Label       string   `json:"label" yaml:"label"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Views       []string `json:"views,omitempty" yaml:"views,omitempty"`
	Panels      []string `json:"panels,omitempty" yaml:"panels,omitempty"`
	// LabelLocalized maps locales (en, es-mx) to labels.
	LabelLocalized map[string]string `json:"label_localized,omitempty" yaml:"label_localized,omitempty"`
}

// ViewDefinition tunes how a view loads and refreshes.
type ViewDefinition struct {
	Code            string        `json:"code" yaml:"code"`
	Label           string        `json:"label" yaml:"label"`
	Entity          string        `json:"entity" yaml:"entity"`
	Count           int           `json:"count" yaml:"count"`
	MinDelay        time.Duration `json:"min_delay" yaml:"min_delay"`
	MaxDelay        time.Duration `json:"max_delay" yaml:"max_delay"`
	RefreshInterval time.Duration `json:"refresh_interval,omitempty" yaml:"refresh_interval,omitempty"`
	WindowSize      int           `json:"window_size,omitempty" yaml:"window_size,omitempty"`
	BatchMin        int           `json:"batch_min,omitempty" yaml:"batch_min,omitempty"`
	BatchMax        int           `json:"batch_max,omitempty" yaml:"batch_max,omitempty"`
}

// Validate checks the bounds of a definition.
func (d ViewDefinition) Validate() error {
	if d.Code == "" {
		return fmt.Errorf("dashboard: view definition code is required")
	}
	if d.Count < 0 {
		return fmt.Errorf("dashboard: view %s count must not be negative", d.Code)
	}
	if d.MinDelay < 0 || d.MaxDelay < d.MinDelay {
		return fmt.Errorf("dashboard: view %s delay range %s-%s is invalid", d.Code, d.MinDelay, d.MaxDelay)
	}
	if d.RefreshInterval < 0 {
		return fmt.Errorf("dashboard: view %s refresh interval must not be negative", d.Code)
	}
	if d.WindowSize < 0 {
		return fmt.Errorf("dashboard: view %s window size must not be negative", d.Code)
	}
	if d.WindowSize > 0 && d.Count > d.WindowSize {
		return fmt.Errorf("dashboard: view %s count %d exceeds window size %d", d.Code, d.Count, d.WindowSize)
	}
	if d.BatchMax < d.BatchMin {
		return fmt.Errorf("dashboard: view %s batch range %d-%d is invalid", d.Code, d.BatchMin, d.BatchMax)
	}
	return nil
}

// PanelDefinition describes a chart or summary panel.
type PanelDefinition struct {
	Code        string         `json:"code" yaml:"code"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	ChartType   string         `json:"chart_type,omitempty" yaml:"chart_type,omitempty"`
	Config      map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// DefaultViewDefinitions returns the built-in view tuning.
func DefaultViewDefinitions() []ViewDefinition {
	return []ViewDefinition{
		{Code: ViewCampaigns, Label: "Campaigns", Entity: "campaign", Count: 20, MinDelay: ms(500), MaxDelay: ms(1500)},
		{Code: ViewTemplates, Label: "Templates", Entity: "template", Count: 15, MinDelay: ms(400), MaxDelay: ms(1200)},
		{Code: ViewAudiences, Label: "Audience Segments", Entity: "segment", Count: 10, MinDelay: ms(300), MaxDelay: ms(1000)},
		{Code: ViewChannels, Label: "Channel Configurations", Entity: "channel configuration", Count: 8, MinDelay: ms(300), MaxDelay: ms(1000)},
		{Code: ViewAlerts, Label: "Alert Rules", Entity: "rule", Count: 10, MinDelay: ms(300), MaxDelay: ms(1000)},
		{Code: ViewAuditLogs, Label: "Audit Logs", Entity: "audit entry", Count: 30, MinDelay: ms(400), MaxDelay: ms(1200)},
		{Code: ViewUsers, Label: "Users", Entity: "user", Count: 10, MinDelay: ms(300), MaxDelay: ms(1000)},
		{Code: ViewJobs, Label: "Scheduled Jobs", Entity: "job", Count: 10, MinDelay: ms(500), MaxDelay: ms(1500)},
		{Code: ViewSystemHealth, Label: "System Health", Entity: "metric", Count: 6, MinDelay: time.Second, MaxDelay: time.Second, RefreshInterval: 5 * time.Second},
		{Code: ViewLiveFeed, Label: "Live Messages", Entity: "message", Count: 15, RefreshInterval: 3 * time.Second, WindowSize: 15, BatchMin: 1, BatchMax: 3},
	}
}

// DefaultPanelDefinitions returns the built-in chart panels.
func DefaultPanelDefinitions() []PanelDefinition {
	return []PanelDefinition{
		{Code: PanelOverview, Name: "Communication Overview", Description: "Sent, delivered and engagement totals per channel"},
		{Code: PanelDailyTrend, Name: "Daily Volume", Description: "Messages sent per channel over the last days", ChartType: "line", Config: map[string]any{"days": 30}},
		{Code: PanelChannelUsage, Name: "Channel Usage", Description: "Share of sent messages per channel", ChartType: "pie"},
		{Code: PanelCostAnalysis, Name: "Cost Analysis", Description: "Monthly spend per channel", ChartType: "bar", Config: map[string]any{"months": 12}},
	}
}

// DefaultSections returns the navigation sections in display order.
func DefaultSections() []SectionDefinition {
	return []SectionDefinition{
		{Code: "dashboard", Label: "Dashboard", Description: "Communication overview", Panels: []string{PanelOverview, PanelDailyTrend, PanelChannelUsage}},
		{Code: "campaigns", Label: "Campaigns", Views: []string{ViewCampaigns}},
		{Code: "templates", Label: "Templates", Views: []string{ViewTemplates}},
		{Code: "audiences", Label: "Audiences", Views: []string{ViewAudiences}},
		{Code: "settings", Label: "Settings", Description: "Channel gateways and alerting", Views: []string{ViewChannels, ViewAlerts}},
		{Code: "reports", Label: "Reports", Description: "Cost and audit reporting", Views: []string{ViewAuditLogs}, Panels: []string{PanelCostAnalysis}},
		{Code: "admin", Label: "Admin", Description: "Users, jobs and live operations", Views: []string{ViewUsers, ViewJobs, ViewSystemHealth, ViewLiveFeed}},
	}
}

// ViewEnv carries what a ViewFactory needs to assemble a view. A non-nil
// Loader replaces the generator as the source of table views.
type ViewEnv struct {
	Definition ViewDefinition
	Generator  *Generator
	Scheduler  Scheduler
	Loader     CollectionLoader
	OnEvent    func(ViewEvent)
}

// ViewFactory builds an idle view for one session.
type ViewFactory func(env ViewEnv) ViewHandle

var defaultViewFactories = map[string]ViewFactory{
	ViewCampaigns: func(env ViewEnv) ViewHandle {
		return newGeneratedView(env, env.Generator.Campaigns, CampaignSchema(), true, nil)
	},
	ViewTemplates: func(env ViewEnv) ViewHandle {
		return newGeneratedView(env, env.Generator.Templates, TemplateSchema(), true, nil)
	},
	ViewAudiences: func(env ViewEnv) ViewHandle {
		return newGeneratedView(env, env.Generator.AudienceSegments, AudienceSchema(), true, nil)
	},
	ViewChannels: func(env ViewEnv) ViewHandle {
		return newGeneratedView(env, env.Generator.ChannelConfigurations, ChannelSchema(), true, nil)
	},
	ViewAlerts: func(env ViewEnv) ViewHandle {
		view := newGeneratedView(env, env.Generator.AlertRules, AlertSchema(), true, &Toggle[AlertRule]{
			Field: "status",
			Apply: func(r AlertRule) (AlertRule, bool) {
				next, ok := r.Status.Toggled()
				r.Status = next
				return r, ok
			},
		})
		view.cfg.Prompt = func(r AlertRule) string { return fmt.Sprintf("Delete rule %q?", r.Name) }
		return view
	},
	ViewAuditLogs: func(env ViewEnv) ViewHandle {
		return newGeneratedView(env, env.Generator.AuditLogs, AuditSchema(), false, nil)
	},
	ViewUsers: func(env ViewEnv) ViewHandle {
		return newGeneratedView(env, env.Generator.UserProfiles, UserSchema(), true, &Toggle[UserProfile]{
			Field: "status",
			Apply: func(u UserProfile) (UserProfile, bool) {
				next, ok := u.Status.Toggled()
				u.Status = next
				return u, ok
			},
		})
	},
	ViewJobs: func(env ViewEnv) ViewHandle {
		return newGeneratedView(env, env.Generator.ScheduledJobs, JobSchema(), true, &Toggle[ScheduledJob]{
			Field: "status",
			Apply: func(j ScheduledJob) (ScheduledJob, bool) {
				next, ok := j.Status.Toggled()
				j.Status = next
				return j, ok
			},
		})
	},
	ViewSystemHealth: newHealthView,
	ViewLiveFeed:     newLiveFeedView,
}

func newGeneratedView[T Record](env ViewEnv, generate func(int) []T, schema Schema[T], deletable bool, toggle *Toggle[T]) *View[T] {
	source := GeneratedSource(generate)
	if env.Loader != nil {
		source = JSONSource[T](env.Loader, env.Definition.Code)
	}
	return NewView(viewConfig(env, source, schema, deletable, toggle))
}

func viewConfig[T Record](env ViewEnv, source Source[T], schema Schema[T], deletable bool, toggle *Toggle[T]) ViewConfig[T] {
	def := env.Definition
	return ViewConfig[T]{
		Definition: def,
		Source:     source,
		Schema:     schema,
		Deletable:  deletable,
		Toggle:     toggle,
		Delay:      func() time.Duration { return env.Generator.Delay(def.MinDelay, def.MaxDelay) },
		Scheduler:  env.Scheduler,
		Now:        env.Generator.Now,
		OnEvent:    env.OnEvent,
	}
}

// newHealthView replaces every metric on each refresh tick. Metrics are
// generated when loading completes, so a loaded grid is never empty.
func newHealthView(env ViewEnv) ViewHandle {
	gen := env.Generator
	cfg := viewConfig(env, GeneratedSource(func(int) []SystemHealthMetric {
		return gen.SystemHealthMetrics()
	}), HealthSchema(), false, nil)
	cfg.Refresh = func([]SystemHealthMetric) []SystemHealthMetric {
		return gen.SystemHealthMetrics()
	}
	return NewView(cfg)
}

// newLiveFeedView prepends a small batch on every tick and keeps a bounded
// window of the newest messages.
func newLiveFeedView(env ViewEnv) ViewHandle {
	gen := env.Generator
	def := env.Definition
	window := def.WindowSize
	if window <= 0 {
		window = 15
	}
	batchMin, batchMax := max(def.BatchMin, 1), max(def.BatchMax, 1)
	seed := GeneratedSource(func(count int) []LiveMessage {
		return PrependWindow(nil, gen.LiveMessages(count), window)
	})
	cfg := viewConfig(env, seed, LiveMessageSchema(), false, nil)
	cfg.Refresh = func(current []LiveMessage) []LiveMessage {
		return PrependWindow(gen.LiveMessageBatch(gen.IntBetween(batchMin, batchMax), gen.Now()), current, window)
	}
	return NewView(cfg)
}

// PrependWindow returns batch followed by current, truncated to window items.
func PrependWindow[T any](batch, current []T, window int) []T {
	next := make([]T, 0, len(batch)+len(current))
	next = append(next, batch...)
	next = append(next, current...)
	if window >= 0 && len(next) > window {
		next = slices.Clip(next[:window])
	}
	return next
}

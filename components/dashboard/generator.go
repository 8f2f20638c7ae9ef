package dashboard

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

const day = 24 * time.Hour

// ErrUnknownEntity is returned when a generator is asked for an entity it cannot produce.
var ErrUnknownEntity = errors.New("dashboard: unknown entity")

// Source loads a collection for a view. Generated sources never fail; the
// error return is there for real backends.
type Source[T any] interface {
	Load(ctx context.Context, count int) ([]T, error)
}

// SourceFunc adapts a function into a Source.
type SourceFunc[T any] func(ctx context.Context, count int) ([]T, error)

// Load implements Source.
func (f SourceFunc[T]) Load(ctx context.Context, count int) ([]T, error) {
	return f(ctx, count)
}

// GeneratedSource wraps an infallible generator func.
func GeneratedSource[T any](generate func(count int) []T) Source[T] {
	return SourceFunc[T](func(_ context.Context, count int) ([]T, error) {
		return generate(count), nil
	})
}

// GeneratorOptions injects the randomness and clock used by a Generator.
type GeneratorOptions struct {
	Rand *rand.Rand
	Now  func() time.Time
}

// Generator produces synthetic records. Every collection satisfies the
// entity invariants by derivation order: the base magnitude is drawn first
// and dependent bounded fields are derived from it.
type Generator struct {
	mu         sync.Mutex
	rnd        *rand.Rand
	now        func() time.Time
	messageSeq int
}

// NewGenerator builds a generator, seeding from the wall clock when no
// randomness source is supplied.
func NewGenerator(opts GeneratorOptions) *Generator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed>>7|1))
	}
	return &Generator{rnd: opts.Rand, now: opts.Now}
}

// NewSeededGenerator returns a reproducible generator.
func NewSeededGenerator(seed uint64, now func() time.Time) *Generator {
	return NewGenerator(GeneratorOptions{
		Rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		Now:  now,
	})
}

// Now returns the generator clock.
func (g *Generator) Now() time.Time {
	return g.now()
}

// IntBetween returns a uniform value in [min, max].
func (g *Generator) IntBetween(min, max int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.intRange(min, max+1)
}

// Delay returns a uniform duration in [min, max].
func (g *Generator) Delay(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return min + time.Duration(g.rnd.Int64N(int64(max-min)+1))
}

// intRange draws from [min, max). It returns min when the range is empty.
func (g *Generator) intRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rnd.IntN(max-min)
}

func (g *Generator) floatRange(min, max float64) float64 {
	return min + g.rnd.Float64()*(max-min)
}

func (g *Generator) coin() bool {
	return g.rnd.Float64() > 0.5
}

func pick[T any](g *Generator, values []T) T {
	return values[g.intRange(0, len(values))]
}

func round(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}

var (
	campaignAudiences = []string{"All Customers", "High-Value Segment", "Savings Account Holders", "Loan Applicants", "New Customers", "Credit Card Users"}
	campaignCreators  = []string{"admin@bank.com", "marketing@bank.com", "john.doe@bank.com"}

	templateCategories = []string{"Promotional", "Transactional", "Alerts", "Marketing", "Onboarding", "Security"}
	templateCreators   = []string{"admin@bank.com", "designer@bank.com"}
	templateTags       = []string{"promotional", "account", "security", "alert", "loan", "savings", "credit card", "marketing", "welcome"}

	segmentCriteria = []string{
		"Age > 25", "Has Savings Account", "Credit Score > 700", "Active Loan",
		"Last Login < 30 days", "High Net Worth", "New Customer (last 90 days)",
		"Resides in specific region (e.g., California)", "Opted-in for Promotions",
		"Monthly Spend > $1000", "No Credit Card",
	}
	segmentCreators = []string{"admin@bank.com", "marketing@bank.com"}

	auditUsers       = []string{"admin@bank.com", "manager@bank.com", "analyst@bank.com", "dev@bank.com", "auditor@bank.com"}
	auditActions     = []string{"Created Campaign", "Updated Template", "Deleted Segment", "Changed Channel Config", "Exported Report", "Logged In", "Scheduled Message", "Approved Campaign", "Deactivated User"}
	auditEntityTypes = []string{"Campaign", "Template", "Audience Segment", "Channel Configuration", "User", "Report"}

	channelProviders = map[Channel][]string{
		ChannelEmail: {"SendGrid", "Mailgun", "AWS SES", "Google SMTP"},
		ChannelSMS:   {"Twilio", "Nexmo", "Sinch", "Vonage SMS"},
		ChannelVoice: {"Twilio Voice", "Vonage Voice", "Plivo"},
	}
	channelRegions = []string{"us-east-1", "eu-west-1", "ap-southeast-2"}

	alertMetrics   = []string{"emailDeliverability", "smsDeliverability", "emailBounceRate", "smsFailureRate", "campaignCostExceeded", "templateUsageDrop", "apiLatency"}
	alertOperators = []AlertOperator{OperatorGreaterThan, OperatorLessThan}

	jobSchedules = []string{"daily at 03:00 AM", "weekly (Mon 02:00 AM)", "monthly (1st 01:00 AM)", "hourly", "CRON * * * * *"}
	jobCreators  = []string{"system", "admin@bank.com", "analyst@bank.com"}
)

// ProvidersFor returns the gateway providers available for a channel.
func ProvidersFor(channel Channel) []string {
	return slices.Clone(channelProviders[channel])
}

// Campaigns generates count campaigns ordered by lastModified descending.
func (g *Generator) Campaigns(count int) []Campaign {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	out := make([]Campaign, 0, max(count, 0))
	for i := 0; i < count; i++ {
		status := pick(g, CampaignStatuses)
		channel := pick(g, CampaignChannels)
		start := now.Add(-time.Duration(g.intRange(0, 90)) * day)
		end := start.Add(time.Duration(g.intRange(7, 30)) * day)
		totalSent := g.intRange(50000, 500000)
		delivered := int(float64(totalSent) * g.floatRange(0.98, 0.999))

		var rate float64
		switch channel {
		case CampaignEmail:
			rate = g.floatRange(0.001, 0.005)
		case CampaignSMS:
			rate = g.floatRange(0.01, 0.05)
		default:
			rate = g.floatRange(0.1, 0.3)
		}

		campaign := Campaign{
			ID:             fmt.Sprintf("CAMP-%d", 1000+i),
			Name:           fmt.Sprintf("Q%d %d %s Promo %d", g.intRange(1, 4), now.Year(), channel, i+1),
			Status:         status,
			Channel:        channel,
			StartDate:      start,
			EndDate:        end,
			TargetAudience: pick(g, campaignAudiences),
			TotalSent:      totalSent,
			Delivered:      delivered,
			Cost:           round(float64(totalSent)*rate, 2),
			Creator:        pick(g, campaignCreators),
		}
		if channel == CampaignEmail {
			open := g.floatRange(15, 40)
			click := g.floatRange(1, 10)
			campaign.OpenRate = &open
			campaign.ClickRate = &click
		}
		elapsed := int(now.Sub(start) / time.Second)
		campaign.LastModified = start.Add(time.Duration(g.intRange(0, elapsed+1)) * time.Second)
		out = append(out, campaign)
	}
	slices.SortStableFunc(out, func(a, b Campaign) int { return b.LastModified.Compare(a.LastModified) })
	return out
}

// Templates generates count templates ordered by lastModified descending.
func (g *Generator) Templates(count int) []Template {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	out := make([]Template, 0, max(count, 0))
	for i := 0; i < count; i++ {
		channel := pick(g, Channels)
		category := pick(g, templateCategories)
		tags := make([]string, 0, 2)
		for n := g.intRange(1, 3); n > 0; n-- {
			tag := pick(g, templateTags)
			if !slices.Contains(tags, tag) {
				tags = append(tags, tag)
			}
		}
		tpl := Template{
			ID:           fmt.Sprintf("TPL-%d", 1000+i),
			Name:         fmt.Sprintf("%s Template %d: %s message", channel, i+1, category),
			Channel:      channel,
			PreviewText:  fmt.Sprintf("This is a short preview of the %s message content for template %d regarding %s...", channel, i+1, strings.ToLower(category)),
			ContentText:  fmt.Sprintf("Hello {{customer_name}}, This is a %s message for %s. More details available online.", channel, category),
			LastModified: now.Add(-time.Duration(g.intRange(0, 60)) * day),
			Version:      g.intRange(1, 5),
			Status:       pick(g, TemplateStatuses),
			Category:     category,
			Tags:         tags,
			CreatedBy:    pick(g, templateCreators),
		}
		if channel == ChannelEmail {
			tpl.Subject = fmt.Sprintf("Your Bank Update #%d - Important Info", i+1)
			tpl.ContentHTML = fmt.Sprintf("<p>Hello {{customer_name}},</p><p>This is a detailed HTML email for %s.</p>", category)
		}
		out = append(out, tpl)
	}
	slices.SortStableFunc(out, func(a, b Template) int { return b.LastModified.Compare(a.LastModified) })
	return out
}

// AudienceSegments generates count segments ordered by lastUpdated descending.
func (g *Generator) AudienceSegments(count int) []AudienceSegment {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	out := make([]AudienceSegment, 0, max(count, 0))
	for i := 0; i < count; i++ {
		criteria := make([]string, 0, 2)
		for n := g.intRange(1, 3); n > 0; n-- {
			criteria = append(criteria, pick(g, segmentCriteria))
		}
		out = append(out, AudienceSegment{
			ID:          fmt.Sprintf("SEG-%d", 1000+i),
			Name:        fmt.Sprintf("Segment %d - %s", i+1, strings.Fields(criteria[0])[0]),
			Description: fmt.Sprintf("Customers matching criteria: %s. Automatically updated every 24 hours.", strings.Join(criteria, ", ")),
			Criteria:    criteria,
			MemberCount: g.intRange(10000, 500000),
			LastUpdated: now.Add(-time.Duration(g.intRange(0, 30)) * day),
			CreatedBy:   pick(g, segmentCreators),
			IsDynamic:   g.coin(),
		})
	}
	slices.SortStableFunc(out, func(a, b AudienceSegment) int { return b.LastUpdated.Compare(a.LastUpdated) })
	return out
}

// AuditLogs generates count entries from the last seven days, newest first.
func (g *Generator) AuditLogs(count int) []AuditLogEntry {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	window := int((7 * day) / time.Millisecond)
	out := make([]AuditLogEntry, 0, max(count, 0))
	for i := 0; i < count; i++ {
		timestamp := now.Add(-time.Duration(g.intRange(0, window)) * time.Millisecond)
		action := pick(g, auditActions)
		entityType := pick(g, auditEntityTypes)
		out = append(out, AuditLogEntry{
			ID:         fmt.Sprintf("AUDIT-%d", 1000+i),
			Timestamp:  timestamp,
			User:       pick(g, auditUsers),
			Action:     action,
			Details:    fmt.Sprintf("%s on %s ID: %d by %s.", action, entityType, g.intRange(1000, 2000), pick(g, auditUsers)),
			EntityType: entityType,
			EntityID:   fmt.Sprintf("%s-%d", strings.ToUpper(entityType[:3]), g.intRange(1000, 2000)),
			IPAddress:  fmt.Sprintf("192.168.%d.%d", g.intRange(0, 255), g.intRange(0, 255)),
		})
	}
	slices.SortStableFunc(out, func(a, b AuditLogEntry) int { return b.Timestamp.Compare(a.Timestamp) })
	return out
}

// ChannelConfigurations generates count gateways ordered by name.
func (g *Generator) ChannelConfigurations(count int) []ChannelConfiguration {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	out := make([]ChannelConfiguration, 0, max(count, 0))
	for i := 0; i < count; i++ {
		kind := pick(g, Channels)
		provider := pick(g, channelProviders[kind])
		dailyLimit := g.intRange(100000, 1000000)
		usage := g.intRange(0, dailyLimit)

		settings := map[string]string{"region": pick(g, channelRegions)}
		switch kind {
		case ChannelSMS:
			settings["senderId"] = fmt.Sprintf("BANKMSG%d", g.intRange(100, 999))
		case ChannelEmail:
			settings["emailDomain"] = fmt.Sprintf("mail.bank%d.com", g.intRange(1, 3))
		case ChannelVoice:
			settings["callForwarding"] = strconv.FormatBool(g.coin())
		}

		out = append(out, ChannelConfiguration{
			ID:                fmt.Sprintf("CHANNEL-%d", 100+i),
			Name:              fmt.Sprintf("%s %s Gateway", provider, kind),
			Type:              kind,
			Status:            pick(g, ActivationStatuses),
			Provider:          provider,
			APIKeyPreview:     "sk_" + strings.Repeat("x", g.intRange(4, 8)) + "..." + strings.Repeat("y", 4),
			DailyLimit:        dailyLimit,
			CurrentDailyUsage: usage,
			LastTested:        now.Add(-time.Duration(g.intRange(0, 7)) * day),
			Settings:          settings,
		})
	}
	slices.SortStableFunc(out, func(a, b ChannelConfiguration) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// AlertRules generates count rules ordered by name.
func (g *Generator) AlertRules(count int) []AlertRule {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	out := make([]AlertRule, 0, max(count, 0))
	for i := 0; i < count; i++ {
		metric := pick(g, alertMetrics)
		operator := pick(g, alertOperators)
		threshold := g.floatRange(1, 100)
		switch {
		case strings.Contains(metric, "Latency"):
			threshold = g.floatRange(100, 500)
		case strings.Contains(metric, "CostExceeded"):
			threshold = g.floatRange(1000, 10000)
		}
		threshold = round(threshold, 1)
		status := pick(g, RuleStatuses)

		direction := "above"
		if operator == OperatorLessThan {
			direction = "below"
		}
		formatted := strconv.FormatFloat(threshold, 'f', -1, 64)
		rule := AlertRule{
			ID:          fmt.Sprintf("ALERT-%d", 1000+i),
			Name:        fmt.Sprintf("Alert for %s %s %s%s", metric, operator.Symbol(), formatted, metricUnit(metric)),
			Metric:      metric,
			Threshold:   threshold,
			Operator:    operator,
			Channel:     pick(g, AlertChannels),
			Status:      status,
			Severity:    pick(g, Severities),
			Description: fmt.Sprintf("Triggers when %s goes %s %s.", metric, direction, formatted),
		}
		if status == RuleActive && g.coin() {
			triggered := now.Add(-time.Duration(g.intRange(0, 7)) * day)
			rule.LastTriggered = &triggered
		}
		out = append(out, rule)
	}
	slices.SortStableFunc(out, func(a, b AlertRule) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

func metricUnit(metric string) string {
	switch {
	case strings.Contains(metric, "Rate"), strings.Contains(metric, "Deliverability"):
		return "%"
	case strings.Contains(metric, "Cost"):
		return "$"
	case strings.Contains(metric, "Latency"):
		return "ms"
	default:
		return ""
	}
}

// UserProfiles generates count users ordered by name.
func (g *Generator) UserProfiles(count int) []UserProfile {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	out := make([]UserProfile, 0, max(count, 0))
	for i := 0; i < count; i++ {
		role := pick(g, Roles)
		first := fmt.Sprintf("User%d", i+1)
		out = append(out, UserProfile{
			ID:          fmt.Sprintf("USER-%d", 1000+i),
			Name:        first + " Bank",
			Email:       strings.ToLower(first) + ".bank@bank.com",
			Role:        role,
			LastLogin:   now.Add(-time.Duration(g.intRange(0, 30)) * day),
			Status:      pick(g, ActivationStatuses),
			Permissions: PermissionsForRole(role),
		})
	}
	slices.SortStableFunc(out, func(a, b UserProfile) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// ScheduledJobs generates count jobs ordered by nextRun descending.
func (g *Generator) ScheduledJobs(count int) []ScheduledJob {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	out := make([]ScheduledJob, 0, max(count, 0))
	for i := 0; i < count; i++ {
		kind := pick(g, JobTypes)
		schedule := pick(g, jobSchedules)
		lastRun := now.Add(-time.Duration(g.intRange(0, 14)) * day)
		nextRun := lastRun.Add(time.Duration(g.intRange(1, 7)) * day)
		out = append(out, ScheduledJob{
			ID:        fmt.Sprintf("JOB-%d", 1000+i),
			Name:      fmt.Sprintf("%s - %s run", kind, schedule),
			Type:      kind,
			Status:    pick(g, JobStatuses),
			Schedule:  schedule,
			LastRun:   lastRun,
			NextRun:   nextRun,
			Details:   fmt.Sprintf("Job details for %s %d. This job ensures %s.", kind, i+1, jobPurpose(kind)),
			CreatedBy: pick(g, jobCreators),
		})
	}
	slices.SortStableFunc(out, func(a, b ScheduledJob) int { return b.NextRun.Compare(a.NextRun) })
	return out
}

func jobPurpose(kind JobType) string {
	switch kind {
	case JobCampaignSend:
		return "timely delivery of messages"
	case JobReportGeneration:
		return "reports are up-to-date"
	default:
		return "data consistency and freshness"
	}
}

// Generate produces count records of the named entity. Entity names match
// the view codes.
func (g *Generator) Generate(entity string, count int) (any, error) {
	switch entity {
	case ViewCampaigns:
		return g.Campaigns(count), nil
	case ViewTemplates:
		return g.Templates(count), nil
	case ViewAudiences:
		return g.AudienceSegments(count), nil
	case ViewChannels:
		return g.ChannelConfigurations(count), nil
	case ViewAlerts:
		return g.AlertRules(count), nil
	case ViewAuditLogs:
		return g.AuditLogs(count), nil
	case ViewUsers:
		return g.UserProfiles(count), nil
	case ViewJobs:
		return g.ScheduledJobs(count), nil
	case ViewSystemHealth:
		return g.SystemHealthMetrics(), nil
	case ViewLiveFeed:
		return g.LiveMessages(count), nil
	case "daily_metrics":
		return g.DailyMetrics(count), nil
	case "cost_summaries":
		return g.CostSummaries(count), nil
	case "communication_summaries":
		return g.CommunicationSummaries(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
}

package dashboard

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestGeneratorSeedIsReproducible(t *testing.T) {
	a := newTestGenerator(42)
	b := newTestGenerator(42)

	ca, cb := a.Campaigns(10), b.Campaigns(10)
	for i := range ca {
		if ca[i].Name != cb[i].Name || ca[i].TotalSent != cb[i].TotalSent {
			t.Fatalf("campaign %d differs: %+v vs %+v", i, ca[i], cb[i])
		}
	}
	if a.Delay(0, time.Second) != b.Delay(0, time.Second) {
		t.Fatalf("expected identical delays for identical seeds")
	}
}

func TestGeneratorCampaignInvariants(t *testing.T) {
	campaigns := newTestGenerator(1).Campaigns(50)
	if len(campaigns) != 50 {
		t.Fatalf("expected 50 campaigns, got %d", len(campaigns))
	}
	ids := map[string]bool{}
	for i, c := range campaigns {
		if ids[c.ID] {
			t.Fatalf("duplicate id %s", c.ID)
		}
		ids[c.ID] = true
		if !c.Status.Valid() || !c.Channel.Valid() {
			t.Fatalf("invalid enums on %s: %s/%s", c.ID, c.Status, c.Channel)
		}
		if c.Delivered > c.TotalSent {
			t.Fatalf("%s delivered %d exceeds sent %d", c.ID, c.Delivered, c.TotalSent)
		}
		if c.EndDate.Before(c.StartDate) {
			t.Fatalf("%s ends before it starts", c.ID)
		}
		if c.LastModified.Before(c.StartDate) || c.LastModified.After(testEpoch) {
			t.Fatalf("%s lastModified %s outside [start, now]", c.ID, c.LastModified)
		}
		if (c.Channel == CampaignEmail) != (c.OpenRate != nil) {
			t.Fatalf("%s open rate presence does not match channel %s", c.ID, c.Channel)
		}
		if i > 0 && c.LastModified.After(campaigns[i-1].LastModified) {
			t.Fatalf("campaigns not sorted by lastModified desc at %d", i)
		}
	}
}

func TestGeneratorAuditLogsNewestFirstWithinWeek(t *testing.T) {
	entries := newTestGenerator(2).AuditLogs(40)
	if !slices.IsSortedFunc(entries, func(a, b AuditLogEntry) int { return b.Timestamp.Compare(a.Timestamp) }) {
		t.Fatalf("audit entries are not newest first")
	}
	for _, e := range entries {
		if testEpoch.Sub(e.Timestamp) > 7*day {
			t.Fatalf("%s older than seven days", e.ID)
		}
		if !strings.HasPrefix(e.Details, e.Action+" on ") {
			t.Fatalf("details %q do not start with action %q", e.Details, e.Action)
		}
	}
}

func TestGeneratorNameOrderedCollections(t *testing.T) {
	gen := newTestGenerator(3)
	channels := gen.ChannelConfigurations(12)
	if !slices.IsSortedFunc(channels, func(a, b ChannelConfiguration) int { return strings.Compare(a.Name, b.Name) }) {
		t.Fatalf("channel configurations not sorted by name")
	}
	for _, c := range channels {
		if c.CurrentDailyUsage > c.DailyLimit {
			t.Fatalf("%s usage %d above limit %d", c.ID, c.CurrentDailyUsage, c.DailyLimit)
		}
		if !slices.Contains(ProvidersFor(c.Type), c.Provider) {
			t.Fatalf("%s provider %s not offered for %s", c.ID, c.Provider, c.Type)
		}
	}
	users := gen.UserProfiles(12)
	for _, u := range users {
		if !slices.Equal(u.Permissions, PermissionsForRole(u.Role)) {
			t.Fatalf("%s permissions do not match role %s", u.ID, u.Role)
		}
	}
	jobs := gen.ScheduledJobs(12)
	for i, j := range jobs {
		if !j.NextRun.After(j.LastRun) {
			t.Fatalf("%s nextRun not after lastRun", j.ID)
		}
		if i > 0 && j.NextRun.After(jobs[i-1].NextRun) {
			t.Fatalf("jobs not sorted by nextRun desc")
		}
	}
}

func TestGeneratorSystemHealthMetrics(t *testing.T) {
	gen := newTestGenerator(4)
	for range 50 {
		metrics := gen.SystemHealthMetrics()
		if len(metrics) != 6 {
			t.Fatalf("expected 6 metrics, got %d", len(metrics))
		}
		for _, m := range metrics {
			if !m.Timestamp.Equal(testEpoch) {
				t.Fatalf("%s not stamped with the generator clock", m.Name)
			}
			if m.Name == "SMS Gateway Health" && (m.Value == 0) != (m.Status == HealthCritical) {
				t.Fatalf("gateway value %v inconsistent with status %s", m.Value, m.Status)
			}
		}
	}
}

func TestGeneratorLiveMessages(t *testing.T) {
	gen := newTestGenerator(5)
	seed := gen.LiveMessages(15)
	batch := gen.LiveMessageBatch(3, testEpoch)
	seen := map[string]bool{}
	for _, m := range append(seed, batch...) {
		if seen[m.ID] {
			t.Fatalf("duplicate message id %s", m.ID)
		}
		seen[m.ID] = true
		if m.Status.IsFailure() != (m.ErrorReason != "") {
			t.Fatalf("%s error reason %q inconsistent with status %s", m.ID, m.ErrorReason, m.Status)
		}
		if (m.Channel == ChannelEmail) != strings.HasSuffix(m.Recipient, "@bank.com") {
			t.Fatalf("%s recipient %q does not match channel %s", m.ID, m.Recipient, m.Channel)
		}
	}
	if batch[0].ID != "MSG-100015" {
		t.Fatalf("expected sequential ids after seed, got %s", batch[0].ID)
	}
}

func TestGeneratorReports(t *testing.T) {
	gen := newTestGenerator(6)
	costs := gen.CostSummaries(12)
	if len(costs) != 12 || costs[11].Month != "Jun 2025" || costs[0].Month != "Jul 2024" {
		t.Fatalf("unexpected cost months: first %q last %q", costs[0].Month, costs[len(costs)-1].Month)
	}
	for _, c := range costs {
		sum := math.Round((c.EmailCost+c.SMSCost+c.VoiceCost)*100) / 100
		if c.TotalCost != sum {
			t.Fatalf("%s total %v != %v", c.Month, c.TotalCost, sum)
		}
	}

	daily := gen.DailyMetrics(30)
	if len(daily) != 30 || daily[29].Date != "2025-06-01" {
		t.Fatalf("expected 30 days ending today, got %d ending %q", len(daily), daily[len(daily)-1].Date)
	}
	for _, d := range daily {
		if d.EmailDelivered > d.EmailSent || d.SMSDelivered > d.SMSSent {
			t.Fatalf("%s delivered exceeds sent", d.Date)
		}
	}

	for _, s := range gen.CommunicationSummaries() {
		if s.Delivered+s.Failed > s.Sent {
			t.Fatalf("%s delivered+failed exceeds sent", s.Channel)
		}
	}
}

func TestGeneratorGenerateUnknownEntity(t *testing.T) {
	_, err := newTestGenerator(7).Generate("invoices", 3)
	if !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("expected ErrUnknownEntity, got %v", err)
	}
	records, err := newTestGenerator(7).Generate(ViewTemplates, 3)
	if err != nil {
		t.Fatalf("generate templates: %v", err)
	}
	if got := len(records.([]Template)); got != 3 {
		t.Fatalf("expected 3 templates, got %d", got)
	}
}

func TestPrependWindow(t *testing.T) {
	got := PrependWindow([]int{1, 2}, []int{3, 4, 5}, 4)
	if !slices.Equal(got, []int{1, 2, 3, 4}) {
		t.Fatalf("unexpected window %v", got)
	}
	if got := PrependWindow(nil, []int{1}, 4); !slices.Equal(got, []int{1}) {
		t.Fatalf("unexpected window %v", got)
	}
}

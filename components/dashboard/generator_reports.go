package dashboard

import (
	"fmt"
	"slices"
	"time"
)

var liveFailureReasons = []string{"Invalid Number", "Blocked", "Content Violation", "Temporary Error", "Opted Out"}

// CommunicationSummaries returns one summary per channel. Delivered and
// failed are bounded by sent.
func (g *Generator) CommunicationSummaries() []CommunicationSummary {
	g.mu.Lock()
	defer g.mu.Unlock()

	summary := func(channel Channel, sentMin, sentMax, failMin, failMax int) CommunicationSummary {
		sent := g.intRange(sentMin, sentMax)
		delivered := int(float64(sent) * g.floatRange(0.98, 0.999))
		failed := min(g.intRange(failMin, failMax), sent-delivered)
		return CommunicationSummary{Channel: channel, Sent: sent, Delivered: delivered, Failed: failed}
	}
	rate := func(lo, hi float64) *float64 {
		v := round(g.floatRange(lo, hi), 2)
		return &v
	}

	email := summary(ChannelEmail, 1_200_000, 1_500_000, 1000, 5000)
	email.OpenRate = rate(20, 30)
	email.ClickRate = rate(2, 5)
	email.OptOutRate = rate(0.1, 0.5)

	sms := summary(ChannelSMS, 800_000, 900_000, 500, 2000)
	sms.OptOutRate = rate(0.05, 0.2)

	voice := summary(ChannelVoice, 40_000, 60_000, 100, 500)
	return []CommunicationSummary{email, sms, voice}
}

// DailyMetrics returns one entry per day ending today, oldest first.
func (g *Generator) DailyMetrics(days int) []DailyMetric {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	out := make([]DailyMetric, 0, max(days, 0))
	for i := days - 1; i >= 0; i-- {
		emailSent := g.intRange(40000, 60000)
		smsSent := g.intRange(25000, 35000)
		out = append(out, DailyMetric{
			Date:           today.AddDate(0, 0, -i).Format(time.DateOnly),
			EmailSent:      emailSent,
			SMSSent:        smsSent,
			VoiceMinutes:   g.intRange(1500, 2500),
			EmailDelivered: int(float64(emailSent) * g.floatRange(0.99, 0.999)),
			SMSDelivered:   int(float64(smsSent) * g.floatRange(0.99, 0.998)),
		})
	}
	return out
}

// CostSummaries returns months of spend ending with the current month.
// TotalCost is the sum of the rounded parts.
func (g *Generator) CostSummaries(months int) []CostSummary {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]CostSummary, 0, max(months, 0))
	for i := 0; i < months; i++ {
		month := first.AddDate(0, i-months+1, 0)
		email := round(g.floatRange(1000, 5000), 2)
		sms := round(g.floatRange(5000, 15000), 2)
		voice := round(g.floatRange(500, 2000), 2)
		out = append(out, CostSummary{
			Month:     month.Format("Jan 2006"),
			EmailCost: email,
			SMSCost:   sms,
			VoiceCost: voice,
			TotalCost: round(email+sms+voice, 2),
			Currency:  "USD",
		})
	}
	return out
}

// SystemHealthMetrics returns a fresh snapshot of the six platform metrics.
func (g *Generator) SystemHealthMetrics() []SystemHealthMetric {
	g.mu.Lock()
	defer g.mu.Unlock()
	at := g.now()

	warnAbove := func(pct float64) HealthStatus {
		if g.floatRange(0, 100) > pct {
			return HealthWarning
		}
		return HealthNormal
	}

	gateway := round(g.floatRange(95, 100), 2)
	gatewayStatus := HealthNormal
	if g.floatRange(0, 100) > 95 {
		gateway = 0
		gatewayStatus = HealthCritical
	}

	return []SystemHealthMetric{
		{Name: "API Latency", Value: round(g.floatRange(50, 200), 1), Unit: "ms", Status: warnAbove(90), Timestamp: at, Description: "Average response time for external API calls."},
		{Name: "Message Queue Size", Value: float64(g.intRange(10, 500)), Unit: "messages", Status: warnAbove(80), Timestamp: at, Description: "Number of messages waiting to be processed."},
		{Name: "Database Connections", Value: float64(g.intRange(20, 100)), Unit: "", Status: HealthNormal, Timestamp: at, Description: "Active connections to the database server."},
		{Name: "Service Uptime", Value: round(g.floatRange(99.9, 100), 2), Unit: "%", Status: HealthNormal, Timestamp: at, Description: "Percentage of time services have been operational."},
		{Name: "SMS Gateway Health", Value: gateway, Unit: "%", Status: gatewayStatus, Timestamp: at, Description: "Current health status of the primary SMS gateway."},
		{Name: "Email Send Rate", Value: float64(g.intRange(10000, 50000)), Unit: "/min", Status: HealthNormal, Timestamp: at, Description: "Current outgoing email volume per minute."},
	}
}

// LiveMessages seeds the feed with count messages from the last hour, newest first.
func (g *Generator) LiveMessages(count int) []LiveMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	window := int(time.Hour / time.Millisecond)
	out := make([]LiveMessage, 0, max(count, 0))
	for i := 0; i < count; i++ {
		out = append(out, g.liveMessage(now.Add(-time.Duration(g.intRange(0, window))*time.Millisecond)))
	}
	slices.SortStableFunc(out, func(a, b LiveMessage) int { return b.Timestamp.Compare(a.Timestamp) })
	return out
}

// LiveMessageBatch returns n messages stamped at the given instant.
func (g *Generator) LiveMessageBatch(n int, at time.Time) []LiveMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]LiveMessage, 0, max(n, 0))
	for i := 0; i < n; i++ {
		out = append(out, g.liveMessage(at))
	}
	return out
}

func (g *Generator) liveMessage(at time.Time) LiveMessage {
	channel := pick(g, Channels)
	status := pick(g, MessageStatuses)
	recipient := fmt.Sprintf("+1 (***) ***-%d", g.intRange(1000, 9999))
	if channel == ChannelEmail {
		recipient = fmt.Sprintf("****%d@bank.com", g.intRange(100, 999))
	}
	msg := LiveMessage{
		ID:        fmt.Sprintf("MSG-%d", 100000+g.messageSeq),
		Timestamp: at,
		Channel:   channel,
		Recipient: recipient,
		Status:    status,
	}
	g.messageSeq++
	if g.coin() {
		msg.CampaignID = fmt.Sprintf("CAMP-%d", g.intRange(1000, 2000))
	}
	if g.coin() {
		msg.TemplateID = fmt.Sprintf("TPL-%d", g.intRange(1000, 2000))
	}
	if status.IsFailure() {
		msg.ErrorReason = pick(g, liveFailureReasons)
	}
	return msg
}

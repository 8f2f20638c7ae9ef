package dashboard

import "time"

// Campaign is a bulk messaging campaign.
type Campaign struct {
	ID             string          `json:"id" yaml:"id"`
	Name           string          `json:"name" yaml:"name"`
	Status         CampaignStatus  `json:"status" yaml:"status"`
	Channel        CampaignChannel `json:"channel" yaml:"channel"`
	StartDate      time.Time       `json:"startDate" yaml:"startDate"`
	EndDate        time.Time       `json:"endDate" yaml:"endDate"`
	TargetAudience string          `json:"targetAudience" yaml:"targetAudience"`
	TotalSent      int             `json:"totalSent" yaml:"totalSent"`
	Delivered      int             `json:"delivered" yaml:"delivered"`
	OpenRate       *float64        `json:"openRate,omitempty" yaml:"openRate,omitempty"`
	ClickRate      *float64        `json:"clickRate,omitempty" yaml:"clickRate,omitempty"`
	Cost           float64         `json:"cost" yaml:"cost"`
	Creator        string          `json:"creator" yaml:"creator"`
	LastModified   time.Time       `json:"lastModified" yaml:"lastModified"`
}

// RecordID implements Record.
func (c Campaign) RecordID() string { return c.ID }

// RecordName implements Record.
func (c Campaign) RecordName() string { return c.Name }

// Template is a reusable message body.
type Template struct {
	ID           string         `json:"id" yaml:"id"`
	Name         string         `json:"name" yaml:"name"`
	Channel      Channel        `json:"channel" yaml:"channel"`
	Subject      string         `json:"subject,omitempty" yaml:"subject,omitempty"`
	PreviewText  string         `json:"previewText" yaml:"previewText"`
	ContentHTML  string         `json:"contentHtml,omitempty" yaml:"contentHtml,omitempty"`
	ContentText  string         `json:"contentText" yaml:"contentText"`
	LastModified time.Time      `json:"lastModified" yaml:"lastModified"`
	Version      int            `json:"version" yaml:"version"`
	Status       TemplateStatus `json:"status" yaml:"status"`
	Category     string         `json:"category" yaml:"category"`
	Tags         []string       `json:"tags" yaml:"tags"`
	CreatedBy    string         `json:"createdBy" yaml:"createdBy"`
}

func (t Template) RecordID() string   { return t.ID }
func (t Template) RecordName() string { return t.Name }

// AudienceSegment groups customers by ordered criteria.
type AudienceSegment struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Criteria    []string  `json:"criteria" yaml:"criteria"`
	MemberCount int       `json:"memberCount" yaml:"memberCount"`
	LastUpdated time.Time `json:"lastUpdated" yaml:"lastUpdated"`
	CreatedBy   string    `json:"createdBy" yaml:"createdBy"`
	IsDynamic   bool      `json:"isDynamic" yaml:"isDynamic"`
}

func (a AudienceSegment) RecordID() string   { return a.ID }
func (a AudienceSegment) RecordName() string { return a.Name }

// SegmentType reports Dynamic or Static.
func (a AudienceSegment) SegmentType() string {
	if a.IsDynamic {
		return "Dynamic"
	}
	return "Static"
}

// ChannelConfiguration describes a provider gateway for one channel.
type ChannelConfiguration struct {
	ID                string            `json:"id" yaml:"id"`
	Name              string            `json:"name" yaml:"name"`
	Type              Channel           `json:"type" yaml:"type"`
	Status            ActivationStatus  `json:"status" yaml:"status"`
	Provider          string            `json:"provider" yaml:"provider"`
	APIKeyPreview     string            `json:"apiKeyPreview" yaml:"apiKeyPreview"`
	DailyLimit        int               `json:"dailyLimit" yaml:"dailyLimit"`
	CurrentDailyUsage int               `json:"currentDailyUsage" yaml:"currentDailyUsage"`
	LastTested        time.Time         `json:"lastTested" yaml:"lastTested"`
	Settings          map[string]string `json:"settings" yaml:"settings"`
}

func (c ChannelConfiguration) RecordID() string   { return c.ID }
func (c ChannelConfiguration) RecordName() string { return c.Name }

// AlertRule raises a notification when a metric crosses its threshold.
type AlertRule struct {
	ID            string        `json:"id" yaml:"id"`
	Name          string        `json:"name" yaml:"name"`
	Metric        string        `json:"metric" yaml:"metric"`
	Threshold     float64       `json:"threshold" yaml:"threshold"`
	Operator      AlertOperator `json:"operator" yaml:"operator"`
	Channel       AlertChannel  `json:"channel" yaml:"channel"`
	Status        RuleStatus    `json:"status" yaml:"status"`
	Severity      Severity      `json:"severity" yaml:"severity"`
	LastTriggered *time.Time    `json:"lastTriggered,omitempty" yaml:"lastTriggered,omitempty"`
	Description   string        `json:"description" yaml:"description"`
}

func (a AlertRule) RecordID() string   { return a.ID }
func (a AlertRule) RecordName() string { return a.Name }

// AuditLogEntry is a single append-only audit record.
type AuditLogEntry struct {
	ID         string    `json:"id" yaml:"id"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	User       string    `json:"user" yaml:"user"`
	Action     string    `json:"action" yaml:"action"`
	Details    string    `json:"details" yaml:"details"`
	EntityType string    `json:"entityType,omitempty" yaml:"entityType,omitempty"`
	EntityID   string    `json:"entityId,omitempty" yaml:"entityId,omitempty"`
	IPAddress  string    `json:"ipAddress,omitempty" yaml:"ipAddress,omitempty"`
}

func (a AuditLogEntry) RecordID() string   { return a.ID }
func (a AuditLogEntry) RecordName() string { return a.Action }

// UserProfile is a dashboard operator account.
type UserProfile struct {
	ID          string           `json:"id" yaml:"id"`
	Name        string           `json:"name" yaml:"name"`
	Email       string           `json:"email" yaml:"email"`
	Role        Role             `json:"role" yaml:"role"`
	LastLogin   time.Time        `json:"lastLogin" yaml:"lastLogin"`
	Status      ActivationStatus `json:"status" yaml:"status"`
	Permissions []string         `json:"permissions" yaml:"permissions"`
}

func (u UserProfile) RecordID() string   { return u.ID }
func (u UserProfile) RecordName() string { return u.Name }

// ScheduledJob is a recurring background task.
type ScheduledJob struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Type      JobType   `json:"type" yaml:"type"`
	Status    JobStatus `json:"status" yaml:"status"`
	Schedule  string    `json:"schedule" yaml:"schedule"`
	LastRun   time.Time `json:"lastRun" yaml:"lastRun"`
	NextRun   time.Time `json:"nextRun" yaml:"nextRun"`
	Details   string    `json:"details,omitempty" yaml:"details,omitempty"`
	CreatedBy string    `json:"createdBy" yaml:"createdBy"`
}

func (j ScheduledJob) RecordID() string   { return j.ID }
func (j ScheduledJob) RecordName() string { return j.Name }

// SystemHealthMetric is keyed by Name; the collection is replaced on every refresh.
type SystemHealthMetric struct {
	Name        string       `json:"name" yaml:"name"`
	Value       float64      `json:"value" yaml:"value"`
	Unit        string       `json:"unit" yaml:"unit"`
	Status      HealthStatus `json:"status" yaml:"status"`
	Timestamp   time.Time    `json:"timestamp" yaml:"timestamp"`
	Description string       `json:"description" yaml:"description"`
}

func (m SystemHealthMetric) RecordID() string   { return m.Name }
func (m SystemHealthMetric) RecordName() string { return m.Name }

// LiveMessage is one delivery event in the live feed.
type LiveMessage struct {
	ID          string        `json:"id" yaml:"id"`
	Timestamp   time.Time     `json:"timestamp" yaml:"timestamp"`
	Channel     Channel       `json:"channel" yaml:"channel"`
	Recipient   string        `json:"recipient" yaml:"recipient"`
	Status      MessageStatus `json:"status" yaml:"status"`
	CampaignID  string        `json:"campaignId,omitempty" yaml:"campaignId,omitempty"`
	TemplateID  string        `json:"templateId,omitempty" yaml:"templateId,omitempty"`
	ErrorReason string        `json:"errorReason,omitempty" yaml:"errorReason,omitempty"`
}

func (m LiveMessage) RecordID() string   { return m.ID }
func (m LiveMessage) RecordName() string { return m.ID }

// CommunicationSummary aggregates delivery totals for one channel.
type CommunicationSummary struct {
	Channel    Channel  `json:"channel" yaml:"channel"`
	Sent       int      `json:"sent" yaml:"sent"`
	Delivered  int      `json:"delivered" yaml:"delivered"`
	Failed     int      `json:"failed" yaml:"failed"`
	OpenRate   *float64 `json:"openRate,omitempty" yaml:"openRate,omitempty"`
	ClickRate  *float64 `json:"clickRate,omitempty" yaml:"clickRate,omitempty"`
	OptOutRate *float64 `json:"optOutRate,omitempty" yaml:"optOutRate,omitempty"`
}

// DailyMetric holds per-day send volumes.
type DailyMetric struct {
	Date           string `json:"date" yaml:"date"`
	EmailSent      int    `json:"emailSent" yaml:"emailSent"`
	SMSSent        int    `json:"smsSent" yaml:"smsSent"`
	VoiceMinutes   int    `json:"voiceMinutes" yaml:"voiceMinutes"`
	EmailDelivered int    `json:"emailDelivered" yaml:"emailDelivered"`
	SMSDelivered   int    `json:"smsDelivered" yaml:"smsDelivered"`
}

// CostSummary breaks down one month of spend.
type CostSummary struct {
	Month     string  `json:"month" yaml:"month"`
	EmailCost float64 `json:"emailCost" yaml:"emailCost"`
	SMSCost   float64 `json:"smsCost" yaml:"smsCost"`
	VoiceCost float64 `json:"voiceCost" yaml:"voiceCost"`
	TotalCost float64 `json:"totalCost" yaml:"totalCost"`
	Currency  string  `json:"currency" yaml:"currency"`
}

// Record is implemented by every entity a View can hold.
type Record interface {
	RecordID() string
	RecordName() string
}

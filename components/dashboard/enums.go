package dashboard

import "slices"

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignScheduled CampaignStatus = "Scheduled"
	CampaignActive    CampaignStatus = "Active"
	CampaignCompleted CampaignStatus = "Completed"
	CampaignDraft     CampaignStatus = "Draft"
	CampaignPaused    CampaignStatus = "Paused"
)

// CampaignStatuses lists every campaign status in display order.
var CampaignStatuses = []CampaignStatus{CampaignScheduled, CampaignActive, CampaignCompleted, CampaignDraft, CampaignPaused}

func (s CampaignStatus) Valid() bool { return slices.Contains(CampaignStatuses, s) }

// CampaignChannel is the delivery channel of a campaign.
type CampaignChannel string

const (
	CampaignEmail        CampaignChannel = "Email"
	CampaignSMS          CampaignChannel = "SMS"
	CampaignVoice        CampaignChannel = "Voice"
	CampaignMultiChannel CampaignChannel = "Multi-Channel"
)

var CampaignChannels = []CampaignChannel{CampaignEmail, CampaignSMS, CampaignVoice, CampaignMultiChannel}

func (c CampaignChannel) Valid() bool { return slices.Contains(CampaignChannels, c) }

// Channel is a single messaging channel (templates, configs, live messages).
type Channel string

const (
	ChannelEmail Channel = "Email"
	ChannelSMS   Channel = "SMS"
	ChannelVoice Channel = "Voice"
)

var Channels = []Channel{ChannelEmail, ChannelSMS, ChannelVoice}

func (c Channel) Valid() bool { return slices.Contains(Channels, c) }

// TemplateStatus is the publication state of a template.
type TemplateStatus string

const (
	TemplateActive   TemplateStatus = "Active"
	TemplateArchived TemplateStatus = "Archived"
	TemplateDraft    TemplateStatus = "Draft"
)

var TemplateStatuses = []TemplateStatus{TemplateActive, TemplateArchived, TemplateDraft}

func (s TemplateStatus) Valid() bool { return slices.Contains(TemplateStatuses, s) }

// ActivationStatus is shared by channel configurations and user profiles.
type ActivationStatus string

const (
	StatusActive   ActivationStatus = "Active"
	StatusInactive ActivationStatus = "Inactive"
	StatusPending  ActivationStatus = "Pending"
)

var ActivationStatuses = []ActivationStatus{StatusActive, StatusInactive, StatusPending}

func (s ActivationStatus) Valid() bool { return slices.Contains(ActivationStatuses, s) }

// Toggled flips Active and Inactive. Pending has no complement.
func (s ActivationStatus) Toggled() (ActivationStatus, bool) {
	switch s {
	case StatusActive:
		return StatusInactive, true
	case StatusInactive:
		return StatusActive, true
	}
	return s, false
}

// AlertOperator compares a metric with its threshold.
type AlertOperator string

const (
	OperatorGreaterThan AlertOperator = "gt"
	OperatorLessThan    AlertOperator = "lt"
	OperatorEqual       AlertOperator = "eq"
)

var AlertOperators = []AlertOperator{OperatorGreaterThan, OperatorLessThan, OperatorEqual}

func (o AlertOperator) Valid() bool { return slices.Contains(AlertOperators, o) }

// Symbol renders the operator for display.
func (o AlertOperator) Symbol() string {
	switch o {
	case OperatorGreaterThan:
		return ">"
	case OperatorLessThan:
		return "<"
	default:
		return "="
	}
}

// AlertChannel is where an alert notification is delivered.
type AlertChannel string

const (
	AlertEmail     AlertChannel = "email"
	AlertSMS       AlertChannel = "sms"
	AlertDashboard AlertChannel = "dashboard"
	AlertSlack     AlertChannel = "slack"
)

var AlertChannels = []AlertChannel{AlertEmail, AlertSMS, AlertDashboard, AlertSlack}

func (c AlertChannel) Valid() bool { return slices.Contains(AlertChannels, c) }

// RuleStatus is the on/off state of an alert rule.
type RuleStatus string

const (
	RuleActive   RuleStatus = "Active"
	RuleInactive RuleStatus = "Inactive"
)

var RuleStatuses = []RuleStatus{RuleActive, RuleInactive}

func (s RuleStatus) Valid() bool { return slices.Contains(RuleStatuses, s) }

// Toggled returns the complement status.
func (s RuleStatus) Toggled() (RuleStatus, bool) {
	switch s {
	case RuleActive:
		return RuleInactive, true
	case RuleInactive:
		return RuleActive, true
	}
	return s, false
}

// Severity ranks alert rules.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

func (s Severity) Valid() bool { return slices.Contains(Severities, s) }

// Role grants a fixed permission set to a user profile.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleAnalyst Role = "Analyst"
	RoleViewer  Role = "Viewer"
	RoleAuditor Role = "Auditor"
)

var Roles = []Role{RoleAdmin, RoleManager, RoleAnalyst, RoleViewer, RoleAuditor}

func (r Role) Valid() bool { return slices.Contains(Roles, r) }

var rolePermissions = map[Role][]string{
	RoleAdmin:   {"all"},
	RoleManager: {"campaigns.*", "templates.*", "audiences.*", "reports.view"},
	RoleAnalyst: {"campaigns.view", "reports.*", "audiences.view"},
	RoleViewer:  {"campaigns.view", "reports.view"},
	RoleAuditor: {"auditlogs.view", "reports.view", "channelconfig.view"},
}

// PermissionsForRole returns a fresh copy of the permissions granted to role.
func PermissionsForRole(role Role) []string {
	return slices.Clone(rolePermissions[role])
}

// JobType classifies scheduled jobs.
type JobType string

const (
	JobCampaignSend     JobType = "CampaignSend"
	JobReportGeneration JobType = "ReportGeneration"
	JobDataSync         JobType = "DataSync"
	JobAlertCheck       JobType = "AlertCheck"
	JobAudienceRefresh  JobType = "AudienceRefresh"
)

var JobTypes = []JobType{JobCampaignSend, JobReportGeneration, JobDataSync, JobAlertCheck, JobAudienceRefresh}

func (t JobType) Valid() bool { return slices.Contains(JobTypes, t) }

// JobStatus is the run state of a scheduled job.
type JobStatus string

const (
	JobScheduled JobStatus = "Scheduled"
	JobRunning   JobStatus = "Running"
	JobCompleted JobStatus = "Completed"
	JobFailed    JobStatus = "Failed"
	JobPaused    JobStatus = "Paused"
)

var JobStatuses = []JobStatus{JobScheduled, JobRunning, JobCompleted, JobFailed, JobPaused}

func (s JobStatus) Valid() bool { return slices.Contains(JobStatuses, s) }

// Toggled pauses a scheduled job or puts a paused job back on the
// schedule. Running and finished jobs cannot be toggled.
func (s JobStatus) Toggled() (JobStatus, bool) {
	switch s {
	case JobScheduled:
		return JobPaused, true
	case JobPaused:
		return JobScheduled, true
	}
	return s, false
}

// HealthStatus grades a system health metric.
type HealthStatus string

const (
	HealthNormal   HealthStatus = "Normal"
	HealthWarning  HealthStatus = "Warning"
	HealthCritical HealthStatus = "Critical"
)

var HealthStatuses = []HealthStatus{HealthNormal, HealthWarning, HealthCritical}

func (s HealthStatus) Valid() bool { return slices.Contains(HealthStatuses, s) }

// MessageStatus is the delivery state of a live message.
type MessageStatus string

const (
	MessageSent      MessageStatus = "Sent"
	MessageDelivered MessageStatus = "Delivered"
	MessageFailed    MessageStatus = "Failed"
	MessageOpened    MessageStatus = "Opened"
	MessageClicked   MessageStatus = "Clicked"
	MessageBounced   MessageStatus = "Bounced"
)

var MessageStatuses = []MessageStatus{MessageSent, MessageDelivered, MessageFailed, MessageOpened, MessageClicked, MessageBounced}

func (s MessageStatus) Valid() bool { return slices.Contains(MessageStatuses, s) }

// IsFailure reports whether messages in this status carry an error reason.
func (s MessageStatus) IsFailure() bool {
	return s == MessageFailed || s == MessageBounced
}

func enumStrings[E ~string](values []E) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

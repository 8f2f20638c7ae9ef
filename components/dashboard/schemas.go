package dashboard

func values(v ...string) []string { return v }

// CampaignSchema filters campaigns by status and channel.
func CampaignSchema() Schema[Campaign] {
	return Schema[Campaign]{
		Categorical: []CategoricalField[Campaign]{
			{Name: "status", Label: "Status", Options: enumStrings(CampaignStatuses), Value: func(c Campaign) string { return string(c.Status) }},
			{Name: "channel", Label: "Channel", Options: enumStrings(CampaignChannels), Value: func(c Campaign) string { return string(c.Channel) }},
		},
		Searchable: []SearchField[Campaign]{
			{Name: "name", Values: func(c Campaign) []string { return values(c.Name) }},
			{Name: "target_audience", Values: func(c Campaign) []string { return values(c.TargetAudience) }},
			{Name: "creator", Values: func(c Campaign) []string { return values(c.Creator) }},
		},
	}
}

// TemplateSchema filters templates by channel and category; tags are searchable.
func TemplateSchema() Schema[Template] {
	return Schema[Template]{
		Categorical: []CategoricalField[Template]{
			{Name: "channel", Label: "Channel", Options: enumStrings(Channels), Value: func(t Template) string { return string(t.Channel) }},
			{Name: "category", Label: "Category", Options: templateCategories, Value: func(t Template) string { return t.Category }},
		},
		Searchable: []SearchField[Template]{
			{Name: "name", Values: func(t Template) []string { return values(t.Name) }},
			{Name: "subject", Values: func(t Template) []string { return values(t.Subject) }},
			{Name: "preview_text", Values: func(t Template) []string { return values(t.PreviewText) }},
			{Name: "created_by", Values: func(t Template) []string { return values(t.CreatedBy) }},
			{Name: "tags", Values: func(t Template) []string { return t.Tags }},
		},
	}
}

// AudienceSchema filters segments by Dynamic or Static.
func AudienceSchema() Schema[AudienceSegment] {
	return Schema[AudienceSegment]{
		Categorical: []CategoricalField[AudienceSegment]{
			{Name: "type", Label: "Type", Options: values("Dynamic", "Static"), Value: AudienceSegment.SegmentType},
		},
		Searchable: []SearchField[AudienceSegment]{
			{Name: "name", Values: func(a AudienceSegment) []string { return values(a.Name) }},
			{Name: "description", Values: func(a AudienceSegment) []string { return values(a.Description) }},
			{Name: "criteria", Values: func(a AudienceSegment) []string { return a.Criteria }},
			{Name: "created_by", Values: func(a AudienceSegment) []string { return values(a.CreatedBy) }},
		},
	}
}

// ChannelSchema filters gateways by type and status.
func ChannelSchema() Schema[ChannelConfiguration] {
	return Schema[ChannelConfiguration]{
		Categorical: []CategoricalField[ChannelConfiguration]{
			{Name: "type", Label: "Type", Options: enumStrings(Channels), Value: func(c ChannelConfiguration) string { return string(c.Type) }},
			{Name: "status", Label: "Status", Options: enumStrings(ActivationStatuses), Value: func(c ChannelConfiguration) string { return string(c.Status) }},
		},
		Searchable: []SearchField[ChannelConfiguration]{
			{Name: "name", Values: func(c ChannelConfiguration) []string { return values(c.Name) }},
			{Name: "provider", Values: func(c ChannelConfiguration) []string { return values(c.Provider) }},
			{Name: "api_key_preview", Values: func(c ChannelConfiguration) []string { return values(c.APIKeyPreview) }},
		},
	}
}

// AlertSchema filters alert rules by status and severity.
func AlertSchema() Schema[AlertRule] {
	return Schema[AlertRule]{
		Categorical: []CategoricalField[AlertRule]{
			{Name: "status", Label: "Status", Options: enumStrings(RuleStatuses), Value: func(a AlertRule) string { return string(a.Status) }},
			{Name: "severity", Label: "Severity", Options: enumStrings(Severities), Value: func(a AlertRule) string { return string(a.Severity) }},
		},
		Searchable: []SearchField[AlertRule]{
			{Name: "name", Values: func(a AlertRule) []string { return values(a.Name) }},
			{Name: "metric", Values: func(a AlertRule) []string { return values(a.Metric) }},
		},
	}
}

// AuditSchema derives its user and action options from the loaded entries.
func AuditSchema() Schema[AuditLogEntry] {
	user := func(a AuditLogEntry) string { return a.User }
	action := func(a AuditLogEntry) string { return a.Action }
	return Schema[AuditLogEntry]{
		Categorical: []CategoricalField[AuditLogEntry]{
			{Name: "user", Label: "User", Value: user, Derive: func(records []AuditLogEntry) []string { return DistinctValues(records, user) }},
			{Name: "action", Label: "Action", Value: action, Derive: func(records []AuditLogEntry) []string { return DistinctValues(records, action) }},
		},
		Searchable: []SearchField[AuditLogEntry]{
			{Name: "details", Values: func(a AuditLogEntry) []string { return values(a.Details) }},
			{Name: "user", Values: func(a AuditLogEntry) []string { return values(a.User) }},
			{Name: "entity_id", Values: func(a AuditLogEntry) []string { return values(a.EntityID) }},
		},
	}
}

// UserSchema filters users by role and status.
func UserSchema() Schema[UserProfile] {
	return Schema[UserProfile]{
		Categorical: []CategoricalField[UserProfile]{
			{Name: "role", Label: "Role", Options: enumStrings(Roles), Value: func(u UserProfile) string { return string(u.Role) }},
			{Name: "status", Label: "Status", Options: enumStrings(ActivationStatuses), Value: func(u UserProfile) string { return string(u.Status) }},
		},
		Searchable: []SearchField[UserProfile]{
			{Name: "name", Values: func(u UserProfile) []string { return values(u.Name) }},
			{Name: "email", Values: func(u UserProfile) []string { return values(u.Email) }},
		},
	}
}

// JobSchema filters jobs by status and type.
func JobSchema() Schema[ScheduledJob] {
	return Schema[ScheduledJob]{
		Categorical: []CategoricalField[ScheduledJob]{
			{Name: "status", Label: "Status", Options: enumStrings(JobStatuses), Value: func(j ScheduledJob) string { return string(j.Status) }},
			{Name: "type", Label: "Type", Options: enumStrings(JobTypes), Value: func(j ScheduledJob) string { return string(j.Type) }},
		},
		Searchable: []SearchField[ScheduledJob]{
			{Name: "name", Values: func(j ScheduledJob) []string { return values(j.Name) }},
			{Name: "details", Values: func(j ScheduledJob) []string { return values(j.Details) }},
		},
	}
}

// HealthSchema has no filters; the health grid always shows every metric.
func HealthSchema() Schema[SystemHealthMetric] {
	return Schema[SystemHealthMetric]{
		Searchable: []SearchField[SystemHealthMetric]{
			{Name: "name", Values: func(m SystemHealthMetric) []string { return values(m.Name) }},
		},
	}
}

// LiveMessageSchema filters the live feed by channel and status.
func LiveMessageSchema() Schema[LiveMessage] {
	return Schema[LiveMessage]{
		Categorical: []CategoricalField[LiveMessage]{
			{Name: "channel", Label: "Channel", Options: enumStrings(Channels), Value: func(m LiveMessage) string { return string(m.Channel) }},
			{Name: "status", Label: "Status", Options: enumStrings(MessageStatuses), Value: func(m LiveMessage) string { return string(m.Status) }},
		},
		Searchable: []SearchField[LiveMessage]{
			{Name: "recipient", Values: func(m LiveMessage) []string { return values(m.Recipient) }},
			{Name: "campaign_id", Values: func(m LiveMessage) []string { return values(m.CampaignID) }},
			{Name: "template_id", Values: func(m LiveMessage) []string { return values(m.TemplateID) }},
			{Name: "error_reason", Values: func(m LiveMessage) []string { return values(m.ErrorReason) }},
		},
	}
}

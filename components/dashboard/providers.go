package dashboard

import (
	"context"
	"errors"
	"time"
)

var errNoGenerator = errors.New("dashboard: panel requires a generator")

var defaultProviders = map[string]Provider{
	PanelOverview:     ProviderFunc(overviewPanel),
	PanelDailyTrend:   NewEChartsProvider("line", dailyTrendChart),
	PanelChannelUsage: NewEChartsProvider("pie", channelUsageChart),
	PanelCostAnalysis: NewEChartsProvider("bar", costAnalysisChart),
}

func overviewPanel(_ context.Context, meta PanelContext) (PanelData, error) {
	if meta.Generator == nil {
		return nil, errNoGenerator
	}
	summaries := meta.Generator.CommunicationSummaries()
	cards := make([]map[string]any, 0, len(summaries))
	var sent, delivered int
	for _, s := range summaries {
		sent += s.Sent
		delivered += s.Delivered
		card := map[string]any{
			"channel":       string(s.Channel),
			"sent":          FormatLargeNumber(float64(s.Sent)),
			"delivered":     FormatLargeNumber(float64(s.Delivered)),
			"failed":        FormatLargeNumber(float64(s.Failed)),
			"delivery_rate": formatPercent(deliveryRate(s.Delivered, s.Sent)),
		}
		if s.OpenRate != nil {
			card["open_rate"] = formatPercent(*s.OpenRate)
		}
		if s.ClickRate != nil {
			card["click_rate"] = formatPercent(*s.ClickRate)
		}
		if s.OptOutRate != nil {
			card["opt_out_rate"] = formatPercent(*s.OptOutRate)
		}
		cards = append(cards, card)
	}
	return PanelData{
		"title":           meta.Panel.Name,
		"cards":           cards,
		"total_sent":      FormatLargeNumber(float64(sent)),
		"total_delivered": FormatLargeNumber(float64(delivered)),
		"delivery_rate":   formatPercent(deliveryRate(delivered, sent)),
		"summaries":       summaries,
	}, nil
}

func deliveryRate(delivered, sent int) float64 {
	if sent == 0 {
		return 0
	}
	return float64(delivered) / float64(sent) * 100
}

func dailyTrendChart(_ context.Context, meta PanelContext) (ChartSpec, error) {
	if meta.Generator == nil {
		return ChartSpec{}, errNoGenerator
	}
	metrics := meta.Generator.DailyMetrics(intConfig(meta.Panel.Config, "days", 30))
	axis := make([]string, len(metrics))
	email := ChartSeries{Name: "Email Sent"}
	sms := ChartSeries{Name: "SMS Sent"}
	voice := ChartSeries{Name: "Voice Minutes"}
	for i, m := range metrics {
		if parsed, err := time.Parse(time.DateOnly, m.Date); err == nil {
			axis[i] = parsed.Format("Jan 2")
		} else {
			axis[i] = m.Date
		}
		email.Points = append(email.Points, ChartPoint{Label: axis[i], Value: float64(m.EmailSent)})
		sms.Points = append(sms.Points, ChartPoint{Label: axis[i], Value: float64(m.SMSSent)})
		voice.Points = append(voice.Points, ChartPoint{Label: axis[i], Value: float64(m.VoiceMinutes)})
	}
	return ChartSpec{XAxis: axis, Series: []ChartSeries{email, sms, voice}}, nil
}

func channelUsageChart(_ context.Context, meta PanelContext) (ChartSpec, error) {
	if meta.Generator == nil {
		return ChartSpec{}, errNoGenerator
	}
	usage := ChartSeries{Name: "Messages Sent"}
	for _, s := range meta.Generator.CommunicationSummaries() {
		usage.Points = append(usage.Points, ChartPoint{Label: string(s.Channel), Value: float64(s.Sent)})
	}
	return ChartSpec{Series: []ChartSeries{usage}}, nil
}

func costAnalysisChart(_ context.Context, meta PanelContext) (ChartSpec, error) {
	if meta.Generator == nil {
		return ChartSpec{}, errNoGenerator
	}
	costs := meta.Generator.CostSummaries(intConfig(meta.Panel.Config, "months", 12))
	axis := make([]string, len(costs))
	email := ChartSeries{Name: "Email"}
	sms := ChartSeries{Name: "SMS"}
	voice := ChartSeries{Name: "Voice"}
	var total float64
	for i, c := range costs {
		axis[i] = c.Month
		email.Points = append(email.Points, ChartPoint{Label: c.Month, Value: c.EmailCost})
		sms.Points = append(sms.Points, ChartPoint{Label: c.Month, Value: c.SMSCost})
		voice.Points = append(voice.Points, ChartPoint{Label: c.Month, Value: c.VoiceCost})
		total += c.TotalCost
	}
	return ChartSpec{
		Subtitle: "Total " + formatCurrency(round(total, 2)),
		XAxis:    axis,
		Series:   []ChartSeries{email, sms, voice},
		Stack:    "cost",
	}, nil
}

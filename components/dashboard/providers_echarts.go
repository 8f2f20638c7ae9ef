package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

// ChartSpec is the chart-type independent input of a rendered panel.
type ChartSpec struct {
	Title    string
	Subtitle string
	XAxis    []string
	Series   []ChartSeries
	// Stack groups every series into one stacked bar.
	Stack string
}

// ChartSeries represents a set of values plotted for a given legend entry.
type ChartSeries struct {
	Name   string
	Points []ChartPoint
}

// ChartPoint represents an individual value (optionally labeled).
type ChartPoint struct {
	Label string
	Value float64
}

// ChartSource builds the spec for a panel on a cache miss.
type ChartSource func(ctx context.Context, meta PanelContext) (ChartSpec, error)

// EChartsProvider renders server-side chart HTML for the given chart type.
type EChartsProvider struct {
	chartType  string
	source     ChartSource
	cache      RenderCache
	theme      string
	assetsHost string
}

// EChartsProviderOption customizes provider behavior.
type EChartsProviderOption func(*EChartsProvider)

// WithChartCache injects a render cache. Without one the provider falls
// back to the cache carried by the panel context.
func WithChartCache(cache RenderCache) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.cache = cache
	}
}

// WithChartTheme sets a static theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.theme = theme
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.assetsHost = host
	}
}

// NewEChartsProvider builds a provider for a specific chart type.
func NewEChartsProvider(chartType string, source ChartSource, opts ...EChartsProviderOption) *EChartsProvider {
	p := &EChartsProvider{
		chartType: strings.ToLower(chartType),
		source:    source,
		theme:     types.ThemeWesteros,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fetch renders the panel chart, memoized per session and panel.
func (p *EChartsProvider) Fetch(ctx context.Context, meta PanelContext) (PanelData, error) {
	if p.source == nil {
		return nil, fmt.Errorf("dashboard: chart %s has no data source", meta.Panel.Code)
	}
	title := meta.Panel.Name
	renderFn := func() (string, error) {
		spec, err := p.source(ctx, meta)
		if err != nil {
			return "", err
		}
		if spec.Title == "" {
			spec.Title = title
		}
		if len(spec.Series) == 0 {
			return "", fmt.Errorf("dashboard: chart %s series is required", meta.Panel.Code)
		}
		if len(spec.XAxis) == 0 {
			spec.XAxis = inferredAxisLabels(spec.Series)
		}
		return p.render(spec)
	}

	cache := p.cache
	if cache == nil {
		cache = meta.Cache
	}
	var (
		html string
		err  error
	)
	if cache != nil {
		html, err = cache.GetOrRender(ChartCacheKey(meta.SessionID, meta.Panel.Code, p.chartType), renderFn)
	} else {
		html, err = renderFn()
	}
	if err != nil {
		return nil, err
	}
	return PanelData{
		"chart_html": html,
		"chart_type": p.chartType,
		"title":      title,
		"subtitle":   meta.Panel.Description,
		"theme":      p.theme,
	}, nil
}

// ChartCacheKey scopes rendered charts to a session so teardown can purge them.
func ChartCacheKey(sessionID, panel, chartType string) string {
	return fmt.Sprintf("%s:%s:%s", sessionID, panel, chartType)
}

func (p *EChartsProvider) render(spec ChartSpec) (string, error) {
	switch p.chartType {
	case "bar":
		return p.renderBarChart(spec)
	case "line":
		return p.renderLineChart(spec)
	case "pie":
		return p.renderPieChart(spec)
	default:
		return "", fmt.Errorf("unsupported chart type: %s", p.chartType)
	}
}

func (p *EChartsProvider) renderBarChart(spec ChartSpec) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(p.globalChartOptions(spec.Title, spec.Subtitle)...)
	bar.SetXAxis(spec.XAxis)
	for _, s := range spec.Series {
		bar.AddSeries(s.Name, toBarData(s.Points))
	}
	if spec.Stack != "" {
		bar.SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: spec.Stack}))
	}
	return renderChart(bar)
}

func (p *EChartsProvider) renderLineChart(spec ChartSpec) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(p.globalChartOptions(spec.Title, spec.Subtitle)...)
	line.SetXAxis(spec.XAxis)
	for _, s := range spec.Series {
		line.AddSeries(s.Name, toLineData(s.Points))
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func (p *EChartsProvider) renderPieChart(spec ChartSpec) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(p.globalChartOptions(spec.Title, spec.Subtitle)...)
	for _, s := range spec.Series {
		pie.AddSeries(s.Name, toPieData(s.Points))
	}
	return renderChart(pie)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (p *EChartsProvider) globalChartOptions(title, subtitle string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  p.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if p.assetsHost != "" {
		initOpts.AssetsHost = p.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithToolboxOpts(opts.Toolbox{Show: opts.Bool(true)}),
	}
}

func toBarData(points []ChartPoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		data[i] = opts.BarData{
			Name:  point.Label,
			Value: point.Value,
		}
	}
	return data
}

func toLineData(points []ChartPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, point := range points {
		data[i] = opts.LineData{
			Name:  point.Label,
			Value: point.Value,
		}
	}
	return data
}

func toPieData(points []ChartPoint) []opts.PieData {
	data := make([]opts.PieData, len(points))
	for i, point := range points {
		name := point.Label
		if name == "" {
			name = fmt.Sprintf("Slice %d", i+1)
		}
		data[i] = opts.PieData{
			Name:  name,
			Value: point.Value,
		}
	}
	return data
}

func inferredAxisLabels(series []ChartSeries) []string {
	var candidate []string
	longest := 0
	for _, s := range series {
		if len(s.Points) <= longest {
			continue
		}
		longest = len(s.Points)
		candidate = make([]string, len(s.Points))
		for i, point := range s.Points {
			if point.Label != "" {
				candidate[i] = point.Label
			} else {
				candidate[i] = fmt.Sprintf("Item %d", i+1)
			}
		}
	}
	return candidate
}

func intConfig(cfg map[string]any, key string, fallback int) int {
	switch val := cfg[key].(type) {
	case int:
		if val > 0 {
			return val
		}
	case int64:
		if val > 0 {
			return int(val)
		}
	case float64:
		if val > 0 {
			return int(val)
		}
	case json.Number:
		if n, err := val.Int64(); err == nil && n > 0 {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

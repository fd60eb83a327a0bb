package s4_report

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/wonny/weekday-effect/internal/contracts"
	"github.com/wonny/weekday-effect/pkg/logger"
)

// Chart file names
const (
	ChartWeekdayReturns      = "chart_1_weekday_returns.png"
	ChartSectorWeekdayHeat   = "chart_2_sector_weekday_heatmap.png"
	ChartMarketCapReturns    = "chart_3_marketcap_returns.png"
	ChartSectorOverall       = "chart_4_sector_overall_returns.png"
	ChartWeekdayDistribution = "chart_5_weekday_distribution.png"
	ChartSectorVolatility    = "chart_6_sector_volatility.png"
)

var (
	barColor      = color.RGBA{R: 0x4C, G: 0x72, B: 0xB0, A: 0xFF}
	tierColor     = color.RGBA{R: 0x2E, G: 0x8B, B: 0x57, A: 0xFF}
	nanColor      = color.RGBA{R: 0xC8, G: 0xC8, B: 0xC8, A: 0xFF}
	zeroLineColor = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
)

// Report bundles every aggregate drawn by Charts
type Report struct {
	Weekday          contracts.WeekdayTable
	SectorWeekday    *contracts.SectorWeekdayTable
	Tiers            []contracts.TierStats
	SectorOverall    []contracts.SectorValue
	Distribution     map[contracts.Weekday][]float64
	SectorVolatility []contracts.SectorValue
}

// Charts writes PNG charts into Dir
type Charts struct {
	Dir    string
	Logger *logger.Logger
}

// NewCharts creates a chart writer
func NewCharts(dir string, log *logger.Logger) *Charts {
	if log == nil {
		log = logger.Nop()
	}
	return &Charts{Dir: dir, Logger: log}
}

// WriteAll renders the six charts and returns the written paths
func (c *Charts) WriteAll(r Report) ([]string, error) {
	if c.Dir != "" {
		if err := os.MkdirAll(c.Dir, 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	steps := []struct {
		name string
		draw func() (*plot.Plot, vg.Length, vg.Length, error)
	}{
		{ChartWeekdayReturns, func() (*plot.Plot, vg.Length, vg.Length, error) { return weekdayChart(r.Weekday) }},
		{ChartSectorWeekdayHeat, func() (*plot.Plot, vg.Length, vg.Length, error) { return heatmapChart(r.SectorWeekday) }},
		{ChartMarketCapReturns, func() (*plot.Plot, vg.Length, vg.Length, error) { return tierChart(r.Tiers) }},
		{ChartSectorOverall, func() (*plot.Plot, vg.Length, vg.Length, error) {
			return sectorBarChart(r.SectorOverall, "Overall Average Return by Sector", "Average Daily Return (%)")
		}},
		{ChartWeekdayDistribution, func() (*plot.Plot, vg.Length, vg.Length, error) { return distributionChart(r.Distribution) }},
		{ChartSectorVolatility, func() (*plot.Plot, vg.Length, vg.Length, error) {
			return sectorBarChart(r.SectorVolatility, "Return Volatility by Sector", "Standard Deviation (%)")
		}},
	}

	var written []string
	for _, step := range steps {
		p, w, h, err := step.draw()
		if err != nil {
			return written, fmt.Errorf("draw %s: %w", step.name, err)
		}
		if p == nil {
			c.Logger.WithField("chart", step.name).Warn("nothing to draw, chart skipped")
			continue
		}

		path := filepath.Join(c.Dir, step.name)
		if err := p.Save(w, h, path); err != nil {
			return written, fmt.Errorf("save %s: %w", path, err)
		}
		c.Logger.WithField("path", path).Info("chart saved")
		written = append(written, path)
	}

	return written, nil
}

// zeroNaN replaces undefined values so they draw as empty bars
func zeroNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// zeroLine draws a dashed y=0 (or x=0 when vertical) reference line across n categories
func zeroLine(n int, vertical bool) (*plotter.Line, error) {
	pts := plotter.XYs{{X: -0.5, Y: 0}, {X: float64(n) - 0.5, Y: 0}}
	if vertical {
		pts = plotter.XYs{{X: 0, Y: -0.5}, {X: 0, Y: float64(n) - 0.5}}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = zeroLineColor
	line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	return line, nil
}

func weekdayChart(t contracts.WeekdayTable) (*plot.Plot, vg.Length, vg.Length, error) {
	p := plot.New()
	p.Title.Text = "Average Return by Weekday"
	p.X.Label.Text = "Weekday"
	p.Y.Label.Text = "Average Daily Return (%)"
	p.Add(plotter.NewGrid())

	values := make(plotter.Values, len(t))
	names := make([]string, len(t))
	for i, row := range t {
		values[i] = zeroNaN(row.Mean)
		names[i] = string(row.Weekday)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return nil, 0, 0, err
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	line, err := zeroLine(len(t), false)
	if err != nil {
		return nil, 0, 0, err
	}
	p.Add(line)
	p.NominalX(names...)

	return p, 8 * vg.Inch, 5 * vg.Inch, nil
}

// sectorGrid adapts SectorWeekdayTable to plotter.GridXYZ (columns weekdays, rows sectors)
type sectorGrid struct {
	t *contracts.SectorWeekdayTable
}

func (g sectorGrid) Dims() (c, r int)   { return len(g.t.Weekdays), len(g.t.Sectors) }
func (g sectorGrid) Z(c, r int) float64 { return g.t.Means[r][c] }
func (g sectorGrid) X(c int) float64    { return float64(c) }
func (g sectorGrid) Y(r int) float64    { return float64(r) }

func heatmapChart(t *contracts.SectorWeekdayTable) (*plot.Plot, vg.Length, vg.Length, error) {
	p := plot.New()
	p.Title.Text = "Sector x Weekday Average Return (%)"

	if t == nil || len(t.Sectors) == 0 {
		return p, 8 * vg.Inch, 5 * vg.Inch, nil
	}

	// 0을 중심으로 대칭인 색 범위
	limit := 0.0
	for _, row := range t.Means {
		for _, v := range row {
			if !math.IsNaN(v) && math.Abs(v) > limit {
				limit = math.Abs(v)
			}
		}
	}
	if limit == 0 {
		limit = 1
	}

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-limit)
	cmap.SetMax(limit)

	heat := plotter.NewHeatMap(sectorGrid{t: t}, cmap.Palette(255))
	heat.Min, heat.Max = -limit, limit
	heat.NaN = nanColor
	p.Add(heat)

	var (
		xys    plotter.XYs
		labels []string
	)
	for r := range t.Sectors {
		for c := range t.Weekdays {
			v := t.Means[r][c]
			if math.IsNaN(v) {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(r)})
			labels = append(labels, fmt.Sprintf("%.2f", v))
		}
	}
	if len(xys) > 0 {
		l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return nil, 0, 0, err
		}
		p.Add(l)
	}

	weekdays := make([]string, len(t.Weekdays))
	for i, w := range t.Weekdays {
		weekdays[i] = string(w)
	}
	p.NominalX(weekdays...)
	p.NominalY(t.Sectors...)

	height := math.Max(8, float64(len(t.Sectors))*0.3)
	return p, 10 * vg.Inch, vg.Length(height) * vg.Inch, nil
}

func tierChart(tiers []contracts.TierStats) (*plot.Plot, vg.Length, vg.Length, error) {
	if len(tiers) == 0 {
		return nil, 0, 0, nil
	}

	p := plot.New()
	p.Title.Text = "Average Return by Market-Cap Tier"
	p.Y.Label.Text = "Average Daily Return (%)"
	p.Add(plotter.NewGrid())

	values := make(plotter.Values, len(tiers))
	names := make([]string, len(tiers))
	xys := make(plotter.XYs, len(tiers))
	labels := make([]string, len(tiers))
	for i, tier := range tiers {
		values[i] = zeroNaN(tier.Mean)
		names[i] = tier.Label
		xys[i] = plotter.XY{X: float64(i), Y: values[i]}
		labels[i] = FormatValue(tier.Mean) + "%"
	}

	bars, err := plotter.NewBarChart(values, vg.Points(50))
	if err != nil {
		return nil, 0, 0, err
	}
	bars.Color = tierColor
	p.Add(bars)

	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, 0, 0, err
	}
	p.Add(l)

	line, err := zeroLine(len(tiers), false)
	if err != nil {
		return nil, 0, 0, err
	}
	p.Add(line)
	p.NominalX(names...)

	return p, 8 * vg.Inch, 5 * vg.Inch, nil
}

func sectorBarChart(values []contracts.SectorValue, title, xlabel string) (*plot.Plot, vg.Length, vg.Length, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Add(plotter.NewGrid())

	if len(values) == 0 {
		return p, 10 * vg.Inch, 10 * vg.Inch, nil
	}

	data := make(plotter.Values, len(values))
	names := make([]string, len(values))
	for i, v := range values {
		data[i] = zeroNaN(v.Value)
		names[i] = v.Sector
	}

	bars, err := plotter.NewBarChart(data, vg.Points(8))
	if err != nil {
		return nil, 0, 0, err
	}
	bars.Horizontal = true
	bars.Color = barColor
	p.Add(bars)

	line, err := zeroLine(len(values), true)
	if err != nil {
		return nil, 0, 0, err
	}
	p.Add(line)
	p.NominalY(names...)

	height := math.Max(10, float64(len(values))*0.35)
	return p, 10 * vg.Inch, vg.Length(height) * vg.Inch, nil
}

func distributionChart(dist map[contracts.Weekday][]float64) (*plot.Plot, vg.Length, vg.Length, error) {
	p := plot.New()
	p.Title.Text = "Return Distribution by Weekday"
	p.X.Label.Text = "Weekday"
	p.Y.Label.Text = "Daily Return (%)"
	p.Add(plotter.NewGrid())

	names := make([]string, len(contracts.TradingWeekdays))
	for i, w := range contracts.TradingWeekdays {
		names[i] = string(w)
		values := dist[w]
		if len(values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(i), plotter.Values(values))
		if err != nil {
			return nil, 0, 0, err
		}
		p.Add(box)
	}

	line, err := zeroLine(len(names), false)
	if err != nil {
		return nil, 0, 0, err
	}
	p.Add(line)
	p.NominalX(names...)

	return p, 10 * vg.Inch, 6 * vg.Inch, nil
}

// Package charts renders the tuning study figures as PNG files.
package charts

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	ConfigurationChart = "01_configuration_optimization.png"
	WriteChart         = "02_write_performance_tradeoff.png"
	ConcurrencyChart   = "03_concurrency_performance.png"
	SummaryChart       = "04_optimization_summary.png"
)

type chart struct {
	file   string
	render func(path string) error
}

var all = []chart{
	{ConfigurationChart, renderConfiguration},
	{WriteChart, renderWriteTradeoff},
	{ConcurrencyChart, renderConcurrency},
	{SummaryChart, renderSummary},
}

var printer = message.NewPrinter(language.English)

// RenderAll writes every chart into dir, creating it if needed, and returns
// the paths in chart order.
func RenderAll(dir string, logger zerolog.Logger) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create charts directory %s: %w", dir, err)
	}

	paths := make([]string, 0, len(all))
	for _, c := range all {
		path := filepath.Join(dir, c.file)
		if err := c.render(path); err != nil {
			return paths, fmt.Errorf("render %s: %w", c.file, err)
		}
		logger.Info().Str("path", path).Msg("chart saved")
		paths = append(paths, path)
	}

	return paths, nil
}

func renderConfiguration(path string) error {
	cache, err := barPlot(cacheTimes, cacheColors, cacheLabels, "%.2fms")
	if err != nil {
		return err
	}
	cache.Title.Text = "Configuration Impact: Cold vs Warm Cache"
	cache.Y.Label.Text = "Query Time (ms)"
	cache.Y.Min, cache.Y.Max = 0, 3

	plan, err := barPlot(bufferHits, planColors, planLabels, "%.0f blocks")
	if err != nil {
		return err
	}
	plan.Title.Text = "Query Plan Improvement"
	plan.Y.Label.Text = "Buffer Hits (blocks)"
	plan.Y.Min, plan.Y.Max = 0, 15

	img := vgimg.New(14*vg.Inch, 6*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1,
		Cols: 2,
		PadX: vg.Millimeter * 8,
	}
	canvases := plot.Align([][]*plot.Plot{{cache, plan}}, tiles, dc)
	cache.Draw(canvases[0][0])
	plan.Draw(canvases[0][1])

	return savePNG(img, path)
}

func renderWriteTradeoff(path string) error {
	p, err := barPlot(writeTimes, writeColors, writeLabels, "%.3fms")
	if err != nil {
		return err
	}
	p.Title.Text = "Write Performance Impact of Index Optimization"
	p.Y.Label.Text = "Single INSERT Time (ms)"
	p.Y.Min, p.Y.Max = 0, 3.5

	ratio := writeTimes[1] / writeTimes[0]
	overhead := (writeTimes[1] - writeTimes[0]) / writeTimes[0] * 100
	note, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: 1, Y: 3.3}},
		Labels: []string{printer.Sprintf("%.1fx slower\n(%.0f%% overhead)", ratio, overhead)},
	})
	if err != nil {
		return err
	}
	p.Add(note)

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

func renderConcurrency(path string) error {
	throughput := plot.New()
	throughput.Title.Text = "Throughput Comparison: Query Complexity Impact"
	throughput.X.Label.Text = "Concurrent Threads"
	throughput.Y.Label.Text = "Queries Per Second (QPS)"
	throughput.X.Min, throughput.X.Max = 0, 55
	throughput.Add(plotter.NewGrid())
	throughput.Legend.Top = true
	throughput.Legend.Left = true

	latency := plot.New()
	latency.Title.Text = "Response Time by Query Type"
	latency.X.Label.Text = "Threads"
	latency.Y.Label.Text = "Average Latency (ms)"
	latency.Y.Scale = plot.LogScale{}
	latency.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	latency.Add(plotter.NewGrid())
	latency.Legend.Top = true
	latency.Legend.Left = true

	for i, s := range concurrencySeries {
		line, points, err := plotter.NewLinePoints(xys(threadCounts, s.qps))
		if err != nil {
			return err
		}
		styleSeries(line, points, s.color, i)
		throughput.Add(line, points)
		throughput.Legend.Add(s.name, line, points)

		peak, err := peakMarker(s)
		if err != nil {
			return err
		}
		throughput.Add(peak)

		line, points, err = plotter.NewLinePoints(xys(threadCounts, s.latency))
		if err != nil {
			return err
		}
		styleSeries(line, points, s.color, i)
		latency.Add(line, points)
		latency.Legend.Add(s.label, line, points)
	}

	catalog := concurrencySeries[0]
	detail := plot.New()
	detail.Title.Text = "Catalog Lookup: Excellent Scaling"
	detail.X.Label.Text = "Threads"
	detail.Y.Label.Text = "QPS"
	detail.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(xys(threadCounts, catalog.qps))
	if err != nil {
		return err
	}
	styleSeries(line, points, catalog.color, 0)
	c := rgb(catalog.color)
	line.FillColor = color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0x4c}
	detail.Add(line, points)

	idx := peakIndex(catalog.qps)
	note, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: 30, Y: 1100}},
		Labels: []string{printer.Sprintf("Peak: %.0f QPS\nat %.0f threads", catalog.qps[idx], threadCounts[idx])},
	})
	if err != nil {
		return err
	}
	detail.Add(note)

	const w, h = 16 * vg.Inch, 10 * vg.Inch
	img := vgimg.New(w, h)
	dc := draw.New(img)

	throughput.Draw(draw.Crop(dc, 0, 0, h/2, 0))
	detail.Draw(draw.Crop(dc, 0, -w/2, 0, -h/2))
	latency.Draw(draw.Crop(dc, w/2, 0, 0, -h/2))

	return savePNG(img, path)
}

func renderSummary(path string) error {
	width := vg.Points(40)

	p := plot.New()
	p.Title.Text = "Database Performance: Baseline vs Optimized Configuration"
	p.Y.Label.Text = "Queries Per Second (QPS)"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = true

	baseline, err := plotter.NewBarChart(plotter.Values(baselineQPS), width)
	if err != nil {
		return err
	}
	baseline.Color = rgb(0x95a5a6)
	baseline.Offset = -width / 2
	p.Add(baseline)
	p.Legend.Add("Baseline (1 thread)", baseline)

	for i, v := range peakQPS {
		bar, err := plotter.NewBarChart(plotter.Values{v}, width)
		if err != nil {
			return err
		}
		bar.XMin = float64(i)
		bar.Offset = width / 2
		bar.Color = rgb(concurrencySeries[i].color)
		p.Add(bar)
		if i == 0 {
			p.Legend.Add("Peak Performance (Optimized)", bar)
		}
	}

	var (
		pts    plotter.XYs
		labels []string
	)
	for i := range peakQPS {
		pts = append(pts,
			plotter.XY{X: float64(i) - 0.2, Y: baselineQPS[i] + 20},
			plotter.XY{X: float64(i) + 0.2, Y: peakQPS[i] + 20},
			plotter.XY{X: float64(i), Y: peakQPS[i] + 120},
		)
		labels = append(labels,
			fmt.Sprintf("%.0f QPS", baselineQPS[i]),
			fmt.Sprintf("%.0f QPS", peakQPS[i]),
			fmt.Sprintf("%.0fx\nfaster", peakQPS[i]/baselineQPS[i]),
		)
	}
	values, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: labels})
	if err != nil {
		return err
	}
	p.Add(values)
	p.NominalX(summaryLabels...)

	return p.Save(12*vg.Inch, 8*vg.Inch, path)
}

// barPlot draws one bar per value, each in its own colour, with the value
// printed above it using format.
func barPlot(values []float64, colors []uint32, names []string, format string) (*plot.Plot, error) {
	p := plot.New()
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(values))
	labels := make([]string, len(values))
	for i, v := range values {
		bar, err := plotter.NewBarChart(plotter.Values{v}, vg.Points(50))
		if err != nil {
			return nil, err
		}
		bar.XMin = float64(i)
		bar.Color = rgb(colors[i])
		p.Add(bar)

		pts[i] = plotter.XY{X: float64(i), Y: v}
		labels[i] = fmt.Sprintf(format, v)
	}

	text, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: labels})
	if err != nil {
		return nil, err
	}
	text.Offset = vg.Point{X: -vg.Millimeter * 4, Y: vg.Millimeter * 2}
	p.Add(text)
	p.NominalX(names...)

	return p, nil
}

var glyphs = []draw.GlyphDrawer{draw.CircleGlyph{}, draw.BoxGlyph{}, draw.TriangleGlyph{}}

func styleSeries(line *plotter.Line, points *plotter.Scatter, c uint32, i int) {
	line.Color = rgb(c)
	line.Width = vg.Points(2.5)
	points.Color = rgb(c)
	points.Radius = vg.Points(4)
	points.Shape = glyphs[i%len(glyphs)]
}

func peakMarker(s querySeries) (*plotter.Scatter, error) {
	idx := peakIndex(s.qps)
	peak, err := plotter.NewScatter(plotter.XYs{{X: threadCounts[idx], Y: s.qps[idx]}})
	if err != nil {
		return nil, err
	}
	peak.Shape = draw.RingGlyph{}
	peak.Radius = vg.Points(9)
	peak.Color = color.Black
	return peak, nil
}

func peakIndex(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

func xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	return pts
}

func rgb(hex uint32) color.RGBA {
	return color.RGBA{R: uint8(hex >> 16), G: uint8(hex >> 8), B: uint8(hex), A: 0xff}
}

func savePNG(img *vgimg.Canvas, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

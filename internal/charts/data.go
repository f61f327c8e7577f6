package charts

// Measurements recorded during the tuning study. The charts are drawn from
// these fixed figures, not from load test output.

var (
	cacheLabels = []string{"Cold Cache\n(Baseline)", "Cold Cache\n(Optimized)", "Warm Cache\n(Baseline)", "Warm Cache\n(Optimized)"}
	cacheTimes  = []float64{2.10, 2.79, 0.18, 0.20}
	cacheColors = []uint32{0xe74c3c, 0xc0392b, 0x3498db, 0x2980b9}

	planLabels  = []string{"Sequential Scan\n(Baseline)", "Index Scan\n(Optimized)"}
	bufferHits  = []float64{10, 12}
	planColors  = []uint32{0xe67e22, 0x27ae60}
	writeLabels = []string{"8 Indexes\n(Essential)", "12 Indexes\n(Optimized)"}
	writeTimes  = []float64{0.194, 3.054}
	writeColors = []uint32{0x2ecc71, 0xe74c3c}
)

var threadCounts = []float64{1, 5, 10, 20, 50}

type querySeries struct {
	name    string
	label   string
	color   uint32
	qps     []float64
	latency []float64
}

var concurrencySeries = []querySeries{
	{
		name:    "Catalog Lookup (Simple SELECT)",
		label:   "Catalog (<2ms)",
		color:   0x2ecc71,
		qps:     []float64{37.01, 563.05, 901.70, 1251.57, 1175.67},
		latency: []float64{0.75, 0.47, 0.59, 0.73, 1.98},
	},
	{
		name:    "Customer Orders (JOIN)",
		label:   "Customer (~1ms)",
		color:   0x3498db,
		qps:     []float64{103.30, 521.23, 824.73, 1136.12, 1540.04},
		latency: []float64{1.46, 0.74, 0.73, 0.97, 1.02},
	},
	{
		name:    "Order Analytics (Aggregation)",
		label:   "Analytics (19-295ms)",
		color:   0xe74c3c,
		qps:     []float64{37.18, 93.83, 69.00, 121.94, 131.51},
		latency: []float64{19.06, 38.40, 109.19, 121.66, 295.05},
	},
}

var (
	summaryLabels = []string{"Simple Queries\n(Catalog)", "Moderate Queries\n(Joins)", "Complex Queries\n(Analytics)"}
	baselineQPS   = []float64{37, 103, 37}
	peakQPS       = []float64{1252, 1540, 132}
)

package explorer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	previewRows       = 3
	uniqueColumnLimit = 5
	bytesPerMB        = 1024 * 1024
)

var wideRule = strings.Repeat("=", 80)

// Summary holds the totals printed after every file has been explored.
type Summary struct {
	Files       int
	TotalRows   int
	TotalMemory int64

	Orders     *OrderStats
	OrderItems *OrderItemStats
}

type OrderStats struct {
	Total           int
	UniqueCustomers int
	FirstPurchase   string
	LastPurchase    string
}

type OrderItemStats struct {
	Total          int
	UniqueProducts int
	// ItemsPerOrder is zero when no orders file was loaded.
	ItemsPerOrder float64
}

type Explorer struct {
	dir    string
	out    io.Writer
	logger zerolog.Logger
	p      *message.Printer
}

func New(dir string, out io.Writer, logger zerolog.Logger) *Explorer {
	return &Explorer{
		dir:    dir,
		out:    out,
		logger: logger,
		p:      message.NewPrinter(language.English),
	}
}

// Run explores every CSV file in the data directory and prints a summary.
// It stops at the first file that cannot be read.
func (e *Explorer) Run() (*Summary, error) {
	e.p.Fprintln(e.out, "OLIST DATASET EXPLORATION")
	e.p.Fprintln(e.out, wideRule)

	files, err := ListCSV(e.dir)
	if err != nil {
		return nil, err
	}

	e.p.Fprintf(e.out, "\nFound %d CSV files:\n", len(files))
	for i, f := range files {
		e.p.Fprintf(e.out, "  %d. %s\n", i+1, f)
	}

	datasets := make([]*Dataset, 0, len(files))
	for _, f := range files {
		ds, err := Load(filepath.Join(e.dir, f))
		if err != nil {
			return nil, err
		}
		e.logger.Debug().Str("file", f).Int("rows", ds.NumRows()).Msg("loaded dataset")
		e.describe(ds)
		datasets = append(datasets, ds)
	}

	sum := Summarize(datasets)
	e.writeSummary(sum)

	return sum, nil
}

func (e *Explorer) describe(ds *Dataset) {
	p, w := e.p, e.out

	p.Fprintf(w, "\n%s\nFILE: %s\n%s\n", wideRule, ds.File, wideRule)
	p.Fprintf(w, "\nShape: %d rows × %d columns\n", ds.NumRows(), len(ds.Columns))
	p.Fprintf(w, "Memory: %.2f MB\n", float64(ds.MemoryBytes)/bytesPerMB)

	width := 0
	for _, c := range ds.Columns {
		width = max(width, len(c.Name))
	}

	p.Fprintln(w, "\nColumns and Types:")
	for _, c := range ds.Columns {
		p.Fprintf(w, "%-*s  %s\n", width, c.Name, c.Type)
	}

	p.Fprintln(w, "\nMissing Values:")
	p.Fprintf(w, "%-*s  %10s  %10s\n", width, "", "Missing", "Percentage")
	for _, c := range ds.Columns {
		if c.Missing == 0 {
			continue
		}
		p.Fprintf(w, "%-*s  %10d  %10.2f\n", width, c.Name, c.Missing, c.MissingPct(ds.NumRows()))
	}

	p.Fprintf(w, "\nFirst %d rows:\n", previewRows)
	names := make([]string, len(ds.Columns))
	for i, c := range ds.Columns {
		names[i] = c.Name
	}
	p.Fprintln(w, strings.Join(names, " | "))
	for i, row := range ds.Rows {
		if i == previewRows {
			break
		}
		p.Fprintln(w, strings.Join(row, " | "))
	}

	var objects []Column
	for _, c := range ds.Columns {
		if c.Type == Object {
			objects = append(objects, c)
		}
	}
	if len(objects) == 0 {
		return
	}
	p.Fprintln(w, "\nUnique values in categorical columns:")
	for i, c := range objects {
		if i == uniqueColumnLimit {
			break
		}
		p.Fprintf(w, "  %s: %d unique values\n", c.Name, c.Unique)
	}
}

// Summarize totals the datasets and, when the orders and order_items
// exports are among them, derives the order statistics.
func Summarize(datasets []*Dataset) *Summary {
	sum := &Summary{Files: len(datasets)}
	byKey := make(map[string]*Dataset, len(datasets))

	for _, ds := range datasets {
		sum.TotalRows += ds.NumRows()
		sum.TotalMemory += ds.MemoryBytes
		byKey[ds.Key] = ds
	}

	orders, hasOrders := byKey["orders"]
	if hasOrders {
		first, last, _ := orders.MinMax("order_purchase_timestamp")
		sum.Orders = &OrderStats{
			Total:           orders.NumRows(),
			UniqueCustomers: orders.UniqueCount("customer_id"),
			FirstPurchase:   first,
			LastPurchase:    last,
		}
	}

	if items, ok := byKey["order_items"]; ok {
		sum.OrderItems = &OrderItemStats{
			Total:          items.NumRows(),
			UniqueProducts: items.UniqueCount("product_id"),
		}
		if hasOrders && orders.NumRows() > 0 {
			sum.OrderItems.ItemsPerOrder = float64(items.NumRows()) / float64(orders.NumRows())
		}
	}

	return sum
}

func (e *Explorer) writeSummary(sum *Summary) {
	p, w := e.p, e.out

	p.Fprintf(w, "\n%s\nDATASET SUMMARY\n%s\n", wideRule, wideRule)
	p.Fprintf(w, "\nTotal rows across all files: %d\n", sum.TotalRows)
	p.Fprintf(w, "Total memory usage: %.2f MB\n", float64(sum.TotalMemory)/bytesPerMB)

	if o := sum.Orders; o != nil {
		p.Fprintln(w, "\nOrder Statistics:")
		p.Fprintf(w, "  Total orders: %d\n", o.Total)
		p.Fprintf(w, "  Unique customers: %d\n", o.UniqueCustomers)
		p.Fprintf(w, "  Date range: %s to %s\n", o.FirstPurchase, o.LastPurchase)
	}

	if it := sum.OrderItems; it != nil {
		p.Fprintln(w, "\nOrder Items Statistics:")
		p.Fprintf(w, "  Total items: %d\n", it.Total)
		if sum.Orders != nil {
			p.Fprintf(w, "  Average items per order: %.2f\n", it.ItemsPerOrder)
		}
		p.Fprintf(w, "  Unique products: %d\n", it.UniqueProducts)
	}

	p.Fprintf(w, "\n%s\nExploration complete! Ready for PostgreSQL import.\n%s\n", wideRule, wideRule)
}

// String is used by the explore command when it logs the outcome.
func (s *Summary) String() string {
	return fmt.Sprintf("%d files, %d rows", s.Files, s.TotalRows)
}

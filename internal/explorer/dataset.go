// Package explorer loads the raw Olist CSV exports and prints their shape,
// inferred column types, missing values and a few headline statistics.
package explorer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

type ColumnType string

const (
	Int64    ColumnType = "int64"
	Float64  ColumnType = "float64"
	Bool     ColumnType = "bool"
	Datetime ColumnType = "datetime"
	Object   ColumnType = "object"
)

var ErrEmptyFile = errors.New("csv file has no header")

// Cells matching one of these are counted as missing.
var missingMarkers = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"NaN":  {},
	"nan":  {},
	"NULL": {},
	"null": {},
}

var datetimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Per-cell memory estimate, in bytes: a fixed slot for typed columns and a
// header plus payload for strings.
const (
	typedCellBytes  = 8
	boolCellBytes   = 1
	objectCellBytes = 49
)

type Column struct {
	Name    string
	Type    ColumnType
	Missing int
	Unique  int
}

// MissingPct is the share of missing cells in percent, rounded to two decimals.
func (c Column) MissingPct(rows int) float64 {
	if rows == 0 {
		return 0
	}
	return float64(int(float64(c.Missing)/float64(rows)*10000+0.5)) / 100
}

type Dataset struct {
	File        string
	Key         string
	Columns     []Column
	Rows        [][]string
	MemoryBytes int64
}

func (d *Dataset) NumRows() int {
	return len(d.Rows)
}

func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// UniqueCount returns the number of distinct non-missing values in the named
// column, or -1 if there is no such column.
func (d *Dataset) UniqueCount(name string) int {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		return -1
	}
	return d.Columns[idx].Unique
}

// MinMax returns the lexically smallest and largest non-missing values of
// the named column. ok is false when the column is absent or all missing.
func (d *Dataset) MinMax(name string) (lo, hi string, ok bool) {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		return "", "", false
	}
	for _, row := range d.Rows {
		v := row[idx]
		if isMissing(v) {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, ok
}

// DatasetKey strips the export naming so olist_orders_dataset.csv becomes
// orders.
func DatasetKey(filename string) string {
	key := strings.ReplaceAll(filename, "olist_", "")
	return strings.ReplaceAll(key, "_dataset.csv", "")
}

// ListCSV returns the names of the .csv files in dir, sorted.
func ListCSV(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	return files, nil
}

func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	ds.File = filepath.Base(path)
	ds.Key = DatasetKey(ds.File)

	return ds, nil
}

// Parse reads a CSV with a header row. Every record must have as many fields
// as the header.
func Parse(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cr.FieldsPerRecord = len(header)

	ds := &Dataset{Columns: make([]Column, len(header))}
	for i, name := range header {
		ds.Columns[i].Name = strings.TrimPrefix(name, "\ufeff")
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		ds.Rows = append(ds.Rows, rec)
	}

	for i := range ds.Columns {
		profile(ds, i)
	}

	return ds, nil
}

func profile(ds *Dataset, idx int) {
	col := &ds.Columns[idx]
	seen := make(map[string]struct{})
	var payload int64

	for _, row := range ds.Rows {
		v := row[idx]
		if isMissing(v) {
			col.Missing++
			continue
		}
		seen[v] = struct{}{}
		payload += int64(len(v))
	}
	col.Unique = len(seen)
	col.Type = inferType(ds.Rows, idx, col.Missing)

	n := int64(len(ds.Rows))
	switch col.Type {
	case Object:
		ds.MemoryBytes += n*objectCellBytes + payload
	case Bool:
		ds.MemoryBytes += n * boolCellBytes
	default:
		ds.MemoryBytes += n * typedCellBytes
	}
}

// inferType picks the narrowest type every non-missing value parses as.
// Integer and boolean columns with gaps widen to float64 and object, and an
// entirely empty column is float64.
func inferType(rows [][]string, idx, missing int) ColumnType {
	if missing == len(rows) {
		return Float64
	}

	isInt, isFloat, isBool, isTime := true, true, true, true
	for _, row := range rows {
		v := row[idx]
		if isMissing(v) {
			continue
		}
		if isInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			isBool = v == "True" || v == "False" || v == "true" || v == "false"
		}
		if isTime {
			isTime = parsesAsTime(v)
		}
		if !isInt && !isFloat && !isBool && !isTime {
			return Object
		}
	}

	switch {
	case isInt && missing == 0:
		return Int64
	case isInt || isFloat:
		return Float64
	case isBool && missing == 0:
		return Bool
	case isTime:
		return Datetime
	default:
		return Object
	}
}

func parsesAsTime(v string) bool {
	for _, layout := range datetimeLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

func isMissing(v string) bool {
	_, ok := missingMarkers[v]
	return ok
}

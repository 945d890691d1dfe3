// Package dataset holds the in-memory table of generative-AI tools served by
// the dashboard. A Dataset is built once at startup and never mutated; every
// accessor hands out copies.
package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/text/unicode/norm"
)

// Canonical column names.
const (
	ColCategory     = "category_canonical"
	ColModality     = "modality_canonical"
	ColOpenSource   = "open_source"
	ColAPIAvailable = "api_available"
	ColReleaseYear  = "release_year"
	ColCompany      = "company"
	ColToolName     = "tool_name"
	ColWebsite      = "website"
	ColSourceDomain = "source_domain"
)

const utf8BOM = "\uFEFF"

// Dataset is an ordered, immutable table of tool records.
type Dataset struct {
	columns     []string
	index       map[string]int
	rows        [][]Value
	fingerprint uint64
}

// Empty returns a Dataset with no rows and no columns.
func Empty() *Dataset {
	return &Dataset{index: map[string]int{}}
}

// New normalizes raw headers and cells into a Dataset. Header names are
// cleaned of BOM and surrounding whitespace; flag and year columns are coerced
// to integers. Rows shorter than the header are padded with nulls.
func New(headers []string, raw [][]Value) *Dataset {
	ds := &Dataset{
		columns: make([]string, len(headers)),
		index:   make(map[string]int, len(headers)),
		rows:    make([][]Value, 0, len(raw)),
	}
	for i, h := range headers {
		name := CleanHeader(h)
		ds.columns[i] = name
		if _, dup := ds.index[name]; !dup {
			ds.index[name] = i
		}
	}

	coerce := make([]func(Value) Value, len(ds.columns))
	for i, name := range ds.columns {
		switch name {
		case ColOpenSource, ColAPIAvailable:
			coerce[i] = coerceFlag
		case ColReleaseYear:
			coerce[i] = coerceYear
		}
	}

	h := xxh3.New()
	h.WriteString(strings.Join(ds.columns, "\x1f"))
	for _, r := range raw {
		row := make([]Value, len(ds.columns))
		for i := range row {
			if i < len(r) {
				row[i] = r[i]
			}
			if coerce[i] != nil {
				row[i] = coerce[i](row[i])
			}
			h.WriteString("\x1f")
			h.WriteString(row[i].Text())
		}
		h.WriteString("\x1e")
		ds.rows = append(ds.rows, row)
	}
	ds.fingerprint = h.Sum64()
	return ds
}

// CleanHeader strips a UTF-8 BOM, applies NFC normalization and trims
// surrounding whitespace.
func CleanHeader(h string) string {
	h = strings.TrimPrefix(h, utf8BOM)
	return strings.TrimSpace(norm.NFC.String(h))
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Columns returns a copy of the column names in source order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// Has reports whether the column exists.
func (d *Dataset) Has(col string) bool {
	_, ok := d.index[col]
	return ok
}

// Value returns the cell at row for col. ok is false when the column is
// absent or the row is out of range.
func (d *Dataset) Value(row int, col string) (v Value, ok bool) {
	idx, ok := d.index[col]
	if !ok || row < 0 || row >= len(d.rows) {
		return Value{}, false
	}
	return d.rows[row][idx], true
}

// Record returns a fresh column-name keyed copy of row.
func (d *Dataset) Record(row int) map[string]Value {
	rec := make(map[string]Value, len(d.index))
	for name, idx := range d.index {
		rec[name] = d.rows[row][idx]
	}
	return rec
}

// Fingerprint is a content hash over headers and normalized cells.
func (d *Dataset) Fingerprint() uint64 { return d.fingerprint }

// coerceFlag maps a cell onto 0 or 1. Blank and unparseable cells become 0.
func coerceFlag(v Value) Value {
	switch v.kind {
	case KindInt:
		return Int(boolToInt(v.i != 0))
	case KindBool:
		return Int(boolToInt(v.b))
	case KindString:
		s := strings.TrimSpace(v.s)
		if s == "" {
			return Int(0)
		}
		if n, ok := parseNumber(s); ok {
			return Int(boolToInt(n != 0))
		}
		if b, err := strconv.ParseBool(s); err == nil {
			return Int(boolToInt(b))
		}
	}
	return Int(0)
}

// coerceYear maps a cell onto a non-negative year; 0 means unknown.
func coerceYear(v Value) Value {
	var n int64
	switch v.kind {
	case KindInt:
		n = v.i
	case KindString:
		n, _ = parseNumber(strings.TrimSpace(v.s))
	}
	if n < 0 {
		n = 0
	}
	return Int(n)
}

// parseNumber accepts integer or float text, truncating floats.
func parseNumber(s string) (int64, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.Abs(f) >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

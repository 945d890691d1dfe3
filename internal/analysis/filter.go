package analysis

import (
	"golang.org/x/text/cases"

	"velar-backend/internal/dataset"
	"velar-backend/internal/models"
)

// MaxRows caps the rows returned by Filter.
const MaxRows = 500

// ToolFilter holds the optional listing filters. Zero-valued fields impose no
// constraint.
type ToolFilter struct {
	Category string
	Modality string
	Open     *int
	YearMin  *int
	YearMax  *int
}

// Filter returns the rows matching every set filter, in dataset order. Count
// is the full match count; Rows holds at most MaxRows records.
func Filter(ds *dataset.Dataset, f ToolFilter) models.ToolsResponse {
	fold := cases.Fold()
	category := fold.String(f.Category)
	modality := fold.String(f.Modality)

	resp := models.ToolsResponse{Rows: []map[string]dataset.Value{}}
	for i := 0; i < ds.Len(); i++ {
		if f.Category != "" && !textEquals(ds, i, dataset.ColCategory, category, fold) {
			continue
		}
		if f.Modality != "" && !textEquals(ds, i, dataset.ColModality, modality, fold) {
			continue
		}
		if f.Open != nil && !intMatches(ds, i, dataset.ColOpenSource, func(n int64) bool { return n == int64(*f.Open) }) {
			continue
		}
		if f.YearMin != nil && !intMatches(ds, i, dataset.ColReleaseYear, func(n int64) bool { return n >= int64(*f.YearMin) }) {
			continue
		}
		if f.YearMax != nil && !intMatches(ds, i, dataset.ColReleaseYear, func(n int64) bool { return n <= int64(*f.YearMax) }) {
			continue
		}

		resp.Count++
		if len(resp.Rows) < MaxRows {
			resp.Rows = append(resp.Rows, ds.Record(i))
		}
	}
	return resp
}

func textEquals(ds *dataset.Dataset, row int, col, folded string, fold cases.Caser) bool {
	v, ok := ds.Value(row, col)
	if !ok || v.IsNull() {
		return false
	}
	return fold.String(v.Text()) == folded
}

func intMatches(ds *dataset.Dataset, row int, col string, pred func(int64) bool) bool {
	v, ok := ds.Value(row, col)
	if !ok {
		return false
	}
	n, ok := v.Int64()
	return ok && pred(n)
}

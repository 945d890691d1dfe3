// Package analysis answers the read-only dashboard queries over a Dataset:
// summary statistics, white-space heuristics and filtered listings. Every
// function is pure and returns freshly allocated results.
package analysis

import (
	"sort"

	"velar-backend/internal/dataset"
	"velar-backend/internal/models"
)

// Count is one distinct value and how many rows carry it.
type Count struct {
	Value string
	N     int
}

// CountValues tallies the non-null values of col, ordered by count
// descending with ties in first-appearance order. Absent columns yield nil.
func CountValues(ds *dataset.Dataset, col string) []Count {
	if !ds.Has(col) {
		return nil
	}
	pos := make(map[string]int)
	var counts []Count
	for i := 0; i < ds.Len(); i++ {
		v, _ := ds.Value(i, col)
		if v.IsNull() {
			continue
		}
		key := v.Text()
		if p, ok := pos[key]; ok {
			counts[p].N++
			continue
		}
		pos[key] = len(counts)
		counts = append(counts, Count{Value: key, N: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].N > counts[j].N })
	return counts
}

func countMap(counts []Count) map[string]int {
	m := make(map[string]int, len(counts))
	for _, c := range counts {
		m[c.Value] = c.N
	}
	return m
}

// Summarize computes the aggregate statistics for ds.
func Summarize(ds *dataset.Dataset) models.Stats {
	total := ds.Len()
	return models.Stats{
		Total:         total,
		ByCategory:    countMap(CountValues(ds, dataset.ColCategory)),
		Modalities:    countMap(CountValues(ds, dataset.ColModality)),
		OpenSourcePct: percentOf(ds, dataset.ColOpenSource),
		APIsPct:       percentOf(ds, dataset.ColAPIAvailable),
		LatestYear:    latestYear(ds),
	}
}

// percentOf returns floor(sum(col)/total*100), or nil when the column is
// absent or the dataset is empty.
func percentOf(ds *dataset.Dataset, col string) *int {
	total := ds.Len()
	if !ds.Has(col) || total == 0 {
		return nil
	}
	var sum int64
	for i := 0; i < total; i++ {
		v, _ := ds.Value(i, col)
		n, _ := v.Int64()
		sum += n
	}
	pct := int(sum * 100 / int64(total))
	return &pct
}

func latestYear(ds *dataset.Dataset) *int {
	if !ds.Has(dataset.ColReleaseYear) {
		return nil
	}
	var latest int64
	for i := 0; i < ds.Len(); i++ {
		v, _ := ds.Value(i, dataset.ColReleaseYear)
		if y, ok := v.Int64(); ok && y > latest {
			latest = y
		}
	}
	if latest == 0 {
		return nil
	}
	y := int(latest)
	return &y
}

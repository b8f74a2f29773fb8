// Package matrix aggregates (sample, feature-key) observations into a
// deterministic sample-by-feature count matrix.
package matrix

import "sort"

// Aggregator accumulates somatic event counts per sample and feature key.
// It is not safe for concurrent use; parallel producers each own an
// Aggregator and combine them with Merge.
type Aggregator struct {
	counts map[string]map[string]int
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{counts: make(map[string]map[string]int)}
}

// Add increments the count for a (sample, feature-key) pair, creating the
// row and column on first occurrence.
func (a *Aggregator) Add(sample, key string) {
	a.AddN(sample, key, 1)
}

// AddN increments the count for a (sample, feature-key) pair by n.
func (a *Aggregator) AddN(sample, key string, n int) {
	row, ok := a.counts[sample]
	if !ok {
		row = make(map[string]int)
		a.counts[sample] = row
	}
	row[key] += n
}

// Merge folds another aggregator into this one by cell-wise addition over
// the union of rows and columns. The operation is commutative and
// associative, so partial aggregations may be combined in any order.
func (a *Aggregator) Merge(other *Aggregator) {
	for sample, row := range other.counts {
		for key, n := range row {
			a.AddN(sample, key, n)
		}
	}
}

// Len returns the number of samples observed so far.
func (a *Aggregator) Len() int {
	return len(a.counts)
}

// Build materializes the matrix with rows sorted by sample id and columns
// sorted by feature key, zero-filling absent cells. Repeated builds over
// identical observations yield identical matrices regardless of the order
// observations arrived in.
func (a *Aggregator) Build() *Matrix {
	samples := make([]string, 0, len(a.counts))
	featureSet := make(map[string]bool)
	for sample, row := range a.counts {
		samples = append(samples, sample)
		for key := range row {
			featureSet[key] = true
		}
	}
	sort.Strings(samples)

	features := make([]string, 0, len(featureSet))
	for key := range featureSet {
		features = append(features, key)
	}
	sort.Strings(features)

	counts := make([][]int, len(samples))
	for i, sample := range samples {
		counts[i] = make([]int, len(features))
		for j, key := range features {
			counts[i][j] = a.counts[sample][key]
		}
	}

	return &Matrix{Samples: samples, Features: features, Counts: counts}
}

// Matrix is a sample-by-feature count matrix with deterministic row and
// column order.
type Matrix struct {
	Samples  []string // row labels, sorted
	Features []string // column labels, sorted
	Counts   [][]int  // Counts[i][j] = count for Samples[i], Features[j]
}

// At returns the count for row i, column j.
func (m *Matrix) At(i, j int) int {
	return m.Counts[i][j]
}

// Count returns the count for a sample and feature key, or 0 if either
// label is absent.
func (m *Matrix) Count(sample, feature string) int {
	i := sort.SearchStrings(m.Samples, sample)
	if i >= len(m.Samples) || m.Samples[i] != sample {
		return 0
	}
	j := sort.SearchStrings(m.Features, feature)
	if j >= len(m.Features) || m.Features[j] != feature {
		return 0
	}
	return m.Counts[i][j]
}

// Empty reports whether the matrix has no rows.
func (m *Matrix) Empty() bool {
	return len(m.Samples) == 0
}

package matrix

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_BuildSortsRowsAndColumns(t *testing.T) {
	agg := NewAggregator()
	agg.Add("zeta", "LEN2_7_+2")
	agg.Add("alpha", "LEN1_10_+1")
	agg.Add("zeta", "LEN1_10_+1")
	agg.Add("alpha", "LEN1_10_+1")

	m := agg.Build()

	assert.Equal(t, []string{"alpha", "zeta"}, m.Samples)
	assert.Equal(t, []string{"LEN1_10_+1", "LEN2_7_+2"}, m.Features)
	assert.Equal(t, [][]int{{2, 0}, {1, 1}}, m.Counts)
}

func TestAggregator_OrderIndependent(t *testing.T) {
	type obs struct{ sample, key string }
	observations := []obs{
		{"s1", "LEN1"}, {"s2", "LEN1"}, {"s1", "LEN2"},
		{"s3", "LEN1"}, {"s1", "LEN1"}, {"s2", "LEN3"},
	}

	a := NewAggregator()
	for _, o := range observations {
		a.Add(o.sample, o.key)
	}

	shuffled := make([]obs, len(observations))
	copy(shuffled, observations)
	rand.New(rand.NewSource(1)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	b := NewAggregator()
	for _, o := range shuffled {
		b.Add(o.sample, o.key)
	}

	var bufA, bufB bytes.Buffer
	require.NoError(t, a.Build().WriteTSV(&bufA))
	require.NoError(t, b.Build().WriteTSV(&bufB))
	assert.Equal(t, bufA.String(), bufB.String())
}

func TestMerge_CommutativeAssociative(t *testing.T) {
	mk := func(adds ...[2]string) *Aggregator {
		a := NewAggregator()
		for _, add := range adds {
			a.Add(add[0], add[1])
		}
		return a
	}

	build := func(a *Aggregator) string {
		var buf bytes.Buffer
		require.NoError(t, a.Build().WriteTSV(&buf))
		return buf.String()
	}

	x := [2]string{"s1", "LEN1_10_+1"}
	y := [2]string{"s2", "LEN1_10_-1"}
	z := [2]string{"s1", "LEN2_7_+2"}

	// (a+b)+c == a+(b+c)
	left := mk(x)
	left.Merge(mk(y))
	left.Merge(mk(z))

	bc := mk(y)
	bc.Merge(mk(z))
	right := mk(x)
	right.Merge(bc)

	assert.Equal(t, build(left), build(right))

	// a+b == b+a
	ab := mk(x, z)
	ab.Merge(mk(y, z))
	ba := mk(y, z)
	ba.Merge(mk(x, z))
	assert.Equal(t, build(ab), build(ba))

	// whole-batch equals partitioned aggregation
	all := mk(x, y, z, z)
	assert.Equal(t, build(ab), build(all))
}

func TestMatrix_Count(t *testing.T) {
	agg := NewAggregator()
	agg.AddN("s1", "LEN1", 3)
	agg.Add("s2", "LEN2")
	m := agg.Build()

	assert.Equal(t, 3, m.Count("s1", "LEN1"))
	assert.Equal(t, 0, m.Count("s1", "LEN2"))
	assert.Equal(t, 0, m.Count("nope", "LEN1"))
	assert.Equal(t, 0, m.Count("s2", "nope"))
	assert.Equal(t, 1, m.At(1, 1))
}

// Two samples both mapping to the same collapsed column count
// independently.
func TestMatrix_CollapsedColumnPerSampleCounts(t *testing.T) {
	agg := NewAggregator()
	agg.Add("sampleA", "LEN1")
	agg.Add("sampleA", "LEN1")
	agg.Add("sampleB", "LEN1")

	m := agg.Build()
	assert.Equal(t, []string{"LEN1"}, m.Features)
	assert.Equal(t, 2, m.Count("sampleA", "LEN1"))
	assert.Equal(t, 1, m.Count("sampleB", "LEN1"))
}

func TestWriteTSV(t *testing.T) {
	agg := NewAggregator()
	agg.Add("SAMPLE_B", "LEN1_10_+1")
	agg.Add("SAMPLE_A", "LEN2_7_+2")
	agg.Add("SAMPLE_A", "LEN1_10_+1")

	var buf bytes.Buffer
	require.NoError(t, agg.Build().WriteTSV(&buf))

	want := "\tLEN1_10_+1\tLEN2_7_+2\n" +
		"SAMPLE_A\t1\t1\n" +
		"SAMPLE_B\t1\t0\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTSV_EmptyMatrix(t *testing.T) {
	m := NewAggregator().Build()
	assert.True(t, m.Empty())

	var buf bytes.Buffer
	require.NoError(t, m.WriteTSV(&buf))
	assert.Equal(t, "\n", buf.String())
}

package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSample() *DataSet {
	fields := []Field{
		{Name: "n", Kind: KindFloat64},
		{Name: "label", Kind: KindString},
	}
	b := NewBuilder(fields)
	for i, label := range []string{"a", "b", "c", "d"} {
		b.AppendFloat64(0, float64(i))
		b.AppendString(1, label)
	}
	return b.Build()
}

func TestBuilderRoundTrip(t *testing.T) {
	ds := buildSample()
	require.Equal(t, 4, ds.NumRows())
	require.Equal(t, 2, ds.NumCols())

	v, ok := ds.Float64At(0, 2)
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	s, ok := ds.StringAt(1, 2)
	require.True(t, ok)
	assert.Equal(t, "c", s)
}

func TestSlice(t *testing.T) {
	ds := buildSample()
	out := ds.Slice(1, 2)
	require.Equal(t, 2, out.NumRows())

	v, _ := out.Float64At(0, 0)
	assert.Equal(t, 1.0, v)
	v, _ = out.Float64At(0, 1)
	assert.Equal(t, 2.0, v)
}

func TestSliceClampsPastEnd(t *testing.T) {
	ds := buildSample()
	out := ds.Slice(3, 100)
	assert.Equal(t, 1, out.NumRows())
}

func TestTakeReorders(t *testing.T) {
	ds := buildSample()
	out := ds.Take([]int{3, 0})
	require.Equal(t, 2, out.NumRows())
	s0, _ := out.StringAt(1, 0)
	s1, _ := out.StringAt(1, 1)
	assert.Equal(t, "d", s0)
	assert.Equal(t, "a", s1)
}

func TestColumnIndex(t *testing.T) {
	ds := buildSample()
	idx, ok := ds.ColumnIndex("label")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = ds.ColumnIndex("missing")
	assert.False(t, ok)
}

package load

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sq-lang/sq/dataset"
	"github.com/sq-lang/sq/fetch"
)

func hintPtr(s string) *string { return &s }

func TestLoadCSVInfersTypes(t *testing.T) {
	csv := "continent,total_cases,active\n" +
		"Africa,200001.5,true\n" +
		"Europe,900000,false\n"

	ds, err := Load(&fetch.Result{Bytes: []byte(csv), Hint: hintPtr("csv")})
	require.NoError(t, err)
	require.Equal(t, 2, ds.NumRows())
	require.Equal(t, 3, ds.NumCols())

	s, ok := ds.StringAt(0, 0)
	require.True(t, ok)
	assert.Equal(t, "Africa", s)

	f, ok := ds.Float64At(1, 0)
	require.True(t, ok)
	assert.Equal(t, 200001.5, f)

	b, ok := ds.BoolAt(2, 1)
	require.True(t, ok)
	assert.False(t, b)
}

func TestLoadCSVMissingHint(t *testing.T) {
	_, err := Load(&fetch.Result{Bytes: []byte("a,b\n1,2\n"), Hint: nil})
	require.Error(t, err)
	var uerr *UnrecognizedHintError
	require.ErrorAs(t, err, &uerr)
}

func TestLoadConsole(t *testing.T) {
	text := "USER PID STARTED COMMAND\n" +
		"root 1    Jan01   /sbin/init splash\n" +
		"bob  42   Jan02   /usr/bin/env some long command line\n"

	ds, err := Load(&fetch.Result{Bytes: []byte(text), Hint: hintPtr("console")})
	require.NoError(t, err)
	require.Equal(t, 4, ds.NumCols())
	require.Equal(t, 2, ds.NumRows())

	cmd, ok := ds.StringAt(3, 1)
	require.True(t, ok)
	assert.Equal(t, "/usr/bin/env some long command line", cmd)
}

func TestLoadUnrecognizedHint(t *testing.T) {
	_, err := Load(&fetch.Result{Bytes: []byte("x"), Hint: hintPtr("xml")})
	require.Error(t, err)
}

func TestLoadParquetRejectsGarbage(t *testing.T) {
	_, err := Load(&fetch.Result{Bytes: []byte("not a parquet file"), Hint: hintPtr("parquet")})
	require.Error(t, err)
}

func TestLoadParquetRoundTrip(t *testing.T) {
	fields := []dataset.Field{
		{Name: "total_cases", Kind: dataset.KindFloat64},
		{Name: "active", Kind: dataset.KindBool},
		{Name: "continent", Kind: dataset.KindString},
	}
	b := dataset.NewBuilder(fields)
	b.AppendFloat64(0, 200001.5)
	b.AppendBool(1, true)
	b.AppendString(2, "Africa")
	b.AppendFloat64(0, 900000)
	b.AppendBool(1, false)
	b.AppendString(2, "Europe")
	written := b.Build()

	var buf bytes.Buffer
	require.NoError(t, written.ToParquet(&buf))

	ds, err := Load(&fetch.Result{Bytes: buf.Bytes(), Hint: hintPtr("parquet")})
	require.NoError(t, err)
	require.Equal(t, 2, ds.NumRows())
	require.Equal(t, 3, ds.NumCols())

	idx, ok := ds.ColumnIndex("continent")
	require.True(t, ok)
	s, ok := ds.StringAt(idx, 0)
	require.True(t, ok)
	assert.Equal(t, "Africa", s)
}

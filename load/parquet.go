package load

import (
	"bytes"
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/sq-lang/sq/dataset"
)

// loadParquet decodes data as Parquet with column-parallel decoding,
// delegated entirely to arrow-go's Parquet reader, and narrows every
// resulting Arrow column down to one of the engine's three canonical
// column kinds (KindFloat64, KindBool, KindString).
func loadParquet(data []byte) (*dataset.DataSet, error) {
	rdr, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer rdr.Close()

	fr, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, err
	}

	tbl, err := fr.ReadTable(context.Background())
	if err != nil {
		return nil, err
	}
	defer tbl.Release()

	n := int(tbl.NumCols())
	fields := make([]dataset.Field, n)
	cols := make([]arrow.Array, n)
	for i := 0; i < n; i++ {
		col := tbl.Column(i)
		chunks := col.Data().Chunks()
		merged, err := array.Concatenate(chunks, memory.DefaultAllocator)
		if err != nil {
			return nil, err
		}
		field, arr, err := narrowColumn(col.Name(), merged)
		if err != nil {
			return nil, err
		}
		fields[i] = field
		cols[i] = arr
	}
	return dataset.New(fields, cols), nil
}

// narrowColumn converts an arbitrary Arrow array into one backed by
// exactly one of the engine's three column kinds.
func narrowColumn(name string, arr arrow.Array) (dataset.Field, arrow.Array, error) {
	switch v := arr.(type) {
	case *array.Float64:
		return dataset.Field{Name: name, Kind: dataset.KindFloat64}, v, nil
	case *array.Boolean:
		return dataset.Field{Name: name, Kind: dataset.KindBool}, v, nil
	case *array.String:
		return dataset.Field{Name: name, Kind: dataset.KindString}, v, nil
	case *array.Float32:
		return widenToFloat64(name, v.Len(), func(i int) (float64, bool) {
			if v.IsNull(i) {
				return 0, false
			}
			return float64(v.Value(i)), true
		})
	case *array.Int32:
		return widenToFloat64(name, v.Len(), func(i int) (float64, bool) {
			if v.IsNull(i) {
				return 0, false
			}
			return float64(v.Value(i)), true
		})
	case *array.Int64:
		return widenToFloat64(name, v.Len(), func(i int) (float64, bool) {
			if v.IsNull(i) {
				return 0, false
			}
			return float64(v.Value(i)), true
		})
	default:
		return dataset.Field{}, nil, fmt.Errorf("parquet column %q: unsupported arrow type %s", name, arr.DataType())
	}
}

func widenToFloat64(name string, length int, at func(i int) (float64, bool)) (dataset.Field, arrow.Array, error) {
	mem := memory.NewGoAllocator()
	b := array.NewFloat64Builder(mem)
	for i := 0; i < length; i++ {
		if v, ok := at(i); ok {
			b.Append(v)
		} else {
			b.AppendNull()
		}
	}
	return dataset.Field{Name: name, Kind: dataset.KindFloat64}, b.NewFloat64Array(), nil
}

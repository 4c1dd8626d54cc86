// Package dataset implements the opaque columnar table the executor
// produces and returns to its caller: the engine's in-process
// representation of an arbitrary-schema, query-result table. Storage for
// each column is an Apache Arrow typed array, the closest Go analogue to
// the columnar engine the source spec assumes is available as a library.
package dataset

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// Kind is the closed set of column element types a DataSet column may
// hold — exactly the three kinds the engine expression Literal variant
// carries (double, boolean, text), plus the console loader's text-only
// columns.
type Kind int

const (
	KindFloat64 Kind = iota
	KindBool
	KindString
)

// Field names one column and its Kind.
type Field struct {
	Name string
	Kind Kind
}

// DataSet is the columnar table: one Arrow array per field, all the same
// length. Column order follows whatever order the caller (the executor's
// projection stage) assembled it in.
type DataSet struct {
	fields  []Field
	columns []arrow.Array
}

// New wraps pre-built columns. len(columns) must equal len(fields), and
// every column must have the same length.
func New(fields []Field, columns []arrow.Array) *DataSet {
	return &DataSet{fields: fields, columns: columns}
}

// Fields returns the table's column names and kinds, in column order.
func (d *DataSet) Fields() []Field { return d.fields }

// NumCols returns the number of columns.
func (d *DataSet) NumCols() int { return len(d.fields) }

// NumRows returns the number of rows, or 0 for a zero-column table.
func (d *DataSet) NumRows() int {
	if len(d.columns) == 0 {
		return 0
	}
	return d.columns[0].Len()
}

// Column returns the raw Arrow array backing column i.
func (d *DataSet) Column(i int) arrow.Array { return d.columns[i] }

// ColumnIndex looks up a column by name.
func (d *DataSet) ColumnIndex(name string) (int, bool) {
	for i, f := range d.fields {
		if f.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Float64At reads a float64 cell. ok is false if the column is not
// KindFloat64 or the cell is null.
func (d *DataSet) Float64At(col, row int) (v float64, ok bool) {
	arr, isKind := d.columns[col].(*array.Float64)
	if !isKind || arr.IsNull(row) {
		return 0, false
	}
	return arr.Value(row), true
}

// BoolAt reads a bool cell.
func (d *DataSet) BoolAt(col, row int) (v bool, ok bool) {
	arr, isKind := d.columns[col].(*array.Boolean)
	if !isKind || arr.IsNull(row) {
		return false, false
	}
	return arr.Value(row), true
}

// StringAt reads a string cell.
func (d *DataSet) StringAt(col, row int) (v string, ok bool) {
	arr, isKind := d.columns[col].(*array.String)
	if !isKind || arr.IsNull(row) {
		return "", false
	}
	return arr.Value(row), true
}

// IsNull reports whether the cell at (col, row) is null.
func (d *DataSet) IsNull(col, row int) bool {
	return d.columns[col].IsNull(row)
}

// Release frees the Arrow memory backing every column. Callers that no
// longer need the DataSet should call this once.
func (d *DataSet) Release() {
	for _, c := range d.columns {
		c.Release()
	}
}

// ToCSV renders the table as RFC 4180 CSV, header row first, carried over
// from the original's DataFrame.to_csv so query results can be piped
// straight into another sq query via file:// or cmd://.
func (d *DataSet) ToCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(d.fields))
	for i, f := range d.fields {
		header[i] = f.Name
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(d.fields))
	for r := 0; r < d.NumRows(); r++ {
		for col, f := range d.fields {
			switch f.Kind {
			case KindFloat64:
				v, ok := d.Float64At(col, r)
				if !ok {
					row[col] = ""
					continue
				}
				row[col] = strconv.FormatFloat(v, 'f', -1, 64)
			case KindBool:
				v, ok := d.BoolAt(col, r)
				if !ok {
					row[col] = ""
					continue
				}
				row[col] = strconv.FormatBool(v)
			case KindString:
				v, _ := d.StringAt(col, r)
				row[col] = v
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToParquet writes the table as a single-row-group Parquet file, carried
// over from the original's DataFrame.to_parquet.
func (d *DataSet) ToParquet(w io.Writer) error {
	fields := make([]arrow.Field, len(d.fields))
	for i, f := range d.fields {
		var dt arrow.DataType
		switch f.Kind {
		case KindFloat64:
			dt = arrow.PrimitiveTypes.Float64
		case KindBool:
			dt = arrow.FixedWidthTypes.Boolean
		default:
			dt = arrow.BinaryTypes.String
		}
		fields[i] = arrow.Field{Name: f.Name, Type: dt, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)
	table := array.NewTable(schema, d.columns, int64(d.NumRows()))
	defer table.Release()

	return pqarrow.WriteTable(table, w, table.NumRows(),
		parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
}

// Take builds a new DataSet by copying the rows named by indices, in order
// — the shared primitive behind both sort (a full permutation) and slice
// (a contiguous sub-range).
func (d *DataSet) Take(indices []int) *DataSet {
	b := NewBuilder(d.fields)
	for _, row := range indices {
		for col, f := range d.fields {
			switch f.Kind {
			case KindFloat64:
				if v, ok := d.Float64At(col, row); ok {
					b.AppendFloat64(col, v)
				} else {
					b.AppendNull(col)
				}
			case KindBool:
				if v, ok := d.BoolAt(col, row); ok {
					b.AppendBool(col, v)
				} else {
					b.AppendNull(col)
				}
			case KindString:
				if v, ok := d.StringAt(col, row); ok {
					b.AppendString(col, v)
				} else {
					b.AppendNull(col)
				}
			}
		}
	}
	return b.Build()
}

// Slice takes length rows starting at offset, clamped to the table's row
// count. A negative length takes every row from offset to the end.
func (d *DataSet) Slice(offset, length int) *DataSet {
	total := d.NumRows()
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := offset + length
	if end > total || length < 0 {
		end = total
	}
	indices := make([]int, 0, end-offset)
	for i := offset; i < end; i++ {
		indices = append(indices, i)
	}
	return d.Take(indices)
}

// Builder accumulates rows column-by-column and produces a DataSet.
type Builder struct {
	fields   []Field
	mem      memory.Allocator
	float64b []*array.Float64Builder
	boolb    []*array.BooleanBuilder
	stringb  []*array.StringBuilder
}

// NewBuilder allocates one typed Arrow builder per field.
func NewBuilder(fields []Field) *Builder {
	mem := memory.NewGoAllocator()
	b := &Builder{
		fields:   fields,
		mem:      mem,
		float64b: make([]*array.Float64Builder, len(fields)),
		boolb:    make([]*array.BooleanBuilder, len(fields)),
		stringb:  make([]*array.StringBuilder, len(fields)),
	}
	for i, f := range fields {
		switch f.Kind {
		case KindFloat64:
			b.float64b[i] = array.NewFloat64Builder(mem)
		case KindBool:
			b.boolb[i] = array.NewBooleanBuilder(mem)
		case KindString:
			b.stringb[i] = array.NewStringBuilder(mem)
		}
	}
	return b
}

// AppendFloat64 appends v to column col, which must be KindFloat64.
func (b *Builder) AppendFloat64(col int, v float64) { b.float64b[col].Append(v) }

// AppendBool appends v to column col, which must be KindBool.
func (b *Builder) AppendBool(col int, v bool) { b.boolb[col].Append(v) }

// AppendString appends v to column col, which must be KindString.
func (b *Builder) AppendString(col int, v string) { b.stringb[col].Append(v) }

// AppendNull appends a null to column col, regardless of kind.
func (b *Builder) AppendNull(col int) {
	switch b.fields[col].Kind {
	case KindFloat64:
		b.float64b[col].AppendNull()
	case KindBool:
		b.boolb[col].AppendNull()
	case KindString:
		b.stringb[col].AppendNull()
	}
}

// Build finalizes every column builder into an immutable DataSet.
func (b *Builder) Build() *DataSet {
	cols := make([]arrow.Array, len(b.fields))
	for i, f := range b.fields {
		switch f.Kind {
		case KindFloat64:
			cols[i] = b.float64b[i].NewFloat64Array()
		case KindBool:
			cols[i] = b.boolb[i].NewBooleanArray()
		case KindString:
			cols[i] = b.stringb[i].NewStringArray()
		}
	}
	return New(b.fields, cols)
}

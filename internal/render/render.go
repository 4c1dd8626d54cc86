// Package render owns the two environment variables the output layer
// consumes. The core engine never reads the environment; only the CLI's
// table printer does, keeping sq.Execute re-entrant and environment-free.
package render

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sq-lang/sq/dataset"
)

const (
	envMaxRows    = "POLARS_FMT_MAX_ROWS"
	envHideDTypes = "POLARS_FMT_TABLE_HIDE_COLUMN_DATA_TYPES"
)

// Options controls how Table renders a DataSet; NewOptionsFromEnv reads
// the two environment variables the reference CLI honors.
type Options struct {
	MaxRows       int // <=0 means unlimited
	HideDataTypes bool
}

// NewOptionsFromEnv reads POLARS_FMT_MAX_ROWS and
// POLARS_FMT_TABLE_HIDE_COLUMN_DATA_TYPES, defaulting to unlimited rows
// and visible data types when unset or unparseable.
func NewOptionsFromEnv() Options {
	opts := Options{MaxRows: -1}
	if v := os.Getenv(envMaxRows); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.MaxRows = n
		}
	}
	if v := os.Getenv(envHideDTypes); v != "" {
		opts.HideDataTypes = v == "1" || v == "true"
	}
	return opts
}

// Table writes ds to w as a simple fixed-width text table.
func Table(w io.Writer, ds *dataset.DataSet, opts Options) {
	fields := ds.Fields()
	widths := make([]int, len(fields))
	for i, f := range fields {
		widths[i] = len(f.Name)
	}

	rows := ds.NumRows()
	if opts.MaxRows > 0 && rows > opts.MaxRows {
		rows = opts.MaxRows
	}

	cellText := func(col, row int) string {
		if ds.IsNull(col, row) {
			return "null"
		}
		switch fields[col].Kind {
		case dataset.KindFloat64:
			v, _ := ds.Float64At(col, row)
			return strconv.FormatFloat(v, 'f', -1, 64)
		case dataset.KindBool:
			v, _ := ds.BoolAt(col, row)
			return strconv.FormatBool(v)
		default:
			v, _ := ds.StringAt(col, row)
			return v
		}
	}

	texts := make([][]string, rows)
	for row := 0; row < rows; row++ {
		texts[row] = make([]string, len(fields))
		for col := range fields {
			t := cellText(col, row)
			texts[row][col] = t
			if len(t) > widths[col] {
				widths[col] = len(t)
			}
		}
	}

	for i, f := range fields {
		label := f.Name
		if !opts.HideDataTypes {
			label = fmt.Sprintf("%s (%s)", f.Name, kindName(f.Kind))
			if len(label) > widths[i] {
				widths[i] = len(label)
			}
		}
		fmt.Fprintf(w, "%-*s  ", widths[i], label)
	}
	fmt.Fprintln(w)

	for _, r := range texts {
		for i, t := range r {
			fmt.Fprintf(w, "%-*s  ", widths[i], t)
		}
		fmt.Fprintln(w)
	}
}

func kindName(k dataset.Kind) string {
	switch k {
	case dataset.KindFloat64:
		return "f64"
	case dataset.KindBool:
		return "bool"
	default:
		return "str"
	}
}

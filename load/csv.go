package load

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/sq-lang/sq/dataset"
)

// schemaSampleRows bounds the schema-inference sample: a fixed small
// sampling budget, not a general content-sniffing policy.
const schemaSampleRows = 10

// loadCSV parses data as CSV with a required header row. Column types are
// inferred from the first schemaSampleRows data rows: a column is
// KindFloat64 if every sampled non-empty cell parses as a float, KindBool
// if every sampled non-empty cell is "true"/"false", and KindString
// otherwise. encoding/csv handles RFC 4180 tokenization; no third-party CSV
// reader in the retrieval pack offers a header-aware, type-inferring reader
// that improves on the standard library for this narrow a job.
func loadCSV(data []byte) (*dataset.DataSet, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}

	fields := make([]dataset.Field, len(header))
	for i, name := range header {
		fields[i] = dataset.Field{Name: name, Kind: sniffColumn(rows, i)}
	}

	b := dataset.NewBuilder(fields)
	for _, rec := range rows {
		for col := range fields {
			var cell string
			if col < len(rec) {
				cell = rec[col]
			}
			appendTyped(b, col, fields[col].Kind, cell)
		}
	}
	return b.Build(), nil
}

func sniffColumn(rows [][]string, col int) dataset.Kind {
	sampled := 0
	allFloat := true
	allBool := true
	for _, rec := range rows {
		if sampled >= schemaSampleRows {
			break
		}
		if col >= len(rec) {
			continue
		}
		cell := strings.TrimSpace(rec[col])
		if cell == "" {
			continue
		}
		sampled++
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			allFloat = false
		}
		if !strings.EqualFold(cell, "true") && !strings.EqualFold(cell, "false") {
			allBool = false
		}
	}
	switch {
	case sampled == 0:
		return dataset.KindString
	case allFloat:
		return dataset.KindFloat64
	case allBool:
		return dataset.KindBool
	default:
		return dataset.KindString
	}
}

func appendTyped(b *dataset.Builder, col int, kind dataset.Kind, cell string) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		b.AppendNull(col)
		return
	}
	switch kind {
	case dataset.KindFloat64:
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			b.AppendNull(col)
			return
		}
		b.AppendFloat64(col, v)
	case dataset.KindBool:
		b.AppendBool(col, strings.EqualFold(trimmed, "true"))
	default:
		b.AppendString(col, cell)
	}
}

// Package load dispatches on a fetch result's content hint to produce a
// typed columnar table.
package load

import (
	"github.com/sq-lang/sq/dataset"
	"github.com/sq-lang/sq/fetch"
)

// UnrecognizedHintError reports an absent or unrecognized content hint.
// Content sniffing is a deliberate non-goal; the hint must have been set
// correctly at fetch time.
type UnrecognizedHintError struct{ Hint string }

func (e *UnrecognizedHintError) Error() string {
	if e.Hint == "" {
		return "Guess content failed"
	}
	return "Guess content failed: unrecognized hint " + e.Hint
}

// Load materializes a fetch.Result into a DataSet, dispatching on Hint.
func Load(res *fetch.Result) (*dataset.DataSet, error) {
	if res.Hint == nil {
		return nil, &UnrecognizedHintError{}
	}
	switch *res.Hint {
	case "csv":
		return loadCSV(res.Bytes)
	case "parquet":
		return loadParquet(res.Bytes)
	case "console":
		return loadConsole(res.Bytes)
	default:
		return nil, &UnrecognizedHintError{Hint: *res.Hint}
	}
}

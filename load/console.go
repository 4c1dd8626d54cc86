package load

import (
	"regexp"
	"strings"

	"github.com/sq-lang/sq/dataset"
)

// consoleWhitespace mirrors the original loader's Unicode whitespace-run
// separator.
var consoleWhitespace = regexp.MustCompile(`\s+`)

// loadConsole parses whitespace-separated tabular text produced by classic
// Unix tools (e.g. `ps`). The header line's whitespace-separated tokens
// name the columns; every subsequent line is split into at most len(header)
// parts, so a trailing multi-word cell (a full command line) survives as
// one field. Every cell is text; no downstream type inference is performed.
func loadConsole(data []byte) (*dataset.DataSet, error) {
	lines := strings.Split(string(data), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, &UnrecognizedHintError{Hint: "console: empty input"}
	}

	header := consoleWhitespace.Split(strings.TrimSpace(lines[0]), -1)
	n := len(header)
	fields := make([]dataset.Field, n)
	for i, name := range header {
		fields[i] = dataset.Field{Name: name, Kind: dataset.KindString}
	}

	b := dataset.NewBuilder(fields)
	for _, line := range lines[1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		parts := consoleWhitespace.Split(trimmed, n)
		for col := 0; col < n; col++ {
			if col < len(parts) {
				b.AppendString(col, parts[col])
			} else {
				b.AppendNull(col)
			}
		}
	}
	return b.Build(), nil
}

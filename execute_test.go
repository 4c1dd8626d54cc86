package sq

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteLiteralOnlyWelcomeQuery(t *testing.T) {
	ds, err := Execute(context.Background(), "SELECT 'welcome', 'to', 'sq'")
	require.NoError(t, err)
	require.Equal(t, 1, ds.NumRows())
	require.Equal(t, 3, ds.NumCols())

	for i, want := range []string{"welcome", "to", "sq"} {
		s, ok := ds.StringAt(i, 0)
		require.True(t, ok)
		assert.Equal(t, want, s)
	}
}

func writeCSV(t *testing.T, rows string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(rows), 0o644))
	return path
}

const covidCSV = "continent,location,total_cases,new_cases,total_deaths\n" +
	"Africa,Egypt,300000.0,500.0,9000.0\n" +
	"Africa,Kenya,100000.0,100.0,2000.0\n" +
	"Europe,France,900000.0,2000.0,30000.0\n" +
	"Africa,Nigeria,250000.0,300.0,5000.0\n"

func TestExecuteFilterAndLimit(t *testing.T) {
	path := writeCSV(t, covidCSV)
	sql := `select continent, location, total_cases, new_cases, total_deaths
	        from file://` + path + `
	        where total_cases > 200000.0 and continent = 'Africa'
	        limit 10`

	ds, err := Execute(context.Background(), sql)
	require.NoError(t, err)
	assert.LessOrEqual(t, ds.NumRows(), 10)
	require.Equal(t, 5, ds.NumCols())

	for row := 0; row < ds.NumRows(); row++ {
		c, _ := ds.StringAt(0, row)
		assert.Equal(t, "Africa", c)
		tc, _ := ds.Float64At(2, row)
		assert.Greater(t, tc, 200000.0)
	}
}

func TestExecuteOrderByOffsetLimit(t *testing.T) {
	path := writeCSV(t, covidCSV)
	sql := `select location, new_cases
	        from file://` + path + `
	        where total_cases > 200000.0
	        order by new_cases
	        limit 100
	        offset 1`

	ds, err := Execute(context.Background(), sql)
	require.NoError(t, err)
	require.Equal(t, 2, ds.NumRows())

	prev := -1.0
	for row := 0; row < ds.NumRows(); row++ {
		v, _ := ds.Float64At(1, row)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
}

func TestExecuteWildcardFromConsole(t *testing.T) {
	// `echo` receives "a b c" as one un-split argument (cmd:// performs no
	// shell interpretation), printing one header-only line.
	ds, err := Execute(context.Background(), "select * from `cmd://echo?a b c`")
	require.NoError(t, err)
	require.Equal(t, 3, ds.NumCols())
	assert.Equal(t, 0, ds.NumRows())
}

func TestExecuteSliceArithmetic(t *testing.T) {
	path := writeCSV(t, covidCSV)
	ds, err := Execute(context.Background(), `select location from file://`+path+` limit 2 offset 1`)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.NumRows())
}

func TestExecuteRejectsUnsupportedOperatorAtWhere(t *testing.T) {
	path := writeCSV(t, covidCSV)
	_, err := Execute(context.Background(), `select location from file://`+path+` where total_cases >> 1`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ">>")
}

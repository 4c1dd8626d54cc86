package fetch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	res, err := Fetch(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(res.Bytes))
	require.NotNil(t, res.Hint)
	assert.Equal(t, "csv", *res.Hint)
}

func TestFetchFileNoHint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("xyz"), 0o644))

	res, err := Fetch(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Nil(t, res.Hint)
}

func TestFetchCmd(t *testing.T) {
	res, err := Fetch(context.Background(), "cmd://echo?hello world")
	require.NoError(t, err)
	require.NotNil(t, res.Hint)
	assert.Equal(t, "console", *res.Hint)
	assert.Contains(t, string(res.Bytes), "hello world")
}

func TestFetchCmdNoArgument(t *testing.T) {
	res, err := Fetch(context.Background(), "cmd://true")
	require.NoError(t, err)
	assert.Equal(t, "console", *res.Hint)
}

func TestFetchUnsupportedScheme(t *testing.T) {
	_, err := Fetch(context.Background(), "ftp://example.com/x")
	require.Error(t, err)
	var uerr *UnsupportedSchemeError
	require.ErrorAs(t, err, &uerr)
}

func TestFetchShortURLDoesNotPanic(t *testing.T) {
	_, err := Fetch(context.Background(), "ab")
	require.Error(t, err)
}

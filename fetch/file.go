package fetch

import (
	"context"
	"os"
	"strings"
)

const fileSchemePrefix = "file://"

// fetchFile strips the leading "file://" and reads the remaining path from
// the filesystem.
func fetchFile(ctx context.Context, url string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimPrefix(url, fileSchemePrefix)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Result{Bytes: data, Hint: hintFromPath(path)}, nil
}

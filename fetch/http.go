package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// fetchHTTP issues a GET request and reads the full body. Suspension points
// per the concurrency model are the request issue and the body read; both
// respect ctx cancellation via http.NewRequestWithContext.
func fetchHTTP(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("GET %s: status %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Result{Bytes: body, Hint: hintFromPath(url)}, nil
}

package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/guardianads/pulse/internal/utils"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

// GetJSONWithRetry fetches a JSON document with exponential backoff and
// a little jitter between attempts.
func GetJSONWithRetry(ctx context.Context, c HTTPClient, url string, dst any) error {
	if url == "" {
		return errors.New("empty url")
	}
	return utils.NewBackoff(100*time.Millisecond, 2).Do(func(i int) error {
		if i > 0 {
			time.Sleep(time.Duration(rand.Intn(150)) * time.Millisecond)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := c.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return fmt.Errorf("non-2xx: %d body=%s", resp.StatusCode, string(b))
		}
		return json.NewDecoder(resp.Body).Decode(dst)
	})
}

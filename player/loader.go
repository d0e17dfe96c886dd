package player

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const userAgent = "gifplay/1.0"

var httpClient = &http.Client{Timeout: 15 * time.Second}

// Source names one place to read a GIF from. Exactly one field should
// be set; they are checked in order Bytes, Path, URL.
type Source struct {
	Bytes []byte
	Path  string
	URL   string
}

func (source Source) kind() string {
	switch {
	case source.Bytes != nil:
		return "buffer"
	case source.Path != "":
		return "file"
	case source.URL != "":
		return "url"
	}
	return "none"
}

// Resolve reads the source's bytes without decoding them.
func (source Source) Resolve(ctx context.Context) ([]byte, error) {
	switch {
	case source.Bytes != nil:
		return source.Bytes, nil
	case source.Path != "":
		return os.ReadFile(source.Path)
	case source.URL != "":
		return fetch(ctx, source.URL)
	}
	return nil, ErrUnsupportedSource
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("player: fetch %s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

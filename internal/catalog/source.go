package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Source produces the raw records of one table. Each source is fetched
// independently of the other.
type Source interface {
	Decode(ctx context.Context, v interface{}) error
	String() string
}

// NewSource picks the source implementation from the location: http(s)
// URLs are fetched, anything else is read from disk and decoded by
// extension (.yaml/.yml as YAML, everything else as JSON).
func NewSource(location string, client *http.Client) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if client == nil {
			client = &http.Client{Timeout: 15 * time.Second}
		}
		return &httpSource{url: location, client: client}
	}
	return &fileSource{path: location}
}

type httpSource struct {
	url    string
	client *http.Client
}

func (s *httpSource) String() string { return s.url }

func (s *httpSource) Decode(ctx context.Context, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d", s.url, resp.StatusCode)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("json unmarshal: %w", err)
	}
	return nil
}

type fileSource struct {
	path string
}

func (s *fileSource) String() string { return s.path }

func (s *fileSource) Decode(ctx context.Context, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("yaml unmarshal %s: %w", s.path, err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("json unmarshal %s: %w", s.path, err)
		}
	}
	return nil
}

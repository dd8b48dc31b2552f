// Package remote fetches city data over HTTP with a layered fallback:
// one bounded attempt against the feed, then the local JSON cache,
// then the generated offline city. Callers learn which layer answered
// through the DataSource tag and never see a mid-stack failure.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"courierquest/internal/adapter/provider/generated"
	"courierquest/internal/app/ports"
	"courierquest/internal/domain/city"
)

const (
	defaultTimeout = 5 * time.Second

	mapCacheFile  = "city_map.json"
	jobsCacheFile = "city_jobs.json"
)

type Provider struct {
	BaseURL  string
	CacheDir string
	Client   *http.Client
}

func New(baseURL, cacheDir string) *Provider {
	return &Provider{
		BaseURL:  baseURL,
		CacheDir: cacheDir,
		Client:   &http.Client{Timeout: defaultTimeout},
	}
}

// envelope matches the feed's response wrapper. Some deployments wrap
// the document in "data", some serve it bare; both are accepted.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (p *Provider) FetchMap(ctx context.Context) (ports.MapResult, error) {
	raw, err := p.fetch(ctx, "/city/map", mapCacheFile)
	source := ports.SourceRemote
	if err != nil {
		raw, err = p.readCache(mapCacheFile)
		source = ports.SourceCache
	}
	if err == nil {
		var m city.Map
		if uerr := json.Unmarshal(unwrap(raw), &m); uerr == nil && m.Validate() == nil {
			return ports.MapResult{Map: m, Source: source}, nil
		}
	}
	res, gerr := generated.Provider{}.FetchMap(ctx)
	if gerr != nil {
		return ports.MapResult{}, gerr
	}
	return res, nil
}

func (p *Provider) FetchJobs(ctx context.Context) (ports.JobsResult, error) {
	raw, err := p.fetch(ctx, "/city/jobs", jobsCacheFile)
	source := ports.SourceRemote
	if err != nil {
		raw, err = p.readCache(jobsCacheFile)
		source = ports.SourceCache
	}
	if err == nil {
		var jobs []ports.JobDescriptor
		if uerr := json.Unmarshal(unwrap(raw), &jobs); uerr == nil {
			return ports.JobsResult{Jobs: jobs, Source: source}, nil
		}
	}
	res, gerr := generated.Provider{}.FetchJobs(ctx)
	if gerr != nil {
		return ports.JobsResult{}, gerr
	}
	return res, nil
}

// fetch makes the single remote attempt and refreshes the cache file
// on success.
func (p *Provider) fetch(ctx context.Context, path, cacheFile string) ([]byte, error) {
	if p.BaseURL == "" {
		return nil, fmt.Errorf("no remote feed configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	p.writeCache(cacheFile, body)
	return body, nil
}

func (p *Provider) readCache(name string) ([]byte, error) {
	if p.CacheDir == "" {
		return nil, os.ErrNotExist
	}
	return os.ReadFile(filepath.Join(p.CacheDir, name))
}

func (p *Provider) writeCache(name string, body []byte) {
	if p.CacheDir == "" {
		return
	}
	if err := os.MkdirAll(p.CacheDir, 0o755); err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(p.CacheDir, name), body, 0o644)
}

func unwrap(raw []byte) []byte {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		return env.Data
	}
	return raw
}

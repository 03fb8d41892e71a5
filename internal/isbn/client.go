package isbn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bookflaz/bookflaz/internal/config"
	"github.com/rs/zerolog/log"
)

// Metadata is the subset of book metadata we take from the external lookup.
type Metadata struct {
	Titulo  string
	Autor   string
	Editora string
	Ano     int
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

type lookupResponse struct {
	Title       string `json:"title"`
	PublishDate string `json:"publish_date"`
	Publishers  []struct {
		Name string `json:"name"`
	} `json:"publishers"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

func NewClient(cfg *config.IsbnConfig) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 50,
				IdleConnTimeout:     90 * time.Second,
				DisableKeepAlives:   false,
			},
		},
		baseURL: cfg.BaseURL,
	}
}

// Lookup fetches book metadata by ISBN. Callers treat a failure as "no
// metadata available" - the listing flow must not depend on the external
// service being up.
func (c *Client) Lookup(ctx context.Context, isbn string) (*Metadata, error) {
	respBody, err := c.doRequest(ctx, fmt.Sprintf("/isbn/%s.json", isbn))
	if err != nil {
		return nil, err
	}

	var resp lookupResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Title == "" {
		return nil, fmt.Errorf("isbn %s not found", isbn)
	}

	meta := &Metadata{Titulo: resp.Title}
	if len(resp.Authors) > 0 {
		meta.Autor = resp.Authors[0].Name
	}
	if len(resp.Publishers) > 0 {
		meta.Editora = resp.Publishers[0].Name
	}
	if len(resp.PublishDate) >= 4 {
		fmt.Sscanf(resp.PublishDate[len(resp.PublishDate)-4:], "%d", &meta.Ano)
	}
	return meta, nil
}

func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create HTTP request")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		log.Error().Err(err).
			Str("url", url).
			Int64("duration_ms", duration).
			Msg("HTTP request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).
			Str("url", url).
			Int64("duration_ms", duration).
			Msg("Failed to read response body")
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		log.Warn().
			Int("status", resp.StatusCode).
			Str("url", url).
			Int64("duration_ms", duration).
			Msg("ISBN lookup error response")
		return nil, fmt.Errorf("isbn lookup error: status=%d", resp.StatusCode)
	}

	log.Info().
		Int("status", resp.StatusCode).
		Str("url", url).
		Int64("duration_ms", duration).
		Msg("ISBN lookup successful")

	return respBody, nil
}

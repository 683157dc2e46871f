package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/poiesic/enrichit/core"
	"github.com/poiesic/enrichit/provider"
	"github.com/tidwall/gjson"
)

// maxErrorBody bounds how much of a failed response body is logged.
const maxErrorBody = 512

// Client implements provider.BulkLookup using the Apollo HTTP API.
type Client struct {
	config *provider.Config
	http   *http.Client
	logger *slog.Logger
}

type bulkEnrichRequest struct {
	APIKey  string        `json:"api_key"`
	Domains []core.Domain `json:"domains"`
}

// NewClient creates an Apollo lookup client.
// The config is validated and normalized before use.
//
// Returns provider.BulkLookup interface (not *Client) so callers stay
// independent of the transport.
func NewClient(config *provider.Config) (provider.BulkLookup, error) {
	return newClient(config)
}

func newClient(config *provider.Config) (*Client, error) {
	if config == nil {
		config = provider.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		logger: slog.Default().With("component", "apollo-client"),
	}, nil
}

// LookupOrganizations sends one bulk enrichment request for domains.
func (c *Client) LookupOrganizations(ctx context.Context, domains []core.Domain) ([]*provider.Organization, error) {
	if len(domains) == 0 {
		return nil, provider.ErrEmptyBatch
	}
	if len(domains) > c.config.BatchLimit {
		return nil, fmt.Errorf("%w: %d domains, limit %d", provider.ErrBatchTooLarge, len(domains), c.config.BatchLimit)
	}

	payload, err := json.Marshal(bulkEnrichRequest{APIKey: c.config.APIKey, Domains: domains})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("bulk enrich request", "domains", len(domains))
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bulk enrich request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("bulk enrich rejected", "status", resp.StatusCode, "body", excerpt(body))
		return nil, fmt.Errorf("%w: %d", provider.ErrUnexpectedStatus, resp.StatusCode)
	}

	orgs, err := parseOrganizations(body)
	if err != nil {
		c.logger.Error("bulk enrich response unreadable", "body", excerpt(body))
		return nil, err
	}
	return orgs, nil
}

// parseOrganizations reads the positional organizations list.
// Null entries and non-object entries map to nil.
func parseOrganizations(body []byte) ([]*provider.Organization, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", provider.ErrMalformedResponse)
	}
	list := gjson.GetBytes(body, "organizations")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: missing organizations list", provider.ErrMalformedResponse)
	}

	entries := list.Array()
	orgs := make([]*provider.Organization, len(entries))
	for i, entry := range entries {
		if !entry.IsObject() {
			continue
		}
		org := &provider.Organization{
			Name:          entry.Get("name").String(),
			PrimaryDomain: entry.Get("primary_domain").String(),
		}
		if industry := entry.Get("industry"); industry.Type == gjson.String {
			org.Industry = industry.Str
		}
		orgs[i] = org
	}
	return orgs, nil
}

func excerpt(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}

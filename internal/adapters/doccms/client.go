package doccms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/inkhouse/backend/internal/platform/apperror"
	"github.com/inkhouse/backend/internal/platform/logger"
)

// Config holds the settings for the hosted document backend. WriteToken is
// only needed for mutations; read queries run against the public dataset.
type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	WriteToken string
	UseCDN     bool
}

// Client speaks the document backend's HTTP data API. Queries may be routed
// through the CDN edge; mutations always hit the live API host.
type Client struct {
	queryBase  string
	mutateBase string
	dataset    string
	writeToken string
	httpClient *http.Client
	log        logger.Logger
}

func NewClient(cfg Config, log logger.Logger) *Client {
	apiHost := fmt.Sprintf("https://%s.api.sanity.io/v%s", cfg.ProjectID, cfg.APIVersion)
	queryHost := apiHost
	if cfg.UseCDN {
		queryHost = fmt.Sprintf("https://%s.apicdn.sanity.io/v%s", cfg.ProjectID, cfg.APIVersion)
	}
	return &Client{
		queryBase:  queryHost,
		mutateBase: apiHost,
		dataset:    cfg.Dataset,
		writeToken: cfg.WriteToken,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log,
	}
}

type queryEnvelope struct {
	Result json.RawMessage `json:"result"`
}

// query runs one parameterized query. Every caller-supplied value travels as
// a JSON-encoded $parameter, never interpolated into the query text.
func (c *Client) query(ctx context.Context, groq string, params map[string]any, out any) error {
	const op = "GET /data/query"

	values := url.Values{}
	values.Set("query", groq)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("%s: encode param %s: %w", op, name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	endpoint := fmt.Sprintf("%s/data/query/%s?%s", c.queryBase, c.dataset, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if c.writeToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.writeToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.RemoteUnreachable(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn(ctx, "document backend returned error status",
			"op", op, "status", resp.StatusCode)
		return apperror.RemoteStatus(op, resp.StatusCode)
	}

	var envelope queryEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%s: decode envelope: %w", op, err)
	}
	if out == nil || len(envelope.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("%s: decode result: %w", op, err)
	}
	return nil
}

type mutateEnvelope struct {
	Results []struct {
		ID       string          `json:"id"`
		Document json.RawMessage `json:"document"`
	} `json:"results"`
}

// mutate submits one transactional mutation batch. The whole batch commits or
// none of it does. The write token is required and attached by the caller's
// precondition, not re-checked here.
func (c *Client) mutate(ctx context.Context, mutations []any, returnDocuments bool) (*mutateEnvelope, error) {
	const op = "POST /data/mutate"

	payload, err := json.Marshal(map[string]any{"mutations": mutations})
	if err != nil {
		return nil, fmt.Errorf("%s: encode mutations: %w", op, err)
	}

	endpoint := fmt.Sprintf("%s/data/mutate/%s?returnDocuments=%t", c.mutateBase, c.dataset, returnDocuments)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.writeToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.RemoteUnreachable(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn(ctx, "document backend rejected mutation",
			"op", op, "status", resp.StatusCode)
		return nil, apperror.RemoteStatus(op, resp.StatusCode)
	}

	var envelope mutateEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return &envelope, nil
}

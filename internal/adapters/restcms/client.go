package restcms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/inkhouse/backend/internal/platform/apperror"
	"github.com/inkhouse/backend/internal/platform/logger"
)

// Config holds the settings for the remote REST backend. Username and
// AppPassword are only needed when write operations are used.
type Config struct {
	BaseURL     string
	Username    string
	AppPassword string
}

// errRemoteNotFound marks a remote 404 so callers can translate it into the
// contract's nil-for-absent semantics.
var errRemoteNotFound = errors.New("remote resource not found")

// Client speaks the versioned REST namespace of the remote CMS. It does not
// retry; failures surface immediately to the caller.
type Client struct {
	baseURL     string
	username    string
	appPassword string
	httpClient  *http.Client
	log         logger.Logger
}

func NewClient(cfg Config, log logger.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		username:    cfg.Username,
		appPassword: cfg.AppPassword,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		log:         log,
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.send(ctx, http.MethodGet, path, query, nil, out)
}

// send issues one request against the /wp/v2 namespace. The basic-auth
// header is attached whenever credentials are configured; the remote system
// requires it for any non-public read and for every write.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out any) error {
	op := fmt.Sprintf("%s %s", method, path)

	endpoint := c.baseURL + "/wp/v2" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" && c.appPassword != "" {
		req.SetBasicAuth(c.username, c.appPassword)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.RemoteUnreachable(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errRemoteNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn(ctx, "remote backend returned error status",
			"op", op, "status", resp.StatusCode)
		return apperror.RemoteStatus(op, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

package workspaceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"workspace-migrator/internal/migration/domain/model"
	apperrors "workspace-migrator/internal/shared/errors"
	"workspace-migrator/internal/shared/logger"
)

const defaultTimeout = 30 * time.Second

// Client talks to the workspace store's record-query API. Safe for
// sequential use only; the engine never queries concurrently.
type Client struct {
	baseURL    string
	token      string
	apiVersion string
	httpClient *http.Client
	log        logger.Logger
}

// NewClient creates a workspace API client.
func NewClient(baseURL, token, apiVersion string, log logger.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		apiVersion: apiVersion,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        log.WithComponent("workspace-api"),
	}
}

type queryRequest struct {
	PageSize    int    `json:"page_size"`
	StartCursor string `json:"start_cursor,omitempty"`
}

// QueryPage fetches one page of records from the database.
func (c *Client) QueryPage(ctx context.Context, databaseID string, pageSize int, startCursor string) (model.Page, error) {
	body, err := json.Marshal(queryRequest{PageSize: pageSize, StartCursor: startCursor})
	if err != nil {
		return model.Page{}, fmt.Errorf("encode query: %w", err)
	}

	url := fmt.Sprintf("%s/v1/databases/%s/query", c.baseURL, databaseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return model.Page{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Workspace-Version", c.apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Page{}, fmt.Errorf("%w: %v", apperrors.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return model.Page{}, fmt.Errorf("%w: workspace API rejected the token (status %d)", apperrors.ErrUnauthorized, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return model.Page{}, fmt.Errorf("%w: status %d: %s", apperrors.ErrSourceUnavailable, resp.StatusCode, payload)
	}

	var page model.Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return model.Page{}, fmt.Errorf("decode page: %w", err)
	}

	c.log.Debugf("fetched %d records from %s (has_more=%t)", len(page.Results), databaseID, page.HasMore)
	return page, nil
}

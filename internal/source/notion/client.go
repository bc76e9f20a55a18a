package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aldenluthfi/situs-backend/internal/apperr"
)

const (
	DefaultBaseURL = "https://api.notion.com"
	APIVersion     = "2022-06-28"

	maxPageSize = 100
)

// Client is a thin Notion REST client covering database queries and block
// children.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// apiError is the error object returned by the Notion API.
type apiError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("notion api error %d (%s): %s", e.Status, e.Code, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, payload any, result any) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", APIVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &apiError{Status: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

type databaseQuery struct {
	Filter      *filter `json:"filter,omitempty"`
	Sorts       []sort  `json:"sorts,omitempty"`
	PageSize    int     `json:"page_size"`
	StartCursor string  `json:"start_cursor,omitempty"`
}

type filter struct {
	Property    string             `json:"property"`
	MultiSelect *multiSelectFilter `json:"multi_select,omitempty"`
}

type multiSelectFilter struct {
	DoesNotContain string `json:"does_not_contain,omitempty"`
}

type sort struct {
	Property  string `json:"property"`
	Direction string `json:"direction"`
}

type pageList struct {
	Results    []page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

type blockList struct {
	Results    []block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor"`
}

// QueryDatabase follows next_cursor until the result set is exhausted.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, q databaseQuery) ([]page, error) {
	var pages []page
	q.PageSize = maxPageSize

	for {
		var list pageList
		if err := c.do(ctx, http.MethodPost, "/v1/databases/"+databaseID+"/query", q, &list); err != nil {
			return nil, fmt.Errorf("query database %s: %w", databaseID, err)
		}
		pages = append(pages, list.Results...)

		if !list.HasMore || list.NextCursor == "" {
			return pages, nil
		}
		q.StartCursor = list.NextCursor
	}
}

// BlockChildren returns every direct child of a block or page.
func (c *Client) BlockChildren(ctx context.Context, blockID string) ([]block, error) {
	var blocks []block
	cursor := ""

	for {
		path := fmt.Sprintf("/v1/blocks/%s/children?page_size=%d", blockID, maxPageSize)
		if cursor != "" {
			path += "&start_cursor=" + cursor
		}

		var list blockList
		if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
			return nil, fmt.Errorf("list children of %s: %w", blockID, err)
		}
		blocks = append(blocks, list.Results...)

		if !list.HasMore || list.NextCursor == "" {
			return blocks, nil
		}
		cursor = list.NextCursor
	}
}

func isNotFound(err error) bool {
	var apiErr *apiError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func upstream(err error) error {
	return apperr.NewUpstream("notion", err)
}

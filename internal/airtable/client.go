// Package airtable is the alternate data source: the same seven tables
// served by an Airtable-style REST API with bearer-token auth instead of
// Postgres. It satisfies source.DataSource, so the aggregation layer does not
// know which backend it is reading from.
package airtable

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/imroc/req/v3"

	"github.com/yourorg/secops-dashboard/internal/source"
)

const defaultBaseURL = "https://api.airtable.com"

type record struct {
	ID          string         `json:"id"`
	Fields      map[string]any `json:"fields"`
	CreatedTime time.Time      `json:"createdTime"`
}

type tableResponse struct {
	Records []record `json:"records"`
	Offset  string   `json:"offset"`
}

type Client struct {
	client *req.Client
	baseID string
}

func New(baseURL, baseID, token string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := req.C().
		SetBaseURL(baseURL).
		SetCommonHeaders(map[string]string{
			"Authorization": "Bearer " + token,
			"Content-Type":  "application/json",
		}).
		SetTimeout(10 * time.Second)
	return &Client{client: client, baseID: baseID}
}

// TestConnection verifies the credentials against the base metadata endpoint.
func (c *Client) TestConnection(ctx context.Context) error {
	resp, err := c.client.R().SetContext(ctx).
		Get(fmt.Sprintf("/v0/meta/bases/%s/tables", c.baseID))
	if err != nil {
		return &source.FetchError{Op: "airtable connection", Err: err}
	}
	if resp.IsErrorState() {
		return &source.FetchError{
			Op:  "airtable connection",
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, resp.String()),
		}
	}
	return nil
}

// fetchTable lists one table's records sorted on sortField in the given
// direction ("asc" or "desc"), following the offset cursor across pages. A
// non-positive limit fetches every page.
func (c *Client) fetchTable(ctx context.Context, table, sortField, direction string, limit int) ([]record, error) {
	params := url.Values{}
	if sortField != "" {
		if direction == "" {
			direction = "desc"
		}
		params.Set("sort[0][field]", sortField)
		params.Set("sort[0][direction]", direction)
	}
	if limit > 0 {
		params.Set("maxRecords", strconv.Itoa(limit))
	}

	base := fmt.Sprintf("/v0/%s/%s", c.baseID, url.PathEscape(table))

	var out []record
	for {
		resp, err := c.client.R().SetContext(ctx).Get(base + "?" + params.Encode())
		if err != nil {
			return nil, &source.FetchError{Op: table, Err: err}
		}
		if resp.IsErrorState() {
			return nil, &source.FetchError{
				Op:  table,
				Err: fmt.Errorf("status %d: %s", resp.StatusCode, resp.String()),
			}
		}

		var body tableResponse
		if err := resp.UnmarshalJson(&body); err != nil {
			return nil, &source.FetchError{Op: table, Err: err}
		}
		out = append(out, body.Records...)

		if body.Offset == "" || (limit > 0 && len(out) >= limit) {
			break
		}
		params.Set("offset", body.Offset)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

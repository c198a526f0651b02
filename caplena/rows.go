package caplena

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// AddRows submits up to MaxBulkRows rows in one request. The rows are queued
// for processing; the response carries the task that ingests them.
func (c *Client) AddRows(ctx context.Context, projectID string, rows []Row) (*BulkRowsResponse, error) {
	if len(rows) > MaxBulkRows {
		return nil, fmt.Errorf("bulk upload of %d rows exceeds limit of %d", len(rows), MaxBulkRows)
	}

	path := "/projects/" + url.PathEscape(projectID) + "/rows/bulk"
	body, err := c.sendRequest(ctx, http.MethodPost, path, nil, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to add rows: %w", err)
	}

	var resp BulkRowsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bulk response: %w", err)
	}

	return &resp, nil
}

func (c *Client) ListRowsPage(ctx context.Context, projectID string, page int) (*RowPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(RowsPageLimit))

	path := "/projects/" + url.PathEscape(projectID) + "/rows"
	body, err := c.sendRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list rows: %w", err)
	}

	decoded, err := decodeList[Row](body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode rows page %d: %w", page, err)
	}

	// Bare arrays carry no cursor and the server may cap the page below the
	// requested limit, so only an empty page ends the listing.
	hasNext := decoded.Next != ""
	if decoded.Bare {
		hasNext = len(decoded.Items) > 0
	}

	return &RowPage{Rows: decoded.Items, HasNext: hasNext}, nil
}

// ListAllRows pages through every row of a project in listing order.
func (c *Client) ListAllRows(ctx context.Context, projectID string) ([]Row, error) {
	var rows []Row

	for page := 1; ; page++ {
		if page > 1 && c.pageDelay > 0 {
			select {
			case <-ctx.Done():
				return rows, ctx.Err()
			case <-time.After(c.pageDelay):
			}
		}

		result, err := c.ListRowsPage(ctx, projectID, page)
		if err != nil {
			return rows, err
		}
		rows = append(rows, result.Rows...)

		if !result.HasNext || len(result.Rows) == 0 {
			log.Debug().Str("project_id", projectID).Int("pages", page).Int("rows", len(rows)).Msg("Listed all rows")
			return rows, nil
		}
	}
}

func (c *Client) DeleteRow(ctx context.Context, projectID, rowID string) error {
	path := "/projects/" + url.PathEscape(projectID) + "/rows/" + url.PathEscape(rowID)
	if _, err := c.sendRequest(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete row %s: %w", rowID, err)
	}
	return nil
}

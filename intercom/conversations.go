package intercom

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"
)

const PageSize = 50

// ListConversations requests one page of conversations, most recently
// updated first. An empty startingAfter requests the first page.
func (c *Client) ListConversations(ctx context.Context, startingAfter string) (*ListConversationsResponse, error) {
	query := url.Values{}
	query.Set("per_page", strconv.Itoa(PageSize))
	query.Set("sort", "updated_at")
	query.Set("order", "desc")
	if startingAfter != "" {
		query.Set("starting_after", startingAfter)
	}

	var resp ListConversationsResponse
	if err := c.getJSON(ctx, "/conversations", query, &resp); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	log.Debug().
		Int("count", len(resp.Conversations)).
		Str("starting_after", startingAfter).
		Bool("has_next", resp.NextCursor() != "").
		Msg("Listed conversations page")

	return &resp, nil
}

func (c *Client) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	var conversation Conversation
	if err := c.getJSON(ctx, "/conversations/"+url.PathEscape(id), nil, &conversation); err != nil {
		return nil, fmt.Errorf("failed to get conversation %s: %w", id, err)
	}

	return &conversation, nil
}

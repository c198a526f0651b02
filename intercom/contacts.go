package intercom

import (
	"context"
	"fmt"
	"net/url"
)

func (c *Client) GetContact(ctx context.Context, id string) (*Contact, error) {
	var contact Contact
	if err := c.getJSON(ctx, "/contacts/"+url.PathEscape(id), nil, &contact); err != nil {
		return nil, fmt.Errorf("failed to get contact %s: %w", id, err)
	}

	return &contact, nil
}

package pushgw

import (
	"context"
	"net/http"
)

// Message one outbound notification
type Message struct {
	UserID string `json:"user_id"`
	Title  string `json:"title,omitempty"`
	Text   string `json:"text"`
}

// SendMessage pushes msg and returns the gateway message id.
func (c *Client) SendMessage(ctx context.Context, msg Message) (string, error) {
	var resp struct {
		Data struct {
			MessageID string `json:"message_id"`
		} `json:"data"`
	}
	if err := c.doRequest(ctx, http.MethodPost, "/messages", msg, &resp); err != nil {
		return "", err
	}
	return resp.Data.MessageID, nil
}

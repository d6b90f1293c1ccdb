package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Dhruvraj1821/chatify/internal/infrastructure/realtime"
)

// APIClient talks to the chat server's REST API, authenticating every request
// with the session token. It implements MessageService for the Store.
type APIClient struct {
	base   *url.URL
	token  string
	client *http.Client
}

var _ MessageService = (*APIClient)(nil)

func NewAPIClient(baseURL, token string) (*APIClient, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("chatclient: invalid base url: %w", err)
	}
	return &APIClient{
		base:   base,
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// CreateMessage persists a message to the given recipient and returns the
// authoritative copy the server stored.
func (c *APIClient) CreateMessage(ctx context.Context, recipientID string, body, attachmentURL *string) (realtime.MessagePayload, error) {
	payload, err := json.Marshal(map[string]*string{
		"body":           body,
		"attachment_url": attachmentURL,
	})
	if err != nil {
		return realtime.MessagePayload{}, fmt.Errorf("chatclient: encode request: %w", err)
	}

	endpoint := c.base.JoinPath("/api/v1/messages/send/", recipientID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return realtime.MessagePayload{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return realtime.MessagePayload{}, fmt.Errorf("chatclient: send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return realtime.MessagePayload{}, c.apiError(resp)
	}

	var msg realtime.MessagePayload
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return realtime.MessagePayload{}, fmt.Errorf("chatclient: decode message: %w", err)
	}
	return msg, nil
}

// Conversation fetches message history with the given peer, oldest first.
func (c *APIClient) Conversation(ctx context.Context, peerID string, limit, offset int) ([]realtime.MessagePayload, error) {
	endpoint := c.base.JoinPath("/api/v1/messages/", peerID)
	q := endpoint.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chatclient: fetch conversation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}

	var out struct {
		Messages []realtime.MessagePayload `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("chatclient: decode conversation: %w", err)
	}
	return out.Messages, nil
}

func (c *APIClient) authorize(req *http.Request) {
	req.AddCookie(&http.Cookie{Name: "jwt", Value: c.token})
}

func (c *APIClient) apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("chatclient: server returned %d: %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("chatclient: server returned %d", resp.StatusCode)
}

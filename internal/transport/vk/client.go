// Package vk is the VK channel adapter. VK has no official Go SDK, so the
// client speaks directly to the Bots API over HTTP: messages.send for
// outbound and the user long poll protocol for inbound.
package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	apiBaseURL = "https://api.vk.com/method"
	apiVersion = "5.131"

	// longPollWait is the server-side hold in seconds; the HTTP timeout
	// must sit above it.
	longPollWait = 25
)

// Client is a minimal VK API client for the methods the bot needs.
type Client struct {
	httpClient *http.Client
	token      string
	baseURL    string
}

func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: (longPollWait + 15) * time.Second},
		token:      token,
		baseURL:    apiBaseURL,
	}
}

type apiError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

// call invokes one API method and decodes the "response" payload into out.
func (c *Client) call(ctx context.Context, method string, params url.Values, out interface{}) error {
	params.Set("access_token", c.token)
	params.Set("v", apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method,
		strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("vk: %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vk: %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vk: %s: unexpected status %d", method, resp.StatusCode)
	}

	var envelope struct {
		Error    *apiError       `json:"error"`
		Response json.RawMessage `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("vk: %s: decode response: %w", method, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("vk: %s: api error %d: %s", method, envelope.Error.Code, envelope.Error.Message)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Response, out); err != nil {
			return fmt.Errorf("vk: %s: decode response: %w", method, err)
		}
	}
	return nil
}

// SendMessage sends a text message to a user. keyboard is the serialized
// keyboard JSON, or "" for none. random_id deduplicates resends on the VK
// side.
func (c *Client) SendMessage(ctx context.Context, userID int64, text, keyboard string) error {
	params := url.Values{
		"user_id":   {strconv.FormatInt(userID, 10)},
		"message":   {text},
		"random_id": {strconv.FormatInt(rand.Int63(), 10)},
	}
	if keyboard != "" {
		params.Set("keyboard", keyboard)
	}
	return c.call(ctx, "messages.send", params, nil)
}

type longPollServer struct {
	Key    string `json:"key"`
	Server string `json:"server"`
	TS     int64  `json:"ts"`
}

func (c *Client) getLongPollServer(ctx context.Context) (*longPollServer, error) {
	var srv longPollServer
	if err := c.call(ctx, "messages.getLongPollServer", url.Values{"lp_version": {"3"}}, &srv); err != nil {
		return nil, err
	}
	return &srv, nil
}

package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// User long poll protocol constants.
const (
	eventNewMessage = 4 // update code for an incoming/outgoing message
	flagOutbox      = 2 // message flag: sent by the bot itself

	// failed values in a check response.
	failedStaleTS    = 1 // ts out of date, take the one from the response
	failedKeyExpired = 2 // key expired, re-request the server
	failedInfoLost   = 3 // info lost, re-request the server
)

// Message is one inbound user message from the long poll stream.
type Message struct {
	UserID int64
	Text   string
}

// Poll runs the long poll loop, calling handle for every inbound message
// until ctx is canceled. Transient errors are logged and the loop resumes
// with fresh server credentials.
func (c *Client) Poll(ctx context.Context, handle func(Message)) error {
	srv, err := c.getLongPollServer(ctx)
	if err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := c.check(ctx, srv)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("vk: long poll: %v", err)
			srv = c.reconnect(ctx)
			if srv == nil {
				return ctx.Err()
			}
			continue
		}

		switch batch.Failed {
		case 0:
			srv.TS = batch.TS
			for _, raw := range batch.Updates {
				if msg, ok := parseMessage(raw); ok {
					handle(msg)
				}
			}
		case failedStaleTS:
			srv.TS = batch.TS
		case failedKeyExpired, failedInfoLost:
			srv = c.reconnect(ctx)
			if srv == nil {
				return ctx.Err()
			}
		default:
			return fmt.Errorf("vk: long poll: unexpected failed value %d", batch.Failed)
		}
	}
}

// reconnect re-requests long poll credentials, retrying until it succeeds
// or ctx is canceled (then it returns nil).
func (c *Client) reconnect(ctx context.Context) *longPollServer {
	for {
		srv, err := c.getLongPollServer(ctx)
		if err == nil {
			return srv
		}
		if ctx.Err() != nil {
			return nil
		}
		log.Printf("vk: long poll: reconnect: %v", err)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(3 * time.Second):
		}
	}
}

type checkResponse struct {
	Failed  int               `json:"failed"`
	TS      int64             `json:"ts"`
	Updates []json.RawMessage `json:"updates"`
}

func (c *Client) check(ctx context.Context, srv *longPollServer) (*checkResponse, error) {
	q := url.Values{
		"act":     {"a_check"},
		"key":     {srv.Key},
		"ts":      {strconv.FormatInt(srv.TS, 10)},
		"wait":    {strconv.Itoa(longPollWait)},
		"mode":    {"2"},
		"version": {"3"},
	}

	// getLongPollServer returns the server without a scheme.
	server := srv.Server
	if !strings.Contains(server, "://") {
		server = "https://" + server
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("check: unexpected status %d", resp.StatusCode)
	}

	var out checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("check: decode: %w", err)
	}
	return &out, nil
}

// parseMessage extracts an inbound text message from one long poll update.
// Updates are positional JSON arrays; a new message looks like
// [4, message_id, flags, peer_id, timestamp, text, ...]. Outbox messages
// (sent by the bot) and non-message events are skipped.
func parseMessage(raw json.RawMessage) (Message, bool) {
	var fields []interface{}
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) < 6 {
		return Message{}, false
	}

	code, ok := toInt64(fields[0])
	if !ok || code != eventNewMessage {
		return Message{}, false
	}
	flags, ok := toInt64(fields[2])
	if !ok || flags&flagOutbox != 0 {
		return Message{}, false
	}
	peerID, ok := toInt64(fields[3])
	if !ok {
		return Message{}, false
	}
	text, ok := fields[5].(string)
	if !ok || text == "" {
		return Message{}, false
	}

	return Message{UserID: peerID, Text: text}, true
}

func toInt64(v interface{}) (int64, bool) {
	f, ok := v.(float64)
	return int64(f), ok
}

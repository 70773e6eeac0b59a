package lockclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/peoplemesh/hrops-console-go/internal/domain/lock"
	"github.com/peoplemesh/hrops-console-go/internal/pkg/session"
)

// Client is the HTTP implementation of lock.Client against the record-lock
// service (POST /lock/lock, POST /lock/release, GET /lock/check).
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, sess *session.Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    sess.HTTPClient(context.Background()),
	}
}

// NewWithHTTPClient is used by tests to inject a bare client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type lockRequest struct {
	TableName string `json:"tableName"`
	RecordID  string `json:"recordId"`
	LockedBy  string `json:"lockedBy"`
}

type lockResponse struct {
	Success  bool    `json:"success"`
	Message  string  `json:"message"`
	LockedBy *string `json:"lockedBy,omitempty"`
}

func (r lockResponse) toGrant() lock.Grant {
	g := lock.Grant{Granted: r.Success, Message: r.Message}
	if r.LockedBy != nil {
		g.Holder = *r.LockedBy
	}
	return g
}

// Acquire implements lock.Client.
func (c *Client) Acquire(ctx context.Context, tableName, recordID, actorID string) (lock.Grant, error) {
	return c.post(ctx, "/lock/lock", lockRequest{
		TableName: tableName,
		RecordID:  recordID,
		LockedBy:  actorID,
	})
}

// Release implements lock.Client.
func (c *Client) Release(ctx context.Context, tableName, recordID, actorID string) (lock.Grant, error) {
	return c.post(ctx, "/lock/release", lockRequest{
		TableName: tableName,
		RecordID:  recordID,
		LockedBy:  actorID,
	})
}

// Check implements lock.Client.
func (c *Client) Check(ctx context.Context, tableName, recordID string) (lock.Grant, error) {
	query := url.Values{}
	query.Set("tableName", tableName)
	query.Set("recordId", recordID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/lock/check?"+query.Encode(), nil)
	if err != nil {
		return lock.Grant{}, fmt.Errorf("failed to build lock check request: %w", err)
	}

	return c.send(req)
}

func (c *Client) post(ctx context.Context, path string, body lockRequest) (lock.Grant, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return lock.Grant{}, fmt.Errorf("failed to encode lock request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return lock.Grant{}, fmt.Errorf("failed to build lock request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.send(req)
}

func (c *Client) send(req *http.Request) (lock.Grant, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return lock.Grant{}, fmt.Errorf("lock service call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return lock.Grant{}, fmt.Errorf("lock service error: %s", resp.Status)
	}

	var payload lockResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return lock.Grant{}, fmt.Errorf("failed to decode lock service response: %w", err)
	}

	return payload.toGrant(), nil
}

package hrapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/peoplemesh/hrops-console-go/internal/domain/leave"
	"github.com/peoplemesh/hrops-console-go/internal/domain/timesheet"
	"github.com/peoplemesh/hrops-console-go/internal/pkg/session"
)

// Client talks to the HR backend's REST API. It implements
// leave.RequestClient, leave.HolidayClient and timesheet.Client.
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

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *errorDetail    `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to HR backend failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode HR backend response (%s): %w", resp.Status, err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		msg := env.Message
		if env.Error != nil && env.Error.Message != "" {
			msg = env.Error.Message
		}
		if msg == "" {
			msg = resp.Status
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", leave.ErrLeaveRequestNotFound, msg)
		}
		return fmt.Errorf("HR backend rejected %s %s: %s", method, path, msg)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode HR backend payload: %w", err)
		}
	}
	return nil
}

// List implements leave.RequestClient.
func (c *Client) List(ctx context.Context, filter leave.RequestFilter) ([]leave.LeaveRequest, error) {
	query := url.Values{}
	if filter.ManagerID != "" {
		query.Set("managerId", filter.ManagerID)
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}

	var payloads []leaveRequestPayload
	if err := c.do(ctx, http.MethodGet, "/leave-requests", query, nil, &payloads); err != nil {
		return nil, err
	}

	requests := make([]leave.LeaveRequest, 0, len(payloads))
	for _, p := range payloads {
		entity, err := p.toEntity()
		if err != nil {
			return nil, err
		}
		requests = append(requests, entity)
	}
	return requests, nil
}

// Get implements leave.RequestClient.
func (c *Client) Get(ctx context.Context, id string) (leave.LeaveRequest, error) {
	var p leaveRequestPayload
	if err := c.do(ctx, http.MethodGet, "/leave-requests/"+url.PathEscape(id), nil, nil, &p); err != nil {
		return leave.LeaveRequest{}, err
	}
	return p.toEntity()
}

// GetType implements leave.RequestClient.
func (c *Client) GetType(ctx context.Context, leaveTypeID string) (leave.LeaveType, error) {
	var p leaveTypePayload
	if err := c.do(ctx, http.MethodGet, "/leave-types/"+url.PathEscape(leaveTypeID), nil, nil, &p); err != nil {
		return leave.LeaveType{}, err
	}
	return leave.LeaveType{
		ID:                          p.ID,
		Name:                        p.Name,
		MaxDaysPerYear:              p.MaxDaysPerYear,
		AllowHalfDay:                p.AllowHalfDay,
		RequiresDocumentation:       p.RequiresDocumentation,
		ExcludesWeekendsAndHolidays: p.ExcludesWeekendsAndHolidays,
	}, nil
}

// Decide implements leave.RequestClient.
func (c *Client) Decide(ctx context.Context, action leave.Action, req leave.DecisionRequest) error {
	return c.do(ctx, http.MethodPost, "/leave-requests/"+string(action), nil, req, nil)
}

// DecideBatch implements leave.RequestClient.
func (c *Client) DecideBatch(ctx context.Context, action leave.Action, req leave.BatchDecisionRequest) error {
	return c.do(ctx, http.MethodPost, "/leave-requests/"+string(action)+"-batch", nil, req, nil)
}

// Update implements leave.RequestClient.
func (c *Client) Update(ctx context.Context, req leave.UpdateLeaveRequestRequest) error {
	return c.do(ctx, http.MethodPut, "/leave-requests/update", nil, req, nil)
}

// ByLocation implements leave.HolidayClient.
func (c *Client) ByLocation(ctx context.Context, state, country string) ([]leave.Holiday, error) {
	query := url.Values{}
	query.Set("state", state)
	query.Set("country", country)

	var payloads []holidayPayload
	if err := c.do(ctx, http.MethodGet, "/holidays/by-location", query, nil, &payloads); err != nil {
		return nil, err
	}

	holidays := make([]leave.Holiday, 0, len(payloads))
	for _, p := range payloads {
		date, err := time.Parse("2006-01-02", p.HolidayDate)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", p.HolidayDate, err)
		}
		holidays = append(holidays, leave.Holiday{Date: date, Name: p.Name})
	}
	return holidays, nil
}

// Monthly implements timesheet.Client.
func (c *Client) Monthly(ctx context.Context, year int, month time.Month) ([]timesheet.Entry, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))
	query.Set("month", strconv.Itoa(int(month)))

	var payloads []timesheetEntryPayload
	if err := c.do(ctx, http.MethodGet, "/timesheets", query, nil, &payloads); err != nil {
		return nil, err
	}

	entries := make([]timesheet.Entry, 0, len(payloads))
	for _, p := range payloads {
		date, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid timesheet date %q: %w", p.Date, err)
		}
		entries = append(entries, timesheet.Entry{
			EmployeeID:   p.EmployeeID,
			EmployeeName: p.EmployeeName,
			ProjectCode:  p.ProjectCode,
			Date:         date,
			Hours:        p.Hours,
			Billable:     p.Billable,
		})
	}
	return entries, nil
}

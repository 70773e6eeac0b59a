package hrapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/peoplemesh/hrops-console-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func TestClient_List(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/leave-requests", r.URL.Path)
		require.Equal(t, "PENDING", r.URL.Query().Get("status"))

		ok(w, []map[string]interface{}{{
			"id":            "req-1",
			"employeeId":    "emp-1",
			"managerId":     "mgr-1",
			"leaveTypeId":   "lt-annual",
			"startDate":     "2025-09-01",
			"endDate":       "2025-09-03",
			"startSession":  "fullday",
			"endSession":    "fullday",
			"daysRequested": "3",
			"status":        "PENDING",
			"reason":        "family trip",
		}})
	}))
	defer srv.Close()

	client := NewWithHTTPClient(srv.URL, srv.Client())
	requests, err := client.List(context.Background(), leave.RequestFilter{Status: leave.StatusPending})
	require.NoError(t, err)

	require.Len(t, requests, 1)
	assert.Equal(t, "req-1", requests[0].ID)
	assert.Equal(t, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), requests[0].StartDate)
	assert.Equal(t, leave.SessionFullDay, requests[0].StartSession)
	assert.True(t, requests[0].DaysRequested.IntPart() == 3)
}

func TestClient_GetNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   map[string]string{"code": "NOT_FOUND", "message": "Leave request not found"},
		})
	}))
	defer srv.Close()

	client := NewWithHTTPClient(srv.URL, srv.Client())
	_, err := client.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestClient_DecidePostsAction(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody leave.DecisionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		ok(w, nil)
	}))
	defer srv.Close()

	client := NewWithHTTPClient(srv.URL, srv.Client())
	err := client.Decide(context.Background(), leave.ActionReject, leave.DecisionRequest{
		ManagerID: "mgr-1",
		LeaveID:   "req-1",
		Comment:   "insufficient balance",
	})
	require.NoError(t, err)
	assert.Equal(t, "/leave-requests/reject", gotPath)
	assert.Equal(t, "insufficient balance", gotBody.Comment)
}

func TestClient_DecideBatchPostsBatchAction(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		ok(w, nil)
	}))
	defer srv.Close()

	client := NewWithHTTPClient(srv.URL, srv.Client())
	err := client.DecideBatch(context.Background(), leave.ActionApprove, leave.BatchDecisionRequest{
		ManagerID: "mgr-1",
		LeaveIDs:  []string{"req-1", "req-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/leave-requests/approve-batch", gotPath)
}

func TestClient_UpdateUsesPut(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		ok(w, nil)
	}))
	defer srv.Close()

	client := NewWithHTTPClient(srv.URL, srv.Client())
	err := client.Update(context.Background(), leave.UpdateLeaveRequestRequest{
		LeaveID:    "req-1",
		EmployeeID: "emp-1",
		ManagerID:  "mgr-1",
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/leave-requests/update", gotPath)
}

func TestClient_ByLocation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/holidays/by-location", r.URL.Path)
		require.Equal(t, "VIC", r.URL.Query().Get("state"))
		require.Equal(t, "AU", r.URL.Query().Get("country"))
		ok(w, []map[string]string{
			{"holidayDate": "2025-12-25", "name": "Christmas Day"},
		})
	}))
	defer srv.Close()

	client := NewWithHTTPClient(srv.URL, srv.Client())
	holidays, err := client.ByLocation(context.Background(), "VIC", "AU")
	require.NoError(t, err)

	require.Len(t, holidays, 1)
	assert.Equal(t, "Christmas Day", holidays[0].Name)
	assert.Equal(t, time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC), holidays[0].Date)
}

func TestClient_MonthlyTimesheets(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/timesheets", r.URL.Path)
		require.Equal(t, "2025", r.URL.Query().Get("year"))
		require.Equal(t, "9", r.URL.Query().Get("month"))
		ok(w, []map[string]interface{}{{
			"employeeId":   "emp-1",
			"employeeName": "Alex Chen",
			"projectCode":  "PROJ-7",
			"date":         "2025-09-01",
			"hours":        "7.5",
			"billable":     true,
		}})
	}))
	defer srv.Close()

	client := NewWithHTTPClient(srv.URL, srv.Client())
	entries, err := client.Monthly(context.Background(), 2025, time.September)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "PROJ-7", entries[0].ProjectCode)
	assert.Equal(t, "7.5", entries[0].Hours.String())
}

func TestClient_RejectedEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   map[string]string{"code": "BAD_REQUEST", "message": "Invalid payload"},
		})
	}))
	defer srv.Close()

	client := NewWithHTTPClient(srv.URL, srv.Client())
	err := client.Update(context.Background(), leave.UpdateLeaveRequestRequest{LeaveID: "req-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid payload")
}

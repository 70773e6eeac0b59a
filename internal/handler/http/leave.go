package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/peoplemesh/hrops-console-go/internal/domain/leave"
	"github.com/peoplemesh/hrops-console-go/internal/handler/http/response"
	"github.com/peoplemesh/hrops-console-go/internal/pkg/sse"
	leaveService "github.com/peoplemesh/hrops-console-go/internal/service/leave"
)

// EditSessionHeader carries the edit-session ID on update calls.
const EditSessionHeader = "X-Edit-Session"

type LeaveHandler interface {
	ListRequests(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
	ApproveBatch(w http.ResponseWriter, r *http.Request)
	RejectBatch(w http.ResponseWriter, r *http.Request)
	UpdateRequest(w http.ResponseWriter, r *http.Request)

	OpenEditSession(w http.ResponseWriter, r *http.Request)
	CloseEditSession(w http.ResponseWriter, r *http.Request)

	ListHolidays(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	approvals *leaveService.ApprovalService
	requests  *leaveService.RequestService
	hub       *sse.Hub
}

func NewLeaveHandler(approvals *leaveService.ApprovalService, requests *leaveService.RequestService, hub *sse.Hub) LeaveHandler {
	return &LeaveHandlerImpl{
		approvals: approvals,
		requests:  requests,
		hub:       hub,
	}
}

// getUserIDFromContext extracts user_id from JWT context
func getUserIDFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if userID, ok := claims["user_id"].(string); ok {
		return userID
	}
	return ""
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter := leave.RequestFilter{
		ManagerID: getUserIDFromContext(r),
		Status:    leave.Status(r.URL.Query().Get("status")),
	}

	requests, err := l.requests.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, leave.ToResponse(req))
	}
	response.Success(w, out)
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	l.decide(w, r, leave.ActionApprove)
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	l.decide(w, r, leave.ActionReject)
}

// CancelRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	l.decide(w, r, leave.ActionCancel)
}

func (l *LeaveHandlerImpl) decide(w http.ResponseWriter, r *http.Request, action leave.Action) {
	var req leave.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Decision decode error", "action", action, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ManagerID = getUserIDFromContext(r)

	if err := l.approvals.Decide(r.Context(), action, req); err != nil {
		response.HandleError(w, err)
		return
	}

	l.hub.Publish(sse.TopicLeaveRequests, sse.Event{Event: "refresh"})
	response.SuccessWithMessage(w, "Leave request updated successfully", nil)
}

// ApproveBatch implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveBatch(w http.ResponseWriter, r *http.Request) {
	l.decideBatch(w, r, leave.ActionApprove)
}

// RejectBatch implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectBatch(w http.ResponseWriter, r *http.Request) {
	l.decideBatch(w, r, leave.ActionReject)
}

func (l *LeaveHandlerImpl) decideBatch(w http.ResponseWriter, r *http.Request, action leave.Action) {
	var req leave.BatchDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Batch decision decode error", "action", action, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ManagerID = getUserIDFromContext(r)

	if err := l.approvals.DecideBatch(r.Context(), action, req); err != nil {
		response.HandleError(w, err)
		return
	}

	l.hub.Publish(sse.TopicLeaveRequests, sse.Event{Event: "refresh"})
	response.SuccessWithMessage(w, "Batch processed successfully", nil)
}

// UpdateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(EditSessionHeader)
	if sessionID == "" {
		response.BadRequest(w, "Edit session header is required", nil)
		return
	}

	var req leave.UpdateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ManagerID = getUserIDFromContext(r)

	if err := l.requests.Update(r.Context(), sessionID, req); err != nil {
		response.HandleError(w, err)
		return
	}

	l.hub.Publish(sse.TopicLeaveRequests, sse.Event{Event: "refresh"})
	response.SuccessWithMessage(w, "Leave request updated successfully", nil)
}

// OpenEditSession implements LeaveHandler.
func (l *LeaveHandlerImpl) OpenEditSession(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "id")
	if recordID == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	sess, err := l.requests.OpenEdit(r.Context(), recordID, getUserIDFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	l.hub.Publish(sse.TopicLocks, sse.Event{Event: "refresh"})
	response.Success(w, sess)
}

// CloseEditSession implements LeaveHandler.
func (l *LeaveHandlerImpl) CloseEditSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		response.BadRequest(w, "Edit session ID is required", nil)
		return
	}

	if err := l.requests.CloseEdit(r.Context(), sessionID); err != nil {
		response.HandleError(w, err)
		return
	}

	l.hub.Publish(sse.TopicLocks, sse.Event{Event: "refresh"})
	response.SuccessWithMessage(w, "Edit session closed", nil)
}

// ListHolidays implements LeaveHandler.
func (l *LeaveHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := l.requests.Holidays(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	type holidayResponse struct {
		Date string `json:"date"`
		Name string `json:"name"`
	}
	out := make([]holidayResponse, 0, len(holidays))
	for _, h := range holidays {
		out = append(out, holidayResponse{
			Date: h.Date.Format("2006-01-02"),
			Name: h.Name,
		})
	}
	response.Success(w, out)
}

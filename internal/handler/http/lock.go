package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/peoplemesh/hrops-console-go/internal/domain/lock"
	"github.com/peoplemesh/hrops-console-go/internal/handler/http/response"
	lockService "github.com/peoplemesh/hrops-console-go/internal/service/lock"
)

// LockHandler serves the record-lock daemon's endpoints. The wire contract is
// shared with the gateway's lock client: {tableName, recordId, lockedBy} in,
// {success, message, lockedBy?} out.
type LockHandler interface {
	Lock(w http.ResponseWriter, r *http.Request)
	Release(w http.ResponseWriter, r *http.Request)
	Check(w http.ResponseWriter, r *http.Request)
}

type lockHandlerImpl struct {
	locks *lockService.Service
}

func NewLockHandler(locks *lockService.Service) LockHandler {
	return &lockHandlerImpl{locks: locks}
}

type lockRequestPayload struct {
	TableName string `json:"tableName"`
	RecordID  string `json:"recordId"`
	LockedBy  string `json:"lockedBy"`
}

func (p lockRequestPayload) validate() string {
	switch {
	case p.TableName == "":
		return "tableName is required"
	case p.RecordID == "":
		return "recordId is required"
	case p.LockedBy == "":
		return "lockedBy is required"
	}
	return ""
}

type lockResponsePayload struct {
	Success  bool    `json:"success"`
	Message  string  `json:"message"`
	LockedBy *string `json:"lockedBy,omitempty"`
}

func grantPayload(g lock.Grant) lockResponsePayload {
	p := lockResponsePayload{Success: g.Granted, Message: g.Message}
	if g.Holder != "" {
		p.LockedBy = &g.Holder
	}
	return p
}

func writeGrant(w http.ResponseWriter, g lock.Grant) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(grantPayload(g))
}

// Lock implements LockHandler.
func (h *lockHandlerImpl) Lock(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeLockPayload(w, r)
	if !ok {
		return
	}

	grant, err := h.locks.Acquire(r.Context(), payload.TableName, payload.RecordID, payload.LockedBy)
	if err != nil {
		slog.Error("Lock acquire failed", "error", err)
		response.InternalServerError(w, "Failed to acquire lock")
		return
	}
	writeGrant(w, grant)
}

// Release implements LockHandler.
func (h *lockHandlerImpl) Release(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeLockPayload(w, r)
	if !ok {
		return
	}

	grant, err := h.locks.Release(r.Context(), payload.TableName, payload.RecordID, payload.LockedBy)
	if err != nil {
		slog.Error("Lock release failed", "error", err)
		response.InternalServerError(w, "Failed to release lock")
		return
	}
	writeGrant(w, grant)
}

// Check implements LockHandler.
func (h *lockHandlerImpl) Check(w http.ResponseWriter, r *http.Request) {
	tableName := r.URL.Query().Get("tableName")
	recordID := r.URL.Query().Get("recordId")
	if tableName == "" || recordID == "" {
		response.BadRequest(w, "tableName and recordId are required", nil)
		return
	}

	grant, err := h.locks.Check(r.Context(), tableName, recordID)
	if err != nil {
		slog.Error("Lock check failed", "error", err)
		response.InternalServerError(w, "Failed to check lock")
		return
	}
	writeGrant(w, grant)
}

func decodeLockPayload(w http.ResponseWriter, r *http.Request) (lockRequestPayload, bool) {
	var payload lockRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return payload, false
	}
	if msg := payload.validate(); msg != "" {
		response.BadRequest(w, msg, nil)
		return payload, false
	}
	return payload, true
}

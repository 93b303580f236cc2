package service

import (
	"context"
	"encoding/json"

	"github.com/umarabbas75/fly-inn-app-sub004/internal/model"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/repository"
	ws "github.com/umarabbas75/fly-inn-app-sub004/internal/websocket"

	"github.com/google/uuid"
)

// Event names pushed to dashboard clients over the WebSocket hub
const (
	EventPolicyCreated    = "policy.created"
	EventPolicyUpdated    = "policy.updated"
	EventPolicyDeleted    = "policy.deleted"
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)

// DashboardEvent is the websocket payload for dashboard clients
type DashboardEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// broadcastEvent pushes an event to all connected clients. Best-effort: a nil
// hub (e.g. in tests) is a no-op.
func broadcastEvent(hub *ws.Hub, event string, data map[string]interface{}) {
	if hub == nil {
		return
	}
	payload, err := json.Marshal(DashboardEvent{Event: event, Data: data})
	if err != nil {
		return
	}
	hub.Broadcast <- payload
}

// writeAudit records an admin action. Best-effort: the operation is not
// failed if the audit write fails.
func writeAudit(ctx context.Context, repo repository.AuditRepository, userID, action, entityID, entityName string, details interface{}) {
	if repo == nil {
		return
	}

	detailsJSON, _ := json.Marshal(details)
	entry := &model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}

	if userID != "" {
		if parsed, err := uuid.Parse(userID); err == nil {
			entry.UserID = &parsed
		}
	}

	_ = repo.Log(ctx, entry)
}

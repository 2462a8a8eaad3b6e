package audit

import "time"

// Entry is what callers hand to the recorder; id and timestamp are
// assigned internally.
type Entry struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Detail     string
}

type AuditLogResponse struct {
	ID         string `json:"id"`
	ActorID    string `json:"actor_id"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Detail     string `json:"detail,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func mapToResponse(entry AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:         entry.ID.String(),
		ActorID:    entry.ActorID.String(),
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID.String(),
		Detail:     entry.Detail,
		CreatedAt:  entry.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(entries []AuditLog) []AuditLogResponse {
	res := make([]AuditLogResponse, len(entries))
	for i, entry := range entries {
		res[i] = mapToResponse(entry)
	}
	return res
}

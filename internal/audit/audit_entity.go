package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action verbs recorded for state-changing operations.
const (
	ActionCreate    = "create"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionApprove   = "approve"
	ActionPaid      = "paid"
	ActionAddItem   = "add_item"
	ActionSupersede = "supersede"
)

// AuditLog is append-only: rows are never updated or deleted.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Action     string    `gorm:"type:varchar(30);not null"`
	EntityType string    `gorm:"type:varchar(50);not null;index"`
	EntityID   uuid.UUID `gorm:"type:uuid;index"`
	Detail     string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"index"`
}

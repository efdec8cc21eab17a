// internal/models/audit_log.go
package models

import (
	"github.com/google/uuid"
)

type AuditLog struct {
	BaseModel
	RequestID    uuid.UUID `json:"request_id" gorm:"type:uuid;index"`
	Action       string    `json:"action" gorm:"size:100;not null;index"`
	ResourceType string    `json:"resource_type" gorm:"size:50;not null;index"`
	Status       int       `json:"status" gorm:"not null"`
	DurationMS   int64     `json:"duration_ms"`
	RequestBody  JSONB     `json:"request_body" gorm:"type:jsonb"`
	IPAddress    string    `json:"ip_address" gorm:"size:45"`
	UserAgent    string    `json:"user_agent" gorm:"type:text"`
}

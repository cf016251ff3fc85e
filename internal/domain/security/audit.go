package security

import (
	"context"
	"time"
)

// AuditRecord is an append-only log entry created by the audit event
// handler for every domain event whose registry entry sets
// RequiresAudit (§4.3). Context carries the originating event_id plus
// any event-specific fields as a JSON blob so the record stays queryable
// without a schema migration per new event type.
type AuditRecord struct {
	ID           int64
	Action       string
	UserID       *string
	ResourceType string
	ResourceID   *string
	IPAddress    string
	UserAgent    string
	Context      []byte
	CreatedAt    time.Time
}

// NewAuditRecord constructs a record ready for immediate persistence.
func NewAuditRecord(action string, userID *string, resourceType string, resourceID *string, ipAddress, userAgent string, context []byte) *AuditRecord {
	return &AuditRecord{
		Action:       action,
		UserID:       userID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
		Context:      context,
		CreatedAt:    time.Now().UTC(),
	}
}

// AuditRepository persists AuditRecord entries. Records are never updated
// or deleted by application code; retention policy is an operational
// concern outside this interface.
type AuditRepository interface {
	Record(ctx context.Context, r *AuditRecord) error
}

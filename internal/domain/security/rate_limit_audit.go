package security

import (
	"context"
	"time"
)

// RateLimitAuditLog records one rate-limit rule violation (§3 EXPANSION).
// Identifier is free-form ("user:<uuid>" or empty for an anonymous caller
// identified only by IP) and carries no foreign key to users — rate-limit
// audit trails must survive user deletion.
type RateLimitAuditLog struct {
	ID             int64
	Endpoint       string
	Identifier     string
	IPAddress      string
	RuleName       string
	Limit          int
	WindowSeconds  int
	ViolationCount int
	CreatedAt      time.Time
}

// NewRateLimitAuditLog constructs a violation record for immediate persistence.
func NewRateLimitAuditLog(endpoint, identifier, ipAddress, ruleName string, limit, windowSeconds, violationCount int) *RateLimitAuditLog {
	return &RateLimitAuditLog{
		Endpoint:       endpoint,
		Identifier:     identifier,
		IPAddress:      ipAddress,
		RuleName:       ruleName,
		Limit:          limit,
		WindowSeconds:  windowSeconds,
		ViolationCount: violationCount,
		CreatedAt:      time.Now().UTC(),
	}
}

// RateLimitAuditRepository persists RateLimitAuditLog entries. The
// token-bucket rate-limiting algorithm itself is out of scope; this
// repository only records violations already detected by the caller.
type RateLimitAuditRepository interface {
	Record(ctx context.Context, log *RateLimitAuditLog) error
	FindRecentByIdentifier(ctx context.Context, identifier string, since time.Time) ([]*RateLimitAuditLog, error)
}

package events

import "fmt"

// ValidateAuditActionNames checks registry compliance rule 2 (§4.3): every
// entry with RequiresAudit set must name an action present in known, the
// set of audit-action names actually implemented by the audit handler.
func ValidateAuditActionNames(known map[string]bool) []error {
	var errs []error
	for _, e := range registry {
		if !e.RequiresAudit {
			continue
		}
		if e.AuditActionName == "" {
			errs = append(errs, fmt.Errorf("events: %s requires_audit but has no audit_action_name", e.EventType))
			continue
		}
		if !known[e.AuditActionName] {
			errs = append(errs, fmt.Errorf("events: %s requires_audit action %q has no matching AuditAction", e.EventType, e.AuditActionName))
		}
	}
	return errs
}

// ValidateHandlerCoverage checks registry compliance rule 1 (§4.3): every
// entry with a given requirement flag set must have a subscriber of the
// corresponding handler kind. subscribed maps handler kind ("logging",
// "audit", "email", "session") to the set of event types that kind has a
// subscription for.
func ValidateHandlerCoverage(subscribed map[string]map[string]bool) []error {
	var errs []error
	for _, e := range registry {
		check := func(kind string, required bool) {
			if !required {
				return
			}
			if !subscribed[kind][e.EventType] {
				errs = append(errs, fmt.Errorf("events: %s requires_%s but has no %s handler subscribed", e.EventType, kind, kind))
			}
		}
		check("logging", e.RequiresLogging)
		check("audit", e.RequiresAudit)
		check("email", e.RequiresEmail)
		check("session", e.RequiresSession)
	}
	return errs
}

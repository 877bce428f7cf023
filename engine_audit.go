package goGate

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventSignInSuccess     = "signin_success"
	auditEventSignInFailure     = "signin_failure"
	auditEventSignInRateLimited = "signin_rate_limited"
	auditEventSignInLookupError = "signin_lookup_error"
)

// AuditErrorCode is the coarse failure classification carried in
// [AuditEvent.Error].
type AuditErrorCode string

const (
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrRateLimited        AuditErrorCode = "rate_limited"
	auditErrLookupFailure      AuditErrorCode = "lookup_failure"
	auditErrTokenIssuance      AuditErrorCode = "token_issuance_failed"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	principalID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp:   time.Now().UTC(),
		EventType:   eventType,
		PrincipalID: principalID,
		IP:          clientIPFromContext(ctx),
		Success:     success,
		Metadata:    metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrSignInRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrLookup),
		errors.Is(err, ErrDuplicatePrincipal):
		return auditErrLookupFailure
	case errors.Is(err, ErrTokenIssuanceFailed):
		return auditErrTokenIssuance
	default:
		return auditErrInternal
	}
}

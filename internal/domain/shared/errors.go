package shared

import (
	"fmt"
	"strings"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Record not found on the ledger")
	ErrProviderUnavailable = NewDomainError("PROVIDER_UNAVAILABLE", "Signing provider is not reachable")
	ErrUserRejected        = NewDomainError("USER_REJECTED", "Account access was not granted")
	ErrStoreUnavailable    = NewDomainError("STORE_UNAVAILABLE", "Content store is not reachable")
	ErrInvalidRequest      = NewDomainError("INVALID_REQUEST", "Request is malformed or no signer is bound")
	ErrGatewayUnavailable  = NewDomainError("GATEWAY_UNAVAILABLE", "Ledger gateway is not reachable")
	ErrBusy                = NewDomainError("BUSY", "Another orchestration for this action is already running")
)

// ValidationError reports a pre-flight input failure for a single field.
// It is always raised before any network interaction.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// LedgerRejectedError reports a revert or rule rejection by the ledger's
// contract logic. The reason is the revert string when one is available.
type LedgerRejectedError struct {
	Reason string `json:"reason"`
}

// Error implements the error interface
func (e *LedgerRejectedError) Error() string {
	if e.Reason == "" {
		return "transaction rejected by the ledger"
	}
	return "transaction rejected by the ledger: " + e.Reason
}

// NewLedgerRejectedError creates a ledger rejection with the given reason
func NewLedgerRejectedError(reason string) *LedgerRejectedError {
	return &LedgerRejectedError{Reason: reason}
}

// PartialFetchError records the record ids whose detail fetch failed inside
// a batch. It is advisory: siblings that fetched successfully are kept.
type PartialFetchError struct {
	Collection string   `json:"collection"`
	IDs        []string `json:"ids"`
}

// Error implements the error interface
func (e *PartialFetchError) Error() string {
	return fmt.Sprintf("%s: %d record(s) could not be fetched (ids %s)",
		e.Collection, len(e.IDs), strings.Join(e.IDs, ", "))
}

// NewPartialFetchError creates a partial fetch failure for a collection
func NewPartialFetchError(collection string, ids []string) *PartialFetchError {
	return &PartialFetchError{Collection: collection, IDs: ids}
}

// RangeScanError reports a terminal failure while scanning a historical
// event-log block range. The whole discoverable collection is discarded;
// it must never be confused with a legitimately empty collection.
type RangeScanError struct {
	From uint64
	To   uint64
	Err  error
}

// Error implements the error interface
func (e *RangeScanError) Error() string {
	return fmt.Sprintf("event scan failed for blocks [%d, %d]: %v", e.From, e.To, e.Err)
}

// Unwrap returns the underlying chunk error
func (e *RangeScanError) Unwrap() error {
	return e.Err
}

// NewRangeScanError creates a range scan failure for a chunk
func NewRangeScanError(from, to uint64, err error) *RangeScanError {
	return &RangeScanError{From: from, To: to, Err: err}
}

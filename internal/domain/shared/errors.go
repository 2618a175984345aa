package shared

// Error codes used across the domain. Handlers map these to HTTP statuses.
const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeBusinessRule           = "BUSINESS_RULE_VIOLATION"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeNotFound               = "NOT_FOUND"
	CodeInventoryNotFound      = "INVENTORY_NOT_FOUND"
	CodeReservationNotFound    = "RESERVATION_NOT_FOUND"
	CodeConflict               = "CONFLICT"
	CodeInvalidStatus          = "INVALID_RESERVATION_STATUS"
	CodeAlreadyConfirmed       = "RESERVATION_ALREADY_CONFIRMED"
	CodeReservationExpired     = "RESERVATION_EXPIRED"
	CodeOptimisticLockConflict = "OPTIMISTIC_LOCK_CONFLICT"
	CodeExternalService        = "EXTERNAL_SERVICE_ERROR"
	CodeDistributedLockFailed  = "DISTRIBUTED_LOCK_FAILED"
	CodeServerError            = "SERVER_ERROR"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
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

// NewDomainErrorWithDetails creates a new domain error carrying structured details
func NewDomainErrorWithDetails(code, message string, details map[string]any) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrInventoryNotFound   = NewDomainError(CodeInventoryNotFound, "Inventory record not found")
	ErrReservationNotFound = NewDomainError(CodeReservationNotFound, "Reservation not found")
	ErrInsufficientStock   = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrOptimisticConflict  = NewDomainError(CodeOptimisticLockConflict, "Inventory was modified by another transaction")
	ErrLockNotAcquired     = NewDomainError(CodeDistributedLockFailed, "Could not acquire inventory lock")
)

package core

import (
	"errors"
	"fmt"
)

// Errors returned by the core services. Handlers map them to HTTP statuses
// with errors.Is; wrapped variants carry the failing identifier.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("operation not allowed for this role")
	ErrAccountDisabled  = errors.New("employee account is disabled")

	ErrNotFound          = errors.New("not found")
	ErrShopNotFound      = fmt.Errorf("shop %w", ErrNotFound)
	ErrOilChangeNotFound = fmt.Errorf("oil change %w", ErrNotFound)
	ErrEmployeeNotFound  = fmt.Errorf("employee %w", ErrNotFound)
	ErrPlanNotFound      = fmt.Errorf("plan %w", ErrNotFound)
	ErrNoEntitlement     = fmt.Errorf("subscription %w", ErrNotFound)

	ErrEntitlementInactive  = errors.New("subscription is not active")
	ErrEntitlementExpired   = errors.New("subscription has expired")
	ErrEntitlementExhausted = errors.New("no oil changes left in the current subscription")

	ErrValidationFailed = errors.New("validation failed")
	ErrStorageFailure   = errors.New("storage failure")

	ErrTrialAlreadyUsed = errors.New("trial already used")
	ErrShopExists       = errors.New("shop already registered")
	ErrEmployeeExists   = errors.New("employee already linked to this shop")

	ErrExternalAppUnavailable = errors.New("messaging hand-off is not available")
)

// storageErr wraps an unexpected repository failure so callers see ErrStorageFailure
// while the cause stays in the chain for logging.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageFailure, op, err)
}

package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/aquadrop/commission_backend/models"
)

// Validation errors. Caller-correctable, reported synchronously, never
// retried internally.
var (
	ErrInvalidRate       = errors.New("commission rate must be between 0 and 100")
	ErrInvalidRole       = errors.New("excluded roles must be known, non-empty role identifiers")
	ErrInvalidWindow     = errors.New("withdrawal window must satisfy 1 <= startDay <= endDay <= 31")
	ErrInvalidSaleAmount = errors.New("sale amount must be greater than zero")
	ErrInvalidOutcome    = errors.New("settlement outcome must be approved or rejected")
)

// Lookup errors, propagated from the stores as-is.
var (
	ErrUnknownEarner   = errors.New("earner not found")
	ErrSaleNotFound    = errors.New("no commission entry recorded for this sale")
	ErrRequestNotFound = errors.New("withdrawal request not found")
)

// State-conflict errors. Business-rule rejections, not faults.
var (
	ErrRequestAlreadyOutstanding = errors.New("a withdrawal request is already outstanding for this earner")
	ErrNoPendingBalance          = errors.New("no pending commission balance to withdraw")
	ErrEntryNotVoidable          = errors.New("only pending commission entries can be voided")
	ErrRequestNotSettleable      = errors.New("withdrawal request has already been processed")
	ErrEmailTaken                = errors.New("an account with this email already exists")
)

// ErrDuplicateSale is returned by commission stores when an entry for the
// same earner and sale already exists. RecordSale treats it as a benign
// race and resolves to the existing entry.
var ErrDuplicateSale = errors.New("commission entry already exists for this sale")

// OutsideWindowError rejects a withdrawal attempted outside the configured
// day-of-month window. NextStart tells the UI when the earner may retry.
type OutsideWindowError struct {
	Window    models.WithdrawalWindow
	NextStart time.Time
}

func (e *OutsideWindowError) Error() string {
	return fmt.Sprintf("withdrawals are only accepted between day %d and day %d of the month; next window opens %s",
		e.Window.StartDay, e.Window.EndDay, e.NextStart.Format("2006-01-02"))
}

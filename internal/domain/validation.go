package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidVehicleName = errors.New("invalid vehicle name")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrNotesTooLong       = errors.New("notes exceed length limit")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooWeak    = errors.New("password does not meet requirements")
)

// Validation constants
const (
	MaxVehicleNameLength = 255
	MinVehicleNameLength = 1
	MaxNotesLength       = 1024
	MaxSettlementAmount  = "1000000000" // 100 crore
	MinPasswordLength    = 8
	MaxPasswordLength    = 128
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateVehicleName validates the make/model display name.
func ValidateVehicleName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinVehicleNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidVehicleName)
	}

	if len(name) > MaxVehicleNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidVehicleName, MaxVehicleNameLength)
	}

	return nil
}

// ValidateSettlementAmount bounds a settlement amount before it reaches the
// balance check.
func ValidateSettlementAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxSettlementAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxSettlementAmount)
	}

	return nil
}

// ValidateNotes bounds free-text note size.
func ValidateNotes(notes string) error {
	if len(notes) > MaxNotesLength {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrNotesTooLong, len(notes), MaxNotesLength)
	}
	return nil
}

// ValidateEmail validates email format.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePassword validates password strength.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)

	if !hasUpper || !hasLower || !hasNumber {
		return fmt.Errorf("%w: must contain uppercase, lowercase, and numbers", ErrPasswordTooWeak)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

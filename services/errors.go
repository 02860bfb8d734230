package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("state conflict")
	ErrUpstream     = errors.New("upstream failure")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// AppError is a classified, user-facing failure.
type AppError struct {
	Kind    error
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func NewError(kind error, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func notFound(what string) *AppError {
	return &AppError{Kind: ErrNotFound, Message: what + " not found"}
}

func conflict(message string) *AppError {
	return &AppError{Kind: ErrConflict, Message: message}
}

func invalid(message string) *AppError {
	return &AppError{Kind: ErrValidation, Message: message}
}

func upstream(err error) *AppError {
	return &AppError{Kind: ErrUpstream, Message: err.Error(), Cause: err}
}

// lookup translates gorm.ErrRecordNotFound into the given not-found error.
func lookup(err error, missing *AppError) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return missing
	}
	return fmt.Errorf("%s: %w", missing.Message, err)
}

var (
	ErrUserNotFound         = notFound("User")
	ErrHostNotFound         = notFound("Host")
	ErrSpaceNotFound        = notFound("Space")
	ErrBookingNotFound      = notFound("Booking")
	ErrPlanNotFound         = notFound("Plan")
	ErrSubscriptionNotFound = notFound("Subscription")
	ErrPaymentNotFound      = notFound("Payment")
	ErrReviewNotFound       = notFound("Review")
	ErrCategoryNotFound     = notFound("Category")
	ErrLocationNotFound     = notFound("Location")
	ErrImageNotFound        = notFound("Image")

	ErrSpaceFullyBooked          = conflict("Space is fully booked")
	ErrSpaceUnavailable          = conflict("Space is not available for booking")
	ErrBookingAlreadyConfirmed   = conflict("Booking has already been confirmed")
	ErrSubscriptionAlreadyActive = conflict("You already have an active subscription")
	ErrSubscriptionPending       = conflict("You already have a pending subscription")
	ErrSubscriptionProcessed     = conflict("Subscription has already been processed")
	ErrInsufficientBalance       = conflict("Insufficient balance")
	ErrMissingBankDetails        = conflict("Please add your bank details before requesting a payout")
	ErrPayoutInProgress          = conflict("A payout is already in progress")
	ErrDuplicateReview           = conflict("You already have a review for this space")
	ErrListingLimitReached       = conflict("You have reached the listing limit for your subscription plan")
	ErrReceiptUnavailable        = conflict("A receipt is only available for confirmed bookings")

	ErrInvalidCredentials = &AppError{Kind: ErrUnauthorized, Message: "Invalid credentials"}
	ErrEmailNotVerified   = &AppError{Kind: ErrForbidden, Message: "Please verify your email before logging in"}
	ErrInvalidToken       = &AppError{Kind: ErrValidation, Message: "Invalid or expired token"}
	ErrEmailTaken         = conflict("Email already exists")
	ErrNotOwner           = &AppError{Kind: ErrForbidden, Message: "You do not own this resource"}
)

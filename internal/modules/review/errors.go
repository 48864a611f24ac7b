package review

import "errors"

// All of these are recoverable, caller-facing conditions. Handlers map each
// one to a specific HTTP status and an actionable message.
var (
	ErrBookingNotFound = errors.New("booking_not_found")
	ErrBookingNotOwned = errors.New("booking_not_owned_by_caller")
	ErrTargetMismatch  = errors.New("target_mismatch")
	ErrNotEligible     = errors.New("not_eligible")
	ErrDuplicateReview = errors.New("duplicate_review")
	ErrReviewNotFound  = errors.New("review_not_found")
	ErrNotOwner        = errors.New("not_owner")
	ErrImmutableField  = errors.New("immutable_field")
	ErrValidation      = errors.New("validation_error")
)

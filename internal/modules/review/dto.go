package review

import "tourbook/internal/domain"

type CreateReviewRequest struct {
	TargetType      string         `json:"target_type" validate:"required"`
	TargetID        int64          `json:"target_id" validate:"required,gt=0"`
	BookingID       *int64         `json:"booking_id,omitempty"`
	Rating          int            `json:"rating" validate:"required,gte=1,lte=5"`
	Title           string         `json:"title,omitempty"`
	Comment         string         `json:"comment" validate:"required,min=10"`
	DetailedRatings map[string]int `json:"detailed_ratings,omitempty"`
}

// UpdateReviewRequest binds the immutable identity fields on purpose: a
// patch that tries to move a review to another author, target or booking is
// rejected, not silently ignored.
type UpdateReviewRequest struct {
	Rating          *int           `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	Title           *string        `json:"title,omitempty"`
	Comment         *string        `json:"comment,omitempty" validate:"omitempty,min=10"`
	DetailedRatings map[string]int `json:"detailed_ratings,omitempty"`

	AuthorID   *int64  `json:"author_id,omitempty"`
	TargetType *string `json:"target_type,omitempty"`
	TargetID   *int64  `json:"target_id,omitempty"`
	BookingID  *int64  `json:"booking_id,omitempty"`
}

func (r UpdateReviewRequest) touchesImmutable() bool {
	return r.AuthorID != nil || r.TargetType != nil || r.TargetID != nil || r.BookingID != nil
}

// CheckResult is the eligibility answer. Allowed=false with a reason is a
// normal outcome, not an error: "already reviewed" tells the caller to
// offer edit instead of create.
type CheckResult struct {
	Allowed          bool   `json:"allowed"`
	Reason           string `json:"reason,omitempty"`
	ExistingReviewID string `json:"existing_review_id,omitempty"`
}

type Page struct {
	Items    []domain.Review `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Pages    int             `json:"pages"`
}

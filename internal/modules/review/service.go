package review

import (
	"context"
	"errors"
	"strings"

	"tourbook/internal/domain"
	"tourbook/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const minCommentLen = 10

type Service struct {
	reviews  ReviewStore
	bookings BookingOracle
}

func NewService(reviews ReviewStore, bookings BookingOracle) *Service {
	return &Service{reviews: reviews, bookings: bookings}
}

// CanCreate answers whether callerID may open a new review for the given
// purchase. It is evaluated fresh on every call: booking status changes
// between page loads and the answer must reflect current truth.
func (s *Service) CanCreate(ctx context.Context, callerID int64, targetType domain.TargetType, targetID int64, bookingID *int64) (*CheckResult, error) {
	if callerID <= 0 || targetID <= 0 {
		return nil, ErrValidation
	}
	if _, err := domain.ResolveTarget(targetType); err != nil {
		return nil, err
	}

	// legacy unverified path: no purchase, no booking checks, one active
	// review per author+target
	if bookingID == nil {
		existing, err := s.reviews.FindActiveByAuthorAndTarget(ctx, callerID, targetType, targetID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &CheckResult{Allowed: false, Reason: "already reviewed", ExistingReviewID: existing.ID}, nil
		}
		return &CheckResult{Allowed: true}, nil
	}

	b, err := s.bookings.GetByID(ctx, *bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.UserID != callerID {
		return nil, ErrBookingNotOwned
	}
	if b.TargetType != targetType || b.TargetID != targetID {
		return nil, ErrTargetMismatch
	}

	if !b.ReviewEligible() {
		return &CheckResult{Allowed: false, Reason: "booking not eligible"}, nil
	}

	existing, err := s.reviews.FindActiveByBooking(ctx, callerID, targetType, targetID, *bookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &CheckResult{Allowed: false, Reason: "already reviewed", ExistingReviewID: existing.ID}, nil
	}

	return &CheckResult{Allowed: true}, nil
}

// CanModify answers whether callerID may edit or delete the review. The
// admin capability comes from the caller's auth context, it is never
// re-derived here.
func (s *Service) CanModify(ctx context.Context, callerID int64, isAdmin bool, reviewID string) (*CheckResult, error) {
	if callerID <= 0 || reviewID == "" {
		return nil, ErrValidation
	}

	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if !rv.IsActive {
		return nil, ErrReviewNotFound
	}

	if rv.AuthorID != callerID && !isAdmin {
		return &CheckResult{Allowed: false, Reason: "not owner"}, nil
	}
	return &CheckResult{Allowed: true}, nil
}

// Create runs the eligibility check and inserts the review. The insert is
// independently guarded by the store's uniqueness constraint, so two racing
// callers cannot both succeed: the loser gets ErrDuplicateReview.
func (s *Service) Create(ctx context.Context, callerID int64, req CreateReviewRequest) (*domain.Review, error) {
	targetType := domain.TargetType(req.TargetType)

	desc, err := domain.ResolveTarget(targetType)
	if err != nil {
		return nil, err
	}
	if err := validateContent(desc, req.Rating, req.Comment, req.DetailedRatings); err != nil {
		return nil, err
	}

	check, err := s.CanCreate(ctx, callerID, targetType, req.TargetID, req.BookingID)
	if err != nil {
		return nil, err
	}
	if !check.Allowed {
		if check.ExistingReviewID != "" {
			return nil, ErrDuplicateReview
		}
		return nil, ErrNotEligible
	}

	rv := &domain.Review{
		AuthorID:        callerID,
		TargetType:      targetType,
		TargetID:        req.TargetID,
		BookingID:       req.BookingID,
		Rating:          req.Rating,
		DetailedRatings: req.DetailedRatings,
		Title:           strings.TrimSpace(req.Title),
		Comment:         strings.TrimSpace(req.Comment),
		IsVerified:      req.BookingID != nil,
	}

	if err := s.reviews.Create(ctx, rv); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}
	return rv, nil
}

// Update patches the mutable fields of the caller's review. Attempts to
// change author, target or booking identity are rejected outright.
func (s *Service) Update(ctx context.Context, callerID int64, isAdmin bool, reviewID string, req UpdateReviewRequest) (*domain.Review, error) {
	if req.touchesImmutable() {
		return nil, ErrImmutableField
	}

	check, err := s.CanModify(ctx, callerID, isAdmin, reviewID)
	if err != nil {
		return nil, err
	}
	if !check.Allowed {
		return nil, ErrNotOwner
	}

	current, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	desc, err := domain.ResolveTarget(current.TargetType)
	if err != nil {
		return nil, err
	}

	rating := current.Rating
	if req.Rating != nil {
		rating = *req.Rating
	}
	comment := current.Comment
	if req.Comment != nil {
		comment = *req.Comment
	}
	detailed := current.DetailedRatings
	if req.DetailedRatings != nil {
		detailed = req.DetailedRatings
	}
	if err := validateContent(desc, rating, comment, detailed); err != nil {
		return nil, err
	}

	patch := repository.ReviewPatch{
		Rating:          req.Rating,
		Title:           req.Title,
		Comment:         req.Comment,
		DetailedRatings: req.DetailedRatings,
	}

	updated, err := s.reviews.ApplyPatch(ctx, reviewID, patch)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete soft-deletes the caller's review. The record stays behind for
// audit, it just leaves every aggregate.
func (s *Service) Delete(ctx context.Context, callerID int64, isAdmin bool, reviewID string) error {
	check, err := s.CanModify(ctx, callerID, isAdmin, reviewID)
	if err != nil {
		return err
	}
	if !check.Allowed {
		return ErrNotOwner
	}

	if err := s.reviews.SoftDelete(ctx, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, reviewID string) (*domain.Review, error) {
	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if !rv.IsActive {
		return nil, ErrReviewNotFound
	}
	return rv, nil
}

// ListByTarget returns one page of a target's active reviews.
func (s *Service) ListByTarget(ctx context.Context, targetType domain.TargetType, targetID int64, page, pageSize int, sort repository.ReviewSort) (*Page, error) {
	if _, err := domain.ResolveTarget(targetType); err != nil {
		return nil, err
	}
	if targetID <= 0 {
		return nil, ErrValidation
	}
	if sort != "" && !repository.ValidSort(sort) {
		return nil, ErrValidation
	}
	if sort == "" {
		sort = repository.SortNewest
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := s.reviews.ListByTarget(ctx, targetType, targetID, pageSize, (page-1)*pageSize, sort)
	if err != nil {
		return nil, err
	}

	return &Page{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

func validateContent(desc domain.TargetDescriptor, rating int, comment string, detailed map[string]int) error {
	if rating < 1 || rating > 5 {
		return ErrValidation
	}
	if len(strings.TrimSpace(comment)) < minCommentLen {
		return ErrValidation
	}
	for name, value := range detailed {
		if !desc.AllowsCategory(name) {
			return ErrValidation
		}
		if value < 1 || value > 5 {
			return ErrValidation
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// SQLite has no typed driver error here, sniff the message
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "23505")
}

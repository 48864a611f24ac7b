package review

import (
	"context"

	"tourbook/internal/domain"
	"tourbook/internal/repository"
)

// ReviewStore — the persistence surface the engine needs, satisfied by
// repository.ReviewRepository.
type ReviewStore interface {
	Create(ctx context.Context, rv *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	FindActiveByBooking(ctx context.Context, authorID int64, targetType domain.TargetType, targetID, bookingID int64) (*domain.Review, error)
	FindActiveByAuthorAndTarget(ctx context.Context, authorID int64, targetType domain.TargetType, targetID int64) (*domain.Review, error)
	ApplyPatch(ctx context.Context, id string, p repository.ReviewPatch) (*domain.Review, error)
	SoftDelete(ctx context.Context, id string) error
	ListByTarget(ctx context.Context, targetType domain.TargetType, targetID int64, limit, offset int, sort repository.ReviewSort) ([]domain.Review, int64, error)
}

// BookingOracle — read-only view of the booking lifecycle. The engine never
// mutates a booking, it only checks current status and payment facts.
type BookingOracle interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

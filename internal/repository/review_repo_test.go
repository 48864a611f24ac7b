package repository

import (
	"context"
	"testing"

	"tourbook/internal/database"
	"tourbook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, database.Migrate(db), "failed to migrate test database")
	return db
}

func purchaseReview(authorID, bookingID int64) *domain.Review {
	bid := bookingID
	return &domain.Review{
		AuthorID:   authorID,
		TargetType: domain.TargetGuide,
		TargetID:   101,
		BookingID:  &bid,
		Rating:     5,
		Comment:    "Excellent guide, highly recommend!",
	}
}

// A lost check-then-insert race must die on the database constraint, not
// slip through as a second active review for the same purchase.
func TestCreate_OneActiveReviewPerPurchase(t *testing.T) {
	repo := NewReviewRepository(setupTestDB(t))
	ctx := context.Background()

	first := purchaseReview(1, 1)
	require.NoError(t, repo.Create(ctx, first))
	require.NotEmpty(t, first.ID)

	// same (author, target, booking) tuple while the first is still active
	err := repo.Create(ctx, purchaseReview(1, 1))
	require.Error(t, err)
	assert.ErrorContains(t, err, "UNIQUE constraint failed")

	// a different booking by the same author is a separate purchase
	require.NoError(t, repo.Create(ctx, purchaseReview(1, 2)))

	// soft-deleting the first review frees the tuple for a fresh one
	require.NoError(t, repo.SoftDelete(ctx, first.ID))

	replacement := purchaseReview(1, 1)
	require.NoError(t, repo.Create(ctx, replacement))

	// and the freed tuple is now held again
	err = repo.Create(ctx, purchaseReview(1, 1))
	require.Error(t, err)
	assert.ErrorContains(t, err, "UNIQUE constraint failed")

	// the deactivated row survives for audit
	old, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, old.IsActive)
}

// Reviews without a booking sit outside the index on purpose; their
// duplicate control lives in the service probe.
func TestCreate_BookingLessReviewsOutsideConstraint(t *testing.T) {
	repo := NewReviewRepository(setupTestDB(t))
	ctx := context.Background()

	legacy := &domain.Review{
		AuthorID:   1,
		TargetType: domain.TargetHotel,
		TargetID:   202,
		Rating:     4,
		Comment:    "Stayed here years ago, still great.",
	}
	require.NoError(t, repo.Create(ctx, legacy))

	second := &domain.Review{
		AuthorID:   1,
		TargetType: domain.TargetHotel,
		TargetID:   202,
		Rating:     3,
		Comment:    "Another booking-less entry for the same hotel.",
	}
	require.NoError(t, repo.Create(ctx, second))

	found, err := repo.FindActiveByAuthorAndTarget(ctx, 1, domain.TargetHotel, 202)
	require.NoError(t, err)
	require.NotNil(t, found)
}

func TestBookingRepository_CreateAndGetByID(t *testing.T) {
	repo := NewBookingRepository(setupTestDB(t))
	ctx := context.Background()

	b := &domain.Booking{
		ID:            1,
		UserID:        7,
		TargetType:    domain.TargetTour,
		TargetID:      404,
		TotalPrice:    1200,
		Status:        domain.BookingCompleted,
		PaymentStatus: domain.PaymentPaid,
	}
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, domain.TargetTour, got.TargetType)
	assert.Equal(t, domain.BookingCompleted, got.Status)

	_, err = repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

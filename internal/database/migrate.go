package database

import (
	"time"

	"tourbook/internal/domain"

	"gorm.io/gorm"
)

// ratingStatisticsTable mirrors the snapshot columns the statistics
// repository reads and writes.
type ratingStatisticsTable struct {
	TargetType    string    `gorm:"column:target_type;primaryKey"`
	TargetID      int64     `gorm:"column:target_id;primaryKey"`
	TotalReviews  int64     `gorm:"column:total_reviews"`
	AverageRating float64   `gorm:"column:average_rating"`
	Stars1        int64     `gorm:"column:stars_1"`
	Stars2        int64     `gorm:"column:stars_2"`
	Stars3        int64     `gorm:"column:stars_3"`
	Stars4        int64     `gorm:"column:stars_4"`
	Stars5        int64     `gorm:"column:stars_5"`
	RecomputedAt  time.Time `gorm:"column:recomputed_at"`
}

func (ratingStatisticsTable) TableName() string { return "rating_statistics" }

// Migrate creates the schema and the partial unique index that converts a
// lost create race into a unique violation: at most one active review per
// (author, target, booking) purchase tuple.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Booking{},
		&domain.Review{},
		&ratingStatisticsTable{},
	); err != nil {
		return err
	}

	// partial indexes work on both Postgres and SQLite; booking-less legacy
	// reviews are deliberately outside the constraint
	return db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_review_per_booking
ON reviews (author_id, target_type, target_id, booking_id)
WHERE is_active AND booking_id IS NOT NULL
`).Error
}

package repository

import (
	"context"
	"encoding/json"
	"time"

	"tourbook/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID              string    `gorm:"column:id;primaryKey"`
	AuthorID        int64     `gorm:"column:author_id"`
	TargetType      string    `gorm:"column:target_type"`
	TargetID        int64     `gorm:"column:target_id"`
	BookingID       *int64    `gorm:"column:booking_id"`
	Rating          int       `gorm:"column:rating"`
	DetailedRatings *string   `gorm:"column:detailed_ratings;type:text"`
	Title           *string   `gorm:"column:title"`
	Comment         string    `gorm:"column:comment;type:text"`
	IsVerified      bool      `gorm:"column:is_verified"`
	IsActive        bool      `gorm:"column:is_active"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (reviewModel) TableName() string { return "reviews" }

// ReviewSort names the accepted listing orders.
type ReviewSort string

const (
	SortNewest        ReviewSort = "newest"
	SortOldest        ReviewSort = "oldest"
	SortHighestRating ReviewSort = "highest_rating"
	SortLowestRating  ReviewSort = "lowest_rating"
)

var sortClauses = map[ReviewSort]string{
	SortNewest:        "created_at DESC",
	SortOldest:        "created_at ASC",
	SortHighestRating: "rating DESC, created_at DESC",
	SortLowestRating:  "rating ASC, created_at DESC",
}

// ValidSort reports whether s is one of the accepted orders.
func ValidSort(s ReviewSort) bool {
	_, ok := sortClauses[s]
	return ok
}

func toDomainReview(m reviewModel) domain.Review {
	var title string
	if m.Title != nil {
		title = *m.Title
	}

	var detailed map[string]int
	if m.DetailedRatings != nil && *m.DetailedRatings != "" {
		// broken JSON in the column degrades to an empty map, not an error
		_ = json.Unmarshal([]byte(*m.DetailedRatings), &detailed)
	}

	return domain.Review{
		ID:              m.ID,
		AuthorID:        m.AuthorID,
		TargetType:      domain.TargetType(m.TargetType),
		TargetID:        m.TargetID,
		BookingID:       m.BookingID,
		Rating:          m.Rating,
		DetailedRatings: detailed,
		Title:           title,
		Comment:         m.Comment,
		IsVerified:      m.IsVerified,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toReviewModel(r *domain.Review) reviewModel {
	var title *string
	if r.Title != "" {
		v := r.Title
		title = &v
	}

	var detailed *string
	if len(r.DetailedRatings) > 0 {
		b, err := json.Marshal(r.DetailedRatings)
		if err == nil {
			v := string(b)
			detailed = &v
		}
	}

	return reviewModel{
		ID:              r.ID,
		AuthorID:        r.AuthorID,
		TargetType:      string(r.TargetType),
		TargetID:        r.TargetID,
		BookingID:       r.BookingID,
		Rating:          r.Rating,
		DetailedRatings: detailed,
		Title:           title,
		Comment:         r.Comment,
		IsVerified:      r.IsVerified,
		IsActive:        r.IsActive,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// Create inserts a new active review. The partial unique index on
// (author_id, target_type, target_id, booking_id) WHERE is_active rejects a
// second active review for the same purchase, so a lost check-then-insert
// race comes back as a unique violation instead of a silent duplicate.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := toReviewModel(rv)
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	m.IsActive = true
	m.CreatedAt = now
	m.UpdatedAt = now

	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*rv = toDomainReview(m)
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	var m reviewModel
	tx := r.db.WithContext(ctx).First(&m, "id = ?", id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	d := toDomainReview(m)
	return &d, nil
}

// FindActiveByBooking returns the active review for one purchase tuple, or
// nil when the purchase has not been reviewed yet.
func (r *ReviewRepository) FindActiveByBooking(ctx context.Context, authorID int64, targetType domain.TargetType, targetID, bookingID int64) (*domain.Review, error) {
	var rows []reviewModel
	tx := r.db.WithContext(ctx).
		Where("author_id = ? AND target_type = ? AND target_id = ? AND booking_id = ? AND is_active = ?",
			authorID, string(targetType), targetID, bookingID, true).
		Limit(1).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if len(rows) == 0 {
		return nil, nil
	}
	d := toDomainReview(rows[0])
	return &d, nil
}

// FindActiveByAuthorAndTarget is the duplicate probe for legacy reviews that
// carry no booking id and therefore sit outside the partial index.
func (r *ReviewRepository) FindActiveByAuthorAndTarget(ctx context.Context, authorID int64, targetType domain.TargetType, targetID int64) (*domain.Review, error) {
	var rows []reviewModel
	tx := r.db.WithContext(ctx).
		Where("author_id = ? AND target_type = ? AND target_id = ? AND booking_id IS NULL AND is_active = ?",
			authorID, string(targetType), targetID, true).
		Limit(1).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if len(rows) == 0 {
		return nil, nil
	}
	d := toDomainReview(rows[0])
	return &d, nil
}

// ReviewPatch carries the mutable review fields. Author, target and booking
// identity never change after creation and have no place here.
type ReviewPatch struct {
	Rating          *int
	Title           *string
	Comment         *string
	DetailedRatings map[string]int
}

// ApplyPatch updates the mutable columns of one review and returns the
// fresh row. updated_at is bumped on every call.
func (r *ReviewRepository) ApplyPatch(ctx context.Context, id string, p ReviewPatch) (*domain.Review, error) {
	fields := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if p.Rating != nil {
		fields["rating"] = *p.Rating
	}
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Comment != nil {
		fields["comment"] = *p.Comment
	}
	if p.DetailedRatings != nil {
		b, err := json.Marshal(p.DetailedRatings)
		if err != nil {
			return nil, err
		}
		fields["detailed_ratings"] = string(b)
	}

	tx := r.db.WithContext(ctx).
		Table("reviews").
		Where("id = ?", id).
		Updates(fields)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// SoftDelete deactivates a review. Deleting an already-deleted review is a
// no-op success; only a missing id is an error.
func (r *ReviewRepository) SoftDelete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).
		Table("reviews").
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByTarget returns one page of active reviews plus the total active
// count for the target.
func (r *ReviewRepository) ListByTarget(ctx context.Context, targetType domain.TargetType, targetID int64, limit, offset int, sort ReviewSort) ([]domain.Review, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	order, ok := sortClauses[sort]
	if !ok {
		order = sortClauses[SortNewest]
	}

	base := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("target_type = ? AND target_id = ? AND is_active = ?", string(targetType), targetID, true).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []reviewModel
	tx := base.
		Order(order).
		Limit(limit).
		Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	out := make([]domain.Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainReview(m))
	}
	return out, total, nil
}

// RatingBucket is one GROUP BY rating row for a target's active reviews.
type RatingBucket struct {
	Rating int   `gorm:"column:rating"`
	Count  int64 `gorm:"column:cnt"`
}

// DistributionByTarget folds the active review set into per-star counts in
// one query; the aggregation engine derives total and average from it.
func (r *ReviewRepository) DistributionByTarget(ctx context.Context, targetType domain.TargetType, targetID int64) ([]RatingBucket, error) {
	var rows []RatingBucket
	q := `
SELECT rating, COUNT(1) AS cnt
FROM reviews
WHERE target_type = ? AND target_id = ? AND is_active = ?
GROUP BY rating
`
	tx := r.db.WithContext(ctx).Raw(q, string(targetType), targetID, true).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

// TargetKey identifies one reviewed target.
type TargetKey struct {
	TargetType string `gorm:"column:target_type"`
	TargetID   int64  `gorm:"column:target_id"`
}

// ListReviewedTargets returns every target that has at least one review,
// active or not. The reconciliation job uses it to refresh (or zero out)
// statistics snapshots.
func (r *ReviewRepository) ListReviewedTargets(ctx context.Context) ([]TargetKey, error) {
	var rows []TargetKey
	tx := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT target_type, target_id FROM reviews`).
		Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

package repository

import (
	"context"
	"time"

	"tourbook/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatisticsRepository persists per-target rating snapshots. The live API
// recomputes from the review set on every read; these rows exist for cheap
// dashboard reads and are refreshed by the reconcile job.
type StatisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

type statisticsModel struct {
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

func (statisticsModel) TableName() string { return "rating_statistics" }

// Upsert overwrites the snapshot row for one target with a freshly
// recomputed aggregate.
func (r *StatisticsRepository) Upsert(ctx context.Context, s *domain.RatingStatistics) error {
	m := statisticsModel{
		TargetType:    string(s.TargetType),
		TargetID:      s.TargetID,
		TotalReviews:  s.TotalReviews,
		AverageRating: s.AverageRating,
		Stars1:        int64(s.Distribution[1]),
		Stars2:        int64(s.Distribution[2]),
		Stars3:        int64(s.Distribution[3]),
		Stars4:        int64(s.Distribution[4]),
		Stars5:        int64(s.Distribution[5]),
		RecomputedAt:  time.Now().UTC(),
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "target_type"}, {Name: "target_id"}},
		UpdateAll: true,
	}).Create(&m)
	return tx.Error
}

func (r *StatisticsRepository) GetByTarget(ctx context.Context, targetType domain.TargetType, targetID int64) (*domain.RatingStatistics, error) {
	var m statisticsModel
	tx := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", string(targetType), targetID).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}

	dist := map[int]int{}
	for star, cnt := range map[int]int64{1: m.Stars1, 2: m.Stars2, 3: m.Stars3, 4: m.Stars4, 5: m.Stars5} {
		if cnt > 0 {
			dist[star] = int(cnt)
		}
	}

	return &domain.RatingStatistics{
		TargetType:    domain.TargetType(m.TargetType),
		TargetID:      m.TargetID,
		TotalReviews:  m.TotalReviews,
		AverageRating: m.AverageRating,
		Distribution:  dist,
	}, nil
}

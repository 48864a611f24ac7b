package stats

import (
	"context"
	"errors"
	"math"

	"tourbook/internal/domain"
	"tourbook/internal/repository"

	"gorm.io/gorm"
)

const (
	defaultRecent = 5
	maxRecent     = 50
)

// ReviewSource is the slice of the review store the aggregation engine
// reads from; satisfied by repository.ReviewRepository.
type ReviewSource interface {
	DistributionByTarget(ctx context.Context, targetType domain.TargetType, targetID int64) ([]repository.RatingBucket, error)
	ListByTarget(ctx context.Context, targetType domain.TargetType, targetID int64, limit, offset int, sort repository.ReviewSort) ([]domain.Review, int64, error)
	ListReviewedTargets(ctx context.Context) ([]repository.TargetKey, error)
}

// SnapshotStore persists recomputed statistics; satisfied by
// repository.StatisticsRepository.
type SnapshotStore interface {
	Upsert(ctx context.Context, s *domain.RatingStatistics) error
	GetByTarget(ctx context.Context, targetType domain.TargetType, targetID int64) (*domain.RatingStatistics, error)
}

// Service recomputes statistics from the active review set on every read.
// Total, distribution and average all come out of one fold, so the numbers
// can never disagree with each other, only lag a concurrent write.
type Service struct {
	reviews   ReviewSource
	snapshots SnapshotStore
}

func NewService(reviews ReviewSource, snapshots SnapshotStore) *Service {
	return &Service{reviews: reviews, snapshots: snapshots}
}

// GetStatistics folds the target's active reviews into the aggregate and
// attaches the recentN most recent ones.
func (s *Service) GetStatistics(ctx context.Context, targetType domain.TargetType, targetID int64, recentN int) (*domain.RatingStatistics, error) {
	if _, err := domain.ResolveTarget(targetType); err != nil {
		return nil, err
	}
	if recentN <= 0 {
		recentN = defaultRecent
	}
	if recentN > maxRecent {
		recentN = maxRecent
	}

	stats, err := s.recompute(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.reviews.ListByTarget(ctx, targetType, targetID, recentN, 0, repository.SortNewest)
	if err != nil {
		return nil, err
	}
	stats.RecentReviews = recent

	return stats, nil
}

// GetSnapshot serves the last reconciled aggregate for one target without
// touching the review set. Dashboards ranking many targets read this; the
// live endpoint stays the source of truth for detail pages. An empty
// aggregate comes back for targets never reconciled.
func (s *Service) GetSnapshot(ctx context.Context, targetType domain.TargetType, targetID int64) (*domain.RatingStatistics, error) {
	if _, err := domain.ResolveTarget(targetType); err != nil {
		return nil, err
	}

	snap, err := s.snapshots.GetByTarget(ctx, targetType, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.RatingStatistics{
				TargetType:   targetType,
				TargetID:     targetID,
				Distribution: map[int]int{},
			}, nil
		}
		return nil, err
	}
	return snap, nil
}

// ReconcileAll recomputes every reviewed target from scratch and overwrites
// its snapshot row. Targets whose reviews were all soft-deleted get zeroed
// out rather than skipped.
func (s *Service) ReconcileAll(ctx context.Context) (int, error) {
	targets, err := s.reviews.ListReviewedTargets(ctx)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, t := range targets {
		stats, err := s.recompute(ctx, domain.TargetType(t.TargetType), t.TargetID)
		if err != nil {
			return done, err
		}
		if err := s.snapshots.Upsert(ctx, stats); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}

func (s *Service) recompute(ctx context.Context, targetType domain.TargetType, targetID int64) (*domain.RatingStatistics, error) {
	buckets, err := s.reviews.DistributionByTarget(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}

	dist := map[int]int{}
	var total, weighted int64
	for _, b := range buckets {
		if b.Rating < 1 || b.Rating > 5 {
			continue
		}
		dist[b.Rating] = int(b.Count)
		total += b.Count
		weighted += int64(b.Rating) * b.Count
	}

	var avg float64
	if total > 0 {
		avg = roundToTenth(float64(weighted) / float64(total))
	}

	return &domain.RatingStatistics{
		TargetType:    targetType,
		TargetID:      targetID,
		TotalReviews:  total,
		AverageRating: avg,
		Distribution:  dist,
	}, nil
}

func roundToTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

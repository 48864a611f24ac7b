package domain

import "time"

type Review struct {
	ID              string         `json:"id" gorm:"primaryKey"`
	AuthorID        int64          `json:"author_id"`
	TargetType      TargetType     `json:"target_type"`
	TargetID        int64          `json:"target_id"`
	BookingID       *int64         `json:"booking_id,omitempty"`
	Rating          int            `json:"rating"`
	DetailedRatings map[string]int `json:"detailed_ratings,omitempty" gorm:"type:text;serializer:json"`
	Title           string         `json:"title,omitempty"`
	Comment         string         `json:"comment" gorm:"type:text"`
	IsVerified      bool           `json:"is_verified"`
	IsActive        bool           `json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// RatingStatistics is the derived aggregate for one target. Distribution
// always sums to TotalReviews, and AverageRating is recomputable from
// Distribution alone.
type RatingStatistics struct {
	TargetType    TargetType  `json:"target_type"`
	TargetID      int64       `json:"target_id"`
	TotalReviews  int64       `json:"total_reviews"`
	AverageRating float64     `json:"average_rating"`
	Distribution  map[int]int `json:"distribution"`
	RecentReviews []Review    `json:"recent_reviews"`
}

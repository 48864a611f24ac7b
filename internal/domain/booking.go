package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type Booking struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"user_id" validate:"required"`
	TargetType    TargetType    `json:"target_type" validate:"required"`
	TargetID      int64         `json:"target_id" validate:"required"`
	StartDate     time.Time     `json:"start_date"`
	EndDate       time.Time     `json:"end_date"`
	TotalPrice    float64       `json:"total_price" validate:"gte=0"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Notes         string        `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty"`
}

// ReviewEligible is the purchase-completion predicate: a booking grants
// review rights once the trip is completed, or as soon as a confirmed
// booking is paid for.
func (b *Booking) ReviewEligible() bool {
	if b.Status == BookingCompleted {
		return true
	}
	return b.Status == BookingConfirmed && b.PaymentStatus == PaymentPaid
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusPending   BookingStatus = "pending"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

type Booking struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ReferenceID  string        `gorm:"size:50;not null;uniqueIndex" json:"reference_id"`
	ExperienceID uuid.UUID     `gorm:"type:uuid;not null;index" json:"experience_id"`
	ScheduleID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"schedule_id"`
	FullName     string        `gorm:"size:255;not null" json:"full_name"`
	Email        string        `gorm:"size:255;not null;index" json:"email"`
	Quantity     int           `gorm:"not null;check:chk_bookings_quantity,quantity >= 1" json:"quantity"`
	PromoCode    *string       `gorm:"size:50" json:"promo_code,omitempty"`
	Subtotal     int64         `gorm:"not null" json:"subtotal"`
	Taxes        int64         `gorm:"not null" json:"taxes"`
	Discount     int64         `gorm:"not null;default:0" json:"discount"`
	TotalAmount  int64         `gorm:"not null;check:chk_bookings_total,total_amount >= 0" json:"total_amount"`
	Status       BookingStatus `gorm:"type:varchar(20);not null;default:'confirmed'" json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	Experience *Experience `gorm:"foreignKey:ExperienceID;constraint:OnDelete:RESTRICT" json:"-"`
	Schedule   *Schedule   `gorm:"foreignKey:ScheduleID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (b *Booking) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Active reports whether the booking still holds capacity on its schedule.
func (b *Booking) Active() bool {
	return b.Status != StatusCancelled
}

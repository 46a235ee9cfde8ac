package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Schedule is one dated slot of an experience. SlotsAvailable is the only
// mutable counter in the system and is written by the booking transaction.
type Schedule struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExperienceID   uuid.UUID `gorm:"type:uuid;not null;index;index:idx_schedules_experience_date,priority:1" json:"experience_id"`
	Date           time.Time `gorm:"not null;index;index:idx_schedules_experience_date,priority:2" json:"date"`
	Time           string    `gorm:"size:20;not null" json:"time"`
	SlotsAvailable int       `gorm:"not null;check:chk_schedules_slots,slots_available >= 0 AND slots_available <= total_slots" json:"slots_available"`
	TotalSlots     int       `gorm:"not null;check:chk_schedules_total,total_slots >= 1" json:"total_slots"`
	CreatedAt      time.Time `json:"created_at"`

	Experience *Experience `gorm:"foreignKey:ExperienceID" json:"-"`
}

func (s *Schedule) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Experience struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string    `gorm:"size:255;not null" json:"name"`
	Description      string    `gorm:"type:text" json:"description,omitempty"`
	ShortDescription string    `gorm:"type:text;not null" json:"short_description"`
	Location         string    `gorm:"size:255;not null;index" json:"location"`
	Category         string    `gorm:"size:100;index" json:"category"`
	Price            int64     `gorm:"not null;index;check:chk_experiences_price,price >= 0" json:"price"`
	ImageURL         string    `gorm:"type:text" json:"image_url,omitempty"`
	MinAge           int       `gorm:"not null;default:0" json:"min_age"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Schedules []Schedule `gorm:"foreignKey:ExperienceID;constraint:OnDelete:CASCADE" json:"schedules,omitempty"`
}

func (e *Experience) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/models"
)

// BookingEvent is published on booking.confirmed and booking.cancelled.
type BookingEvent struct {
	BookingID    uuid.UUID            `json:"booking_id"`
	ReferenceID  string               `json:"reference_id"`
	ExperienceID uuid.UUID            `json:"experience_id"`
	ScheduleID   uuid.UUID            `json:"schedule_id"`
	Quantity     int                  `json:"quantity"`
	TotalAmount  int64                `json:"total_amount"`
	Status       models.BookingStatus `json:"status"`
	OccurredAt   time.Time            `json:"occurred_at"`
}

func NewBookingEvent(b *models.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		BookingID:    b.ID,
		ReferenceID:  b.ReferenceID,
		ExperienceID: b.ExperienceID,
		ScheduleID:   b.ScheduleID,
		Quantity:     b.Quantity,
		TotalAmount:  b.TotalAmount,
		Status:       b.Status,
		OccurredAt:   at,
	}
}

// ExperienceMessage is the body of catalog.experience.upserted.
type ExperienceMessage struct {
	ID               string `json:"id" validate:"required,uuid"`
	Name             string `json:"name" validate:"required,max=255"`
	Description      string `json:"description"`
	ShortDescription string `json:"short_description" validate:"required"`
	Location         string `json:"location" validate:"required,max=255"`
	Category         string `json:"category" validate:"max=100"`
	Price            int64  `json:"price" validate:"gte=0"`
	ImageURL         string `json:"image_url"`
	MinAge           int    `json:"min_age" validate:"gte=0"`
}

func (m ExperienceMessage) ToModel() (*models.Experience, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("experience id: %w", err)
	}
	return &models.Experience{
		ID:               id,
		Name:             m.Name,
		Description:      m.Description,
		ShortDescription: m.ShortDescription,
		Location:         m.Location,
		Category:         m.Category,
		Price:            m.Price,
		ImageURL:         m.ImageURL,
		MinAge:           m.MinAge,
	}, nil
}

// ScheduleMessage is the body of catalog.schedule.upserted. SlotsAvailable
// only applies when the schedule is new and defaults to TotalSlots.
type ScheduleMessage struct {
	ID             string    `json:"id" validate:"required,uuid"`
	ExperienceID   string    `json:"experience_id" validate:"required,uuid"`
	Date           time.Time `json:"date" validate:"required"`
	Time           string    `json:"time" validate:"required,max=20"`
	TotalSlots     int       `json:"total_slots" validate:"required,min=1"`
	SlotsAvailable *int      `json:"slots_available,omitempty" validate:"omitempty,gte=0"`
}

func (m ScheduleMessage) ToModel() (*models.Schedule, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("schedule id: %w", err)
	}
	experienceID, err := uuid.Parse(m.ExperienceID)
	if err != nil {
		return nil, fmt.Errorf("experience id: %w", err)
	}

	available := m.TotalSlots
	if m.SlotsAvailable != nil {
		if *m.SlotsAvailable > m.TotalSlots {
			return nil, fmt.Errorf("slots_available %d exceeds total_slots %d", *m.SlotsAvailable, m.TotalSlots)
		}
		available = *m.SlotsAvailable
	}

	return &models.Schedule{
		ID:             id,
		ExperienceID:   experienceID,
		Date:           m.Date,
		Time:           m.Time,
		SlotsAvailable: available,
		TotalSlots:     m.TotalSlots,
	}, nil
}

package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/models"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/promo"
)

// Envelope wraps every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func Fail(msg string, details any) Envelope {
	return Envelope{Success: false, Error: msg, Details: details}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ExperienceSummary struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	ShortDescription string    `json:"short_description"`
	Location         string    `json:"location"`
	Price            int64     `json:"price"`
	ImageURL         string    `json:"image_url"`
	Category         string    `json:"category"`
}

type ScheduleResponse struct {
	ID             uuid.UUID `json:"id"`
	Date           time.Time `json:"date"`
	Time           string    `json:"time"`
	SlotsAvailable int       `json:"slots_available"`
	TotalSlots     int       `json:"total_slots"`
}

type ExperienceDetail struct {
	ID               uuid.UUID          `json:"id"`
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	ShortDescription string             `json:"short_description"`
	Location         string             `json:"location"`
	Price            int64              `json:"price"`
	ImageURL         string             `json:"image_url"`
	Category         string             `json:"category"`
	MinAge           int                `json:"min_age"`
	Schedules        []ScheduleResponse `json:"schedules"`
}

type BookingCreatedResponse struct {
	BookingID   uuid.UUID `json:"bookingId"`
	ReferenceID string    `json:"referenceId"`
	TotalAmount int64     `json:"totalAmount"`
	Message     string    `json:"message"`
}

type BookingResponse struct {
	ID           uuid.UUID            `json:"id"`
	ReferenceID  string               `json:"referenceId"`
	ExperienceID uuid.UUID            `json:"experienceId"`
	ScheduleID   uuid.UUID            `json:"scheduleId"`
	FullName     string               `json:"fullName"`
	Email        string               `json:"email"`
	Quantity     int                  `json:"quantity"`
	PromoCode    *string              `json:"promoCode,omitempty"`
	Subtotal     int64                `json:"subtotal"`
	Taxes        int64                `json:"taxes"`
	Discount     int64                `json:"discount"`
	TotalAmount  int64                `json:"totalAmount"`
	Status       models.BookingStatus `json:"status"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// CapacityDetails accompanies an insufficient-capacity error.
type CapacityDetails struct {
	SlotsAvailable int `json:"slotsAvailable"`
}

type PromoResponse = promo.Result

func ToExperienceSummaries(experiences []models.Experience) []ExperienceSummary {
	resp := make([]ExperienceSummary, len(experiences))
	for i, e := range experiences {
		resp[i] = ExperienceSummary{
			ID:               e.ID,
			Name:             e.Name,
			ShortDescription: e.ShortDescription,
			Location:         e.Location,
			Price:            e.Price,
			ImageURL:         e.ImageURL,
			Category:         e.Category,
		}
	}
	return resp
}

func ToExperienceDetail(e *models.Experience) ExperienceDetail {
	schedules := make([]ScheduleResponse, len(e.Schedules))
	for i, s := range e.Schedules {
		schedules[i] = ScheduleResponse{
			ID:             s.ID,
			Date:           s.Date,
			Time:           s.Time,
			SlotsAvailable: s.SlotsAvailable,
			TotalSlots:     s.TotalSlots,
		}
	}
	return ExperienceDetail{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		ShortDescription: e.ShortDescription,
		Location:         e.Location,
		Price:            e.Price,
		ImageURL:         e.ImageURL,
		Category:         e.Category,
		MinAge:           e.MinAge,
		Schedules:        schedules,
	}
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID,
		ReferenceID:  b.ReferenceID,
		ExperienceID: b.ExperienceID,
		ScheduleID:   b.ScheduleID,
		FullName:     b.FullName,
		Email:        b.Email,
		Quantity:     b.Quantity,
		PromoCode:    b.PromoCode,
		Subtotal:     b.Subtotal,
		Taxes:        b.Taxes,
		Discount:     b.Discount,
		TotalAmount:  b.TotalAmount,
		Status:       b.Status,
		CreatedAt:    b.CreatedAt,
	}
}

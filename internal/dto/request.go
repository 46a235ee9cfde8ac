package dto

type CreateBookingRequest struct {
	ExperienceID string `json:"experienceId" validate:"required"`
	ScheduleID   string `json:"scheduleId" validate:"required"`
	FullName     string `json:"fullName" validate:"required,min=2,max=255"`
	Email        string `json:"email" validate:"required,email,max=255"`
	Quantity     int    `json:"quantity" validate:"required,min=1,max=10"`
	PromoCode    string `json:"promoCode,omitempty" validate:"omitempty,max=50"`
	// TotalAmount is what the client displayed. It is compared with the
	// server price and never stored.
	TotalAmount *int64 `json:"totalAmount,omitempty" validate:"omitempty,gte=0"`
}

type ValidatePromoRequest struct {
	PromoCode string `json:"promoCode" validate:"required,max=50"`
	Amount    *int64 `json:"amount" validate:"required,gte=0,lte=10000000000"`
}

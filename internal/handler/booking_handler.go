package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/dto"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/promo"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/service"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/validation"
)

const bookingConfirmedMessage = "Booking confirmed successfully"

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateBooking)
	g.GET("/:referenceId", h.GetBooking)
	g.POST("/:referenceId/cancel", h.CancelBooking)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(err)
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), service.CreateBookingInput{
		ExperienceID: req.ExperienceID,
		ScheduleID:   req.ScheduleID,
		FullName:     req.FullName,
		Email:        req.Email,
		Quantity:     req.Quantity,
		PromoCode:    req.PromoCode,
		TotalAmount:  req.TotalAmount,
	})
	if err != nil {
		return bookingError(err, "failed to create booking")
	}

	return c.JSON(http.StatusCreated, dto.OK(dto.BookingCreatedResponse{
		BookingID:   booking.ID,
		ReferenceID: booking.ReferenceID,
		TotalAmount: booking.TotalAmount,
		Message:     bookingConfirmedMessage,
	}))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	booking, err := h.svc.GetBooking(c.Request().Context(), c.Param("referenceId"))
	if err != nil {
		return bookingError(err, "failed to fetch booking")
	}
	return c.JSON(http.StatusOK, dto.OK(dto.ToBookingResponse(booking)))
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	booking, err := h.svc.CancelBooking(c.Request().Context(), c.Param("referenceId"))
	if err != nil {
		return bookingError(err, "failed to cancel booking")
	}
	return c.JSON(http.StatusOK, dto.OK(dto.ToBookingResponse(booking)))
}

func validationFailed(err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return echo.NewHTTPError(http.StatusBadRequest, "Validation failed").SetInternal(verr)
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

// bookingError maps service errors to HTTP errors. fallback is the message
// for anything unexpected.
func bookingError(err error, fallback string) error {
	var capErr *service.InsufficientCapacityError
	switch {
	case errors.Is(err, validation.ErrValidation):
		return validationFailed(err)
	case errors.As(err, &capErr):
		return echo.NewHTTPError(http.StatusBadRequest, capErr.Error()).SetInternal(capErr)
	case errors.Is(err, promo.ErrInvalidCode):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrScheduleNotFound),
		errors.Is(err, service.ErrExperienceNotFound),
		errors.Is(err, service.ErrBookingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyCancelled),
		errors.Is(err, service.ErrNotCancellable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrBookingConflict):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, service.ErrStoreUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, service.ErrStoreUnavailable.Error()).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, fallback).SetInternal(err)
	}
}

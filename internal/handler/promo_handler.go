package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/dto"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/promo"
)

type PromoHandler struct{}

func NewPromoHandler() *PromoHandler {
	return &PromoHandler{}
}

func (h *PromoHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/validate", h.ValidatePromo)
}

func (h *PromoHandler) ValidatePromo(c echo.Context) error {
	var req dto.ValidatePromoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(err)
	}

	result, err := promo.Evaluate(req.PromoCode, *req.Amount)
	if err != nil {
		if errors.Is(err, promo.ErrInvalidCode) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to validate promo code").SetInternal(err)
	}

	return c.JSON(http.StatusOK, dto.OK(result))
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/dto"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/repository"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/service"
)

type ExperienceHandler struct {
	svc service.CatalogService
}

func NewExperienceHandler(svc service.CatalogService) *ExperienceHandler {
	return &ExperienceHandler{svc: svc}
}

func (h *ExperienceHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListExperiences)
	g.GET("/:id", h.GetExperience)
}

func (h *ExperienceHandler) ListExperiences(c echo.Context) error {
	filter := repository.ExperienceFilter{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		Location: c.QueryParam("location"),
	}

	experiences, err := h.svc.ListExperiences(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch experiences").SetInternal(err)
	}

	return c.JSON(http.StatusOK, dto.OK(dto.ToExperienceSummaries(experiences)))
}

func (h *ExperienceHandler) GetExperience(c echo.Context) error {
	experience, err := h.svc.GetExperience(c.Request().Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidID):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid experience id")
		case errors.Is(err, service.ErrExperienceNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrStoreUnavailable):
			return echo.NewHTTPError(http.StatusServiceUnavailable, service.ErrStoreUnavailable.Error()).SetInternal(err)
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch experience details").SetInternal(err)
		}
	}

	return c.JSON(http.StatusOK, dto.OK(dto.ToExperienceDetail(experience)))
}

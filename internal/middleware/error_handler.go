package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/dto"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/service"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/validation"
)

// ErrorHandler renders every error in the API envelope. Field and capacity
// details are taken from the HTTPError's internal error.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "internal server error"
	var details any

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
		if he.Internal != nil {
			details = detailsOf(he.Internal)
		}
		if code == http.StatusNotFound && he.Internal == nil && errors.Is(err, echo.ErrNotFound) {
			msg = "route not found"
		}
	}

	if code >= http.StatusInternalServerError {
		log.Printf("[ErrorHandler] %s %s: %d %v", c.Request().Method, c.Request().URL.Path, code, err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, dto.Fail(msg, details))
}

func detailsOf(err error) any {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return verr.Fields
	}
	var capErr *service.InsufficientCapacityError
	if errors.As(err, &capErr) {
		return dto.CapacityDetails{SlotsAvailable: capErr.Remaining}
	}
	return nil
}

package http

import (
	"net/http"

	"truckbot/internal/core/application/dispatch"

	"github.com/labstack/echo/v4"
)

// statusOf maps a façade outcome to the HTTP status code.
func statusOf(o dispatch.Outcome) int {
	switch o {
	case dispatch.OK:
		return http.StatusOK
	case dispatch.ValidationFailed:
		return http.StatusBadRequest
	case dispatch.AlreadyClaimed, dispatch.DriverBusy, dispatch.NotHolder:
		return http.StatusConflict
	case dispatch.NotFound:
		return http.StatusNotFound
	case dispatch.Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusServiceUnavailable
	}
}

func outcomeError(ctx echo.Context, res dispatch.Result) error {
	code := statusOf(res.Outcome)
	message := http.StatusText(code)
	if res.Err != nil && res.Outcome != dispatch.StoreUnavailable {
		message = res.Err.Error()
	}
	return ctx.JSON(code, Error{
		Code:    code,
		Outcome: res.Outcome.String(),
		Message: message,
	})
}

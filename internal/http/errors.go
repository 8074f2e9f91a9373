package http

import (
	"errors"
	"net/http"

	echo "github.com/labstack/echo/v4"

	"github.com/jmehdipour/sms-admin/internal/http/middleware"
	"github.com/jmehdipour/sms-admin/internal/repository"
	"github.com/jmehdipour/sms-admin/internal/service/admin"
)

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// writeError maps service errors to status codes. Unexpected errors are
// logged and hidden behind a generic message.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, err.Error())
	case errors.Is(err, admin.ErrOverrideExists):
		return errorJSON(c, http.StatusConflict, err.Error())
	case errors.Is(err, admin.ErrInvalidInput):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return errorJSON(c, http.StatusInternalServerError, "internal error")
}

func actorFromCtx(c echo.Context) admin.Actor {
	op, _ := middleware.OperatorFromCtx(c)
	return admin.Actor{ID: op.ID, Name: op.Name}
}

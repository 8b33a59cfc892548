package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorBody is the error payload shape clients of this API expect.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// SuccessResponse writes the payload as-is with a 200 status.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// BadRequestResponse writes a 400 with a detail message.
func BadRequestResponse(c echo.Context, detail string) error {
	return c.JSON(http.StatusBadRequest, ErrorBody{Detail: detail})
}

// InternalErrorResponse writes a 500 with a detail message.
func InternalErrorResponse(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ErrorBody{Detail: detail})
}

// AppErrorResponse writes an application error with its status, falling
// back to 500 for unclassified errors.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.JSON(appErr.Status, ErrorBody{Detail: appErr.Error()})
	}
	return InternalErrorResponse(c, err.Error())
}

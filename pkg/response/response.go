package response

import (
	"errors"
	"net/http"

	"custodial-wallet/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error envelope of the external contract: a single
// human-readable message under "error".
type ErrorResponse struct {
	Error string `json:"error"`
}

// OK sends a 200 response with the record as the body.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 response with the record as the body.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// CSV sends a 200 response with a CSV attachment.
func CSV(c *gin.Context, filename string, body string) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", []byte(body))
}

// Error sends an error response. It checks if err is an *apperror.AppError
// and maps it to the corresponding status, otherwise returns 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorResponse{Error: appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

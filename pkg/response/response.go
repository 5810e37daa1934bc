// Package response renders the uniform API envelope.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careerforge/backend/pkg/apperr"
)

// ErrorBody is the error object inside a failed envelope.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Envelope is the standard API response shape for every handler.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// OK sends a 200 success envelope with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// OKMessage sends a 200 success envelope with data and a message.
func OKMessage(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

// Fail sends a failure envelope; the HTTP status mirrors the error's status.
func Fail(c *gin.Context, err error) {
	e := apperr.From(err)
	c.JSON(e.Status, Envelope{
		Success: false,
		Error:   &ErrorBody{Message: e.Detail(), Code: string(e.Code)},
	})
}

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/streamtube/backend/internal/apperror"
	"github.com/streamtube/backend/internal/metrics"
)

// envelope is the uniform response shape for every endpoint
type envelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < 400,
	})
}

// fail maps any error onto the envelope. Unknown errors come out as a
// generic 500 so internals never reach the client.
func fail(c *gin.Context, err error) {
	appErr := apperror.From(err)
	if appErr.Status() >= http.StatusInternalServerError {
		metrics.RecordError("api", appErr.Kind.String())
	}
	c.JSON(appErr.Status(), envelope{
		StatusCode: appErr.Status(),
		Data:       nil,
		Message:    appErr.Message,
		Success:    false,
	})
}

// Package response renders the API's uniform JSON envelope.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the shape of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int64      `json:"count,omitempty"`
}

// OK renders a successful read.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// List renders a successful listing with its record count.
func List(c *gin.Context, data interface{}, count int64) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

// Created renders a successful creation.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Updated renders a successful mutation carrying the updated record.
func Updated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Message renders a successful operation with no payload.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

// NotFound renders a 404 failure.
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Envelope{Success: false, Message: message})
}

// ValidationFailed renders a 422 with field-keyed messages.
func ValidationFailed(c *gin.Context, errs interface{}) {
	c.JSON(http.StatusUnprocessableEntity, Envelope{Success: false, Errors: errs})
}

// Error renders a failure with a generic message only; internal detail
// never reaches the client.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}

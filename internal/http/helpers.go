package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/services"
)

// --- Response Types ---

// Response is the envelope shared by every API response.
type Response struct {
	Success    bool                  `json:"success"`
	Message    string                `json:"message,omitempty"`
	Data       any                   `json:"data,omitempty"`
	Count      *int                  `json:"count,omitempty"`
	Pagination *services.Pagination  `json:"pagination,omitempty"`
	Errors     []services.FieldError `json:"errors,omitempty"`
}

// --- Error Response Helpers ---

// respondValidation sends a 400 with per-field problems.
func respondValidation(c *gin.Context, problems []services.FieldError) {
	c.JSON(http.StatusBadRequest, Response{Message: "Validation failed", Errors: problems})
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Message: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, Response{Message: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, Response{Message: "Internal server error"})
}

// respondServiceError maps access-layer errors onto status codes.
func respondServiceError(c *gin.Context, err error, context string) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		respondValidation(c, verr.Fields)
		return
	}

	var dup *services.DuplicateKeyError
	if errors.As(err, &dup) {
		respondBadRequest(c, duplicateMessage(dup))
		return
	}

	respondInternalError(c, err, context)
}

func duplicateMessage(dup *services.DuplicateKeyError) string {
	switch dup.Field {
	case "email":
		return "Email already exists"
	case "":
		return "Duplicate value"
	default:
		return "Duplicate value for " + dup.Field
	}
}

// --- Success Response Helpers ---

// respondData sends a success envelope with data.
func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

// respondMessage sends a success envelope with a message and optional data.
func respondMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// respondPage sends one page of items with count and pagination metadata.
func respondPage[T any](c *gin.Context, page *services.Page[T]) {
	count := len(page.Items)
	c.JSON(http.StatusOK, Response{
		Success:    true,
		Data:       page.Items,
		Count:      &count,
		Pagination: &page.Pagination,
	})
}

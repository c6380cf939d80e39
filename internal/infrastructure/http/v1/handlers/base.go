package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"productdesk/internal/core/apperror"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds the JSON request body. Field rules are left to the domain.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers error on Gin context and aborts request.
// The JSON response is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseID parses the :id path parameter.
func (h *BaseHandler) ParseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format").WithDetail("id", c.Param("id")))
		return 0, false
	}
	return id, true
}

// ParsePositiveIntQuery parses an optional positive integer query parameter.
// An absent parameter yields defaultVal; anything else that is not a
// positive integer is a validation error.
func (h *BaseHandler) ParsePositiveIntQuery(c *gin.Context, key string, defaultVal int) (int, bool) {
	val, ok := c.GetQuery(key)
	if !ok {
		return defaultVal, true
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		h.Error(c, apperror.NewValidation(key+" must be a positive integer").
			WithDetail("field", key).
			WithDetail("value", val))
		return 0, false
	}
	return parsed, true
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

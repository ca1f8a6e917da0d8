// Package handler exposes the application services over HTTP.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/foodgram/backend/internal/infrastructure/config"
	"github.com/foodgram/backend/internal/interfaces/http/dto"
	"github.com/foodgram/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Pagination query parameters
const (
	ParamPage  = "page"
	ParamLimit = "limit"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// BindJSON binds the request body into req and answers 400 on failure
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// HandleError converts an error into the response envelope. Domain errors
// keep their code and message; anything else is a 500 with a generic
// message and is attached to the context for the request logger.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	_ = c.Error(err)
	h.InternalError(c, "An unexpected error occurred")
}

// pathID parses the ":id" path parameter. An id that is not a UUID cannot
// name any resource, so it is reported as not found.
func (h *BaseHandler) pathID(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.NotFound(c, resource+" not found")
		return uuid.Nil, false
	}
	return id, true
}

// Paginator reads page and limit query parameters within configured bounds
type Paginator struct {
	defaultSize int
	maxSize     int
}

// NewPaginator creates a paginator from the pagination config
func NewPaginator(cfg config.PaginationConfig) Paginator {
	p := Paginator{defaultSize: cfg.DefaultPageSize, maxSize: cfg.MaxPageSize}
	if p.defaultSize <= 0 {
		p.defaultSize = dto.DefaultPageSize
	}
	if p.maxSize < p.defaultSize {
		p.maxSize = p.defaultSize
	}
	return p
}

// Filter returns the requested page as a repository filter. A limit above
// the maximum is clamped; a non-positive or malformed value is rejected.
func (p Paginator) Filter(c *gin.Context) (shared.Filter, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = p.defaultSize

	page, err := positiveQueryInt(c, ParamPage)
	if err != nil {
		return filter, err
	}
	if page > 0 {
		filter.Page = page
	}

	limit, err := positiveQueryInt(c, ParamLimit)
	if err != nil {
		return filter, err
	}
	if limit > 0 {
		filter.PageSize = min(limit, p.maxSize)
	}
	return filter, nil
}

func positiveQueryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, shared.NewValidationError("%s must be a positive integer", key)
	}
	return n, nil
}

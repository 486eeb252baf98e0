package handler

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/bilemo/api/internal/domain/shared"
	"github.com/bilemo/api/internal/infrastructure/config"
	"github.com/bilemo/api/internal/infrastructure/logger"
	"github.com/bilemo/api/internal/interfaces/http/dto"
	"github.com/bilemo/api/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const validationFailedMessage = "Les données envoyées sont invalides"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID set by the RequestID middleware
func getRequestID(c *gin.Context) string {
	if id := c.GetString(logger.GinRequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// actorID returns the id of the authenticated client
func actorID(c *gin.Context) int64 {
	return middleware.GetJWTClientID(c)
}

// idURI binds the :id path parameter
type idURI struct {
	ID int64 `uri:"id" binding:"required,gt=0"`
}

// parseID reads the :id path parameter. Anything but a positive integer in
// canonical decimal form is treated as an unknown resource, so "010" or "+3"
// never alias another id.
func parseID(c *gin.Context) (int64, bool) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		return 0, false
	}
	if strconv.FormatInt(uri.ID, 10) != c.Param("id") {
		return 0, false
	}
	return uri.ID, true
}

// decimalQuery reads a query parameter written as a plain base-10 integer with
// an optional minus sign. Values beyond the int range saturate.
func decimalQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	digits := strings.TrimPrefix(raw, "-")
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		if raw[0] == '-' {
			return math.MinInt, true
		}
		return math.MaxInt, true
	}
	return v, err == nil
}

// parsePageRequest reads ?page and ?limit. Missing or non-numeric values fall
// back to the defaults; explicit values out of range are rejected.
func parsePageRequest(c *gin.Context, cfg config.PaginationConfig) (shared.PageRequest, error) {
	page := shared.PageRequest{Page: shared.DefaultPage, Limit: cfg.DefaultLimit}
	if page.Limit <= 0 {
		page.Limit = shared.DefaultLimit
	}
	if v, ok := decimalQuery(c, "page"); ok {
		page.Page = v
	}
	if v, ok := decimalQuery(c, "limit"); ok {
		page.Limit = v
	}

	var v shared.Violations
	v.Merge("", page.Validate())
	if cfg.MaxLimit > 0 {
		v.Check(page.Limit <= cfg.MaxLimit, "limit", "La limite ne peut pas dépasser "+strconv.Itoa(cfg.MaxLimit))
	}
	return page, v.Err()
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// successPage sends one page of a list with its pagination meta
func successPage[T any](c *gin.Context, page shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(page.Items, page.Total, page.Page, page.Limit))
}

// Created sends a 201 response pointing at the new resource
func (h *BaseHandler) Created(c *gin.Context, location string, data any) {
	c.Header("Location", location)
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, code, message string) {
	h.Error(c, http.StatusBadRequest, code, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		validationFailedMessage,
		getRequestID(c),
		details,
	))
}

// BindJSON decodes and validates the request body, answering the request
// itself when it cannot. It reports whether the handler may continue.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	if details := middleware.ValidationDetails(err); details != nil {
		h.ValidationError(c, details)
		return false
	}

	var maxBytesErr *http.MaxBytesError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &maxBytesErr):
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "Request body exceeds maximum allowed size")
	case errors.As(err, &typeErr):
		h.ValidationError(c, []dto.ValidationDetail{{Field: typeErr.Field, Message: "Type de valeur invalide"}})
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		h.BadRequest(c, dto.ErrCodeInvalidJSON, "Le corps de la requête n'est pas un JSON valide")
	default:
		h.BadRequest(c, dto.ErrCodeBadRequest, err.Error())
	}
	return false
}

// HandleError converts service errors into the response envelope
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var validationErr *shared.ValidationError
	if errors.As(err, &validationErr) {
		details := make([]dto.ValidationDetail, 0, len(validationErr.Violations))
		for _, v := range validationErr.Violations {
			details = append(details, dto.ValidationDetail{Field: v.Field, Message: v.Message})
		}
		h.ValidationError(c, details)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	logger.GetGinLogger(c).Error("Unhandled error", zap.Error(err))
	_ = c.Error(err)
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

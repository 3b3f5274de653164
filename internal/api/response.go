package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strconv"  // Query parsing

	"game_store/internal/middleware" // Context helpers
	"game_store/internal/shop"       // Business errors
	"game_store/internal/storage"    // Image errors

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/google/uuid"        // Path ids
	"github.com/shopspring/decimal" // Money in JSON
	"github.com/sirupsen/logrus"    // Logging library
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true // Money is sent as JSON numbers
}

// internalErrorMessage is shown for every unexpected failure
const internalErrorMessage = "เกิดข้อผิดพลาดในระบบ"

// Response is the envelope of every endpoint
type Response struct {
	Success bool   `json:"success"`        // Whether the operation succeeded
	Message string `json:"message"`        // Human readable outcome
	Data    any    `json:"data,omitempty"` // Payload on success
}

// PageResponse wraps a paginated listing
type PageResponse struct {
	Items      any   `json:"items"`      // Current page
	TotalCount int64 `json:"totalCount"` // Rows across all pages
	Page       int   `json:"page"`       // Current page number
	PageSize   int   `json:"pageSize"`   // Rows per page
	TotalPages int   `json:"totalPages"` // Number of pages
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func respondCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Message: message})
}

// kindStatus maps business error kinds to HTTP statuses
var kindStatus = map[shop.Kind]int{
	shop.KindInvalid:           http.StatusBadRequest,
	shop.KindNotFound:          http.StatusNotFound,
	shop.KindConflict:          http.StatusConflict,
	shop.KindUnauthorized:      http.StatusUnauthorized,
	shop.KindForbidden:         http.StatusForbidden,
	shop.KindInsufficientFunds: http.StatusBadRequest,
}

// respondError turns err into the envelope. Unknown errors are logged and hidden.
func respondError(c *gin.Context, err error, op string) {
	if kind, isBusiness := shop.KindOf(err); isBusiness {
		fail(c, kindStatus[kind], err.Error())
		return
	}
	switch {
	case errors.Is(err, storage.ErrTooLarge), errors.Is(err, storage.ErrUnsupportedType), errors.Is(err, storage.ErrInvalidName):
		fail(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, storage.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
		return
	}
	fields := logrus.Fields{
		"operation": op,           // Failing handler
		"path":      c.FullPath(), // Route template
		"error":     err.Error(),  // Cause
	}
	if id, ok := middleware.UserID(c); ok {
		fields["user_id"] = id // Caller
	}
	logrus.WithFields(fields).Error("Request failed")
	fail(c, http.StatusInternalServerError, internalErrorMessage)
}

// currentUser returns the authenticated caller or aborts with 401
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, exists := middleware.UserID(c)
	if !exists {
		// If unauthenticated, return unauthorized
		fail(c, http.StatusUnauthorized, "กรุณาเข้าสู่ระบบ")
	}
	return id, exists
}

// pathUUID parses a uuid path parameter or aborts with 400
func pathUUID(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil || id == uuid.Nil {
		// If invalid, return bad request
		fail(c, http.StatusBadRequest, message)
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads an integer query parameter, falling back to def
func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

// pageOf converts a service page into its JSON form
func pageOf[T, D any](p shop.Page[T], convert func(T) D) PageResponse {
	items := make([]D, len(p.Items))
	for i, it := range p.Items {
		items[i] = convert(it)
	}
	return PageResponse{
		Items:      items,
		TotalCount: p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
}

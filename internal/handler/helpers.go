package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradejournal/internal/service"
)

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func strQueryPtr(c *gin.Context, key string) *string {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		return &val
	}
	return nil
}

func boolPtr(v bool) *bool {
	return &v
}

func paginationMeta(limit, offset int, total int64) map[string]any {
	if limit <= 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	hasNext := int64(offset+limit) < total
	return map[string]any{
		"limit":    limit,
		"offset":   offset,
		"total":    total,
		"has_next": hasNext,
	}
}

// parseDecimalPtr treats nil and blank as "not supplied"; anything else
// must parse, so a typo like "12,5" fails validation instead of quietly
// dropping the value.
func parseDecimalPtr(field string, raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*raw)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be a decimal number", field)
	}
	return &d, nil
}

func parseTimePtr(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*raw)
	if v == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC 3339 timestamp", field)
	}
	utc := ts.UTC()
	return &utc, nil
}

// errLogger receives failures that don't map to a known sentinel.
// Set once at startup, before the engine serves traffic.
var errLogger *zap.Logger

func SetErrorLogger(l *zap.Logger) {
	errLogger = l
}

// serviceError translates service-level sentinel errors into HTTP
// statuses; anything unrecognized is logged and surfaced as a generic
// internal failure so storage details never reach the client.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTradeLimitReached),
		errors.Is(err, service.ErrAccountLimitReached):
		Error(c, http.StatusForbidden, err.Error(), nil)
	// Ownership misses read as not-found so one user cannot probe for
	// another user's row ids.
	case errors.Is(err, service.ErrTradeNotFound),
		errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrNotTradeOwner),
		errors.Is(err, service.ErrNotAccountOwner):
		Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrEmotionNotLinked):
		Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrUserSuspended):
		Error(c, http.StatusForbidden, err.Error(), nil)
	default:
		if errLogger != nil {
			errLogger.Error("unhandled service error",
				zap.String("path", c.FullPath()),
				zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, "internal error", nil)
	}
}

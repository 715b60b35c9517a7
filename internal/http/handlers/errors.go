package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/valuepm-backend/internal/domain/value"
	"github.com/yungbote/valuepm-backend/internal/http/response"
	"github.com/yungbote/valuepm-backend/internal/platform/apierr"
)

// respondErr maps domain and api errors onto the error envelope.
func respondErr(c *gin.Context, err error) {
	if ae, ok := apierr.As(err); ok {
		response.RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}
	switch value.KindOf(err) {
	case value.KindNotFound:
		response.RespondError(c, http.StatusNotFound, string(value.KindNotFound), err)
	case value.KindUnsupportedType:
		response.RespondError(c, http.StatusBadRequest, string(value.KindUnsupportedType), err)
	case value.KindInvalidValue:
		response.RespondError(c, http.StatusBadRequest, string(value.KindInvalidValue), err)
	default:
		_ = c.Error(err)
		response.RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("internal server error"))
	}
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_"+name, err)
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondErr(c, apierr.New(http.StatusRequestEntityTooLarge, "request_too_large", err))
			return false
		}
		respondErr(c, apierr.BadRequest("invalid_request", err))
		return false
	}
	return true
}

// parseDate accepts RFC 3339 timestamps or bare YYYY-MM-DD dates (UTC
// midnight). Empty input yields nil.
func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, value.InvalidValue("parse date", "invalid date %q, want YYYY-MM-DD or RFC 3339", raw)
	}
	return &t, nil
}

func isDateOnly(raw string) bool {
	_, err := time.Parse(time.DateOnly, strings.TrimSpace(raw))
	return err == nil
}

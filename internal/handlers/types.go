package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"profitshare/internal/handlers/business"
	"profitshare/internal/middleware"

	"github.com/gin-gonic/gin"
)

// respondBusinessError translates the engine's typed errors onto HTTP
// statuses. Structured detail rides along so callers can decide whether to
// retry; monetary amounts never appear in error bodies.
func respondBusinessError(c *gin.Context, err error) {
	var validationErr *business.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
		return
	}

	var conflictErr *business.ConflictError
	if errors.As(err, &conflictErr) {
		body := gin.H{"error": conflictErr.Error()}
		if conflictErr.AdjustmentID != 0 {
			body["adjustment_id"] = conflictErr.AdjustmentID
		}
		if conflictErr.Year != 0 {
			body["year"] = conflictErr.Year
			body["month"] = conflictErr.Month
		}
		c.JSON(http.StatusConflict, body)
		return
	}

	var preconditionErr *business.PreconditionError
	if errors.As(err, &preconditionErr) {
		body := gin.H{
			"error": preconditionErr.Error(),
			"year":  preconditionErr.Year,
			"month": preconditionErr.Month,
		}
		if preconditionErr.PendingAdjustments > 0 {
			body["pending_adjustments"] = preconditionErr.PendingAdjustments
		}
		if preconditionErr.CurrentStatus != "" {
			body["current_status"] = preconditionErr.CurrentStatus
			body["required_status"] = preconditionErr.RequiredStatus
		}
		c.JSON(http.StatusPreconditionFailed, body)
		return
	}

	var notFoundErr *business.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":    notFoundErr.Error(),
			"resource": notFoundErr.Resource,
		})
		return
	}

	var authErr *business.AuthorizationError
	if errors.As(err, &authErr) {
		c.JSON(http.StatusForbidden, gin.H{"error": authErr.Error()})
		return
	}

	var upstreamErr *business.UpstreamError
	if errors.As(err, &upstreamErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": upstreamErr.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// periodFromParams parses /:year/:month path parameters
func periodFromParams(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year format"})
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month format"})
		return 0, 0, false
	}
	return year, month, true
}

// dateRangeFromQuery parses start_date/end_date query parameters (2006-01-02)
func dateRangeFromQuery(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, expected YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse("2006-01-02", c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date, expected YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func actorID(c *gin.Context) string {
	return c.GetString(middleware.ContextActorID)
}

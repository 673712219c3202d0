package handlers

import (
	"net/http"
	"strconv"

	"profitshare/internal/handlers/business"
	"profitshare/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProposeAdjustmentRequest represents the request body for proposing a
// share-percent adjustment
type ProposeAdjustmentRequest struct {
	Year            int             `json:"year" binding:"required"`
	Month           int             `json:"month" binding:"required"`
	AdjustmentType  string          `json:"adjustment_type" binding:"required"`
	TargetPartnerID string          `json:"target_partner_id" binding:"required"`
	ProposedPercent decimal.Decimal `json:"proposed_percent"`
	Reason          string          `json:"reason"`
}

// ProposeAdjustment creates a share-percent change request. The proposer is
// the authenticated actor; self-reductions are additionally checked against
// the target partner inside the workflow.
func ProposeAdjustment(c *gin.Context) {
	var request ProposeAdjustmentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adjustment, err := business.ProposeAdjustment(business.ProposeAdjustmentInput{
		Year:            request.Year,
		Month:           request.Month,
		AdjustmentType:  models.AdjustmentType(request.AdjustmentType),
		TargetPartnerID: request.TargetPartnerID,
		ProposedPercent: request.ProposedPercent,
		Reason:          request.Reason,
		ProposedBy:      actorID(c),
	})
	if err != nil {
		respondBusinessError(c, err)
		return
	}
	c.JSON(http.StatusCreated, adjustment)
}

// DecideAdjustmentRequest represents the approval decision body
type DecideAdjustmentRequest struct {
	Action string `json:"action" binding:"required"` // approve or reject
}

// DecideAdjustment resolves one pending adjustment. Admin and peer proposals
// require super permission, enforced at the route level.
func DecideAdjustment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request DecideAdjustmentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adjustment, err := business.DecideAdjustment(uint(id), request.Action, actorID(c))
	if err != nil {
		respondBusinessError(c, err)
		return
	}
	c.JSON(http.StatusOK, adjustment)
}

// ListAdjustments returns adjustment history filtered by query parameters:
// year, month, status, target_partner_id
func ListAdjustments(c *gin.Context) {
	var filter business.AdjustmentFilter
	if y := c.Query("year"); y != "" {
		if parsed, err := strconv.Atoi(y); err == nil {
			filter.Year = parsed
		}
	}
	if m := c.Query("month"); m != "" {
		if parsed, err := strconv.Atoi(m); err == nil {
			filter.Month = parsed
		}
	}
	filter.Status = models.AdjustmentStatus(c.Query("status"))
	filter.TargetPartnerID = c.Query("target_partner_id")

	adjustments, err := business.ListAdjustments(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": adjustments})
}

package handlers

import (
	"net/http"
	"strconv"

	"profitshare/internal/handlers/business"

	"github.com/gin-gonic/gin"
)

// GetAllocation returns the profit allocation for one settlement period.
// Draft periods are recomputed from the ledger; finalized and paid periods
// return the frozen snapshot.
func GetAllocation(c *gin.Context) {
	year, month, ok := periodFromParams(c)
	if !ok {
		return
	}

	allocation, err := business.GetAllocation(year, month)
	if err != nil {
		respondBusinessError(c, err)
		return
	}
	c.JSON(http.StatusOK, allocation)
}

// FinalizeSettlement freezes the period's computed allocation
func FinalizeSettlement(c *gin.Context) {
	year, month, ok := periodFromParams(c)
	if !ok {
		return
	}

	settlement, err := business.FinalizeSettlement(year, month, actorID(c))
	if err != nil {
		respondBusinessError(c, err)
		return
	}
	c.JSON(http.StatusOK, settlement)
}

// MarkSettlementPaid advances a finalized period to paid
func MarkSettlementPaid(c *gin.Context) {
	year, month, ok := periodFromParams(c)
	if !ok {
		return
	}

	settlement, err := business.MarkSettlementPaid(year, month, actorID(c))
	if err != nil {
		respondBusinessError(c, err)
		return
	}
	c.JSON(http.StatusOK, settlement)
}

// ListSettlements returns persisted settlements, newest period first
// Query parameters: limit (default: 10, max: 100), offset (default: 0)
func ListSettlements(c *gin.Context) {
	limit := 10
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	offset := 0
	if o := c.Query("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	settlements, total, err := business.ListSettlements(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": settlements,
		"pagination": gin.H{
			"limit":       limit,
			"offset":      offset,
			"total_count": total,
		},
	})
}

package handlers

import (
	"net/http"
	"os"
	"time"

	"profitshare/internal/handlers/business"
	"profitshare/pkg/payprocessor"

	"github.com/gin-gonic/gin"
)

// ImportTransactionsRequest represents the request body for a feed import
type ImportTransactionsRequest struct {
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"end_date" binding:"required"`   // YYYY-MM-DD
}

// ImportTransactions pulls the payment-processor feed for a date range and
// ingests it into the ledger. Re-imports are idempotent: transactions already
// in the ledger count as skipped.
func ImportTransactions(c *gin.Context) {
	var request ImportTransactionsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse("2006-01-02", request.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, expected YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", request.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date, expected YYYY-MM-DD"})
		return
	}

	feed := payprocessor.NewClient(os.Getenv("PAYFEED_API_KEY"))
	result, err := business.RunFeedImport(feed, start, end)
	if err != nil {
		respondBusinessError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetRangeReport returns aggregated ledger totals for an ad-hoc date range
// Query parameters: start_date, end_date (YYYY-MM-DD, at most 366 days apart)
func GetRangeReport(c *gin.Context) {
	start, end, ok := dateRangeFromQuery(c)
	if !ok {
		return
	}

	totals, err := business.AggregateRange(start, end)
	if err != nil {
		respondBusinessError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"start_date": start.Format("2006-01-02"),
		"end_date":   end.Format("2006-01-02"),
		"totals":     totals,
	})
}

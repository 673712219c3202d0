package handlers

import (
	"net/http"
	"strconv"
	"time"

	"profitshare/internal/handlers/business"
	"profitshare/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest represents the request body for a manual expense entry
type CreateExpenseRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	OccurredOn   string          `json:"occurred_on" binding:"required"` // YYYY-MM-DD
	Category     string          `json:"category" binding:"required"`
	Description  string          `json:"description"`
	ContractorID *string         `json:"contractor_id"`
}

// CreateExpense records a manual expense entry; it stays pending until
// reviewed and does not affect settlement totals before approval
func CreateExpense(c *gin.Context) {
	var request CreateExpenseRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	occurredOn, err := time.Parse("2006-01-02", request.OccurredOn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid occurred_on, expected YYYY-MM-DD"})
		return
	}

	record, err := business.CreateExpense(business.CreateExpenseInput{
		Amount:       request.Amount,
		OccurredOn:   occurredOn,
		Category:     request.Category,
		Description:  request.Description,
		ContractorID: request.ContractorID,
		CreatedBy:    actorID(c),
	})
	if err != nil {
		respondBusinessError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// ReviewExpenseRequest represents the review decision body
type ReviewExpenseRequest struct {
	Action string `json:"action" binding:"required"` // approve or reject
}

// ReviewExpense approves or rejects a pending expense
func ReviewExpense(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request ReviewExpenseRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := business.ReviewExpense(uint(id), request.Action, actorID(c))
	if err != nil {
		respondBusinessError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// ListExpenses returns expense records filtered by query parameters:
// year, month, status
func ListExpenses(c *gin.Context) {
	var filter business.ExpenseFilter
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
	filter.Status = models.ApprovalStatus(c.Query("status"))

	records, err := business.ListExpenses(filter)
	if err != nil {
		respondBusinessError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}

package business

import (
	"errors"
	"fmt"
	"time"

	"profitshare/internal/models"
	dbconfig "profitshare/pkg/config"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateExpenseInput carries one manual expense entry
type CreateExpenseInput struct {
	Amount       decimal.Decimal
	OccurredOn   time.Time
	Category     string
	Description  string
	ContractorID *string
	CreatedBy    string
}

// CreateExpense records a manual expense. It enters the ledger pending and
// only affects period totals once approved.
func CreateExpense(in CreateExpenseInput) (*models.FinancialRecord, error) {
	if !in.Amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Msg: "amount must be positive"}
	}
	if in.Category == "" {
		return nil, &ValidationError{Field: "category", Msg: "category is required"}
	}
	if in.OccurredOn.IsZero() {
		return nil, &ValidationError{Field: "occurred_on", Msg: "occurred_on is required"}
	}
	if in.ContractorID != nil && *in.ContractorID == "" {
		return nil, &ValidationError{Field: "contractor_id", Msg: "contractor_id must not be empty when present"}
	}
	if in.CreatedBy == "" {
		return nil, &ValidationError{Field: "created_by", Msg: "creator is required"}
	}

	record := &models.FinancialRecord{
		Kind:           models.RecordKindExpense,
		Amount:         in.Amount,
		Fee:            decimal.Zero,
		OccurredOn:     in.OccurredOn.UTC().Truncate(24 * time.Hour),
		Category:       in.Category,
		Description:    in.Description,
		ContractorID:   in.ContractorID,
		ApprovalStatus: models.ApprovalStatusPending,
		CreatedBy:      in.CreatedBy,
	}
	if err := dbconfig.DB.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// ReviewExpense transitions a pending expense to approved or rejected.
// Records are immutable once reviewed; a second review is a conflict.
func ReviewExpense(id uint, action string, reviewerID string) (*models.FinancialRecord, error) {
	if action != DecisionApprove && action != DecisionReject {
		return nil, &ValidationError{Field: "action", Msg: "action must be approve or reject"}
	}
	if reviewerID == "" {
		return nil, &ValidationError{Field: "reviewer_id", Msg: "reviewer is required"}
	}

	var record models.FinancialRecord
	err := dbconfig.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&record, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "expense", ID: id}
			}
			return err
		}
		if record.Kind != models.RecordKindExpense {
			return &ValidationError{Field: "id", Msg: fmt.Sprintf("record %d is not an expense", id)}
		}
		if record.ApprovalStatus != models.ApprovalStatusPending {
			return &ConflictError{
				Msg: fmt.Sprintf("expense %d already %s", id, record.ApprovalStatus),
			}
		}

		if action == DecisionApprove {
			record.ApprovalStatus = models.ApprovalStatusApproved
		} else {
			record.ApprovalStatus = models.ApprovalStatusRejected
		}
		if err := tx.Save(&record).Error; err != nil {
			return err
		}

		return tx.Create(&models.AuditLog{
			Actor:   reviewerID,
			Action:  "expense_" + string(record.ApprovalStatus),
			Level:   "INFO",
			Message: fmt.Sprintf("expense %d %s", id, record.ApprovalStatus),
			Meta:    models.JSONMap{"record_id": id, "action": action},
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ExpenseFilter narrows ListExpenses; zero values mean no filter
type ExpenseFilter struct {
	Year   int
	Month  int
	Status models.ApprovalStatus
}

// ListExpenses returns expense records, newest first
func ListExpenses(filter ExpenseFilter) ([]models.FinancialRecord, error) {
	query := dbconfig.DB.Model(&models.FinancialRecord{}).
		Where("kind = ?", models.RecordKindExpense)
	if filter.Year != 0 && filter.Month != 0 {
		p := Period{Year: filter.Year, Month: filter.Month}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		start, end := p.Bounds()
		query = query.Where("occurred_on >= ? AND occurred_on < ?", start, end)
	}
	if filter.Status != "" {
		query = query.Where("approval_status = ?", filter.Status)
	}

	var records []models.FinancialRecord
	if err := query.Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

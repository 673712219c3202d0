package business

import (
	"time"

	"profitshare/internal/models"
	dbconfig "profitshare/pkg/config"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PeriodTotals 统一返回某个结算周期的汇总数据
type PeriodTotals struct {
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TotalFees          decimal.Decimal `json:"total_fees"`
	CompanyExpenses    decimal.Decimal `json:"company_expenses"`
	ContractorExpenses decimal.Decimal `json:"contractor_expenses"`
	TransactionCount   int64           `json:"transaction_count"`
	AverageTransaction decimal.Decimal `json:"average_transaction"`
}

// Aggregate computes totals for one settlement month. Only approved records
// count; pending and rejected expenses never affect totals. An empty month
// yields all-zero totals.
func Aggregate(year, month int) (*PeriodTotals, error) {
	p := Period{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	start, end := p.Bounds()
	return aggregateWindow(dbconfig.DB, start, end)
}

// AggregateRange computes totals for an ad-hoc reporting window
func AggregateRange(start, end time.Time) (*PeriodTotals, error) {
	if err := ValidateDateRange(start, end); err != nil {
		return nil, err
	}
	return aggregateWindow(dbconfig.DB, start, end)
}

// aggregateWindow sums approved ledger rows with occurred_on in [start, end).
// occurred_on holds the processor's settlement date for imported revenue, so
// the window selects by when money settled, not when the row was created.
func aggregateWindow(db *gorm.DB, start, end time.Time) (*PeriodTotals, error) {
	var records []models.FinancialRecord
	if err := db.
		Where("approval_status = ? AND occurred_on >= ? AND occurred_on < ?",
			models.ApprovalStatusApproved, start, end).
		Find(&records).Error; err != nil {
		return nil, err
	}

	totals := &PeriodTotals{
		TotalRevenue:       decimal.Zero,
		TotalFees:          decimal.Zero,
		CompanyExpenses:    decimal.Zero,
		ContractorExpenses: decimal.Zero,
		AverageTransaction: decimal.Zero,
	}

	for i := range records {
		record := &records[i]
		switch record.Kind {
		case models.RecordKindRevenue:
			totals.TotalRevenue = totals.TotalRevenue.Add(record.Amount)
			totals.TotalFees = totals.TotalFees.Add(record.Fee)
			totals.TransactionCount++
		case models.RecordKindExpense:
			if record.IsContractorExpense() {
				totals.ContractorExpenses = totals.ContractorExpenses.Add(record.Amount)
			} else {
				totals.CompanyExpenses = totals.CompanyExpenses.Add(record.Amount)
			}
		}
	}

	if totals.TransactionCount > 0 {
		totals.AverageTransaction = roundHalfUp(
			totals.TotalRevenue.Div(decimal.NewFromInt(totals.TransactionCount)), 2)
	}

	return totals, nil
}

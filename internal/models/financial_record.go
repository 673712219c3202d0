package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordKind 表示账目类型
type RecordKind string

const (
	RecordKindRevenue RecordKind = "revenue"
	RecordKindExpense RecordKind = "expense"
)

// ApprovalStatus for expense review; revenue records are created approved
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// FinancialRecord represents one ledger entry in the financial_records table.
// Revenue rows carry the processor-reported Fee portion; expense rows split
// into company (ContractorID null) vs contractor (ContractorID set).
type FinancialRecord struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	Kind           RecordKind      `gorm:"size:10;not null;index" json:"kind"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Fee            decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"fee"`
	OccurredOn     time.Time       `gorm:"not null;index" json:"occurred_on"`
	Category       string          `gorm:"size:64;not null" json:"category"`
	Description    string          `gorm:"size:255" json:"description"`
	ContractorID   *string         `gorm:"size:64;index" json:"contractor_id"`
	ApprovalStatus ApprovalStatus  `gorm:"size:10;not null;default:'pending';index" json:"approval_status"`
	ExternalRef    *string         `gorm:"size:128;uniqueIndex" json:"external_ref"`
	CreatedBy      string          `gorm:"size:64" json:"created_by"`
	CreatedAt      time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

func (FinancialRecord) TableName() string {
	return "financial_records"
}

// IsContractorExpense reports whether this row counts toward contractor expenses
func (r *FinancialRecord) IsContractorExpense() bool {
	return r.Kind == RecordKindExpense && r.ContractorID != nil
}

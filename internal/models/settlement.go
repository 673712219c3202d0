package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus 结算状态，只能向前推进
type SettlementStatus string

const (
	SettlementStatusDraft     SettlementStatus = "draft"
	SettlementStatusFinalized SettlementStatus = "finalized"
	SettlementStatusPaid      SettlementStatus = "paid"
)

// Settlement is the frozen monthly snapshot. Rows are only written at finalize
// time; draft periods are recomputed on every read and never stored. Status is
// forward-only: finalized -> paid, no way back.
type Settlement struct {
	ID                 uint             `gorm:"primarykey" json:"id"`
	Year               int              `gorm:"not null;uniqueIndex:idx_settlement_period" json:"year"`
	Month              int              `gorm:"not null;uniqueIndex:idx_settlement_period" json:"month"`
	TotalRevenue       decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"total_revenue"`
	TotalFees          decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"total_fees"`
	CompanyExpenses    decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"company_expenses"`
	ContractorExpenses decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"contractor_expenses"`
	TotalExpenses      decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"total_expenses"`
	GrossProfit        decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"gross_profit"`
	NetProfit          decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"net_profit"`
	ProfitMargin       decimal.Decimal  `gorm:"type:decimal(8,4);not null" json:"profit_margin"`
	PartnerAPercent    decimal.Decimal  `gorm:"type:decimal(5,2);not null" json:"partner_a_percent"`
	PartnerAShare      decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"partner_a_share"`
	PartnerBPercent    decimal.Decimal  `gorm:"type:decimal(5,2);not null" json:"partner_b_percent"`
	PartnerBShare      decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"partner_b_share"`
	CompanyResidual    decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"company_residual"`
	Status             SettlementStatus `gorm:"size:10;not null;default:'finalized';index" json:"status"`
	FinalizedBy        string           `gorm:"size:64;not null" json:"finalized_by"`
	FinalizedAt        *time.Time       `json:"finalized_at"`
	PaidAt             *time.Time       `json:"paid_at"`
	CreatedAt          time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Settlement) TableName() string {
	return "settlements"
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Exactly two contractor roles are entitled to a monthly profit share.
const (
	PartnerA = "partner_a"
	PartnerB = "partner_b"
)

// ProfitPartners lists the well-known partner identifiers in display order
var ProfitPartners = []string{PartnerA, PartnerB}

// BasisSharePercent is the default share percentage used when no approved
// adjustment exists for a (partner, period).
var BasisSharePercent = decimal.NewFromInt(30)

// AdjustmentType 表示分成比例调整的发起方式
type AdjustmentType string

const (
	AdjustmentTypeSelfReduction AdjustmentType = "self_reduction"
	AdjustmentTypeAdminProposal AdjustmentType = "admin_proposal"
	AdjustmentTypePeerProposal  AdjustmentType = "peer_proposal"
)

// AdjustmentStatus lifecycle: pending -> approved|rejected (terminal)
type AdjustmentStatus string

const (
	AdjustmentStatusPending  AdjustmentStatus = "pending"
	AdjustmentStatusApproved AdjustmentStatus = "approved"
	AdjustmentStatusRejected AdjustmentStatus = "rejected"
)

// RevenueShareAdjustment is a request to change one partner's share percent
// for one settlement period. At most one pending row may exist per
// (target_partner_id, year, month); the partial unique index lives in
// migrations/0001_init_indexes.up.sql.
type RevenueShareAdjustment struct {
	ID              uint             `gorm:"primarykey" json:"id"`
	Year            int              `gorm:"not null;index:idx_adjustment_period" json:"year"`
	Month           int              `gorm:"not null;index:idx_adjustment_period" json:"month"`
	AdjustmentType  AdjustmentType   `gorm:"size:20;not null" json:"adjustment_type"`
	TargetPartnerID string           `gorm:"size:32;not null;index" json:"target_partner_id"`
	OriginalPercent decimal.Decimal  `gorm:"type:decimal(5,2);not null" json:"original_percent"`
	ProposedPercent decimal.Decimal  `gorm:"type:decimal(5,2);not null" json:"proposed_percent"`
	Reason          string           `gorm:"type:text" json:"reason"`
	ProposedBy      string           `gorm:"size:64;not null" json:"proposed_by"`
	ApprovedBy      *string          `gorm:"size:64" json:"approved_by"`
	Status          AdjustmentStatus `gorm:"size:10;not null;default:'pending';index" json:"status"`
	CreatedAt       time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

func (RevenueShareAdjustment) TableName() string {
	return "revenue_share_adjustments"
}

// IsKnownPartner reports whether id is one of the two profit partners
func IsKnownPartner(id string) bool {
	return id == PartnerA || id == PartnerB
}

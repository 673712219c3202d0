package business

import (
	"errors"
	"time"

	"profitshare/internal/models"
	dbconfig "profitshare/pkg/config"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PartnerAllocation is one partner's resolved slice of a period
type PartnerAllocation struct {
	PartnerID string          `json:"partner_id"`
	Percent   decimal.Decimal `json:"percent"`
	Share     decimal.Decimal `json:"share"`
}

// Allocation is the full profit breakdown for a settlement period. While the
// period is draft it is recomputed from the ledger on every read; once
// finalized it mirrors the frozen Settlement row.
type Allocation struct {
	Year               int                     `json:"year"`
	Month              int                     `json:"month"`
	TotalRevenue       decimal.Decimal         `json:"total_revenue"`
	TotalFees          decimal.Decimal         `json:"total_fees"`
	CompanyExpenses    decimal.Decimal         `json:"company_expenses"`
	ContractorExpenses decimal.Decimal         `json:"contractor_expenses"`
	TotalExpenses      decimal.Decimal         `json:"total_expenses"`
	GrossProfit        decimal.Decimal         `json:"gross_profit"`
	NetProfit          decimal.Decimal         `json:"net_profit"`
	ProfitMargin       decimal.Decimal         `json:"profit_margin"`
	Partners           []PartnerAllocation     `json:"partners"`
	CompanyResidual    decimal.Decimal         `json:"company_residual"`
	Status             models.SettlementStatus `json:"status"`
	FinalizedBy        string                  `json:"finalized_by,omitempty"`
	FinalizedAt        *time.Time              `json:"finalized_at,omitempty"`
	PaidAt             *time.Time              `json:"paid_at,omitempty"`
}

// Allocate computes the draft allocation for one settlement month. The result
// is deterministic for a fixed ledger snapshot and adjustment history: same
// inputs, bit-identical output.
func Allocate(year, month int) (*Allocation, error) {
	return allocate(dbconfig.DB, year, month)
}

func allocate(db *gorm.DB, year, month int) (*Allocation, error) {
	p := Period{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	start, end := p.Bounds()

	totals, err := aggregateWindow(db, start, end)
	if err != nil {
		return nil, err
	}

	grossProfit := totals.TotalRevenue.Sub(totals.TotalFees)
	totalExpenses := totals.CompanyExpenses.Add(totals.ContractorExpenses)
	netProfit := grossProfit.Sub(totalExpenses)

	profitMargin := decimal.Zero
	if !totals.TotalRevenue.IsZero() {
		profitMargin = netProfit.Div(totals.TotalRevenue).Round(4)
	}

	allocation := &Allocation{
		Year:               year,
		Month:              month,
		TotalRevenue:       totals.TotalRevenue,
		TotalFees:          totals.TotalFees,
		CompanyExpenses:    totals.CompanyExpenses,
		ContractorExpenses: totals.ContractorExpenses,
		TotalExpenses:      totalExpenses,
		GrossProfit:        grossProfit,
		NetProfit:          netProfit,
		ProfitMargin:       profitMargin,
		Status:             models.SettlementStatusDraft,
	}

	shareSum := decimal.Zero
	for _, partnerID := range models.ProfitPartners {
		percent, err := resolvePartnerPercent(db, partnerID, year, month)
		if err != nil {
			return nil, err
		}
		// percent has at most two decimals, so shifting instead of dividing
		// keeps the product exact before rounding.
		share := roundHalfUp(netProfit.Mul(percent).Shift(-2), 2)
		allocation.Partners = append(allocation.Partners, PartnerAllocation{
			PartnerID: partnerID,
			Percent:   percent,
			Share:     share,
		})
		shareSum = shareSum.Add(share)
	}
	allocation.CompanyResidual = netProfit.Sub(shareSum)

	return allocation, nil
}

// ResolvePartnerPercent returns the effective share percent for a partner and
// period: the latest approved adjustment, or the 30 percent basis if none.
func ResolvePartnerPercent(partnerID string, year, month int) (decimal.Decimal, error) {
	return resolvePartnerPercent(dbconfig.DB, partnerID, year, month)
}

func resolvePartnerPercent(db *gorm.DB, partnerID string, year, month int) (decimal.Decimal, error) {
	if !models.IsKnownPartner(partnerID) {
		return decimal.Zero, &ValidationError{Field: "partner_id", Msg: "unknown partner " + partnerID}
	}

	var adjustment models.RevenueShareAdjustment
	err := db.
		Where("target_partner_id = ? AND year = ? AND month = ? AND status = ?",
			partnerID, year, month, models.AdjustmentStatusApproved).
		Order("id DESC").
		First(&adjustment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.BasisSharePercent, nil
		}
		return decimal.Zero, err
	}
	return adjustment.ProposedPercent, nil
}

// roundHalfUp rounds to the given number of decimal places with ties going
// toward positive infinity, e.g. 2.125 -> 2.13 and -2.125 -> -2.12.
// shopspring's Round is half-away-from-zero, which differs on negative ties.
func roundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Shift(places).Add(decimal.New(5, -1)).Floor().Shift(-places)
}

package business

import (
	"errors"
	"fmt"
	"time"

	"profitshare/internal/models"
	dbconfig "profitshare/pkg/config"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SettlementEventQueue receives finalize/paid events for the outbound
// notification collaborator.
const SettlementEventQueue = "settlement_events"

// SettlementEvent is the queue payload published after a lifecycle change
type SettlementEvent struct {
	Event     string `json:"event"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Status    string `json:"status"`
	NetProfit string `json:"net_profit"`
	Actor     string `json:"actor"`
}

// GetAllocation returns the allocation for a period: the frozen snapshot once
// the period is finalized or paid, otherwise a side-effect-free draft computed
// from the ledger.
func GetAllocation(year, month int) (*Allocation, error) {
	p := Period{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var settlement models.Settlement
	err := dbconfig.DB.Where("year = ? AND month = ?", year, month).First(&settlement).Error
	if err == nil {
		return allocationFromSettlement(&settlement), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return Allocate(year, month)
}

// allocationFromSettlement maps a frozen row back onto the Allocation shape
func allocationFromSettlement(s *models.Settlement) *Allocation {
	return &Allocation{
		Year:               s.Year,
		Month:              s.Month,
		TotalRevenue:       s.TotalRevenue,
		TotalFees:          s.TotalFees,
		CompanyExpenses:    s.CompanyExpenses,
		ContractorExpenses: s.ContractorExpenses,
		TotalExpenses:      s.TotalExpenses,
		GrossProfit:        s.GrossProfit,
		NetProfit:          s.NetProfit,
		ProfitMargin:       s.ProfitMargin,
		Partners: []PartnerAllocation{
			{PartnerID: models.PartnerA, Percent: s.PartnerAPercent, Share: s.PartnerAShare},
			{PartnerID: models.PartnerB, Percent: s.PartnerBPercent, Share: s.PartnerBShare},
		},
		CompanyResidual: s.CompanyResidual,
		Status:          s.Status,
		FinalizedBy:     s.FinalizedBy,
		FinalizedAt:     s.FinalizedAt,
		PaidAt:          s.PaidAt,
	}
}

// FinalizeSettlement freezes a draft period. Preconditions checked inside the
// transaction: no settlement row exists yet for the period, and no pending
// adjustments remain. The unique index on (year, month) makes the loser of a
// concurrent finalize fail instead of double-writing.
func FinalizeSettlement(year, month int, actorID string) (*models.Settlement, error) {
	p := Period{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if actorID == "" {
		return nil, &ValidationError{Field: "actor_id", Msg: "actor is required"}
	}

	var settlement *models.Settlement
	err := dbconfig.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Settlement
		err := tx.Where("year = ? AND month = ?", year, month).First(&existing).Error
		if err == nil {
			return &ConflictError{
				Msg:   fmt.Sprintf("period %s is already %s", p, existing.Status),
				Year:  year,
				Month: month,
			}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		pending, err := countPendingAdjustments(tx, year, month, "")
		if err != nil {
			return err
		}
		if pending > 0 {
			return &PreconditionError{
				Msg:                fmt.Sprintf("%d pending adjustments must be resolved before finalizing %s", pending, p),
				Year:               year,
				Month:              month,
				PendingAdjustments: pending,
			}
		}

		allocation, err := allocate(tx, year, month)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		settlement = &models.Settlement{
			Year:               year,
			Month:              month,
			TotalRevenue:       allocation.TotalRevenue,
			TotalFees:          allocation.TotalFees,
			CompanyExpenses:    allocation.CompanyExpenses,
			ContractorExpenses: allocation.ContractorExpenses,
			TotalExpenses:      allocation.TotalExpenses,
			GrossProfit:        allocation.GrossProfit,
			NetProfit:          allocation.NetProfit,
			ProfitMargin:       allocation.ProfitMargin,
			PartnerAPercent:    allocation.Partners[0].Percent,
			PartnerAShare:      allocation.Partners[0].Share,
			PartnerBPercent:    allocation.Partners[1].Percent,
			PartnerBShare:      allocation.Partners[1].Share,
			CompanyResidual:    allocation.CompanyResidual,
			Status:             models.SettlementStatusFinalized,
			FinalizedBy:        actorID,
			FinalizedAt:        &now,
		}
		if err := tx.Create(settlement).Error; err != nil {
			// A concurrent finalize may have won the unique index race
			// between our existence check and this insert.
			var again models.Settlement
			if tx.Where("year = ? AND month = ?", year, month).First(&again).Error == nil {
				return &ConflictError{
					Msg:   fmt.Sprintf("period %s was finalized concurrently", p),
					Year:  year,
					Month: month,
				}
			}
			return err
		}

		return tx.Create(&models.AuditLog{
			Actor:   actorID,
			Action:  "settlement_finalized",
			Level:   "INFO",
			Message: fmt.Sprintf("settlement %s finalized", p),
			Meta: models.JSONMap{
				"year":       year,
				"month":      month,
				"net_profit": allocation.NetProfit.String(),
			},
		}).Error
	})
	if err != nil {
		return nil, err
	}

	publishSettlementEvent("settlement_finalized", settlement, actorID)
	return settlement, nil
}

// MarkSettlementPaid advances a finalized period to paid. Monetary fields are
// never recomputed; only PaidAt is stamped.
func MarkSettlementPaid(year, month int, actorID string) (*models.Settlement, error) {
	p := Period{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if actorID == "" {
		return nil, &ValidationError{Field: "actor_id", Msg: "actor is required"}
	}

	var settlement models.Settlement
	err := dbconfig.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("year = ? AND month = ?", year, month).First(&settlement).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &PreconditionError{
				Msg:            fmt.Sprintf("period %s has not been finalized", p),
				Year:           year,
				Month:          month,
				CurrentStatus:  string(models.SettlementStatusDraft),
				RequiredStatus: string(models.SettlementStatusFinalized),
			}
		}
		if err != nil {
			return err
		}

		if settlement.Status == models.SettlementStatusPaid {
			return &ConflictError{
				Msg:   fmt.Sprintf("period %s is already paid", p),
				Year:  year,
				Month: month,
			}
		}
		if settlement.Status != models.SettlementStatusFinalized {
			return &PreconditionError{
				Msg:            fmt.Sprintf("period %s is %s, expected finalized", p, settlement.Status),
				Year:           year,
				Month:          month,
				CurrentStatus:  string(settlement.Status),
				RequiredStatus: string(models.SettlementStatusFinalized),
			}
		}

		now := time.Now().UTC()
		settlement.Status = models.SettlementStatusPaid
		settlement.PaidAt = &now
		if err := tx.Save(&settlement).Error; err != nil {
			return err
		}

		return tx.Create(&models.AuditLog{
			Actor:   actorID,
			Action:  "settlement_paid",
			Level:   "INFO",
			Message: fmt.Sprintf("settlement %s marked paid", p),
			Meta:    models.JSONMap{"year": year, "month": month},
		}).Error
	})
	if err != nil {
		return nil, err
	}

	publishSettlementEvent("settlement_paid", &settlement, actorID)
	return &settlement, nil
}

// ListSettlements returns persisted settlements newest first with the total
// row count for pagination.
func ListSettlements(limit, offset int) ([]models.Settlement, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := dbconfig.DB.Model(&models.Settlement{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var settlements []models.Settlement
	if err := dbconfig.DB.
		Order("year DESC, month DESC").
		Limit(limit).
		Offset(offset).
		Find(&settlements).Error; err != nil {
		return nil, 0, err
	}
	return settlements, total, nil
}

// publishSettlementEvent notifies the email collaborator through RabbitMQ.
// Best effort: the settlement row is already committed, so a broker outage
// only costs the notification, not the state change.
func publishSettlementEvent(event string, s *models.Settlement, actorID string) {
	if dbconfig.RabbitMQ == nil {
		return
	}
	publisher, err := dbconfig.NewPublisher()
	if err != nil {
		logrus.Warnf("settlement event publisher unavailable: %v", err)
		return
	}
	defer publisher.Close()

	err = publisher.Publish(SettlementEventQueue, SettlementEvent{
		Event:     event,
		Year:      s.Year,
		Month:     s.Month,
		Status:    string(s.Status),
		NetProfit: s.NetProfit.String(),
		Actor:     actorID,
	})
	if err != nil {
		logrus.Warnf("failed to publish %s event for %04d-%02d: %v", event, s.Year, s.Month, err)
	}
}

package business

import (
	"errors"
	"fmt"

	"profitshare/internal/models"
	dbconfig "profitshare/pkg/config"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Decision actions accepted by DecideAdjustment
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// ProposeAdjustmentInput carries one share-percent change request
type ProposeAdjustmentInput struct {
	Year            int
	Month           int
	AdjustmentType  models.AdjustmentType
	TargetPartnerID string
	ProposedPercent decimal.Decimal
	Reason          string
	ProposedBy      string
}

func (in *ProposeAdjustmentInput) validate() error {
	if err := (Period{Year: in.Year, Month: in.Month}).Validate(); err != nil {
		return err
	}
	if !models.IsKnownPartner(in.TargetPartnerID) {
		return &ValidationError{Field: "target_partner_id", Msg: "unknown partner " + in.TargetPartnerID}
	}
	switch in.AdjustmentType {
	case models.AdjustmentTypeSelfReduction, models.AdjustmentTypeAdminProposal, models.AdjustmentTypePeerProposal:
	default:
		return &ValidationError{Field: "adjustment_type", Msg: "unknown adjustment type " + string(in.AdjustmentType)}
	}
	if in.ProposedPercent.IsNegative() || in.ProposedPercent.GreaterThan(models.BasisSharePercent) {
		return &ValidationError{
			Field: "proposed_percent",
			Msg:   fmt.Sprintf("proposed percent %s outside [0, %s]", in.ProposedPercent, models.BasisSharePercent),
		}
	}
	if in.ProposedBy == "" {
		return &ValidationError{Field: "proposed_by", Msg: "proposer is required"}
	}
	return nil
}

// ProposeAdjustment creates a share-percent change request. Self-reductions
// may only be submitted by the target partner and are created already
// approved; admin and peer proposals are created pending. A period may hold
// at most one pending request per partner, re-checked inside the transaction
// so concurrent proposers cannot both succeed.
func ProposeAdjustment(in ProposeAdjustmentInput) (*models.RevenueShareAdjustment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.AdjustmentType == models.AdjustmentTypeSelfReduction && in.ProposedBy != in.TargetPartnerID {
		return nil, &AuthorizationError{
			Msg: "self reduction may only be submitted by the target partner",
		}
	}

	adjustment := &models.RevenueShareAdjustment{
		Year:            in.Year,
		Month:           in.Month,
		AdjustmentType:  in.AdjustmentType,
		TargetPartnerID: in.TargetPartnerID,
		OriginalPercent: models.BasisSharePercent,
		ProposedPercent: in.ProposedPercent,
		Reason:          in.Reason,
		ProposedBy:      in.ProposedBy,
		Status:          models.AdjustmentStatusPending,
	}
	if in.AdjustmentType == models.AdjustmentTypeSelfReduction {
		approver := in.ProposedBy
		adjustment.Status = models.AdjustmentStatusApproved
		adjustment.ApprovedBy = &approver
	}

	err := dbconfig.DB.Transaction(func(tx *gorm.DB) error {
		pending, err := countPendingAdjustments(tx, in.Year, in.Month, in.TargetPartnerID)
		if err != nil {
			return err
		}
		if pending > 0 {
			return &ConflictError{
				Msg:   fmt.Sprintf("a pending adjustment already exists for %s in %04d-%02d", in.TargetPartnerID, in.Year, in.Month),
				Year:  in.Year,
				Month: in.Month,
			}
		}
		if err := tx.Create(adjustment).Error; err != nil {
			// A concurrent proposer may have inserted a pending row between
			// the count and this insert; the partial unique index turns that
			// into an error here, which is a conflict, not a failure.
			var again int64
			if tx.Model(&models.RevenueShareAdjustment{}).
				Where("year = ? AND month = ? AND target_partner_id = ? AND status = ?",
					in.Year, in.Month, in.TargetPartnerID, models.AdjustmentStatusPending).
				Count(&again).Error == nil && again > 0 {
				return &ConflictError{
					Msg:   fmt.Sprintf("a pending adjustment for %s in %04d-%02d was proposed concurrently", in.TargetPartnerID, in.Year, in.Month),
					Year:  in.Year,
					Month: in.Month,
				}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return adjustment, nil
}

// DecideAdjustment resolves one pending adjustment into a terminal state.
// The pending precondition is re-checked in the same transaction that writes
// the terminal status, so two concurrent decisions cannot both land.
// ApprovedBy records who made the call for both outcomes.
func DecideAdjustment(id uint, action string, approverID string) (*models.RevenueShareAdjustment, error) {
	if action != DecisionApprove && action != DecisionReject {
		return nil, &ValidationError{Field: "action", Msg: "action must be approve or reject"}
	}
	if approverID == "" {
		return nil, &ValidationError{Field: "approver_id", Msg: "approver is required"}
	}

	var adjustment models.RevenueShareAdjustment
	err := dbconfig.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&adjustment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "adjustment", ID: id}
			}
			return err
		}
		if adjustment.Status != models.AdjustmentStatusPending {
			return &ConflictError{
				Msg:          fmt.Sprintf("adjustment %d already %s", id, adjustment.Status),
				AdjustmentID: id,
			}
		}

		if action == DecisionApprove {
			adjustment.Status = models.AdjustmentStatusApproved
		} else {
			adjustment.Status = models.AdjustmentStatusRejected
		}
		adjustment.ApprovedBy = &approverID
		if err := tx.Save(&adjustment).Error; err != nil {
			return err
		}

		return tx.Create(&models.AuditLog{
			Actor:   approverID,
			Action:  "adjustment_" + string(adjustment.Status),
			Level:   "INFO",
			Message: fmt.Sprintf("adjustment %d for %s %04d-%02d %s", id, adjustment.TargetPartnerID, adjustment.Year, adjustment.Month, adjustment.Status),
			Meta: models.JSONMap{
				"adjustment_id":    id,
				"target_partner":   adjustment.TargetPartnerID,
				"proposed_percent": adjustment.ProposedPercent.String(),
				"action":           action,
			},
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &adjustment, nil
}

// AdjustmentFilter narrows ListAdjustments; zero values mean no filter
type AdjustmentFilter struct {
	Year            int
	Month           int
	Status          models.AdjustmentStatus
	TargetPartnerID string
}

// ListAdjustments returns the adjustment history, newest first
func ListAdjustments(filter AdjustmentFilter) ([]models.RevenueShareAdjustment, error) {
	query := dbconfig.DB.Model(&models.RevenueShareAdjustment{})
	if filter.Year != 0 {
		query = query.Where("year = ?", filter.Year)
	}
	if filter.Month != 0 {
		query = query.Where("month = ?", filter.Month)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TargetPartnerID != "" {
		query = query.Where("target_partner_id = ?", filter.TargetPartnerID)
	}

	var adjustments []models.RevenueShareAdjustment
	if err := query.Order("id DESC").Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// countPendingAdjustments counts pending rows for a period; partnerID narrows
// to one partner when non-empty.
func countPendingAdjustments(db *gorm.DB, year, month int, partnerID string) (int64, error) {
	query := db.Model(&models.RevenueShareAdjustment{}).
		Where("year = ? AND month = ? AND status = ?", year, month, models.AdjustmentStatusPending)
	if partnerID != "" {
		query = query.Where("target_partner_id = ?", partnerID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}
